package i18n

import (
	"sort"
	"strings"
	"testing"
)

// pipelineKeys are the keys the resolver hosts render; every language must carry them.
var pipelineKeys = []string{
	"error.generic",
	"error.missing_url",
	"error.not_recognized",
	"error.track_not_found",
	"error.collection_not_found",
	"error.collection_empty",
	"error.transport",
	"error.invalid_payload",
	"error.stream_unavailable",
	"error.nothing_playable",
	"error.rate_limited",
	"error.queue_full",
	"success.track",
	"success.collection",
	"success.partial",
	"success.queued",
}

func sortedKeys(messages map[string]string) []string {
	keys := make([]string, 0, len(messages))
	for key := range messages {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func TestMessages_SameKeysInEveryLanguage(t *testing.T) {
	reference := sortedKeys(getMessages(DefaultLanguage))
	want := append([]string(nil), pipelineKeys...)
	sort.Strings(want)

	if strings.Join(reference, ",") != strings.Join(want, ",") {
		t.Errorf("%s keys = %v, want %v", DefaultLanguage, reference, want)
	}

	for _, lang := range GetSupportedLanguages() {
		t.Run(lang, func(t *testing.T) {
			if got := sortedKeys(getMessages(lang)); strings.Join(got, ",") != strings.Join(reference, ",") {
				t.Errorf("%s keys = %v, want %v", lang, got, reference)
			}
		})
	}
}

func TestMessages_Placeholders(t *testing.T) {
	verbs := map[string]string{
		"success.track":      "%s%s", // artist, title
		"success.collection": "%s%d", // title, track count
		"success.partial":    "%d%d", // unavailable, total
		"success.queued":     "%d%d", // added, duplicates
	}

	for _, lang := range GetSupportedLanguages() {
		for key, message := range getMessages(lang) {
			var got strings.Builder
			for i := 0; i < len(message)-1; i++ {
				if message[i] == '%' {
					got.WriteString(message[i : i+2])
					i++
				}
			}
			if got.String() != verbs[key] {
				t.Errorf("%s %s verbs = %q, want %q (%s)", lang, key, got.String(), verbs[key], message)
			}
		}
	}
}

func TestLocalizer_T(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		args []interface{}
		want string
	}{
		{
			name: "English track summary",
			lang: DefaultLanguage,
			key:  "success.track",
			args: []interface{}{"Кино", "Группа крови"},
			want: "Кино - Группа крови",
		},
		{
			name: "English album summary",
			lang: DefaultLanguage,
			key:  "success.collection",
			args: []interface{}{"Группа крови", 11},
			want: "Группа крови: 11 tracks",
		},
		{
			name: "Russian partial notice",
			lang: RussianLanguage,
			key:  "success.partial",
			args: []interface{}{2, 11},
			want: "2 из 11 треков недоступны и пропущены.",
		},
		{
			name: "Russian failure",
			lang: RussianLanguage,
			key:  "error.track_not_found",
			want: "Трек не найден на Яндекс Музыке.",
		},
		{
			name: "Unknown language uses English",
			lang: "de",
			key:  "error.collection_empty",
			want: "This album or playlist has no tracks.",
		},
		{
			name: "Unknown key is returned as is",
			lang: RussianLanguage,
			key:  "error.not_a_key",
			want: "error.not_a_key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLocalizer(tt.lang).T(tt.key, tt.args...); got != tt.want {
				t.Errorf("T(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLocalizer_Language(t *testing.T) {
	if got := NewLocalizer(RussianLanguage).Language(); got != RussianLanguage {
		t.Errorf("Language() = %q, want %q", got, RussianLanguage)
	}
}

func TestGetSupportedLanguages(t *testing.T) {
	languages := GetSupportedLanguages()
	if len(languages) != 2 || languages[0] != DefaultLanguage || languages[1] != RussianLanguage {
		t.Errorf("GetSupportedLanguages() = %v", languages)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := []struct {
		header   string
		fallback string
		expected string
	}{
		{header: "", fallback: DefaultLanguage, expected: DefaultLanguage},
		{header: "", fallback: RussianLanguage, expected: RussianLanguage},
		{header: "ru-RU,ru;q=0.9,en;q=0.8", fallback: DefaultLanguage, expected: RussianLanguage},
		{header: "en-GB,en;q=0.9", fallback: RussianLanguage, expected: DefaultLanguage},
		{header: "de-DE", fallback: RussianLanguage, expected: RussianLanguage},
		{header: "\x00garbage;;;q=x", fallback: DefaultLanguage, expected: DefaultLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.header+"/"+tt.fallback, func(t *testing.T) {
			if got := MatchLanguage(tt.header, tt.fallback); got != tt.expected {
				t.Errorf("MatchLanguage(%q, %q) = %q, want %q", tt.header, tt.fallback, got, tt.expected)
			}
		})
	}
}

func BenchmarkLocalizer_Summary(b *testing.B) {
	localizer := NewLocalizer(RussianLanguage)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = localizer.T("success.collection", "Группа крови", 11)
	}
}
