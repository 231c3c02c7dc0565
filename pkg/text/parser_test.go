package text

import (
	"strings"
	"testing"
)

// runStringTransformationTest is a helper to run tests for string transformation functions.
func runStringTransformationTest(t *testing.T, testName string,
	transformFunc func(string) string, testCases []struct {
		name     string
		input    string
		expected string
	}) {
	t.Helper()
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			result := transformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("%s() = %q, want %q", testName, result, tt.expected)
			}
		})
	}
}

func TestParser_ParseMessage(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name    string
		input   string
		links   []string
		skipped []string
	}{
		{
			name:  "Yandex track link",
			input: "Check this out: https://music.yandex.ru/album/5605637/track/42445828",
			links: []string{"https://music.yandex.ru/album/5605637/track/42445828"},
		},
		{
			name:  "Yandex playlist with tracking",
			input: "https://music.yandex.com/users/someone/playlists/3?utm_source=web&utm_medium=copy_link",
			links: []string{"https://music.yandex.com/users/someone/playlists/3"},
		},
		{
			name:  "Repeated links collapse",
			input: "https://music.yandex.ru/album/1 and again https://music.yandex.ru/album/1, plus https://music.yandex.ru/track/2!",
			links: []string{"https://music.yandex.ru/album/1", "https://music.yandex.ru/track/2"},
		},
		{
			name:    "Other link is skipped",
			input:   "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			skipped: []string{"https://www.youtube.com/watch?v=dQw4w9WgXcQ"},
		},
		{
			name:    "Foreign host with Yandex path is skipped",
			input:   "https://open.spotify.com/track/1 https://music.yandex.ru/track/1",
			links:   []string{"https://music.yandex.ru/track/1"},
			skipped: []string{"https://open.spotify.com/track/1"},
		},
		{
			name:    "Yandex artist page is not resolvable",
			input:   "https://music.yandex.ru/artist/9367 https://music.yandex.ru/artist/9367",
			skipped: []string{"https://music.yandex.ru/artist/9367"},
		},
		{name: "Free text", input: "play something by kino"},
		{name: "Empty message", input: ""},
		{name: "Whitespace only", input: "   \n\t  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parser.ParseMessage(tt.input)

			if strings.Join(result.Links, " ") != strings.Join(tt.links, " ") {
				t.Errorf("ParseMessage() Links = %v, want %v", result.Links, tt.links)
			}
			if strings.Join(result.Skipped, " ") != strings.Join(tt.skipped, " ") {
				t.Errorf("ParseMessage() Skipped = %v, want %v", result.Skipped, tt.skipped)
			}
		})
	}
}

func TestParser_ExtractLinks(t *testing.T) {
	parser := NewParser()

	// Fullwidth characters fold under NFKC.
	links := parser.ExtractLinks("слушай https://music.yandex.ru/track/１２３ сейчас")
	if len(links) != 1 || links[0] != "https://music.yandex.ru/track/123" {
		t.Errorf("ExtractLinks() = %v", links)
	}
}

func TestParser_normalizeText(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Basic text", input: "hello world", expected: "hello world"},
		{name: "Multiple spaces", input: "hello    world", expected: "hello world"},
		{name: "Leading and trailing whitespace", input: "  hello world  ", expected: "hello world"},
		{name: "Multiple lines", input: "hello\n\nworld\n", expected: "hello world"},
		{name: "Mixed whitespace", input: " hello \t\n world \r\n ", expected: "hello world"},
		{name: "Compatibility forms", input: "ｈｅｌｌｏ", expected: "hello"},
	}

	runStringTransformationTest(t, "normalizeText", parser.normalizeText, tests)
}

func TestParser_cleanURL(t *testing.T) {
	parser := NewParser()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Clean URL",
			input:    "https://music.yandex.ru/album/123",
			expected: "https://music.yandex.ru/album/123",
		},
		{
			name:     "URL with UTM parameters",
			input:    "https://example.com?utm_source=test&utm_medium=social&other=keep",
			expected: "https://example.com?other=keep",
		},
		{
			name:     "URL with trailing punctuation",
			input:    "https://example.com!",
			expected: "https://example.com",
		},
		{
			name:     "URL with multiple trailing punctuation",
			input:    "https://example.com.,!?;",
			expected: "https://example.com",
		},
		{
			name:     "URL closing a parenthesis",
			input:    "https://music.yandex.ru/track/5)",
			expected: "https://music.yandex.ru/track/5",
		},
		{
			name:     "Invalid URL",
			input:    "not-a-url",
			expected: "",
		},
	}

	runStringTransformationTest(t, "cleanURL", parser.cleanURL, tests)
}
