package musiclink

import (
	"errors"
	"testing"
)

func TestParse_RecognizedShapes(t *testing.T) {
	t.Helper()

	tests := []struct {
		name     string
		url      string
		expected LinkDescriptor
	}{
		{
			name: "Album",
			url:  "https://music.yandex.ru/album/5307396",
			expected: LinkDescriptor{
				Kind: KindAlbum, OriginalURL: "https://music.yandex.ru/album/5307396", AlbumID: "5307396",
			},
		},
		{
			name: "Track within album",
			url:  "https://music.yandex.com/album/10030/track/38634572",
			expected: LinkDescriptor{
				Kind: KindTrack, OriginalURL: "https://music.yandex.com/album/10030/track/38634572",
				AlbumID: "10030", TrackID: "38634572",
			},
		},
		{
			name: "Bare track",
			url:  "https://music.yandex.ru/track/123",
			expected: LinkDescriptor{
				Kind: KindTrack, OriginalURL: "https://music.yandex.ru/track/123", TrackID: "123",
			},
		},
		{
			name: "User playlist",
			url:  "https://music.yandex.ru/users/alexander.tsimbalistiy/playlists/1000",
			expected: LinkDescriptor{
				Kind: KindPlaylist, OriginalURL: "https://music.yandex.ru/users/alexander.tsimbalistiy/playlists/1000",
				OwnerID: "alexander.tsimbalistiy", PlaylistID: "1000",
			},
		},
		{
			name: "Trailing slash and extra segments are ignored",
			url:  "https://music.yandex.ru/album/5307396/track/42445828/lyrics/",
			expected: LinkDescriptor{
				Kind: KindTrack, OriginalURL: "https://music.yandex.ru/album/5307396/track/42445828/lyrics/",
				AlbumID: "5307396", TrackID: "42445828",
			},
		},
		{
			name: "Double slashes are dropped",
			url:  "https://music.yandex.ru//album//5307396",
			expected: LinkDescriptor{
				Kind: KindAlbum, OriginalURL: "https://music.yandex.ru//album//5307396", AlbumID: "5307396",
			},
		},
		{
			name: "Query string is ignored",
			url:  "https://music.yandex.ru/album/5307396?utm_source=share",
			expected: LinkDescriptor{
				Kind: KindAlbum, OriginalURL: "https://music.yandex.ru/album/5307396?utm_source=share", AlbumID: "5307396",
			},
		},
		{
			name: "Leading zeros are preserved",
			url:  "https://music.yandex.ru/track/000123",
			expected: LinkDescriptor{
				Kind: KindTrack, OriginalURL: "https://music.yandex.ru/track/000123", TrackID: "000123",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.url)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("Parse() = %+v, want %+v", got, tt.expected)
			}
			if err := got.Validate(); err != nil {
				t.Errorf("Parse() returned invalid descriptor: %v", err)
			}
		})
	}
}

func TestParse_SubdomainsAreTransparent(t *testing.T) {
	t.Helper()

	want, err := Parse("https://music.yandex.ru/track/123")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, url := range []string{
		"https://m.music.yandex.ru/track/123",
		"https://www.music.yandex.ru/track/123",
	} {
		got, err := Parse(url)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", url, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %+v, want %+v", url, got, want)
		}
	}
}

func TestParse_NotRecognized(t *testing.T) {
	t.Helper()

	tests := []struct {
		name string
		url  string
	}{
		{name: "Unknown path", url: "https://example.com/not-a-music-link"},
		{name: "Empty string", url: ""},
		{name: "Root path", url: "https://music.yandex.ru/"},
		{name: "Kind token without id", url: "https://music.yandex.ru/album"},
		{name: "Track without id", url: "https://music.yandex.ru/track/"},
		{name: "Non-numeric album id", url: "https://music.yandex.ru/album/abc"},
		{name: "Album track without track id", url: "https://music.yandex.ru/album/10030/track"},
		{name: "Non-numeric track id in album", url: "https://music.yandex.ru/album/10030/track/xyz"},
		{name: "Playlist without playlist id", url: "https://music.yandex.ru/users/someone/playlists"},
		{name: "Playlist without owner", url: "https://music.yandex.ru/users"},
		{name: "Artist pages are not supported", url: "https://music.yandex.ru/artist/41052"},
		{name: "Kind token is case-sensitive", url: "https://music.yandex.ru/Album/5307396"},
		{name: "Malformed URL", url: "https://music.yandex.ru/%zz/1"},
		{name: "Control characters", url: "https://music.yandex.ru/album/1\x7f"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.url)
			if !errors.Is(err, ErrNotRecognized) {
				t.Errorf("Parse(%q) error = %v, want ErrNotRecognized", tt.url, err)
			}
		})
	}
}

func TestCanResolve(t *testing.T) {
	t.Helper()

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{name: "ru album", url: "https://music.yandex.ru/album/5307396", expected: true},
		{name: "com track", url: "https://music.yandex.com/album/10030/track/38634572", expected: true},
		{name: "by playlist", url: "https://music.yandex.by/users/someone/playlists/3", expected: true},
		{name: "mobile host", url: "https://m.music.yandex.ru/track/123", expected: true},
		{name: "Other host with same path", url: "https://example.com/track/123", expected: false},
		{name: "Yandex host with unknown path", url: "https://music.yandex.ru/artist/1", expected: false},
		{name: "Not a URL", url: "not-a-url", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanResolve(tt.url); got != tt.expected {
				t.Errorf("CanResolve() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestKindString(t *testing.T) {
	t.Helper()

	tests := map[Kind]string{
		KindTrack:    "track",
		KindAlbum:    "album",
		KindPlaylist: "playlist",
		Kind(42):     "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", int(kind), got, want)
		}
	}
}

func TestIdentifier(t *testing.T) {
	t.Helper()

	if got := NewIdentifier(38634572); got != "38634572" {
		t.Errorf("NewIdentifier(int) = %q", got)
	}
	if got := NewIdentifier(" 0042 "); got != "0042" {
		t.Errorf("NewIdentifier(string) = %q", got)
	}
	if got := NewIdentifier(nil); !got.IsZero() {
		t.Errorf("NewIdentifier(nil) = %q, want zero", got)
	}
	if !Identifier("0042").IsNumeric() {
		t.Error("0042 should be numeric")
	}
	if Identifier("42a").IsNumeric() || Identifier("").IsNumeric() || Identifier("-1").IsNumeric() {
		t.Error("non-digit identifiers should not be numeric")
	}
}
