package musiclink

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const (
	// canonicalBaseURL is the web host canonical links are built on.
	canonicalBaseURL = "https://music.yandex.ru"
	// coverPlaceholder is the size placeholder inside provider cover templates.
	coverPlaceholder = "%%"
	// PluginSource tags every item handed to the playback host.
	PluginSource = "yandexmusic"
)

// ExampleTrackURL and ExampleAlbumURL are shown to users whose link was not recognized.
const (
	ExampleTrackURL = "https://music.yandex.ru/album/5605637/track/42445828"
	ExampleAlbumURL = "https://music.yandex.ru/album/5605637"
)

// CoverSize is a square cover edge length supported by the provider's image service.
type CoverSize int

// DefaultCoverSize is the cover size used for thumbnails.
const DefaultCoverSize CoverSize = 100

// coverSizes is the fixed set of edge lengths the image service serves.
var coverSizes = []CoverSize{30, 50, 100, 150, 200, 300, 400, 700, 800, 1000}

// SupportedCoverSizes returns the cover sizes the provider serves.
func SupportedCoverSizes() []CoverSize {
	return append([]CoverSize(nil), coverSizes...)
}

// Validate checks that the size is one the provider serves.
func (s CoverSize) Validate() error {
	if !lo.Contains(coverSizes, s) {
		return fmt.Errorf("%w: %d", ErrInvalidCoverSize, int(s))
	}
	return nil
}

// CoverURL expands a provider cover template such as "avatars.host/%%.jpg" to an https URL
// at the requested size. An empty template yields an empty URL.
func CoverURL(template string, size CoverSize) (string, error) {
	if err := size.Validate(); err != nil {
		return "", err
	}
	if template == "" {
		return "", nil
	}

	edge := strconv.Itoa(int(size))
	return "https://" + strings.Replace(template, coverPlaceholder, edge+"x"+edge, 1), nil
}

// BuildTrackURL returns the canonical web URL of a track, album-qualified when albumID is set.
func BuildTrackURL(trackID, albumID Identifier) string {
	if !albumID.IsZero() {
		return fmt.Sprintf("%s/album/%s/track/%s", canonicalBaseURL, albumID, trackID)
	}
	return fmt.Sprintf("%s/track/%s", canonicalBaseURL, trackID)
}

// BuildAlbumURL returns the canonical web URL of an album.
func BuildAlbumURL(albumID Identifier) string {
	return fmt.Sprintf("%s/album/%s", canonicalBaseURL, albumID)
}

// BuildPlaylistURL returns the canonical web URL of a user playlist.
func BuildPlaylistURL(ownerID string, playlistID Identifier) string {
	return fmt.Sprintf("%s/users/%s/playlists/%s", canonicalBaseURL, ownerID, playlistID)
}
