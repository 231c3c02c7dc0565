package musiclink

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	kindTokenTrack = "track"
	kindTokenAlbum = "album"
	kindTokenUsers = "users"
)

var (
	// mobileOrWWWRegex matches an "m." or "www." label right after the scheme separator.
	mobileOrWWWRegex = regexp.MustCompile(`://(m|www)\.`)
	// hostRegex matches music.yandex.<tld> hosts.
	hostRegex = regexp.MustCompile(`^music\.yandex\.[a-z0-9]{1,10}$`)
)

// Parse turns a Yandex Music URL into a LinkDescriptor.
// It never panics; anything it cannot classify yields ErrNotRecognized.
func Parse(rawURL string) (LinkDescriptor, error) {
	normalized := mobileOrWWWRegex.ReplaceAllString(strings.TrimSpace(rawURL), "://")

	u, err := url.Parse(normalized)
	if err != nil {
		return LinkDescriptor{}, ErrNotRecognized
	}

	segments := pathSegments(u.Path)
	if len(segments) == 0 {
		return LinkDescriptor{}, ErrNotRecognized
	}

	switch segments[0] {
	case kindTokenTrack:
		return parseTrack(normalized, segments)
	case kindTokenAlbum:
		if segmentAt(segments, 2) == kindTokenTrack {
			return parseTrackFromAlbum(normalized, segments)
		}
		return parseAlbum(normalized, segments)
	case kindTokenUsers:
		return parsePlaylist(normalized, segments)
	default:
		return LinkDescriptor{}, ErrNotRecognized
	}
}

// CanResolve checks if the URL points at a Yandex Music host and has a recognized shape.
func CanResolve(rawURL string) bool {
	normalized := mobileOrWWWRegex.ReplaceAllString(strings.TrimSpace(rawURL), "://")
	u, err := url.Parse(normalized)
	if err != nil {
		return false
	}

	if !hostRegex.MatchString(strings.ToLower(u.Hostname())) {
		return false
	}

	_, err = Parse(rawURL)
	return err == nil
}

// parseTrack handles /track/{trackId}.
func parseTrack(rawURL string, segments []string) (LinkDescriptor, error) {
	trackID := Identifier(segmentAt(segments, 1))
	if !trackID.IsNumeric() {
		return LinkDescriptor{}, ErrNotRecognized
	}
	return LinkDescriptor{Kind: KindTrack, OriginalURL: rawURL, TrackID: trackID}, nil
}

// parseTrackFromAlbum handles /album/{albumId}/track/{trackId},
// for example https://music.yandex.com/album/10030/track/38634572.
func parseTrackFromAlbum(rawURL string, segments []string) (LinkDescriptor, error) {
	albumID := Identifier(segmentAt(segments, 1))
	trackID := Identifier(segmentAt(segments, 3))
	if !albumID.IsNumeric() || !trackID.IsNumeric() {
		return LinkDescriptor{}, ErrNotRecognized
	}
	return LinkDescriptor{Kind: KindTrack, OriginalURL: rawURL, AlbumID: albumID, TrackID: trackID}, nil
}

// parseAlbum handles /album/{albumId}, for example https://music.yandex.ru/album/5307396.
func parseAlbum(rawURL string, segments []string) (LinkDescriptor, error) {
	albumID := Identifier(segmentAt(segments, 1))
	if !albumID.IsNumeric() {
		return LinkDescriptor{}, ErrNotRecognized
	}
	return LinkDescriptor{Kind: KindAlbum, OriginalURL: rawURL, AlbumID: albumID}, nil
}

// parsePlaylist handles /users/{ownerId}/playlists/{playlistId}.
// Owner ids are logins and are not required to be numeric.
func parsePlaylist(rawURL string, segments []string) (LinkDescriptor, error) {
	ownerID := segmentAt(segments, 1)
	playlistID := Identifier(segmentAt(segments, 3))
	if ownerID == "" || !playlistID.IsNumeric() {
		return LinkDescriptor{}, ErrNotRecognized
	}
	return LinkDescriptor{Kind: KindPlaylist, OriginalURL: rawURL, OwnerID: ownerID, PlaylistID: playlistID}, nil
}

func pathSegments(path string) []string {
	var segments []string
	for _, part := range strings.Split(path, "/") {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

func segmentAt(segments []string, i int) string {
	if i < len(segments) {
		return segments[i]
	}
	return ""
}
