// Package musiclink resolves Yandex Music links into normalized tracks and collections
// with playable stream locations attached.
package musiclink

import (
	"context"
	"fmt"
	"strings"
)

// Identifier is a provider identifier kept in its textual form so that leading zeros
// and provider formatting survive. Numeric-ness is checked only where the provider requires it.
type Identifier string

// NewIdentifier stringifies an identifier value of any provider type.
func NewIdentifier(v interface{}) Identifier {
	switch id := v.(type) {
	case nil:
		return ""
	case Identifier:
		return id
	case string:
		return Identifier(strings.TrimSpace(id))
	case fmt.Stringer:
		return Identifier(strings.TrimSpace(id.String()))
	default:
		return Identifier(fmt.Sprint(id))
	}
}

// String returns the identifier text.
func (id Identifier) String() string {
	return string(id)
}

// IsZero reports whether the identifier is absent.
func (id Identifier) IsZero() bool {
	return id == ""
}

// IsNumeric reports whether the identifier consists only of ASCII digits.
func (id Identifier) IsNumeric() bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// Kind is the type of resource a link points at.
type Kind int

const (
	// KindTrack is a single track, optionally referenced through its album.
	KindTrack Kind = iota
	// KindAlbum is an album with its tracks.
	KindAlbum
	// KindPlaylist is a user playlist.
	KindPlaylist
)

func (k Kind) String() string {
	switch k {
	case KindTrack:
		return "track"
	case KindAlbum:
		return "album"
	case KindPlaylist:
		return "playlist"
	}

	return "unknown"
}

// LinkDescriptor is the parsed, typed form of a provider link.
type LinkDescriptor struct {
	Kind        Kind
	OriginalURL string
	TrackID     Identifier // Track only.
	AlbumID     Identifier // Album, and optionally Track.
	OwnerID     string     // Playlist only.
	PlaylistID  Identifier // Playlist only.
}

// Validate checks that the populated identifiers match the descriptor kind.
func (d LinkDescriptor) Validate() error {
	switch d.Kind {
	case KindTrack:
		if d.TrackID.IsZero() || d.OwnerID != "" || !d.PlaylistID.IsZero() {
			return fmt.Errorf("track descriptor has inconsistent identifiers")
		}
	case KindAlbum:
		if d.AlbumID.IsZero() || !d.TrackID.IsZero() || d.OwnerID != "" || !d.PlaylistID.IsZero() {
			return fmt.Errorf("album descriptor has inconsistent identifiers")
		}
	case KindPlaylist:
		if d.OwnerID == "" || d.PlaylistID.IsZero() || !d.TrackID.IsZero() || !d.AlbumID.IsZero() {
			return fmt.Errorf("playlist descriptor has inconsistent identifiers")
		}
	default:
		return fmt.Errorf("unknown descriptor kind %d", d.Kind)
	}
	return nil
}

// ResolvedTrack is a normalized track ready for the playback host.
type ResolvedTrack struct {
	ID              Identifier
	Title           string
	ArtistName      string
	DurationSeconds float64
	CoverURL        string
	SourceAlbumID   Identifier // Empty when the track has no album context.
	URL             string
	PlayableURL     string // Set by the stream locator only.
}

// ResolvedCollection is a normalized album or playlist. Track order is the provider's listing order.
type ResolvedCollection struct {
	ID       Identifier
	Kind     Kind
	Title    string
	CoverURL string
	URL      string
	Tracks   []ResolvedTrack

	// Unavailable lists indexes into Tracks whose stream location could not be obtained.
	Unavailable []int
}

// Partial reports whether some tracks of the collection have no playable location.
func (c *ResolvedCollection) Partial() bool {
	return len(c.Unavailable) > 0
}

// Result is the outcome of resolving one link: exactly one of Track or Collection is set.
type Result struct {
	Descriptor LinkDescriptor
	Track      *ResolvedTrack
	Collection *ResolvedCollection
}

// Resolver is the capability set a playback host integration needs from the resolution core.
type Resolver interface {
	// CanResolve checks if the URL is a recognized Yandex Music link.
	CanResolve(rawURL string) bool

	// Parse turns a URL into a link descriptor.
	Parse(rawURL string) (LinkDescriptor, error)

	// Resolve fetches metadata and stream locations for the resource behind a URL.
	Resolve(ctx context.Context, rawURL string) (*Result, error)

	// StreamURL looks up a playable location for one track.
	StreamURL(ctx context.Context, trackID Identifier) (string, error)
}
