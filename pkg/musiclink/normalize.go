package musiclink

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

// millisPerSecond converts provider durations to seconds.
const millisPerSecond = 1000

var (
	errNoArtists = errors.New("track has no artists")
	errNoTrackID = errors.New("track has no id")
)

// Normalizer maps provider payloads into ResolvedTrack and ResolvedCollection values.
// It performs no I/O.
type Normalizer struct {
	coverSize CoverSize
}

// NewNormalizer creates a normalizer producing covers at the given size.
func NewNormalizer(coverSize CoverSize) (*Normalizer, error) {
	if err := coverSize.Validate(); err != nil {
		return nil, err
	}
	return &Normalizer{coverSize: coverSize}, nil
}

// NormalizeTrack maps a single track payload. The track URL is album-qualified when
// the payload names an owning album.
func (n *Normalizer) NormalizeTrack(p Payload) (ResolvedTrack, error) {
	if p.Kind != KindTrack {
		return ResolvedTrack{}, resolveFailure(ReasonInvalidPayload,
			fmt.Errorf("expected track payload, got %s", p.Kind))
	}
	return n.normalizeTrack(p.Data, trackAlbumID(p.Data))
}

// NormalizeCollection maps an album or playlist payload. Track order follows the
// provider listing; playlist entries without a track are skipped.
func (n *Normalizer) NormalizeCollection(p Payload) (ResolvedCollection, error) {
	switch p.Kind {
	case KindAlbum:
		return n.normalizeAlbum(p.Data)
	case KindPlaylist:
		return n.normalizePlaylist(p.Data)
	default:
		return ResolvedCollection{}, resolveFailure(ReasonInvalidPayload,
			fmt.Errorf("expected collection payload, got %s", p.Kind))
	}
}

func (n *Normalizer) normalizeAlbum(album gjson.Result) (ResolvedCollection, error) {
	albumID := identifierOf(album.Get("id"))
	cover, err := CoverURL(album.Get("coverUri").String(), n.coverSize)
	if err != nil {
		return ResolvedCollection{}, err
	}

	collection := ResolvedCollection{
		ID:       albumID,
		Kind:     KindAlbum,
		Title:    album.Get("title").String(),
		CoverURL: cover,
		URL:      BuildAlbumURL(albumID),
	}

	for i, item := range albumTracks(album) {
		track, err := n.normalizeTrack(item, albumID)
		if err != nil {
			return ResolvedCollection{}, fmt.Errorf("album %s track %d: %w", albumID, i, err)
		}
		collection.Tracks = append(collection.Tracks, track)
	}

	if len(collection.Tracks) == 0 {
		return ResolvedCollection{}, resolveFailure(ReasonCollectionEmpty, nil)
	}
	return collection, nil
}

func (n *Normalizer) normalizePlaylist(playlist gjson.Result) (ResolvedCollection, error) {
	playlistID := identifierOf(playlist.Get("kind"))
	cover, err := CoverURL(playlist.Get("cover.uri").String(), n.coverSize)
	if err != nil {
		return ResolvedCollection{}, err
	}

	collection := ResolvedCollection{
		ID:       playlistID,
		Kind:     KindPlaylist,
		Title:    playlist.Get("title").String(),
		CoverURL: cover,
	}
	if owner := playlist.Get("owner.login").String(); owner != "" && !playlistID.IsZero() {
		collection.URL = BuildPlaylistURL(owner, playlistID)
	}

	for i, item := range playlistTracks(playlist) {
		track, err := n.normalizeTrack(item, trackAlbumID(item))
		if err != nil {
			return ResolvedCollection{}, fmt.Errorf("playlist %s track %d: %w", playlistID, i, err)
		}
		collection.Tracks = append(collection.Tracks, track)
	}

	if len(collection.Tracks) == 0 {
		return ResolvedCollection{}, resolveFailure(ReasonCollectionEmpty, nil)
	}
	return collection, nil
}

// normalizeTrack maps one track object; albumID is the album context used for its URL.
func (n *Normalizer) normalizeTrack(track gjson.Result, albumID Identifier) (ResolvedTrack, error) {
	trackID := identifierOf(track.Get("id"))
	if trackID.IsZero() {
		return ResolvedTrack{}, resolveFailure(ReasonInvalidPayload, errNoTrackID)
	}

	// An empty artist list is a data-integrity problem; no placeholder is made up.
	artists := track.Get("artists").Array()
	if len(artists) == 0 {
		return ResolvedTrack{}, resolveFailure(ReasonInvalidPayload, fmt.Errorf("%w: %s", errNoArtists, trackID))
	}

	cover, err := CoverURL(track.Get("coverUri").String(), n.coverSize)
	if err != nil {
		return ResolvedTrack{}, err
	}

	return ResolvedTrack{
		ID:              trackID,
		Title:           track.Get("title").String(),
		ArtistName:      artists[0].Get("name").String(),
		DurationSeconds: track.Get("durationMs").Float() / millisPerSecond,
		CoverURL:        cover,
		SourceAlbumID:   albumID,
		URL:             BuildTrackURL(trackID, albumID),
	}, nil
}
