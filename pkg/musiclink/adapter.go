package musiclink

import (
	"context"
	"errors"

	"github.com/samber/lo"
)

// ErrNothingPlayable is returned by the adapter when a result carries no playable item.
var ErrNothingPlayable = errors.New("nothing playable")

// Song is the playback host's single-item shape.
type Song struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	URL       string  `json:"url"`
	Uploader  string  `json:"uploader"`
	Duration  float64 `json:"duration"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	StreamURL string  `json:"streamUrl"`
	Source    string  `json:"source"`
}

// Playlist is the playback host's collection shape.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Songs       []Song `json:"songs"`
	Unavailable int    `json:"unavailable,omitempty"`
	Source      string `json:"source"`
}

// Media is what the host receives for one link: exactly one of Song or Playlist is set.
type Media struct {
	Song     *Song     `json:"song,omitempty"`
	Playlist *Playlist `json:"playlist,omitempty"`
}

// Songs returns the playable songs of the media in order.
func (m *Media) Songs() []Song {
	switch {
	case m.Song != nil:
		return []Song{*m.Song}
	case m.Playlist != nil:
		return m.Playlist.Songs
	default:
		return nil
	}
}

// ManagerAdapter adapts a Resolver to the playback host's song and playlist shapes.
type ManagerAdapter struct {
	resolver Resolver
}

// NewManagerAdapter creates a new adapter for the resolution core.
func NewManagerAdapter(resolver Resolver) *ManagerAdapter {
	return &ManagerAdapter{resolver: resolver}
}

// CanResolve checks if the core can resolve the given URL.
func (a *ManagerAdapter) CanResolve(rawURL string) bool {
	return a.resolver.CanResolve(rawURL)
}

// Resolve resolves a link and converts the result into host media.
func (a *ManagerAdapter) Resolve(ctx context.Context, rawURL string) (*Media, error) {
	result, err := a.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return ToMedia(result)
}

// ToMedia converts a pipeline result into host media. Tracks without a playable
// location are left out of playlists and counted in Unavailable.
func ToMedia(result *Result) (*Media, error) {
	switch {
	case result.Track != nil:
		if result.Track.PlayableURL == "" {
			return nil, ErrNothingPlayable
		}
		song := toSong(*result.Track, 0)
		return &Media{Song: &song}, nil

	case result.Collection != nil:
		playable := lo.Filter(result.Collection.Tracks, func(track ResolvedTrack, _ int) bool {
			return track.PlayableURL != ""
		})
		if len(playable) == 0 {
			return nil, ErrNothingPlayable
		}
		return &Media{Playlist: &Playlist{
			ID:          result.Collection.ID.String(),
			Name:        result.Collection.Title,
			URL:         result.Collection.URL,
			Thumbnail:   result.Collection.CoverURL,
			Songs:       lo.Map(playable, toSong),
			Unavailable: len(result.Collection.Tracks) - len(playable),
			Source:      PluginSource,
		}}, nil

	default:
		return nil, ErrNothingPlayable
	}
}

func toSong(track ResolvedTrack, _ int) Song {
	return Song{
		ID:        track.ID.String(),
		Name:      track.Title,
		URL:       track.URL,
		Uploader:  track.ArtistName,
		Duration:  track.DurationSeconds,
		Thumbnail: track.CoverURL,
		StreamURL: track.PlayableURL,
		Source:    PluginSource,
	}
}
