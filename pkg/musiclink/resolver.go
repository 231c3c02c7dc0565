package musiclink

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// MetadataClient is the authenticated upstream API. Each method returns the JSON body of the
// response "result" node; Fetch returns a raw body from an absolute URL.
// Implementations report missing resources with errors wrapping ErrNotFound.
type MetadataClient interface {
	Track(ctx context.Context, trackID Identifier) ([]byte, error)
	AlbumWithTracks(ctx context.Context, albumID Identifier) ([]byte, error)
	UserPlaylist(ctx context.Context, ownerID string, playlistID Identifier) ([]byte, error)
	DownloadInfo(ctx context.Context, trackID Identifier) ([]byte, error)
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// ResourceResolver fetches the raw provider payload behind a link descriptor.
// Every error it returns is a *ResolveError.
type ResourceResolver struct {
	client MetadataClient
	logger *zap.Logger
}

// NewResourceResolver creates a resolver on top of an upstream client.
func NewResourceResolver(client MetadataClient, logger *zap.Logger) *ResourceResolver {
	return &ResourceResolver{client: client, logger: logger}
}

// Resolve performs the single metadata call matching the descriptor kind.
func (r *ResourceResolver) Resolve(ctx context.Context, d LinkDescriptor) (Payload, error) {
	if err := d.Validate(); err != nil {
		return Payload{}, resolveFailure(ReasonInvalidPayload, err)
	}

	switch d.Kind {
	case KindTrack:
		return r.resolveTrack(ctx, d.TrackID)
	case KindAlbum:
		return r.resolveAlbum(ctx, d.AlbumID)
	case KindPlaylist:
		return r.resolvePlaylist(ctx, d.OwnerID, d.PlaylistID)
	default:
		return Payload{}, resolveFailure(ReasonInvalidPayload, fmt.Errorf("unsupported kind %s", d.Kind))
	}
}

func (r *ResourceResolver) resolveTrack(ctx context.Context, trackID Identifier) (Payload, error) {
	body, err := r.client.Track(ctx, trackID)
	if err != nil {
		r.logger.Debug("Track lookup failed", zap.String("track_id", trackID.String()), zap.Error(err))
		return Payload{}, resolveFailure(ReasonTrackNotFound, err)
	}

	payload, err := NewPayload(KindTrack, body)
	if err != nil {
		return Payload{}, resolveFailure(ReasonTrackNotFound, err)
	}

	// The tracks endpoint answers with a list even for a single id.
	if payload.Data.IsArray() {
		payload.Data = payload.Data.Get("0")
	}
	if !payload.Data.IsObject() {
		return Payload{}, resolveFailure(ReasonTrackNotFound, fmt.Errorf("%w: track %s", ErrNotFound, trackID))
	}
	return payload, nil
}

func (r *ResourceResolver) resolveAlbum(ctx context.Context, albumID Identifier) (Payload, error) {
	body, err := r.client.AlbumWithTracks(ctx, albumID)
	if err != nil {
		r.logger.Debug("Album lookup failed", zap.String("album_id", albumID.String()), zap.Error(err))
		return Payload{}, collectionFailure(err)
	}

	payload, err := NewPayload(KindAlbum, body)
	if err != nil || !payload.Data.IsObject() {
		return Payload{}, resolveFailure(ReasonInvalidPayload, fmt.Errorf("album %s: %w", albumID, errMalformedJSON))
	}

	if payload.Data.Get("volumes.#").Int() == 0 {
		return Payload{}, resolveFailure(ReasonCollectionEmpty, nil)
	}
	return payload, nil
}

func (r *ResourceResolver) resolvePlaylist(ctx context.Context, ownerID string, playlistID Identifier) (Payload, error) {
	body, err := r.client.UserPlaylist(ctx, ownerID, playlistID)
	if err != nil {
		r.logger.Debug("Playlist lookup failed",
			zap.String("owner_id", ownerID),
			zap.String("playlist_id", playlistID.String()),
			zap.Error(err))
		return Payload{}, collectionFailure(err)
	}

	payload, err := NewPayload(KindPlaylist, body)
	if err != nil || !payload.Data.IsObject() {
		return Payload{}, resolveFailure(ReasonInvalidPayload,
			fmt.Errorf("playlist %s/%s: %w", ownerID, playlistID, errMalformedJSON))
	}

	if len(payload.Data.Get("tracks").Array()) == 0 {
		return Payload{}, resolveFailure(ReasonCollectionEmpty, nil)
	}
	return payload, nil
}

func collectionFailure(err error) *ResolveError {
	if errors.Is(err, ErrNotFound) {
		return resolveFailure(ReasonCollectionNotFound, err)
	}
	return resolveFailure(ReasonTransport, err)
}
