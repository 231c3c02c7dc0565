package musiclink

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errTransport = errors.New("connection reset")

// fakeClient is an in-memory MetadataClient keyed by identifier.
type fakeClient struct {
	mu sync.Mutex

	tracks    map[Identifier]string
	albums    map[Identifier]string
	playlists map[string]string // "owner/id"

	downloads   map[Identifier]string
	documents   map[string]string
	streamDelay map[Identifier]time.Duration

	failWith error // returned by every metadata call when set
	calls    map[string]int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		tracks:      make(map[Identifier]string),
		albums:      make(map[Identifier]string),
		playlists:   make(map[string]string),
		downloads:   make(map[Identifier]string),
		documents:   make(map[string]string),
		streamDelay: make(map[Identifier]time.Duration),
		calls:       make(map[string]int),
	}
}

func (f *fakeClient) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeClient) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeClient) lookup(m map[Identifier]string, id Identifier) ([]byte, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	body, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return []byte(body), nil
}

func (f *fakeClient) Track(_ context.Context, trackID Identifier) ([]byte, error) {
	f.count("track")
	return f.lookup(f.tracks, trackID)
}

func (f *fakeClient) AlbumWithTracks(_ context.Context, albumID Identifier) ([]byte, error) {
	f.count("album")
	return f.lookup(f.albums, albumID)
}

func (f *fakeClient) UserPlaylist(_ context.Context, ownerID string, playlistID Identifier) ([]byte, error) {
	f.count("playlist")
	if f.failWith != nil {
		return nil, f.failWith
	}
	body, ok := f.playlists[ownerID+"/"+playlistID.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, ownerID, playlistID)
	}
	return []byte(body), nil
}

func (f *fakeClient) DownloadInfo(ctx context.Context, trackID Identifier) ([]byte, error) {
	f.count("download-info")
	if delay := f.streamDelay[trackID]; delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	body, ok := f.downloads[trackID]
	if !ok {
		return nil, fmt.Errorf("%w: download info for %s", ErrNotFound, trackID)
	}
	return []byte(body), nil
}

func (f *fakeClient) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	f.count("fetch")
	body, ok := f.documents[rawURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	}
	return []byte(body), nil
}

// trackJSON builds a provider track object.
func trackJSON(id interface{}, title, artist string, durationMs int, albumID interface{}) string {
	albums := "[]"
	if albumID != nil {
		albums = fmt.Sprintf(`[{"id":%v,"title":"Album"}]`, albumID)
	}
	idText := fmt.Sprintf("%v", id)
	if s, ok := id.(string); ok {
		idText = fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf(`{"id":%s,"title":%q,"durationMs":%d,"artists":[{"id":1,"name":%q}],`+
		`"albums":%s,"coverUri":"avatars.yandex.net/get-music-content/%s/%%%%"}`,
		idText, title, durationMs, artist, albums, title)
}

// directDownload registers a direct download option for a track.
func (f *fakeClient) directDownload(trackID Identifier) {
	f.downloads[trackID] = fmt.Sprintf(
		`[{"codec":"mp3","bitrateInKbps":320,"downloadInfoUrl":"https://cdn.example/%s.mp3","direct":true}]`, trackID)
}
