package musiclink

import (
	"errors"

	"github.com/tidwall/gjson"
)

// Payload is a raw provider response for one resolved resource.
// Field access goes through gjson so that ids typed as numbers or strings,
// and fields missing in older API versions, are handled in one place.
type Payload struct {
	Kind Kind
	Data gjson.Result
}

// errMalformedJSON is returned for bodies that are not JSON at all.
var errMalformedJSON = errors.New("malformed JSON payload")

// NewPayload wraps a raw JSON body of the given kind.
func NewPayload(kind Kind, body []byte) (Payload, error) {
	if !gjson.ValidBytes(body) {
		return Payload{}, errMalformedJSON
	}
	return Payload{Kind: kind, Data: gjson.ParseBytes(body)}, nil
}

// identifierOf reads an id field that may be a JSON number or string.
func identifierOf(r gjson.Result) Identifier {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return NewIdentifier(r.String())
}

// albumTracks flattens album volumes (discs) in volume then position order.
func albumTracks(album gjson.Result) []gjson.Result {
	var tracks []gjson.Result
	for _, volume := range album.Get("volumes").Array() {
		tracks = append(tracks, volume.Array()...)
	}
	return tracks
}

// playlistTracks returns the inner track objects of a playlist, skipping entries
// whose track is absent (removed or unavailable tracks).
func playlistTracks(playlist gjson.Result) []gjson.Result {
	var tracks []gjson.Result
	for _, entry := range playlist.Get("tracks").Array() {
		track := entry.Get("track")
		if !track.IsObject() {
			continue
		}
		tracks = append(tracks, track)
	}
	return tracks
}

// trackAlbumID returns the first album a track payload names, if any.
func trackAlbumID(track gjson.Result) Identifier {
	return identifierOf(track.Get("albums.0.id"))
}
