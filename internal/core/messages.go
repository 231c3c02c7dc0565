package core

import (
	"errors"

	"yamusic/internal/i18n"
	"yamusic/pkg/musiclink"
)

// MessageKey maps a pipeline error onto a user-facing message key.
func MessageKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, musiclink.ErrNotRecognized):
		return "error.not_recognized"
	case errors.Is(err, musiclink.ErrStream):
		return "error.stream_unavailable"
	case errors.Is(err, musiclink.ErrNothingPlayable):
		return "error.nothing_playable"
	case errors.Is(err, ErrQueueFull):
		return "error.queue_full"
	}

	switch musiclink.ReasonOf(err) {
	case musiclink.ReasonTrackNotFound:
		return "error.track_not_found"
	case musiclink.ReasonCollectionNotFound:
		return "error.collection_not_found"
	case musiclink.ReasonCollectionEmpty:
		return "error.collection_empty"
	case musiclink.ReasonTransport:
		return "error.transport"
	case musiclink.ReasonInvalidPayload:
		return "error.invalid_payload"
	default:
		return "error.generic"
	}
}

// Describe renders err as a localized message.
func Describe(err error, localizer *i18n.Localizer) string {
	if err == nil {
		return ""
	}
	return localizer.T(MessageKey(err))
}

// DescribeMedia renders a short localized summary of resolved media.
func DescribeMedia(media *musiclink.Media, localizer *i18n.Localizer) string {
	switch {
	case media.Song != nil:
		return localizer.T("success.track", media.Song.Uploader, media.Song.Name)
	case media.Playlist != nil:
		summary := localizer.T("success.collection", media.Playlist.Name, len(media.Playlist.Songs))
		if media.Playlist.Unavailable > 0 {
			total := len(media.Playlist.Songs) + media.Playlist.Unavailable
			summary += " " + localizer.T("success.partial", media.Playlist.Unavailable, total)
		}
		return summary
	default:
		return ""
	}
}
