package i18n

// englishMessages contains all English translations.
var englishMessages = map[string]string{
	// Error messages
	"error.generic":              "Something went wrong. Please try again.",
	"error.missing_url":          "Please send a Yandex Music link.",
	"error.not_recognized":       "This is not a Yandex Music track, album or playlist link. Examples: https://music.yandex.ru/album/5605637/track/42445828 or https://music.yandex.ru/album/5605637",
	"error.track_not_found":      "Couldn't find this track on Yandex Music.",
	"error.collection_not_found": "Couldn't find this album or playlist on Yandex Music.",
	"error.collection_empty":     "This album or playlist has no tracks.",
	"error.transport":            "Yandex Music is not reachable right now. Please try again later.",
	"error.invalid_payload":      "Yandex Music returned data that could not be read.",
	"error.stream_unavailable":   "This track can't be played right now.",
	"error.nothing_playable":     "Nothing in this link can be played.",
	"error.rate_limited":         "Too many requests. Please wait a minute.",
	"error.queue_full":           "The queue is full. Nothing from this link was added.",

	// Success messages
	"success.track":      "%s - %s",
	"success.collection": "%s: %d tracks",
	"success.partial":    "%d of %d tracks are unavailable and were skipped.",
	"success.queued":     "Queued %d tracks, %d already in the queue.",
}
