package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"yamusic/internal/i18n"
	"yamusic/pkg/musiclink"
)

func TestMessageKey(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Nil", nil, ""},
		{"Not recognized", fmt.Errorf("parse: %w", musiclink.ErrNotRecognized), "error.not_recognized"},
		{"Stream", &musiclink.StreamError{TrackID: "1"}, "error.stream_unavailable"},
		{"Nothing playable", musiclink.ErrNothingPlayable, "error.nothing_playable"},
		{"Track not found", &musiclink.ResolveError{Reason: musiclink.ReasonTrackNotFound}, "error.track_not_found"},
		{"Collection not found", &musiclink.ResolveError{Reason: musiclink.ReasonCollectionNotFound}, "error.collection_not_found"},
		{"Collection empty", &musiclink.ResolveError{Reason: musiclink.ReasonCollectionEmpty}, "error.collection_empty"},
		{"Transport", &musiclink.ResolveError{Reason: musiclink.ReasonTransport}, "error.transport"},
		{"Invalid payload", &musiclink.ResolveError{Reason: musiclink.ReasonInvalidPayload}, "error.invalid_payload"},
		{"Queue full", ErrQueueFull, "error.queue_full"},
		{"Unknown", errors.New("boom"), "error.generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MessageKey(tt.err); got != tt.expected {
				t.Errorf("MessageKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDescribe_EveryKeyIsTranslated(t *testing.T) {
	errs := []error{
		musiclink.ErrNotRecognized,
		&musiclink.StreamError{TrackID: "1"},
		musiclink.ErrNothingPlayable,
		&musiclink.ResolveError{Reason: musiclink.ReasonTrackNotFound},
		&musiclink.ResolveError{Reason: musiclink.ReasonCollectionNotFound},
		&musiclink.ResolveError{Reason: musiclink.ReasonCollectionEmpty},
		&musiclink.ResolveError{Reason: musiclink.ReasonTransport},
		&musiclink.ResolveError{Reason: musiclink.ReasonInvalidPayload},
		ErrQueueFull,
	}

	for _, lang := range i18n.GetSupportedLanguages() {
		localizer := i18n.NewLocalizer(lang)
		for _, err := range errs {
			if message := Describe(err, localizer); message == MessageKey(err) {
				t.Errorf("%s: no translation for %s", lang, MessageKey(err))
			}
		}
	}
}

func TestDescribe_NotRecognizedShowsExamples(t *testing.T) {
	for _, lang := range i18n.GetSupportedLanguages() {
		message := Describe(musiclink.ErrNotRecognized, i18n.NewLocalizer(lang))
		for _, example := range []string{musiclink.ExampleTrackURL, musiclink.ExampleAlbumURL} {
			if !strings.Contains(message, example) {
				t.Errorf("%s: %q does not mention %s", lang, message, example)
			}
		}
	}
}

func TestDescribeMedia(t *testing.T) {
	localizer := i18n.NewLocalizer(i18n.DefaultLanguage)

	single := musiclink.Song{Name: "Gruppa krovi", Uploader: "Kino"}
	if got := DescribeMedia(&musiclink.Media{Song: &single}, localizer); got != "Kino - Gruppa krovi" {
		t.Errorf("DescribeMedia(song) = %q", got)
	}

	playlist := &musiclink.Media{Playlist: &musiclink.Playlist{
		Name:        "Mix",
		Songs:       []musiclink.Song{single, single},
		Unavailable: 1,
	}}
	expected := "Mix: 2 tracks 1 of 3 tracks are unavailable and were skipped."
	if got := DescribeMedia(playlist, localizer); got != expected {
		t.Errorf("DescribeMedia(playlist) = %q, want %q", got, expected)
	}
}
