package musiclink

import (
	"errors"
	"fmt"
)

var (
	// ErrNotRecognized is returned when a URL does not match any known link shape.
	ErrNotRecognized = errors.New("link not recognized")
	// ErrNotFound is returned by metadata clients when the upstream has no such resource.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCoverSize is returned for cover sizes outside the provider's size set.
	ErrInvalidCoverSize = errors.New("invalid cover size")
	// ErrResolve matches every *ResolveError via errors.Is.
	ErrResolve = errors.New("resolve failed")
	// ErrStream matches every *StreamError via errors.Is.
	ErrStream = errors.New("stream unavailable")
)

// Reason classifies a resolve failure.
type Reason string

const (
	ReasonTrackNotFound      Reason = "track-not-found"
	ReasonCollectionNotFound Reason = "collection-not-found"
	ReasonCollectionEmpty    Reason = "collection-empty"
	ReasonTransport          Reason = "transport-error"
	ReasonInvalidPayload     Reason = "invalid-payload"
)

// ResolveError reports that upstream metadata could not be turned into a result.
type ResolveError struct {
	Reason Reason
	Err    error
}

func (e *ResolveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("resolve failed: %s", e.Reason)
	}
	return fmt.Sprintf("resolve failed: %s: %v", e.Reason, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrResolve) hold for any ResolveError.
func (e *ResolveError) Is(target error) bool {
	return target == ErrResolve
}

func resolveFailure(reason Reason, err error) *ResolveError {
	return &ResolveError{Reason: reason, Err: err}
}

// ReasonOf extracts the resolve failure reason from err, or "" if err is not a ResolveError.
func ReasonOf(err error) Reason {
	var resolveErr *ResolveError
	if errors.As(err, &resolveErr) {
		return resolveErr.Reason
	}
	return ""
}

// StreamError reports that a track exists but no playable location could be obtained.
type StreamError struct {
	TrackID Identifier
	Err     error
}

func (e *StreamError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("no playable location for track %s", e.TrackID)
	}
	return fmt.Sprintf("no playable location for track %s: %v", e.TrackID, e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrStream) hold for any StreamError.
func (e *StreamError) Is(target error) bool {
	return target == ErrStream
}
