package musiclink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultStreamConcurrency bounds concurrent stream lookups within one collection.
	DefaultStreamConcurrency = 8

	statusOK      = "ok"
	statusPartial = "partial"
	statusError   = "error"
)

// Recorder receives pipeline observations. Implementations must be safe for concurrent use.
type Recorder interface {
	RecordResolve(kind, status string, duration time.Duration)
	RecordStream(status string)
}

type nopRecorder struct{}

func (nopRecorder) RecordResolve(string, string, time.Duration) {}
func (nopRecorder) RecordStream(string)                         {}

// Options configures a Manager.
type Options struct {
	CoverSize         CoverSize
	StreamConcurrency int
	Recorder          Recorder
}

var _ Resolver = (*Manager)(nil)

// Manager runs the whole pipeline: parse, resolve, normalize and locate streams.
// It holds no per-request state; the upstream client is the only shared resource.
type Manager struct {
	resolver    *ResourceResolver
	normalizer  *Normalizer
	locator     *StreamLocator
	recorder    Recorder
	concurrency int
	logger      *zap.Logger
}

// NewManager creates a manager on top of an upstream metadata client.
func NewManager(client MetadataClient, opts Options, logger *zap.Logger) (*Manager, error) {
	if opts.CoverSize == 0 {
		opts.CoverSize = DefaultCoverSize
	}
	normalizer, err := NewNormalizer(opts.CoverSize)
	if err != nil {
		return nil, err
	}

	if opts.StreamConcurrency <= 0 {
		opts.StreamConcurrency = DefaultStreamConcurrency
	}
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	return &Manager{
		resolver:    NewResourceResolver(client, logger.Named("resolver")),
		normalizer:  normalizer,
		locator:     NewStreamLocator(client, logger.Named("stream")),
		recorder:    opts.Recorder,
		concurrency: opts.StreamConcurrency,
		logger:      logger,
	}, nil
}

// CanResolve checks if the URL is a recognized Yandex Music link.
func (m *Manager) CanResolve(rawURL string) bool {
	return CanResolve(rawURL)
}

// Parse turns a URL into a link descriptor.
func (m *Manager) Parse(rawURL string) (LinkDescriptor, error) {
	return Parse(rawURL)
}

// StreamURL looks up a playable location for one track.
func (m *Manager) StreamURL(ctx context.Context, trackID Identifier) (string, error) {
	link, err := m.locator.StreamURL(ctx, trackID)
	if err != nil {
		m.recorder.RecordStream(statusError)
		return "", err
	}
	m.recorder.RecordStream(statusOK)
	return link, nil
}

// Resolve parses the URL and resolves the resource behind it. Links on other hosts
// are rejected with ErrNotRecognized before any upstream call.
func (m *Manager) Resolve(ctx context.Context, rawURL string) (*Result, error) {
	if !CanResolve(rawURL) {
		return nil, ErrNotRecognized
	}

	descriptor, err := Parse(rawURL)
	if err != nil {
		return nil, err
	}
	return m.ResolveDescriptor(ctx, descriptor)
}

// ResolveDescriptor resolves an already parsed descriptor.
func (m *Manager) ResolveDescriptor(ctx context.Context, d LinkDescriptor) (*Result, error) {
	start := time.Now()
	result, err := m.resolveDescriptor(ctx, d)

	status := statusOK
	switch {
	case err != nil:
		status = statusError
	case result.Collection != nil && result.Collection.Partial():
		status = statusPartial
	}
	m.recorder.RecordResolve(d.Kind.String(), status, time.Since(start))

	if err != nil {
		m.logger.Info("Failed to resolve link",
			zap.String("url", d.OriginalURL),
			zap.String("kind", d.Kind.String()),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (m *Manager) resolveDescriptor(ctx context.Context, d LinkDescriptor) (*Result, error) {
	payload, err := m.resolver.Resolve(ctx, d)
	if err != nil {
		return nil, err
	}

	if d.Kind == KindTrack {
		track, err := m.resolveTrack(ctx, d, payload)
		if err != nil {
			return nil, err
		}
		return &Result{Descriptor: d, Track: track}, nil
	}

	collection, err := m.normalizer.NormalizeCollection(payload)
	if err != nil {
		return nil, err
	}
	collection.URL = d.OriginalURL

	if err := m.attachStreams(ctx, &collection); err != nil {
		return nil, err
	}
	return &Result{Descriptor: d, Collection: &collection}, nil
}

func (m *Manager) resolveTrack(ctx context.Context, d LinkDescriptor, payload Payload) (*ResolvedTrack, error) {
	track, err := m.normalizer.NormalizeTrack(payload)
	if err != nil {
		return nil, err
	}

	// The user's own link wins over the canonical one for a single track.
	track.URL = d.OriginalURL
	if !d.AlbumID.IsZero() {
		track.SourceAlbumID = d.AlbumID
	}

	link, err := m.StreamURL(ctx, track.ID)
	if err != nil {
		return nil, err
	}
	track.PlayableURL = link
	return &track, nil
}

// attachStreams looks up every track's stream concurrently. Results are stored by index,
// so completion order never affects which track a link lands on. Failed lookups leave
// PlayableURL empty and are listed in Unavailable; if nothing is playable the whole
// collection fails.
func (m *Manager) attachStreams(ctx context.Context, collection *ResolvedCollection) error {
	links := make([]string, len(collection.Tracks))
	failures := make([]error, len(collection.Tracks))

	var g errgroup.Group
	g.SetLimit(m.concurrency)
	for i := range collection.Tracks {
		trackID := collection.Tracks[i].ID
		g.Go(func() error {
			links[i], failures[i] = m.StreamURL(ctx, trackID)
			return nil
		})
	}
	_ = g.Wait()

	collection.Unavailable = nil
	var errs []error
	for i := range collection.Tracks {
		if failures[i] != nil {
			collection.Unavailable = append(collection.Unavailable, i)
			errs = append(errs, failures[i])
			continue
		}
		collection.Tracks[i].PlayableURL = links[i]
	}

	if len(collection.Tracks) > 0 && len(collection.Unavailable) == len(collection.Tracks) {
		return &StreamError{
			TrackID: collection.Tracks[0].ID,
			Err:     fmt.Errorf("none of %d tracks is playable: %w", len(collection.Tracks), errors.Join(errs...)),
		}
	}

	if collection.Partial() {
		m.logger.Warn("Collection is partially available",
			zap.String("collection_id", collection.ID.String()),
			zap.Int("unavailable", len(collection.Unavailable)),
			zap.Int("total", len(collection.Tracks)))
	}
	return nil
}
