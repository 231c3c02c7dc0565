package core

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"yamusic/internal/store"
	"yamusic/pkg/fuzzy"
	"yamusic/pkg/musiclink"
)

// ErrQueueFull is returned when a song would exceed the queue capacity.
var ErrQueueFull = errors.New("queue is full")

// EnqueueResult reports what happened to the songs of one media item.
type EnqueueResult struct {
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	// Position is the 1-based position of the first added song, 0 if nothing was added.
	Position int `json:"position"`
}

// Queue is the in-memory play queue fed by resolved links. A song id, and a recording
// reissued under another id, is queued at most once until it is played.
type Queue struct {
	mutex      sync.Mutex
	songs      []musiclink.Song
	seen       *store.DedupStore
	recordings *store.DedupStore
	normalizer *fuzzy.Normalizer
	capacity   int
	logger     *zap.Logger
}

// NewQueue creates a queue holding up to capacity songs.
func NewQueue(capacity uint, logger *zap.Logger) *Queue {
	// One spare slot holds the claim that finds the queue full, so it never evicts a queued key.
	return &Queue{
		seen:       store.NewDedupStore(capacity+1, DefaultQueueFalsePositiveRate),
		recordings: store.NewDedupStore(capacity+1, DefaultQueueFalsePositiveRate),
		normalizer: fuzzy.NewNormalizer(),
		capacity:   int(capacity), //nolint:gosec // Capacity comes from config.
		logger:     logger,
	}
}

// Enqueue appends the playable songs of media, skipping ones already queued. Media is
// added whole or not at all: when its new songs do not fit, nothing is queued and
// ErrQueueFull is returned.
func (q *Queue) Enqueue(media *musiclink.Media) (EnqueueResult, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	var result EnqueueResult
	var fresh []musiclink.Song
	for _, song := range media.Songs() {
		if song.StreamURL == "" {
			continue
		}
		if !q.claim(song) {
			result.Duplicates++
			continue
		}
		if len(q.songs)+len(fresh) >= q.capacity {
			for _, claimed := range append(fresh, song) {
				q.release(claimed)
			}
			q.logger.Warn("Queue is full",
				zap.Int("capacity", q.capacity),
				zap.Int("length", len(q.songs)))
			return EnqueueResult{}, ErrQueueFull
		}
		fresh = append(fresh, song)
	}

	if len(fresh) > 0 {
		result.Added = len(fresh)
		result.Position = len(q.songs) + 1
		q.songs = append(q.songs, fresh...)
	}

	q.logger.Debug("Enqueued media",
		zap.Int("added", result.Added),
		zap.Int("duplicates", result.Duplicates),
		zap.Int("length", len(q.songs)))
	return result, nil
}

// claim records the song's id and recording key, reporting false if either is queued already.
func (q *Queue) claim(song musiclink.Song) bool {
	if !q.seen.TryAdd(song.ID) {
		return false
	}
	key := q.normalizer.RecordingKey(song.Uploader, song.Name)
	if key != "" && !q.recordings.TryAdd(key) {
		q.seen.Remove(song.ID)
		return false
	}
	return true
}

// release undoes claim.
func (q *Queue) release(song musiclink.Song) {
	q.seen.Remove(song.ID)
	if key := q.normalizer.RecordingKey(song.Uploader, song.Name); key != "" {
		q.recordings.Remove(key)
	}
}

// Next removes and returns the song at the head of the queue.
func (q *Queue) Next() (musiclink.Song, bool) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if len(q.songs) == 0 {
		return musiclink.Song{}, false
	}
	song := q.songs[0]
	q.songs = q.songs[1:]
	q.release(song)
	return song, true
}

// Songs returns a snapshot of the queued songs in play order.
func (q *Queue) Songs() []musiclink.Song {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	snapshot := make([]musiclink.Song, len(q.songs))
	copy(snapshot, q.songs)
	return snapshot
}

// Len returns the number of queued songs.
func (q *Queue) Len() int {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	return len(q.songs)
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	q.songs = nil
	q.seen.Clear()
	q.recordings.Clear()
}
