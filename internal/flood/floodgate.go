// Package flood rate-limits API requests per client with a sliding one-minute window.
package flood

import (
	"sync"
	"time"
)

const (
	// windowDuration is the fixed time window for flood detection (always 1 minute)
	windowDuration = 60 * time.Second
	// cleanupInterval is how often idle clients are dropped
	cleanupInterval = 10 * time.Minute
	// idleTimeout is how long a client may stay silent before its entry is dropped
	idleTimeout = 10 * time.Minute
)

// Decision is the outcome of one request against the gate.
type Decision struct {
	Allowed bool
	// Remaining is how many more requests fit in the current window.
	Remaining int
	// RetryAfter is how long a blocked client should wait; zero when allowed.
	RetryAfter time.Duration
}

// Floodgate limits requests per route scope and client address.
type Floodgate struct {
	limitPerMinute int
	windows        map[string]*window // Key: "scope:client"
	now            func() time.Time
	mutex          sync.RWMutex
	stopCleanup    chan struct{}
	stopOnce       sync.Once
}

// window holds the request times of one key, oldest first.
type window struct {
	requests []time.Time
	lastSeen time.Time
}

// New creates a Floodgate allowing limitPerMinute requests per client and scope.
// A non-positive limit blocks everything.
func New(limitPerMinute int) *Floodgate {
	return newFloodgate(limitPerMinute, time.Now)
}

func newFloodgate(limitPerMinute int, now func() time.Time) *Floodgate {
	fg := &Floodgate{
		limitPerMinute: limitPerMinute,
		windows:        make(map[string]*window),
		now:            now,
		stopCleanup:    make(chan struct{}),
	}

	go fg.cleanup()

	return fg
}

// Stop stops the background cleanup goroutine. It is safe to call more than once.
func (fg *Floodgate) Stop() {
	fg.stopOnce.Do(func() { close(fg.stopCleanup) })
}

// Allow records a request from client within scope and reports whether it is under the limit.
func (fg *Floodgate) Allow(scope, client string) bool {
	return fg.Check(scope, client).Allowed
}

// Check records a request from client within scope. Blocked requests are not recorded,
// so a client hammering the gate does not extend its own ban.
func (fg *Floodgate) Check(scope, client string) Decision {
	key := scope + ":" + client
	now := fg.now()

	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	w, exists := fg.windows[key]
	if !exists {
		w = &window{}
		fg.windows[key] = w
	}
	w.lastSeen = now
	w.expire(now.Add(-windowDuration))

	if fg.limitPerMinute <= 0 {
		return Decision{RetryAfter: windowDuration}
	}
	if len(w.requests) >= fg.limitPerMinute {
		// The oldest request leaves the window first.
		return Decision{RetryAfter: w.requests[0].Add(windowDuration).Sub(now)}
	}

	w.requests = append(w.requests, now)
	return Decision{Allowed: true, Remaining: fg.limitPerMinute - len(w.requests)}
}

func (w *window) expire(windowStart time.Time) {
	kept := w.requests[:0]
	for _, ts := range w.requests {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}
	w.requests = kept
}

func (fg *Floodgate) cleanup() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fg.performCleanup()
		case <-fg.stopCleanup:
			return
		}
	}
}

// performCleanup drops clients idle for longer than idleTimeout.
func (fg *Floodgate) performCleanup() {
	fg.mutex.Lock()
	defer fg.mutex.Unlock()

	cutoff := fg.now().Add(-idleTimeout)
	for key, w := range fg.windows {
		if w.lastSeen.Before(cutoff) {
			delete(fg.windows, key)
		}
	}
}

// Stats returns floodgate statistics for the health endpoint.
func (fg *Floodgate) Stats() Stats {
	fg.mutex.RLock()
	defer fg.mutex.RUnlock()

	return Stats{
		ActiveClients:  len(fg.windows),
		LimitPerMinute: fg.limitPerMinute,
		WindowSeconds:  int(windowDuration.Seconds()),
	}
}

// Stats contains floodgate statistics.
type Stats struct {
	ActiveClients  int `json:"active_clients"`
	LimitPerMinute int `json:"limit_per_minute"`
	WindowSeconds  int `json:"window_seconds"`
}
