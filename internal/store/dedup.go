// Package store provides deduplication storage using Bloom filters and LRU cache.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DedupStore remembers the most recent keys up to a fixed capacity.
// The bloom filter answers most misses without touching the LRU.
type DedupStore struct {
	bloom             *bloom.BloomFilter
	recent            *lru.Cache[string, struct{}]
	mutex             sync.RWMutex
	capacity          uint
	falsePositiveRate float64
}

// NewDedupStore creates a store holding up to capacity keys.
func NewDedupStore(capacity uint, falsePositiveRate float64) *DedupStore {
	if capacity == 0 {
		capacity = 1
	}
	recent, err := lru.New[string, struct{}](int(capacity)) //nolint:gosec // Capacity comes from config.
	if err != nil {
		panic(err)
	}

	return &DedupStore{
		bloom:             bloom.NewWithEstimates(capacity, falsePositiveRate),
		recent:            recent,
		capacity:          capacity,
		falsePositiveRate: falsePositiveRate,
	}
}

// Has checks if a key is currently remembered.
func (ds *DedupStore) Has(key string) bool {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()
	return ds.has(key)
}

// Add remembers a key, evicting the least recently added one when full.
func (ds *DedupStore) Add(key string) {
	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	ds.add(key)
}

// TryAdd adds the key and reports whether it was new.
func (ds *DedupStore) TryAdd(key string) bool {
	ds.mutex.Lock()
	defer ds.mutex.Unlock()

	if ds.has(key) {
		return false
	}
	ds.add(key)
	return true
}

// Remove forgets a key. The bloom filter keeps its bits; Has still consults the LRU.
func (ds *DedupStore) Remove(key string) {
	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	ds.recent.Remove(key)
}

// Size returns the number of keys currently remembered.
func (ds *DedupStore) Size() int {
	ds.mutex.RLock()
	defer ds.mutex.RUnlock()
	return ds.recent.Len()
}

// Clear forgets every key.
func (ds *DedupStore) Clear() {
	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	ds.clear()
}

func (ds *DedupStore) has(key string) bool {
	if !ds.bloom.TestString(key) {
		return false
	}
	return ds.recent.Contains(key)
}

func (ds *DedupStore) add(key string) {
	if ds.recent.Contains(key) {
		return
	}
	ds.bloom.AddString(key)
	ds.recent.Add(key, struct{}{})
}

func (ds *DedupStore) clear() {
	ds.bloom = bloom.NewWithEstimates(ds.capacity, ds.falsePositiveRate)
	ds.recent.Purge()
}
