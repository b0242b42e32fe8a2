// Package history keeps a bounded signal-strength series per BSSID.
package history

import (
	"sync"

	"wifiscan/wifi"
)

// DefaultCapacity is the number of samples kept per BSSID.
const DefaultCapacity = 30

// Store maps BSSIDs to their most recent dBm samples, oldest first.
// Series are created on first observation and never removed.
type Store struct {
	mu       sync.RWMutex
	capacity int
	series   map[string][]int
}

func New() *Store {
	return NewWithCapacity(DefaultCapacity)
}

// NewWithCapacity returns a Store keeping at most capacity samples per
// BSSID. Non-positive values fall back to DefaultCapacity.
func NewWithCapacity(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		series:   make(map[string][]int),
	}
}

// Record appends dbm to the series for bssid, evicting the oldest samples
// once the series exceeds the capacity.
func (s *Store) Record(bssid string, dbm int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := append(s.series[bssid], dbm)
	if over := len(series) - s.capacity; over > 0 {
		series = append(series[:0:0], series[over:]...)
	}
	s.series[bssid] = series
}

// RecordSnapshot appends one sample for every record in a scan.
func (s *Store) RecordSnapshot(records []wifi.Record) {
	for _, rec := range records {
		s.Record(rec.BSSID, rec.SignalDbm())
	}
}

// Series returns a copy of the samples for bssid, or an empty slice.
func (s *Store) Series(bssid string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int, len(s.series[bssid]))
	copy(out, s.series[bssid])
	return out
}

// Len returns the number of tracked BSSIDs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}

// Capacity returns the maximum number of samples kept per BSSID.
func (s *Store) Capacity() int { return s.capacity }
