package store

import (
	"errors"
	"strings"
	"sync"

	"github.com/weatherdash/weather-dashboard/internal/forecast"
)

// ErrNotFound is returned when no record is available for a location.
var ErrNotFound = errors.New("no weather data for location")

// MemoryStore is a concurrency-safe in-memory store of the latest weather
// record per location. A new record fully replaces the prior one; there is no
// history and no merging.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]forecast.Result
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]forecast.Result),
	}
}

func key(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}

// Save replaces the record for a location.
func (s *MemoryStore) Save(location string, res forecast.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key(location)] = res
}

// Latest returns the most recent record for a location.
func (s *MemoryStore) Latest(location string) (forecast.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.data[key(location)]
	if !ok {
		return forecast.Result{}, ErrNotFound
	}
	return res, nil
}

// Delete discards the record for a location.
func (s *MemoryStore) Delete(location string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key(location))
}
