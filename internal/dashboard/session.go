// Package dashboard coordinates the single-dashboard session: the active
// location, the latest fetched record, and the geolocation flow.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/weatherdash/weather-dashboard/internal/forecast"
	"github.com/weatherdash/weather-dashboard/internal/geolocate"
	"github.com/weatherdash/weather-dashboard/internal/store"
)

// ErrNoLocation is returned by Refresh when nothing has been searched yet.
var ErrNoLocation = errors.New("no location to refresh")

// Snapshot is the displayable session state.
type Snapshot struct {
	Location string           `json:"location,omitempty"`
	Result   *forecast.Result `json:"result,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Session holds the dashboard state for one logical user. Overlapping
// fetches are allowed; each carries a request token and only the most
// recently issued request may update the session when it resolves
// (last-request-wins).
type Session struct {
	mu      sync.Mutex
	fetcher forecast.Fetcher
	locator geolocate.Locator
	store   *store.MemoryStore

	location string
	latest   *forecast.Result
	lastErr  string
	pending  uuid.UUID
}

func NewSession(fetcher forecast.Fetcher, locator geolocate.Locator, st *store.MemoryStore) *Session {
	return &Session{
		fetcher: fetcher,
		locator: locator,
		store:   st,
	}
}

// Search fetches weather for location and, if this is still the most recent
// request, makes the result the session state. The fetch outcome is returned
// to the caller either way.
func (s *Session) Search(ctx context.Context, location string) (forecast.Result, error) {
	token := s.begin()
	res, err := s.fetcher.Fetch(ctx, location)
	s.complete(token, location, res, err)
	return res, err
}

// UseCurrentLocation resolves the current position and searches for it. When
// showError is false a geolocation failure is suppressed from the session
// state (the startup lookup must not interrupt first load); the error is
// still returned to the caller.
func (s *Session) UseCurrentLocation(ctx context.Context, showError bool) (forecast.Result, error) {
	if s.locator == nil {
		err := geolocate.ErrUnavailable
		if showError {
			s.recordError(geolocate.Message(err))
		}
		return forecast.Result{}, err
	}

	pos, err := s.locator.CurrentPosition(ctx)
	if err != nil {
		if showError {
			s.recordError(geolocate.Message(err))
		}
		return forecast.Result{}, err
	}
	return s.Search(ctx, pos.String())
}

// Refresh re-fetches the active location, falling back to the resolved
// address of the latest record.
func (s *Session) Refresh(ctx context.Context) (forecast.Result, error) {
	s.mu.Lock()
	location := s.location
	if location == "" && s.latest != nil {
		location = s.latest.Record.ResolvedAddress
	}
	s.mu.Unlock()

	if location == "" {
		return forecast.Result{}, ErrNoLocation
	}
	return s.Search(ctx, location)
}

// Location returns the active location, empty before the first successful
// search.
func (s *Session) Location() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.location
}

// Snapshot returns a copy of the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Location: s.location,
		Error:    s.lastErr,
	}
	if s.latest != nil {
		res := *s.latest
		snap.Result = &res
	}
	return snap
}

// begin issues a fresh request token and marks it as the most recent.
func (s *Session) begin() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = uuid.New()
	return s.pending
}

// complete applies a resolved fetch to the session unless a newer request was
// issued in the meantime. Reports whether the result was applied.
func (s *Session) complete(token uuid.UUID, location string, res forecast.Result, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.pending {
		return false
	}

	if err != nil {
		s.lastErr = err.Error()
		return true
	}

	s.location = location
	latest := res
	s.latest = &latest
	s.lastErr = ""
	if s.store != nil {
		s.store.Save(location, res)
	}
	return true
}

func (s *Session) recordError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = msg
}
