// Package geolocate resolves the dashboard's position. It stands in for the
// browser geolocation collaborator: lookups are bounded by a fixed timeout,
// positions are cached for a short period, and failures map to a small set of
// user-facing messages.
package geolocate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/kelvins/geocoder"
)

var (
	// ErrPermissionDenied means the lookup backend rejected our credentials.
	ErrPermissionDenied = errors.New("geolocation permission denied")
	// ErrUnavailable means no position could be determined.
	ErrUnavailable = errors.New("position unavailable")
	// ErrTimeout means the lookup did not complete within the bound.
	ErrTimeout = errors.New("geolocation timed out")
)

// Message maps a geolocation error to its user-facing text.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPermissionDenied):
		return "Location permission denied. Please enable location access."
	case errors.Is(err, ErrUnavailable):
		return "Location information is unavailable."
	case errors.Is(err, ErrTimeout):
		return "Location request timed out."
	default:
		return "An unknown error occurred."
	}
}

// Position is a pair of coordinates. Its string form, "lat,lon" at 4-decimal
// precision, is the canonical location passed back into the forecast fetcher.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p Position) String() string {
	return fmt.Sprintf("%.4f,%.4f", p.Latitude, p.Longitude)
}

// Locator yields the dashboard's current position.
type Locator interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Resolve geocodes a free-text address to a position via the Google
// geocoding API. The lookup runs in a goroutine so the context bound holds
// even though the underlying client does not accept one.
func Resolve(ctx context.Context, address string) (Position, error) {
	if strings.TrimSpace(address) == "" {
		return Position{}, ErrUnavailable
	}

	type outcome struct {
		pos Position
		err error
	}
	ch := make(chan outcome, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{Street: address})
		if err != nil {
			ch <- outcome{err: classifyLookupError(err)}
			return
		}
		ch <- outcome{pos: Position{Latitude: loc.Latitude, Longitude: loc.Longitude}}
	}()

	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	case out := <-ch:
		return out.pos, out.err
	}
}

func classifyLookupError(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "denied") || strings.Contains(msg, "key") {
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// GeocoderLocator resolves a configured home address to coordinates.
type GeocoderLocator struct {
	address string
}

// NewGeocoderLocator configures the geocoding backend with apiKey and returns
// a locator for the given home address.
func NewGeocoderLocator(apiKey, address string) *GeocoderLocator {
	geocoder.ApiKey = apiKey
	return &GeocoderLocator{address: address}
}

func (g *GeocoderLocator) CurrentPosition(ctx context.Context) (Position, error) {
	return Resolve(ctx, g.address)
}

// Cached wraps a Locator with the collaborator's timing contract: each lookup
// is bounded to 30 seconds and a resolved position is reused for 5 minutes.
type Cached struct {
	mu      sync.Mutex
	inner   Locator
	timeout time.Duration
	maxAge  time.Duration
	pos     Position
	fetched time.Time
	now     func() time.Time
}

// NewCached wraps inner with the default 30s timeout and 5-minute cache.
func NewCached(inner Locator) *Cached {
	return &Cached{
		inner:   inner,
		timeout: 30 * time.Second,
		maxAge:  5 * time.Minute,
		now:     time.Now,
	}
}

func (c *Cached) CurrentPosition(ctx context.Context) (Position, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetched.IsZero() && c.now().Sub(c.fetched) < c.maxAge {
		return c.pos, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pos, err := c.inner.CurrentPosition(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Position{}, ErrTimeout
		}
		return Position{}, err
	}

	c.pos = pos
	c.fetched = c.now()
	return pos, nil
}
