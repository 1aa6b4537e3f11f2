package forecast

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimitedFetcher wraps a Fetcher with client-side rate limiting so the
// dashboard stays inside the upstream free-tier quota.
type RateLimitedFetcher struct {
	fetcher Fetcher
	limiter *rate.Limiter
	name    string
}

var _ Fetcher = (*RateLimitedFetcher)(nil)

// NewRateLimitedFetcher creates a rate-limited fetcher. rps may be fractional
// for less than one request per second; burst is the maximum burst size.
func NewRateLimitedFetcher(fetcher Fetcher, rps float64, burst int) *RateLimitedFetcher {
	return &RateLimitedFetcher{
		fetcher: fetcher,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [rate limited]", fetcher.Name()),
	}
}

func (r *RateLimitedFetcher) Name() string {
	return r.name
}

// Fetch waits for rate limiter permission, then forwards to the underlying
// fetcher.
func (r *RateLimitedFetcher) Fetch(ctx context.Context, location string) (Result, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return Result{}, &ClientError{Err: fmt.Errorf("rate limit wait canceled: %w", err)}
	}
	return r.fetcher.Fetch(ctx, location)
}
