package fetch

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter rate-limits per hostname so posting lookups never hammer
// the source site. The source serves HTTP 429s well under one request
// per second, hence the conservative default in config.
type HostLimiter struct {
	rate  rate.Limit
	burst int

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

func NewHostLimiter(reqPerSec float64, burst int) *HostLimiter {
	return &HostLimiter{
		rate:    rate.Limit(reqPerSec),
		burst:   burst,
		buckets: make(map[string]*rate.Limiter),
	}
}

// WaitURL blocks until the bucket for the URL's host has a token, or the
// context ends. Unparseable URLs share one fallback bucket.
func (hl *HostLimiter) WaitURL(ctx context.Context, raw string) error {
	host := "_"
	if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
		host = strings.ToLower(u.Hostname())
	}

	hl.mu.Lock()
	bucket, ok := hl.buckets[host]
	if !ok {
		bucket = rate.NewLimiter(hl.rate, hl.burst)
		hl.buckets[host] = bucket
	}
	hl.mu.Unlock()

	return bucket.Wait(ctx)
}
