package githubapi

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is a per-resource miss, callers skip and continue.
	ErrNotFound = errors.New("github: resource not found")

	// ErrNoValidCredentials means every configured token has been rejected.
	ErrNoValidCredentials = errors.New("github: no valid credentials")

	// ErrUpstreamUnavailable means transient retries were exhausted.
	ErrUpstreamUnavailable = errors.New("github: upstream unavailable")
)

// RateLimitedError is surfaced once every credential in the pool has been
// exhausted for the same request. RetryAfter hints how long to wait.
type RateLimitedError struct {
	ResetAt    time.Time
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("github: rate limited, retry after %s", e.RetryAfter.Round(time.Second))
}
