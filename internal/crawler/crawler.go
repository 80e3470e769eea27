// Package crawler orchestrates the ingestion pipeline: enumerate GitHub
// users, enrich each profile with a location verdict, and hand the result to
// the persistence collaborator. Per-user failures never stop a run, only
// credential or upstream failures do.

package crawler

import (
	"context"
	"errors"
	"sync"

	"github.com/thep200/github-user-crawler/internal/githubapi"
	"github.com/thep200/github-user-crawler/internal/location"
)

// Crawler runs one ingestion pass over the GitHub user listing.
type Crawler interface {
	Crawl(ctx context.Context) (*Report, error)
}

// EnrichedUser pairs a raw profile with its location verdict. A record is
// never stored without a verdict, unresolved is itself a verdict.
type EnrichedUser struct {
	User    githubapi.UserDetail
	Verdict location.Verdict
}

// GithubClient is the slice of the API caller the pipeline needs.
type GithubClient interface {
	ListUsers(ctx context.Context, since int64) ([]githubapi.User, int64, error)
	GetUser(ctx context.Context, login string) (*githubapi.UserDetail, error)
	FindCommitEmail(ctx context.Context, login string) (string, string, error)
	FindCommitTimezone(ctx context.Context, login string) (string, error)
}

// Resolver produces a verdict for a raw location string.
type Resolver interface {
	Resolve(ctx context.Context, location string) location.Verdict
}

// Store is the persistence collaborator. Saving the same user twice must
// upsert, not duplicate.
type Store interface {
	Save(ctx context.Context, user *EnrichedUser) error
}

// CursorStore keeps the listing cursor across runs.
type CursorStore interface {
	Load() (int64, error)
	Store(since int64) error
}

// Report summarizes a run. Counters survive a fatal abort so the caller
// knows how far the crawl got.
type Report struct {
	mu         sync.Mutex
	Fetched    int
	Ingested   int
	Resolved   int
	Unresolved int
	Skipped    int
	LastCursor int64
}

func (r *Report) addFetched(n int) {
	r.mu.Lock()
	r.Fetched += n
	r.mu.Unlock()
}

func (r *Report) addIngested(resolved bool) {
	r.mu.Lock()
	r.Ingested++
	if resolved {
		r.Resolved++
	} else {
		r.Unresolved++
	}
	r.mu.Unlock()
}

func (r *Report) addSkipped() {
	r.mu.Lock()
	r.Skipped++
	r.mu.Unlock()
}

func (r *Report) setCursor(since int64) {
	r.mu.Lock()
	r.LastCursor = since
	r.mu.Unlock()
}

// isFatal separates the errors that abort a run from the per-record tier.
func isFatal(err error) bool {
	if errors.Is(err, githubapi.ErrNoValidCredentials) || errors.Is(err, githubapi.ErrUpstreamUnavailable) {
		return true
	}
	var rateLimited *githubapi.RateLimitedError
	return errors.As(err, &rateLimited)
}
