// Package credential owns the set of GitHub API tokens and rotates over them
// so a single rate-limited token never stalls a crawl. The pool performs no
// I/O itself, callers report what the API told them about each credential.
package credential

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type State int

const (
	Active State = iota
	Exhausted
	Invalid
)

// Credential is one API token together with what we last learned about its
// quota. Mutated only through the pool.
type Credential struct {
	Token     string
	Remaining int
	ResetAt   time.Time
	State     State
}

// ErrNoCredentials means every credential has been reported invalid. There is
// no way forward without new configuration.
var ErrNoCredentials = errors.New("no valid credentials left in pool")

// ExhaustedError means every usable credential is waiting on a rate-limit
// reset. RetryAfter carries the earliest wait.
type ExhaustedError struct {
	ResetAt    time.Time
	RetryAfter time.Duration
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("all credentials exhausted, retry after %s", e.RetryAfter.Round(time.Second))
}

// Pool selects credentials round-robin, skipping exhausted ones until their
// reset time passes. Reactivation is checked lazily on Acquire, there is no
// background timer.
type Pool struct {
	mu    sync.Mutex
	creds []*Credential
	next  int
	now   func() time.Time
}

func NewPool(tokens []string) (*Pool, error) {
	creds := make([]*Credential, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		creds = append(creds, &Credential{Token: t, State: Active})
	}
	if len(creds) == 0 {
		return nil, errors.New("credential pool needs at least one token")
	}
	return &Pool{
		creds: creds,
		now:   time.Now,
	}, nil
}

func (p *Pool) Size() int {
	return len(p.creds)
}

// Acquire returns the next active credential. When nothing is usable it fails
// instead of blocking: ErrNoCredentials if every token is invalid, otherwise
// an ExhaustedError carrying the earliest reset.
func (p *Pool) Acquire() (*Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()

	// Wake up credentials whose reset time has passed
	for _, c := range p.creds {
		if c.State == Exhausted && !c.ResetAt.After(now) {
			c.State = Active
			c.ResetAt = time.Time{}
		}
	}

	for i := 0; i < len(p.creds); i++ {
		idx := (p.next + i) % len(p.creds)
		if p.creds[idx].State == Active {
			p.next = (idx + 1) % len(p.creds)
			return p.creds[idx], nil
		}
	}

	var earliest time.Time
	for _, c := range p.creds {
		if c.State != Exhausted {
			continue
		}
		if earliest.IsZero() || c.ResetAt.Before(earliest) {
			earliest = c.ResetAt
		}
	}
	if earliest.IsZero() {
		return nil, ErrNoCredentials
	}
	return nil, &ExhaustedError{ResetAt: earliest, RetryAfter: earliest.Sub(now)}
}

// ReportLimited marks a credential exhausted until resetAt. Invalid stays
// terminal even when a rate-limit signal arrives for the same credential.
func (p *Pool) ReportLimited(c *Credential, resetAt time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.State == Invalid {
		return
	}
	c.State = Exhausted
	c.Remaining = 0
	c.ResetAt = resetAt
}

// ReportInvalid permanently retires a credential. It is never retried.
func (p *Pool) ReportInvalid(c *Credential) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.State = Invalid
	c.Remaining = 0
}

// UpdateQuota records the remaining quota reported by the API.
func (p *Pool) UpdateQuota(c *Credential, remaining int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.State != Active {
		return
	}
	c.Remaining = remaining
}
