// The caller issues requests against the GitHub user endpoints. It acquires a
// credential from the pool before every HTTP call, reports rate limits and bad
// tokens back to the pool, and retries the same request with the next
// credential so a crawl survives per-token exhaustion.

package githubapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/credential"
	"github.com/thep200/github-user-crawler/internal/limiter"
	"github.com/thep200/github-user-crawler/pkg/log"
)

type Caller struct {
	Logger      log.Logger
	Config      *cfg.Config
	Pool        *credential.Pool
	client      *http.Client
	rateLimiter *limiter.RateLimiter
}

func NewCaller(logger log.Logger, config *cfg.Config, pool *credential.Pool) (*Caller, error) {
	timeout := time.Duration(config.GithubApi.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var rl *limiter.RateLimiter
	if config.GithubApi.RequestsPerSecond > 0 {
		rl = limiter.NewRateLimiter(config.GithubApi.RequestsPerSecond)
	}

	return &Caller{
		Logger:      logger,
		Config:      config,
		Pool:        pool,
		client:      &http.Client{Timeout: timeout},
		rateLimiter: rl,
	}, nil
}

// ListUsers fetches one page of the public user listing after the since
// cursor. The next cursor is the last user ID of the page; a zero cursor
// means the listing is exhausted.
func (c *Caller) ListUsers(ctx context.Context, since int64) ([]User, int64, error) {
	perPage := c.Config.GithubApi.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	fullUrl := fmt.Sprintf("%s/users?since=%d&per_page=%d", c.baseUrl(), since, perPage)
	body, err := c.get(ctx, fullUrl)
	if err != nil {
		return nil, 0, err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, 0, fmt.Errorf("github: decode user page: %w", err)
	}
	if len(users) == 0 {
		return nil, 0, nil
	}
	return users, users[len(users)-1].ID, nil
}

// GetUser fetches the full profile for one login.
func (c *Caller) GetUser(ctx context.Context, login string) (*UserDetail, error) {
	fullUrl := fmt.Sprintf("%s/users/%s", c.baseUrl(), url.PathEscape(login))
	body, err := c.get(ctx, fullUrl)
	if err != nil {
		return nil, err
	}

	detail := &UserDetail{}
	if err := json.Unmarshal(body, detail); err != nil {
		return nil, fmt.Errorf("github: decode user detail: %w", err)
	}
	return detail, nil
}

// ListUserRepos fetches the user's repositories, used by the commit
// scavenging fallbacks.
func (c *Caller) ListUserRepos(ctx context.Context, login string) ([]RepoResponse, error) {
	fullUrl := fmt.Sprintf("%s/users/%s/repos", c.baseUrl(), url.PathEscape(login))
	body, err := c.get(ctx, fullUrl)
	if err != nil {
		return nil, err
	}

	var repos []RepoResponse
	if err := json.Unmarshal(body, &repos); err != nil {
		return nil, fmt.Errorf("github: decode repo list: %w", err)
	}
	return repos, nil
}

// ListRepoCommits fetches recent commits of one repository.
func (c *Caller) ListRepoCommits(ctx context.Context, login, repo string) ([]CommitResponse, error) {
	fullUrl := fmt.Sprintf("%s/repos/%s/%s/commits?per_page=10", c.baseUrl(), url.PathEscape(login), url.PathEscape(repo))
	body, err := c.get(ctx, fullUrl)
	if err != nil {
		return nil, err
	}

	var commits []CommitResponse
	if err := json.Unmarshal(body, &commits); err != nil {
		return nil, fmt.Errorf("github: decode commit list: %w", err)
	}
	return commits, nil
}

func (c *Caller) baseUrl() string {
	base := strings.TrimRight(c.Config.GithubApi.ApiUrl, "/")
	if base == "" {
		base = "https://api.github.com"
	}
	return base
}

// get runs one logical request, rotating credentials on rate limits and bad
// tokens. Rotation is capped at pool size so simultaneous exhaustion of every
// credential cannot loop forever.
func (c *Caller) get(ctx context.Context, fullUrl string) ([]byte, error) {
	rotations := 0
	invalidRetried := false

	for {
		cred, err := c.Pool.Acquire()
		if err != nil {
			var exhausted *credential.ExhaustedError
			if errors.As(err, &exhausted) {
				return nil, &RateLimitedError{ResetAt: exhausted.ResetAt, RetryAfter: exhausted.RetryAfter}
			}
			return nil, ErrNoValidCredentials
		}

		resp, body, err := c.send(ctx, fullUrl, cred)
		if err != nil {
			return nil, err
		}

		if remaining := resp.Header.Get("X-RateLimit-Remaining"); remaining != "" {
			if v, convErr := strconv.Atoi(remaining); convErr == nil {
				c.Pool.UpdateQuota(cred, v)
			}
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil

		case isRateLimited(resp):
			resetAt := parseResetAt(resp)
			c.Pool.ReportLimited(cred, resetAt)
			rotations++
			c.Logger.Warn(ctx, "Credential rate limited until %s, rotating (%d/%d)",
				resetAt.Format(time.RFC3339), rotations, c.Pool.Size())
			if rotations >= c.Pool.Size() {
				return nil, &RateLimitedError{ResetAt: resetAt, RetryAfter: time.Until(resetAt)}
			}
			continue

		case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
			// 401, or 403 without rate-limit headers: the token itself is bad
			c.Pool.ReportInvalid(cred)
			if invalidRetried {
				return nil, ErrNoValidCredentials
			}
			invalidRetried = true
			c.Logger.Warn(ctx, "Credential rejected with status %d, retrying with another one", resp.StatusCode)
			continue

		case resp.StatusCode == http.StatusNotFound:
			return nil, ErrNotFound

		default:
			return nil, fmt.Errorf("github: unexpected status %s", resp.Status)
		}
	}
}

// send performs a single HTTP exchange with bounded exponential backoff on
// network errors and 5xx responses.
func (c *Caller) send(ctx context.Context, fullUrl string, cred *credential.Credential) (*http.Response, []byte, error) {
	attempts := c.Config.GithubApi.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	backoff := time.Duration(c.Config.GithubApi.BackoffBaseMs) * time.Millisecond
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			case <-time.After(backoff << (attempt - 1)):
			}
		}

		if c.rateLimiter != nil {
			throttle := time.Duration(c.Config.GithubApi.ThrottleDelay) * time.Millisecond
			if err := c.rateLimiter.Wait(ctx, throttle); err != nil {
				return nil, nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
		if err != nil {
			return nil, nil, err
		}
		req.Header.Set("Accept", "application/vnd.github.v3+json")
		req.Header.Set("Authorization", fmt.Sprintf("token %s", cred.Token))

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error %s", resp.Status)
			continue
		}
		return resp, body, nil
	}
	return nil, nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, lastErr)
}

func isRateLimited(resp *http.Response) bool {
	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusTooManyRequests {
		return false
	}
	if resp.Header.Get("Retry-After") != "" {
		return true
	}
	return resp.Header.Get("X-RateLimit-Remaining") == "0"
}

func parseResetAt(resp *http.Response) time.Time {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil {
			return time.Now().Add(time.Duration(secs) * time.Second)
		}
	}
	if reset := resp.Header.Get("X-RateLimit-Reset"); reset != "" {
		if v, err := strconv.ParseInt(reset, 10, 64); err == nil {
			return time.Unix(v, 0)
		}
	}
	// No usable header, back off for a minute
	return time.Now().Add(time.Minute)
}
