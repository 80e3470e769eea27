// Fallbacks that scavenge profile data out of a user's recent commits when
// the profile itself is incomplete.

package githubapi

import (
	"context"
	"errors"
	"regexp"
	"strings"
)

const maxReposToScan = 5

var (
	authorTzPattern    = regexp.MustCompile(`(?m)^author .* \d+ ([+-]\d{4})$`)
	committerTzPattern = regexp.MustCompile(`(?m)^committer .* \d+ ([+-]\d{4})$`)
)

// FindCommitEmail scans the user's recent commits for a usable author email,
// rejecting GitHub-generated noreply addresses. Returns empty values when
// nothing is found.
func (c *Caller) FindCommitEmail(ctx context.Context, login string) (string, string, error) {
	repos, err := c.ListUserRepos(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", "", nil
		}
		return "", "", err
	}

	for i, repo := range repos {
		if i >= maxReposToScan {
			break
		}
		if repo.Name == "" {
			continue
		}

		commits, err := c.ListRepoCommits(ctx, login, repo.Name)
		if err != nil {
			if isFatalLookup(err) {
				return "", "", err
			}
			continue
		}

		for _, commit := range commits {
			email := strings.TrimSpace(commit.Commit.Author.Email)
			name := strings.TrimSpace(commit.Commit.Author.Name)
			if email != "" && strings.Contains(email, "@") && !isGithubEmail(email) {
				return name, email, nil
			}
		}
	}

	return "", "", nil
}

// FindCommitTimezone extracts a UTC offset from verified commit signature
// payloads. Only verified commits carry a trustworthy payload. Returns the
// offset in [+-]HHMM form or empty when none is found.
func (c *Caller) FindCommitTimezone(ctx context.Context, login string) (string, error) {
	repos, err := c.ListUserRepos(ctx, login)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	for i, repo := range repos {
		if i >= maxReposToScan {
			break
		}
		if repo.Name == "" {
			continue
		}

		commits, err := c.ListRepoCommits(ctx, login, repo.Name)
		if err != nil {
			if isFatalLookup(err) {
				return "", err
			}
			continue
		}

		for _, commit := range commits {
			if !commit.Verification.Verified || commit.Verification.Payload == "" {
				continue
			}
			// Author offset preferred, committer as fallback
			if m := authorTzPattern.FindStringSubmatch(commit.Verification.Payload); m != nil {
				return m[1], nil
			}
			if m := committerTzPattern.FindStringSubmatch(commit.Verification.Payload); m != nil {
				return m[1], nil
			}
		}
	}

	return "", nil
}

// isGithubEmail rejects addresses GitHub generates for privacy, they never
// reach a real mailbox.
func isGithubEmail(email string) bool {
	e := strings.ToLower(strings.TrimSpace(email))
	at := strings.LastIndex(e, "@")
	if at < 0 {
		return false
	}
	return strings.HasSuffix(e[at+1:], "github.com")
}

// isFatalLookup separates errors that should abort the whole crawl from
// per-repo misses we can skip.
func isFatalLookup(err error) bool {
	if errors.Is(err, ErrNoValidCredentials) || errors.Is(err, ErrUpstreamUnavailable) {
		return true
	}
	var rateLimited *RateLimitedError
	return errors.As(err, &rateLimited)
}
