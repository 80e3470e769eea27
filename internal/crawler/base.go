package crawler

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/githubapi"
	"github.com/thep200/github-user-crawler/internal/location"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/internal/notify"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// commitTzConfidence applies to countries inferred from a commit UTC offset,
// the weakest signal the pipeline accepts.
const commitTzConfidence = 0.3

// base carries the collaborators every crawler version shares. Versions differ
// only in how they schedule the per-user work.
type base struct {
	Logger   log.Logger
	Config   *cfg.Config
	Client   GithubClient
	Resolver Resolver
	Store    Store
	Cursor   CursorStore
	Notifier notify.Notifier
}

// enrich builds the full record for one login: profile detail, commit email
// fallback when the profile hides the address, location verdict, and a commit
// timezone fallback when no verdict could be reached.
func (b *base) enrich(ctx context.Context, login string) (*EnrichedUser, error) {
	detail, err := b.Client.GetUser(ctx, login)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(detail.Email) == "" {
		name, email, err := b.Client.FindCommitEmail(ctx, login)
		if err != nil {
			return nil, err
		}
		if email != "" {
			detail.Email = email
			if strings.TrimSpace(detail.Name) == "" && name != "" {
				detail.Name = name
			}
		}
	}

	verdict := b.Resolver.Resolve(ctx, detail.Location)

	if !verdict.Resolved {
		tz, err := b.Client.FindCommitTimezone(ctx, login)
		if err != nil {
			return nil, err
		}
		if tz != "" {
			verdict = location.Verdict{
				Resolved:    true,
				CountryCode: tz,
				Confidence:  commitTzConfidence,
				Provider:    "commit-timezone",
			}
		}
	}

	return &EnrichedUser{User: *detail, Verdict: verdict}, nil
}

// ingestOne enriches and stores a single login. Missing users and enrichment
// hiccups count as skipped, fatal errors propagate to abort the run.
func (b *base) ingestOne(ctx context.Context, login string, report *Report) error {
	enriched, err := b.enrich(ctx, login)
	if err != nil {
		if errors.Is(err, githubapi.ErrNotFound) {
			report.addSkipped()
			return nil
		}
		if isFatal(err) {
			return err
		}
		b.Logger.Warn(ctx, "Skipping user %s: %v", login, err)
		report.addSkipped()
		return nil
	}

	if err := b.Store.Save(ctx, enriched); err != nil {
		return err
	}

	report.addIngested(enriched.Verdict.Resolved)
	return nil
}

// saveCursor persists the listing position. A failed save degrades resume, it
// does not stop the crawl.
func (b *base) saveCursor(ctx context.Context, report *Report, since int64) {
	report.setCursor(since)
	if err := b.Cursor.Store(since); err != nil {
		b.Logger.Warn(ctx, "Failed to persist fetch cursor %d: %v", since, err)
	}
}

// notifySummary publishes the end-of-run digest.
func (b *base) notifySummary(ctx context.Context, report *Report, started time.Time) {
	if b.Notifier == nil {
		return
	}
	b.Notifier.Notify(ctx, model.SummaryMessage{
		Fetched:    report.Fetched,
		Ingested:   report.Ingested,
		Resolved:   report.Resolved,
		Unresolved: report.Unresolved,
		Skipped:    report.Skipped,
		LastCursor: report.LastCursor,
		Duration:   time.Since(started).Round(time.Millisecond).String(),
	})
}

// pageLimit trims a listing page to the remaining user budget. A zero or
// negative MaxUsers means no budget.
func (b *base) pageLimit(users []githubapi.User, fetched int) []githubapi.User {
	maxUsers := b.Config.Crawler.MaxUsers
	if maxUsers <= 0 {
		return users
	}
	remaining := maxUsers - fetched
	if remaining <= 0 {
		return nil
	}
	if len(users) > remaining {
		return users[:remaining]
	}
	return users
}
