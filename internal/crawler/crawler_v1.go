// Crawler version 1
// Sequential ingestion: one listing page at a time, one user at a time.
// Results go straight to MySQL.

package crawler

import (
	"context"
	"time"
)

type CrawlerV1 struct {
	base
}

func NewCrawlerV1(b base) (*CrawlerV1, error) {
	return &CrawlerV1{base: b}, nil
}

func (c *CrawlerV1) Crawl(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	report := &Report{}

	since, err := c.Cursor.Load()
	if err != nil {
		return report, err
	}
	report.setCursor(since)
	c.Logger.Info(ctx, "Starting sequential crawl from cursor %d", since)

	for {
		if err := ctx.Err(); err != nil {
			c.notifySummary(ctx, report, startTime)
			return report, err
		}

		users, next, err := c.Client.ListUsers(ctx, since)
		if err != nil {
			c.notifySummary(ctx, report, startTime)
			return report, err
		}
		if len(users) == 0 {
			break
		}

		users = c.pageLimit(users, report.Fetched)
		if len(users) == 0 {
			break
		}
		report.addFetched(len(users))

		for _, user := range users {
			if err := ctx.Err(); err != nil {
				c.notifySummary(ctx, report, startTime)
				return report, err
			}
			if err := c.ingestOne(ctx, user.Login, report); err != nil {
				c.saveCursor(ctx, report, since)
				c.notifySummary(ctx, report, startTime)
				return report, err
			}
		}

		since = next
		c.saveCursor(ctx, report, since)
		if next == 0 {
			break
		}
	}

	c.Logger.Info(ctx, "Crawl finished: fetched=%d ingested=%d resolved=%d unresolved=%d skipped=%d in %v",
		report.Fetched, report.Ingested, report.Resolved, report.Unresolved, report.Skipped, time.Since(startTime))
	c.notifySummary(ctx, report, startTime)
	return report, nil
}
