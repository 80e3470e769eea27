// Crawler version 2
// Concurrent ingestion: listing stays sequential to preserve the cursor, the
// per-user enrichment of each page fans out to a bounded worker group.
// Results go to Kafka for the batch consumer.

package crawler

import (
	"context"
	"sync"
	"time"

	"github.com/thep200/github-user-crawler/internal/githubapi"
)

const defaultWorkers = 5

type CrawlerV2 struct {
	base
	workers chan struct{}
}

func NewCrawlerV2(b base) (*CrawlerV2, error) {
	workers := b.Config.Crawler.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &CrawlerV2{
		base:    b,
		workers: make(chan struct{}, workers),
	}, nil
}

func (c *CrawlerV2) Crawl(ctx context.Context) (*Report, error) {
	startTime := time.Now()
	report := &Report{}

	since, err := c.Cursor.Load()
	if err != nil {
		return report, err
	}
	report.setCursor(since)
	c.Logger.Info(ctx, "Starting concurrent crawl from cursor %d with %d workers", since, cap(c.workers))

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

		if err := c.ingestPage(ctx, users, report); err != nil {
			c.saveCursor(ctx, report, since)
			c.notifySummary(ctx, report, startTime)
			return report, err
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

// ingestPage processes one page of logins concurrently and returns the first
// fatal error any worker hit. The page is fully drained before returning so
// the cursor only advances past completed pages.
func (c *CrawlerV2) ingestPage(ctx context.Context, users []githubapi.User, report *Report) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var fatalErr error

	for _, user := range users {
		mu.Lock()
		aborted := fatalErr != nil
		mu.Unlock()
		if aborted || ctx.Err() != nil {
			break
		}

		wg.Add(1)
		c.workers <- struct{}{}
		go func(login string) {
			defer wg.Done()
			defer func() { <-c.workers }()

			if err := c.ingestOne(ctx, login, report); err != nil {
				mu.Lock()
				if fatalErr == nil {
					fatalErr = err
				}
				mu.Unlock()
			}
		}(user.Login)
	}

	wg.Wait()

	if fatalErr != nil {
		return fatalErr
	}
	return ctx.Err()
}
