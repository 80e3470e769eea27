package location

import (
	"context"
	"errors"
	"strings"

	"github.com/thep200/github-user-crawler/pkg/log"
)

// Adapter resolves a free-text location against one backend. Implementations
// translate their own failures (timeouts, malformed responses, missing keys)
// into unresolved verdicts, a single bad lookup must never abort a crawl.
type Adapter interface {
	Name() string
	Resolve(ctx context.Context, location string) Verdict
}

// Service fronts the configured adapter with the cheap local checks: blank
// input and known country keywords are answered without spending any backend
// quota.
type Service struct {
	Logger  log.Logger
	adapter Adapter
}

func NewService(logger log.Logger, adapter Adapter) (*Service, error) {
	if adapter == nil {
		return nil, errors.New("location: adapter is required")
	}
	return &Service{
		Logger:  logger,
		adapter: adapter,
	}, nil
}

func (s *Service) Resolve(ctx context.Context, location string) Verdict {
	location = strings.TrimSpace(location)
	if location == "" {
		return Unresolved(s.adapter.Name())
	}

	if code, ok := lookupKeyword(location); ok {
		return Verdict{
			Resolved:    true,
			CountryCode: code,
			Confidence:  keywordConfidence,
			Provider:    "keyword",
		}
	}

	return s.adapter.Resolve(ctx, location)
}
