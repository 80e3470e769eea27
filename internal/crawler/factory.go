package crawler

import (
	"fmt"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/credential"
	"github.com/thep200/github-user-crawler/internal/githubapi"
	"github.com/thep200/github-user-crawler/internal/location"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/internal/notify"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// FactoryCrawler assembles a crawler version with its full collaborator
// graph. v1 persists straight to MySQL and logs its summary, v2 publishes
// users and summary to Kafka.
func FactoryCrawler(version string, logger log.Logger, config *cfg.Config, mysql *db.Mysql) (Crawler, error) {
	pool, err := credential.NewPool(config.GithubApi.AccessTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to create credential pool: %w", err)
	}

	caller, err := githubapi.NewCaller(logger, config, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to create github caller: %w", err)
	}

	adapter, err := location.FactoryAdapter(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create location adapter: %w", err)
	}

	resolver, err := location.NewService(logger, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create location service: %w", err)
	}

	cursor, err := model.NewFetchState(config, logger, mysql)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetch state model: %w", err)
	}

	b := base{
		Logger:   logger,
		Config:   config,
		Client:   caller,
		Resolver: resolver,
		Cursor:   cursor,
	}

	switch version {
	case "v1":
		store, err := NewDbStore(config, logger, mysql)
		if err != nil {
			return nil, fmt.Errorf("failed to create db store: %w", err)
		}
		notifier, err := notify.NewLogNotifier(logger)
		if err != nil {
			return nil, err
		}
		b.Store = store
		b.Notifier = notifier
		return NewCrawlerV1(b)
	case "v2":
		store, err := NewKafkaStore(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka store: %w", err)
		}
		notifier, err := notify.NewKafkaNotifier(config, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka notifier: %w", err)
		}
		b.Store = store
		b.Notifier = notifier
		return NewCrawlerV2(b)
	default:
		return nil, fmt.Errorf("unsupported crawler version: %s", version)
	}
}
