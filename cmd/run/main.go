package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/crawler"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, _ := log.NewCslLogger()

	// loader, _ := cfg.NewMockLoader()
	loader, err := cfg.NewViperLoader()
	if err != nil {
		logger.Error(ctx, "Failed to create config loader: %v", err)
		os.Exit(1)
	}
	config, err := loader.Load()
	if err != nil {
		logger.Error(ctx, "Failed to load config: %v", err)
		os.Exit(1)
	}

	mysql, err := db.NewMysql(config)
	if err != nil {
		logger.Error(ctx, "Failed to create database wrapper: %v", err)
		os.Exit(1)
	}

	// Migrate database
	userMd, _ := model.NewUser(config, logger, mysql)
	stateMd, _ := model.NewFetchState(config, logger, mysql)
	if err := mysql.Migrate(userMd, stateMd); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	version := config.Crawler.Version
	if version == "" {
		version = "v1"
	}

	c, err := crawler.FactoryCrawler(version, logger, config, mysql)
	if err != nil {
		logger.Error(ctx, "Failed to create crawler: %v", err)
		os.Exit(1)
	}

	logger.Info(ctx, "Starting GitHub user crawler %s", version)
	report, err := c.Crawl(ctx)
	if err != nil {
		logger.Error(ctx, "Crawl aborted after %d users at cursor %d: %v", report.Ingested, report.LastCursor, err)
		os.Exit(1)
	}
	logger.Info(ctx, "Successfully crawled %d users (%d resolved, %d unresolved, %d skipped)",
		report.Ingested, report.Resolved, report.Unresolved, report.Skipped)
}
