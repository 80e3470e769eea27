package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

const (
	batchSize    = 100
	batchTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, _ := log.NewCslLogger()

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

	userMd, err := model.NewUser(config, logger, mysql)
	if err != nil {
		logger.Error(ctx, "Failed to create user model: %v", err)
		os.Exit(1)
	}
	stateMd, _ := model.NewFetchState(config, logger, mysql)
	if err := mysql.Migrate(userMd, stateMd); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	consumer, err := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicUser, "user-consumer-group")
	if err != nil {
		logger.Error(ctx, "Failed to create kafka consumer: %v", err)
		os.Exit(1)
	}
	defer consumer.Close()

	// Channel to collect messages for batch processing
	messages := make(chan model.UserMessage, batchSize*2)
	go processBatchedUsers(ctx, messages, logger, userMd)

	consumer.RegisterHandler("user", func(data []byte) error {
		var userMsg model.UserMessage
		if err := json.Unmarshal(data, &userMsg); err != nil {
			return fmt.Errorf("failed to unmarshal user message: %w", err)
		}

		select {
		case messages <- userMsg:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})

	logger.Info(ctx, "User consumer started")
	if err := consumer.Start(ctx); err != nil {
		logger.Error(ctx, "User consumer error: %v", err)
		os.Exit(1)
	}
	logger.Info(ctx, "User consumer stopped")
}

// processBatchedUsers drains the message channel into size- or time-bounded
// batches and upserts each batch in one transaction.
func processBatchedUsers(ctx context.Context, messages <-chan model.UserMessage, logger log.Logger, userMd *model.User) {
	var batch []model.UserMessage
	timer := time.NewTimer(batchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := userMd.CreateBatch(batch); err != nil {
			logger.Error(ctx, "Failed to save batch of %d users: %v", len(batch), err)
		} else {
			logger.Info(ctx, "Saved batch of %d users", len(batch))
		}
		batch = nil
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case msg := <-messages:
			batch = append(batch, msg)
			if len(batch) >= batchSize {
				flush()
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			flush()
			timer.Reset(batchTimeout)
		}
	}
}
