// Package notify delivers the end-of-run summary to an out-of-band channel.
// Delivery is fire-and-forget, a crawl never fails because its summary did.
package notify

import (
	"context"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

type Notifier interface {
	Notify(ctx context.Context, summary model.SummaryMessage)
}

// KafkaNotifier publishes summaries to the configured summary topic.
type KafkaNotifier struct {
	Logger   log.Logger
	producer *kafka.Producer
}

func NewKafkaNotifier(config *cfg.Config, logger log.Logger) (*KafkaNotifier, error) {
	producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicSummary)
	if err != nil {
		return nil, err
	}
	return &KafkaNotifier{
		Logger:   logger,
		producer: producer,
	}, nil
}

func (n *KafkaNotifier) Notify(ctx context.Context, summary model.SummaryMessage) {
	if err := n.producer.Publish(ctx, "summary", summary); err != nil {
		n.Logger.Error(ctx, "Failed to publish crawl summary: %v", err)
	}
}

func (n *KafkaNotifier) Close() error {
	return n.producer.Close()
}

// LogNotifier writes the summary to the log, used when Kafka is not wired.
type LogNotifier struct {
	Logger log.Logger
}

func NewLogNotifier(logger log.Logger) (*LogNotifier, error) {
	return &LogNotifier{Logger: logger}, nil
}

func (n *LogNotifier) Notify(ctx context.Context, summary model.SummaryMessage) {
	n.Logger.Info(ctx, "Crawl summary: fetched=%d ingested=%d resolved=%d unresolved=%d skipped=%d cursor=%d duration=%s",
		summary.Fetched, summary.Ingested, summary.Resolved, summary.Unresolved, summary.Skipped, summary.LastCursor, summary.Duration)
}
