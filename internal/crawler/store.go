package crawler

import (
	"context"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/internal/model"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/kafka"
	"github.com/thep200/github-user-crawler/pkg/log"
)

// toMessage flattens an enriched user into the wire/persistence payload.
func toMessage(user *EnrichedUser) model.UserMessage {
	return model.UserMessage{
		GitUsername: user.User.Login,
		Name:        user.User.Name,
		Email:       user.User.Email,
		Location:    user.User.Location,
		Country:     user.Verdict.CountryCode,
		Resolved:    user.Verdict.Resolved,
		Confidence:  user.Verdict.Confidence,
		Provider:    user.Verdict.Provider,
	}
}

// DbStore writes enriched users straight to MySQL, used by the sequential
// crawler.
type DbStore struct {
	UserMd *model.User
}

func NewDbStore(config *cfg.Config, logger log.Logger, mysql *db.Mysql) (*DbStore, error) {
	userMd, err := model.NewUser(config, logger, mysql)
	if err != nil {
		return nil, err
	}
	return &DbStore{UserMd: userMd}, nil
}

func (s *DbStore) Save(ctx context.Context, user *EnrichedUser) error {
	return s.UserMd.Create(toMessage(user))
}

// KafkaStore publishes enriched users to the user topic for the batch
// consumer to persist.
type KafkaStore struct {
	Logger   log.Logger
	producer *kafka.Producer
}

func NewKafkaStore(config *cfg.Config, logger log.Logger) (*KafkaStore, error) {
	producer, err := kafka.NewProducer(config, logger, config.Kafka.Producer.TopicUser)
	if err != nil {
		return nil, err
	}
	return &KafkaStore{
		Logger:   logger,
		producer: producer,
	}, nil
}

func (s *KafkaStore) Save(ctx context.Context, user *EnrichedUser) error {
	return s.producer.Publish(ctx, "user", toMessage(user))
}

func (s *KafkaStore) Close() error {
	return s.producer.Close()
}
