package model

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type User struct {
	Model
	ID          uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	GitUsername string    `json:"git_username" gorm:"column:git_username;type:varchar(255);uniqueIndex;not null"`
	Name        string    `json:"name" gorm:"column:name;type:varchar(255)"`
	Email       string    `json:"email" gorm:"column:email;type:varchar(255)"`
	Location    string    `json:"location" gorm:"column:location;type:varchar(255)"`
	Country     string    `json:"country" gorm:"column:country;type:varchar(10);index"`
	Confidence  float64   `json:"confidence" gorm:"column:confidence;default:0"`
	Provider    string    `json:"provider" gorm:"column:provider;type:varchar(50)"`
	Contacted   bool      `json:"contacted" gorm:"column:contacted;default:false"`
	Responded   bool      `json:"responded" gorm:"column:responded;default:false"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func NewUser(config *cfg.Config, logger log.Logger, db *db.Mysql) (*User, error) {
	user := &User{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return user, nil
}

func (u *User) TableName() string {
	return "users"
}

// Create upserts one enriched user keyed on git_username, repeated ingestion
// of the same login refreshes the profile instead of duplicating it.
func (u *User) Create(msg UserMessage) error {
	ctx := context.Background()

	newUser := &User{}
	newUser.GitUsername = TruncateString(msg.GitUsername, 250)
	newUser.Name = TruncateString(msg.Name, 250)
	newUser.Email = TruncateString(msg.Email, 250)
	newUser.Location = TruncateString(msg.Location, 250)
	newUser.Country = TruncateString(msg.Country, 10)
	newUser.Confidence = msg.Confidence
	newUser.Provider = TruncateString(msg.Provider, 50)
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = time.Now()

	db, err := u.Mysql.Db()
	if err != nil {
		u.Logger.Error(ctx, "Failed to get database connection: %v", err)
		return err
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "git_username"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "location", "country", "confidence", "provider", "updated_at"}),
	}).Create(newUser).Error; err != nil {
		u.Logger.Error(ctx, "Failed to create user: %v", err)
		return err
	}

	return nil
}

// CreateBatch upserts a batch of users inside one transaction, used by the
// Kafka consumer.
func (u *User) CreateBatch(msgs []UserMessage) error {
	db, err := u.Mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	users := make([]User, 0, len(msgs))
	now := time.Now()

	for _, msg := range msgs {
		user := User{
			GitUsername: TruncateString(msg.GitUsername, 250),
			Name:        TruncateString(msg.Name, 250),
			Email:       TruncateString(msg.Email, 250),
			Location:    TruncateString(msg.Location, 250),
			Country:     TruncateString(msg.Country, 10),
			Confidence:  msg.Confidence,
			Provider:    TruncateString(msg.Provider, 50),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		users = append(users, user)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "git_username"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "email", "location", "country", "confidence", "provider", "updated_at"}),
		}).CreateInBatches(users, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create users: %w", result.Error)
		}

		return nil
	})
}
