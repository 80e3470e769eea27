package model

import (
	"context"
	"errors"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const fetchStateKey = "github_since"

// FetchState persists the user-listing cursor between runs so a crawl resumes
// where the previous one stopped.
type FetchState struct {
	Model
	ID        uint      `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `json:"key" gorm:"column:key;type:varchar(50);uniqueIndex;not null"`
	Since     int64     `json:"since_value" gorm:"column:since_value;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:CURRENT_TIMESTAMP"`
}

func NewFetchState(config *cfg.Config, logger log.Logger, db *db.Mysql) (*FetchState, error) {
	state := &FetchState{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return state, nil
}

func (f *FetchState) TableName() string {
	return "fetch_state"
}

// Load returns the saved cursor, zero when none has been stored yet.
func (f *FetchState) Load() (int64, error) {
	db, err := f.Mysql.Db()
	if err != nil {
		return 0, err
	}

	var state FetchState
	result := db.Where("`key` = ?", fetchStateKey).First(&state)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}
	return state.Since, nil
}

// Store upserts the cursor.
func (f *FetchState) Store(since int64) error {
	ctx := context.Background()

	db, err := f.Mysql.Db()
	if err != nil {
		return err
	}

	state := &FetchState{
		Key:       fetchStateKey,
		Since:     since,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"since_value", "updated_at"}),
	}).Create(state).Error; err != nil {
		f.Logger.Error(ctx, "Failed to store fetch cursor: %v", err)
		return err
	}
	return nil
}
