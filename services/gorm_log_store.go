package services

import (
	"context"
	"fmt"

	"github.com/aadykin95/telegram-food-bot-render/models"

	"gorm.io/gorm"
)

// GormLogStore keeps the log in a SQL table (postgres or sqlite).
type GormLogStore struct {
	db *gorm.DB
}

func NewGormLogStore(db *gorm.DB) (*GormLogStore, error) {
	if err := db.AutoMigrate(&models.LogRecord{}); err != nil {
		return nil, fmt.Errorf("migrate log records: %w", err)
	}
	return &GormLogStore{db: db}, nil
}

func (s *GormLogStore) Append(ctx context.Context, rec *models.LogRecord) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert log record: %w", err)
	}
	return nil
}

func (s *GormLogStore) ReadRows(ctx context.Context) ([][]string, error) {
	var recs []models.LogRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("read log records: %w", err)
	}
	rows := make([][]string, 0, len(recs))
	for i := range recs {
		rows = append(rows, recs[i].Row())
	}
	return rows, nil
}
