package history

import (
	"context"
	"fmt"

	"transease/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultLimit is the number of sessions listed when no limit is given.
const DefaultLimit = 50

// MaxLimit caps the number of sessions listed.
const MaxLimit = 1000

// Service handles session history operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new history service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the sessions table and warns about missing columns in
// tables that were created by hand.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&Session{}); err != nil {
		return fmt.Errorf("failed to migrate sessions table: %w", err)
	}
	missing, err := database.MissingColumns(s.db, Session{}.TableName(), sessionColumns)
	if err != nil {
		s.logger.Warn("Could not inspect sessions table", zap.Error(err))
		return nil
	}
	if len(missing) > 0 {
		s.logger.Warn("Sessions table is missing columns", zap.Strings("columns", missing))
	}
	return nil
}

// List returns the most recent sessions, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	var sessions []Session
	err := s.db.WithContext(ctx).Order("started_at DESC").Order("id DESC").Limit(limit).Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
