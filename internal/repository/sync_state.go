package repository

import (
	"context"
	"errors"

	"wallmirror/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncStateRepository persists the singleton synchronization bookkeeping row.
type SyncStateRepository interface {
	// Get returns the singleton row or (nil, nil) before the first run.
	Get(ctx context.Context) (*models.SyncState, error)
	// Upsert overwrites the singleton row; it never appends a second one.
	Upsert(ctx context.Context, state *models.SyncState) error
}

type syncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new sync state repository.
func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{db: db}
}

func (r *syncStateRepository) Get(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	err := r.db.WithContext(ctx).First(&state, "id = ?", models.SyncStateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewStorageError("load sync state", err)
	}
	return &state, nil
}

func (r *syncStateRepository) Upsert(ctx context.Context, state *models.SyncState) error {
	state.ID = models.SyncStateID
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_run_at", "last_seen_post_date", "last_seen_post_id"}),
	}).Create(state).Error
	if err != nil {
		return models.NewStorageError("upsert sync state", err)
	}
	return nil
}
