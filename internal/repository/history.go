package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/giradamata/services/admin/internal/models"
)

// HistoryRepository defines the interface for the append-only action log.
// Entries are never mutated after creation except to flip IsUndone.
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.ActionHistoryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ActionHistoryEntry, error)
	List(ctx context.Context, limit int) ([]*models.ActionHistoryEntry, error)
	MarkUndone(ctx context.Context, id uuid.UUID) error
}

// historyRepository implements HistoryRepository
type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

// Create appends one entry to the log
func (r *historyRepository) Create(ctx context.Context, entry *models.ActionHistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetByID gets one history entry
func (r *historyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ActionHistoryEntry, error) {
	var entry models.ActionHistoryEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// List returns the most recent entries, newest first
func (r *historyRepository) List(ctx context.Context, limit int) ([]*models.ActionHistoryEntry, error) {
	var entries []*models.ActionHistoryEntry
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// MarkUndone flips the undone flag. Idempotent: marking an already-undone
// entry is a no-op, not an error.
func (r *historyRepository) MarkUndone(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ActionHistoryEntry{}).
		Where("id = ?", id).
		Update("is_undone", true).Error
}
