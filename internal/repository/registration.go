package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/giradamata/services/admin/internal/models"
)

// RegistrationRepository defines the interface for registrations
type RegistrationRepository interface {
	Create(ctx context.Context, registration *models.Registration) error
	Save(ctx context.Context, registration *models.Registration) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error)
	FindActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Registration, error)
	CountActiveByEventID(ctx context.Context, eventID uuid.UUID) (int64, error)
}

// registrationRepository implements RegistrationRepository
type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Create creates a new registration
func (r *registrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	return r.db.WithContext(ctx).Omit("Event", "Person").Create(registration).Error
}

// Save writes the full record verbatim, including the soft-delete flag
func (r *registrationRepository) Save(ctx context.Context, registration *models.Registration) error {
	return r.db.WithContext(ctx).Omit("Event", "Person").Save(registration).Error
}

// GetByID gets a registration by ID, soft-deleted records included
func (r *registrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	var registration models.Registration
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("id = ?", id).
		First(&registration).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &registration, nil
}

// FindActiveByEventID finds all active registrations of one event. The
// recovery scan depends on this being batched per event rather than fetched
// per registration.
func (r *registrationRepository) FindActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Registration, error) {
	var registrations []*models.Registration
	err := r.db.WithContext(ctx).
		Preload("Person").
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Order("created_at DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, err
	}
	return registrations, nil
}

// CountActiveByEventID counts the active registrations of one event
func (r *registrationRepository) CountActiveByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND is_deleted = ?", eventID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
