package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/giradamata/services/admin/internal/models"
)

// PersonRepository defines the interface for the people registry
type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	Save(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error)
	ListActive(ctx context.Context) ([]*models.Person, error)
	HasActiveRegistrations(ctx context.Context, personID uuid.UUID) (bool, error)
}

// personRepository implements PersonRepository
type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(db *gorm.DB) PersonRepository {
	return &personRepository{db: db}
}

// Create creates a new person
func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Create(person).Error
}

// Save writes the full record verbatim, including the soft-delete flag.
// Undo restores rely on this being a whole-record write, not a patch.
func (r *personRepository) Save(ctx context.Context, person *models.Person) error {
	return r.db.WithContext(ctx).Save(person).Error
}

// GetByID gets a person by ID, soft-deleted records included
func (r *personRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	var person models.Person
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &person, nil
}

// ListActive lists all people not soft-deleted, by name
func (r *personRepository) ListActive(ctx context.Context) ([]*models.Person, error) {
	var people []*models.Person
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("name").
		Find(&people).Error
	if err != nil {
		return nil, err
	}
	return people, nil
}

// HasActiveRegistrations reports whether the person is referenced by any
// active registration
func (r *personRepository) HasActiveRegistrations(ctx context.Context, personID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("person_id = ? AND is_deleted = ?", personID, false).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
