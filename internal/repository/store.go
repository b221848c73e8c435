package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store is the data-access interface consumed by the services. Transaction
// yields a Store bound to the same database transaction, which is what lets
// a mutation and its history entry share one transactional boundary.
type Store interface {
	People() PersonRepository
	Events() EventRepository
	Registrations() RegistrationRepository
	History() HistoryRepository
	Transaction(ctx context.Context, fn func(Store) error) error
}

// gormStore implements Store on a gorm connection or transaction
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a store backed by the given gorm connection
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) People() PersonRepository {
	return NewPersonRepository(s.db)
}

func (s *gormStore) Events() EventRepository {
	return NewEventRepository(s.db)
}

func (s *gormStore) Registrations() RegistrationRepository {
	return NewRegistrationRepository(s.db)
}

func (s *gormStore) History() HistoryRepository {
	return NewHistoryRepository(s.db)
}

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
