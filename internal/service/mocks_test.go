package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
)

// Mock repositories for testing

type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *models.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) Save(ctx context.Context, person *models.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Person), args.Error(1)
}

func (m *MockPersonRepository) ListActive(ctx context.Context) ([]*models.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Person), args.Error(1)
}

func (m *MockPersonRepository) HasActiveRegistrations(ctx context.Context, personID uuid.UUID) (bool, error) {
	args := m.Called(ctx, personID)
	return args.Bool(0), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Save(ctx context.Context, event *models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) ListActive(ctx context.Context) ([]*models.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *models.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) Save(ctx context.Context, registration *models.Registration) error {
	args := m.Called(ctx, registration)
	return args.Error(0)
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindActiveByEventID(ctx context.Context, eventID uuid.UUID) ([]*models.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) CountActiveByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Create(ctx context.Context, entry *models.ActionHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ActionHistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ActionHistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) List(ctx context.Context, limit int) ([]*models.ActionHistoryEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ActionHistoryEntry), args.Error(1)
}

func (m *MockHistoryRepository) MarkUndone(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockStore wires the mock repositories together. Transaction runs the
// callback against the same store, which mirrors how the real store hands the
// callback a transaction-bound view.
type MockStore struct {
	people        *MockPersonRepository
	events        *MockEventRepository
	registrations *MockRegistrationRepository
	history       *MockHistoryRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		people:        new(MockPersonRepository),
		events:        new(MockEventRepository),
		registrations: new(MockRegistrationRepository),
		history:       new(MockHistoryRepository),
	}
}

func (m *MockStore) People() repository.PersonRepository { return m.people }

func (m *MockStore) Events() repository.EventRepository { return m.events }

func (m *MockStore) Registrations() repository.RegistrationRepository { return m.registrations }

func (m *MockStore) History() repository.HistoryRepository { return m.history }

func (m *MockStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *MockStore) assertExpectations(t mock.TestingT) {
	m.people.AssertExpectations(t)
	m.events.AssertExpectations(t)
	m.registrations.AssertExpectations(t)
	m.history.AssertExpectations(t)
}
