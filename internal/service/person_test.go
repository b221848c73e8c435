package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

func newPersonFixture(t *testing.T) (*PersonService, *MockStore) {
	t.Helper()
	store := newMockStore()
	history := NewHistoryService(store, nil, nil, 0)
	return NewPersonService(store, history, &tracing.NewRelicTracer{}), store
}

func TestCreatePersonRecordsHistory(t *testing.T) {
	svc, store := newPersonFixture(t)

	person := &models.Person{Name: "Maria Silva", Phone: "(11) 98765-4321"}

	store.people.On("Create", mock.Anything, person).Return(nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	created, err := svc.Create(context.Background(), person, testActor())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	require.NotNil(t, entry)
	require.Equal(t, models.ActionCreatePerson, entry.ActionType)
	require.Equal(t, created.ID, entry.RecordID)
	require.Nil(t, entry.PreviousData)
	require.NotEmpty(t, entry.NewData)
	require.Contains(t, entry.Description, "Criado")
	require.Contains(t, entry.Description, "Maria Silva")

	store.assertExpectations(t)
}

func TestDeletePersonInUseIsRejected(t *testing.T) {
	svc, store := newPersonFixture(t)

	person := &models.Person{ID: uuid.New(), Name: "João Pereira"}
	store.people.On("GetByID", mock.Anything, person.ID).Return(person, nil)
	store.people.On("HasActiveRegistrations", mock.Anything, person.ID).Return(true, nil)

	err := svc.Delete(context.Background(), person.ID, testActor())
	require.ErrorIs(t, err, repository.ErrPersonInUse)

	store.people.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	store.history.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeletePersonSoftDeletes(t *testing.T) {
	svc, store := newPersonFixture(t)

	person := &models.Person{ID: uuid.New(), Name: "João Pereira"}
	store.people.On("GetByID", mock.Anything, person.ID).Return(person, nil)
	store.people.On("HasActiveRegistrations", mock.Anything, person.ID).Return(false, nil)

	var saved *models.Person
	store.people.On("Save", mock.Anything, mock.AnythingOfType("*models.Person")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.Person)
		}).Return(nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	err := svc.Delete(context.Background(), person.ID, testActor())
	require.NoError(t, err)

	require.NotNil(t, saved)
	require.True(t, saved.IsDeleted)

	require.NotNil(t, entry)
	require.Equal(t, models.ActionDeletePerson, entry.ActionType)
	require.Contains(t, entry.Description, "Excluído")

	store.assertExpectations(t)
}
