package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/tracing"
)

func newEventFixture(t *testing.T) (*EventService, *MockStore) {
	t.Helper()
	store := newMockStore()
	history := NewHistoryService(store, nil, nil, 0)
	return NewEventService(store, history, nil, &tracing.NewRelicTracer{}), store
}

func TestArchiveEventIsAnUpdate(t *testing.T) {
	svc, store := newEventFixture(t)

	stored := &models.Event{
		ID:       uuid.New(),
		Name:     "Gira da Mata 2024",
		Date:     time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Location: "Sítio da Mata",
	}
	archived := *stored
	archived.IsArchived = true

	store.events.On("GetByID", mock.Anything, stored.ID).Return(stored, nil)
	store.events.On("Save", mock.Anything, &archived).Return(nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	_, err := svc.Update(context.Background(), &archived, testActor())
	require.NoError(t, err)

	// Archiving records an UPDATE, not a DELETE, and the flag shows up in the
	// field-level diff
	require.NotNil(t, entry)
	require.Equal(t, models.ActionUpdateEvent, entry.ActionType)
	require.Contains(t, entry.Description, "isArchived")
	require.Contains(t, entry.Description, "Sim")

	store.assertExpectations(t)
}

func TestRegistrationCountWithoutCache(t *testing.T) {
	svc, store := newEventFixture(t)
	eventID := uuid.New()

	store.registrations.On("CountActiveByEventID", mock.Anything, eventID).Return(int64(42), nil)

	count, err := svc.RegistrationCount(context.Background(), eventID)
	require.NoError(t, err)
	require.Equal(t, int64(42), count)

	store.assertExpectations(t)
}
