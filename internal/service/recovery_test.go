package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

func newRecoveryFixture(t *testing.T) (*RecoveryService, *MockStore) {
	t.Helper()
	store := newMockStore()
	history := NewHistoryService(store, nil, nil, 0)
	return NewRecoveryService(store, history, &tracing.NewRelicTracer{}, 500, 2), store
}

// driftEntry builds an UPDATE_REGISTRATION entry whose snapshots move the
// payment status from one value to another
func driftEntry(t *testing.T, reg models.Registration, from, to models.PaymentStatus) *models.ActionHistoryEntry {
	t.Helper()
	prev := reg
	prev.Person = nil
	prev.Payment.Status = from
	next := prev
	next.Payment.Status = to

	return &models.ActionHistoryEntry{
		ID:           uuid.New(),
		CreatedAt:    time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC),
		ActionType:   models.ActionUpdateRegistration,
		TableName:    models.TableRegistrations,
		RecordID:     reg.ID,
		PreviousData: mustSnapshot(t, prev),
		NewData:      mustSnapshot(t, next),
	}
}

func TestScanFindsLiveDriftOnly(t *testing.T) {
	svc, store := newRecoveryFixture(t)
	eventID := uuid.New()

	drifted := models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		Payment: models.Payment{Status: models.PaymentPending},
		Person:  &models.Person{Name: "Maria Silva"},
	}
	alreadyFixed := models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		Payment: models.Payment{Status: models.PaymentPaid},
	}

	entries := []*models.ActionHistoryEntry{
		// Matches the regression pattern and the record is still wrong
		driftEntry(t, drifted, models.PaymentPaid, models.PaymentPending),
		// Matches the pattern but the record was corrected since
		driftEntry(t, alreadyFixed, models.PaymentPaid, models.PaymentPending),
		// Opposite direction, not the regression
		driftEntry(t, drifted, models.PaymentPending, models.PaymentPaid),
	}

	store.history.On("List", mock.Anything, 500).Return(entries, nil)
	store.registrations.On("FindActiveByEventID", mock.Anything, eventID).
		Return([]*models.Registration{&drifted, &alreadyFixed}, nil)

	candidates, err := svc.Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	require.Equal(t, drifted.ID, candidates[0].RegistrationID)
	require.Equal(t, eventID, candidates[0].EventID)
	require.Equal(t, "Maria Silva", candidates[0].PersonName)
	require.Equal(t, models.PaymentPending, candidates[0].CurrentStatus)

	store.assertExpectations(t)
}

func TestScanSkipsUndoneEntriesAndDeduplicates(t *testing.T) {
	svc, store := newRecoveryFixture(t)
	eventID := uuid.New()

	drifted := models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		Payment: models.Payment{Status: models.PaymentPending},
	}

	undone := driftEntry(t, drifted, models.PaymentPaid, models.PaymentPending)
	undone.IsUndone = true

	entries := []*models.ActionHistoryEntry{
		undone,
		// The same registration drifted twice; it must surface once
		driftEntry(t, drifted, models.PaymentPaid, models.PaymentPending),
		driftEntry(t, drifted, models.PaymentPaid, models.PaymentPending),
	}

	store.history.On("List", mock.Anything, 500).Return(entries, nil)
	store.registrations.On("FindActiveByEventID", mock.Anything, eventID).
		Return([]*models.Registration{&drifted}, nil)

	candidates, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, drifted.ID, candidates[0].RegistrationID)
}

func TestScanExcludesInactiveRegistrations(t *testing.T) {
	svc, store := newRecoveryFixture(t)
	eventID := uuid.New()

	deleted := models.Registration{
		ID:      uuid.New(),
		EventID: eventID,
		Payment: models.Payment{Status: models.PaymentPending},
	}
	entries := []*models.ActionHistoryEntry{
		driftEntry(t, deleted, models.PaymentPaid, models.PaymentPending),
	}

	store.history.On("List", mock.Anything, 500).Return(entries, nil)
	// The registration was soft deleted since, so the event's active set does
	// not contain it
	store.registrations.On("FindActiveByEventID", mock.Anything, eventID).
		Return([]*models.Registration{}, nil)

	candidates, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Empty(t, candidates)
}

func TestRestorePreservesLaterEdits(t *testing.T) {
	svc, store := newRecoveryFixture(t)

	busSeat := "Bus 2, seat 14"
	reg := models.Registration{
		ID:          uuid.New(),
		EventID:     uuid.New(),
		PersonID:    uuid.New(),
		PackageType: models.PackageSiteAndBus,
		Payment: models.Payment{
			Amount:  120,
			Status:  models.PaymentPending,
			SiteLeg: &models.PaymentLeg{IsPaid: true},
			BusLeg:  &models.PaymentLeg{IsPaid: false},
		},
		BusAssignment: &busSeat,
		Notes:         "edited after the drift",
	}

	current := reg
	store.registrations.On("GetByID", mock.Anything, reg.ID).Return(&current, nil)

	var saved *models.Registration
	store.registrations.On("Save", mock.Anything, mock.AnythingOfType("*models.Registration")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.Registration)
		}).Return(nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	result, err := svc.Restore(context.Background(), []uuid.UUID{reg.ID}, testActor())
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{reg.ID}, result.Restored)
	require.Empty(t, result.Failed)

	// Only the status is overridden; everything edited since the drift stays
	require.NotNil(t, saved)
	require.Equal(t, models.PaymentPaid, saved.Payment.Status)
	require.Equal(t, "edited after the drift", saved.Notes)
	require.NotNil(t, saved.BusAssignment)
	require.Equal(t, busSeat, *saved.BusAssignment)
	require.NotNil(t, saved.Payment.BusLeg)
	require.False(t, saved.Payment.BusLeg.IsPaid)

	require.NotNil(t, entry)
	require.Equal(t, models.ActionUpdateRegistration, entry.ActionType)
	require.Equal(t, reg.ID, entry.RecordID)

	store.assertExpectations(t)
}

func TestRestorePartialFailure(t *testing.T) {
	svc, store := newRecoveryFixture(t)

	okReg := models.Registration{
		ID:      uuid.New(),
		EventID: uuid.New(),
		Payment: models.Payment{Status: models.PaymentPending},
	}
	missingID := uuid.New()

	current := okReg
	store.registrations.On("GetByID", mock.Anything, okReg.ID).Return(&current, nil)
	store.registrations.On("GetByID", mock.Anything, missingID).Return(nil, repository.ErrNotFound)
	store.registrations.On("Save", mock.Anything, mock.AnythingOfType("*models.Registration")).Return(nil)
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).Return(nil)

	result, err := svc.Restore(context.Background(), []uuid.UUID{okReg.ID, missingID}, testActor())
	require.NoError(t, err)

	require.Equal(t, []uuid.UUID{okReg.ID}, result.Restored)
	require.Len(t, result.Failed, 1)
	require.Contains(t, result.Failed, missingID)

	store.assertExpectations(t)
}
