package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/tracing"
)

func newRegistrationFixture(t *testing.T) (*RegistrationService, *MockStore) {
	t.Helper()
	store := newMockStore()
	history := NewHistoryService(store, nil, nil, 0)
	return NewRegistrationService(store, history, nil, &tracing.NewRelicTracer{}), store
}

func TestCreateRegistrationReestablishesPaymentStatus(t *testing.T) {
	svc, store := newRegistrationFixture(t)

	person := &models.Person{ID: uuid.New(), Name: "Maria Silva"}
	reg := &models.Registration{
		EventID:     uuid.New(),
		PersonID:    person.ID,
		PackageType: models.PackageSiteAndBus,
		Payment: models.Payment{
			Amount: 120,
			// The caller claims PAID but only one leg is actually paid
			Status:  models.PaymentPaid,
			SiteLeg: &models.PaymentLeg{IsPaid: true},
			BusLeg:  &models.PaymentLeg{IsPaid: false},
		},
	}

	store.registrations.On("Create", mock.Anything, reg).Return(nil)
	store.people.On("GetByID", mock.Anything, person.ID).Return(person, nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	created, err := svc.Create(context.Background(), reg, testActor())
	require.NoError(t, err)
	require.Equal(t, models.PaymentPending, created.Payment.Status)

	require.NotNil(t, entry)
	require.Equal(t, models.ActionCreateRegistration, entry.ActionType)
	require.Contains(t, entry.Description, "Maria Silva")

	store.assertExpectations(t)
}

func TestUpdateRegistrationDiffsAgainstStoredState(t *testing.T) {
	svc, store := newRegistrationFixture(t)

	regID := uuid.New()
	stored := &models.Registration{
		ID:          regID,
		EventID:     uuid.New(),
		PersonID:    uuid.New(),
		PackageType: models.PackageSiteOnly,
		Payment:     models.Payment{Amount: 80, Status: models.PaymentPending},
		Person:      &models.Person{Name: "Maria Silva"},
	}

	updated := *stored
	updated.Person = nil
	updated.Payment.Status = models.PaymentPaid

	store.registrations.On("GetByID", mock.Anything, regID).Return(stored, nil)
	store.registrations.On("Save", mock.Anything, mock.AnythingOfType("*models.Registration")).Return(nil)

	var entry *models.ActionHistoryEntry
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).
		Run(func(args mock.Arguments) {
			entry = args.Get(1).(*models.ActionHistoryEntry)
		}).Return(nil)

	_, err := svc.Update(context.Background(), &updated, testActor())
	require.NoError(t, err)

	require.NotNil(t, entry)
	require.Equal(t, models.ActionUpdateRegistration, entry.ActionType)
	require.Contains(t, entry.Description, "Atualizado")
	require.Contains(t, entry.Description, "payment.status")
	require.NotContains(t, entry.Description, "person")

	store.assertExpectations(t)
}

func TestToggleExemptionUsesEventPackageAmount(t *testing.T) {
	svc, store := newRegistrationFixture(t)

	event := &models.Event{ID: uuid.New(), Name: "Gira da Mata 2025", SitePrice: 80, BusPrice: 40}
	reg := &models.Registration{
		ID:          uuid.New(),
		EventID:     event.ID,
		PersonID:    uuid.New(),
		PackageType: models.PackageSiteAndBus,
		Payment:     models.Payment{Amount: 0, Status: models.PaymentExempt},
	}

	store.registrations.On("GetByID", mock.Anything, reg.ID).Return(reg, nil)
	store.events.On("GetByID", mock.Anything, event.ID).Return(event, nil)
	store.registrations.On("Save", mock.Anything, mock.AnythingOfType("*models.Registration")).Return(nil)
	store.history.On("Create", mock.Anything, mock.AnythingOfType("*models.ActionHistoryEntry")).Return(nil)

	result, err := svc.ToggleExemption(context.Background(), reg.ID, testActor())
	require.NoError(t, err)

	require.Equal(t, models.PaymentPending, result.Payment.Status)
	require.Equal(t, float64(120), result.Payment.Amount)

	store.assertExpectations(t)
}
