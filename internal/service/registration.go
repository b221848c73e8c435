package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/cache"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

// RegistrationService manages registrations and their payment values
type RegistrationService struct {
	store   repository.Store
	history *HistoryService
	cache   *cache.RedisCache
	tracer  tracing.Tracer
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(store repository.Store, history *HistoryService, redisCache *cache.RedisCache, tracer tracing.Tracer) *RegistrationService {
	return &RegistrationService{store: store, history: history, cache: redisCache, tracer: tracer}
}

// FindByEvent returns the active registrations of an event, with attendee
// and payment state, for listing and reports
func (s *RegistrationService) FindByEvent(ctx context.Context, eventID uuid.UUID) ([]*models.Registration, error) {
	return s.store.Registrations().FindActiveByEventID(ctx, eventID)
}

// Get returns one registration by ID
func (s *RegistrationService) Get(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	return s.store.Registrations().GetByID(ctx, id)
}

// Create registers a person to an event. The payment-status invariant is
// re-established before the write; it is never assumed to hold on input.
func (s *RegistrationService) Create(ctx context.Context, registration *models.Registration, actor ActorContext) (*models.Registration, error) {
	txn := s.tracer.StartTransaction("create-registration")
	defer s.tracer.EndTransaction(txn)

	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	registration.Payment.ApplyStatusInvariant()

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		if err := st.Registrations().Create(ctx, registration); err != nil {
			return err
		}

		label := registration.ID.String()
		if person, err := st.People().GetByID(ctx, registration.PersonID); err == nil {
			label = person.Name
		}

		clean := *registration
		clean.Person = nil

		var err error
		entry, err = recordAction(ctx, st,
			models.ActionCreateRegistration, models.TableRegistrations, registration.ID,
			nil, clean, label, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.invalidateCount(ctx, registration.EventID)
	s.history.Index(ctx, entry)
	return registration, nil
}

// Update rewrites a registration, re-establishing the payment invariant and
// recording the field-level diff against the prior snapshot
func (s *RegistrationService) Update(ctx context.Context, registration *models.Registration, actor ActorContext) (*models.Registration, error) {
	txn := s.tracer.StartTransaction("update-registration")
	defer s.tracer.EndTransaction(txn)

	registration.Payment.ApplyStatusInvariant()

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		previous, err := st.Registrations().GetByID(ctx, registration.ID)
		if err != nil {
			return err
		}
		label := registrationLabel(previous)

		previousClean := *previous
		previousClean.Person = nil

		clean := *registration
		clean.Person = nil

		if err := st.Registrations().Save(ctx, &clean); err != nil {
			return err
		}

		entry, err = recordAction(ctx, st,
			models.ActionUpdateRegistration, models.TableRegistrations, registration.ID,
			previousClean, clean, label, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.history.Index(ctx, entry)
	return registration, nil
}

// Delete soft-deletes a registration; the record stays as an undo and audit
// target
func (s *RegistrationService) Delete(ctx context.Context, id uuid.UUID, actor ActorContext) error {
	txn := s.tracer.StartTransaction("delete-registration")
	defer s.tracer.EndTransaction(txn)

	var eventID uuid.UUID
	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		registration, err := st.Registrations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		eventID = registration.EventID
		label := registrationLabel(registration)

		previous := *registration
		previous.Person = nil

		registration.IsDeleted = true
		clean := *registration
		clean.Person = nil

		if err := st.Registrations().Save(ctx, &clean); err != nil {
			return err
		}

		entry, err = recordAction(ctx, st,
			models.ActionDeleteRegistration, models.TableRegistrations, id,
			previous, clean, label, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	log.Info().Str("registration_id", id.String()).Msg("registration deleted")
	s.invalidateCount(ctx, eventID)
	s.history.Index(ctx, entry)
	return nil
}

// ToggleExemption flips a registration's payment between EXEMPT and PENDING,
// restoring the event's standard package amount when exemption is lifted
func (s *RegistrationService) ToggleExemption(ctx context.Context, id uuid.UUID, actor ActorContext) (*models.Registration, error) {
	registration, err := s.store.Registrations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := s.store.Events().GetByID(ctx, registration.EventID)
	if err != nil {
		return nil, err
	}

	registration.Payment = models.ToggleExemption(registration.Payment, event.PackageAmount(registration.PackageType))
	return s.Update(ctx, registration, actor)
}

// invalidateCount drops the cached registration count of an event
func (s *RegistrationService) invalidateCount(ctx context.Context, eventID uuid.UUID) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Delete(ctx, cache.RegistrationCountKey(eventID)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate registration count")
	}
}
