package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/cache"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

// registrationCountTTL bounds how stale the cached delete-warning count can be
const registrationCountTTL = 5 * time.Minute

// EventService manages event aggregates
type EventService struct {
	store   repository.Store
	history *HistoryService
	cache   *cache.RedisCache
	tracer  tracing.Tracer
}

// NewEventService creates a new event service
func NewEventService(store repository.Store, history *HistoryService, redisCache *cache.RedisCache, tracer tracing.Tracer) *EventService {
	return &EventService{store: store, history: history, cache: redisCache, tracer: tracer}
}

// List returns all active events
func (s *EventService) List(ctx context.Context) ([]*models.Event, error) {
	return s.store.Events().ListActive(ctx)
}

// Get returns one event by ID
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	return s.store.Events().GetByID(ctx, id)
}

// Create creates an event and its history entry in one transaction
func (s *EventService) Create(ctx context.Context, event *models.Event, actor ActorContext) (*models.Event, error) {
	txn := s.tracer.StartTransaction("create-event")
	defer s.tracer.EndTransaction(txn)

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		if err := st.Events().Create(ctx, event); err != nil {
			return err
		}
		var err error
		entry, err = recordAction(ctx, st,
			models.ActionCreateEvent, models.TableEvents, event.ID,
			nil, event, event.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.history.Index(ctx, entry)
	return event, nil
}

// Update rewrites an event and records the field-level diff. Archiving is an
// update of the archived flag, not a delete.
func (s *EventService) Update(ctx context.Context, event *models.Event, actor ActorContext) (*models.Event, error) {
	txn := s.tracer.StartTransaction("update-event")
	defer s.tracer.EndTransaction(txn)

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		previous, err := st.Events().GetByID(ctx, event.ID)
		if err != nil {
			return err
		}
		if err := st.Events().Save(ctx, event); err != nil {
			return err
		}
		entry, err = recordAction(ctx, st,
			models.ActionUpdateEvent, models.TableEvents, event.ID,
			previous, event, event.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.history.Index(ctx, entry)
	return event, nil
}

// Delete soft-deletes an event
func (s *EventService) Delete(ctx context.Context, id uuid.UUID, actor ActorContext) error {
	txn := s.tracer.StartTransaction("delete-event")
	defer s.tracer.EndTransaction(txn)

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		event, err := st.Events().GetByID(ctx, id)
		if err != nil {
			return err
		}

		previous := *event
		event.IsDeleted = true
		if err := st.Events().Save(ctx, event); err != nil {
			return err
		}

		entry, err = recordAction(ctx, st,
			models.ActionDeleteEvent, models.TableEvents, id,
			previous, event, event.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	log.Info().Str("event_id", id.String()).Msg("event deleted")
	s.invalidateCount(ctx, id)
	s.history.Index(ctx, entry)
	return nil
}

// RegistrationCount returns the number of active registrations of an event,
// used to warn the operator before a destructive event deletion. The count
// is cached briefly.
func (s *EventService) RegistrationCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	key := cache.RegistrationCountKey(eventID)

	var cached int64
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	count, err := s.store.Registrations().CountActiveByEventID(ctx, eventID)
	if err != nil {
		return 0, err
	}

	if err := s.cache.Set(ctx, key, count, registrationCountTTL); err != nil && s.cache.Enabled() {
		log.Warn().Err(err).Msg("failed to cache registration count")
	}
	return count, nil
}

// invalidateCount drops the cached registration count of an event
func (s *EventService) invalidateCount(ctx context.Context, eventID uuid.UUID) {
	if !s.cache.Enabled() {
		return
	}
	if err := s.cache.Delete(ctx, cache.RegistrationCountKey(eventID)); err != nil {
		log.Warn().Err(err).Msg("failed to invalidate registration count")
	}
}
