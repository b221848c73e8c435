package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

// PersonService manages the people registry
type PersonService struct {
	store   repository.Store
	history *HistoryService
	tracer  tracing.Tracer
}

// NewPersonService creates a new person service
func NewPersonService(store repository.Store, history *HistoryService, tracer tracing.Tracer) *PersonService {
	return &PersonService{store: store, history: history, tracer: tracer}
}

// List returns all active people
func (s *PersonService) List(ctx context.Context) ([]*models.Person, error) {
	return s.store.People().ListActive(ctx)
}

// Get returns one person by ID
func (s *PersonService) Get(ctx context.Context, id uuid.UUID) (*models.Person, error) {
	return s.store.People().GetByID(ctx, id)
}

// Create registers a new person and its history entry in one transaction
func (s *PersonService) Create(ctx context.Context, person *models.Person, actor ActorContext) (*models.Person, error) {
	txn := s.tracer.StartTransaction("create-person")
	defer s.tracer.EndTransaction(txn)

	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		if err := st.People().Create(ctx, person); err != nil {
			return err
		}
		var err error
		entry, err = recordAction(ctx, st,
			models.ActionCreatePerson, models.TablePeople, person.ID,
			nil, person, person.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.history.Index(ctx, entry)
	return person, nil
}

// Update rewrites a person and records the field-level diff
func (s *PersonService) Update(ctx context.Context, person *models.Person, actor ActorContext) (*models.Person, error) {
	txn := s.tracer.StartTransaction("update-person")
	defer s.tracer.EndTransaction(txn)

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		previous, err := st.People().GetByID(ctx, person.ID)
		if err != nil {
			return err
		}
		if err := st.People().Save(ctx, person); err != nil {
			return err
		}
		entry, err = recordAction(ctx, st,
			models.ActionUpdatePerson, models.TablePeople, person.ID,
			previous, person, person.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	s.history.Index(ctx, entry)
	return person, nil
}

// Delete soft-deletes a person. People referenced by active registrations
// are rejected with ErrPersonInUse so the UI can show a precise message.
func (s *PersonService) Delete(ctx context.Context, id uuid.UUID, actor ActorContext) error {
	txn := s.tracer.StartTransaction("delete-person")
	defer s.tracer.EndTransaction(txn)

	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		person, err := st.People().GetByID(ctx, id)
		if err != nil {
			return err
		}

		inUse, err := st.People().HasActiveRegistrations(ctx, id)
		if err != nil {
			return err
		}
		if inUse {
			return repository.ErrPersonInUse
		}

		previous := *person
		person.IsDeleted = true
		if err := st.People().Save(ctx, person); err != nil {
			return err
		}

		entry, err = recordAction(ctx, st,
			models.ActionDeletePerson, models.TablePeople, id,
			previous, person, person.Name, actor)
		return err
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	log.Info().Str("person_id", id.String()).Msg("person deleted")
	s.history.Index(ctx, entry)
	return nil
}
