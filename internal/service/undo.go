package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/giradamata/services/admin/internal/auth"
	"example.com/giradamata/services/admin/internal/diff"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

// InversionStrategy names how an inverse mutation is computed. The two
// strategies coexist deliberately: the undo engine restores snapshots
// verbatim, while the drift recovery merges a single field onto the current
// record to preserve legitimate later edits.
type InversionStrategy string

const (
	// RevertToSnapshot writes the historical snapshot over the current
	// record. Intervening edits on the same record are clobbered; this is
	// accepted last-write-wins behavior, there is no concurrency token.
	RevertToSnapshot InversionStrategy = "REVERT_TO_SNAPSHOT"
	// MergeFieldOntoCurrent overrides one field on the current live record,
	// keeping everything else as it is now
	MergeFieldOntoCurrent InversionStrategy = "MERGE_FIELD_ONTO_CURRENT"
)

// undoStrategyFor declares the inversion strategy per entity kind. Every
// entity currently reverts to snapshot; new entity types declare their
// strategy here instead of inlining per-type logic.
func undoStrategyFor(tableName string) InversionStrategy {
	switch tableName {
	case models.TablePeople, models.TableEvents, models.TableRegistrations:
		return RevertToSnapshot
	default:
		return RevertToSnapshot
	}
}

// UndoService applies the inverse of a recorded action under password
// confirmation and marks the entry consumed.
type UndoService struct {
	store   repository.Store
	gate    *auth.Gate
	history *HistoryService
	tracer  tracing.Tracer
}

// NewUndoService creates a new undo service
func NewUndoService(store repository.Store, gate *auth.Gate, history *HistoryService, tracer tracing.Tracer) *UndoService {
	return &UndoService{
		store:   store,
		gate:    gate,
		history: history,
		tracer:  tracer,
	}
}

// inverseResult captures the state just before and after the inverse write,
// for auditability of the undo itself
type inverseResult struct {
	before interface{}
	after  interface{}
	label  string
}

// Undo validates the credential, computes and applies the inverse of the
// entry's mutation, records an UNDO_* entry and marks the original undone.
// The inverse write, the UNDO entry and the undone flag commit atomically:
// any failure leaves the original entry active, so a retry is safe.
func (s *UndoService) Undo(ctx context.Context, entryID uuid.UUID, credential string, actor ActorContext) error {
	txn := s.tracer.StartTransaction("undo-action")
	defer s.tracer.EndTransaction(txn)
	s.tracer.AddAttribute(txn, "entry_id", entryID.String())

	if !s.gate.Confirm(credential) {
		return ErrInvalidCredential
	}

	var undoEntry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		entry, err := st.History().GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry.IsUndone {
			return ErrAlreadyUndone
		}
		if models.IsUndoAction(entry.ActionType) {
			return ErrNotUndoable
		}

		inverse, err := s.applyInverse(ctx, st, entry)
		if err != nil {
			return err
		}

		undoEntry, err = recordAction(ctx, st,
			models.UndoActionType(entry.ActionType), entry.TableName, entry.RecordID,
			inverse.before, inverse.after, inverse.label, actor)
		if err != nil {
			return err
		}

		return st.History().MarkUndone(ctx, entry.ID)
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return err
	}

	log.Info().
		Str("entry_id", entryID.String()).
		Str("actor", actor.Actor).
		Msg("action undone")

	s.history.Index(ctx, undoEntry)
	return nil
}

// applyInverse determines and persists the inverse mutation:
// CREATE inverts to a soft delete, DELETE to a restore of the captured
// snapshot, UPDATE to a verbatim snapshot write over the current record.
func (s *UndoService) applyInverse(ctx context.Context, st repository.Store, entry *models.ActionHistoryEntry) (*inverseResult, error) {
	before, err := snapshotToMap(entry.PreviousData)
	if err != nil {
		return nil, err
	}
	after, err := snapshotToMap(entry.NewData)
	if err != nil {
		return nil, err
	}
	kind := diff.Classify(before, after)

	if strategy := undoStrategyFor(entry.TableName); strategy != RevertToSnapshot {
		return nil, errors.Errorf("unsupported undo strategy %q for table %q", strategy, entry.TableName)
	}

	switch entry.TableName {
	case models.TablePeople:
		return s.invertPerson(ctx, st, entry, kind)
	case models.TableEvents:
		return s.invertEvent(ctx, st, entry, kind)
	case models.TableRegistrations:
		return s.invertRegistration(ctx, st, entry, kind)
	default:
		return nil, errors.Errorf("no inversion rule for table %q", entry.TableName)
	}
}

func (s *UndoService) invertPerson(ctx context.Context, st repository.Store, entry *models.ActionHistoryEntry, kind diff.Kind) (*inverseResult, error) {
	current, err := st.People().GetByID(ctx, entry.RecordID)
	if err != nil {
		return nil, err
	}
	beforeCopy := *current

	if kind == diff.Create {
		current.IsDeleted = true
		if err := st.People().Save(ctx, current); err != nil {
			return nil, err
		}
		return &inverseResult{before: beforeCopy, after: *current, label: current.Name}, nil
	}

	// DELETE and UPDATE both restore the captured snapshot verbatim: fields
	// may have drifted since, so current stored state is never trusted
	var restored models.Person
	if err := json.Unmarshal(entry.PreviousData, &restored); err != nil {
		return nil, errors.Wrap(err, "failed to decode person snapshot")
	}
	restored.ID = entry.RecordID
	if kind == diff.Delete {
		restored.IsDeleted = false
	}
	if err := st.People().Save(ctx, &restored); err != nil {
		return nil, err
	}
	return &inverseResult{before: beforeCopy, after: restored, label: restored.Name}, nil
}

func (s *UndoService) invertEvent(ctx context.Context, st repository.Store, entry *models.ActionHistoryEntry, kind diff.Kind) (*inverseResult, error) {
	current, err := st.Events().GetByID(ctx, entry.RecordID)
	if err != nil {
		return nil, err
	}
	beforeCopy := *current

	if kind == diff.Create {
		current.IsDeleted = true
		if err := st.Events().Save(ctx, current); err != nil {
			return nil, err
		}
		return &inverseResult{before: beforeCopy, after: *current, label: current.Name}, nil
	}

	var restored models.Event
	if err := json.Unmarshal(entry.PreviousData, &restored); err != nil {
		return nil, errors.Wrap(err, "failed to decode event snapshot")
	}
	restored.ID = entry.RecordID
	if kind == diff.Delete {
		restored.IsDeleted = false
	}
	if err := st.Events().Save(ctx, &restored); err != nil {
		return nil, err
	}
	return &inverseResult{before: beforeCopy, after: restored, label: restored.Name}, nil
}

func (s *UndoService) invertRegistration(ctx context.Context, st repository.Store, entry *models.ActionHistoryEntry, kind diff.Kind) (*inverseResult, error) {
	current, err := st.Registrations().GetByID(ctx, entry.RecordID)
	if err != nil {
		return nil, err
	}
	label := registrationLabel(current)
	beforeCopy := *current
	beforeCopy.Person = nil

	if kind == diff.Create {
		current.IsDeleted = true
		if err := st.Registrations().Save(ctx, current); err != nil {
			return nil, err
		}
		afterCopy := *current
		afterCopy.Person = nil
		return &inverseResult{before: beforeCopy, after: afterCopy, label: label}, nil
	}

	var restored models.Registration
	if err := json.Unmarshal(entry.PreviousData, &restored); err != nil {
		return nil, errors.Wrap(err, "failed to decode registration snapshot")
	}
	restored.ID = entry.RecordID
	restored.Person = nil
	if kind == diff.Delete {
		restored.IsDeleted = false
	}
	if err := st.Registrations().Save(ctx, &restored); err != nil {
		return nil, err
	}
	return &inverseResult{before: beforeCopy, after: restored, label: label}, nil
}

// registrationLabel renders a human label for a registration, preferring the
// attendee's name
func registrationLabel(reg *models.Registration) string {
	if reg.Person != nil && reg.Person.Name != "" {
		return reg.Person.Name
	}
	return reg.ID.String()
}
