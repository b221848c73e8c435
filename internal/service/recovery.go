package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
	"example.com/giradamata/services/admin/internal/tracing"
)

// RecoveryService detects and corrects a known historical regression where
// registration updates flipped the payment status from PAID to PENDING
// unintentionally.
type RecoveryService struct {
	store       repository.Store
	history     *HistoryService
	tracer      tracing.Tracer
	scanWindow  int
	concurrency int
}

// NewRecoveryService creates a new recovery service
func NewRecoveryService(store repository.Store, history *HistoryService, tracer tracing.Tracer, scanWindow, concurrency int) *RecoveryService {
	if scanWindow <= 0 {
		scanWindow = 500
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	return &RecoveryService{
		store:       store,
		history:     history,
		tracer:      tracer,
		scanWindow:  scanWindow,
		concurrency: concurrency,
	}
}

// DriftCandidate is one registration whose payment status drifted and is
// still wrong in the live data
type DriftCandidate struct {
	RegistrationID uuid.UUID            `json:"registrationId"`
	EventID        uuid.UUID            `json:"eventId"`
	PersonName     string               `json:"personName"`
	EntryID        uuid.UUID            `json:"entryId"`
	DriftedAt      time.Time            `json:"driftedAt"`
	CurrentStatus  models.PaymentStatus `json:"currentStatus"`
}

// registrationSnapshot is the subset of the stored snapshot the scan needs
type registrationSnapshot struct {
	ID      uuid.UUID      `json:"id"`
	EventID uuid.UUID      `json:"eventId"`
	Payment models.Payment `json:"payment"`
}

// Scan walks a bounded recent window of history looking for the regression
// pattern: an UPDATE_REGISTRATION whose snapshots show PAID turning PENDING.
// Candidates whose live status is no longer PENDING are excluded; the scan
// reflects present truth, not stale history. Live state is fetched batched
// per event to bound request count, and candidates are deduplicated per
// registration.
func (s *RecoveryService) Scan(ctx context.Context) ([]*DriftCandidate, error) {
	txn := s.tracer.StartTransaction("payment-drift-scan")
	defer s.tracer.EndTransaction(txn)

	entries, err := s.store.History().List(ctx, s.scanWindow)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	type histCandidate struct {
		entry   *models.ActionHistoryEntry
		eventID uuid.UUID
	}
	byEvent := make(map[uuid.UUID][]histCandidate)

	for _, entry := range entries {
		if entry.ActionType != models.ActionUpdateRegistration || entry.IsUndone {
			continue
		}
		var prev, next registrationSnapshot
		if err := json.Unmarshal(entry.PreviousData, &prev); err != nil {
			continue
		}
		if err := json.Unmarshal(entry.NewData, &next); err != nil {
			continue
		}
		if prev.Payment.Status != models.PaymentPaid || next.Payment.Status != models.PaymentPending {
			continue
		}
		byEvent[next.EventID] = append(byEvent[next.EventID], histCandidate{entry: entry, eventID: next.EventID})
	}

	var candidates []*DriftCandidate
	seen := make(map[uuid.UUID]struct{})

	for eventID, eventCandidates := range byEvent {
		live, err := s.store.Registrations().FindActiveByEventID(ctx, eventID)
		if err != nil {
			s.tracer.RecordError(txn, err)
			return nil, err
		}
		liveByID := make(map[uuid.UUID]*models.Registration, len(live))
		for _, reg := range live {
			liveByID[reg.ID] = reg
		}

		for _, c := range eventCandidates {
			reg, ok := liveByID[c.entry.RecordID]
			if !ok || reg.Payment.Status != models.PaymentPending {
				// Already fixed, changed again or no longer active
				continue
			}
			if _, dup := seen[reg.ID]; dup {
				continue
			}
			seen[reg.ID] = struct{}{}

			candidates = append(candidates, &DriftCandidate{
				RegistrationID: reg.ID,
				EventID:        eventID,
				PersonName:     registrationLabel(reg),
				EntryID:        c.entry.ID,
				DriftedAt:      c.entry.CreatedAt,
				CurrentStatus:  reg.Payment.Status,
			})
		}
	}

	log.Info().Int("candidates", len(candidates)).Msg("payment drift scan completed")
	return candidates, nil
}

// RestoreResult reports the outcome of a bulk restore. Corrections are
// independent per registration; a partial failure is surfaced as such.
type RestoreResult struct {
	Restored []uuid.UUID          `json:"restored"`
	Failed   map[uuid.UUID]string `json:"failed"`
}

// Restore corrects the selected registrations back to PAID. Each correction
// merges only the payment status onto the current live record, preserving
// any field set after the original drift; a verbatim snapshot revert here
// would also undo legitimate subsequent edits. All corrections are
// dispatched concurrently and awaited as a batch.
func (s *RecoveryService) Restore(ctx context.Context, registrationIDs []uuid.UUID, actor ActorContext) (*RestoreResult, error) {
	txn := s.tracer.StartTransaction("payment-drift-restore")
	defer s.tracer.EndTransaction(txn)
	s.tracer.AddAttribute(txn, "count", len(registrationIDs))

	result := &RestoreResult{Failed: make(map[uuid.UUID]string)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, id := range registrationIDs {
		id := id
		g.Go(func() error {
			entry, err := s.restoreOne(gctx, id, actor)

			mu.Lock()
			if err != nil {
				result.Failed[id] = err.Error()
			} else {
				result.Restored = append(result.Restored, id)
			}
			mu.Unlock()

			if err != nil {
				log.Warn().Err(err).Str("registration_id", id.String()).Msg("payment restore failed")
				s.tracer.RecordError(txn, err)
				// Corrections are independent; one failure never aborts the batch
				return nil
			}
			s.history.Index(ctx, entry)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Info().
		Int("restored", len(result.Restored)).
		Int("failed", len(result.Failed)).
		Str("strategy", string(MergeFieldOntoCurrent)).
		Msg("payment drift restore completed")
	return result, nil
}

// restoreOne applies the MergeFieldOntoCurrent strategy to one registration:
// the current live record is kept as-is except for the payment status.
func (s *RecoveryService) restoreOne(ctx context.Context, id uuid.UUID, actor ActorContext) (*models.ActionHistoryEntry, error) {
	var entry *models.ActionHistoryEntry
	err := s.store.Transaction(ctx, func(st repository.Store) error {
		reg, err := st.Registrations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		label := registrationLabel(reg)

		before := *reg
		before.Person = nil

		// Only the status is overridden. Leg details, bus assignment and
		// every other field keep their current live values.
		reg.Payment.Status = models.PaymentPaid

		if err := st.Registrations().Save(ctx, reg); err != nil {
			return err
		}

		after := *reg
		after.Person = nil

		entry, err = recordAction(ctx, st,
			models.ActionUpdateRegistration, models.TableRegistrations, reg.ID,
			before, after, label, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
