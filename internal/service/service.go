// Package service implements the domain logic of the admin application: CRUD
// orchestration with transactional history recording, the undo engine and the
// payment-drift recovery scan.
package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"example.com/giradamata/services/admin/internal/diff"
	"example.com/giradamata/services/admin/internal/models"
	"example.com/giradamata/services/admin/internal/repository"
)

// Service-level errors
var (
	// ErrInvalidCredential signals a failed shared-secret confirmation
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrAlreadyUndone signals an undo target that was already consumed
	ErrAlreadyUndone = errors.New("action already undone")
	// ErrNotUndoable signals an undo target in a terminal state, such as an
	// entry produced by an undo
	ErrNotUndoable = errors.New("action cannot be undone")
	// ErrSearchUnavailable signals that no audit-search index is configured
	ErrSearchUnavailable = errors.New("audit search is not available")
)

// ActorContext carries the best-effort, non-authoritative attribution stored
// on every history entry
type ActorContext struct {
	Actor        string
	IPAddress    string
	LocationInfo string
}

// snapshot marshals a record into the JSON form stored in history entries
func snapshot(record interface{}) ([]byte, error) {
	if record == nil {
		return nil, nil
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot record")
	}
	return data, nil
}

// snapshotToMap decodes a stored snapshot back into the generic form the
// diff engine works on
func snapshotToMap(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode snapshot")
	}
	return m, nil
}

// recordAction appends one history entry describing a mutation. It must run
// on the same Store (and therefore the same transaction) as the mutation
// itself: if the history write fails the whole transaction rolls back, so
// history entries are never silently lost.
func recordAction(
	ctx context.Context,
	st repository.Store,
	actionType, tableName string,
	recordID uuid.UUID,
	previous, current interface{},
	label string,
	actor ActorContext,
) (*models.ActionHistoryEntry, error) {
	previousData, err := snapshot(previous)
	if err != nil {
		return nil, err
	}
	newData, err := snapshot(current)
	if err != nil {
		return nil, err
	}

	before, err := snapshotToMap(previousData)
	if err != nil {
		return nil, err
	}
	after, err := snapshotToMap(newData)
	if err != nil {
		return nil, err
	}

	ignore := diff.DefaultIgnoredPrefixes()
	kind := diff.Classify(before, after)
	changes := diff.Compute(before, after, ignore)

	entry := &models.ActionHistoryEntry{
		ID:           uuid.New(),
		ActionType:   actionType,
		TableName:    tableName,
		RecordID:     recordID,
		PreviousData: previousData,
		NewData:      newData,
		Description:  diff.Summary(kind, label, changes),
		Actor:        actor.Actor,
		IPAddress:    actor.IPAddress,
		LocationInfo: actor.LocationInfo,
	}

	if err := st.History().Create(ctx, entry); err != nil {
		return nil, errors.Wrap(err, "failed to record history entry")
	}
	return entry, nil
}
