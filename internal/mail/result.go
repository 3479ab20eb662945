package mail

import (
	"context"
	"sync"
)

// StatusResult is a live view of one batch in a StatusStore. Every call
// queries the store, so counts move as the batch is processed.
//
// It reports on nothing until a batch id is known.
type StatusResult struct {
	store StatusStore

	mu      sync.Mutex
	batchID string
}

// NewStatusResult creates an unbound result.
func NewStatusResult(store StatusStore) *StatusResult {
	return &StatusResult{store: store}
}

// NewBatchStatusResult creates a result bound to batchID.
func NewBatchStatusResult(store StatusStore, batchID string) *StatusResult {
	return &StatusResult{store: store, batchID: batchID}
}

// BatchID returns the batch the result reports on, or "".
func (r *StatusResult) BatchID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batchID
}

// setBatchID binds the result on first call; later calls are ignored.
func (r *StatusResult) setBatchID(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batchID == "" {
		r.batchID = id
	}
}

// TotalMailCount counts the mails of the batch in any state.
func (r *StatusResult) TotalMailCount(ctx context.Context) (int, error) {
	batch := r.BatchID()
	if batch == "" {
		return 0, nil
	}
	return r.store.CountStatuses(ctx, StatusFilter{BatchID: batch})
}

// ProcessedMailCount counts the mails that are sent or failed.
func (r *StatusResult) ProcessedMailCount(ctx context.Context) (int, error) {
	batch := r.BatchID()
	if batch == "" {
		return 0, nil
	}
	return r.store.CountStatuses(ctx, StatusFilter{BatchID: batch, States: []State{StateSent, StateFailed}})
}

// IsProcessed reports whether no mail of the batch is still ready.
func (r *StatusResult) IsProcessed(ctx context.Context) (bool, error) {
	total, err := r.TotalMailCount(ctx)
	if err != nil {
		return false, err
	}
	processed, err := r.ProcessedMailCount(ctx)
	if err != nil {
		return false, err
	}
	return processed == total, nil
}

// All returns every status of the batch.
func (r *StatusResult) All(ctx context.Context) ([]*Status, error) {
	return r.load(ctx)
}

// AllErrors returns the failed statuses of the batch.
func (r *StatusResult) AllErrors(ctx context.Context) ([]*Status, error) {
	return r.load(ctx, StateFailed)
}

// ByState returns the statuses of the batch in state.
func (r *StatusResult) ByState(ctx context.Context, state State) ([]*Status, error) {
	return r.load(ctx, state)
}

func (r *StatusResult) load(ctx context.Context, states ...State) ([]*Status, error) {
	batch := r.BatchID()
	if batch == "" {
		return nil, nil
	}
	return r.store.LoadStatuses(ctx, StatusFilter{BatchID: batch, States: states})
}
