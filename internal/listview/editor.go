package listview

import (
	"context"
	"fmt"
	"sync"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// EditOutcome reports the result of one inline cell edit.
type EditOutcome struct {
	Err    error
	DealID string
	Field  model.FieldID
}

// Updated reports whether the edit was accepted by the collaborator.
func (o EditOutcome) Updated() bool {
	return o.Err == nil
}

// Notice renders the one-line user-visible result for a failed edit. The
// engine holds no local copy of the record, so on failure the cell simply
// shows the pre-edit value at the next render.
func (o EditOutcome) Notice() string {
	if o.Err == nil {
		return ""
	}
	return fmt.Sprintf("update failed: %s", o.Field)
}

// InlineEditDispatcher routes single-cell edits to the storage
// collaborator. Edits on different cells may be in flight concurrently;
// a second edit on the same cell while one is in flight is rejected
// rather than raced, since the collaborator defines no resolution order.
type InlineEditDispatcher struct {
	storage  service.Storage
	inFlight map[cellKey]struct{}
	mu       sync.Mutex
}

type cellKey struct {
	dealID string
	field  model.FieldID
}

// NewInlineEditDispatcher creates a dispatcher over the given storage.
func NewInlineEditDispatcher(storage service.Storage) *InlineEditDispatcher {
	return &InlineEditDispatcher{
		storage:  storage,
		inFlight: make(map[cellKey]struct{}),
	}
}

// Submit sends one cell edit to the collaborator and reports the outcome.
// It applies no local mutation and never retries: success means the caller
// should re-read the collection, failure means the cell keeps its pre-edit
// value.
func (d *InlineEditDispatcher) Submit(ctx context.Context, dealID string, field model.FieldID, value model.Value) EditOutcome {
	key := cellKey{dealID: dealID, field: field}

	d.mu.Lock()
	if _, busy := d.inFlight[key]; busy {
		d.mu.Unlock()
		return EditOutcome{DealID: dealID, Field: field, Err: common.ErrEditInFlight}
	}
	d.inFlight[key] = struct{}{}
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		delete(d.inFlight, key)
		d.mu.Unlock()
	}()

	if err := d.storage.UpdateDealField(ctx, dealID, field, value); err != nil {
		common.LogWarn("Inline edit rejected", common.Fields{
			"deal":  dealID,
			"field": field,
			"error": err,
		})
		return EditOutcome{DealID: dealID, Field: field, Err: err}
	}

	return EditOutcome{DealID: dealID, Field: field}
}
