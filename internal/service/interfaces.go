// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/mferrell/dealflow/internal/model"
)

// DealFilter defines filtering options for storage-level deal queries.
// The list engine does its own in-memory filtering; this only scopes what
// the caller loads from storage in the first place.
type DealFilter struct {
	Stage  *model.Stage
	Limit  int
	Offset int
}

// Storage defines the contract for the deal-storage collaborator. The list
// engine never creates or destroys deals itself; every mutation goes
// through here and the engine re-reads the collection afterwards.
type Storage interface {
	GetDeals(ctx context.Context, filter DealFilter) ([]model.Deal, error)
	GetDealByID(ctx context.Context, id string) (*model.Deal, error)
	UpdateDealField(ctx context.Context, id string, field model.FieldID, value model.Value) error
	DeleteDeals(ctx context.Context, ids []string) error
	ImportDeals(ctx context.Context, deals []model.Deal) (int, error)
	Migrate(ctx context.Context) error
	Close() error
}

// PrefStore is the client-local key-value persistence port. Both operations
// are best-effort: a missing key returns the implementation's not-found
// error and malformed content is the caller's to discard.
type PrefStore interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// DirectoryEntry is one {id, displayName} pair from the owner directory.
type DirectoryEntry struct {
	ID          string
	DisplayName string
}

// Directory is the read-only owner-directory lookup service. Lookup
// failures degrade to an empty list, never an error surfaced to the user.
type Directory interface {
	Owners(ctx context.Context) ([]DirectoryEntry, error)
}

// TaskEventKind distinguishes notification event types.
type TaskEventKind string

// Task event kinds.
const (
	EventAssignment   TaskEventKind = "assignment"
	EventStatusChange TaskEventKind = "status_change"
)

// TaskEvent describes a deal task change worth notifying about.
type TaskEvent struct {
	DueDate   time.Time
	Kind      TaskEventKind
	DealID    string
	DealName  string
	Assignee  string
	Recipient string
	OldStatus string
	NewStatus string
	Priority  model.Priority
}

// Notifier is the outbound notification pipeline. Failures come back as a
// structured error; they are never retried and never block the record
// mutation that triggered them.
type Notifier interface {
	Send(ctx context.Context, event TaskEvent) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
