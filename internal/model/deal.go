// Package model defines the core domain models used throughout the application.
package model

import "time"

// Stage is a deal's position in the pipeline, drawn from a fixed ordered set.
type Stage string

// Pipeline stages, in pipeline order.
const (
	StageLead        Stage = "Lead"
	StageQualified   Stage = "Qualified"
	StageProposal    Stage = "Proposal"
	StageNegotiation Stage = "Negotiation"
	StageWon         Stage = "Won"
	StageLost        Stage = "Lost"
)

// AllStages lists every stage in pipeline order.
var AllStages = []Stage{
	StageLead,
	StageQualified,
	StageProposal,
	StageNegotiation,
	StageWon,
	StageLost,
}

// Priority indicates how urgently a deal needs attention.
type Priority string

// Priority levels.
const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// HandoffStatus tracks the transition state of a deal between teams.
type HandoffStatus string

// Handoff statuses.
const (
	HandoffNone       HandoffStatus = "None"
	HandoffPending    HandoffStatus = "Pending"
	HandoffInProgress HandoffStatus = "InProgress"
	HandoffComplete   HandoffStatus = "Complete"
)

// Deal represents a single business opportunity. Deals are owned by the
// caller; the list engine only reads them and requests mutation through the
// storage collaborator.
type Deal struct {
	CreatedAt   time.Time
	CloseDate   time.Time
	ID          string
	Name        string
	Project     string
	Lead        string
	Customer    string
	Region      string
	Owner       string
	Currency    string
	Status      string // Free-text status note
	Stage       Stage
	Priority    Priority
	Handoff     HandoffStatus
	Value       float64
	Probability int // 0-100 close likelihood
}

// ProbabilityBucket groups the 0-100 probability into the quartile buckets
// used by the categorical probability filter.
func (d Deal) ProbabilityBucket() string {
	switch {
	case d.Probability <= 25:
		return "0-25"
	case d.Probability <= 50:
		return "26-50"
	case d.Probability <= 75:
		return "51-75"
	default:
		return "76-100"
	}
}

// DurationDays is the number of days between creation and expected close.
// Either date missing yields 0.
func (d Deal) DurationDays() float64 {
	if d.CreatedAt.IsZero() || d.CloseDate.IsZero() {
		return 0
	}
	return d.CloseDate.Sub(d.CreatedAt).Hours() / 24
}
