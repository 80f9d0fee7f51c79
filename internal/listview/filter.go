// Package listview implements the deal list engine: pure derivation of the
// visible page from the raw deal collection plus filter, sort, column,
// selection, and pagination state.
package listview

import (
	"strings"

	"github.com/mferrell/dealflow/internal/model"
)

// FilterState is an immutable description of every active list filter. An
// empty allowed-set always means "no constraint", never "match nothing".
type FilterState struct {
	// Term and QuickFind are two independent text inputs; the engine
	// searches on their concatenation.
	Term       string   `json:"term"`
	QuickFind  string   `json:"quick_find"`
	Stages     []string `json:"stages"`
	Regions    []string `json:"regions"`
	Owners     []string `json:"owners"`
	Priorities []string `json:"priorities"`
	Buckets    []string `json:"buckets"`
	Handoffs   []string `json:"handoffs"`
	ProbMin    int      `json:"prob_min"`
	ProbMax    int      `json:"prob_max"`
}

// DefaultFilterState returns the unconstrained filter.
func DefaultFilterState() FilterState {
	return FilterState{ProbMin: 0, ProbMax: 100}
}

// IsEmpty reports whether the filter constrains anything at all.
func (f FilterState) IsEmpty() bool {
	return f.searchTerm() == "" &&
		len(f.Stages) == 0 && len(f.Regions) == 0 && len(f.Owners) == 0 &&
		len(f.Priorities) == 0 && len(f.Buckets) == 0 && len(f.Handoffs) == 0 &&
		f.ProbMin <= 0 && f.ProbMax >= 100
}

// searchTerm joins the two text inputs into the effective lowercased term.
func (f FilterState) searchTerm() string {
	return strings.ToLower(strings.TrimSpace(f.Term + f.QuickFind))
}

// Filter returns the deals that pass every active constraint, preserving
// input order. It is a pure function: it never mutates its inputs.
func Filter(deals []model.Deal, f FilterState) []model.Deal {
	out := make([]model.Deal, 0, len(deals))
	for _, d := range deals {
		if matches(d, f) {
			out = append(out, d)
		}
	}
	return out
}

// matches applies the composite predicate: free text AND every categorical
// dimension AND the probability range.
func matches(d model.Deal, f FilterState) bool {
	if term := f.searchTerm(); term != "" {
		hit := false
		for _, s := range []string{d.Name, d.Project, d.Lead, d.Customer, d.Region} {
			if strings.Contains(strings.ToLower(s), term) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	// Missing values never match a non-empty set: a deal with no region
	// fails a region constraint rather than wildcarding through.
	if !inSet(f.Stages, string(d.Stage)) {
		return false
	}
	if !inSet(f.Regions, d.Region) {
		return false
	}
	if !inSet(f.Owners, d.Owner) {
		return false
	}
	if !inSet(f.Priorities, string(d.Priority)) {
		return false
	}
	if !inSet(f.Buckets, d.ProbabilityBucket()) {
		return false
	}
	if !inSet(f.Handoffs, string(d.Handoff)) {
		return false
	}

	return d.Probability >= f.ProbMin && d.Probability <= f.ProbMax
}

// inSet reports membership, with the empty set meaning unconstrained.
func inSet(set []string, value string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}
