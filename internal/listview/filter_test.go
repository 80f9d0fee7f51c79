package listview

import (
	"testing"

	"github.com/mferrell/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_FreeText(t *testing.T) {
	deals := fixtureDeals()

	tests := []struct {
		name    string
		term    string
		quick   string
		wantIDs []string
	}{
		{
			name:    "empty term matches everything",
			term:    "",
			wantIDs: []string{"d1", "d2", "d3"},
		},
		{
			name:    "matches customer name case-insensitively",
			term:    "GLOBEX",
			wantIDs: []string{"d2"},
		},
		{
			name:    "matches lead name across records",
			term:    "dana",
			wantIDs: []string{"d1", "d3"},
		},
		{
			name:    "matches region",
			term:    "emea",
			wantIDs: []string{"d1"},
		},
		{
			name:    "term is the concatenation of both inputs",
			term:    "ini",
			quick:   "tech",
			wantIDs: []string{"d3"},
		},
		{
			name:    "no match yields empty result",
			term:    "zzz",
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilterState()
			f.Term = tt.term
			f.QuickFind = tt.quick

			got := Filter(deals, f)

			ids := make([]string, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilter_CategoricalSets(t *testing.T) {
	tests := []struct {
		mutate  func(*FilterState)
		name    string
		wantIDs []string
	}{
		{
			name:    "empty stage set is unconstrained",
			mutate:  func(f *FilterState) { f.Stages = nil },
			wantIDs: []string{"d1", "d2", "d3"},
		},
		{
			name:    "stage set keeps only members",
			mutate:  func(f *FilterState) { f.Stages = []string{"Proposal", "Qualified"} },
			wantIDs: []string{"d2", "d3"},
		},
		{
			name:    "region set",
			mutate:  func(f *FilterState) { f.Regions = []string{"AMER"} },
			wantIDs: []string{"d2", "d3"},
		},
		{
			name:    "owner set",
			mutate:  func(f *FilterState) { f.Owners = []string{"u1"} },
			wantIDs: []string{"d1", "d3"},
		},
		{
			name:    "priority set",
			mutate:  func(f *FilterState) { f.Priorities = []string{"Critical"} },
			wantIDs: []string{"d3"},
		},
		{
			name:    "probability bucket set",
			mutate:  func(f *FilterState) { f.Buckets = []string{"26-50"} },
			wantIDs: []string{"d2"},
		},
		{
			name:    "handoff set",
			mutate:  func(f *FilterState) { f.Handoffs = []string{"Pending", "InProgress"} },
			wantIDs: []string{"d1", "d3"},
		},
		{
			name: "dimensions combine with AND",
			mutate: func(f *FilterState) {
				f.Regions = []string{"AMER"}
				f.Owners = []string{"u1"}
			},
			wantIDs: []string{"d3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := DefaultFilterState()
			tt.mutate(&f)

			got := Filter(fixtureDeals(), f)

			ids := make([]string, 0, len(got))
			for _, d := range got {
				ids = append(ids, d.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestFilter_StageScenario(t *testing.T) {
	// Five records with stages {A,A,B,C,A}; filtering by {A} yields the
	// three A-stage records in original relative order.
	deals := []model.Deal{
		{ID: "r1", Stage: model.StageLead},
		{ID: "r2", Stage: model.StageLead},
		{ID: "r3", Stage: model.StageProposal},
		{ID: "r4", Stage: model.StageWon},
		{ID: "r5", Stage: model.StageLead},
	}

	f := DefaultFilterState()
	f.Stages = []string{string(model.StageLead)}

	got := Filter(deals, f)
	require.Len(t, got, 3)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
	assert.Equal(t, "r5", got[2].ID)
}

func TestFilter_ProbabilityRange(t *testing.T) {
	f := DefaultFilterState()
	f.ProbMin = 35
	f.ProbMax = 60

	got := Filter(fixtureDeals(), f)

	require.Len(t, got, 2)
	// Bounds are inclusive on both ends.
	assert.Equal(t, "d2", got[0].ID)
	assert.Equal(t, "d3", got[1].ID)
}

func TestFilter_MissingValuesNeverWildcard(t *testing.T) {
	deals := []model.Deal{
		{ID: "full", Region: "EMEA", Probability: 50},
		{ID: "blank", Probability: 50}, // no region at all
	}

	f := DefaultFilterState()
	f.Regions = []string{"EMEA"}

	got := Filter(deals, f)
	require.Len(t, got, 1)
	assert.Equal(t, "full", got[0].ID)
}

func TestFilter_IsPure(t *testing.T) {
	deals := fixtureDeals()
	f := DefaultFilterState()
	f.Regions = []string{"AMER"}

	first := Filter(deals, f)
	second := Filter(deals, f)

	assert.Equal(t, first, second)
	// Input order and content untouched.
	assert.Equal(t, "d1", deals[0].ID)
	assert.Equal(t, "d2", deals[1].ID)
	assert.Equal(t, "d3", deals[2].ID)
}

func TestFilterState_IsEmpty(t *testing.T) {
	assert.True(t, DefaultFilterState().IsEmpty())

	f := DefaultFilterState()
	f.QuickFind = "x"
	assert.False(t, f.IsEmpty())

	f = DefaultFilterState()
	f.Handoffs = []string{"Pending"}
	assert.False(t, f.IsEmpty())
}
