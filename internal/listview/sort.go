package listview

import (
	"sort"

	"github.com/mferrell/dealflow/internal/model"
)

// Direction is a sort direction.
type Direction int

const (
	// Ascending sorts smallest first.
	Ascending Direction = iota
	// Descending sorts largest first.
	Descending
)

// SortState holds the single active sort field and its direction.
type SortState struct {
	Field model.FieldID
	Dir   Direction
}

// DefaultSortState sorts newest deals first.
func DefaultSortState() SortState {
	return SortState{Field: model.FieldCreatedAt, Dir: Descending}
}

// Sort returns a new slice ordered by the given field using the field
// registry's comparison kind: numeric and date fields compare as such with
// the documented missing-value defaults, everything else as
// case-insensitive text. The sort is stable, so equal keys keep their
// relative input order and the result is reproducible for a given input
// sequence.
func Sort(deals []model.Deal, field model.FieldID, dir Direction) []model.Deal {
	sorted := make([]model.Deal, len(deals))
	copy(sorted, deals)

	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := model.ValueOf(sorted[i], field).Compare(model.ValueOf(sorted[j], field))
		if dir == Descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted
}
