package listview

import (
	"encoding/json"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// prefKeyFilters is the durable record mirroring FilterState, used to
// restore filters (including the free-text term) across sessions.
const prefKeyFilters = "filters"

// State is the explicit list-view state struct. Every user action is a
// transition method on it, and the derived page is recomputed by composing
// Filter, Sort, and Page from the current values rather than cached.
type State struct {
	prefs       service.PrefStore
	Columns     *ColumnConfigStore
	Selection   *SelectionSet
	deals       []model.Deal
	Filter      FilterState
	Sort        SortState
	PageSize    int
	CurrentPage int
}

// Option configures a new State.
type Option func(*State)

// WithInitialStage pre-constrains the stage filter, for callers that open
// the list scoped to one pipeline stage.
func WithInitialStage(stage model.Stage) Option {
	return func(s *State) {
		s.Filter.Stages = []string{string(stage)}
	}
}

// WithPageSize overrides the fixed page size.
func WithPageSize(size int) Option {
	return func(s *State) {
		if size > 0 {
			s.PageSize = size
		}
	}
}

// NewState builds list-view state with defaults merged from the durable
// pref store. A nil store just means nothing persists.
func NewState(prefs service.PrefStore, opts ...Option) *State {
	s := &State{
		prefs:       prefs,
		Columns:     NewColumnConfigStore(prefs),
		Selection:   NewSelectionSet(),
		Filter:      loadFilterState(prefs),
		Sort:        DefaultSortState(),
		PageSize:    DefaultPageSize,
		CurrentPage: 1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// View is the derived render state: the visible page plus its metadata.
type View struct {
	Page          []model.Deal
	Meta          PageMeta
	FilteredCount int
}

// PageIDs lists the IDs rendered on the visible page, the scope for
// select-all.
func (v View) PageIDs() []string {
	ids := make([]string, 0, len(v.Page))
	for _, d := range v.Page {
		ids = append(ids, d.ID)
	}
	return ids
}

// Derive recomputes the visible page from current state:
// deals -> Filter -> Sort -> Page.
func (s *State) Derive() View {
	filtered := Filter(s.deals, s.Filter)
	ordered := Sort(filtered, s.Sort.Field, s.Sort.Dir)
	page, meta := Page(ordered, s.PageSize, s.CurrentPage)

	// Page clamps internally; reflect the clamp back so the next
	// transition starts from a valid page.
	s.CurrentPage = meta.CurrentPage

	return View{Page: page, Meta: meta, FilteredCount: len(filtered)}
}

// SetDeals replaces the raw collection and prunes the selection against
// it, since the caller may have deleted records since the last load.
func (s *State) SetDeals(deals []model.Deal) {
	s.deals = deals

	ids := make([]string, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.ID)
	}
	s.Selection.Prune(ids)
}

// Deals returns the raw collection.
func (s *State) Deals() []model.Deal {
	return s.deals
}

// SetFilter replaces the whole filter, resets to page 1, and persists the
// new filter state.
func (s *State) SetFilter(f FilterState) {
	s.Filter = f
	s.CurrentPage = 1
	saveFilterState(s.prefs, f)
}

// SetSearch updates the two free-text inputs, resetting to page 1.
func (s *State) SetSearch(term, quickFind string) {
	f := s.Filter
	f.Term = term
	f.QuickFind = quickFind
	s.SetFilter(f)
}

// SetSort replaces the active sort and resets to page 1, since the
// previous page's identity is not meaningful under a new order.
func (s *State) SetSort(field model.FieldID, dir Direction) {
	s.Sort = SortState{Field: field, Dir: dir}
	s.CurrentPage = 1
}

// ToggleSort sorts by the field ascending, or flips direction when the
// field is already active.
func (s *State) ToggleSort(field model.FieldID) {
	if s.Sort.Field == field {
		if s.Sort.Dir == Ascending {
			s.SetSort(field, Descending)
		} else {
			s.SetSort(field, Ascending)
		}
		return
	}
	s.SetSort(field, Ascending)
}

// NextPage advances one page; Derive clamps to the last valid page.
func (s *State) NextPage() {
	s.CurrentPage++
}

// PrevPage steps back one page, clamped at 1.
func (s *State) PrevPage() {
	if s.CurrentPage > 1 {
		s.CurrentPage--
	}
}

// GoToPage jumps to a specific page; Derive clamps it.
func (s *State) GoToPage(page int) {
	if page < 1 {
		page = 1
	}
	s.CurrentPage = page
}

// loadFilterState restores the persisted filter mirror, falling back to
// the default on any missing or malformed record.
func loadFilterState(prefs service.PrefStore) FilterState {
	if prefs == nil {
		return DefaultFilterState()
	}
	raw, err := prefs.Get(prefKeyFilters)
	if err != nil {
		return DefaultFilterState()
	}

	f := DefaultFilterState()
	if err := json.Unmarshal(raw, &f); err != nil {
		common.LogWarn("Discarding malformed persisted filters", common.Fields{"error": err})
		return DefaultFilterState()
	}

	// Persisted garbage must not invert the range invariant.
	if f.ProbMin < 0 {
		f.ProbMin = 0
	}
	if f.ProbMax > 100 || f.ProbMax < f.ProbMin {
		f.ProbMax = 100
	}
	return f
}

// saveFilterState writes the filter mirror, best-effort.
func saveFilterState(prefs service.PrefStore, f FilterState) {
	if prefs == nil {
		return
	}
	raw, err := json.Marshal(f)
	if err == nil {
		err = prefs.Set(prefKeyFilters, raw)
	}
	if err != nil {
		common.LogWarn("Failed to persist filters", common.Fields{"error": err})
	}
}
