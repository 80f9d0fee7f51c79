package listview

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// Durable preference keys. Visibility/order and widths are two independent
// records so resizing never rewrites layout and vice versa.
const (
	prefKeyColumnWidths = "column_widths"
	prefKeyColumnLayout = "column_layout"
)

// Column width bounds in pixels.
const (
	MinColumnWidth     = 80
	DefaultColumnWidth = 120
)

// Column is one displayed field's configuration unit.
type Column struct {
	Field   model.FieldID `json:"field"`
	Label   string        `json:"label"`
	Order   int           `json:"order"`
	Visible bool          `json:"visible"`
}

// ColumnConfigStore owns the ordered column descriptor list and the
// per-field width map, and runs the exclusive resize session. Widths and
// layout are persisted to the pref store as two independent records.
type ColumnConfigStore struct {
	prefs   service.PrefStore
	widths  map[model.FieldID]int
	resize  *resizeSession
	columns []Column
}

// resizeSession captures the state of one in-progress width drag.
type resizeSession struct {
	field      model.FieldID
	startWidth int
	startX     int
	lastWidth  int
}

// NewColumnConfigStore builds a store with registry-default columns merged
// with whatever the pref store has persisted. Malformed persisted data is
// discarded in favor of defaults, logged but never surfaced. A nil pref
// store disables persistence but leaves everything else working.
func NewColumnConfigStore(prefs service.PrefStore) *ColumnConfigStore {
	s := &ColumnConfigStore{
		prefs:   prefs,
		columns: defaultColumns(),
		widths:  make(map[model.FieldID]int),
	}
	s.loadLayout()
	s.loadWidths()
	s.normalizeOrder()
	return s
}

// defaultColumns derives the descriptor list from the field registry. The
// long-tail fields start hidden.
func defaultColumns() []Column {
	hidden := map[model.FieldID]bool{
		model.FieldCurrency: true,
		model.FieldDuration: true,
		model.FieldLead:     true,
		model.FieldProject:  true,
	}

	specs := model.Fields()
	cols := make([]Column, 0, len(specs))
	for i, spec := range specs {
		cols = append(cols, Column{
			Field:   spec.ID,
			Label:   spec.Label,
			Order:   i,
			Visible: !hidden[spec.ID],
		})
	}
	return cols
}

// VisibleColumns returns the visible descriptors sorted by order.
func (s *ColumnConfigStore) VisibleColumns() []Column {
	visible := make([]Column, 0, len(s.columns))
	for _, c := range s.columns {
		if c.Visible {
			visible = append(visible, c)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].Order < visible[j].Order
	})
	return visible
}

// Width returns the configured width for a field, falling back to the
// default. The result never drops below the minimum floor.
func (s *ColumnConfigStore) Width(field model.FieldID) int {
	if w, ok := s.widths[field]; ok {
		return clampWidth(w)
	}
	return DefaultColumnWidth
}

// ToggleVisible flips a column's visibility and persists the layout.
func (s *ColumnConfigStore) ToggleVisible(field model.FieldID) {
	for i := range s.columns {
		if s.columns[i].Field == field {
			s.columns[i].Visible = !s.columns[i].Visible
			s.normalizeOrder()
			s.saveLayout()
			return
		}
	}
}

// MoveColumn shifts a column by delta positions within the visible order
// and persists the layout.
func (s *ColumnConfigStore) MoveColumn(field model.FieldID, delta int) {
	visible := s.VisibleColumns()
	idx := -1
	for i, c := range visible {
		if c.Field == field {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	target := idx + delta
	if target < 0 {
		target = 0
	}
	if target >= len(visible) {
		target = len(visible) - 1
	}
	if target == idx {
		return
	}

	moved := visible[idx]
	visible = append(visible[:idx], visible[idx+1:]...)
	visible = append(visible[:target], append([]Column{moved}, visible[target:]...)...)

	for order, c := range visible {
		for i := range s.columns {
			if s.columns[i].Field == c.Field {
				s.columns[i].Order = order
			}
		}
	}
	s.normalizeOrder()
	s.saveLayout()
}

// BeginResize starts a resize session for one column at the given pointer
// position. Only one session may be active at a time.
func (s *ColumnConfigStore) BeginResize(field model.FieldID, pointerX int) error {
	if s.resize != nil {
		return fmt.Errorf("resize already active on %s", s.resize.field)
	}
	start := s.Width(field)
	s.resize = &resizeSession{
		field:      field,
		startWidth: start,
		startX:     pointerX,
		lastWidth:  start,
	}
	return nil
}

// UpdateResize applies the live width for the current pointer position,
// clamped to the minimum floor. No-op when no session is active.
func (s *ColumnConfigStore) UpdateResize(pointerX int) {
	if s.resize == nil {
		return
	}
	w := clampWidth(s.resize.startWidth + (pointerX - s.resize.startX))
	s.resize.lastWidth = w
	s.widths[s.resize.field] = w
}

// EndResize commits the session's final width to durable storage and
// closes the session. Ending a session that never moved commits the
// starting width, so an aborted gesture still leaves state consistent.
func (s *ColumnConfigStore) EndResize() {
	if s.resize == nil {
		return
	}
	s.widths[s.resize.field] = s.resize.lastWidth
	s.resize = nil
	s.saveWidths()
}

// CancelResize discards the session, restoring the pre-drag width without
// touching durable storage.
func (s *ColumnConfigStore) CancelResize() {
	if s.resize == nil {
		return
	}
	s.widths[s.resize.field] = s.resize.startWidth
	s.resize = nil
}

// Resizing reports the field of the active resize session, if any.
func (s *ColumnConfigStore) Resizing() (model.FieldID, bool) {
	if s.resize == nil {
		return "", false
	}
	return s.resize.field, true
}

// normalizeOrder reassigns contiguous order values to the visible set so
// orders stay unique after toggles and moves.
func (s *ColumnConfigStore) normalizeOrder() {
	visible := s.VisibleColumns()
	for order, c := range visible {
		for i := range s.columns {
			if s.columns[i].Field == c.Field {
				s.columns[i].Order = order
			}
		}
	}
}

func clampWidth(w int) int {
	if w < MinColumnWidth {
		return MinColumnWidth
	}
	return w
}

// loadWidths merges persisted widths over defaults. Unknown fields are
// ignored; anything unreadable falls back to defaults.
func (s *ColumnConfigStore) loadWidths() {
	if s.prefs == nil {
		return
	}
	raw, err := s.prefs.Get(prefKeyColumnWidths)
	if err != nil {
		return
	}

	var persisted map[string]int
	if err := json.Unmarshal(raw, &persisted); err != nil {
		common.LogWarn("Discarding malformed persisted column widths", common.Fields{"error": err})
		return
	}

	for field, w := range persisted {
		if _, ok := model.FieldByID(model.FieldID(field)); !ok {
			continue
		}
		s.widths[model.FieldID(field)] = clampWidth(w)
	}
}

func (s *ColumnConfigStore) saveWidths() {
	if s.prefs == nil {
		return
	}
	persisted := make(map[string]int, len(s.widths))
	for field, w := range s.widths {
		persisted[string(field)] = w
	}
	raw, err := json.Marshal(persisted)
	if err == nil {
		err = s.prefs.Set(prefKeyColumnWidths, raw)
	}
	if err != nil {
		common.LogWarn("Failed to persist column widths", common.Fields{"error": err})
	}
}

// loadLayout merges persisted visibility/order over the defaults,
// field-by-field. Persisted entries for unregistered fields are ignored.
func (s *ColumnConfigStore) loadLayout() {
	if s.prefs == nil {
		return
	}
	raw, err := s.prefs.Get(prefKeyColumnLayout)
	if err != nil {
		return
	}

	var persisted []Column
	if err := json.Unmarshal(raw, &persisted); err != nil {
		common.LogWarn("Discarding malformed persisted column layout", common.Fields{"error": err})
		return
	}

	for _, p := range persisted {
		for i := range s.columns {
			if s.columns[i].Field == p.Field {
				s.columns[i].Visible = p.Visible
				s.columns[i].Order = p.Order
			}
		}
	}
}

func (s *ColumnConfigStore) saveLayout() {
	if s.prefs == nil {
		return
	}
	raw, err := json.Marshal(s.columns)
	if err == nil {
		err = s.prefs.Set(prefKeyColumnLayout, raw)
	}
	if err != nil {
		common.LogWarn("Failed to persist column layout", common.Fields{"error": err})
	}
}
