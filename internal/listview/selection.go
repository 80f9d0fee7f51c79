package listview

import "sort"

// SelectionSet tracks the deal IDs chosen for bulk action. Selection is
// scoped to what the user could actually see: SelectAll operates on the
// current page's IDs only, and Prune drops IDs that left the collection.
type SelectionSet struct {
	ids map[string]struct{}
}

// NewSelectionSet returns an empty selection.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{ids: make(map[string]struct{})}
}

// Toggle flips one ID in or out of the selection.
func (s *SelectionSet) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectAll adds exactly the IDs rendered on the current page. Earlier
// selections from other pages are kept; callers wanting a fresh page-only
// selection Clear first.
func (s *SelectionSet) SelectAll(pageIDs []string) {
	for _, id := range pageIDs {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	s.ids = make(map[string]struct{})
}

// Contains reports whether an ID is selected.
func (s *SelectionSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected IDs.
func (s *SelectionSet) Len() int {
	return len(s.ids)
}

// IDs returns the selected IDs in sorted order.
func (s *SelectionSet) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Prune drops any selected ID absent from the given collection, keeping
// the invariant that the selection never references a deleted deal.
func (s *SelectionSet) Prune(validIDs []string) {
	valid := make(map[string]struct{}, len(validIDs))
	for _, id := range validIDs {
		valid[id] = struct{}{}
	}
	for id := range s.ids {
		if _, ok := valid[id]; !ok {
			delete(s.ids, id)
		}
	}
}
