package listview

import (
	"encoding/json"
	"testing"

	"github.com/mferrell/dealflow/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnConfigStore_Defaults(t *testing.T) {
	s := NewColumnConfigStore(nil)

	visible := s.VisibleColumns()
	require.NotEmpty(t, visible)

	// Orders are contiguous and unique across the visible set.
	for i, c := range visible {
		assert.Equal(t, i, c.Order, "column %s", c.Field)
		assert.True(t, c.Visible)
	}

	assert.Equal(t, DefaultColumnWidth, s.Width(model.FieldName))
}

func TestColumnConfigStore_ResizeSession(t *testing.T) {
	prefs := newMemPrefs()
	s := NewColumnConfigStore(prefs)

	require.NoError(t, s.BeginResize(model.FieldName, 400))

	// A second session is refused while one is active.
	err := s.BeginResize(model.FieldOwner, 100)
	assert.Error(t, err)

	s.UpdateResize(460)
	assert.Equal(t, DefaultColumnWidth+60, s.Width(model.FieldName))

	s.UpdateResize(410)
	assert.Equal(t, DefaultColumnWidth+10, s.Width(model.FieldName))

	s.EndResize()
	_, active := s.Resizing()
	assert.False(t, active)

	// Committed width survives a reload from the same pref store.
	reloaded := NewColumnConfigStore(prefs)
	assert.Equal(t, DefaultColumnWidth+10, reloaded.Width(model.FieldName))
}

func TestColumnConfigStore_ResizeFloor(t *testing.T) {
	s := NewColumnConfigStore(nil)

	require.NoError(t, s.BeginResize(model.FieldName, 500))
	// Dragging far left clamps to exactly the 80px floor.
	s.UpdateResize(0)
	assert.Equal(t, MinColumnWidth, s.Width(model.FieldName))
	s.EndResize()
	assert.Equal(t, MinColumnWidth, s.Width(model.FieldName))
}

func TestColumnConfigStore_CancelRestoresWidth(t *testing.T) {
	prefs := newMemPrefs()
	s := NewColumnConfigStore(prefs)

	require.NoError(t, s.BeginResize(model.FieldName, 100))
	s.UpdateResize(300)
	s.CancelResize()

	assert.Equal(t, DefaultColumnWidth, s.Width(model.FieldName))
	// Nothing was persisted for the discarded session.
	_, err := prefs.Get("column_widths")
	assert.Error(t, err)
}

func TestColumnConfigStore_EndWithoutMoveIsConsistent(t *testing.T) {
	s := NewColumnConfigStore(newMemPrefs())

	require.NoError(t, s.BeginResize(model.FieldName, 100))
	s.EndResize() // gesture ended without a completing move

	assert.Equal(t, DefaultColumnWidth, s.Width(model.FieldName))
	require.NoError(t, s.BeginResize(model.FieldName, 100)) // session fully released
	s.CancelResize()
}

func TestColumnConfigStore_ToggleAndReorderPersist(t *testing.T) {
	prefs := newMemPrefs()
	s := NewColumnConfigStore(prefs)

	s.ToggleVisible(model.FieldStatus)
	s.MoveColumn(model.FieldOwner, -2)

	reloaded := NewColumnConfigStore(prefs)
	for _, c := range reloaded.VisibleColumns() {
		assert.NotEqual(t, model.FieldStatus, c.Field)
	}
	assert.Equal(t, s.VisibleColumns(), reloaded.VisibleColumns())
}

func TestColumnConfigStore_MalformedPrefsFallBack(t *testing.T) {
	prefs := newMemPrefs()
	require.NoError(t, prefs.Set("column_widths", []byte("{not json")))
	require.NoError(t, prefs.Set("column_layout", []byte("also not json")))

	s := NewColumnConfigStore(prefs)

	assert.Equal(t, DefaultColumnWidth, s.Width(model.FieldName))
	assert.Equal(t, NewColumnConfigStore(nil).VisibleColumns(), s.VisibleColumns())
}

func TestColumnConfigStore_UnknownPersistedFieldsIgnored(t *testing.T) {
	prefs := newMemPrefs()
	raw, err := json.Marshal(map[string]int{
		"name":     200,
		"bogus":    999,
		"customer": 30, // below floor, clamped on load
	})
	require.NoError(t, err)
	require.NoError(t, prefs.Set("column_widths", raw))

	s := NewColumnConfigStore(prefs)

	assert.Equal(t, 200, s.Width(model.FieldName))
	assert.Equal(t, MinColumnWidth, s.Width(model.FieldCustomer))
	assert.Equal(t, DefaultColumnWidth, s.Width(model.FieldOwner))
}
