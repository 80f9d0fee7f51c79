package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/listview"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

type stubStorage struct {
	deals   []model.Deal
	deleted [][]string
}

func (s *stubStorage) GetDeals(_ context.Context, _ service.DealFilter) ([]model.Deal, error) {
	return s.deals, nil
}

func (s *stubStorage) GetDealByID(_ context.Context, _ string) (*model.Deal, error) {
	return nil, common.ErrNotFound
}

func (s *stubStorage) UpdateDealField(_ context.Context, _ string, _ model.FieldID, _ model.Value) error {
	return nil
}

func (s *stubStorage) DeleteDeals(_ context.Context, ids []string) error {
	s.deleted = append(s.deleted, ids)
	return nil
}

func (s *stubStorage) ImportDeals(_ context.Context, deals []model.Deal) (int, error) {
	return len(deals), nil
}

func (s *stubStorage) Migrate(_ context.Context) error { return nil }
func (s *stubStorage) Close() error                    { return nil }

type memPrefs struct {
	data map[string][]byte
}

func newMemPrefs() *memPrefs {
	return &memPrefs{data: make(map[string][]byte)}
}

func (p *memPrefs) Get(key string) ([]byte, error) {
	v, ok := p.data[key]
	if !ok {
		return nil, common.ErrNotFound
	}
	return v, nil
}

func (p *memPrefs) Set(key string, value []byte) error {
	p.data[key] = value
	return nil
}

func (p *memPrefs) Close() error { return nil }

func fixtureDeals() []model.Deal {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []model.Deal{
		{ID: "d1", Name: "Acme renewal", Owner: "u1", Stage: model.StageNegotiation, Status: "waiting", CreatedAt: base},
		{ID: "d2", Name: "Globex pilot", Owner: "u2", Stage: model.StageQualified, Status: "active", CreatedAt: base.AddDate(0, 0, 1)},
		{ID: "d3", Name: "Initech expansion", Owner: "u1", Stage: model.StageProposal, Status: "active", CreatedAt: base.AddDate(0, 0, 2)},
	}
}

func newTestModel(t *testing.T) (Model, *stubStorage) {
	t.Helper()
	storage := &stubStorage{deals: fixtureDeals()}
	m := newModel(Config{
		ctx:     context.Background(),
		Storage: storage,
		Prefs:   newMemPrefs(),
	})
	next, _ := m.Update(dealsLoadedMsg{deals: storage.deals})
	return next.(Model), storage
}

func keyMsg(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestUpdate_DealsLoaded(t *testing.T) {
	m, _ := newTestModel(t)

	assert.True(t, m.loaded)
	assert.Len(t, m.view.Page, 3)
	assert.Equal(t, 3, m.view.FilteredCount)
}

func TestUpdate_CursorNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('j'))
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(keyMsg('k'))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)

	// Clamped at the top.
	next, _ = m.Update(keyMsg('k'))
	m = next.(Model)
	assert.Equal(t, 0, m.cursor)
}

func TestUpdate_ToggleSelect(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('x'))
	m = next.(Model)
	assert.Equal(t, 1, m.state.Selection.Len())

	deal, ok := m.cursorDeal()
	require.True(t, ok)
	assert.True(t, m.state.Selection.Contains(deal.ID))

	next, _ = m.Update(keyMsg('x'))
	m = next.(Model)
	assert.Equal(t, 0, m.state.Selection.Len())
}

func TestUpdate_DeleteSendsSelection(t *testing.T) {
	m, storage := newTestModel(t)

	next, _ := m.Update(keyMsg('x'))
	m = next.(Model)

	next, cmd := m.Update(keyMsg('d'))
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(deleteDoneMsg)
	require.True(t, ok)
	assert.NoError(t, done.err)
	assert.Equal(t, 1, done.count)
	require.Len(t, storage.deleted, 1)
}

func TestUpdate_DeleteWithoutSelectionIsNoop(t *testing.T) {
	m, storage := newTestModel(t)

	_, cmd := m.Update(keyMsg('d'))
	assert.Nil(t, cmd)
	assert.Empty(t, storage.deleted)
}

func TestUpdateSearch_CommitsOnEnter(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('/'))
	m = next.(Model)
	assert.Equal(t, modeSearch, m.mode)

	m.search.SetValue("initech")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "initech", m.state.Filter.Term)
	assert.Equal(t, 1, m.view.FilteredCount)
	assert.Equal(t, 1, m.state.CurrentPage)
}

func TestUpdateSearch_EscLeavesFilterUntouched(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('/'))
	m = next.(Model)
	m.search.SetValue("globex")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	assert.Equal(t, modeList, m.mode)
	assert.Empty(t, m.state.Filter.Term)
	assert.Equal(t, 3, m.view.FilteredCount)
}

func TestCycleStageFilter(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('f'))
	m = next.(Model)
	assert.Equal(t, []string{string(model.AllStages[0])}, m.state.Filter.Stages)

	// A full cycle returns to unconstrained.
	for range model.AllStages {
		next, _ = m.Update(keyMsg('f'))
		m = next.(Model)
	}
	assert.Empty(t, m.state.Filter.Stages)
	assert.Equal(t, 3, m.view.FilteredCount)
}

func TestCycleOwnerFilter(t *testing.T) {
	m, _ := newTestModel(t)

	// Without directory entries the owner key does nothing.
	next, _ := m.Update(keyMsg('o'))
	m = next.(Model)
	assert.Empty(t, m.state.Filter.Owners)

	next, _ = m.Update(ownersLoadedMsg{owners: []service.DirectoryEntry{
		{ID: "u1", DisplayName: "Avery"},
		{ID: "u2", DisplayName: "Blake"},
	}})
	m = next.(Model)

	next, _ = m.Update(keyMsg('o'))
	m = next.(Model)
	assert.Equal(t, []string{"u1"}, m.state.Filter.Owners)
	assert.Equal(t, 2, m.view.FilteredCount)
}

func TestHandleMouse_ResizeSession(t *testing.T) {
	m, _ := newTestModel(t)

	// Default width 120px is 15 cells; first column's right edge sits at
	// the gutter plus cell width plus the separator.
	first := m.state.Columns.VisibleColumns()[0].Field
	edge := rowPrefixCells + m.state.Columns.Width(first)/pxPerCell + 1

	next, _ := m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		X:      edge,
		Y:      headerRow,
	})
	m = next.(Model)
	field, active := m.state.Columns.Resizing()
	require.True(t, active)
	assert.Equal(t, first, field)

	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionMotion, X: edge + 10})
	m = next.(Model)
	assert.Equal(t, 120+10*pxPerCell, m.state.Columns.Width(first))

	next, _ = m.Update(tea.MouseMsg{Action: tea.MouseActionRelease})
	m = next.(Model)
	_, active = m.state.Columns.Resizing()
	assert.False(t, active)
	assert.Equal(t, 120+10*pxPerCell, m.state.Columns.Width(first))
}

func TestHandleMouse_PressOffHeaderIgnored(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(tea.MouseMsg{
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
		X:      5,
		Y:      headerRow + 4,
	})
	m = next.(Model)
	_, active := m.state.Columns.Resizing()
	assert.False(t, active)
}

func TestEditResult_NotifiesOnStatusChange(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('e'))
	m = next.(Model)
	require.Equal(t, modeEdit, m.mode)
	// Default sort is created_at descending, so the cursor starts on d3.
	require.NotNil(t, m.editing)
	assert.Equal(t, "d3", m.editing.dealID)
	assert.Equal(t, "active", m.editing.oldStatus)

	m.edit.SetValue("blocked")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(editResultMsg)
	require.True(t, ok)
	assert.True(t, result.outcome.Updated())
	assert.Equal(t, model.FieldStatus, result.outcome.Field)
}

func TestUpdate_DealsLoadFailure(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(dealsLoadedMsg{err: errors.New("database locked")})
	m = next.(Model)

	assert.Error(t, m.loadErr)
	assert.Contains(t, m.View(), "failed to load deals")
}

func TestEditResult_StaleOutcomeKeepsNewSession(t *testing.T) {
	m, _ := newTestModel(t)

	// Submit a status edit on the first row.
	next, _ := m.Update(keyMsg('e'))
	m = next.(Model)
	require.NotNil(t, m.editing)
	staleID := m.editing.dealID
	m.edit.SetValue("blocked")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// Open a second edit on another row before the first result lands.
	next, _ = m.Update(keyMsg('j'))
	m = next.(Model)
	next, _ = m.Update(keyMsg('e'))
	m = next.(Model)
	require.NotNil(t, m.editing)
	secondID := m.editing.dealID
	require.NotEqual(t, staleID, secondID)

	// The stale outcome must not consume the newer session.
	next, _ = m.Update(editResultMsg{outcome: listview.EditOutcome{DealID: staleID, Field: model.FieldStatus}})
	m = next.(Model)
	require.Equal(t, modeEdit, m.mode)
	require.NotNil(t, m.editing)
	assert.Equal(t, secondID, m.editing.dealID)

	// And the second session still submits.
	m.edit.SetValue("escalated")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	result, ok := cmd().(editResultMsg)
	require.True(t, ok)
	assert.Equal(t, secondID, result.outcome.DealID)
}

func TestUpdate_AssignOwner(t *testing.T) {
	m, _ := newTestModel(t)

	next, _ := m.Update(keyMsg('a'))
	m = next.(Model)
	require.Equal(t, modeEdit, m.mode)
	require.NotNil(t, m.editing)
	assert.Equal(t, model.FieldOwner, m.editing.field)

	m.edit.SetValue("u9")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	result, ok := cmd().(editResultMsg)
	require.True(t, ok)
	assert.True(t, result.outcome.Updated())
	assert.Equal(t, model.FieldOwner, result.outcome.Field)
}

func TestNotificationFor(t *testing.T) {
	status := &editTarget{
		dealID: "d1", dealName: "Acme renewal", owner: "u1",
		oldStatus: "waiting", field: model.FieldStatus, priority: model.PriorityHigh,
	}

	event, ok := notificationFor(status, "blocked")
	require.True(t, ok)
	assert.Equal(t, service.EventStatusChange, event.Kind)
	assert.Equal(t, "u1", event.Recipient)
	assert.Equal(t, "waiting", event.OldStatus)
	assert.Equal(t, "blocked", event.NewStatus)

	// Re-submitting the same status is not a change.
	_, ok = notificationFor(status, "waiting")
	assert.False(t, ok)

	assign := &editTarget{
		dealID: "d1", dealName: "Acme renewal", owner: "u1",
		field: model.FieldOwner, priority: model.PriorityHigh,
	}

	event, ok = notificationFor(assign, "u2")
	require.True(t, ok)
	assert.Equal(t, service.EventAssignment, event.Kind)
	assert.Equal(t, "u2", event.Assignee)
	assert.Equal(t, "u2", event.Recipient)

	_, ok = notificationFor(assign, "u1")
	assert.False(t, ok)

	// Stage advances notify nobody.
	_, ok = notificationFor(&editTarget{dealID: "d1", field: model.FieldStage}, "Won")
	assert.False(t, ok)
}

func TestUpdate_AdvanceStage(t *testing.T) {
	m, _ := newTestModel(t)

	// Cursor starts on d3 (Proposal) under the default sort.
	next, cmd := m.Update(keyMsg('E'))
	m = next.(Model)
	require.NotNil(t, cmd)

	msg := cmd()
	result, ok := msg.(editResultMsg)
	require.True(t, ok)
	assert.True(t, result.outcome.Updated())
	assert.Equal(t, model.FieldStage, result.outcome.Field)
	assert.Equal(t, "d3", result.outcome.DealID)
}

func TestNextStage(t *testing.T) {
	assert.Equal(t, model.StageQualified, nextStage(model.StageLead))
	assert.Equal(t, model.StageWon, nextStage(model.StageWon))
	assert.Equal(t, model.StageLost, nextStage(model.StageLost))
}

func TestPad(t *testing.T) {
	assert.Equal(t, "abc  ", pad("abc", 5))
	assert.Equal(t, "abcd…", pad("abcdef", 5))
	assert.Equal(t, "abcde", pad("abcde", 5))
}

func TestView_RendersPageAndMeta(t *testing.T) {
	m, _ := newTestModel(t)

	out := m.View()
	assert.Contains(t, out, "Acme renewal")
	assert.Contains(t, out, "page 1/1")
	assert.Contains(t, out, "3 of 3 deals")
}
