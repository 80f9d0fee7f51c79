// Package tui implements the interactive deal list.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/listview"
	"github.com/mferrell/dealflow/internal/model"
	"github.com/mferrell/dealflow/internal/service"
)

// mode is the interaction mode of the list.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeEdit
)

// Terminal cells map to the pixel widths the column store works in.
const pxPerCell = 8

// headerRow is the screen row of the column header, the drag target for
// column resizing.
const headerRow = 2

// rowPrefixCells is the width of the cursor/selection gutter, which offsets
// every column's horizontal position.
const rowPrefixCells = 2

// editTarget carries the context of an in-progress inline edit, kept until
// the outcome arrives so a successful status or owner change can be
// notified with its before and after values.
type editTarget struct {
	dueDate   time.Time
	dealID    string
	dealName  string
	owner     string
	oldStatus string
	field     model.FieldID
	priority  model.Priority
}

// Model is the bubbletea model for the deal list.
type Model struct {
	ctx        context.Context
	storage    service.Storage
	directory  service.Directory
	notifier   service.Notifier
	dispatcher *listview.InlineEditDispatcher
	state      *listview.State

	keys   KeyMap
	styles Styles

	mode    mode
	search  textinput.Model
	edit    textinput.Model
	editing *editTarget

	view   listview.View
	owners []service.DirectoryEntry

	cursor   int
	ownerIdx int
	stageIdx int
	width    int
	height   int
	notice   string
	loadErr  error
	loaded   bool
	quitting bool
}

func newModel(cfg Config) Model {
	opts := []listview.Option{}
	if cfg.InitialStage != "" {
		opts = append(opts, listview.WithInitialStage(cfg.InitialStage))
	}

	search := textinput.New()
	search.Placeholder = "search deals..."
	search.CharLimit = 120

	edit := textinput.New()
	edit.Placeholder = "new status"
	edit.CharLimit = 120

	return Model{
		ctx:        cfg.ctx,
		storage:    cfg.Storage,
		directory:  cfg.Directory,
		notifier:   cfg.Notifier,
		dispatcher: listview.NewInlineEditDispatcher(cfg.Storage),
		state:      listview.NewState(cfg.Prefs, opts...),
		keys:       DefaultKeyMap(),
		styles:     DefaultStyles(),
		search:     search,
		edit:       edit,
		stageIdx:   -1,
		ownerIdx:   -1,
	}
}

// Init loads the collection and the owner directory.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		loadDeals(m.ctx, m.storage),
		loadOwners(m.ctx, m.directory),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dealsLoadedMsg:
		m.loaded = true
		m.loadErr = msg.err
		if msg.err != nil {
			common.LogError(msg.err, "Failed to load deals", nil)
			return m, nil
		}
		m.state.SetDeals(msg.deals)
		m.refresh()
		return m, nil

	case ownersLoadedMsg:
		m.owners = msg.owners
		return m, nil

	case editResultMsg:
		return m.handleEditResult(msg.outcome)

	case deleteDoneMsg:
		if msg.err != nil {
			m.notice = "delete failed"
			return m, expireNotice()
		}
		m.state.Selection.Clear()
		return m, loadDeals(m.ctx, m.storage)

	case noticeExpiredMsg:
		m.notice = ""
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeEdit:
			return m.updateEdit(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

// refresh recomputes the derived view and keeps the cursor on the page.
func (m *Model) refresh() {
	m.view = m.state.Derive()
	if m.cursor >= len(m.view.Page) {
		m.cursor = len(m.view.Page) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) cursorDeal() (model.Deal, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Page) {
		return model.Deal{}, false
	}
	return m.view.Page[m.cursor], true
}

// sortCycle is the order the sort key steps through.
var sortCycle = []model.FieldID{
	model.FieldCreatedAt,
	model.FieldName,
	model.FieldValue,
	model.FieldProbability,
	model.FieldCloseDate,
	model.FieldStage,
	model.FieldPriority,
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Page)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.state.PrevPage()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.state.NextPage()
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleSelect):
		if deal, ok := m.cursorDeal(); ok {
			m.state.Selection.Toggle(deal.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		m.state.Selection.SelectAll(m.view.PageIDs())
		return m, nil

	case key.Matches(msg, m.keys.ClearSelection):
		m.state.Selection.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.state.Filter.Term)
		m.search.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.FilterStage):
		m.cycleStageFilter()
		return m, nil

	case key.Matches(msg, m.keys.FilterOwner):
		m.cycleOwnerFilter()
		return m, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.state.SetSort(m.nextSortField(), listview.Ascending)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.FlipSort):
		m.state.ToggleSort(m.state.Sort.Field)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.HideColumn):
		m.state.Columns.ToggleVisible(m.state.Sort.Field)
		return m, nil

	case key.Matches(msg, m.keys.EditStatus):
		deal, ok := m.cursorDeal()
		if !ok {
			return m, nil
		}
		m.editing = &editTarget{
			dealID:    deal.ID,
			dealName:  deal.Name,
			owner:     deal.Owner,
			oldStatus: deal.Status,
			field:     model.FieldStatus,
			priority:  deal.Priority,
		}
		m.mode = modeEdit
		m.edit.Placeholder = "new status"
		m.edit.SetValue(deal.Status)
		m.edit.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Assign):
		deal, ok := m.cursorDeal()
		if !ok {
			return m, nil
		}
		m.editing = &editTarget{
			dueDate:  deal.CloseDate,
			dealID:   deal.ID,
			dealName: deal.Name,
			owner:    deal.Owner,
			field:    model.FieldOwner,
			priority: deal.Priority,
		}
		m.mode = modeEdit
		m.edit.Placeholder = "new owner"
		m.edit.SetValue(deal.Owner)
		m.edit.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.EditStage):
		deal, ok := m.cursorDeal()
		if !ok {
			return m, nil
		}
		next := nextStage(deal.Stage)
		m.editing = &editTarget{
			dealID:   deal.ID,
			dealName: deal.Name,
			owner:    deal.Owner,
			field:    model.FieldStage,
			priority: deal.Priority,
		}
		return m, submitEdit(m.ctx, m.dispatcher, deal.ID, model.FieldStage, model.EnumMember(string(next)))

	case key.Matches(msg, m.keys.Delete):
		ids := m.state.Selection.IDs()
		if len(ids) == 0 {
			return m, nil
		}
		return m, deleteSelected(m.ctx, m.storage, ids)

	case key.Matches(msg, m.keys.Refresh):
		return m, tea.Batch(
			loadDeals(m.ctx, m.storage),
			loadOwners(m.ctx, m.directory),
		)

	case msg.Type == tea.KeyEsc:
		m.state.Columns.CancelResize()
		return m, nil
	}

	return m, nil
}

// nextStage advances a deal to the following pipeline stage. Won and Lost
// are both terminal: a closed deal never advances.
func nextStage(stage model.Stage) model.Stage {
	if stage == model.StageWon || stage == model.StageLost {
		return stage
	}
	for i, s := range model.AllStages {
		if s == stage && i+1 < len(model.AllStages) {
			return model.AllStages[i+1]
		}
	}
	return stage
}

// nextSortField steps the active sort through the cycle.
func (m *Model) nextSortField() model.FieldID {
	for i, f := range sortCycle {
		if f == m.state.Sort.Field {
			return sortCycle[(i+1)%len(sortCycle)]
		}
	}
	return sortCycle[0]
}

// cycleStageFilter steps the stage filter through none and each stage.
func (m *Model) cycleStageFilter() {
	m.stageIdx++
	f := m.state.Filter
	if m.stageIdx >= len(model.AllStages) {
		m.stageIdx = -1
		f.Stages = nil
	} else {
		f.Stages = []string{string(model.AllStages[m.stageIdx])}
	}
	m.state.SetFilter(f)
	m.refresh()
}

// cycleOwnerFilter steps the owner filter through none and each directory
// entry. With no directory loaded it stays unconstrained.
func (m *Model) cycleOwnerFilter() {
	if len(m.owners) == 0 {
		return
	}
	m.ownerIdx++
	f := m.state.Filter
	if m.ownerIdx >= len(m.owners) {
		m.ownerIdx = -1
		f.Owners = nil
	} else {
		f.Owners = []string{m.owners[m.ownerIdx].ID}
	}
	m.state.SetFilter(f)
	m.refresh()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		m.state.SetSearch(m.search.Value(), "")
		m.refresh()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.edit.Blur()
		if m.editing == nil {
			return m, nil
		}
		value := model.Text(m.edit.Value())
		return m, submitEdit(m.ctx, m.dispatcher, m.editing.dealID, m.editing.field, value)
	case tea.KeyEsc:
		m.mode = modeList
		m.edit.Blur()
		m.editing = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

// handleEditResult reloads on success and fires any notification the edit
// warrants. Only the outcome matching the stored edit context consumes it:
// a result from an earlier cell must not clear a newer, still-open session
// or have its notification attributed to the wrong deal.
func (m Model) handleEditResult(outcome listview.EditOutcome) (tea.Model, tea.Cmd) {
	var target *editTarget
	if m.editing != nil && m.editing.dealID == outcome.DealID && m.editing.field == outcome.Field {
		target = m.editing
		m.editing = nil
	}

	if !outcome.Updated() {
		m.notice = editNotice(outcome)
		return m, expireNotice()
	}

	cmds := []tea.Cmd{loadDeals(m.ctx, m.storage)}
	if target != nil {
		if event, ok := notificationFor(target, m.edit.Value()); ok {
			cmds = append(cmds, sendNotification(m.ctx, m.notifier, event))
		}
	}
	return m, tea.Batch(cmds...)
}

// notificationFor maps a completed edit to the task event it should emit:
// an owner edit raises an assignment addressed to the new owner, a status
// edit a status change addressed to the current owner. Unchanged values
// and other fields emit nothing.
func notificationFor(target *editTarget, newValue string) (service.TaskEvent, bool) {
	switch target.field {
	case model.FieldOwner:
		if newValue == "" || newValue == target.owner {
			return service.TaskEvent{}, false
		}
		return service.TaskEvent{
			Kind:      service.EventAssignment,
			DealID:    target.dealID,
			DealName:  target.dealName,
			Assignee:  newValue,
			Recipient: newValue,
			Priority:  target.priority,
			DueDate:   target.dueDate,
		}, true
	case model.FieldStatus:
		if newValue == target.oldStatus {
			return service.TaskEvent{}, false
		}
		return service.TaskEvent{
			Kind:      service.EventStatusChange,
			DealID:    target.dealID,
			DealName:  target.dealName,
			Recipient: target.owner,
			OldStatus: target.oldStatus,
			NewStatus: newValue,
			Priority:  target.priority,
		}, true
	}
	return service.TaskEvent{}, false
}

// handleMouse drives the column resize session: press on a header boundary
// starts it, motion tracks it, release commits it.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y != headerRow {
			return m, nil
		}
		if field, ok := m.boundaryAt(msg.X); ok {
			if err := m.state.Columns.BeginResize(field, msg.X*pxPerCell); err != nil {
				return m, nil
			}
		}
		return m, nil

	case tea.MouseActionMotion:
		m.state.Columns.UpdateResize(msg.X * pxPerCell)
		return m, nil

	case tea.MouseActionRelease:
		if _, active := m.state.Columns.Resizing(); active {
			m.state.Columns.EndResize()
		}
		return m, nil
	}

	return m, nil
}

// boundaryAt finds the column whose right edge sits within one cell of the
// given X position.
func (m *Model) boundaryAt(x int) (model.FieldID, bool) {
	edge := rowPrefixCells
	for _, col := range m.state.Columns.VisibleColumns() {
		edge += m.state.Columns.Width(col.Field)/pxPerCell + 1
		if x >= edge-1 && x <= edge+1 {
			return col.Field, true
		}
	}
	return "", false
}
