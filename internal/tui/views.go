package tui

import (
	"fmt"
	"strings"

	"github.com/mferrell/dealflow/internal/listview"
	"github.com/mferrell/dealflow/internal/model"
)

// View renders the full screen: title, context line, header, page rows,
// and the footer with paging metadata.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.loaded {
		return m.styles.Muted.Render("loading deals...")
	}
	if m.loadErr != nil {
		return m.styles.Notice.Render(fmt.Sprintf("failed to load deals: %v", m.loadErr))
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Dealflow"))
	b.WriteString("\n")
	b.WriteString(m.contextLine())
	b.WriteString("\n")
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	for i, deal := range m.view.Page {
		b.WriteString(m.rowLine(deal, i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.view.Page) == 0 {
		b.WriteString(m.styles.Muted.Render("  no deals match"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footerLine())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.helpLine()))

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Notice.Render(m.notice))
	}

	return b.String()
}

// contextLine shows the active input in search or edit mode, otherwise a
// summary of the active filters.
func (m Model) contextLine() string {
	switch m.mode {
	case modeSearch:
		return "search: " + m.search.View()
	case modeEdit:
		label := "edit"
		if m.editing != nil {
			label = string(m.editing.field)
		}
		return label + ": " + m.edit.View()
	}

	parts := []string{}
	if term := strings.TrimSpace(m.state.Filter.Term); term != "" {
		parts = append(parts, fmt.Sprintf("search %q", term))
	}
	if len(m.state.Filter.Stages) > 0 {
		parts = append(parts, "stage "+strings.Join(m.state.Filter.Stages, ","))
	}
	if len(m.state.Filter.Owners) > 0 {
		parts = append(parts, "owner "+strings.Join(m.state.Filter.Owners, ","))
	}
	if len(parts) == 0 {
		return m.styles.Subtitle.Render("all deals")
	}
	return m.styles.Subtitle.Render(strings.Join(parts, " · "))
}

// headerLine renders the column labels with the sort indicator.
func (m Model) headerLine() string {
	cells := []string{strings.Repeat(" ", rowPrefixCells)}
	for _, col := range m.state.Columns.VisibleColumns() {
		label := col.Label
		if col.Field == m.state.Sort.Field {
			if m.state.Sort.Dir == listview.Ascending {
				label += " ▲"
			} else {
				label += " ▼"
			}
		}
		cells = append(cells, pad(label, m.cellWidth(col.Field)))
	}
	return m.styles.Header.Render(strings.Join(cells, " "))
}

// rowLine renders one deal row with its selection and cursor gutter.
func (m Model) rowLine(deal model.Deal, atCursor bool) string {
	gutter := "  "
	if m.state.Selection.Contains(deal.ID) {
		gutter = "✓ "
	}
	if atCursor {
		gutter = "> "
	}

	cells := []string{gutter}
	for _, col := range m.state.Columns.VisibleColumns() {
		text := model.ValueOf(deal, col.Field).String()
		cells = append(cells, pad(text, m.cellWidth(col.Field)))
	}

	line := strings.Join(cells, " ")
	if atCursor {
		return m.styles.Selected.Render(line)
	}
	return line
}

// footerLine summarizes paging and selection state.
func (m Model) footerLine() string {
	meta := m.view.Meta
	parts := []string{
		fmt.Sprintf("page %d/%d", meta.CurrentPage, meta.TotalPages),
		fmt.Sprintf("%d of %d deals", len(m.view.Page), m.view.FilteredCount),
	}
	if n := m.state.Selection.Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	if field, active := m.state.Columns.Resizing(); active {
		parts = append(parts, fmt.Sprintf("resizing %s", field))
	}
	return m.styles.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Model) helpLine() string {
	return "↑/↓ move · ←/→ page · x select · / search · f stage · o owner · s sort · e edit · E advance · a assign · d delete · q quit"
}

// cellWidth converts a column's pixel width to terminal cells.
func (m Model) cellWidth(field model.FieldID) int {
	w := m.state.Columns.Width(field) / pxPerCell
	if w < 1 {
		w = 1
	}
	return w
}

// pad truncates or right-pads text to exactly width runes.
func pad(text string, width int) string {
	runes := []rune(text)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return text + strings.Repeat(" ", width-len(runes))
}
