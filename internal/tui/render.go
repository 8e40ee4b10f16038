package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/notify"
	"github.com/sheetdesk/sheetdesk/internal/table"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch {
	case m.formOpen():
		b.WriteString(m.renderForm())
	case m.upload.Visible():
		b.WriteString(m.renderUpload())
	case m.picking:
		b.WriteString(m.renderPicker())
	default:
		b.WriteString(m.renderTable())
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	tabs := make([]string, len(m.defs))
	for i, def := range m.defs {
		if i == m.active {
			tabs[i] = activeTabStyle.Render(def.Label)
		} else {
			tabs[i] = tabStyle.Render(def.Label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.Render("sheetdesk"), "  ",
		lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) renderTable() string {
	view := m.activeView()
	cols := view.VisibleColumns()
	page := view.Page()

	var b strings.Builder

	if m.stores[m.activeDef().Kind].Loading() {
		b.WriteString(dimStyle.Render("Loading..."))
		b.WriteString("\n")
	}
	if err := m.stores[m.activeDef().Kind].Err(); err != nil {
		b.WriteString(errorStyle.Render("load failed: " + err.Error()))
		b.WriteString("\n")
	}

	widths := columnWidths(view, cols, page)

	cells := make([]string, len(cols))
	for i, col := range cols {
		label := col.Header + sortMarker(view, col)
		style := headerCellStyle
		if i == m.colCursor {
			style = cursorHeaderStyle
		}
		cells[i] = style.Render(pad(label, widths[i]))
	}
	b.WriteString(strings.Join(cells, "  "))
	b.WriteString("\n")

	if len(page) == 0 {
		b.WriteString(dimStyle.Render("No results."))
		b.WriteString("\n")
	}

	for r, row := range page {
		for i, col := range cols {
			cells[i] = pad(view.Cell(row, col), widths[i])
		}
		line := strings.Join(cells, "  ")
		if view.CanToggle() {
			line += "  " + toggleBadge(view.ToggleState(row))
		}
		switch {
		case r == m.rowCursor:
			line = cursorRowStyle.Render(line)
		case view.Selected(row):
			line = selectedRowStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	shown, total := view.CountSummary()
	filterText, filterCol := view.Filter()
	summary := fmt.Sprintf("Showing %d of %d  ·  Page %d/%d  ·  %d rows/page",
		shown, total, view.PageIndex()+1, view.PageCount(), view.PageSize())
	if sel := view.SelectedCount(); sel > 0 {
		summary += fmt.Sprintf("  ·  %d selected", sel)
	}
	b.WriteString(dimStyle.Render(summary))
	b.WriteString("\n")

	switch {
	case m.filtering:
		b.WriteString("Filter: " + m.filterInput.View())
		b.WriteString("\n")
	case filterText != "":
		scope := "all columns"
		if filterCol != "" {
			scope = filterCol
		}
		b.WriteString(dimStyle.Render(fmt.Sprintf("Filter (%s): %s", scope, filterText)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) renderPicker() string {
	options := m.activeView().FilterableColumns()
	var b strings.Builder
	b.WriteString("Filter by column:\n\n")
	for i, col := range options {
		line := "  " + col.Header
		if i == m.pickCursor {
			line = cursorRowStyle.Render("> " + col.Header)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return modalStyle.Render(b.String())
}

func (m Model) renderForm() string {
	frm := m.activeForm()
	if frm == nil {
		return ""
	}
	def := frm.Definition()

	title := "Add " + def.Label
	if frm.Mode() == core.WorkflowUpdate {
		title = "Update " + def.Label
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for i, spec := range def.Fields {
		b.WriteString(fieldLabelStyle.Render(spec.Label))
		if i < len(m.formInputs) {
			b.WriteString(m.formInputs[i].View())
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if frm.Submitting() {
		b.WriteString(dimStyle.Render("Submitting..."))
	} else if !frm.Dirty() {
		b.WriteString(dimStyle.Render("No changes yet"))
	} else {
		b.WriteString(dimStyle.Render("enter submit · esc cancel"))
	}
	return modalStyle.Render(b.String())
}

func (m Model) renderUpload() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Upload Sheet"))
	b.WriteString("\n\n")
	b.WriteString("File: " + m.uploadInput.View())
	b.WriteString("\n")

	if f := m.upload.File(); f != nil {
		b.WriteString(dimStyle.Render("Selected: " + f.Name))
		b.WriteString("\n")
	}
	if errs := m.upload.Errors(); len(errs) > 0 {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Rejected rows:"))
		b.WriteString("\n")
		for _, e := range errs {
			b.WriteString(errorStyle.Render("  " + e))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.upload.ButtonLabel() + " · enter upload · ctrl+x clear · esc close"))
	return modalStyle.Render(b.String())
}

func (m Model) renderStatus() string {
	if !m.hasStatus {
		return ""
	}
	if m.status.Level == notify.Failure {
		return errorStyle.Render(m.status.Message)
	}
	return successStyle.Render(m.status.Message)
}

func sortMarker(view *table.View, col core.ColumnDef) string {
	key, dir := view.Sort()
	if key != col.Key {
		return ""
	}
	switch dir {
	case table.SortAsc:
		return " ▲"
	case table.SortDesc:
		return " ▼"
	}
	return ""
}

func toggleBadge(on bool) string {
	if on {
		return successStyle.Render("[on]")
	}
	return dimStyle.Render("[off]")
}

func columnWidths(view *table.View, cols []core.ColumnDef, page []table.Row) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = len(col.Header) + 2
		for _, row := range page {
			if n := len(view.Cell(row, col)); n > widths[i] {
				widths[i] = n
			}
		}
		if widths[i] > 24 {
			widths[i] = 24
		}
	}
	return widths
}

func pad(s string, width int) string {
	if len(s) > width {
		if width <= 1 {
			return s[:width]
		}
		return s[:width-1] + "…"
	}
	return s + strings.Repeat(" ", width-len(s))
}
