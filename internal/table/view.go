// Package table is the generic view engine behind every entity listing:
// sorting, per-column visibility, global or column-scoped text filtering,
// row selection, and pagination over an in-memory row set. It is
// independent of what the rows represent and holds no server-communication
// responsibility; row actions surface through caller-supplied hooks.
package table

import (
	"sort"
	"strings"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

// PageSizeOptions is the fixed set of selectable page sizes.
var PageSizeOptions = []int{5, 10, 20, 50}

// DefaultPageSize is used when the caller does not pick one.
const DefaultPageSize = 5

// SortDir is the state of the three-way sort cycle.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

// FilterMode selects which filtering surface a view starts on. Picking a
// column always scopes the filter to that column regardless of mode;
// ClearFilterColumn drops the pick and returns to the mode's default.
type FilterMode int

const (
	// FilterGlobal matches one free-text value against every visible
	// column of every row.
	FilterGlobal FilterMode = iota
	// FilterColumn matches the text against a single picked column.
	FilterColumn
)

// Config describes one table view instance.
type Config struct {
	Columns  []core.ColumnDef
	PageSize int
	Mode     FilterMode

	// FilterableColumns are the keys offered by the column picker when
	// Mode is FilterColumn. Empty means every non-ordinal column.
	FilterableColumns []string

	// Edit enables the per-row edit affordance; OnEdit receives the
	// row's full record.
	Edit   bool
	OnEdit func(core.Record)

	// Toggle enables the per-row boolean switch over ToggleKey; OnToggle
	// receives the value of PrimaryKey and the new state as 1/0.
	Toggle     bool
	ToggleKey  string
	PrimaryKey string
	OnToggle   func(rowKey string, state int)
}

// Row is one rendered row of the current page.
type Row struct {
	Record core.Record

	// Ordinal is the 1-based position in the filtered, sorted set.
	Ordinal int

	// Index is the row's position in the underlying (unfiltered) data,
	// used as the selection key.
	Index int
}

// View owns the transient UI state of one table instance.
type View struct {
	cfg  Config
	rows []core.Record

	sortKey string
	sortDir SortDir

	hidden       map[string]bool
	filterText   string
	filterColumn string

	pageIndex int
	pageSize  int

	selected map[int]bool
}

// New creates a view over the given configuration with no rows yet.
func New(cfg Config) *View {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	return &View{
		cfg:      cfg,
		pageSize: cfg.PageSize,
		hidden:   make(map[string]bool),
		selected: make(map[int]bool),
	}
}

// SetRows replaces the row set wholesale, as happens on every re-fetch.
// Selection is cleared because row identity is positional; the page index
// is re-clamped against the new filtered count.
func (v *View) SetRows(rows []core.Record) {
	v.rows = rows
	v.selected = make(map[int]bool)
	v.clampPage()
}

// Rows returns the underlying unfiltered row set.
func (v *View) Rows() []core.Record { return v.rows }

// --- sorting ---

// CycleSort advances the sort state of a column: ascending, then
// descending, then unsorted. Clicking a different column starts its cycle
// fresh; only the last-clicked column is ever active.
func (v *View) CycleSort(key string) {
	col, ok := v.column(key)
	if !ok || !col.Sortable {
		return
	}
	if v.sortKey != key {
		v.sortKey = key
		v.sortDir = SortAsc
		return
	}
	switch v.sortDir {
	case SortAsc:
		v.sortDir = SortDesc
	case SortDesc:
		v.sortKey = ""
		v.sortDir = SortNone
	default:
		v.sortDir = SortAsc
	}
}

// Sort reports the active sort column and direction.
func (v *View) Sort() (string, SortDir) { return v.sortKey, v.sortDir }

// --- filtering ---

// SetGlobalFilter sets the free-text filter. Only meaningful when the view
// is in global mode.
func (v *View) SetGlobalFilter(text string) {
	v.filterText = text
	v.clampPage()
}

// PickFilterColumn selects which column the column-scoped filter applies
// to. Switching the column resets the filter text.
func (v *View) PickFilterColumn(key string) {
	if v.filterColumn == key {
		return
	}
	v.filterColumn = key
	v.filterText = ""
	v.clampPage()
}

// SetColumnFilter sets the text matched against the picked column.
func (v *View) SetColumnFilter(text string) {
	v.filterText = text
	v.clampPage()
}

// ClearFilterColumn drops the picked column and its filter text, returning
// the view to global filtering.
func (v *View) ClearFilterColumn() {
	if v.filterColumn == "" {
		return
	}
	v.filterColumn = ""
	v.filterText = ""
	v.clampPage()
}

// Filter reports the active filter text and, in column mode, the picked
// column key.
func (v *View) Filter() (text, column string) { return v.filterText, v.filterColumn }

// FilterableColumns returns the column picker's option list.
func (v *View) FilterableColumns() []core.ColumnDef {
	if len(v.cfg.FilterableColumns) == 0 {
		var cols []core.ColumnDef
		for _, col := range v.cfg.Columns {
			if !col.Ordinal {
				cols = append(cols, col)
			}
		}
		return cols
	}
	var cols []core.ColumnDef
	for _, key := range v.cfg.FilterableColumns {
		if col, ok := v.column(key); ok {
			cols = append(cols, col)
		}
	}
	return cols
}

// --- column visibility ---

// ToggleColumn flips a column's visibility. Hidden columns drop out of
// rendering and of the global filter scope but stay in the row data.
func (v *View) ToggleColumn(key string) {
	col, ok := v.column(key)
	if !ok || !col.Hideable {
		return
	}
	v.hidden[key] = !v.hidden[key]
	v.clampPage()
}

// ColumnVisible reports whether a column is currently shown.
func (v *View) ColumnVisible(key string) bool { return !v.hidden[key] }

// VisibleColumns returns the columns currently rendered, in definition
// order.
func (v *View) VisibleColumns() []core.ColumnDef {
	var cols []core.ColumnDef
	for _, col := range v.cfg.Columns {
		if !v.hidden[col.Key] {
			cols = append(cols, col)
		}
	}
	return cols
}

// Columns returns all column definitions, hidden ones included.
func (v *View) Columns() []core.ColumnDef { return v.cfg.Columns }

// --- pagination ---

// SetPageSize switches the page size and re-clamps the page index so the
// view never points past the last page.
func (v *View) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.pageSize = size
	v.clampPage()
}

// PageSize returns the active page size.
func (v *View) PageSize() int { return v.pageSize }

// PageIndex returns the zero-based current page.
func (v *View) PageIndex() int { return v.pageIndex }

// PageCount returns the number of pages in the filtered set, at least 1.
func (v *View) PageCount() int {
	n := len(v.filtered())
	if n == 0 {
		return 1
	}
	return (n + v.pageSize - 1) / v.pageSize
}

// CanNextPage reports whether a later page exists.
func (v *View) CanNextPage() bool { return v.pageIndex < v.PageCount()-1 }

// CanPreviousPage reports whether an earlier page exists.
func (v *View) CanPreviousPage() bool { return v.pageIndex > 0 }

// NextPage advances one page; a no-op at the boundary.
func (v *View) NextPage() {
	if v.CanNextPage() {
		v.pageIndex++
	}
}

// PreviousPage goes back one page; a no-op at the boundary.
func (v *View) PreviousPage() {
	if v.CanPreviousPage() {
		v.pageIndex--
	}
}

// FirstPage jumps to page zero.
func (v *View) FirstPage() { v.pageIndex = 0 }

// LastPage jumps to the final page of the filtered set.
func (v *View) LastPage() { v.pageIndex = v.PageCount() - 1 }

// CountSummary returns the "rows so far" figure and the true filtered
// total. The first value is pageSize*(pageIndex+1) and overstates the
// count on a short final page; this mirrors the summary line users already
// know and is cosmetic only.
func (v *View) CountSummary() (shown, total int) {
	return v.pageSize * (v.pageIndex + 1), len(v.filtered())
}

// FilteredCount returns the number of rows passing the active filter.
func (v *View) FilteredCount() int { return len(v.filtered()) }

// Page returns the rows of the current page after filtering and sorting.
// An empty result means the "No results." state.
func (v *View) Page() []Row {
	rows := v.filtered()
	start := v.pageIndex * v.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + v.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	page := make([]Row, 0, end-start)
	for i, r := range rows[start:end] {
		page = append(page, Row{
			Record:  r.rec,
			Ordinal: start + i + 1,
			Index:   r.index,
		})
	}
	return page
}

// Cell renders one cell of a row under a column definition.
func (v *View) Cell(row Row, col core.ColumnDef) string {
	if col.Ordinal {
		return core.Stringify(row.Ordinal)
	}
	val := row.Record[col.Key]
	if col.Format != nil {
		return col.Format(val)
	}
	return core.Stringify(val)
}

// --- selection ---

// ToggleSelect flips a row's membership in the selection set.
func (v *View) ToggleSelect(row Row) {
	if v.selected[row.Index] {
		delete(v.selected, row.Index)
		return
	}
	v.selected[row.Index] = true
}

// Selected reports whether a row is in the selection set.
func (v *View) Selected(row Row) bool { return v.selected[row.Index] }

// SelectedCount returns the size of the selection set.
func (v *View) SelectedCount() int { return len(v.selected) }

// --- row actions ---

// CanEdit reports whether the edit affordance is enabled.
func (v *View) CanEdit() bool { return v.cfg.Edit && v.cfg.OnEdit != nil }

// InvokeEdit fires the edit hook with the row's full record.
func (v *View) InvokeEdit(row Row) {
	if v.CanEdit() {
		v.cfg.OnEdit(row.Record)
	}
}

// CanToggle reports whether the per-row switch is enabled.
func (v *View) CanToggle() bool {
	return v.cfg.Toggle && v.cfg.OnToggle != nil && v.cfg.ToggleKey != "" && v.cfg.PrimaryKey != ""
}

// ToggleState reads the switch state of a row.
func (v *View) ToggleState(row Row) bool {
	return row.Record.Bool(v.cfg.ToggleKey)
}

// InvokeToggle flips a row's switch, invoking the hook exactly once with
// the row's primary-key value and the new state encoded as 1/0.
func (v *View) InvokeToggle(row Row) {
	if !v.CanToggle() {
		return
	}
	state := 0
	if !v.ToggleState(row) {
		state = 1
	}
	v.cfg.OnToggle(row.Record.String(v.cfg.PrimaryKey), state)
}

// --- internals ---

type indexedRow struct {
	rec   core.Record
	index int
}

// filtered applies the active filter, then the active sort. Filtering
// always happens before sorting and pagination.
func (v *View) filtered() []indexedRow {
	out := make([]indexedRow, 0, len(v.rows))
	for i, rec := range v.rows {
		if v.matches(rec) {
			out = append(out, indexedRow{rec: rec, index: i})
		}
	}

	if v.sortKey != "" && v.sortDir != SortNone {
		key, dir := v.sortKey, v.sortDir
		sort.SliceStable(out, func(i, j int) bool {
			c := core.Compare(out[i].rec[key], out[j].rec[key])
			if dir == SortDesc {
				return c > 0
			}
			return c < 0
		})
	}

	return out
}

func (v *View) matches(rec core.Record) bool {
	needle := strings.ToLower(strings.TrimSpace(v.filterText))
	if needle == "" {
		return true
	}

	// A picked column scopes the match no matter which mode the view
	// started on.
	if v.filterColumn != "" {
		return strings.Contains(strings.ToLower(core.Stringify(rec[v.filterColumn])), needle)
	}
	if v.cfg.Mode == FilterColumn {
		return true
	}

	for _, col := range v.cfg.Columns {
		if col.Ordinal || v.hidden[col.Key] {
			continue
		}
		if strings.Contains(strings.ToLower(core.Stringify(rec[col.Key])), needle) {
			return true
		}
	}
	return false
}

// clampPage keeps the page index inside the filtered set after any
// mutation that can shrink it.
func (v *View) clampPage() {
	if last := v.PageCount() - 1; v.pageIndex > last {
		v.pageIndex = last
	}
	if v.pageIndex < 0 {
		v.pageIndex = 0
	}
}

func (v *View) column(key string) (core.ColumnDef, bool) {
	for _, col := range v.cfg.Columns {
		if col.Key == key {
			return col, true
		}
	}
	return core.ColumnDef{}, false
}
