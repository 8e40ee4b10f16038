package table

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheetdesk/sheetdesk/internal/core"
)

func testColumns() []core.ColumnDef {
	return []core.ColumnDef{
		{Key: "id", Header: "ID", Ordinal: true},
		{Key: "name", Header: "Name", Sortable: true, Hideable: true},
		{Key: "qty", Header: "Qty", Sortable: true, Hideable: true},
		{Key: "when", Header: "When", Format: core.FormatDate, Sortable: true, Hideable: true},
	}
}

func testRows(n int) []core.Record {
	rows := make([]core.Record, n)
	for i := 0; i < n; i++ {
		rows[i] = core.Record{
			"pklId": fmt.Sprintf("id-%d", i),
			"name":  fmt.Sprintf("row-%c", 'a'+i),
			"qty":   float64(n - i),
			"when":  fmt.Sprintf("2024-03-%02d", i+1),
		}
	}
	return rows
}

func names(page []Row) []string {
	out := make([]string, len(page))
	for i, r := range page {
		out[i] = r.Record.String("name")
	}
	return out
}

func TestSortCycleRestoresOriginalOrder(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(3))
	original := names(v.Page())

	v.CycleSort("qty")
	key, dir := v.Sort()
	assert.Equal(t, "qty", key)
	assert.Equal(t, SortAsc, dir)
	assert.Equal(t, []string{"row-c", "row-b", "row-a"}, names(v.Page()))

	v.CycleSort("qty")
	_, dir = v.Sort()
	assert.Equal(t, SortDesc, dir)
	assert.Equal(t, []string{"row-a", "row-b", "row-c"}, names(v.Page()))

	v.CycleSort("qty")
	key, dir = v.Sort()
	assert.Equal(t, "", key)
	assert.Equal(t, SortNone, dir)
	assert.Equal(t, original, names(v.Page()))
}

func TestSortSwitchingColumnStartsFresh(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(3))

	v.CycleSort("qty")
	v.CycleSort("qty") // qty desc
	v.CycleSort("name")

	key, dir := v.Sort()
	assert.Equal(t, "name", key)
	assert.Equal(t, SortAsc, dir, "a different column restarts at ascending")
}

func TestSortIgnoresUnsortableColumn(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(3))

	v.CycleSort("id")
	key, dir := v.Sort()
	assert.Equal(t, "", key)
	assert.Equal(t, SortNone, dir)
}

func TestPaginationWalkthrough(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 5})
	v.SetRows(testRows(7))

	require.Equal(t, 2, v.PageCount())
	assert.Len(t, v.Page(), 5)
	assert.True(t, v.CanNextPage())
	assert.False(t, v.CanPreviousPage())

	v.NextPage()
	assert.Len(t, v.Page(), 2)
	assert.Equal(t, 6, v.Page()[0].Ordinal)
	assert.False(t, v.CanNextPage())
	assert.True(t, v.CanPreviousPage())

	// Boundary no-op
	v.NextPage()
	assert.Equal(t, 1, v.PageIndex())

	v.PreviousPage()
	assert.Equal(t, 0, v.PageIndex())
	v.PreviousPage()
	assert.Equal(t, 0, v.PageIndex())
}

func TestCountSummaryOverstatesShortLastPage(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 5})
	v.SetRows(testRows(7))

	v.NextPage()
	shown, total := v.CountSummary()
	assert.Equal(t, 10, shown, "summary reports pageSize*(pageIndex+1) even on a short page")
	assert.Equal(t, 7, total)
}

func TestFilterShrinkClampsPage(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 5})
	v.SetRows(testRows(12))
	v.LastPage()
	require.Equal(t, 2, v.PageIndex())

	v.SetGlobalFilter("row-a")
	assert.Equal(t, 1, v.FilteredCount())
	assert.Equal(t, 0, v.PageIndex(), "page index must clamp into the filtered set")
	assert.Len(t, v.Page(), 1)
}

func TestGlobalFilterSkipsHiddenColumns(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(3))

	assert.Equal(t, 3, v.FilteredCount())
	v.SetGlobalFilter("row-b")
	assert.Equal(t, 1, v.FilteredCount())

	v.ToggleColumn("name")
	assert.Equal(t, 0, v.FilteredCount(), "hidden columns leave the global filter scope")

	v.ToggleColumn("name")
	assert.Equal(t, 1, v.FilteredCount())
}

func TestColumnFilterPickerResetsText(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50, Mode: FilterColumn})
	v.SetRows(testRows(3))

	v.PickFilterColumn("name")
	v.SetColumnFilter("row-a")
	assert.Equal(t, 1, v.FilteredCount())

	// Re-picking the same column keeps the text.
	v.PickFilterColumn("name")
	text, col := v.Filter()
	assert.Equal(t, "row-a", text)
	assert.Equal(t, "name", col)

	// Picking a different column clears it.
	v.PickFilterColumn("qty")
	text, col = v.Filter()
	assert.Equal(t, "", text)
	assert.Equal(t, "qty", col)
	assert.Equal(t, 3, v.FilteredCount())
}

func TestPickedColumnScopesDefaultModeView(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows([]core.Record{
		{"name": "alpha", "qty": "match"},
		{"name": "match", "qty": "beta"},
	})

	v.PickFilterColumn("qty")
	v.SetColumnFilter("match")
	page := v.Page()
	require.Len(t, page, 1, "a picked column scopes the match even on a global-mode view")
	assert.Equal(t, "alpha", page[0].Record.String("name"))

	v.ClearFilterColumn()
	text, col := v.Filter()
	assert.Equal(t, "", text)
	assert.Equal(t, "", col)
	assert.Equal(t, 2, v.FilteredCount())

	v.SetGlobalFilter("match")
	assert.Equal(t, 2, v.FilteredCount(), "after the clear the filter scans every visible column again")
}

func TestColumnFilterMatchesOnlyPickedColumn(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50, Mode: FilterColumn})
	v.SetRows([]core.Record{
		{"name": "alpha", "qty": "match"},
		{"name": "match", "qty": "beta"},
	})

	v.PickFilterColumn("qty")
	v.SetColumnFilter("match")
	page := v.Page()
	require.Len(t, page, 1)
	assert.Equal(t, "alpha", page[0].Record.String("name"))
}

func TestToggleColumnOnlyWhenHideable(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})

	v.ToggleColumn("id")
	assert.True(t, v.ColumnVisible("id"), "ordinal column is not hideable")

	v.ToggleColumn("name")
	assert.False(t, v.ColumnVisible("name"))
	assert.Len(t, v.VisibleColumns(), 3)
}

func TestSetRowsClearsSelection(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(3))

	v.ToggleSelect(v.Page()[0])
	require.Equal(t, 1, v.SelectedCount())

	v.SetRows(testRows(3))
	assert.Equal(t, 0, v.SelectedCount())
}

func TestPageSizeChangeClampsPage(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 5})
	v.SetRows(testRows(7))
	v.LastPage()

	v.SetPageSize(50)
	assert.Equal(t, 0, v.PageIndex())
	assert.Len(t, v.Page(), 7)
}

func TestInvokeEditPassesFullRecord(t *testing.T) {
	var got core.Record
	v := New(Config{
		Columns: testColumns(),
		Edit:    true,
		OnEdit:  func(rec core.Record) { got = rec },
	})
	v.SetRows(testRows(2))

	v.InvokeEdit(v.Page()[1])
	require.NotNil(t, got)
	assert.Equal(t, "row-b", got.String("name"))
}

func TestInvokeTogglePassesKeyAndNewState(t *testing.T) {
	var (
		calls  int
		gotKey string
		gotSt  int
	)
	v := New(Config{
		Columns:    testColumns(),
		Toggle:     true,
		ToggleKey:  "bEnable",
		PrimaryKey: "pklId",
		OnToggle: func(rowKey string, state int) {
			calls++
			gotKey, gotSt = rowKey, state
		},
	})
	v.SetRows([]core.Record{
		{"pklId": "42", "name": "on-row", "bEnable": float64(1)},
	})

	v.InvokeToggle(v.Page()[0])
	require.Equal(t, 1, calls, "toggle hook fires exactly once")
	assert.Equal(t, "42", gotKey)
	assert.Equal(t, 0, gotSt, "enabled row toggles to 0")
}

func TestCellRendering(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 50})
	v.SetRows(testRows(1))
	row := v.Page()[0]

	assert.Equal(t, "1", v.Cell(row, testColumns()[0]), "ordinal column shows position")
	assert.Equal(t, "1/03/2024", v.Cell(row, testColumns()[3]), "date column uses the display format")
}

func TestEmptyFilterResult(t *testing.T) {
	v := New(Config{Columns: testColumns(), PageSize: 5})
	v.SetRows(testRows(3))

	v.SetGlobalFilter("nothing matches this")
	assert.Empty(t, v.Page(), "empty page means the No results state")
	assert.Equal(t, 1, v.PageCount())
}
