// Package tui is the terminal frontend: one tab per entity, each backed by
// a table view over a refresh-driven list store, plus the entity form and
// sheet upload dialogs coordinated through the shared modal session.
package tui

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/bulkimport"
	"github.com/sheetdesk/sheetdesk/internal/config"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/form"
	"github.com/sheetdesk/sheetdesk/internal/liststore"
	"github.com/sheetdesk/sheetdesk/internal/modal"
	"github.com/sheetdesk/sheetdesk/internal/notify"
	"github.com/sheetdesk/sheetdesk/internal/table"
)

const requestTimeout = 30 * time.Second

// stateChangedMsg signals that a store, the notifier, or the refresh token
// changed outside the update loop.
type stateChangedMsg struct{}

// sessionChangedMsg carries the new modal session.
type sessionChangedMsg struct {
	session modal.Session
}

type submitDoneMsg struct{ err error }

type uploadDoneMsg struct{ err error }

// sender delivers engine callbacks into the running program. Callbacks can
// fire before the program exists (initial fetches), so delivery is guarded.
type sender struct {
	mu sync.Mutex
	p  *tea.Program
}

func (s *sender) bind(p *tea.Program) {
	s.mu.Lock()
	s.p = p
	s.mu.Unlock()
}

func (s *sender) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.p
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Model is the bubbletea model for the whole console.
type Model struct {
	client  *api.Client
	coord   *modal.Coordinator
	notices *notify.Buffer
	upload  *bulkimport.Session

	defs   []core.EntityDefinition
	active int
	views  map[core.EntityKind]*table.View
	stores map[core.EntityKind]*liststore.Store
	forms  map[core.ModalKind]*form.Form

	rowCursor int
	colCursor int

	filterInput textinput.Model
	filtering   bool
	picking     bool
	pickCursor  int

	formInputs []textinput.Model
	formFocus  int

	uploadInput textinput.Model

	keys      keyMap
	help      help.Model
	status    notify.Notification
	hasStatus bool

	width  int
	height int
}

// Run builds the full engine stack around the client and drives the
// terminal program until quit.
func Run(cfg *config.Config, client *api.Client) error {
	out := &sender{}
	coord := modal.NewCoordinator()
	notices := notify.NewBuffer(func() { out.send(stateChangedMsg{}) })

	m, err := NewModel(cfg, client, coord, notices, out)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	out.bind(p)
	defer func() {
		for _, store := range m.stores {
			store.Close()
		}
	}()

	_, err = p.Run()
	return err
}

// NewModel wires forms, stores, and table views for every registered
// entity.
func NewModel(cfg *config.Config, client *api.Client, coord *modal.Coordinator, notices *notify.Buffer, out *sender) (Model, error) {
	defs := core.All()
	if len(defs) == 0 {
		return Model{}, fmt.Errorf("no entities registered")
	}

	m := Model{
		client:  client,
		coord:   coord,
		notices: notices,
		defs:    defs,
		views:   make(map[core.EntityKind]*table.View, len(defs)),
		stores:  make(map[core.EntityKind]*liststore.Store, len(defs)),
		forms:   make(map[core.ModalKind]*form.Form, len(defs)),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}

	upload, err := bulkimport.NewSession(coord, client, notices)
	if err != nil {
		return Model{}, err
	}
	m.upload = upload

	for _, def := range defs {
		def := def

		frm, err := form.New(def, coord, client, notices)
		if err != nil {
			return Model{}, err
		}
		m.forms[def.Modal] = frm

		view := table.New(table.Config{
			Columns:    def.Columns,
			PageSize:   cfg.Table.PageSize,
			Edit:       true,
			PrimaryKey: def.PrimaryKey,
			Toggle:     def.ToggleField != "",
			ToggleKey:  def.ToggleField,
			OnEdit: func(rec core.Record) {
				coord.Open(def.Modal, modal.WithUpdate(rec))
			},
			OnToggle: func(rowKey string, state int) {
				go func() {
					ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
					defer cancel()
					if err := client.SetEnabled(ctx, def.Kind, rowKey, state); err != nil {
						notices.Error(fmt.Sprintf("Error while updating %s", def.Label))
						return
					}
					notices.Success(fmt.Sprintf("%s updated successfully", def.Label))
					coord.BumpRefresh()
				}()
			},
		})
		m.views[def.Kind] = view

		store := liststore.New(func(ctx context.Context) ([]core.Record, error) {
			return client.List(ctx, def.Kind)
		}, coord, func() { out.send(stateChangedMsg{}) })
		m.stores[def.Kind] = store
		store.Refetch()
	}

	coord.OnSession(func(s modal.Session) {
		out.send(sessionChangedMsg{session: s})
	})

	filter := textinput.New()
	filter.Placeholder = "type to filter"
	filter.CharLimit = 128
	m.filterInput = filter

	path := textinput.New()
	path.Placeholder = "path to .xls/.xlsx sheet"
	path.CharLimit = 512
	m.uploadInput = path

	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.syncStores()
		if n, ok := m.notices.Latest(); ok {
			m.status = n
			m.hasStatus = true
		}
		m.notices.Drain()
		m.clampCursors()
		return m, nil

	case sessionChangedMsg:
		return m.onSession(msg.session), nil

	case submitDoneMsg, uploadDoneMsg:
		// Outcome already surfaced through the notifier and session.
		return m, nil

	case tea.KeyMsg:
		return m.onKey(msg)
	}
	return m, nil
}

func (m Model) onKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case m.formOpen():
		return m.updateForm(msg)
	case m.upload.Visible():
		return m.updateUpload(msg)
	case m.filtering:
		return m.updateFilter(msg)
	case m.picking:
		return m.updatePicker(msg)
	}
	return m.updateTable(msg)
}

// --- table mode ---

func (m Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.activeView()
	def := m.activeDef()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NextEntity):
		m.active = (m.active + 1) % len(m.defs)
		m.rowCursor, m.colCursor = 0, 0

	case key.Matches(msg, m.keys.PrevEntity):
		m.active = (m.active - 1 + len(m.defs)) % len(m.defs)
		m.rowCursor, m.colCursor = 0, 0

	case key.Matches(msg, m.keys.CursorDown):
		if m.rowCursor < len(view.Page())-1 {
			m.rowCursor++
		}

	case key.Matches(msg, m.keys.CursorUp):
		if m.rowCursor > 0 {
			m.rowCursor--
		}

	case key.Matches(msg, m.keys.NextCol):
		if m.colCursor < len(view.VisibleColumns())-1 {
			m.colCursor++
		}

	case key.Matches(msg, m.keys.PrevCol):
		if m.colCursor > 0 {
			m.colCursor--
		}

	case key.Matches(msg, m.keys.Sort):
		if col, ok := m.cursorColumn(); ok {
			view.CycleSort(col.Key)
		}

	case key.Matches(msg, m.keys.HideCol):
		if col, ok := m.cursorColumn(); ok {
			view.ToggleColumn(col.Key)
			m.clampCursors()
		}

	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		// Plain filtering is global; drop any column pick first.
		view.ClearFilterColumn()
		text, _ := view.Filter()
		m.filterInput.SetValue(text)
		m.filterInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PickCol):
		m.picking = true
		m.pickCursor = 0

	case key.Matches(msg, m.keys.NextPage):
		view.NextPage()
		m.rowCursor = 0

	case key.Matches(msg, m.keys.PrevPage):
		view.PreviousPage()
		m.rowCursor = 0

	case key.Matches(msg, m.keys.FirstPage):
		view.FirstPage()
		m.rowCursor = 0

	case key.Matches(msg, m.keys.LastPage):
		view.LastPage()
		m.rowCursor = 0

	case key.Matches(msg, m.keys.PageSize):
		view.SetPageSize(nextPageSize(view.PageSize()))
		m.rowCursor = 0

	case key.Matches(msg, m.keys.Select):
		if row, ok := m.cursorRow(); ok {
			view.ToggleSelect(row)
		}

	case key.Matches(msg, m.keys.Add):
		m.coord.Open(def.Modal)

	case key.Matches(msg, m.keys.Edit):
		if row, ok := m.cursorRow(); ok {
			view.InvokeEdit(row)
		}

	case key.Matches(msg, m.keys.Toggle):
		if row, ok := m.cursorRow(); ok {
			view.InvokeToggle(row)
		}

	case key.Matches(msg, m.keys.Upload):
		m.coord.Open(core.ModalUploadSheet, modal.WithSheet(def.Sheet))

	case key.Matches(msg, m.keys.Refresh):
		m.coord.BumpRefresh()
	}

	return m, nil
}

// --- filter mode ---

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.activeView()

	switch msg.String() {
	case "esc", "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if _, picked := view.Filter(); picked != "" {
		view.SetColumnFilter(m.filterInput.Value())
	} else {
		view.SetGlobalFilter(m.filterInput.Value())
	}
	m.rowCursor = 0
	return m, cmd
}

// --- column picker mode ---

func (m Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	view := m.activeView()
	options := view.FilterableColumns()

	switch msg.String() {
	case "esc":
		m.picking = false
	case "up", "k":
		if m.pickCursor > 0 {
			m.pickCursor--
		}
	case "down", "j":
		if m.pickCursor < len(options)-1 {
			m.pickCursor++
		}
	case "enter":
		if m.pickCursor < len(options) {
			view.PickFilterColumn(options[m.pickCursor].Key)
			m.picking = false
			m.filtering = true
			m.filterInput.SetValue("")
			m.filterInput.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

// --- form mode ---

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	frm := m.activeForm()
	if frm == nil {
		return m, nil
	}
	fields := frm.Definition().Fields

	switch msg.String() {
	case "esc":
		m.coord.Close()
		return m, nil

	case "tab", "down":
		// Inputs are built when the queued session message lands; a key
		// racing ahead of it finds none.
		if len(m.formInputs) == 0 {
			return m, nil
		}
		m.formFocus = (m.formFocus + 1) % len(m.formInputs)
		m.focusFormInput()
		return m, textinput.Blink

	case "shift+tab", "up":
		if len(m.formInputs) == 0 {
			return m, nil
		}
		m.formFocus = (m.formFocus - 1 + len(m.formInputs)) % len(m.formInputs)
		m.focusFormInput()
		return m, textinput.Blink

	case "enter":
		if !frm.CanSubmit() {
			return m, nil
		}
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return submitDoneMsg{err: frm.Submit(ctx)}
		}
	}

	if m.formFocus >= len(m.formInputs) {
		return m, nil
	}
	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	frm.SetValue(fields[m.formFocus].Key, m.formInputs[m.formFocus].Value())
	return m, cmd
}

// --- upload mode ---

func (m Model) updateUpload(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.upload.Close()
		return m, nil

	case "ctrl+x":
		m.upload.ClearFile()
		m.uploadInput.SetValue("")
		return m, textinput.Blink

	case "enter":
		path := strings.TrimSpace(m.uploadInput.Value())
		if path == "" {
			return m, nil
		}
		m.upload.SetFile(sheetFile(path))
		if !m.upload.CanUpload() {
			return m, nil
		}
		up := m.upload
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
			defer cancel()
			return uploadDoneMsg{err: up.Upload(ctx)}
		}
	}

	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

// --- session plumbing ---

func (m Model) onSession(s modal.Session) Model {
	if !s.Open {
		m.formInputs = nil
		m.formFocus = 0
		return m
	}

	if s.Kind == core.ModalUploadSheet {
		m.uploadInput.SetValue("")
		m.uploadInput.Focus()
		return m
	}

	frm, ok := m.forms[s.Kind]
	if !ok {
		return m
	}
	frm.Bind()

	fields := frm.Definition().Fields
	m.formInputs = make([]textinput.Model, len(fields))
	for i, spec := range fields {
		in := textinput.New()
		in.Placeholder = spec.Label
		in.CharLimit = 256
		in.SetValue(frm.Value(spec.Key))
		m.formInputs[i] = in
	}
	m.formFocus = 0
	m.focusFormInput()
	return m
}

func (m *Model) focusFormInput() {
	for i := range m.formInputs {
		if i == m.formFocus {
			m.formInputs[i].Focus()
		} else {
			m.formInputs[i].Blur()
		}
	}
}

// --- helpers ---

func (m *Model) syncStores() {
	for _, def := range m.defs {
		m.views[def.Kind].SetRows(m.stores[def.Kind].Rows())
	}
}

func (m *Model) clampCursors() {
	view := m.activeView()
	if n := len(view.Page()); m.rowCursor >= n {
		m.rowCursor = n - 1
	}
	if m.rowCursor < 0 {
		m.rowCursor = 0
	}
	if n := len(view.VisibleColumns()); m.colCursor >= n {
		m.colCursor = n - 1
	}
	if m.colCursor < 0 {
		m.colCursor = 0
	}
}

func (m Model) activeDef() core.EntityDefinition { return m.defs[m.active] }

func (m Model) activeView() *table.View { return m.views[m.defs[m.active].Kind] }

// activeForm returns the form owning the open modal, nil when the open
// modal is not a form.
func (m Model) activeForm() *form.Form {
	s := m.coord.Session()
	if !s.Open {
		return nil
	}
	return m.forms[s.Kind]
}

func (m Model) formOpen() bool {
	s := m.coord.Session()
	if !s.Open || s.Kind == core.ModalUploadSheet {
		return false
	}
	_, ok := m.forms[s.Kind]
	return ok
}

func (m Model) cursorRow() (table.Row, bool) {
	page := m.activeView().Page()
	if m.rowCursor < 0 || m.rowCursor >= len(page) {
		return table.Row{}, false
	}
	return page[m.rowCursor], true
}

func (m Model) cursorColumn() (core.ColumnDef, bool) {
	cols := m.activeView().VisibleColumns()
	if m.colCursor < 0 || m.colCursor >= len(cols) {
		return core.ColumnDef{}, false
	}
	return cols[m.colCursor], true
}

// nextPageSize cycles through the fixed page size options.
func nextPageSize(current int) int {
	for i, size := range table.PageSizeOptions {
		if size == current {
			return table.PageSizeOptions[(i+1)%len(table.PageSizeOptions)]
		}
	}
	return table.DefaultPageSize
}

// sheetFile builds the upload descriptor for a local path, resolving the
// spreadsheet MIME type from the extension.
func sheetFile(path string) bulkimport.File {
	return bulkimport.File{
		Name: filepath.Base(path),
		MIME: SheetMIME(path),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}
}

// SheetMIME maps a file path to the MIME type the backend expects for it.
func SheetMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return mime.TypeByExtension(ext)
}
