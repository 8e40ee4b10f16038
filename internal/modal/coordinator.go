// Package modal holds the single source of truth for which editing dialog
// is visible and with what data. Openers (table rows, toolbar buttons) and
// consumers (entity forms, the import dialog) are decoupled through one
// Coordinator instance passed by reference, not a package global, so tests
// can inject their own.
package modal

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sheetdesk/sheetdesk/internal/core"
)

// Session is the process-wide modal state. At most one modal is open at a
// time; Payload is non-nil only in update mode.
type Session struct {
	Open    bool
	Kind    core.ModalKind
	Mode    core.WorkflowMode
	Payload core.Record
	Sheet   core.SheetKind
}

// RefreshToken is the change signal list stores watch to know when to
// re-fetch. Seq increases monotonically; Nonce changes with every bump.
type RefreshToken struct {
	Seq   uint64
	Nonce string
}

// Coordinator owns the modal session and the refresh token.
type Coordinator struct {
	mu        sync.Mutex
	session   Session
	refresh   RefreshToken
	consumers map[core.ModalKind]string

	nextID           int
	sessionListeners map[int]func(Session)
	refreshListeners map[int]func(RefreshToken)
}

// NewCoordinator returns a coordinator in the closed/create state.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		session:          Session{Mode: core.WorkflowCreate, Sheet: core.SheetNull},
		consumers:        make(map[core.ModalKind]string),
		sessionListeners: make(map[int]func(Session)),
		refreshListeners: make(map[int]func(RefreshToken)),
	}
}

// OpenOption customizes an Open call.
type OpenOption func(*Session)

// WithSheet ties the modal to a bulk-import sheet kind.
func WithSheet(sheet core.SheetKind) OpenOption {
	return func(s *Session) { s.Sheet = sheet }
}

// WithUpdate opens the modal in update mode prefilled from an existing
// record.
func WithUpdate(payload core.Record) OpenOption {
	return func(s *Session) {
		s.Mode = core.WorkflowUpdate
		s.Payload = payload
	}
}

// Open makes the given modal the active one. Defaults: create mode, nil
// payload, null sheet. A call while another modal is open overwrites it —
// last writer wins, there is no queue.
func (c *Coordinator) Open(kind core.ModalKind, opts ...OpenOption) {
	c.mu.Lock()
	next := Session{
		Open:  true,
		Kind:  kind,
		Mode:  core.WorkflowCreate,
		Sheet: core.SheetNull,
	}
	for _, opt := range opts {
		opt(&next)
	}
	if next.Mode != core.WorkflowUpdate {
		// Invariant: payload only travels with update mode.
		next.Payload = nil
	}
	c.session = next
	listeners := c.snapshotSessionListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Close resets the session to the closed state and clears the payload.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.session = Session{Mode: core.WorkflowCreate, Sheet: core.SheetNull}
	next := c.session
	listeners := c.snapshotSessionListeners()
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// Session returns a copy of the current session.
func (c *Coordinator) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// IsActive reports whether the given modal kind is the open one. Forms use
// this to compute their own visibility.
func (c *Coordinator) IsActive(kind core.ModalKind) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Open && c.session.Kind == kind
}

// BumpRefresh advances the refresh token. Form submissions bump exactly
// once on success and never on failure; the bulk upload dialog bumps after
// every attempt because partial server-side writes may precede a failing
// row.
func (c *Coordinator) BumpRefresh() {
	c.mu.Lock()
	c.refresh = RefreshToken{Seq: c.refresh.Seq + 1, Nonce: uuid.NewString()}
	token := c.refresh
	listeners := make([]func(RefreshToken), 0, len(c.refreshListeners))
	for _, fn := range c.refreshListeners {
		listeners = append(listeners, fn)
	}
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(token)
	}
}

// Refresh returns the current refresh token.
func (c *Coordinator) Refresh() RefreshToken {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refresh
}

// RegisterConsumer records that a form claims a modal kind. At most one
// consumer per kind may exist; a duplicate registration is a programming
// error and is rejected rather than silently tolerated.
func (c *Coordinator) RegisterConsumer(kind core.ModalKind, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, exists := c.consumers[kind]; exists {
		return fmt.Errorf("modal %s already consumed by %s", kind, prev)
	}
	c.consumers[kind] = name
	return nil
}

// OnSession registers a listener for session changes; the returned func
// unsubscribes.
func (c *Coordinator) OnSession(fn func(Session)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.sessionListeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.sessionListeners, id)
	}
}

// OnRefresh registers a listener for refresh-token bumps; the returned
// func unsubscribes.
func (c *Coordinator) OnRefresh(fn func(RefreshToken)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	c.refreshListeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.refreshListeners, id)
	}
}

func (c *Coordinator) snapshotSessionListeners() []func(Session) {
	listeners := make([]func(Session), 0, len(c.sessionListeners))
	for _, fn := range c.sessionListeners {
		listeners = append(listeners, fn)
	}
	return listeners
}
