// Package form is the generic, schema-driven entity form: one binder
// parameterized by an entity's field descriptors replaces the pile of
// near-identical per-entity dialogs. A form binds to the modal
// coordinator's session, prefills from the session payload in update mode,
// tracks dirtiness, and submits create or update requests.
package form

import (
	"context"
	"fmt"
	"time"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/modal"
	"github.com/sheetdesk/sheetdesk/internal/notify"
)

// DefaultRefreshDelay is how long after a successful submit the refresh
// token is bumped. The delay lets the closing animation finish before the
// list re-fetches; it is a UX nicety, not a correctness requirement.
const DefaultRefreshDelay = 500 * time.Millisecond

// Submitter is the slice of the API client a form needs.
type Submitter interface {
	Create(ctx context.Context, entity core.EntityKind, fields map[string]string) error
	Update(ctx context.Context, entity core.EntityKind, id string, fields map[string]string) error
}

// Form binds one entity's dialog to the modal session.
type Form struct {
	def    core.EntityDefinition
	coord  *modal.Coordinator
	client Submitter
	notify notify.Notifier

	mode       core.WorkflowMode
	recordID   string
	values     map[string]string
	initial    map[string]string
	submitting bool

	refreshDelay time.Duration
	// after schedules the delayed refresh bump; replaceable in tests.
	after func(time.Duration, func())
}

// Option customizes a Form.
type Option func(*Form)

// WithRefreshDelay overrides the post-submit refresh delay.
func WithRefreshDelay(d time.Duration) Option {
	return func(f *Form) { f.refreshDelay = d }
}

// WithScheduler replaces the timer used for the delayed refresh bump.
func WithScheduler(after func(time.Duration, func())) Option {
	return func(f *Form) { f.after = after }
}

// New creates the form for an entity and claims its modal kind on the
// coordinator. A second form for the same modal is rejected.
func New(def core.EntityDefinition, coord *modal.Coordinator, client Submitter, notifier notify.Notifier, opts ...Option) (*Form, error) {
	if err := coord.RegisterConsumer(def.Modal, string(def.Kind)+" form"); err != nil {
		return nil, err
	}
	f := &Form{
		def:          def,
		coord:        coord,
		client:       client,
		notify:       notifier,
		mode:         core.WorkflowCreate,
		values:       make(map[string]string),
		initial:      make(map[string]string),
		refreshDelay: DefaultRefreshDelay,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	f.reset()
	return f, nil
}

// Definition returns the entity definition the form edits.
func (f *Form) Definition() core.EntityDefinition { return f.def }

// Visible reports whether this form's modal is the open one.
func (f *Form) Visible() bool { return f.coord.IsActive(f.def.Modal) }

// Bind reads the current modal session into the form. In update mode with
// a payload carrying the identifying key, every field is populated from
// the payload, missing sub-fields defaulting to the empty string and date
// fields normalized to the canonical display format. Any other session
// resets the form to its empty create-mode defaults.
func (f *Form) Bind() {
	session := f.coord.Session()
	if session.Mode == core.WorkflowUpdate && session.Payload != nil && session.Payload.Has(f.def.PrimaryKey) {
		f.populate(session.Payload)
		return
	}
	f.reset()
}

// SetValue records a field edit. Unknown keys are ignored.
func (f *Form) SetValue(key, value string) {
	if _, ok := f.values[key]; !ok {
		return
	}
	f.values[key] = value
}

// Value returns a field's current value.
func (f *Form) Value(key string) string { return f.values[key] }

// Values returns a copy of all current field values keyed by submit key.
func (f *Form) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Mode reports whether the bound session creates or updates.
func (f *Form) Mode() core.WorkflowMode { return f.mode }

// Dirty reports whether any field differs from its initial value.
func (f *Form) Dirty() bool {
	for k, v := range f.values {
		if f.initial[k] != v {
			return true
		}
	}
	return false
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool { return f.submitting }

// CanSubmit reports whether the submit action is enabled: never while a
// submission is in flight, and never for a no-op (clean) form.
func (f *Form) CanSubmit() bool { return !f.submitting && f.Dirty() }

// Submit dispatches the create or update request. On success it notifies,
// closes the modal, and bumps the refresh token after the configured
// delay. On failure the form stays open and populated so the user can
// retry; the refresh token is not touched.
func (f *Form) Submit(ctx context.Context) error {
	if !f.CanSubmit() {
		return nil
	}
	f.submitting = true
	defer func() { f.submitting = false }()

	var err error
	if f.mode == core.WorkflowUpdate {
		err = f.client.Update(ctx, f.def.Kind, f.recordID, f.Values())
	} else {
		err = f.client.Create(ctx, f.def.Kind, f.Values())
	}

	if err != nil {
		if apiErr := api.AsError(err); apiErr != nil && apiErr.Message != "" {
			f.notify.Error(fmt.Sprintf("Error while submitting %s form: %s", f.def.Label, apiErr.Message))
		} else {
			f.notify.Error(fmt.Sprintf("Error in submitting %s form", f.def.Label))
		}
		return err
	}

	if f.mode == core.WorkflowUpdate {
		f.notify.Success(fmt.Sprintf("%s updated successfully", f.def.Label))
	} else {
		f.notify.Success(fmt.Sprintf("%s form submitted successfully", f.def.Label))
	}

	f.coord.Close()
	f.reset()
	f.after(f.refreshDelay, f.coord.BumpRefresh)
	return nil
}

func (f *Form) populate(payload core.Record) {
	f.mode = core.WorkflowUpdate
	f.recordID = payload.String(f.def.PrimaryKey)
	f.values = make(map[string]string, len(f.def.Fields))
	for _, spec := range f.def.Fields {
		val := payload.String(spec.RecordKey())
		if spec.Kind == core.FieldDate && val != "" {
			val = core.FormatDate(payload[spec.RecordKey()])
		}
		f.values[spec.Key] = val
	}
	f.snapshot()
}

func (f *Form) reset() {
	f.mode = core.WorkflowCreate
	f.recordID = ""
	f.values = make(map[string]string, len(f.def.Fields))
	for _, spec := range f.def.Fields {
		f.values[spec.Key] = ""
	}
	f.snapshot()
}

func (f *Form) snapshot() {
	f.initial = make(map[string]string, len(f.values))
	for k, v := range f.values {
		f.initial[k] = v
	}
}
