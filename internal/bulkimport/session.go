// Package bulkimport is the spreadsheet upload pipeline: pick one file,
// ship it to the per-sheet bulk endpoint, and surface either success or
// the server's row-level validation errors. Parsing and validation happen
// server-side; the client only uploads and renders what comes back.
package bulkimport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sheetdesk/sheetdesk/internal/api"
	"github.com/sheetdesk/sheetdesk/internal/core"
	"github.com/sheetdesk/sheetdesk/internal/modal"
	"github.com/sheetdesk/sheetdesk/internal/notify"
)

// ErrFileType marks a client-side rejection: the selected file's MIME type
// is outside the allow-list. No network call is made.
var ErrFileType = errors.New("file type not allowed")

// allowedTypes is the spreadsheet MIME allow-list: the legacy Excel type
// and the OOXML sheet type.
var allowedTypes = map[string]bool{
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// State is the phase of one upload attempt.
type State int

const (
	Idle State = iota
	FileSelected
	Uploading
	ErrorsShown
)

// File is the selected spreadsheet. Open is called once per upload
// attempt so a retry re-reads the (possibly fixed) source.
type File struct {
	Name string
	MIME string
	Open func() (io.ReadCloser, error)
}

// Uploader is the slice of the API client the pipeline needs.
type Uploader interface {
	BulkUpload(ctx context.Context, sheet core.SheetKind, filename string, file io.Reader) error
}

// Session is the transient state of one upload dialog.
type Session struct {
	coord  *modal.Coordinator
	client Uploader
	notify notify.Notifier

	file      *File
	uploading bool
	errors    []string

	refreshDelay time.Duration
	after        func(time.Duration, func())
}

// Option customizes a Session.
type Option func(*Session)

// WithRefreshDelay overrides the post-upload refresh delay.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Session) { s.refreshDelay = d }
}

// WithScheduler replaces the timer used for the delayed refresh bump.
func WithScheduler(after func(time.Duration, func())) Option {
	return func(s *Session) { s.after = after }
}

// NewSession creates the upload session and claims the upload modal.
func NewSession(coord *modal.Coordinator, client Uploader, notifier notify.Notifier, opts ...Option) (*Session, error) {
	if err := coord.RegisterConsumer(core.ModalUploadSheet, "bulk import"); err != nil {
		return nil, err
	}
	s := &Session{
		coord:        coord,
		client:       client,
		notify:       notifier,
		refreshDelay: 500 * time.Millisecond,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Visible reports whether the upload dialog is the open modal.
func (s *Session) Visible() bool { return s.coord.IsActive(core.ModalUploadSheet) }

// State derives the current phase of the dialog.
func (s *Session) State() State {
	switch {
	case s.uploading:
		return Uploading
	case s.file == nil:
		return Idle
	case len(s.errors) > 0:
		return ErrorsShown
	default:
		return FileSelected
	}
}

// SetFile selects a file, replacing any prior one and clearing any prior
// error list.
func (s *Session) SetFile(f File) {
	s.file = &f
	s.errors = nil
}

// ClearFile returns the dialog to the idle state from anywhere.
func (s *Session) ClearFile() {
	s.file = nil
	s.errors = nil
}

// File returns the selected file, nil when idle.
func (s *Session) File() *File { return s.file }

// Errors returns the row-level error strings of the last rejected upload.
func (s *Session) Errors() []string { return s.errors }

// CanUpload reports whether the confirm action is enabled.
func (s *Session) CanUpload() bool { return s.file != nil && !s.uploading }

// ButtonLabel is the confirm action's caption for the current state.
func (s *Session) ButtonLabel() string {
	switch {
	case s.file == nil:
		return "Please select a file to upload"
	case s.uploading:
		return "Uploading"
	default:
		return "Upload"
	}
}

// Close resets the session and closes the dialog.
func (s *Session) Close() {
	s.ClearFile()
	s.coord.Close()
}

// Upload ships the selected file to the bulk endpoint for the session's
// sheet kind. Files outside the MIME allow-list are rejected before any
// network call. On success the dialog closes and resets; on a structured
// failure the row errors are retained and the file stays selected so the
// user can fix the source and retry.
//
// The refresh token is bumped after every attempted upload, success or
// failure, mirroring the long-standing behavior of the upload dialog:
// rows written before the failing one are already on the server and the
// table should show them.
func (s *Session) Upload(ctx context.Context) error {
	if s.file == nil {
		return nil
	}

	if !allowedTypes[s.file.MIME] {
		s.notify.Error(fmt.Sprintf("File type: %s not allowed", s.file.MIME))
		return ErrFileType
	}

	sheet := s.coord.Session().Sheet

	s.uploading = true
	defer func() {
		s.uploading = false
		s.after(s.refreshDelay, s.coord.BumpRefresh)
	}()

	src, err := s.file.Open()
	if err != nil {
		s.notify.Error(fmt.Sprintf("Error while reading file: %v", err))
		return err
	}
	defer src.Close()

	if err := s.client.BulkUpload(ctx, sheet, s.file.Name, src); err != nil {
		if apiErr := api.AsError(err); apiErr != nil {
			s.errors = apiErr.Errors
			s.notify.Error(fmt.Sprintf("Error while uploading sheet: %s", apiErr.Message))
		} else {
			s.notify.Error("Error while uploading sheet")
		}
		return err
	}

	s.ClearFile()
	s.coord.Close()
	return nil
}
