// Package notify carries user-facing success/failure notices from the
// engine to whatever surface renders them (the TUI toast area, plain CLI
// output, or a test buffer).
package notify

import (
	"log/slog"
	"sync"
)

// Level classifies a notification.
type Level int

const (
	Success Level = iota
	Failure
)

// Notification is one user-visible notice.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives user-facing notices.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Buffer is a Notifier that retains notifications for a UI to drain.
type Buffer struct {
	mu       sync.Mutex
	items    []Notification
	onChange func()
}

// NewBuffer returns an empty buffer. onChange fires after every push and
// may be nil.
func NewBuffer(onChange func()) *Buffer {
	return &Buffer{onChange: onChange}
}

func (b *Buffer) Success(msg string) { b.push(Notification{Level: Success, Message: msg}) }

func (b *Buffer) Error(msg string) { b.push(Notification{Level: Failure, Message: msg}) }

// Drain returns and clears all pending notifications.
func (b *Buffer) Drain() []Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := b.items
	b.items = nil
	return items
}

// Latest returns the most recent notification, if any.
func (b *Buffer) Latest() (Notification, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.items) == 0 {
		return Notification{}, false
	}
	return b.items[len(b.items)-1], true
}

func (b *Buffer) push(n Notification) {
	b.mu.Lock()
	b.items = append(b.items, n)
	fn := b.onChange
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Log is a Notifier that writes through slog, used by non-interactive
// commands.
type Log struct{}

func (Log) Success(msg string) { slog.Info(msg) }

func (Log) Error(msg string) { slog.Error(msg) }
