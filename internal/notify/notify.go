// Package notify delivers short user-facing notifications. Console writes
// them to a terminal for headless commands; Toaster queues them for the TUI.
package notify

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Veraticus/the-spice-must-convert/internal/cli"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
)

// Console prints notifications with the CLI styles and mirrors them to slog.
type Console struct {
	writer io.Writer
	mu     sync.Mutex
}

var _ service.Notifier = (*Console)(nil)

// NewConsole returns a notifier writing to w, or stderr when w is nil.
func NewConsole(w io.Writer) *Console {
	if w == nil {
		w = os.Stderr
	}
	return &Console{writer: w}
}

// Notify implements service.Notifier.
func (c *Console) Notify(level service.NotificationLevel, message string) {
	var line string
	switch level {
	case service.LevelError:
		slog.Warn("User notification", "level", level, "message", message)
		line = cli.FormatError(message)
	default:
		slog.Debug("User notification", "level", level, "message", message)
		line = cli.FormatInfo(message)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.writer, line)
}

// Toast is one queued notification.
type Toast struct {
	At      time.Time
	Message string
	Level   service.NotificationLevel
}

// DefaultToastBuffer is how many toasts may wait for the UI before older
// ones are dropped.
const DefaultToastBuffer = 16

// Toaster queues notifications on a channel. Notify never blocks; when the
// queue is full the oldest toast is discarded to make room.
type Toaster struct {
	toasts chan Toast
	now    func() time.Time
	mu     sync.Mutex
}

var _ service.Notifier = (*Toaster)(nil)

// NewToaster returns a toaster holding up to size pending toasts.
func NewToaster(size int) *Toaster {
	if size <= 0 {
		size = DefaultToastBuffer
	}
	return &Toaster{
		toasts: make(chan Toast, size),
		now:    time.Now,
	}
}

// Notify implements service.Notifier.
func (t *Toaster) Notify(level service.NotificationLevel, message string) {
	toast := Toast{At: t.now(), Level: level, Message: message}

	t.mu.Lock()
	defer t.mu.Unlock()
	for {
		select {
		case t.toasts <- toast:
			return
		default:
		}
		select {
		case dropped := <-t.toasts:
			slog.Debug("Dropping unseen toast", "message", dropped.Message)
		default:
		}
	}
}

// Toasts yields queued toasts in order.
func (t *Toaster) Toasts() <-chan Toast {
	return t.toasts
}
