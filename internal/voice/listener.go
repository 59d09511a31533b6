package voice

import (
	"context"
	"strings"
	"sync"

	"github.com/Veraticus/the-spice-must-convert/internal/common"
	"github.com/Veraticus/the-spice-must-convert/internal/service"
	"github.com/google/uuid"
)

// EventKind identifies what a session reported.
type EventKind int

const (
	// EventTranscript carries the lower-cased transcript.
	EventTranscript EventKind = iota
	// EventError carries the capture failure.
	EventError
	// EventEnded is always the final event of a session.
	EventEnded
)

func (k EventKind) String() string {
	switch k {
	case EventTranscript:
		return "transcript"
	case EventError:
		return "error"
	case EventEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Event is one message from a capture session.
type Event struct {
	Err        error
	SessionID  string
	Transcript string
	Kind       EventKind
}

// Listener runs at most one capture session at a time.
type Listener struct {
	recognizer service.Recognizer
	active     bool
	mu         sync.Mutex
}

// NewListener wraps a recognizer. A nil recognizer reports no capability.
func NewListener(recognizer service.Recognizer) *Listener {
	return &Listener{recognizer: recognizer}
}

// Available reports whether voice capture can be started at all.
func (l *Listener) Available() bool {
	return l.recognizer != nil && l.recognizer.Available()
}

// Active reports whether a session is running.
func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Start begins a single-shot session. It fails with
// common.ErrCapabilityUnavailable before touching the recognizer when the
// host cannot capture voice, and with common.ErrSessionActive while another
// session has not yet ended.
func (l *Listener) Start(ctx context.Context) (*Session, error) {
	if !l.Available() {
		return nil, common.ErrCapabilityUnavailable
	}

	l.mu.Lock()
	if l.active {
		l.mu.Unlock()
		return nil, common.ErrSessionActive
	}
	l.active = true
	l.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:     uuid.NewString(),
		events: make(chan Event, 2),
		cancel: cancel,
	}

	go l.run(ctx, s)

	return s, nil
}

func (l *Listener) run(ctx context.Context, s *Session) {
	defer close(s.events)
	defer s.cancel()

	transcript, err := l.recognizer.Recognize(ctx)
	switch {
	case err != nil:
		s.events <- Event{Kind: EventError, Err: err, SessionID: s.ID}
	case strings.TrimSpace(transcript) != "":
		s.events <- Event{Kind: EventTranscript, Transcript: strings.ToLower(strings.TrimSpace(transcript)), SessionID: s.ID}
	}

	// Release before announcing the end so a consumer reacting to
	// EventEnded can start the next session immediately.
	l.mu.Lock()
	l.active = false
	l.mu.Unlock()

	s.events <- Event{Kind: EventEnded, SessionID: s.ID}
}

// Session is a handle on one running capture.
type Session struct {
	events chan Event
	cancel context.CancelFunc
	ID     string
}

// Events yields at most one transcript or error, then EventEnded, then closes.
func (s *Session) Events() <-chan Event {
	return s.events
}

// Cancel stops the capture. EventEnded is still delivered.
func (s *Session) Cancel() {
	s.cancel()
}
