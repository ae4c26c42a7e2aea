package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Common errors in the server package
var (
	// ErrStreamingUnsupported is returned when the ResponseWriter doesn't support the Flusher interface
	ErrStreamingUnsupported = errors.New("response writer does not implement http.Flusher")

	// ErrSessionClosed is returned when attempting to use a closed session
	ErrSessionClosed = errors.New("session is closed")

	// ErrEventQueueFull is returned when a session's event queue is full
	ErrEventQueueFull = errors.New("event queue is full")
)

// sseSession implements domain.SessionTransport over a server-sent-events
// stream. The connection handler drains Events until the session context is
// cancelled; everything else queues events through Send.
type sseSession struct {
	id         string
	createdAt  time.Time
	eventQueue chan string
	ctx        context.Context
	cancel     context.CancelFunc
	closeOnce  sync.Once
}

// newSSESession creates a session bound to the lifetime of parent, which is
// expected to be the connection's request context.
func newSSESession(parent context.Context, bufferSize int) *sseSession {
	ctx, cancel := context.WithCancel(parent)
	return &sseSession{
		id:         uuid.New().String(),
		createdAt:  time.Now(),
		eventQueue: make(chan string, bufferSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// ID returns the session ID.
func (s *sseSession) ID() string {
	return s.id
}

// CreatedAt returns the time the session was established.
func (s *sseSession) CreatedAt() time.Time {
	return s.createdAt
}

// Send queues a pre-formatted SSE event for delivery. It never blocks: a
// closed session returns ErrSessionClosed and a saturated queue returns
// ErrEventQueueFull.
func (s *sseSession) Send(event string) error {
	select {
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
	}

	select {
	case s.eventQueue <- event:
		return nil
	case <-s.ctx.Done():
		return ErrSessionClosed
	default:
		return ErrEventQueueFull
	}
}

// Close terminates the session. Safe to call more than once.
// The event queue is intentionally left open so concurrent Send calls
// cannot panic; it is collected with the session.
func (s *sseSession) Close() {
	s.closeOnce.Do(s.cancel)
}

// Context is cancelled when the session ends, whether by client disconnect
// or by registry teardown.
func (s *sseSession) Context() context.Context {
	return s.ctx
}

// Events exposes the queued events for the connection handler to drain.
func (s *sseSession) Events() <-chan string {
	return s.eventQueue
}
