package domain

import (
	"context"
	"encoding/json"
	"time"
)

// ToolHandlerFunc executes a tool call with already-decoded arguments.
type ToolHandlerFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// SessionTransport is one client's long-lived output stream. Events queued
// with Send are delivered in order until the session closes.
type SessionTransport interface {
	// ID returns the session identifier.
	ID() string

	// CreatedAt returns the time the session was established.
	CreatedAt() time.Time

	// Send queues a pre-formatted event for delivery on the stream.
	Send(event string) error

	// Close terminates the session. Safe to call more than once.
	Close()

	// Context is cancelled when the session ends.
	Context() context.Context
}

// SessionRegistry owns the mapping from session ID to open transport and
// the active-session count.
type SessionRegistry interface {
	// Register stores the session. Returns ErrCapacityExceeded when the
	// configured connection limit is already reached.
	Register(session SessionTransport) error

	// Lookup retrieves a session by ID.
	Lookup(id string) (SessionTransport, bool)

	// Unregister removes a session. Absent IDs are a no-op.
	Unregister(id string)

	// Count returns the number of active sessions.
	Count() int

	// CloseAll closes every active session and empties the registry.
	CloseAll()
}

// MessageHandler routes a raw client message for a session into the
// protocol runtime. A nil return means no response is due (notification).
type MessageHandler interface {
	HandleMessage(ctx context.Context, sessionID string, raw json.RawMessage) interface{}
}

// ProtocolRuntime is the tool-execution engine behind the transport layer:
// it accepts bound session transports, routes client messages into tool
// execution, and exposes the registered toolset for introspection.
type ProtocolRuntime interface {
	MessageHandler

	// BindSession attaches a live transport so server-originated messages
	// for that session reach its stream.
	BindSession(session SessionTransport)

	// UnbindSession detaches a transport after its stream closed.
	UnbindSession(id string)

	// ListTools returns the currently registered tools.
	ListTools(ctx context.Context) ([]*Tool, error)
}

// ToolRepository defines the interface for managing tools.
type ToolRepository interface {
	// GetTool retrieves a tool by its name.
	GetTool(ctx context.Context, name string) (*Tool, error)

	// ListTools returns all available tools.
	ListTools(ctx context.Context) ([]*Tool, error)

	// AddTool adds a new tool to the repository.
	AddTool(ctx context.Context, tool *Tool) error

	// DeleteTool removes a tool from the repository.
	DeleteTool(ctx context.Context, name string) error
}
