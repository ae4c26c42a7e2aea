package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/domain/shared"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

const defaultEventBufferSize = 100

// SSEHandlerConfig contains configuration options for the SSE handler.
type SSEHandlerConfig struct {
	// MessagePath is the command endpoint path advertised to clients.
	MessagePath string

	// KeepAliveInterval is how often a comment line is written to an idle
	// stream to keep intermediaries from timing the connection out.
	KeepAliveInterval time.Duration

	// EventBufferSize is the per-session event queue capacity.
	EventBufferSize int
}

// SSEHandler serves the streaming transport endpoint and the command
// endpoint. It owns no session state itself; the registry does.
type SSEHandler struct {
	config   SSEHandlerConfig
	registry domain.SessionRegistry
	runtime  domain.ProtocolRuntime
	logger   *logging.Logger
}

// NewSSEHandler creates a new SSE handler with the given dependencies.
func NewSSEHandler(
	config SSEHandlerConfig,
	registry domain.SessionRegistry,
	runtime domain.ProtocolRuntime,
	logger *logging.Logger,
) *SSEHandler {
	if config.MessagePath == "" {
		config.MessagePath = "/message"
	}
	if config.KeepAliveInterval <= 0 {
		config.KeepAliveInterval = 30 * time.Second
	}
	if config.EventBufferSize <= 0 {
		config.EventBufferSize = defaultEventBufferSize
	}

	return &SSEHandler{
		config:   config,
		registry: registry,
		runtime:  runtime,
		logger:   logger,
	}
}

// HandleSSE establishes a new session over a long-lived event stream. The
// connection is rejected up front when the registry is at capacity; nothing
// is retained in that case.
func (h *SSEHandler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, domain.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("cannot establish stream", logging.Fields{
			"error": ErrStreamingUnsupported.Error(),
		})
		writeError(w, domain.ErrInternal)
		return
	}

	session := newSSESession(r.Context(), h.config.EventBufferSize)
	if err := h.registry.Register(session); err != nil {
		session.Close()
		h.logger.Warn("connection rejected", logging.Fields{
			"reason": err.Error(),
			"active": h.registry.Count(),
		})
		writeError(w, err)
		return
	}
	defer h.registry.Unregister(session.ID())
	defer session.Close()

	h.runtime.BindSession(session)
	defer h.runtime.UnbindSession(session.ID())

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// The stream must outlive any server-level write timeout; idleness is
	// covered by the keep-alive ticker instead.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	// Tell the client where to POST commands for this session.
	fmt.Fprintf(w, "event: endpoint\ndata: %s?sessionId=%s\n\n", h.config.MessagePath, session.ID())
	flusher.Flush()

	keepAlive := time.NewTicker(h.config.KeepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case event := <-session.Events():
			fmt.Fprint(w, event)
			flusher.Flush()
		case <-keepAlive.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case <-session.Context().Done():
			return
		}
	}
}

// HandleMessage routes one discrete command to the session named by the
// sessionId query parameter. It performs no registry mutation.
func (h *SSEHandler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, domain.NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		writeError(w, domain.NewBadRequestError("sessionId"))
		return
	}

	session, ok := h.registry.Lookup(sessionID)
	if !ok {
		writeError(w, domain.NewSessionNotFoundError(sessionID))
		return
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeJSON(w, http.StatusBadRequest, shared.NewErrorResponse(nil, shared.ParseError, shared.ErrorMessage(shared.ParseError)))
		return
	}

	response := h.runtime.HandleMessage(r.Context(), sessionID, raw)
	if response == nil {
		// Notification; nothing to deliver.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	data, err := json.Marshal(response)
	if err != nil {
		h.logger.Error("marshaling response", logging.Fields{"error": err.Error()})
		writeError(w, domain.ErrInternal)
		return
	}

	// Deliver on the stream; the HTTP response echoes the same payload.
	if err := session.Send(formatEvent("message", data)); err != nil {
		h.logger.Warn("stream delivery failed", logging.Fields{
			"sessionId": sessionID,
			"error":     err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_, _ = w.Write(data)
}

// formatEvent renders a named SSE event with a JSON payload.
func formatEvent(name string, data []byte) string {
	return fmt.Sprintf("event: %s\ndata: %s\n\n", name, data)
}
