// Package server implements the HTTP/SSE transport layer of the SEO MCP server.
package server

import (
	"sync"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// sessionRegistry implements domain.SessionRegistry. The map and the active
// counter are guarded by one mutex so no caller can observe them diverge.
type sessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]domain.SessionTransport
	active   int
	limit    int
	logger   *logging.Logger
}

// NewSessionRegistry creates a registry enforcing the given connection limit.
func NewSessionRegistry(limit int, logger *logging.Logger) domain.SessionRegistry {
	return &sessionRegistry{
		sessions: make(map[string]domain.SessionTransport),
		limit:    limit,
		logger:   logger,
	}
}

// Register stores the session keyed by its identifier. The capacity check and
// the insert happen under the same lock, so concurrent connection attempts
// cannot overshoot the limit.
func (r *sessionRegistry) Register(session domain.SessionTransport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active >= r.limit {
		return domain.ErrCapacityExceeded
	}

	r.sessions[session.ID()] = session
	r.active++

	r.logger.Info("session registered", logging.Fields{
		"sessionId": session.ID(),
		"active":    r.active,
		"limit":     r.limit,
	})
	return nil
}

// Lookup retrieves a session by its ID.
func (r *sessionRegistry) Lookup(id string) (domain.SessionTransport, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	return session, ok
}

// Unregister removes a session and decrements the active count. Removing an
// absent or already-removed ID is a no-op.
func (r *sessionRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return
	}

	delete(r.sessions, id)
	r.active--

	r.logger.Info("session unregistered", logging.Fields{
		"sessionId": id,
		"active":    r.active,
	})
}

// Count returns the number of active sessions.
func (r *sessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// CloseAll closes every active session and empties the registry.
func (r *sessionRegistry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, session := range r.sessions {
		session.Close()
	}

	r.sessions = make(map[string]domain.SessionTransport)
	r.active = 0
}
