package server

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/cors"

	"github.com/seometrics/seo-mcp-server/internal/config"
	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// CatalogResolver produces the tool descriptors served by the introspection
// endpoint.
type CatalogResolver interface {
	Resolve(ctx context.Context) []domain.ToolDescriptor
}

// HTTPServer assembles the transport endpoints, the introspection and health
// endpoints, and the middleware chain into one listening server.
type HTTPServer struct {
	cfg       *config.Config
	registry  domain.SessionRegistry
	sse       *SSEHandler
	catalog   CatalogResolver
	logger    *logging.Logger
	startedAt time.Time
	srv       *http.Server
}

// NewHTTPServer wires the server from its collaborators.
func NewHTTPServer(
	cfg *config.Config,
	registry domain.SessionRegistry,
	runtime domain.ProtocolRuntime,
	catalog CatalogResolver,
	logger *logging.Logger,
) *HTTPServer {
	sse := NewSSEHandler(SSEHandlerConfig{MessagePath: "/message"}, registry, runtime, logger)

	return &HTTPServer{
		cfg:       cfg,
		registry:  registry,
		sse:       sse,
		catalog:   catalog,
		logger:    logger,
		startedAt: time.Now(),
	}
}

// Handler builds the full middleware-wrapped handler. The access guard
// covers only the two protocol endpoints; health and introspection stay open.
func (s *HTTPServer) Handler() http.Handler {
	guard := AccessGuard(s.cfg.AuthEnabled, s.cfg.AuthSecret)

	mux := http.NewServeMux()
	mux.Handle("/sse", guard(http.HandlerFunc(s.sse.HandleSSE)))
	mux.Handle("/message", guard(http.HandlerFunc(s.sse.HandleMessage)))
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/health", s.handleHealth)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{s.cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})

	return Recover(s.logger, s.cfg.IsDevelopment())(c.Handler(mux))
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *HTTPServer) Start() error {
	s.srv = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	s.logger.Info("starting server", logging.Fields{
		"addr":           s.cfg.Addr(),
		"maxConnections": s.cfg.MaxConnections,
		"authEnabled":    s.cfg.AuthEnabled,
	})
	return s.srv.ListenAndServe()
}

// Shutdown drains the server: active sessions are closed so their stream
// handlers return, then the HTTP server stops accepting and waits for
// in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.registry.CloseAll()
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ok",
		"server":            s.cfg.ServerName,
		"version":           s.cfg.ServerVersion,
		"uptime":            int(time.Since(s.startedAt).Seconds()),
		"activeConnections": s.registry.Count(),
		"environment":       s.cfg.Environment,
	})
}

func (s *HTTPServer) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"server":  s.cfg.ServerName,
		"version": s.cfg.ServerVersion,
		"tools":   s.catalog.Resolve(r.Context()),
		"endpoints": map[string]string{
			"sse":     "/sse",
			"message": "/message",
			"info":    "/info",
			"health":  "/health",
		},
		"stats": map[string]interface{}{
			"activeConnections": s.registry.Count(),
			"maxConnections":    s.cfg.MaxConnections,
			"uptime":            int(time.Since(s.startedAt).Seconds()),
		},
	})
}
