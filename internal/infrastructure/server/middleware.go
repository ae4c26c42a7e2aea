package server

import (
	"crypto/subtle"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/seometrics/seo-mcp-server/internal/domain"
	"github.com/seometrics/seo-mcp-server/internal/infrastructure/logging"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// AccessGuard gates a handler behind a single shared bearer secret. With
// enabled false every request passes. Otherwise a missing or malformed
// Authorization header yields 401 and a mismatched token yields 403.
func AccessGuard(enabled bool, secret string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				writeError(w, domain.ErrUnauthorized)
				return
			}

			if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
				writeError(w, domain.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Recover converts a handler panic into a 500 response instead of killing
// the connection. The panic detail is always logged but only revealed to the
// client in development mode.
func Recover(logger *logging.Logger, development bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("handler panic", logging.Fields{
					"path":  r.URL.Path,
					"panic": rec,
					"stack": string(debug.Stack()),
				})

				body := errorBody{Error: domain.ErrInternal.Kind, Message: domain.ErrInternal.Message}
				if development {
					body.Message = strings.TrimSpace(strings.Join([]string{"panic:", toString(rec)}, " "))
				}
				writeJSON(w, http.StatusInternalServerError, body)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func toString(v interface{}) string {
	if err, ok := v.(error); ok {
		return err.Error()
	}
	if s, ok := v.(string); ok {
		return s
	}
	return "unknown"
}
