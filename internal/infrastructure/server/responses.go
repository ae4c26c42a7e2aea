package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seometrics/seo-mcp-server/internal/domain"
)

// errorBody is the JSON shape of every client-visible error.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain error to its status code and JSON body. Anything
// that is not a domain error becomes a generic 500.
func writeError(w http.ResponseWriter, err error) {
	var derr *domain.Error
	if errors.As(err, &derr) {
		writeJSON(w, derr.Code, errorBody{Error: derr.Kind, Message: derr.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:   domain.ErrInternal.Kind,
		Message: domain.ErrInternal.Message,
	})
}
