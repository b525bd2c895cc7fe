package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"unify-backend/internal/domain"
	"unify-backend/internal/logger"
)

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// errorStatuses is checked in order; the first sentinel that matches wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrUnauthenticated, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrChapterNotLinked, http.StatusBadRequest},
	{domain.ErrInvalidInput, http.StatusBadRequest},
	{domain.ErrRegistrationClosed, http.StatusBadRequest},
	{domain.ErrDuplicateRegistration, http.StatusBadRequest},
	{domain.ErrNotMember, http.StatusBadRequest},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrNotFound, http.StatusNotFound},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError maps err onto a status code. Known errors put the sentinel text
// in "error" and the full chain in "details".
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			body := errorResponse{Error: e.err.Error()}
			if msg := err.Error(); msg != body.Error {
				body.Details = msg
			}
			writeJSON(w, e.status, body)
			return
		}
	}

	logger.ErrorContext(r.Context(), "Unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:   "internal server error",
		Details: err.Error(),
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
