package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/nightcrew/backend/internal/domain"
)

// ErrorDetail is the machine-readable code plus the message to show the user.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an ErrorResponse.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// notFound writes a 404. The caller supplies the message (e.g. "draft not found")
// because the handler is the layer that knows what was being looked up.
func notFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, "not_found", message)
}

// requestError writes a 422 for a request rejected before reaching the service layer.
func requestError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusUnprocessableEntity, "validation_error", message)
}

// writeServiceError maps a domain sentinel error to its HTTP status.
// Unknown errors are logged and reported as 500 without leaking details.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	msg := domain.Message(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFound(w, notFoundMessage)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", msg)
	case errors.Is(err, domain.ErrDestinationLimitExceeded), errors.Is(err, domain.ErrInterestLimitExceeded):
		writeError(w, http.StatusUnprocessableEntity, "limit_exceeded", msg)
	case errors.Is(err, domain.ErrDuplicateDestination):
		writeError(w, http.StatusConflict, "duplicate", msg)
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", msg)
	case errors.Is(err, domain.ErrNetwork):
		writeError(w, http.StatusBadGateway, "network_error", msg)
	default:
		s.log.ErrorContext(r.Context(), "unhandled error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal_error", "Something went wrong. Please try again.")
	}
}

// decodeJSON decodes the request body into v, rejecting unknown fields.
// Returns false after writing a 413 or 422 response if decoding fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", "request body is too large")
			return false
		}
		requestError(w, "request body must be valid JSON")
		return false
	}
	return true
}
