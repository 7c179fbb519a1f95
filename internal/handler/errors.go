package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kmoutsos/triphub/internal/domain"
)

// ErrorResponse is the JSON error envelope returned by every endpoint.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP status and error body.
// Sentinel errors from the domain pick the status; anything unrecognized is a
// 500 with a generic message so internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: ErrorDetail{Code: "not_found", Message: "trip not found"}})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrNoMatch):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "no_match", Message: "command not understood; try rephrasing"}})
	case errors.Is(err, domain.ErrRemoteQuota):
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{Error: ErrorDetail{Code: "quota_exceeded", Message: "assistant quota exceeded, try again later"}})
	case errors.Is(err, domain.ErrRemoteTimeout):
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: ErrorDetail{Code: "assistant_timeout", Message: "assistant timed out, try again"}})
	case errors.Is(err, domain.ErrRemoteFailure):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: ErrorDetail{Code: "assistant_error", Message: "assistant failed to process the command"}})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// requestError returns a 422 for a bad request rejected before reaching the
// service layer (e.g. missing or malformed body).
func requestError(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{Code: "validation_error", Message: message}})
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.TripService.Create: validation error: name is required" → "name is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if idx := strings.LastIndex(msg, "validation error: "); idx != -1 {
		return msg[idx+len("validation error: "):]
	}
	return msg
}
