package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/identity-verify-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeliveriesEnvelope wraps delivery-log list responses.
type DeliveriesEnvelope struct {
	Data  []domain.Delivery `json:"data"`
	Error string            `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// httpError maps domain sentinels to HTTP status codes. Invalid, expired and
// consumed credentials all map to the same 401 so callers cannot tell which.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, domain.ErrMissingCredential):
		writeError(w, http.StatusBadRequest, "exactly one of token or code is required")
	case errors.Is(err, domain.ErrInvalidOrExpiredCredential):
		writeError(w, http.StatusUnauthorized, "invalid or expired credential")
	case errors.Is(err, domain.ErrDeliveryFailed):
		writeError(w, http.StatusBadGateway, "credential stored but delivery failed; request a resend")
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
