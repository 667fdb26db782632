package handler

import (
	"encoding/json"
	"net/http"

	"github.com/identity-verify-api/internal/application/verification"
	"github.com/identity-verify-api/internal/transport/http/middleware"
)

// EmailVerificationHandler handles the email verification flow endpoints.
type EmailVerificationHandler struct {
	svc verification.Service
}

func NewEmailVerificationHandler(svc verification.Service) *EmailVerificationHandler {
	return &EmailVerificationHandler{svc: svc}
}

// Request issues a fresh verification credential for the authenticated user.
func (h *EmailVerificationHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Request(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "verification email sent"})
}

// Confirm consumes a token (from a link) or a code (typed by the user).
// Public: the credential itself is the proof, no session required.
func (h *EmailVerificationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var body verification.VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Verify(r.Context(), body); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "email verified"})
}
