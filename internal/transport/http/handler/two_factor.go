package handler

import (
	"encoding/json"
	"net/http"

	"github.com/identity-verify-api/internal/application/twofactor"
	"github.com/identity-verify-api/internal/pkg/validate"
	"github.com/identity-verify-api/internal/transport/http/middleware"
)

// TwoFactorHandler handles 2FA issuance and validation endpoints.
type TwoFactorHandler struct {
	svc twofactor.Service
}

func NewTwoFactorHandler(svc twofactor.Service) *TwoFactorHandler {
	return &TwoFactorHandler{svc: svc}
}

// Request dispatches a fresh 2FA code to the authenticated user.
func (h *TwoFactorHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Issue(r.Context(), claims.UserID); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "two-factor code sent"})
}

// Validate checks the submitted code. Success only clears the 2FA fields;
// the session-elevation step that follows belongs to the identity provider.
func (h *TwoFactorHandler) Validate(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var body struct {
		Code string `json:"code" validate:"required,len=6,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.Verify(r.Context(), claims.UserID, body.Code); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "two-factor code accepted"})
}
