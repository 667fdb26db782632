package handler

import (
	"context"
	"net/http"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/transport/http/middleware"
)

// DeliveryLister is the read side of the delivery log.
type DeliveryLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Delivery, error)
}

// DeliveryHandler exposes the authenticated user's notification audit trail.
type DeliveryHandler struct {
	repo DeliveryLister
}

func NewDeliveryHandler(repo DeliveryLister) *DeliveryHandler {
	return &DeliveryHandler{repo: repo}
}

func (h *DeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	deliveries, err := h.repo.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeliveriesEnvelope{Data: deliveries})
}
