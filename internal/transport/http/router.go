package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/identity-verify-api/internal/application/twofactor"
	"github.com/identity-verify-api/internal/application/verification"
	"github.com/identity-verify-api/internal/config"
	"github.com/identity-verify-api/internal/notify"
	"github.com/identity-verify-api/internal/transport/http/handler"
	appmiddleware "github.com/identity-verify-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10 — applied to credential-consuming endpoints.
	credentialRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifySvc := notify.NewService(notify.ServiceDeps{
		Mailer:     deps.Mailer,
		SMSSender:  deps.SMSSender,
		Deliveries: deps.DeliveryRepo,
		BaseURL:    cfg.VerificationBaseURL,
	})
	verificationSvc := verification.NewService(verification.ServiceDeps{
		IdentityRepo: deps.IdentityRepo,
		Notifier:     notifySvc,
		TTL:          cfg.VerificationTTL,
	})
	twoFactorSvc := twofactor.NewService(twofactor.ServiceDeps{
		IdentityRepo: deps.IdentityRepo,
		Notifier:     notifySvc,
		TTL:          cfg.TwoFactorTTL,
	})

	healthH := handler.NewHealthHandler()
	emailH := handler.NewEmailVerificationHandler(verificationSvc)
	twoFactorH := handler.NewTwoFactorHandler(twoFactorSvc)
	deliveryH := handler.NewDeliveryHandler(deps.DeliveryRepo)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		// The credential in the body is the proof of ownership; no session
		// exists yet for a user confirming from a fresh inbox link.
		r.With(credentialRL.Limit).Post("/email-verification/confirm", emailH.Confirm)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/email-verification/request", emailH.Request)
			r.Post("/two-factor/request", twoFactorH.Request)
			r.With(credentialRL.Limit).Post("/two-factor/validate", twoFactorH.Validate)
			r.Get("/deliveries", deliveryH.List)
		})
	})

	return r
}
