package http

import (
	"github.com/identity-verify-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/identity-verify-api/internal/infrastructure/jwt"
	"github.com/identity-verify-api/internal/infrastructure/smtp"
	"github.com/identity-verify-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	IdentityRepo *dynamo.IdentityRepo
	DeliveryRepo *dynamo.DeliveryRepo
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
