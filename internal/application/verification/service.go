package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/pkg/credential"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldEmailVerifiedAt = "email_verified_at"
	fieldTokenHash       = "email_verification_token_hash"
	fieldCode            = "email_verification_code"
	fieldExpiresAt       = "email_verification_expires_at"
)

// VerifyRequest carries exactly one of Token or Code.
type VerifyRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

type Service interface {
	// Request issues a fresh token+code pair and emails it to the account
	// owner. A prior unconsumed pair is overwritten. Returns a
	// domain.ErrDeliveryFailed-wrapped error when the credential was stored
	// but the email could not be sent.
	Request(ctx context.Context, userID string) error
	// Verify consumes a credential received from a link (token) or typed by
	// the user (code). Success marks the email verified and clears all
	// credential fields in one conditional write.
	Verify(ctx context.Context, req VerifyRequest) error
}

type identityStore interface {
	Get(ctx context.Context, userID string) (*domain.Identity, error)
	GetByVerificationTokenHash(ctx context.Context, hash string, now time.Time) (*domain.Identity, error)
	GetByVerificationCode(ctx context.Context, code string, now time.Time) (*domain.Identity, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ConditionalUpdate(ctx context.Context, userID, attr, expected string, updates map[string]interface{}) (bool, error)
}

type notifier interface {
	SendVerification(ctx context.Context, u *domain.Identity, rawToken, code string) error
}

type service struct {
	repo     identityStore
	notifier notifier
	ttl      time.Duration
	now      func() time.Time
}

type ServiceDeps struct {
	IdentityRepo identityStore
	Notifier     notifier
	TTL          time.Duration
	Now          func() time.Time
}

func NewService(deps ServiceDeps) Service {
	ttl := deps.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     deps.IdentityRepo,
		notifier: deps.Notifier,
		ttl:      ttl,
		now:      now,
	}
}

func (s *service) Request(ctx context.Context, userID string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	rawToken, err := credential.Token()
	if err != nil {
		return err
	}
	code, err := credential.Code()
	if err != nil {
		return err
	}

	// Token and code share one expiry so the two channels cannot drift.
	// Only the token's hash is stored; the raw token exists solely in the
	// outbound email.
	if err := s.repo.Update(ctx, userID, map[string]interface{}{
		fieldTokenHash: credential.HashToken(rawToken),
		fieldCode:      code,
		fieldExpiresAt: s.now().Add(s.ttl).Unix(),
	}); err != nil {
		return err
	}

	return s.notifier.SendVerification(ctx, u, rawToken, code)
}

func (s *service) Verify(ctx context.Context, req VerifyRequest) error {
	hasToken := req.Token != ""
	hasCode := req.Code != ""
	if hasToken == hasCode {
		return fmt.Errorf("exactly one of token or code required: %w", domain.ErrMissingCredential)
	}

	now := s.now()
	var u *domain.Identity
	var err error
	var attr, expected string
	if hasToken {
		expected = credential.HashToken(req.Token)
		attr = fieldTokenHash
		u, err = s.repo.GetByVerificationTokenHash(ctx, expected, now)
	} else {
		expected = req.Code
		attr = fieldCode
		u, err = s.repo.GetByVerificationCode(ctx, expected, now)
	}
	if err != nil {
		return err
	}

	// The clear only succeeds while the stored credential still equals what
	// was just read; a concurrent consume or reissue makes this fail and the
	// caller sees the same signal as a wrong credential. Credential fields are
	// removed rather than blanked: the hash and code attributes back GSIs and
	// DynamoDB rejects empty strings on index keys.
	ok, err := s.repo.ConditionalUpdate(ctx, u.UserID, attr, expected, map[string]interface{}{
		fieldEmailVerifiedAt: now,
		fieldTokenHash:       nil,
		fieldCode:            nil,
		fieldExpiresAt:       nil,
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("credential no longer current: %w", domain.ErrInvalidOrExpiredCredential)
	}
	return nil
}
