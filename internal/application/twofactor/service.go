package twofactor

import (
	"context"
	"fmt"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/pkg/credential"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldCode      = "two_factor_code"
	fieldExpiresAt = "two_factor_expires_at"
)

type Service interface {
	// Issue generates a fresh 2FA code, overwriting any prior unconsumed
	// one, and dispatches it. Storage and delivery are deliberately not one
	// transaction: a stored-but-undelivered code is recoverable by resend,
	// so delivery failure surfaces as domain.ErrDeliveryFailed after the
	// write committed.
	Issue(ctx context.Context, userID string) error
	// Verify consumes the code. It is a gate for an external
	// session-elevation step; nothing beyond the 2FA fields changes.
	Verify(ctx context.Context, userID, code string) error
}

type identityStore interface {
	Get(ctx context.Context, userID string) (*domain.Identity, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	ConditionalUpdate(ctx context.Context, userID, attr, expected string, updates map[string]interface{}) (bool, error)
}

type notifier interface {
	SendTwoFactorCode(ctx context.Context, u *domain.Identity, code string) error
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
		ttl = 5 * time.Minute
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

func (s *service) Issue(ctx context.Context, userID string) error {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	code, err := credential.Code()
	if err != nil {
		return err
	}

	if err := s.repo.Update(ctx, userID, map[string]interface{}{
		fieldCode:      code,
		fieldExpiresAt: s.now().Add(s.ttl).Unix(),
	}); err != nil {
		return err
	}

	return s.notifier.SendTwoFactorCode(ctx, u, code)
}

func (s *service) Verify(ctx context.Context, userID, code string) error {
	if code == "" {
		return fmt.Errorf("code required: %w", domain.ErrMissingCredential)
	}
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}

	// Wrong, absent and expired all report the same signal.
	if u.TwoFactorCode == "" || u.TwoFactorCode != code || u.TwoFactorExpiresAt <= s.now().Unix() {
		return fmt.Errorf("2FA code rejected: %w", domain.ErrInvalidOrExpiredCredential)
	}

	// nil removes the attributes; clearing by removal keeps the convention
	// shared with the email-verification fields, which sit behind GSIs.
	ok, err := s.repo.ConditionalUpdate(ctx, userID, fieldCode, code, map[string]interface{}{
		fieldCode:      nil,
		fieldExpiresAt: nil,
	})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("2FA code no longer current: %w", domain.ErrInvalidOrExpiredCredential)
	}
	return nil
}
