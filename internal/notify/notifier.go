package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/identity-verify-api/internal/domain"
	"github.com/identity-verify-api/internal/pkg/id"
)

type mailer interface {
	SendEmail(to, subject, body string) error
}

type smsSender interface {
	SendSMS(ctx context.Context, to, message string) error
}

type deliveryStore interface {
	Put(ctx context.Context, d *domain.Delivery) error
}

// Service routes generated credentials to the account owner and records each
// attempt in the delivery log. Exactly one outbound attempt per call; no
// internal retry — a failed delivery is recoverable by re-requesting.
type Service struct {
	mailer     mailer
	sms        smsSender
	deliveries deliveryStore
	baseURL    string
	now        func() time.Time
}

type ServiceDeps struct {
	Mailer     mailer
	SMSSender  smsSender
	Deliveries deliveryStore
	BaseURL    string
	Now        func() time.Time
}

func NewService(deps ServiceDeps) *Service {
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		mailer:     deps.Mailer,
		sms:        deps.SMSSender,
		deliveries: deps.Deliveries,
		baseURL:    deps.BaseURL,
		now:        now,
	}
}

// SendVerification emails the verification link and manual-entry code.
// Either channel proves ownership of the same address, so both travel in one
// message.
func (s *Service) SendVerification(ctx context.Context, u *domain.Identity, rawToken, code string) error {
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nConfirm your email address by opening:\r\n%s/verify-email?token=%s\r\n\r\nOr enter this code: %s\r\n",
		u.Name, s.baseURL, rawToken, code,
	)
	err := s.mailer.SendEmail(u.Email, "Verify your email", body)
	s.record(ctx, u.UserID, domain.DeliveryKindEmailVerification, domain.DeliveryChannelEmail, err)
	if err != nil {
		return fmt.Errorf("send verification email: %v: %w", err, domain.ErrDeliveryFailed)
	}
	return nil
}

// SendTwoFactorCode delivers a 2FA code, preferring SMS when the account has
// a phone number.
func (s *Service) SendTwoFactorCode(ctx context.Context, u *domain.Identity, code string) error {
	if u.Phone != nil && s.sms != nil {
		err := s.sms.SendSMS(ctx, *u.Phone, "Your sign-in code: "+code)
		s.record(ctx, u.UserID, domain.DeliveryKindTwoFactor, domain.DeliveryChannelSMS, err)
		if err != nil {
			return fmt.Errorf("send 2FA SMS: %v: %w", err, domain.ErrDeliveryFailed)
		}
		return nil
	}

	body := fmt.Sprintf("Hi %s,\r\n\r\nYour sign-in code: %s\r\nIt expires in a few minutes.\r\n", u.Name, code)
	err := s.mailer.SendEmail(u.Email, "Your sign-in code", body)
	s.record(ctx, u.UserID, domain.DeliveryKindTwoFactor, domain.DeliveryChannelEmail, err)
	if err != nil {
		return fmt.Errorf("send 2FA email: %v: %w", err, domain.ErrDeliveryFailed)
	}
	return nil
}

// record writes the audit entry best-effort; a failed log write never fails
// the delivery itself.
func (s *Service) record(ctx context.Context, userID, kind, channel string, sendErr error) {
	if s.deliveries == nil {
		return
	}
	d := &domain.Delivery{
		DeliveryID: id.New(),
		UserID:     userID,
		Kind:       kind,
		Channel:    channel,
		OK:         sendErr == nil,
		CreatedAt:  s.now(),
	}
	if sendErr != nil {
		d.Error = sendErr.Error()
	}
	if err := s.deliveries.Put(ctx, d); err != nil {
		slog.Warn("failed to record delivery", "user_id", userID, "kind", kind, "err", err)
	}
}
