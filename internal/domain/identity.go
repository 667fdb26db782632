package domain

import "time"

// Identity is the subset of the external user record this service reads and
// writes. Credential fields live inline on the record: a new issuance
// overwrites the previous one, a successful verification clears them.
// A non-empty token hash or code is always paired with a non-zero expiry.
type Identity struct {
	UserID string  `json:"id" dynamodbav:"user_id"`
	Email  string  `json:"email" dynamodbav:"email"`
	Name   string  `json:"name" dynamodbav:"name"`
	Phone  *string `json:"phone,omitempty" dynamodbav:"phone"`

	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty" dynamodbav:"email_verified_at"`

	// Only the one-way hash of the link token is ever stored; the code is
	// stored as-is. Both share one expiry (Unix seconds) per issuance.
	EmailVerificationTokenHash string `json:"-" dynamodbav:"email_verification_token_hash"`
	EmailVerificationCode      string `json:"-" dynamodbav:"email_verification_code"`
	EmailVerificationExpiresAt int64  `json:"-" dynamodbav:"email_verification_expires_at"`

	// Independent lifecycle from the email verification fields.
	TwoFactorCode      string `json:"-" dynamodbav:"two_factor_code"`
	TwoFactorExpiresAt int64  `json:"-" dynamodbav:"two_factor_expires_at"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}
