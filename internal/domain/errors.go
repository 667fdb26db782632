package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	// ErrUserNotFound: the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrMissingCredential: the caller did not supply exactly one of token or code.
	ErrMissingCredential = errors.New("missing credential")
	// ErrInvalidOrExpiredCredential covers wrong value, expired, and already
	// consumed. The three are deliberately indistinguishable to the caller.
	ErrInvalidOrExpiredCredential = errors.New("invalid or expired credential")
	// ErrDeliveryFailed: the credential was stored but the notification could
	// not be sent. The user can request a resend.
	ErrDeliveryFailed = errors.New("delivery failed")
	// ErrStoreUnavailable: transient store failure, safe for the caller to retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
