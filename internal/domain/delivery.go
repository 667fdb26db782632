package domain

import "time"

// Delivery kinds and channels.
const (
	DeliveryKindEmailVerification = "email_verification"
	DeliveryKindTwoFactor         = "two_factor"

	DeliveryChannelEmail = "email"
	DeliveryChannelSMS   = "sms"
)

// Delivery records one outbound notification attempt. Written best-effort
// after each send; never read on the hot path.
type Delivery struct {
	DeliveryID string    `json:"id" dynamodbav:"delivery_id"`
	UserID     string    `json:"user_id" dynamodbav:"user_id"`
	Kind       string    `json:"kind" dynamodbav:"kind"`
	Channel    string    `json:"channel" dynamodbav:"channel"`
	OK         bool      `json:"ok" dynamodbav:"ok"`
	Error      string    `json:"error,omitempty" dynamodbav:"error"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}
