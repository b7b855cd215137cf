package models

import "time"

type DeliveryKind string

const (
	DeliveryPasswordReset DeliveryKind = "password_reset"
	DeliveryVerification  DeliveryKind = "verification"
)

// Delivery is a single-purpose token addressed to an account owner, handed
// to whatever transport sends it out (email, SMS, queue).
type Delivery struct {
	Kind        DeliveryKind `json:"kind"`
	AccountID   string       `json:"account_id"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	PhoneNumber string       `json:"phone_number"`
	Token       string       `json:"token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}
