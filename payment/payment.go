// Package payment talks to the card payment gateway that approves and
// refunds checkout payments.
package payment

import (
	"context"
	"time"
)

type ConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

// Confirmation is the part of the gateway's approval the store keeps.
type Confirmation struct {
	PaymentKey string
	OrderID    string
	Method     string
	Status     string
	Amount     int64
	ApprovedAt time.Time
}

type Gateway interface {
	Confirm(ctx context.Context, req ConfirmRequest) (*Confirmation, error)
	Cancel(ctx context.Context, paymentKey, reason string) error
}

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *GatewayError) Error() string {
	if e.Code != "" {
		return "payment gateway: " + e.Code + ": " + e.Message
	}
	return "payment gateway: " + e.Message
}
