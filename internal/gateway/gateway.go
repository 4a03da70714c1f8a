package gateway

import (
	"context"
	"math"
)

// PaymentGateway abstracts the card processor used to collect tuition
type PaymentGateway interface {
	// CreatePaymentIntent opens a payment intent and returns the client
	// secret the frontend needs to confirm the card
	CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error)

	// Name returns the gateway name
	Name() string
}

// minorUnits converts a major-unit amount (dollars) to the smallest
// currency unit. Rounded, not truncated: 19.99 carries float error that
// would otherwise drop a cent.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// PaymentIntentRequest describes the charge to open
type PaymentIntentRequest struct {
	// Amount is in major currency units (dollars); the gateway converts to
	// the smallest unit the processor expects
	Amount      float64
	Currency    string
	Email       string
	Description string
	Metadata    map[string]string
}

// PaymentIntentResponse is the processor's view of the intent
type PaymentIntentResponse struct {
	PaymentIntentID string
	ClientSecret    string
	Status          string
	Amount          float64
	Currency        string
}
