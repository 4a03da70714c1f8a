package gateway

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

// StripeGateway implements PaymentGateway using Stripe
type StripeGateway struct {
	config *StripeGatewayConfig
}

// StripeGatewayConfig holds configuration for the Stripe gateway
type StripeGatewayConfig struct {
	SecretKey   string
	Currency    string
	Environment string // "test" or "live"
}

// NewStripeGateway creates a new Stripe gateway
func NewStripeGateway(config *StripeGatewayConfig) (*StripeGateway, error) {
	if config == nil {
		return nil, fmt.Errorf("stripe config is required")
	}
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if config.Currency == "" {
		config.Currency = "usd"
	}

	// Set Stripe API key globally
	stripe.Key = config.SecretKey

	return &StripeGateway{
		config: config,
	}, nil
}

// CreatePaymentIntent creates a Stripe PaymentIntent and returns its
// client_secret. The amount arrives in dollars and is converted to cents,
// the smallest unit Stripe expects.
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("payment intent request is required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = g.config.Currency
	}

	amountInCents := minorUnits(req.Amount)

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountInCents),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Metadata:           make(map[string]string),
	}
	params.Context = ctx

	if req.Email != "" {
		params.Metadata["email"] = req.Email
	}
	for k, v := range req.Metadata {
		params.Metadata[k] = v
	}

	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &PaymentIntentResponse{
		PaymentIntentID: pi.ID,
		ClientSecret:    pi.ClientSecret,
		Status:          string(pi.Status),
		Amount:          req.Amount,
		Currency:        currency,
	}, nil
}

// Name returns the gateway name
func (g *StripeGateway) Name() string {
	return "stripe"
}

// Ensure StripeGateway implements PaymentGateway
var _ PaymentGateway = (*StripeGateway)(nil)
