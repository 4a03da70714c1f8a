package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// alphanumericChars for generating Stripe-compatible IDs
const alphanumericChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomAlphanumeric generates a random alphanumeric string of given length
func randomAlphanumeric(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumericChars[rand.Intn(len(alphanumericChars))]
	}
	return string(b)
}

// MockGateway implements PaymentGateway for testing. It never talks to a
// processor.
type MockGateway struct {
	config *MockGatewayConfig
}

// MockGatewayConfig holds configuration for the mock gateway
type MockGatewayConfig struct {
	// FailNext forces the next CreatePaymentIntent call to fail
	FailNext bool

	// DelayMs is the simulated processing delay in milliseconds
	DelayMs int
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(config *MockGatewayConfig) *MockGateway {
	if config == nil {
		config = &MockGatewayConfig{}
	}
	return &MockGateway{config: config}
}

// CreatePaymentIntent creates a mock PaymentIntent
func (g *MockGateway) CreatePaymentIntent(ctx context.Context, req *PaymentIntentRequest) (*PaymentIntentResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("payment intent request is required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	if g.config.DelayMs > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(g.config.DelayMs) * time.Millisecond):
		}
	}

	if g.config.FailNext {
		g.config.FailNext = false
		return nil, fmt.Errorf("mock gateway failure")
	}

	paymentIntentID := fmt.Sprintf("pi_mock_%s", randomAlphanumeric(24))
	clientSecret := fmt.Sprintf("%s_secret_%s", paymentIntentID, randomAlphanumeric(24))

	return &PaymentIntentResponse{
		PaymentIntentID: paymentIntentID,
		ClientSecret:    clientSecret,
		Status:          "requires_payment_method",
		Amount:          req.Amount,
		Currency:        req.Currency,
	}, nil
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}

// Ensure MockGateway implements PaymentGateway
var _ PaymentGateway = (*MockGateway)(nil)
