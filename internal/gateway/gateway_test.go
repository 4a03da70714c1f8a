package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   int64
	}{
		{"whole dollars", 50, 5000},
		{"cents that truncate badly", 19.99, 1999},
		{"another truncation case", 4.35, 435},
		{"single cent", 0.01, 1},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, minorUnits(tt.amount))
		})
	}
}

func TestMockGateway_CreatePaymentIntent(t *testing.T) {
	g := NewMockGateway(nil)

	resp, err := g.CreatePaymentIntent(context.Background(), &PaymentIntentRequest{
		Amount:   49.99,
		Currency: "usd",
		Email:    "student@example.com",
	})
	require.NoError(t, err)

	assert.Contains(t, resp.PaymentIntentID, "pi_mock_")
	assert.Contains(t, resp.ClientSecret, "_secret_")
	assert.Equal(t, 49.99, resp.Amount)
	assert.Equal(t, "requires_payment_method", resp.Status)
}

func TestMockGateway_RejectsNonPositiveAmount(t *testing.T) {
	g := NewMockGateway(nil)

	_, err := g.CreatePaymentIntent(context.Background(), &PaymentIntentRequest{Amount: 0})
	assert.Error(t, err)
}

func TestMockGateway_FailNext(t *testing.T) {
	g := NewMockGateway(&MockGatewayConfig{FailNext: true})

	_, err := g.CreatePaymentIntent(context.Background(), &PaymentIntentRequest{Amount: 10})
	require.Error(t, err)

	_, err = g.CreatePaymentIntent(context.Background(), &PaymentIntentRequest{Amount: 10})
	assert.NoError(t, err, "FailNext fails exactly one call")
}
