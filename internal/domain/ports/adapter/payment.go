package adapter

import "context"

// GatewayOrder is the provider-agnostic result of creating an order with the
// payment gateway.
type GatewayOrder struct {
	OrderID  string
	Amount   int64
	Currency string
	KeyID    string // publishable key the client needs to open the checkout
}

// PaymentGateway is the hex port for the payment provider's server-side API.
// Payment collection itself happens out-of-band in the client; the server only
// creates orders and later verifies callback signatures (see infra/payment).
type PaymentGateway interface {
	Name() string

	// CreateOrder registers a purchase intent with the provider and returns
	// the provider-assigned order id.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string, notes map[string]interface{}) (*GatewayOrder, error)
}

// SignatureVerifier validates that an (orderID, paymentID, signature) triple
// was produced by the gateway for a shared secret. Implementations are pure
// and must return false, never panic, on malformed input.
type SignatureVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}
