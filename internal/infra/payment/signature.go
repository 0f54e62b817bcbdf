package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"job-portal-subscriptions/internal/domain/ports/adapter"
)

var _ adapter.SignatureVerifier = (*RazorpaySignatureVerifier)(nil)

// RazorpaySignatureVerifier checks gateway callback signatures.
// Per Razorpay documentation: signature = HMAC-SHA256(order_id + "|" + payment_id, key_secret), hex-encoded.
type RazorpaySignatureVerifier struct {
	secret []byte
}

func NewRazorpaySignatureVerifier(keySecret string) *RazorpaySignatureVerifier {
	return &RazorpaySignatureVerifier{secret: []byte(keySecret)}
}

// Verify is pure and never panics; any input that cannot produce a valid
// comparison yields false. The comparison is constant-time.
func (v *RazorpaySignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	if len(v.secret) == 0 || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	h := hmac.New(sha256.New, v.secret)
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
