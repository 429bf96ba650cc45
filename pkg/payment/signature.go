package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the gateway callback signature: a hex HMAC-SHA256 over
// "<orderId>|<paymentId>" keyed with the shared secret.
func Signature(orderId, paymentId, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderId + "|" + paymentId))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares in constant time. A match proves the client saw a
// gateway-issued callback, not that the capture was independently confirmed.
func VerifySignature(orderId, paymentId, secret, signature string) bool {
	expected := Signature(orderId, paymentId, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
