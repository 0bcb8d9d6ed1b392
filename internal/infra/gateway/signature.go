// Package gateway adapts the payment processor's signature scheme. Both
// signatures are hex-encoded HMAC-SHA256, but over different inputs and
// with different secrets: the checkout callback signs "orderID|paymentID"
// with the API key secret, the webhook signs the raw request body with the
// dedicated webhook secret.
package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"stayhub/internal/pkg/config"
	"stayhub/internal/pkg/errs"
)

var errSignatureMismatch = errs.New("signature verification failed")

type HMACVerifier struct {
	keySecret     []byte
	webhookSecret []byte
}

func NewHMACVerifier(cfg config.GatewayConfig) *HMACVerifier {
	return &HMACVerifier{
		keySecret:     []byte(cfg.KeySecret),
		webhookSecret: []byte(cfg.WebhookSecret),
	}
}

func (v *HMACVerifier) VerifyCheckout(orderID, paymentID, signature string) error {
	return verify(v.keySecret, []byte(orderID+"|"+paymentID), signature)
}

func (v *HMACVerifier) VerifyWebhook(body []byte, signature string) error {
	return verify(v.webhookSecret, body, signature)
}

func verify(secret, payload []byte, signature string) error {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errs.Mark(errs.New("signature does not match payload"), errSignatureMismatch)
	}
	return nil
}

// Sign produces the checkout signature; exported for tests and for the
// sandbox tooling that simulates gateway callbacks.
func (v *HMACVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.keySecret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignWebhook produces a webhook body signature with the webhook secret.
func (v *HMACVerifier) SignWebhook(body []byte) string {
	mac := hmac.New(sha256.New, v.webhookSecret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
