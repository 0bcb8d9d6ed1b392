//go:build unit

package gateway_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"stayhub/internal/infra/gateway"
	"stayhub/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerifier() *gateway.HMACVerifier {
	return gateway.NewHMACVerifier(config.GatewayConfig{
		KeyID:         "key_test",
		KeySecret:     "checkout-secret",
		WebhookSecret: "webhook-secret",
	})
}

func TestVerifyCheckout(t *testing.T) {
	v := newVerifier()

	t.Run("accepts the signature over orderID|paymentID", func(t *testing.T) {
		sig := v.Sign("order_1", "pay_1")
		assert.NoError(t, v.VerifyCheckout("order_1", "pay_1", sig))
	})

	t.Run("rejects a tampered payment id", func(t *testing.T) {
		sig := v.Sign("order_1", "pay_1")
		assert.Error(t, v.VerifyCheckout("order_1", "pay_2", sig))
	})

	t.Run("rejects a signature made with the webhook secret", func(t *testing.T) {
		mac := hmac.New(sha256.New, []byte("webhook-secret"))
		mac.Write([]byte("order_1|pay_1"))
		wrongSecretSig := hex.EncodeToString(mac.Sum(nil))
		assert.Error(t, v.VerifyCheckout("order_1", "pay_1", wrongSecretSig))
	})
}

func TestVerifyWebhook(t *testing.T) {
	v := newVerifier()
	body := []byte(`{"id":"evt_1","event":"payment.captured"}`)

	t.Run("accepts the body signature", func(t *testing.T) {
		sig := v.SignWebhook(body)
		require.NoError(t, v.VerifyWebhook(body, sig))
	})

	t.Run("rejects a modified body", func(t *testing.T) {
		sig := v.SignWebhook(body)
		assert.Error(t, v.VerifyWebhook([]byte(`{"id":"evt_2"}`), sig))
	})

	t.Run("rejects an empty signature", func(t *testing.T) {
		assert.Error(t, v.VerifyWebhook(body, ""))
	})
}
