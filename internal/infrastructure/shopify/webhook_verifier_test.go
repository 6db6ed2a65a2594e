package shopify

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sign(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier(t *testing.T) {
	verifier := NewWebhookVerifier("webhook-secret")
	payload := []byte(`{"domain":"shop.example.com"}`)

	t.Run("accepts a valid signature", func(t *testing.T) {
		assert.NoError(t, verifier.Verify(payload, sign("webhook-secret", payload)))
	})

	t.Run("rejects a signature from another secret", func(t *testing.T) {
		assert.Error(t, verifier.Verify(payload, sign("other-secret", payload)))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		signature := sign("webhook-secret", payload)
		assert.Error(t, verifier.Verify([]byte(`{"domain":"evil.example.com"}`), signature))
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		assert.Error(t, verifier.Verify(payload, ""))
	})
}
