package storefront

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laguna/integration/internal/domain/integration"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWebhookVerifier_Verify(t *testing.T) {
	secret := "webhook-secret"
	body := []byte(`{"OrderID": 12345, "EventType": "order_created"}`)

	v := NewWebhookVerifier(secret)
	assert.True(t, v.Enforced())

	t.Run("valid signature", func(t *testing.T) {
		assert.NoError(t, v.Verify(body, sign(secret, body)))
	})

	t.Run("wrong signature", func(t *testing.T) {
		err := v.Verify(body, sign("other-secret", body))
		assert.ErrorIs(t, err, integration.ErrInvalidSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		sig := sign(secret, body)
		err := v.Verify([]byte(`{"OrderID": 99999}`), sig)
		assert.ErrorIs(t, err, integration.ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		err := v.Verify(body, "")
		assert.ErrorIs(t, err, integration.ErrInvalidSignature)
	})
}

func TestWebhookVerifier_Disabled(t *testing.T) {
	v := NewWebhookVerifier("")
	assert.False(t, v.Enforced())
	assert.NoError(t, v.Verify([]byte("anything"), ""))
	assert.NoError(t, v.Verify([]byte("anything"), "bogus"))
}

func TestParseWebhookEvent(t *testing.T) {
	t.Run("numeric order id", func(t *testing.T) {
		event, err := ParseWebhookEvent([]byte(`{"OrderID": 12345, "EventType": "order_created"}`))
		require.NoError(t, err)
		assert.Equal(t, "12345", event.OrderID.String())
		assert.Equal(t, "order_created", event.EventType)
	})

	t.Run("string order id", func(t *testing.T) {
		event, err := ParseWebhookEvent([]byte(`{"OrderID": "12345"}`))
		require.NoError(t, err)
		assert.Equal(t, "12345", event.OrderID.String())
		assert.Equal(t, "unknown", event.EventType)
	})

	t.Run("missing order id", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte(`{"EventType": "order_created"}`))
		assert.ErrorIs(t, err, integration.ErrStorefrontInvalidPayload)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseWebhookEvent([]byte(`{not json`))
		assert.ErrorIs(t, err, integration.ErrStorefrontInvalidPayload)
	})
}
