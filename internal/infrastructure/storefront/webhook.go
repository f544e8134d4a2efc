package storefront

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/laguna/integration/internal/domain/integration"
)

// SignatureHeader carries the hex-encoded HMAC of the raw request body.
const SignatureHeader = "X-Signature"

// WebhookEvent is the decoded payload of an inbound order webhook
type WebhookEvent struct {
	OrderID   json.Number `json:"OrderID"`
	EventType string      `json:"EventType"`
}

// WebhookVerifier validates and decodes inbound 3DCart webhooks
type WebhookVerifier struct {
	secret []byte
}

// NewWebhookVerifier creates a verifier with the shared secret.
// An empty secret disables signature enforcement.
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: []byte(secret)}
}

// Enforced reports whether signature verification is active
func (v *WebhookVerifier) Enforced() bool {
	return len(v.secret) > 0
}

// Verify checks the hex-encoded HMAC-SHA256 signature against the raw body.
// Comparison is constant-time.
func (v *WebhookVerifier) Verify(body []byte, signature string) error {
	if !v.Enforced() {
		return nil
	}
	if signature == "" {
		return fmt.Errorf("%w: missing signature", integration.ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) != 1 {
		return integration.ErrInvalidSignature
	}
	return nil
}

// ParseWebhookEvent decodes a webhook body and validates required fields
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidPayload, err)
	}
	if event.OrderID.String() == "" {
		return nil, fmt.Errorf("%w: missing OrderID", integration.ErrStorefrontInvalidPayload)
	}
	if event.EventType == "" {
		event.EventType = "unknown"
	}
	return &event, nil
}
