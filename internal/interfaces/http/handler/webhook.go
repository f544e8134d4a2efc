package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laguna/integration/internal/application/sync"
	"github.com/laguna/integration/internal/infrastructure/logger"
	"github.com/laguna/integration/internal/infrastructure/storefront"
	"github.com/laguna/integration/internal/interfaces/http/dto"
)

// orderProcessor is the slice of the sync service the webhook needs.
type orderProcessor interface {
	ProcessOrderID(ctx context.Context, orderID string) (*sync.Result, error)
	ProcessBatch(ctx context.Context, orderIDs []string) (*sync.BatchResult, error)
}

// WebhookHandler receives storefront order webhooks
type WebhookHandler struct {
	BaseHandler
	verifier  *storefront.WebhookVerifier
	processor orderProcessor
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(verifier *storefront.WebhookVerifier, processor orderProcessor) *WebhookHandler {
	return &WebhookHandler{
		verifier:  verifier,
		processor: processor,
	}
}

// RegisterRoutes registers webhook routes
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhook := rg.Group("/webhook")
	{
		webhook.POST("/order", h.HandleOrder)
	}
}

// HandleOrder processes an inbound order-created webhook. The raw body
// is read before decoding because the signature covers its exact bytes.
func (h *WebhookHandler) HandleOrder(c *gin.Context) {
	log := logger.GetGinLogger(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.Error(c, 400, dto.ErrCodeBadRequest, "failed to read request body")
		return
	}

	if err := h.verifier.Verify(body, c.GetHeader(storefront.SignatureHeader)); err != nil {
		log.Warn("Webhook signature rejected",
			zap.String("client_ip", c.ClientIP()),
			zap.Error(err))
		h.ErrorFromErr(c, err)
		return
	}

	event, err := storefront.ParseWebhookEvent(body)
	if err != nil {
		log.Warn("Webhook payload rejected", zap.Error(err))
		h.ErrorFromErr(c, err)
		return
	}

	log.Info("Webhook received",
		zap.String("order_id", event.OrderID.String()),
		zap.String("event_type", event.EventType))

	result, err := h.processor.ProcessOrderID(c.Request.Context(), event.OrderID.String())
	if err != nil {
		log.Error("Webhook order processing failed",
			zap.String("order_id", event.OrderID.String()),
			zap.Error(err))
		h.ErrorFromErr(c, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Order processed successfully"
	}
	h.Success(c, message, result)
}
