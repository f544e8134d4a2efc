package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laguna/integration/internal/application/importer"
	"github.com/laguna/integration/internal/domain/integration"
	"github.com/laguna/integration/internal/infrastructure/logger"
	"github.com/laguna/integration/internal/interfaces/http/dto"
)

// UploadFieldName is the multipart form field carrying the spreadsheet.
const UploadFieldName = "order_file"

// fileImporter is the slice of the importer service the handler needs.
type fileImporter interface {
	ImportFile(ctx context.Context, filename string, size int64, r io.Reader) (*importer.Result, error)
}

// batchRequest is the body of a batch processing call
type batchRequest struct {
	OrderIDs []string `json:"order_ids" binding:"required,min=1,dive,order_id"`
}

// statusUpdateRequest is the body of an order status update
type statusUpdateRequest struct {
	StatusID int    `json:"status_id" binding:"required"`
	Comment  string `json:"comment"`
}

// OrderHandler serves manual order operations: file uploads, single and
// batch processing, listing and status updates.
type OrderHandler struct {
	BaseHandler
	importer   fileImporter
	processor  orderProcessor
	storefront integration.StorefrontGateway
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(imp fileImporter, processor orderProcessor, storefront integration.StorefrontGateway) *OrderHandler {
	return &OrderHandler{
		importer:   imp,
		processor:  processor,
		storefront: storefront,
	}
}

// RegisterRoutes registers order routes
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.GET("", h.List)
		orders.POST("/upload", h.Upload)
		orders.POST("/process-batch", h.ProcessBatch)
		orders.POST("/:id/process", h.Process)
		orders.PUT("/:id/status", h.UpdateStatus)
	}
}

// Upload ingests a CSV or Excel file of orders
func (h *OrderHandler) Upload(c *gin.Context) {
	log := logger.GetGinLogger(c)

	fileHeader, err := c.FormFile(UploadFieldName)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "missing upload field: "+UploadFieldName)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "failed to open uploaded file")
		return
	}
	defer f.Close()

	log.Info("Processing uploaded file",
		zap.String("file", fileHeader.Filename),
		zap.Int64("size", fileHeader.Size))

	result, err := h.importer.ImportFile(c.Request.Context(), fileHeader.Filename, fileHeader.Size, f)
	if err != nil {
		log.Warn("Upload rejected",
			zap.String("file", fileHeader.Filename),
			zap.Error(err))
		h.ErrorFromErr(c, err)
		return
	}

	h.Success(c, "File processed", result)
}

// Process runs the synchronization workflow for one storefront order
func (h *OrderHandler) Process(c *gin.Context) {
	orderID := c.Param("id")

	result, err := h.processor.ProcessOrderID(c.Request.Context(), orderID)
	if err != nil {
		h.ErrorFromErr(c, err)
		return
	}

	message := result.Message
	if message == "" {
		message = "Order processed successfully"
	}
	h.Success(c, message, result)
}

// ProcessBatch runs the synchronization workflow over a list of orders
func (h *OrderHandler) ProcessBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	batch, err := h.processor.ProcessBatch(c.Request.Context(), req.OrderIDs)
	if err != nil {
		h.ErrorFromErr(c, err)
		return
	}

	h.Success(c, "Batch processed", batch)
}

// List returns a page of storefront orders
func (h *OrderHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.storefront.ListOrders(c.Request.Context(), limit, offset)
	if err != nil {
		h.ErrorFromErr(c, err)
		return
	}

	h.Success(c, "", gin.H{"orders": orders, "count": len(orders)})
}

// UpdateStatus sets the storefront status of an order
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	orderID := c.Param("id")
	if err := h.storefront.UpdateOrderStatus(c.Request.Context(), orderID, req.StatusID, req.Comment); err != nil {
		h.ErrorFromErr(c, err)
		return
	}

	h.Success(c, "Order status updated", gin.H{"order_id": orderID, "status_id": req.StatusID})
}
