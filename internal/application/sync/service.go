package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/laguna/integration/internal/domain/integration"
)

// Config carries the order processing knobs
type Config struct {
	AutoCreateCustomers bool
	FallbackItemID      string
	Retry               Policy
}

// Result is the outcome of a single order sync
type Result struct {
	OrderID         string `json:"order_id"`
	Message         string `json:"message,omitempty"`
	NetSuiteOrderID string `json:"netsuite_order_id,omitempty"`
	CustomerID      string `json:"customer_id,omitempty"`
	RetryCount      int    `json:"retry_count,omitempty"`
	RowNumber       int    `json:"row_number,omitempty"`
}

// BatchResult aggregates the per-order outcomes of a batch run
type BatchResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []Result     `json:"results"`
	Errors    []OrderError `json:"errors,omitempty"`
}

// OrderError records why one order in a batch failed
type OrderError struct {
	OrderID string `json:"order_id"`
	Error   string `json:"error"`
}

// OrderSyncService moves storefront orders into the ERP. It owns the
// customer lookup, idempotency check, item resolution and sales order
// creation steps plus the email notifications around them.
type OrderSyncService struct {
	storefront integration.StorefrontGateway
	erp        integration.ERPGateway
	notifier   integration.Notifier
	config     Config
	logger     *zap.Logger
}

// NewOrderSyncService creates a new OrderSyncService
func NewOrderSyncService(
	storefront integration.StorefrontGateway,
	erp integration.ERPGateway,
	notifier integration.Notifier,
	config Config,
	logger *zap.Logger,
) *OrderSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderSyncService{
		storefront: storefront,
		erp:        erp,
		notifier:   notifier,
		config:     config,
		logger:     logger.Named("sync"),
	}
}

// ProcessOrderID fetches an order from the storefront and syncs it,
// retrying transient failures per the configured policy. This is the
// webhook path; notifications are sent for both outcomes.
func (s *OrderSyncService) ProcessOrderID(ctx context.Context, orderID string) (*Result, error) {
	s.logger.Info("Processing order", zap.String("order_id", orderID))

	var (
		result *Result
		order  *integration.Order
	)
	attempt := 0

	err := s.config.Retry.Do(ctx, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.logger.Warn("Retrying order",
				zap.String("order_id", orderID),
				zap.Int("attempt", attempt))
		}

		var err error
		order, err = s.storefront.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, integration.ErrStorefrontOrderNotFound) {
				return Permanent(err)
			}
			return err
		}

		result, err = s.SyncOrder(ctx, order)
		return err
	})
	if err != nil {
		s.logger.Error("Order processing failed",
			zap.String("order_id", orderID),
			zap.Int("attempts", attempt),
			zap.Error(err))
		s.notifyFailure(ctx, orderID, err, attempt)
		return &Result{OrderID: orderID, RetryCount: attempt - 1}, err
	}

	result.RetryCount = attempt - 1
	s.notifySuccess(ctx, order, result)
	return result, nil
}

// SyncOrder pushes an already-fetched order into the ERP. Manual
// uploads call this directly so failures surface immediately instead
// of burning the retry budget.
func (s *OrderSyncService) SyncOrder(ctx context.Context, order *integration.Order) (*Result, error) {
	if errs := order.Validate(); errs.HasErrors() {
		return nil, Permanent(fmt.Errorf("order validation failed: %w", errs))
	}

	customerID, err := s.getOrCreateCustomer(ctx, order)
	if err != nil {
		return nil, err
	}

	existing, err := s.erp.FindSalesOrderByExternalID(ctx, order.ExternalID())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Order already exists in NetSuite",
			zap.String("order_id", order.ID),
			zap.String("netsuite_order_id", existing.InternalID))
		return &Result{
			OrderID:         order.ID,
			Message:         "Order already exists",
			NetSuiteOrderID: existing.InternalID,
			CustomerID:      customerID,
			RowNumber:       order.RowNumber,
		}, nil
	}

	lines, err := s.resolveLines(ctx, order)
	if err != nil {
		return nil, err
	}

	created, err := s.erp.CreateSalesOrder(ctx, order, customerID, lines)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order synced to NetSuite",
		zap.String("order_id", order.ID),
		zap.String("netsuite_order_id", created.InternalID),
		zap.String("customer_id", customerID))

	return &Result{
		OrderID:         order.ID,
		Message:         "Order processed successfully",
		NetSuiteOrderID: created.InternalID,
		CustomerID:      customerID,
		RowNumber:       order.RowNumber,
	}, nil
}

// ProcessBatch syncs a list of storefront order IDs and emails a
// summary when done. Individual failures do not abort the batch.
func (s *OrderSyncService) ProcessBatch(ctx context.Context, orderIDs []string) (*BatchResult, error) {
	batch := &BatchResult{Total: len(orderIDs)}

	for _, orderID := range orderIDs {
		result, err := s.ProcessOrderID(ctx, orderID)
		if err != nil {
			batch.Failed++
			batch.Errors = append(batch.Errors, OrderError{OrderID: orderID, Error: err.Error()})
			continue
		}
		batch.Succeeded++
		batch.Results = append(batch.Results, *result)
	}

	s.notifyBatch(ctx, batch)
	return batch, nil
}

// getOrCreateCustomer resolves the NetSuite internal id for the order's
// customer, creating the record when allowed.
func (s *OrderSyncService) getOrCreateCustomer(ctx context.Context, order *integration.Order) (string, error) {
	customer := integration.CustomerFromOrder(order)
	if customer.Email == "" {
		return "", Permanent(integration.ErrCustomerEmailRequired)
	}

	existing, err := s.erp.FindCustomerByEmail(ctx, customer.Email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		s.logger.Debug("Customer found in NetSuite",
			zap.String("email", customer.Email),
			zap.String("customer_id", existing.InternalID))
		return existing.InternalID, nil
	}

	if !s.config.AutoCreateCustomers {
		return "", Permanent(fmt.Errorf("%w: %s", integration.ErrAutoCreateDisabled, customer.Email))
	}

	if errs := customer.Validate(); errs.HasErrors() {
		return "", Permanent(fmt.Errorf("customer validation failed: %w", errs))
	}

	created, err := s.erp.CreateCustomer(ctx, customer)
	if err != nil {
		return "", err
	}

	s.logger.Info("Customer created in NetSuite",
		zap.String("email", customer.Email),
		zap.String("customer_id", created.InternalID))
	return created.InternalID, nil
}

// resolveLines maps order items to NetSuite item internal ids. Unknown
// SKUs are created as non-inventory items; when that fails the
// configured fallback item is used instead, if there is one.
func (s *OrderSyncService) resolveLines(ctx context.Context, order *integration.Order) ([]integration.SalesOrderLine, error) {
	lines := make([]integration.SalesOrderLine, 0, len(order.Items))

	for _, item := range order.Items {
		itemID, err := s.resolveItem(ctx, item)
		if err != nil {
			return nil, err
		}

		description := item.Description
		if description == "" {
			description = item.Name
		}

		lines = append(lines, integration.SalesOrderLine{
			ItemID:      itemID,
			Quantity:    item.Quantity,
			Rate:        item.UnitPrice,
			Description: description,
		})
	}

	return lines, nil
}

func (s *OrderSyncService) resolveItem(ctx context.Context, item integration.OrderItem) (string, error) {
	found, err := s.erp.FindItemBySKU(ctx, item.CatalogID)
	if err == nil && found != nil {
		return found.InternalID, nil
	}
	if err != nil {
		s.logger.Warn("Item lookup failed",
			zap.String("sku", item.CatalogID),
			zap.Error(err))
	}

	created, createErr := s.erp.CreateNonInventoryItem(ctx, item)
	if createErr == nil {
		s.logger.Info("Created non-inventory item",
			zap.String("sku", item.CatalogID),
			zap.String("item_id", created.InternalID))
		return created.InternalID, nil
	}

	s.logger.Warn("Item creation failed",
		zap.String("sku", item.CatalogID),
		zap.Error(createErr))

	if s.config.FallbackItemID != "" {
		s.logger.Info("Using fallback item",
			zap.String("sku", item.CatalogID),
			zap.String("fallback_item_id", s.config.FallbackItemID))
		return s.config.FallbackItemID, nil
	}

	return "", Permanent(fmt.Errorf("%w: %s", integration.ErrItemResolutionFailed, item.CatalogID))
}

func (s *OrderSyncService) notifySuccess(ctx context.Context, order *integration.Order, result *Result) {
	details := []integration.Detail{
		{Label: "NetSuite Order ID", Value: result.NetSuiteOrderID},
		{Label: "Customer ID", Value: result.CustomerID},
		{Label: "Order Total", Value: fmt.Sprintf("$%.2f", order.Total.InexactFloat64())},
		{Label: "Items Count", Value: fmt.Sprintf("%d", len(order.Items))},
	}
	if err := s.notifier.SendOrderNotification(ctx, result.OrderID, "Successfully Processed", details); err != nil {
		s.logger.Warn("Success notification failed",
			zap.String("order_id", result.OrderID),
			zap.Error(err))
	}
}

func (s *OrderSyncService) notifyFailure(ctx context.Context, orderID string, cause error, attempts int) {
	details := []integration.Detail{
		{Label: "Error", Value: cause.Error()},
		{Label: "Retry Count", Value: fmt.Sprintf("%d", attempts-1)},
		{Label: "Max Retries", Value: fmt.Sprintf("%d", s.config.Retry.Attempts)},
	}
	if err := s.notifier.SendOrderNotification(ctx, orderID, "Processing Failed", details); err != nil {
		s.logger.Warn("Failure notification failed",
			zap.String("order_id", orderID),
			zap.Error(err))
	}
}

func (s *OrderSyncService) notifyBatch(ctx context.Context, batch *BatchResult) {
	rate := "0%"
	if batch.Total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(batch.Succeeded)/float64(batch.Total)*100)
	}

	details := []integration.Detail{
		{Label: "Total Orders", Value: fmt.Sprintf("%d", batch.Total)},
		{Label: "Successful", Value: fmt.Sprintf("%d", batch.Succeeded)},
		{Label: "Failed", Value: fmt.Sprintf("%d", batch.Failed)},
		{Label: "Success Rate", Value: rate},
	}
	if len(batch.Errors) > 0 {
		var sb strings.Builder
		for i, e := range batch.Errors {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "%s: %s; ", e.OrderID, e.Error)
		}
		details = append(details, integration.Detail{
			Label: "First 5 Errors",
			Value: strings.TrimSuffix(sb.String(), "; "),
		})
	}

	if err := s.notifier.SendOrderNotification(ctx, "Batch", "Batch Processing Completed", details); err != nil {
		s.logger.Warn("Batch notification failed", zap.Error(err))
	}
}
