package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/laguna/integration/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from the 3DCart API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ServiceName identifies this gateway in connection status reports
const ServiceName = "3DCart"

// Client implements StorefrontGateway against the 3DCart REST API
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new 3DCart API client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("storefront"),
	}, nil
}

// GetOrder retrieves a single order and converts it to the domain model
func (c *Client) GetOrder(ctx context.Context, orderID string) (*integration.Order, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/Orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: order %s", integration.ErrStorefrontOrderNotFound, orderID)
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d retrieving order %s", integration.ErrStorefrontRequestFailed, status, orderID)
	}

	// 3DCart returns single orders as a one-element array
	var payloads []orderPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		var single orderPayload
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidPayload, err)
		}
		payloads = []orderPayload{single}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: order %s", integration.ErrStorefrontOrderNotFound, orderID)
	}

	order := payloads[0].toDomain()
	c.logger.Info("Retrieved order",
		zap.String("order_id", order.ID),
		zap.String("customer_id", order.CustomerID),
		zap.Int("item_count", len(order.Items)),
	)
	return order, nil
}

// GetCustomer retrieves a customer record
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*integration.Customer, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/Customers/"+url.PathEscape(customerID), nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d retrieving customer %s", integration.ErrStorefrontRequestFailed, status, customerID)
	}

	var payloads []customerPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		var single customerPayload
		if err2 := json.Unmarshal(body, &single); err2 != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidPayload, err)
		}
		payloads = []customerPayload{single}
	}
	if len(payloads) == 0 {
		return nil, fmt.Errorf("%w: customer %s not found", integration.ErrStorefrontRequestFailed, customerID)
	}

	customer := payloads[0].toDomain()
	c.logger.Info("Retrieved customer",
		zap.String("customer_id", customer.ID),
		zap.String("email", customer.Email),
	)
	return customer, nil
}

// ListOrders retrieves a page of orders
func (c *Client) ListOrders(ctx context.Context, limit, offset int) ([]*integration.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	path := fmt.Sprintf("/Orders?limit=%d&offset=%d", limit, offset)
	body, status, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	// 3DCart answers 404 for an empty result page
	if status == http.StatusNotFound {
		return nil, nil
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d listing orders", integration.ErrStorefrontRequestFailed, status)
	}

	var payloads []orderPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidPayload, err)
	}

	orders := make([]*integration.Order, 0, len(payloads))
	for i := range payloads {
		orders = append(orders, payloads[i].toDomain())
	}

	c.logger.Info("Retrieved orders",
		zap.Int("count", len(orders)),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)
	return orders, nil
}

// UpdateOrderStatus updates the status of an order, optionally attaching
// an internal comment visible to store staff
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, statusID int, comment string) error {
	update := map[string]any{
		"OrderStatusID": statusID,
	}
	if comment != "" {
		update["InternalComments"] = comment
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("storefront: failed to encode status update: %w", err)
	}

	_, status, err := c.doRequest(ctx, http.MethodPut, "/Orders/"+url.PathEscape(orderID), payload)
	if err != nil {
		return err
	}
	if status >= 400 {
		return fmt.Errorf("%w: HTTP %d updating order %s", integration.ErrStorefrontRequestFailed, status, orderID)
	}

	c.logger.Info("Updated order status",
		zap.String("order_id", orderID),
		zap.Int("status_id", statusID),
	)
	return nil
}

// GetOrderStatuses retrieves the store's configured order statuses
func (c *Client) GetOrderStatuses(ctx context.Context) ([]OrderStatus, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, "/OrderStatuses", nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d retrieving order statuses", integration.ErrStorefrontRequestFailed, status)
	}

	var statuses []OrderStatus
	if err := json.Unmarshal(body, &statuses); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrStorefrontInvalidPayload, err)
	}
	return statuses, nil
}

// TestConnection performs a cheap authenticated request and reports the outcome
func (c *Client) TestConnection(ctx context.Context) integration.ConnectionStatus {
	start := time.Now()
	_, status, err := c.doRequest(ctx, http.MethodGet, "/Orders?limit=1", nil)
	elapsed := time.Since(start)

	result := integration.ConnectionStatus{
		Service:      ServiceName,
		StatusCode:   status,
		ResponseTime: elapsed,
	}

	switch {
	case err != nil:
		result.Error = err.Error()
	case status >= 400 && status != http.StatusNotFound:
		// An empty store answers 404 with valid credentials
		result.Error = "HTTP " + strconv.Itoa(status)
	default:
		result.Healthy = true
	}

	if !result.Healthy {
		c.logger.Error("Connection test failed",
			zap.Int("status", status),
			zap.String("error", result.Error),
		)
	}
	return result
}

// doRequest performs an HTTP request against the 3DCart API.
// It returns the body and status code; callers map non-2xx statuses
// so 404 can mean "not found" rather than failure where appropriate.
func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.baseURL()+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("storefront: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("PrivateKey", c.config.PrivateKey)
	req.Header.Set("Token", c.config.Token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", integration.ErrStorefrontUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Storefront request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("storefront: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// Ensure Client implements StorefrontGateway interface
var _ integration.StorefrontGateway = (*Client)(nil)
