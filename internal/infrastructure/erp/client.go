package erp

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

// maxResponseSize is the maximum allowed response size from the SuiteTalk API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ServiceName identifies this gateway in connection status reports
const ServiceName = "NetSuite"

// Client implements ERPGateway against the NetSuite SuiteTalk REST record API
type Client struct {
	config     *Config
	signer     *oauthSigner
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new NetSuite API client with the given configuration
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		signer: newOAuthSigner(config),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("erp"),
	}, nil
}

// FindCustomerByEmail searches for a customer record by email address.
// Returns (nil, nil) when no customer matches.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*integration.RemoteCustomer, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("email IS '%s'", email))
	query.Set("limit", "1")

	result, err := c.search(ctx, "/customer", query)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		c.logger.Info("Customer not found", zap.String("email", email))
		return nil, nil
	}

	customer := result.Items[0].toRemoteCustomer()
	c.logger.Info("Found existing customer",
		zap.String("email", email),
		zap.String("customer_id", customer.InternalID),
	)
	return customer, nil
}

// CreateCustomer creates a customer record and returns its internal ID
func (c *Client) CreateCustomer(ctx context.Context, customer *integration.Customer) (*integration.RemoteCustomer, error) {
	payload := customerPayload{
		CompanyName:    customer.Company,
		FirstName:      customer.FirstName,
		LastName:       customer.LastName,
		Email:          customer.Email,
		Phone:          customer.Phone,
		IsPerson:       customer.IsPerson(),
		Subsidiary:     recordRef{ID: defaultSubsidiaryID},
		DefaultAddress: formatAddress(customer.Billing),
	}

	created, err := c.create(ctx, "/customer", payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created customer",
		zap.String("email", customer.Email),
		zap.String("customer_id", created.ID),
		zap.String("name", customer.FullName()),
	)
	return &integration.RemoteCustomer{
		InternalID: created.ID,
		Email:      customer.Email,
		FirstName:  customer.FirstName,
		LastName:   customer.LastName,
		Company:    customer.Company,
	}, nil
}

// FindSalesOrderByExternalID looks up a sales order by its external ID.
// Returns (nil, nil) when no order matches.
func (c *Client) FindSalesOrderByExternalID(ctx context.Context, externalID string) (*integration.RemoteSalesOrder, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("externalId IS '%s'", externalID))
	query.Set("limit", "1")

	result, err := c.search(ctx, "/salesorder", query)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return result.Items[0].toRemoteSalesOrder(), nil
}

// CreateSalesOrder creates a sales order for the given customer with
// pre-resolved line items
func (c *Client) CreateSalesOrder(ctx context.Context, order *integration.Order, customerID string, lines []integration.SalesOrderLine) (*integration.RemoteSalesOrder, error) {
	payload := salesOrderPayload{
		Entity:      recordRef{ID: customerID},
		TranDate:    order.Date.Format("2006-01-02"),
		OrderStatus: "A", // Pending Approval
		ExternalID:  order.ExternalID(),
		Memo:        fmt.Sprintf("Order imported from 3DCart - Order #%s", order.ID),
		Subsidiary:  recordRef{ID: defaultSubsidiaryID},
		Location:    recordRef{ID: defaultLocationID},
		BillAddress: formatAddress(order.Billing),
		ShipAddress: formatAddress(order.ShippingOrBilling()),
		Items:       make([]salesOrderLineNS, 0, len(lines)),
	}

	for _, line := range lines {
		payload.Items = append(payload.Items, salesOrderLineNS{
			Item:        recordRef{ID: line.ItemID},
			Quantity:    line.Quantity.InexactFloat64(),
			Rate:        line.Rate.InexactFloat64(),
			Description: line.Description,
		})
	}

	created, err := c.create(ctx, "/salesorder", payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created sales order",
		zap.String("order_id", order.ID),
		zap.String("netsuite_order_id", created.ID),
		zap.String("customer_id", customerID),
		zap.Int("line_count", len(lines)),
	)
	return &integration.RemoteSalesOrder{
		InternalID: created.ID,
		ExternalID: order.ExternalID(),
		TranID:     created.TranID,
	}, nil
}

// FindItemBySKU looks up an item record by its item ID (SKU).
// Returns (nil, nil) when no item matches.
func (c *Client) FindItemBySKU(ctx context.Context, sku string) (*integration.RemoteItem, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("itemId IS '%s'", sku))
	query.Set("limit", "1")

	result, err := c.search(ctx, "/item", query)
	if err != nil {
		return nil, err
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return result.Items[0].toRemoteItem(), nil
}

// CreateNonInventoryItem creates a non-inventory item record for a SKU
// that does not exist yet
func (c *Client) CreateNonInventoryItem(ctx context.Context, item integration.OrderItem) (*integration.RemoteItem, error) {
	payload := itemPayload{
		ItemID:          item.CatalogID,
		DisplayName:     item.Name,
		Description:     item.Name,
		BasePrice:       item.UnitPrice.InexactFloat64(),
		IncludeChildren: false,
		IsInactive:      false,
		Subsidiary:      []recordRef{{ID: defaultSubsidiaryID}},
	}

	created, err := c.create(ctx, "/noninventoryitem", payload)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Created non-inventory item",
		zap.String("sku", item.CatalogID),
		zap.String("name", item.Name),
		zap.String("netsuite_id", created.ID),
	)
	return &integration.RemoteItem{
		InternalID: created.ID,
		SKU:        item.CatalogID,
	}, nil
}

// TestConnection performs a cheap authenticated query and reports the outcome
func (c *Client) TestConnection(ctx context.Context) integration.ConnectionStatus {
	query := url.Values{}
	query.Set("limit", "1")

	start := time.Now()
	_, status, err := c.doRequest(ctx, http.MethodGet, "/customer", query, nil)
	elapsed := time.Since(start)

	result := integration.ConnectionStatus{
		Service:      ServiceName,
		StatusCode:   status,
		ResponseTime: elapsed,
	}

	switch {
	case err != nil:
		result.Error = err.Error()
	case status >= 400:
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

// search performs a GET query and decodes the search envelope
func (c *Client) search(ctx context.Context, path string, query url.Values) (*searchResponse, error) {
	body, status, err := c.doRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d querying %s", integration.ErrERPRequestFailed, status, path)
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrERPInvalidResponse, err)
	}
	return &result, nil
}

// create performs a POST and decodes the created record
func (c *Client) create(ctx context.Context, path string, payload any) (*createdRecord, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("erp: failed to encode request: %w", err)
	}

	respBody, status, err := c.doRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d creating %s record", integration.ErrERPRequestFailed, status, path)
	}

	var created createdRecord
	if len(respBody) > 0 {
		if err := json.Unmarshal(respBody, &created); err != nil {
			return nil, fmt.Errorf("%w: %v", integration.ErrERPInvalidResponse, err)
		}
	}
	if created.ID == "" {
		return nil, fmt.Errorf("%w: created record has no id", integration.ErrERPInvalidResponse)
	}
	return &created, nil
}

// doRequest performs a signed HTTP request against the SuiteTalk record API
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, int, error) {
	requestURL := c.config.recordBaseURL() + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	fullURL := requestURL
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("erp: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.signer.AuthHeader(method, requestURL, query))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", integration.ErrERPUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("ERP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("erp: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// Ensure Client implements ERPGateway interface
var _ integration.ERPGateway = (*Client)(nil)
