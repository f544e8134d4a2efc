package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RemoteCustomer is a customer record as it exists in the ERP.
type RemoteCustomer struct {
	InternalID string
	Email      string
	FirstName  string
	LastName   string
	Company    string
}

// RemoteSalesOrder is a sales order record as it exists in the ERP.
type RemoteSalesOrder struct {
	InternalID string
	ExternalID string
	TranID     string
}

// RemoteItem is a catalog item record as it exists in the ERP.
type RemoteItem struct {
	InternalID string
	SKU        string
}

// SalesOrderLine is a resolved line item ready for sales order creation:
// the ERP internal item ID plus the storefront quantity and rate.
type SalesOrderLine struct {
	ItemID      string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Description string
}

// ConnectionStatus is the outcome of probing one vendor API.
type ConnectionStatus struct {
	Service      string
	Healthy      bool
	StatusCode   int
	ResponseTime time.Duration
	Error        string
}

// StorefrontGateway is the port implemented by the 3DCart REST adapter.
type StorefrontGateway interface {
	// GetOrder fetches and normalizes a single order by its storefront ID.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// GetCustomer fetches a storefront customer record by ID.
	GetCustomer(ctx context.Context, customerID string) (*Customer, error)

	// ListOrders fetches a page of orders, newest first.
	ListOrders(ctx context.Context, limit, offset int) ([]*Order, error)

	// UpdateOrderStatus sets the storefront status for an order, optionally
	// attaching an internal comment.
	UpdateOrderStatus(ctx context.Context, orderID string, statusID int, comment string) error

	// TestConnection probes the storefront API.
	TestConnection(ctx context.Context) ConnectionStatus
}

// ERPGateway is the port implemented by the NetSuite REST adapter.
// Find methods return (nil, nil) when no record matches.
type ERPGateway interface {
	FindCustomerByEmail(ctx context.Context, email string) (*RemoteCustomer, error)
	CreateCustomer(ctx context.Context, c *Customer) (*RemoteCustomer, error)

	FindSalesOrderByExternalID(ctx context.Context, externalID string) (*RemoteSalesOrder, error)
	CreateSalesOrder(ctx context.Context, o *Order, customerID string, lines []SalesOrderLine) (*RemoteSalesOrder, error)

	FindItemBySKU(ctx context.Context, sku string) (*RemoteItem, error)
	CreateNonInventoryItem(ctx context.Context, item OrderItem) (*RemoteItem, error)

	TestConnection(ctx context.Context) ConnectionStatus
}

// Notifier is the port implemented by the email adapter. Implementations
// must treat disabled notifications as a silent no-op.
type Notifier interface {
	// SendOrderNotification reports one order's processing outcome. Details
	// preserve insertion order in the rendered message.
	SendOrderNotification(ctx context.Context, orderID, status string, details []Detail) error

	// SendErrorNotification reports an integration failure with context.
	SendErrorNotification(ctx context.Context, message string, errCtx map[string]string) error

	// SendConnectionAlert reports a vendor connectivity change.
	SendConnectionAlert(ctx context.Context, service string, healthy bool, details map[string]string) error

	// SendDailySummary reports aggregate counts for the day.
	SendDailySummary(ctx context.Context, summary DailySummary) error

	// TestConnection probes the mail API.
	TestConnection(ctx context.Context) ConnectionStatus
}

// Detail is one labeled value in a notification body.
type Detail struct {
	Label string
	Value string
}

// DailySummary aggregates a day of synchronization activity.
type DailySummary struct {
	Date      time.Time
	Total     int
	Succeeded int
	Failed    int
	Errors    []string
}
