package importer

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laguna/integration/internal/application/sync"
	"github.com/laguna/integration/internal/domain/integration"
	"github.com/laguna/integration/internal/infrastructure/upload"
)

type fakeSyncer struct {
	orders  []*integration.Order
	failFor map[string]error
}

func (f *fakeSyncer) SyncOrder(_ context.Context, order *integration.Order) (*sync.Result, error) {
	f.orders = append(f.orders, order)
	if err, ok := f.failFor[order.ID]; ok {
		return nil, err
	}
	return &sync.Result{
		OrderID:         order.ID,
		NetSuiteOrderID: "901",
		CustomerID:      "42",
		RowNumber:       order.RowNumber,
	}, nil
}

type sentNotification struct {
	orderID string
	status  string
	details []integration.Detail
}

type fakeNotifier struct {
	sent   []sentNotification
	errors []string
}

func (f *fakeNotifier) SendOrderNotification(_ context.Context, orderID, status string, details []integration.Detail) error {
	f.sent = append(f.sent, sentNotification{orderID: orderID, status: status, details: details})
	return nil
}

func (f *fakeNotifier) SendErrorNotification(_ context.Context, message string, _ map[string]string) error {
	f.errors = append(f.errors, message)
	return nil
}

func (f *fakeNotifier) SendConnectionAlert(context.Context, string, bool, map[string]string) error {
	return nil
}

func (f *fakeNotifier) SendDailySummary(context.Context, integration.DailySummary) error {
	return nil
}

func (f *fakeNotifier) TestConnection(context.Context) integration.ConnectionStatus {
	return integration.ConnectionStatus{Service: "SendGrid", Healthy: true}
}

var _ integration.Notifier = (*fakeNotifier)(nil)

func testService(t *testing.T) (*Service, *fakeSyncer, *fakeNotifier) {
	t.Helper()
	syncer := &fakeSyncer{failFor: map[string]error{}}
	notifier := &fakeNotifier{}
	svc := NewService(syncer, notifier, Config{
		MaxFileSize:       1 << 20,
		AllowedExtensions: []string{"csv", "xlsx", "xls"},
		Path:              t.TempDir(),
	}, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC) }
	svc.newID = func() string { return "fixed-id" }
	return svc, syncer, notifier
}

func row(line int, fields map[string]string) *upload.Row {
	return &upload.Row{LineNumber: line, Fields: fields}
}

func TestNormalizeRow_Defaults(t *testing.T) {
	svc, _, _ := testService(t)

	order := svc.normalizeRow(row(2, map[string]string{
		upload.FieldItemName: "Widget",
	}))

	assert.Equal(t, "MANUAL_fixedid", order.ID)
	assert.Equal(t, "0", order.CustomerID)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC), order.Date)
	assert.Equal(t, 1, order.StatusID)
	assert.Equal(t, "US", order.Billing.Country)
	assert.Equal(t, 2, order.RowNumber)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "UNKNOWN", item.CatalogID)
	assert.Equal(t, "Widget", item.Name)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(1)))
}

func TestNormalizeRow_KeepsProvidedValues(t *testing.T) {
	svc, _, _ := testService(t)

	order := svc.normalizeRow(row(3, map[string]string{
		upload.FieldOrderID:       "12345",
		upload.FieldCustomerID:    "777",
		upload.FieldOrderDate:     "2024-02-01",
		upload.FieldOrderStatusID: "4",
		upload.FieldOrderTotal:    "$1,250.00",
		upload.FieldBillingFirst:  "Jane",
		upload.FieldBillingLast:   "Doe",
		upload.FieldBillingEmail:  "jane@example.com",
		upload.FieldCatalogID:     "SKU-1",
		upload.FieldItemName:      "Widget",
		upload.FieldQuantity:      "3",
		upload.FieldItemPrice:     "416.67",
	}))

	assert.Equal(t, "12345", order.ID)
	assert.Equal(t, "777", order.CustomerID)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), order.Date)
	assert.Equal(t, 4, order.StatusID)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(1250)))
	assert.Equal(t, "jane@example.com", order.BillingEmail)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, "SKU-1", item.CatalogID)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(416.67)))
}

func TestNormalizeRow_ShippingFallsBackToBilling(t *testing.T) {
	svc, _, _ := testService(t)

	order := svc.normalizeRow(row(2, map[string]string{
		upload.FieldBillingFirst:   "Jane",
		upload.FieldBillingAddress: "1 Main St",
		upload.FieldBillingCity:    "Laguna Beach",
		upload.FieldItemName:       "Widget",
	}))

	assert.Equal(t, order.Billing, order.Shipping)
}

func TestNormalizeRow_ItemPriceDefaultsToOrderTotal(t *testing.T) {
	svc, _, _ := testService(t)

	order := svc.normalizeRow(row(2, map[string]string{
		upload.FieldOrderTotal: "99.95",
		upload.FieldItemName:   "Widget",
	}))

	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(decimal.NewFromFloat(99.95)))
}

func TestNormalizeRow_NoItemColumnsYieldsNoItems(t *testing.T) {
	svc, _, _ := testService(t)

	order := svc.normalizeRow(row(2, map[string]string{
		upload.FieldOrderID: "12345",
	}))

	assert.Empty(t, order.Items)
}

const uploadCSV = `order_id,customer_id,order_date,billing_email,billing_first_name,billing_last_name,item_sku,item_name,quantity,item_price
100,777,2024-02-01,jane@example.com,Jane,Doe,SKU-1,Widget,2,75.25
200,778,2024-02-02,bob@example.com,Bob,Smith,SKU-2,Gadget,1,19.99
`

func TestImportFile(t *testing.T) {
	svc, syncer, notifier := testService(t)

	result, err := svc.ImportFile(context.Background(), "orders.csv", int64(len(uploadCSV)), strings.NewReader(uploadCSV))

	require.NoError(t, err)
	assert.Equal(t, "orders.csv", result.FileName)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 0, result.Failed)

	require.Len(t, result.Processed, 2)
	assert.Equal(t, "100", result.Processed[0].OrderID)
	assert.Equal(t, 2, result.Processed[0].RowNumber)
	assert.Equal(t, "200", result.Processed[1].OrderID)

	require.Len(t, syncer.orders, 2)
	assert.Equal(t, "jane@example.com", syncer.orders[0].BillingEmail)

	require.Len(t, notifier.sent, 1)
	note := notifier.sent[0]
	assert.Equal(t, "Manual Upload", note.orderID)
	assert.Equal(t, "Manual Upload Processing Complete", note.status)
	assert.Contains(t, note.details, integration.Detail{Label: "Total Orders", Value: "2"})
	assert.Contains(t, note.details, integration.Detail{Label: "Success Rate", Value: "100.0%"})
}

func TestImportFile_PartialFailure(t *testing.T) {
	svc, syncer, notifier := testService(t)
	syncer.failFor["200"] = errors.New("customer validation failed")

	result, err := svc.ImportFile(context.Background(), "orders.csv", int64(len(uploadCSV)), strings.NewReader(uploadCSV))

	require.NoError(t, err)
	assert.Equal(t, 1, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "200", result.Errors[0].OrderID)
	assert.Equal(t, 3, result.Errors[0].RowNumber)

	note := notifier.sent[0]
	assert.Contains(t, note.details, integration.Detail{Label: "Success Rate", Value: "50.0%"})

	var errDetail string
	for _, d := range note.details {
		if d.Label == "First 5 Errors" {
			errDetail = d.Value
		}
	}
	assert.Contains(t, errDetail, "Row 3: customer validation failed")
}

func TestImportFile_RejectsWrongExtension(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.ImportFile(context.Background(), "orders.pdf", 100, strings.NewReader("x"))

	assert.ErrorIs(t, err, upload.ErrUnsupportedFormat)
}

func TestImportFile_RejectsOversizedFile(t *testing.T) {
	svc, _, _ := testService(t)
	svc.config.MaxFileSize = 10

	_, err := svc.ImportFile(context.Background(), "orders.csv", 1000, strings.NewReader(uploadCSV))

	assert.ErrorIs(t, err, upload.ErrFileTooLarge)
}

func TestImportFile_UnparseableFileAlertsOperator(t *testing.T) {
	svc, syncer, notifier := testService(t)
	content := "foo,bar\n1,2\n"

	_, err := svc.ImportFile(context.Background(), "orders.csv", int64(len(content)), strings.NewReader(content))

	assert.ErrorIs(t, err, upload.ErrNoMappedColumns)
	assert.Empty(t, syncer.orders)
	require.Len(t, notifier.errors, 1)
	assert.Contains(t, notifier.errors[0], "could not be parsed")
}

func TestImportFile_RemovesStoredCopy(t *testing.T) {
	svc, _, _ := testService(t)

	_, err := svc.ImportFile(context.Background(), "orders.csv", int64(len(uploadCSV)), strings.NewReader(uploadCSV))
	require.NoError(t, err)

	entries, err := os.ReadDir(svc.config.Path)
	require.NoError(t, err)
	assert.Empty(t, entries, "stored upload must be deleted after processing")
}
