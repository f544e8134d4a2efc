package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/laguna/integration/internal/application/sync"
	"github.com/laguna/integration/internal/domain/integration"
	"github.com/laguna/integration/internal/infrastructure/upload"
)

// orderSyncer is the slice of the sync service the importer needs.
type orderSyncer interface {
	SyncOrder(ctx context.Context, order *integration.Order) (*sync.Result, error)
}

// Config carries the upload limits and storage location
type Config struct {
	MaxFileSize       int64
	AllowedExtensions []string
	Path              string
}

// RowError records why one spreadsheet row failed
type RowError struct {
	OrderID   string `json:"order_id"`
	RowNumber int    `json:"row_number"`
	Error     string `json:"error"`
}

// ProcessedOrder records one successfully imported row
type ProcessedOrder struct {
	OrderID         string `json:"order_id"`
	NetSuiteOrderID string `json:"netsuite_order_id"`
	CustomerID      string `json:"customer_id"`
	RowNumber       int    `json:"row_number"`
}

// Result aggregates an entire file import
type Result struct {
	FileName  string           `json:"file_name"`
	Total     int              `json:"total"`
	Succeeded int              `json:"successful"`
	Failed    int              `json:"failed"`
	Errors    []RowError       `json:"errors,omitempty"`
	Processed []ProcessedOrder `json:"processed_orders,omitempty"`
}

// Service ingests manually uploaded order spreadsheets. Each mapped row
// becomes a normalized order pushed through the same ERP sync path as
// webhook orders, without the retry budget.
type Service struct {
	syncer   orderSyncer
	notifier integration.Notifier
	config   Config
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a new importer Service
func NewService(syncer orderSyncer, notifier integration.Notifier, config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		syncer:   syncer,
		notifier: notifier,
		config:   config,
		logger:   logger.Named("importer"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ImportFile validates, stores, parses and processes one uploaded file.
// The stored copy is removed once processing completes; failed rows are
// counted and reported, never retried.
func (s *Service) ImportFile(ctx context.Context, filename string, size int64, r io.Reader) (*Result, error) {
	if err := upload.ValidateFile(filename, size, s.config.MaxFileSize, s.config.AllowedExtensions); err != nil {
		return nil, err
	}

	path, err := upload.Store(s.config.Path, filename, r)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			s.logger.Warn("Failed to remove stored upload",
				zap.String("path", path),
				zap.Error(err))
		}
	}()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading stored upload: %w", err)
	}
	defer f.Close()

	rows, err := upload.Parse(filename, f)
	if err != nil {
		s.logger.Error("Failed to parse uploaded file",
			zap.String("file", filename),
			zap.Error(err))
		if nerr := s.notifier.SendErrorNotification(ctx, "Uploaded order file could not be parsed", map[string]string{
			"File Name": filename,
			"Error":     err.Error(),
		}); nerr != nil {
			s.logger.Warn("Parse failure notification failed", zap.Error(nerr))
		}
		return nil, err
	}

	s.logger.Info("Parsed uploaded file",
		zap.String("file", filename),
		zap.Int("rows", len(rows)))

	result := s.processRows(ctx, rows)
	result.FileName = filename

	s.notifySummary(ctx, result)
	return result, nil
}

// processRows normalizes and syncs each parsed row. One bad row does
// not stop the rest of the file.
func (s *Service) processRows(ctx context.Context, rows []*upload.Row) *Result {
	result := &Result{Total: len(rows)}

	for _, row := range rows {
		order := s.normalizeRow(row)

		syncResult, err := s.syncer.SyncOrder(ctx, order)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{
				OrderID:   order.ID,
				RowNumber: row.LineNumber,
				Error:     err.Error(),
			})
			s.logger.Warn("Row import failed",
				zap.Int("row", row.LineNumber),
				zap.String("order_id", order.ID),
				zap.Error(err))
			continue
		}

		result.Succeeded++
		result.Processed = append(result.Processed, ProcessedOrder{
			OrderID:         syncResult.OrderID,
			NetSuiteOrderID: syncResult.NetSuiteOrderID,
			CustomerID:      syncResult.CustomerID,
			RowNumber:       row.LineNumber,
		})
	}

	return result
}

// normalizeRow fills the defaults a hand-edited spreadsheet typically
// omits: a generated manual order ID, placeholder customer, current
// date, pending status, US country and a single line item built from
// whatever item columns are present.
func (s *Service) normalizeRow(row *upload.Row) *integration.Order {
	order := &integration.Order{
		ID:           row.Get(upload.FieldOrderID),
		CustomerID:   row.GetOrDefault(upload.FieldCustomerID, "0"),
		BillingEmail: row.Get(upload.FieldBillingEmail),
		RowNumber:    row.LineNumber,
	}

	if order.ID == "" {
		order.ID = integration.ManualOrderPrefix + strings.ReplaceAll(s.newID(), "-", "")
	}

	order.Date = parseDate(row.Get(upload.FieldOrderDate), s.now)
	order.StatusID = parseInt(row.Get(upload.FieldOrderStatusID), 1)
	order.Total = parseAmount(row.Get(upload.FieldOrderTotal))

	order.Billing = integration.Address{
		FirstName:  row.Get(upload.FieldBillingFirst),
		LastName:   row.Get(upload.FieldBillingLast),
		Company:    row.Get(upload.FieldBillingCompany),
		Phone:      row.Get(upload.FieldBillingPhone),
		Address1:   row.Get(upload.FieldBillingAddress),
		Address2:   row.Get(upload.FieldBillingAddress2),
		City:       row.Get(upload.FieldBillingCity),
		State:      row.Get(upload.FieldBillingState),
		PostalCode: row.Get(upload.FieldBillingZip),
		Country:    row.GetOrDefault(upload.FieldBillingCountry, "US"),
	}

	order.Shipping = integration.Address{
		FirstName:  row.Get(upload.FieldShippingFirst),
		LastName:   row.Get(upload.FieldShippingLast),
		Company:    row.Get(upload.FieldShippingCompany),
		Address1:   row.Get(upload.FieldShippingAddress),
		Address2:   row.Get(upload.FieldShippingAddr2),
		City:       row.Get(upload.FieldShippingCity),
		State:      row.Get(upload.FieldShippingState),
		PostalCode: row.Get(upload.FieldShippingZip),
		Country:    row.Get(upload.FieldShippingCountry),
	}
	if order.Shipping.IsZero() {
		order.Shipping = order.Billing
	}

	if item, ok := s.normalizeItem(row, order.Total); ok {
		order.Items = []integration.OrderItem{item}
	}

	return order
}

// normalizeItem builds the single line item a spreadsheet row carries.
// A row with neither an item name nor a SKU yields no item, which the
// order validation then rejects.
func (s *Service) normalizeItem(row *upload.Row, orderTotal decimal.Decimal) (integration.OrderItem, bool) {
	name := row.Get(upload.FieldItemName)
	sku := row.Get(upload.FieldCatalogID)
	if name == "" && sku == "" {
		return integration.OrderItem{}, false
	}

	if sku == "" {
		sku = "UNKNOWN"
	}
	if name == "" {
		name = "Manual Order Item"
	}

	quantity := parseAmount(row.GetOrDefault(upload.FieldQuantity, "1"))
	if !quantity.IsPositive() {
		quantity = decimal.NewFromInt(1)
	}

	price := parseAmount(row.Get(upload.FieldItemPrice))
	if price.IsZero() {
		price = orderTotal
	}

	return integration.OrderItem{
		CatalogID:   sku,
		Name:        name,
		Description: row.Get(upload.FieldItemDescription),
		Quantity:    quantity,
		UnitPrice:   price,
	}, true
}

func (s *Service) notifySummary(ctx context.Context, result *Result) {
	rate := "0%"
	if result.Total > 0 {
		rate = fmt.Sprintf("%.1f%%", float64(result.Succeeded)/float64(result.Total)*100)
	}

	details := []integration.Detail{
		{Label: "File Name", Value: result.FileName},
		{Label: "Total Orders", Value: strconv.Itoa(result.Total)},
		{Label: "Successful", Value: strconv.Itoa(result.Succeeded)},
		{Label: "Failed", Value: strconv.Itoa(result.Failed)},
		{Label: "Success Rate", Value: rate},
	}
	if len(result.Errors) > 0 {
		var sb strings.Builder
		for i, e := range result.Errors {
			if i >= 5 {
				break
			}
			fmt.Fprintf(&sb, "Row %d: %s; ", e.RowNumber, e.Error)
		}
		details = append(details, integration.Detail{
			Label: "First 5 Errors",
			Value: strings.TrimSuffix(sb.String(), "; "),
		})
	}

	if err := s.notifier.SendOrderNotification(ctx, "Manual Upload", "Manual Upload Processing Complete", details); err != nil {
		s.logger.Warn("Upload summary notification failed", zap.Error(err))
	}
}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 3:04:05 PM",
	"1/2/2006",
	"2006-01-02",
}

func parseDate(value string, now func() time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return now()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return now()
}

// parseAmount reads a spreadsheet money or quantity cell, tolerating
// currency symbols and thousands separators. Unparseable cells are zero.
func parseAmount(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "$")
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil || n == 0 {
		return def
	}
	return n
}
