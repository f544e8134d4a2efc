package integration

import (
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalIDPrefix tags sales orders created in the ERP so that duplicates
// from the same storefront order can be detected by external-ID lookup.
const ExternalIDPrefix = "3DCART_"

// ManualOrderPrefix marks order IDs generated for manually uploaded rows
// that did not carry their own order number.
const ManualOrderPrefix = "MANUAL_"

// ValidationErrors is the itemized list of field problems found during
// validation. An order with a non-empty list is never sent to the ERP.
type ValidationErrors []string

// Error implements the error interface.
func (v ValidationErrors) Error() string {
	return strings.Join(v, ", ")
}

// HasErrors returns true if any validation problem was recorded.
func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

// Address is a postal address on an order or customer record.
type Address struct {
	FirstName  string
	LastName   string
	Company    string
	Address1   string
	Address2   string
	City       string
	State      string
	PostalCode string
	Country    string
	Phone      string
}

// IsZero returns true when no address field is populated.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Merge returns the address with empty fields filled from the fallback.
// Used to default shipping to billing on orders that carry only billing data.
func (a Address) Merge(fallback Address) Address {
	merged := a
	if merged.FirstName == "" {
		merged.FirstName = fallback.FirstName
	}
	if merged.LastName == "" {
		merged.LastName = fallback.LastName
	}
	if merged.Company == "" {
		merged.Company = fallback.Company
	}
	if merged.Address1 == "" {
		merged.Address1 = fallback.Address1
	}
	if merged.Address2 == "" {
		merged.Address2 = fallback.Address2
	}
	if merged.City == "" {
		merged.City = fallback.City
	}
	if merged.State == "" {
		merged.State = fallback.State
	}
	if merged.PostalCode == "" {
		merged.PostalCode = fallback.PostalCode
	}
	if merged.Country == "" {
		merged.Country = fallback.Country
	}
	if merged.Phone == "" {
		merged.Phone = fallback.Phone
	}
	return merged
}

// OrderItem is a single line on an order.
type OrderItem struct {
	// CatalogID is the storefront SKU, matched against the ERP item catalog.
	CatalogID   string
	Name        string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Weight      decimal.Decimal
}

// Total returns quantity multiplied by unit price.
func (i OrderItem) Total() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Validate checks a single line item. The index is used to prefix messages
// when validating items inside an order.
func (i OrderItem) Validate(index int) ValidationErrors {
	var errs ValidationErrors
	prefix := fmt.Sprintf("Item %d: ", index)

	if i.CatalogID == "" {
		errs = append(errs, prefix+"Missing required field: CatalogID")
	}
	if i.Name == "" {
		errs = append(errs, prefix+"Missing required field: ItemName")
	}
	if !i.Quantity.IsPositive() {
		errs = append(errs, prefix+"Quantity must be a positive number")
	}
	if i.UnitPrice.IsNegative() {
		errs = append(errs, prefix+"ItemPrice must not be negative")
	}
	return errs
}

// Order is a normalized storefront order, built either from a webhook-fetched
// API payload or from an uploaded spreadsheet row. It is never persisted
// locally; duplicate detection happens remotely via the ERP external ID.
type Order struct {
	ID           string
	CustomerID   string
	Date         time.Time
	StatusID     int
	Total        decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	BillingEmail string
	Billing      Address
	Shipping     Address
	Items        []OrderItem

	// RowNumber is set for orders parsed from an uploaded file (1-based,
	// counting the header). Zero for webhook-sourced orders.
	RowNumber int
}

// ExternalID returns the idempotency key stored on the ERP sales order.
func (o *Order) ExternalID() string {
	return ExternalIDPrefix + o.ID
}

// IsManual reports whether the order ID was generated for an uploaded row.
func (o *Order) IsManual() bool {
	return strings.HasPrefix(o.ID, ManualOrderPrefix)
}

// ShippingOrBilling returns the shipping address with every empty field
// defaulted from billing.
func (o *Order) ShippingOrBilling() Address {
	return o.Shipping.Merge(o.Billing)
}

// Validate applies the storefront order rules: required identifiers, numeric
// order ID for storefront-sourced orders, well-formed billing email when
// present, and at least one valid line item. All problems are collected;
// nothing is partially applied.
func (o *Order) Validate() ValidationErrors {
	var errs ValidationErrors

	if o.ID == "" {
		errs = append(errs, "Missing required field: OrderID")
	}
	if o.CustomerID == "" {
		errs = append(errs, "Missing required field: CustomerID")
	}
	if o.Date.IsZero() {
		errs = append(errs, "Missing required field: OrderDate")
	}
	if o.StatusID == 0 {
		errs = append(errs, "Missing required field: OrderStatusID")
	}

	// Manually generated IDs carry a prefix and are exempt from the
	// storefront's numeric order number format.
	if o.ID != "" && !o.IsManual() {
		if _, err := strconv.ParseInt(o.ID, 10, 64); err != nil {
			errs = append(errs, "OrderID must be numeric")
		}
	}

	if o.BillingEmail != "" && !validEmail(o.BillingEmail) {
		errs = append(errs, fmt.Sprintf("Invalid email format: %s", o.BillingEmail))
	}

	if len(o.Items) == 0 {
		errs = append(errs, "Order must contain at least one item")
	}
	for idx, item := range o.Items {
		errs = append(errs, item.Validate(idx)...)
	}

	return errs
}

// Summary returns the fields logged and emailed for this order.
func (o *Order) Summary() map[string]string {
	return map[string]string{
		"order_id":       o.ID,
		"customer_id":    o.CustomerID,
		"customer_email": o.BillingEmail,
		"order_date":     o.Date.Format("2006-01-02"),
		"total":          o.Total.StringFixed(2),
		"item_count":     strconv.Itoa(len(o.Items)),
		"status":         strconv.Itoa(o.StatusID),
	}
}

// validEmail reports whether the address parses as a single RFC 5322 address.
func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// mail.ParseAddress accepts display names; require the bare address form.
	return addr.Address == email && strings.Contains(email, ".")
}
