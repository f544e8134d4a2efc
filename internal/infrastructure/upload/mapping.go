package upload

import "strings"

// Canonical field names rows are keyed by after header mapping.
// They match the storefront's order field names so manual uploads and
// webhook orders flow through the same normalization.
const (
	FieldOrderID         = "OrderID"
	FieldCustomerID      = "CustomerID"
	FieldOrderDate       = "OrderDate"
	FieldOrderStatusID   = "OrderStatusID"
	FieldOrderTotal      = "OrderTotal"
	FieldBillingFirst    = "BillingFirstName"
	FieldBillingLast     = "BillingLastName"
	FieldBillingEmail    = "BillingEmail"
	FieldBillingCompany  = "BillingCompany"
	FieldBillingPhone    = "BillingPhoneNumber"
	FieldBillingAddress  = "BillingAddress"
	FieldBillingAddress2 = "BillingAddress2"
	FieldBillingCity     = "BillingCity"
	FieldBillingState    = "BillingState"
	FieldBillingZip      = "BillingZipCode"
	FieldBillingCountry  = "BillingCountry"
	FieldShippingFirst   = "ShippingFirstName"
	FieldShippingLast    = "ShippingLastName"
	FieldShippingCompany = "ShippingCompany"
	FieldShippingAddress = "ShippingAddress"
	FieldShippingAddr2   = "ShippingAddress2"
	FieldShippingCity    = "ShippingCity"
	FieldShippingState   = "ShippingState"
	FieldShippingZip     = "ShippingZipCode"
	FieldShippingCountry = "ShippingCountry"
	FieldItemName        = "ItemName"
	FieldCatalogID       = "CatalogID"
	FieldQuantity        = "Quantity"
	FieldItemPrice       = "ItemPrice"
	FieldItemDescription = "ItemDescription"
)

// headerSynonyms maps lowercased header spellings to canonical fields.
// Spreadsheets arrive from several storefront exports and manual edits,
// so common variants of each column name are accepted.
var headerSynonyms = map[string]string{
	// Order fields
	"order_id":     FieldOrderID,
	"orderid":      FieldOrderID,
	"order number": FieldOrderID,
	"customer_id":  FieldCustomerID,
	"customerid":   FieldCustomerID,
	"customer id":  FieldCustomerID,
	"order_date":   FieldOrderDate,
	"orderdate":    FieldOrderDate,
	"order date":   FieldOrderDate,
	"date":         FieldOrderDate,
	"order_status": FieldOrderStatusID,
	"status":       FieldOrderStatusID,
	"order_total":  FieldOrderTotal,
	"total":        FieldOrderTotal,

	// Customer fields
	"billing_first_name": FieldBillingFirst,
	"billing_firstname":  FieldBillingFirst,
	"first_name":         FieldBillingFirst,
	"firstname":          FieldBillingFirst,
	"billing_last_name":  FieldBillingLast,
	"billing_lastname":   FieldBillingLast,
	"last_name":          FieldBillingLast,
	"lastname":           FieldBillingLast,
	"billing_email":      FieldBillingEmail,
	"email":              FieldBillingEmail,
	"billing_company":    FieldBillingCompany,
	"company":            FieldBillingCompany,
	"billing_phone":      FieldBillingPhone,
	"phone":              FieldBillingPhone,

	// Billing address
	"billing_address":  FieldBillingAddress,
	"billing_address1": FieldBillingAddress,
	"address":          FieldBillingAddress,
	"billing_address2": FieldBillingAddress2,
	"billing_city":     FieldBillingCity,
	"city":             FieldBillingCity,
	"billing_state":    FieldBillingState,
	"state":            FieldBillingState,
	"billing_zip":      FieldBillingZip,
	"billing_zipcode":  FieldBillingZip,
	"zip":              FieldBillingZip,
	"postal_code":      FieldBillingZip,
	"billing_country":  FieldBillingCountry,
	"country":          FieldBillingCountry,

	// Shipping address
	"shipping_first_name": FieldShippingFirst,
	"shipping_firstname":  FieldShippingFirst,
	"shipping_last_name":  FieldShippingLast,
	"shipping_lastname":   FieldShippingLast,
	"shipping_company":    FieldShippingCompany,
	"shipping_address":    FieldShippingAddress,
	"shipping_address1":   FieldShippingAddress,
	"shipping_address2":   FieldShippingAddr2,
	"shipping_city":       FieldShippingCity,
	"shipping_state":      FieldShippingState,
	"shipping_zip":        FieldShippingZip,
	"shipping_zipcode":    FieldShippingZip,
	"shipping_country":    FieldShippingCountry,

	// Item fields (single-item orders)
	"item_name":        FieldItemName,
	"product_name":     FieldItemName,
	"item_sku":         FieldCatalogID,
	"sku":              FieldCatalogID,
	"catalog_id":       FieldCatalogID,
	"quantity":         FieldQuantity,
	"qty":              FieldQuantity,
	"item_price":       FieldItemPrice,
	"price":            FieldItemPrice,
	"unit_price":       FieldItemPrice,
	"item_description": FieldItemDescription,
	"description":      FieldItemDescription,
}

// canonicalField resolves a raw header to its canonical field name.
// Returns "" when the header is not recognized.
func canonicalField(header string) string {
	return headerSynonyms[strings.ToLower(strings.TrimSpace(header))]
}

// mapHeaders resolves a header row to a column index -> field table
func mapHeaders(headers []string) map[int]string {
	mapped := make(map[int]string)
	for i, h := range headers {
		if field := canonicalField(h); field != "" {
			mapped[i] = field
		}
	}
	return mapped
}
