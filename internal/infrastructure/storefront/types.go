package storefront

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laguna/integration/internal/domain/integration"
)

// formatID renders a numeric vendor ID, mapping the zero value to empty
// so downstream validation flags missing IDs instead of "0".
func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

// orderPayload mirrors the 3DCart order JSON shape
type orderPayload struct {
	OrderID       int64   `json:"OrderID"`
	CustomerID    int64   `json:"CustomerID"`
	OrderDate     string  `json:"OrderDate"`
	OrderStatusID int     `json:"OrderStatusID"`
	OrderTotal    float64 `json:"OrderTotal"`
	SalesTax      float64 `json:"SalesTax"`
	ShippingCost  float64 `json:"ShippingCost"`

	BillingEmail       string `json:"BillingEmail"`
	BillingFirstName   string `json:"BillingFirstName"`
	BillingLastName    string `json:"BillingLastName"`
	BillingCompany     string `json:"BillingCompany"`
	BillingAddress     string `json:"BillingAddress"`
	BillingAddress2    string `json:"BillingAddress2"`
	BillingCity        string `json:"BillingCity"`
	BillingState       string `json:"BillingState"`
	BillingZipCode     string `json:"BillingZipCode"`
	BillingCountry     string `json:"BillingCountry"`
	BillingPhoneNumber string `json:"BillingPhoneNumber"`

	ShipmentList []shipmentPayload `json:"ShipmentList"`

	OrderItemList []itemPayload `json:"OrderItemList"`
}

// shipmentPayload mirrors a 3DCart shipment entry on an order
type shipmentPayload struct {
	ShipmentFirstName string `json:"ShipmentFirstName"`
	ShipmentLastName  string `json:"ShipmentLastName"`
	ShipmentCompany   string `json:"ShipmentCompany"`
	ShipmentAddress   string `json:"ShipmentAddress"`
	ShipmentAddress2  string `json:"ShipmentAddress2"`
	ShipmentCity      string `json:"ShipmentCity"`
	ShipmentState     string `json:"ShipmentState"`
	ShipmentZipCode   string `json:"ShipmentZipCode"`
	ShipmentCountry   string `json:"ShipmentCountry"`
	ShipmentPhone     string `json:"ShipmentPhone"`
}

// flexString decodes a JSON string or bare number into a string.
// 3DCart emits CatalogID either way depending on the store's catalog.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = flexString(n.String())
	return nil
}

// itemPayload mirrors a 3DCart order line item
type itemPayload struct {
	CatalogID       flexString `json:"CatalogID"`
	ItemID          string     `json:"ItemID"`
	ItemName        string     `json:"ItemName"`
	ItemDescription string     `json:"ItemDescription"`
	Quantity        float64    `json:"Quantity"`
	ItemPrice       float64    `json:"ItemPrice"`
	ItemWeight      float64    `json:"ItemWeight"`
}

// customerPayload mirrors the 3DCart customer JSON shape
type customerPayload struct {
	CustomerID       int64  `json:"CustomerID"`
	Email            string `json:"Email"`
	BillingFirstName string `json:"BillingFirstName"`
	BillingLastName  string `json:"BillingLastName"`
	BillingCompany   string `json:"BillingCompany"`
	BillingAddress1  string `json:"BillingAddress1"`
	BillingAddress2  string `json:"BillingAddress2"`
	BillingCity      string `json:"BillingCity"`
	BillingState     string `json:"BillingState"`
	BillingZipCode   string `json:"BillingZipCode"`
	BillingCountry   string `json:"BillingCountry"`
	BillingPhone     string `json:"BillingPhoneNumber"`
}

// OrderStatus describes an entry from the /OrderStatuses endpoint
type OrderStatus struct {
	OrderStatusID int    `json:"OrderStatusID"`
	StatusText    string `json:"StatusText"`
	Visible       bool   `json:"Visible"`
}

// orderDateLayouts covers the formats 3DCart emits for OrderDate
var orderDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
}

func parseOrderDate(raw string) time.Time {
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (p *orderPayload) toDomain() *integration.Order {
	o := &integration.Order{
		ID:           formatID(p.OrderID),
		CustomerID:   formatID(p.CustomerID),
		Date:         parseOrderDate(p.OrderDate),
		StatusID:     p.OrderStatusID,
		Total:        decimal.NewFromFloat(p.OrderTotal),
		Tax:          decimal.NewFromFloat(p.SalesTax),
		ShippingCost: decimal.NewFromFloat(p.ShippingCost),
		BillingEmail: p.BillingEmail,
		Billing: integration.Address{
			FirstName:  p.BillingFirstName,
			LastName:   p.BillingLastName,
			Company:    p.BillingCompany,
			Address1:   p.BillingAddress,
			Address2:   p.BillingAddress2,
			City:       p.BillingCity,
			State:      p.BillingState,
			PostalCode: p.BillingZipCode,
			Country:    p.BillingCountry,
			Phone:      p.BillingPhoneNumber,
		},
	}

	if len(p.ShipmentList) > 0 {
		s := p.ShipmentList[0]
		o.Shipping = integration.Address{
			FirstName:  s.ShipmentFirstName,
			LastName:   s.ShipmentLastName,
			Company:    s.ShipmentCompany,
			Address1:   s.ShipmentAddress,
			Address2:   s.ShipmentAddress2,
			City:       s.ShipmentCity,
			State:      s.ShipmentState,
			PostalCode: s.ShipmentZipCode,
			Country:    s.ShipmentCountry,
			Phone:      s.ShipmentPhone,
		}
	}

	for _, item := range p.OrderItemList {
		sku := string(item.CatalogID)
		if sku == "" {
			sku = item.ItemID
		}
		o.Items = append(o.Items, integration.OrderItem{
			CatalogID:   sku,
			Name:        item.ItemName,
			Description: item.ItemDescription,
			Quantity:    decimal.NewFromFloat(item.Quantity),
			UnitPrice:   decimal.NewFromFloat(item.ItemPrice),
			Weight:      decimal.NewFromFloat(item.ItemWeight),
		})
	}

	return o
}

func (p *customerPayload) toDomain() *integration.Customer {
	return &integration.Customer{
		ID:        formatID(p.CustomerID),
		Email:     p.Email,
		FirstName: p.BillingFirstName,
		LastName:  p.BillingLastName,
		Company:   p.BillingCompany,
		Phone:     p.BillingPhone,
		Billing: integration.Address{
			FirstName:  p.BillingFirstName,
			LastName:   p.BillingLastName,
			Company:    p.BillingCompany,
			Address1:   p.BillingAddress1,
			Address2:   p.BillingAddress2,
			City:       p.BillingCity,
			State:      p.BillingState,
			PostalCode: p.BillingZipCode,
			Country:    p.BillingCountry,
			Phone:      p.BillingPhone,
		},
	}
}
