package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOrder() *Order {
	return &Order{
		ID:           "12345",
		CustomerID:   "987",
		Date:         time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		StatusID:     1,
		Total:        decimal.NewFromFloat(129.95),
		BillingEmail: "jane.doe@example.com",
		Billing: Address{
			FirstName:  "Jane",
			LastName:   "Doe",
			Address1:   "1 Main St",
			City:       "Portland",
			State:      "OR",
			PostalCode: "97201",
			Country:    "US",
			Phone:      "503-555-0100",
		},
		Items: []OrderItem{
			{
				CatalogID: "SKU-100",
				Name:      "Bandsaw Blade",
				Quantity:  decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromFloat(64.975),
			},
		},
	}
}

func TestOrder_Validate(t *testing.T) {
	t.Run("valid order has no errors", func(t *testing.T) {
		errs := validOrder().Validate()
		assert.Empty(t, errs)
	})

	tests := []struct {
		name    string
		mutate  func(*Order)
		wantMsg string
	}{
		{
			name:    "missing order id",
			mutate:  func(o *Order) { o.ID = "" },
			wantMsg: "OrderID",
		},
		{
			name:    "missing customer id",
			mutate:  func(o *Order) { o.CustomerID = "" },
			wantMsg: "CustomerID",
		},
		{
			name:    "missing order date",
			mutate:  func(o *Order) { o.Date = time.Time{} },
			wantMsg: "OrderDate",
		},
		{
			name:    "missing status",
			mutate:  func(o *Order) { o.StatusID = 0 },
			wantMsg: "OrderStatusID",
		},
		{
			name:    "non-numeric order id",
			mutate:  func(o *Order) { o.ID = "ABC-1" },
			wantMsg: "OrderID must be numeric",
		},
		{
			name:    "malformed billing email",
			mutate:  func(o *Order) { o.BillingEmail = "not-an-email" },
			wantMsg: "Invalid email format",
		},
		{
			name:    "no items",
			mutate:  func(o *Order) { o.Items = nil },
			wantMsg: "at least one item",
		},
		{
			name: "item missing sku",
			mutate: func(o *Order) {
				o.Items[0].CatalogID = ""
			},
			wantMsg: "CatalogID",
		},
		{
			name: "item with zero quantity",
			mutate: func(o *Order) {
				o.Items[0].Quantity = decimal.Zero
			},
			wantMsg: "Quantity must be a positive number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := validOrder()
			tt.mutate(o)
			errs := o.Validate()
			require.NotEmpty(t, errs)
			assert.Contains(t, errs.Error(), tt.wantMsg)
		})
	}
}

func TestOrder_Validate_ManualIDSkipsNumericCheck(t *testing.T) {
	o := validOrder()
	o.ID = ManualOrderPrefix + "a1b2c3"
	assert.Empty(t, o.Validate())
	assert.True(t, o.IsManual())
}

func TestOrder_ExternalID(t *testing.T) {
	o := validOrder()
	assert.Equal(t, "3DCART_12345", o.ExternalID())
}

func TestOrder_ShippingOrBilling(t *testing.T) {
	o := validOrder()
	o.Shipping = Address{City: "Salem"}

	merged := o.ShippingOrBilling()
	assert.Equal(t, "Salem", merged.City)
	assert.Equal(t, "Jane", merged.FirstName)
	assert.Equal(t, "97201", merged.PostalCode)
	assert.Equal(t, "US", merged.Country)
}

func TestOrder_ShippingOrBilling_EmptyShipping(t *testing.T) {
	o := validOrder()
	require.True(t, o.Shipping.IsZero())
	assert.Equal(t, o.Billing, o.ShippingOrBilling())
}

func TestOrderItem_Total(t *testing.T) {
	item := OrderItem{
		Quantity:  decimal.NewFromInt(3),
		UnitPrice: decimal.NewFromFloat(19.99),
	}
	assert.True(t, item.Total().Equal(decimal.NewFromFloat(59.97)))
}

func TestOrderItem_Validate_IndexedPrefix(t *testing.T) {
	item := OrderItem{Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5)}
	errs := item.Validate(2)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.True(t, strings.HasPrefix(e, "Item 2: "))
	}
}

func TestOrder_Summary(t *testing.T) {
	s := validOrder().Summary()
	assert.Equal(t, "12345", s["order_id"])
	assert.Equal(t, "129.95", s["total"])
	assert.Equal(t, "1", s["item_count"])
}
