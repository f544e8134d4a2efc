package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laguna/integration/internal/domain/integration"
)

func testConfig(serverURL string) *Config {
	return &Config{
		StoreURL:   serverURL,
		PrivateKey: "test-private-key",
		Token:      "test-token",
		Timeout:    5 * time.Second,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(testConfig(server.URL), nil)
	require.NoError(t, err)
	return client, server
}

const sampleOrderJSON = `[{
	"OrderID": 12345,
	"CustomerID": 678,
	"OrderDate": "2024-01-15 10:30:00",
	"OrderStatusID": 1,
	"OrderTotal": 150.50,
	"SalesTax": 10.25,
	"ShippingCost": 12.00,
	"BillingEmail": "jane.doe@example.com",
	"BillingFirstName": "Jane",
	"BillingLastName": "Doe",
	"BillingAddress": "123 Main St",
	"BillingCity": "Austin",
	"BillingState": "TX",
	"BillingZipCode": "78701",
	"BillingCountry": "US",
	"BillingPhoneNumber": "512-555-0100",
	"OrderItemList": [
		{"CatalogID": "SKU-100", "ItemName": "Table Saw", "Quantity": 2, "ItemPrice": 64.12, "ItemWeight": 30.5}
	]
}]`

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"complete", Config{StoreURL: "https://store.example.com", PrivateKey: "pk", Token: "tok"}, false},
		{"missing store url", Config{PrivateKey: "pk", Token: "tok"}, true},
		{"missing private key", Config{StoreURL: "https://store.example.com", Token: "tok"}, true},
		{"missing token", Config{StoreURL: "https://store.example.com", PrivateKey: "pk"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate_AppliesDefaultTimeout(t *testing.T) {
	cfg := Config{StoreURL: "https://store.example.com", PrivateKey: "pk", Token: "tok"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestClient_GetOrder(t *testing.T) {
	var gotPath, gotPrivateKey, gotToken string

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotPrivateKey = r.Header.Get("PrivateKey")
		gotToken = r.Header.Get("Token")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleOrderJSON))
	})

	order, err := client.GetOrder(context.Background(), "12345")
	require.NoError(t, err)

	assert.Equal(t, "/3dCartWebAPI/v2/Orders/12345", gotPath)
	assert.Equal(t, "test-private-key", gotPrivateKey)
	assert.Equal(t, "test-token", gotToken)

	assert.Equal(t, "12345", order.ID)
	assert.Equal(t, "678", order.CustomerID)
	assert.Equal(t, 1, order.StatusID)
	assert.Equal(t, "150.5", order.Total.String())
	assert.Equal(t, "jane.doe@example.com", order.BillingEmail)
	assert.Equal(t, 2024, order.Date.Year())

	require.Len(t, order.Items, 1)
	assert.Equal(t, "SKU-100", order.Items[0].CatalogID)
	assert.Equal(t, "Table Saw", order.Items[0].Name)
	assert.Equal(t, "2", order.Items[0].Quantity.String())
	assert.Equal(t, "64.12", order.Items[0].UnitPrice.String())
}

func TestClient_GetOrder_NumericCatalogID(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Some stores emit CatalogID as a bare number
		w.Write([]byte(`[{
			"OrderID": 12345, "CustomerID": 678, "OrderDate": "2024-01-15", "OrderStatusID": 1,
			"OrderItemList": [{"CatalogID": 4101, "ItemName": "Table Saw", "Quantity": 1, "ItemPrice": 10}]
		}]`))
	})

	order, err := client.GetOrder(context.Background(), "12345")
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "4101", order.Items[0].CatalogID)
}

func TestClient_GetOrder_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetOrder(context.Background(), "99999")
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrStorefrontOrderNotFound)
}

func TestClient_GetOrder_ServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetOrder(context.Background(), "12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, integration.ErrStorefrontRequestFailed)
}

func TestClient_GetOrder_SingleObjectResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Some endpoints return a bare object instead of an array
		w.Write([]byte(`{"OrderID": 7, "CustomerID": 8, "OrderDate": "2024-03-01", "OrderStatusID": 1}`))
	})

	order, err := client.GetOrder(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "7", order.ID)
}

func TestClient_GetCustomer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3dCartWebAPI/v2/Customers/678", r.URL.Path)
		w.Write([]byte(`[{"CustomerID": 678, "Email": "jane.doe@example.com", "BillingFirstName": "Jane", "BillingLastName": "Doe"}]`))
	})

	customer, err := client.GetCustomer(context.Background(), "678")
	require.NoError(t, err)
	assert.Equal(t, "678", customer.ID)
	assert.Equal(t, "jane.doe@example.com", customer.Email)
	assert.Equal(t, "Jane Doe", customer.FullName())
}

func TestClient_ListOrders(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "0", r.URL.Query().Get("offset"))
		w.Write([]byte(sampleOrderJSON))
	})

	orders, err := client.ListOrders(context.Background(), 0, -1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "12345", orders[0].ID)
}

func TestClient_ListOrders_EmptyPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	orders, err := client.ListOrders(context.Background(), 10, 100)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestClient_UpdateOrderStatus(t *testing.T) {
	var gotMethod string
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`[{"Key": "OrderID", "Value": "12345", "Status": "200", "Message": "Updated successfully"}]`))
	})

	err := client.UpdateOrderStatus(context.Background(), "12345", 2, "Synced to NetSuite")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, float64(2), gotBody["OrderStatusID"])
	assert.Equal(t, "Synced to NetSuite", gotBody["InternalComments"])
}

func TestClient_UpdateOrderStatus_OmitsEmptyComment(t *testing.T) {
	var gotBody map[string]any

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`[]`))
	})

	require.NoError(t, client.UpdateOrderStatus(context.Background(), "12345", 4, ""))
	_, hasComment := gotBody["InternalComments"]
	assert.False(t, hasComment)
}

func TestClient_GetOrderStatuses(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3dCartWebAPI/v2/OrderStatuses", r.URL.Path)
		w.Write([]byte(`[{"OrderStatusID": 1, "StatusText": "New", "Visible": true}]`))
	})

	statuses, err := client.GetOrderStatuses(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "New", statuses[0].StatusText)
}

func TestClient_TestConnection(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		status := client.TestConnection(context.Background())
		assert.True(t, status.Healthy)
		assert.Equal(t, ServiceName, status.Service)
		assert.Equal(t, http.StatusOK, status.StatusCode)
	})

	t.Run("auth failure", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		status := client.TestConnection(context.Background())
		assert.False(t, status.Healthy)
		assert.Equal(t, http.StatusUnauthorized, status.StatusCode)
	})

	t.Run("unreachable", func(t *testing.T) {
		client, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
		server.Close()

		status := client.TestConnection(context.Background())
		assert.False(t, status.Healthy)
		assert.NotEmpty(t, status.Error)
	})
}

func TestParseOrderDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15 10:30:00", "2024-01-15"},
		{"2024-01-15T10:30:00", "2024-01-15"},
		{"1/15/2024 10:30:00 AM", "2024-01-15"},
		{"2024-01-15", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			parsed := parseOrderDate(tt.input)
			require.False(t, parsed.IsZero())
			assert.Equal(t, tt.want, parsed.Format("2006-01-02"))
		})
	}

	assert.True(t, parseOrderDate("not a date").IsZero())
}
