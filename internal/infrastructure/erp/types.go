package erp

import (
	"github.com/laguna/integration/internal/domain/integration"
)

// defaultSubsidiaryID is the NetSuite subsidiary new records are filed under
const defaultSubsidiaryID = "1"

// defaultLocationID is the NetSuite location new sales orders are filed under
const defaultLocationID = "1"

// searchResponse is the envelope SuiteTalk returns for record queries
type searchResponse struct {
	Items      []searchItem `json:"items"`
	Count      int          `json:"count"`
	TotalCount int          `json:"totalResults"`
}

// searchItem holds the record fields we read from search results
type searchItem struct {
	ID          string `json:"id"`
	ExternalID  string `json:"externalId"`
	TranID      string `json:"tranId"`
	ItemID      string `json:"itemId"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	CompanyName string `json:"companyName"`
}

// createdRecord is the body SuiteTalk returns after creating a record
type createdRecord struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	TranID     string `json:"tranId"`
	ItemID     string `json:"itemId"`
}

// recordRef is a NetSuite reference to another record by internal ID
type recordRef struct {
	ID string `json:"id"`
}

// addressPayload is the SuiteTalk address shape
type addressPayload struct {
	Addr1   string `json:"addr1"`
	Addr2   string `json:"addr2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// customerPayload is the SuiteTalk customer creation shape
type customerPayload struct {
	CompanyName    string          `json:"companyName,omitempty"`
	FirstName      string          `json:"firstName"`
	LastName       string          `json:"lastName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone,omitempty"`
	IsPerson       bool            `json:"isPerson"`
	Subsidiary     recordRef       `json:"subsidiary"`
	DefaultAddress *addressPayload `json:"defaultAddress,omitempty"`
}

// salesOrderPayload is the SuiteTalk sales order creation shape
type salesOrderPayload struct {
	Entity      recordRef          `json:"entity"`
	TranDate    string             `json:"tranDate"`
	OrderStatus string             `json:"orderStatus"`
	ExternalID  string             `json:"externalId"`
	Memo        string             `json:"memo"`
	Subsidiary  recordRef          `json:"subsidiary"`
	Location    recordRef          `json:"location"`
	BillAddress *addressPayload    `json:"billAddress,omitempty"`
	ShipAddress *addressPayload    `json:"shipAddress,omitempty"`
	Items       []salesOrderLineNS `json:"item"`
}

// salesOrderLineNS is a single sales order line in SuiteTalk format.
// Amounts are plain JSON numbers; decimal values are converted at the
// boundary since SuiteTalk rejects quoted numerics.
type salesOrderLineNS struct {
	Item        recordRef `json:"item"`
	Quantity    float64   `json:"quantity"`
	Rate        float64   `json:"rate"`
	Description string    `json:"description,omitempty"`
}

// itemPayload is the SuiteTalk non-inventory item creation shape
type itemPayload struct {
	ItemID          string      `json:"itemId"`
	DisplayName     string      `json:"displayName"`
	Description     string      `json:"description"`
	BasePrice       float64     `json:"basePrice"`
	IncludeChildren bool        `json:"includeChildren"`
	IsInactive      bool        `json:"isInactive"`
	Subsidiary      []recordRef `json:"subsidiary"`
}

func formatAddress(a integration.Address) *addressPayload {
	if a.IsZero() {
		return nil
	}
	country := a.Country
	if country == "" {
		country = "US"
	}
	return &addressPayload{
		Addr1:   a.Address1,
		Addr2:   a.Address2,
		City:    a.City,
		State:   a.State,
		Zip:     a.PostalCode,
		Country: country,
	}
}

func (i *searchItem) toRemoteCustomer() *integration.RemoteCustomer {
	return &integration.RemoteCustomer{
		InternalID: i.ID,
		Email:      i.Email,
		FirstName:  i.FirstName,
		LastName:   i.LastName,
		Company:    i.CompanyName,
	}
}

func (i *searchItem) toRemoteSalesOrder() *integration.RemoteSalesOrder {
	return &integration.RemoteSalesOrder{
		InternalID: i.ID,
		ExternalID: i.ExternalID,
		TranID:     i.TranID,
	}
}

func (i *searchItem) toRemoteItem() *integration.RemoteItem {
	return &integration.RemoteItem{
		InternalID: i.ID,
		SKU:        i.ItemID,
	}
}
