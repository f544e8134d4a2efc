package integration

import (
	"fmt"
	"regexp"
	"strings"
)

// CustomerType distinguishes ERP person records from company records.
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeCompany    CustomerType = "company"
)

var phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)\.]+$`)

// Customer is the identity record derived from an order's billing fields or
// a storefront customer payload. Email is the primary dedup key.
type Customer struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Company   string
	Phone     string
	Billing   Address
	Shipping  Address
}

// CustomerFromOrder derives the customer record from an order's billing
// fields, the way every synchronization path resolves its customer.
func CustomerFromOrder(o *Order) *Customer {
	return &Customer{
		ID:        o.CustomerID,
		Email:     o.BillingEmail,
		FirstName: o.Billing.FirstName,
		LastName:  o.Billing.LastName,
		Company:   o.Billing.Company,
		Phone:     o.Billing.Phone,
		Billing:   o.Billing,
		Shipping:  o.ShippingOrBilling(),
	}
}

// FullName returns the trimmed "First Last" form.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Type returns company when a company name is present, individual otherwise.
func (c *Customer) Type() CustomerType {
	if c.Company != "" {
		return CustomerTypeCompany
	}
	return CustomerTypeIndividual
}

// IsPerson reports whether the ERP record should be created as a person.
func (c *Customer) IsPerson() bool {
	return c.Type() == CustomerTypeIndividual
}

// Validate applies the rules required before creating the customer in the
// ERP: first/last name and email present, email well-formed, phone (when
// present) containing only digits and common separators.
func (c *Customer) Validate() ValidationErrors {
	var errs ValidationErrors

	if c.FirstName == "" {
		errs = append(errs, "Missing required customer field: firstname")
	}
	if c.LastName == "" {
		errs = append(errs, "Missing required customer field: lastname")
	}
	if c.Email == "" {
		errs = append(errs, "Missing required customer field: email")
	} else if !validEmail(c.Email) {
		errs = append(errs, fmt.Sprintf("Invalid customer email format: %s", c.Email))
	}
	if c.Phone != "" && !phonePattern.MatchString(c.Phone) {
		errs = append(errs, "Invalid phone number format")
	}

	return errs
}

// Matches reports whether two customer records refer to the same person.
// Primary rule: case-insensitive email equality. Fallback when either side
// has no email: full name and normalized phone digits must both match.
func (c *Customer) Matches(other *Customer) bool {
	if c.Email != "" && other.Email != "" {
		return strings.EqualFold(c.Email, other.Email)
	}
	if c.Phone != "" && other.Phone != "" {
		nameMatch := strings.EqualFold(c.FullName(), other.FullName())
		phoneMatch := phoneDigits(c.Phone) == phoneDigits(other.Phone)
		return nameMatch && phoneMatch
	}
	return false
}

// phoneDigits strips everything but digits for phone comparison.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
