// Package integration contains the domain model for the storefront to ERP
// order synchronization: orders, line items, customers, the validation rules
// applied before any remote call, and the port interfaces implemented by the
// vendor API adapters in the infrastructure layer.
package integration
