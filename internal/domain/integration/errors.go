package integration

import "errors"

var (
	// Storefront adapter errors
	ErrStorefrontUnavailable    = errors.New("integration: storefront temporarily unavailable")
	ErrStorefrontRequestFailed  = errors.New("integration: storefront request failed")
	ErrStorefrontOrderNotFound  = errors.New("integration: storefront order not found")
	ErrStorefrontInvalidPayload = errors.New("integration: invalid webhook payload")
	ErrInvalidSignature         = errors.New("integration: invalid webhook signature")

	// ERP adapter errors
	ErrERPUnavailable     = errors.New("integration: erp temporarily unavailable")
	ErrERPRequestFailed   = errors.New("integration: erp request failed")
	ErrERPInvalidResponse = errors.New("integration: invalid erp response")

	// Synchronization errors
	ErrCustomerEmailRequired = errors.New("integration: customer email is required")
	ErrAutoCreateDisabled    = errors.New("integration: customer not found and auto-creation is disabled")
	ErrItemResolutionFailed  = errors.New("integration: order item could not be resolved in erp")
	ErrOrderAlreadyExists    = errors.New("integration: sales order already exists")

	// Notification errors
	ErrNotificationFailed = errors.New("integration: notification delivery failed")
)
