package dto

import (
	"errors"
	"net/http"

	"github.com/laguna/integration/internal/domain/integration"
	"github.com/laguna/integration/internal/infrastructure/upload"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Order processing error codes
const (
	// ErrCodeValidation is used for order and customer field validation failures
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeOrderNotFound is used when the storefront does not know the order
	ErrCodeOrderNotFound = "ERR_ORDER_NOT_FOUND"
	// ErrCodeCustomerRequired is used when the order carries no customer email
	ErrCodeCustomerRequired = "ERR_CUSTOMER_REQUIRED"
	// ErrCodeAutoCreateDisabled is used when the customer is unknown and creation is off
	ErrCodeAutoCreateDisabled = "ERR_AUTO_CREATE_DISABLED"
	// ErrCodeItemResolution is used when a line item cannot be resolved in the ERP
	ErrCodeItemResolution = "ERR_ITEM_RESOLUTION"
)

// Vendor error codes
const (
	// ErrCodeSignature is used when webhook signature verification fails
	ErrCodeSignature = "ERR_INVALID_SIGNATURE"
	// ErrCodeVendorUnavailable is used when a vendor API cannot be reached
	ErrCodeVendorUnavailable = "ERR_VENDOR_UNAVAILABLE"
	// ErrCodeVendorRequest is used when a vendor API answers with an error
	ErrCodeVendorRequest = "ERR_VENDOR_REQUEST"
)

// Upload error codes
const (
	// ErrCodeFileEmpty is used for empty uploads
	ErrCodeFileEmpty = "ERR_FILE_EMPTY"
	// ErrCodeFileTooLarge is used when the upload exceeds the size cap
	ErrCodeFileTooLarge = "ERR_FILE_TOO_LARGE"
	// ErrCodeFileFormat is used for disallowed extensions or unparseable content
	ErrCodeFileFormat = "ERR_FILE_FORMAT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeBadRequest:  http.StatusBadRequest,
	ErrCodeInvalidJSON: http.StatusBadRequest,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeOrderNotFound:      http.StatusNotFound,
	ErrCodeCustomerRequired:   http.StatusUnprocessableEntity,
	ErrCodeAutoCreateDisabled: http.StatusUnprocessableEntity,
	ErrCodeItemResolution:     http.StatusUnprocessableEntity,

	ErrCodeSignature:         http.StatusUnauthorized,
	ErrCodeVendorUnavailable: http.StatusBadGateway,
	ErrCodeVendorRequest:     http.StatusBadGateway,

	ErrCodeFileEmpty:    http.StatusBadRequest,
	ErrCodeFileTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeFileFormat:   http.StatusUnsupportedMediaType,
}

// GetHTTPStatus returns the HTTP status for an error code, 500 when unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// CodeForError maps domain and upload errors onto response codes.
func CodeForError(err error) string {
	switch {
	case errors.Is(err, integration.ErrInvalidSignature):
		return ErrCodeSignature
	case errors.Is(err, integration.ErrStorefrontInvalidPayload):
		return ErrCodeInvalidJSON
	case errors.Is(err, integration.ErrStorefrontOrderNotFound):
		return ErrCodeOrderNotFound
	case errors.Is(err, integration.ErrCustomerEmailRequired):
		return ErrCodeCustomerRequired
	case errors.Is(err, integration.ErrAutoCreateDisabled):
		return ErrCodeAutoCreateDisabled
	case errors.Is(err, integration.ErrItemResolutionFailed):
		return ErrCodeItemResolution
	case errors.Is(err, integration.ErrStorefrontUnavailable),
		errors.Is(err, integration.ErrERPUnavailable):
		return ErrCodeVendorUnavailable
	case errors.Is(err, integration.ErrStorefrontRequestFailed),
		errors.Is(err, integration.ErrERPRequestFailed),
		errors.Is(err, integration.ErrERPInvalidResponse):
		return ErrCodeVendorRequest
	case errors.Is(err, upload.ErrEmptyFile):
		return ErrCodeFileEmpty
	case errors.Is(err, upload.ErrFileTooLarge):
		return ErrCodeFileTooLarge
	case errors.Is(err, upload.ErrUnsupportedFormat),
		errors.Is(err, upload.ErrInvalidEncoding),
		errors.Is(err, upload.ErrMissingHeader),
		errors.Is(err, upload.ErrNoMappedColumns):
		return ErrCodeFileFormat
	default:
		var verrs integration.ValidationErrors
		if errors.As(err, &verrs) {
			return ErrCodeValidation
		}
		return ErrCodeInternal
	}
}
