package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/laguna/integration/internal/domain/integration"
)

// SetupValidator registers custom binding validations with gin
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("order_id", validOrderID)
	}
}

// validOrderID accepts storefront numeric order numbers and generated
// manual upload ids.
func validOrderID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	if strings.HasPrefix(id, integration.ManualOrderPrefix) {
		return len(id) > len(integration.ManualOrderPrefix)
	}
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}
