package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/laguna/integration/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response in the standard envelope
func (h *BaseHandler) Success(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(message, data))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message))
}

// ErrorFromErr sends an error response, deriving code and status from err
func (h *BaseHandler) ErrorFromErr(c *gin.Context, err error) {
	code := dto.CodeForError(err)
	c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponse(code, err.Error()))
}
