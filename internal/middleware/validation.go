package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/schoolsite/internal/app/models/dto"
)

// BindJSON decodes and validates the request body into a new T using the
// `binding` tags. On failure it writes the validation envelope and aborts.
func BindJSON[T any](c *gin.Context) (*T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return nil, false
	}
	return &req, true
}
