package middleware

import (
	"net/http"

	"github.com/formco/backend/internal/app/models/dto"
	"github.com/gin-gonic/gin"
)

// BindJSON binds and validates the request body into obj.
// On failure it writes a 400 response listing every failed field and returns false.
func BindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return false
	}
	return true
}
