package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"brokerdesk/internal/pkg/apperr"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// FromError writes the envelope for a service error. Errors that carry no
// known kind are reported as INTERNAL_ERROR and attached to the gin context
// so the error logger picks them up.
func FromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		Error(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, apperr.ErrNotAuthorized):
		Error(c, http.StatusForbidden, "NOT_AUTHORIZED", err.Error())
	case errors.Is(err, apperr.ErrConflict):
		Error(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, apperr.ErrStoreUnavailable):
		_ = c.Error(err)
		Error(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Storage is temporarily unavailable")
	default:
		_ = c.Error(err)
		Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
