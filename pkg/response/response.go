package response

import (
	"net/http"

	"anoa.com/tradeaid/pkg/apperror"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Internal details stay server-side
	if code == http.StatusInternalServerError {
		zap.L().Error("internal error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(code, gin.H{"error": "Server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
