// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/your-org/marketplace-backend/internal/pkg/errors"
)

// respondError maps a domain error to its HTTP status. Unknown errors become
// an opaque 500; their detail never reaches the client.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
	})
}
