package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

// Health reports liveness. The database ping is advisory: the API stays "OK"
// for a degraded database so load balancers keep routing to it.
func Health(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "OK"
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			status = "DEGRADED"
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "NeuroBit API is running",
			"data": gin.H{
				"status":    status,
				"timestamp": time.Now().Format(time.RFC3339),
			},
		})
	}
}
