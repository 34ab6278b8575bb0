package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skillvouch-backend/internal/db"
)

type HealthController struct{}

func NewHealthController() *HealthController {
	return &HealthController{}
}

// Health reports liveness and database reachability.
func (hc *HealthController) Health(c *gin.Context) {
	if err := db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "degraded",
			"database": "unreachable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "ok",
	})
}
