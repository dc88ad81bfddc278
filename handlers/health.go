package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/judyrop/storefront/database"
)

func Health(db database.Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := database.Check(c.Request.Context(), db); err != nil {
			log.Printf("[HEALTH] [ERROR] %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
