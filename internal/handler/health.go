package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health answers the desktop client's liveness probe.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// AppHealth is the mobile client's probe; it expects a message field.
func AppHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Servidor QualiCam funcionando",
	})
}
