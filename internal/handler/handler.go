package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains dependencies shared by the operational endpoints.
type Handler struct {
	version string
}

// NewHandler creates a new handler instance
func NewHandler(version string) *Handler {
	return &Handler{version: version}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
		"time":   time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now(),
	})
}

func (h *Handler) MetricsHandler(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// APIInfo describes the service for clients hitting the root route.
func (h *Handler) APIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":    "MedNex API",
		"version": h.version,
		"status":  "running",
		"docs":    "/api",
	})
}
