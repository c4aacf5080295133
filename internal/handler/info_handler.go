package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// InfoHandler serves the service descriptor and health probe
type InfoHandler struct {
	version string
}

func NewInfoHandler(version string) *InfoHandler {
	return &InfoHandler{version: version}
}

func (h *InfoHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/", h.GetInfo)
	router.GET("/health", h.Health)
}

// GetInfo describes the service and where its endpoints live
// @Summary      Service descriptor
// @Tags         info
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       / [get]
func (h *InfoHandler) GetInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Tax Management API",
		"version": h.version,
		"endpoints": gin.H{
			"admin":         "/admin/taxes/",
			"api":           "/api/",
			"taxes":         "/api/taxes/",
			"taxes_summary": "/api/taxes/summary/",
			"audit_logs":    "/api/audit-logs/",
			"docs":          "/swagger/index.html",
			"events":        "/ws",
		},
	})
}

// Health reports liveness
func (h *InfoHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
