package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LeadTimeAnalytics redirects to the externally hosted lead time report.
func (h *Handler) LeadTimeAnalytics(c *gin.Context) {
	if h.leadTimeURL == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "lead time report is not configured"})
		return
	}
	c.Redirect(http.StatusFound, h.leadTimeURL)
}
