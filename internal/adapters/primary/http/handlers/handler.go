package handlers

import (
	"github.com/gin-gonic/gin"

	"factory-gpt-service/internal/core/services"
)

type Handler struct {
	agentSvc    *services.AgentService
	insightsSvc *services.InsightsService
	leadTimeURL string
}

func New(agentSvc *services.AgentService, insightsSvc *services.InsightsService, leadTimeURL string) *Handler {
	return &Handler{
		agentSvc:    agentSvc,
		insightsSvc: insightsSvc,
		leadTimeURL: leadTimeURL,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Factory GPT
	r.POST("/ask", h.Ask)
	r.GET("/agent-status", h.AgentStatus)

	// Reports
	r.GET("/lead-time-analytics", h.LeadTimeAnalytics)

	// Report Insights
	insights := r.Group("/powerbi-insights")
	insights.POST("/upload", h.UploadInsight)
	insights.POST("/ask", h.AskInsight)
	insights.POST("/clear", h.ClearInsight)
}
