package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/adapters/primary/http/dto"
	"factory-gpt-service/internal/core/domain"
)

func (h *Handler) UploadInsight(c *gin.Context) {
	fileHeader, err := c.FormFile("report_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingReportFile.Error()})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingReportFile.Error()})
		return
	}
	defer file.Close()

	session, summary, err := h.insightsSvc.Upload(c.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		log.WithError(err).Error("insight upload failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UploadInsightResponse{
		SessionID:      session.ID,
		InitialSummary: summary,
	})
}

func (h *Handler) AskInsight(c *gin.Context) {
	var req dto.InsightAskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}
	if req.SessionID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingSessionID.Error()})
		return
	}

	answer, err := h.insightsSvc.Ask(c.Request.Context(), req.SessionID, req.Question)
	if err != nil {
		log.WithError(err).Error("insight ask failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InsightAskResponse{Answer: answer})
}

func (h *Handler) ClearInsight(c *gin.Context) {
	var req dto.ClearInsightRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingSessionID.Error()})
		return
	}

	if err := h.insightsSvc.Clear(req.SessionID); err != nil {
		mapDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ClearInsightResponse{Success: true})
}
