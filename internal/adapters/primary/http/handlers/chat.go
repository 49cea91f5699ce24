package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/adapters/primary/http/dto"
	"factory-gpt-service/internal/core/domain"
)

// Ask answers a factory question. The endpoint always replies 200 with a
// status discriminator so the chat frontend can render initialization and
// failure states inline, the same way it renders answers.
func (h *Handler) Ask(c *gin.Context) {
	var req dto.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, dto.AskResponse{
			Answer: "Please enter a valid question.",
			Status: "error",
		})
		return
	}

	answer, err := h.agentSvc.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuestion):
			c.JSON(http.StatusOK, dto.AskResponse{
				Answer: "Please enter a valid question.",
				Status: "error",
			})
		case errors.Is(err, domain.ErrAgentInitializing):
			c.JSON(http.StatusOK, dto.AskResponse{
				Answer: "Factory GPT is still initializing... Please wait a moment.",
				Status: "initializing",
			})
		case errors.Is(err, domain.ErrAgentUnavailable):
			c.JSON(http.StatusOK, dto.AskResponse{
				Answer: "Factory GPT failed to initialize. " + err.Error(),
				Status: "error",
			})
		default:
			log.WithError(err).Error("ask failed")
			c.JSON(http.StatusOK, dto.AskResponse{
				Answer: "Internal error: " + err.Error(),
				Status: "error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, dto.AskResponse{
		Answer: answer.Text,
		SQL:    answer.SQL,
		Status: "success",
	})
}

func (h *Handler) AgentStatus(c *gin.Context) {
	status, message := h.agentSvc.Status()
	c.JSON(http.StatusOK, dto.AgentStatusResponse{
		Status:  string(status),
		Message: message,
	})
}
