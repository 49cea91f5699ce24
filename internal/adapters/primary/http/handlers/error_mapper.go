package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"factory-gpt-service/internal/core/domain"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Gone errors
	case errors.Is(err, domain.ErrSessionImageGone):
		c.JSON(http.StatusGone, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrMissingReportFile),
		errors.Is(err, domain.ErrMissingSessionID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Upstream unavailable errors
	case errors.Is(err, domain.ErrCompletionFailed),
		errors.Is(err, domain.ErrAgentInitializing),
		errors.Is(err, domain.ErrAgentUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
