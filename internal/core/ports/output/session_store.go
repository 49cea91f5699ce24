package ports

import (
	"time"

	"github.com/google/uuid"

	"factory-gpt-service/internal/core/domain"
)

// InsightSessionStore keeps report insight sessions between requests.
type InsightSessionStore interface {
	Put(session *domain.InsightSession)
	Get(id uuid.UUID) (*domain.InsightSession, bool)
	Delete(id uuid.UUID)
	// Sweep removes and returns every session idle since before the cutoff.
	Sweep(cutoff time.Time) []*domain.InsightSession
}
