package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// InsightSession holds one uploaded report image and the conversation held
// over it. Sessions live server-side; clients carry only the session id.
type InsightSession struct {
	ID        uuid.UUID
	ImagePath string
	CreatedAt time.Time

	mu       sync.Mutex
	lastSeen time.Time
	history  []ChatTurn
}

func NewInsightSession(imagePath string, now time.Time) *InsightSession {
	return &InsightSession{
		ID:        uuid.New(),
		ImagePath: imagePath,
		CreatedAt: now,
		lastSeen:  now,
	}
}

func (s *InsightSession) AppendTurn(turn ChatTurn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, turn)
}

// History returns a copy of the session conversation, oldest first.
func (s *InsightSession) History() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatTurn, len(s.history))
	copy(out, s.history)
	return out
}

func (s *InsightSession) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *InsightSession) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}
