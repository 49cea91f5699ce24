package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"factory-gpt-service/internal/core/domain"
	ports "factory-gpt-service/internal/core/ports/output"
)

// memoryStore keeps insight sessions in process memory. Sessions are small
// (image path plus chat turns) and disposable, so a map under a mutex is all
// the persistence they need.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.InsightSession
}

func NewMemoryStore() ports.InsightSessionStore {
	return &memoryStore{sessions: make(map[uuid.UUID]*domain.InsightSession)}
}

func (s *memoryStore) Put(session *domain.InsightSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *memoryStore) Get(id uuid.UUID) (*domain.InsightSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *memoryStore) Delete(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *memoryStore) Sweep(cutoff time.Time) []*domain.InsightSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	var expired []*domain.InsightSession
	for id, session := range s.sessions {
		if session.LastSeen().Before(cutoff) {
			expired = append(expired, session)
			delete(s.sessions, id)
		}
	}
	return expired
}

// Ensure interface compliance
var _ ports.InsightSessionStore = (*memoryStore)(nil)
