package domain

import "sync"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is a single message in a conversation. Assistant turns that
// answered a data question carry the SQL that produced the answer.
type ChatTurn struct {
	Role        string
	Content     string
	SQLExecuted string
}

// Conversation is a bounded, concurrency-safe history ring. The agent is
// shared across HTTP requests, so turns are appended under a lock and the
// oldest turns are discarded once the cap is reached.
type Conversation struct {
	mu    sync.Mutex
	turns []ChatTurn
	cap   int
}

func NewConversation(capacity int) *Conversation {
	if capacity <= 0 {
		capacity = 50
	}
	return &Conversation{cap: capacity}
}

func (c *Conversation) Append(turns ...ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, turns...)
	if len(c.turns) > c.cap {
		c.turns = c.turns[len(c.turns)-c.cap:]
	}
}

// Recent returns a copy of the last n turns, oldest first.
func (c *Conversation) Recent(n int) []ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > len(c.turns) {
		n = len(c.turns)
	}
	out := make([]ChatTurn, n)
	copy(out, c.turns[len(c.turns)-n:])
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}

// AgentStatus is the lifecycle state reported by /agent-status.
type AgentStatus string

const (
	AgentInitializing AgentStatus = "initializing"
	AgentReady        AgentStatus = "ready"
	AgentError        AgentStatus = "error"
)
