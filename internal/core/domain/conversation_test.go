package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_RecentReturnsLatest(t *testing.T) {
	c := NewConversation(10)
	c.Append(
		ChatTurn{Role: RoleUser, Content: "first"},
		ChatTurn{Role: RoleAssistant, Content: "second"},
		ChatTurn{Role: RoleUser, Content: "third"},
	)

	recent := c.Recent(2)
	assert.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Content)
	assert.Equal(t, "third", recent[1].Content)
}

func TestConversation_RecentMoreThanStored(t *testing.T) {
	c := NewConversation(10)
	c.Append(ChatTurn{Role: RoleUser, Content: "only"})

	recent := c.Recent(5)
	assert.Len(t, recent, 1)
}

func TestConversation_DiscardsOldestBeyondCap(t *testing.T) {
	c := NewConversation(4)
	for i := 0; i < 10; i++ {
		c.Append(ChatTurn{Role: RoleUser, Content: fmt.Sprintf("turn-%d", i)})
	}

	assert.Equal(t, 4, c.Len())
	recent := c.Recent(4)
	assert.Equal(t, "turn-6", recent[0].Content)
	assert.Equal(t, "turn-9", recent[3].Content)
}
