package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"factory-gpt-service/internal/core/domain"
)

func TestBuildChatPrompt(t *testing.T) {
	history := []domain.ChatTurn{
		{Role: domain.RoleUser, Content: "hello"},
		{Role: domain.RoleAssistant, Content: "Hi there!"},
	}

	prompt := buildChatPrompt(history, "what can you do?")

	assert.Contains(t, prompt, "user: hello")
	assert.Contains(t, prompt, "assistant: Hi there!")
	assert.Contains(t, prompt, "what can you do?")
}

func TestBuildPlanningPrompt(t *testing.T) {
	prompt := buildPlanningPrompt("CREATE TABLE t (x INT);", nil, []string{"macline", "press"}, "total production count?")

	assert.Contains(t, prompt, "CREATE TABLE t (x INT);")
	assert.Contains(t, prompt, "macline, press")
	assert.Contains(t, prompt, `User Question: "total production count?"`)
	assert.Contains(t, prompt, `"candidates"`)
}

func TestBuildPlanningPrompt_CapsKeywords(t *testing.T) {
	keywords := make([]string, maxPromptKeywords+50)
	for i := range keywords {
		keywords[i] = "kw"
	}

	prompt := buildPlanningPrompt("", nil, keywords, "q")

	assert.Equal(t, maxPromptKeywords, strings.Count(prompt, "kw"))
}

func TestBuildSQLPrompt(t *testing.T) {
	candidate := domain.QueryCandidate{Table: "hourly_running_idle_downtime", Column: "downtime_seconds"}

	prompt := buildSQLPrompt("CREATE TABLE x (y INT);", candidate, "highest downtime?")

	assert.Contains(t, prompt, "MUST use table: hourly_running_idle_downtime")
	assert.Contains(t, prompt, "MUST use column: downtime_seconds")
	assert.Contains(t, prompt, "COALESCE(NULLIF(downtime_seconds::text, ''), '0')::float")
	assert.Contains(t, prompt, "### EXAMPLES ###")
	assert.Contains(t, prompt, "LIKE '%GALVATRON%'")
	assert.NotContains(t, prompt, "%%")
}
