package services

import (
	"fmt"
	"strings"

	"factory-gpt-service/internal/core/domain"
)

const chatPromptTemplate = `You are Factory GPT, a helpful and friendly AI assistant for the Nokia factory.

CONVERSATION HISTORY:
%s

USER'S CURRENT MESSAGE:
%s

Respond naturally and conversationally. Be helpful, professional, and friendly.
If asked what you can do, mention you can help with factory data queries, machine information, production metrics, downtime analysis, and more.`

const planningPromptTemplate = `You are an expert data analyst. Analyze the user's question and find the best way to answer it.

DATABASE SCHEMA:
%s

CONVERSATION HISTORY:
%s

KNOWN MACHINE KEYWORDS:
%s

User Question: "%s"

Identify the TOP 3 most likely (table, column) pairs that could answer this question.
The "column" should be the primary metric (e.g., cycle_time, production_count).
Return ONLY a valid JSON object with key "candidates" containing a list of objects with "table" and "column" keys.`

const sqlFewShotExamples = `### EXAMPLES ###

-- Question: which machine has the highest downtime for macline-2 for yesterday?
SELECT machine_name, MAX(COALESCE(NULLIF(downtime_seconds::text, ''), '0')::float) AS max_downtime
FROM hourly_running_idle_downtime
WHERE (UPPER(machine_name) LIKE '%MAC_LINE_2%' OR machine_group = 'MACLINE-2')
  AND created_at::date = (CURRENT_DATE - INTERVAL '1 day')::date
GROUP BY machine_name
ORDER BY max_downtime DESC
LIMIT 1;

-- Question: average cycletime for mac line 2 dual robot for may 2025
SELECT AVG(COALESCE(NULLIF(cycle_time::text, ''), '0')::float) AS avg_cycle_time
FROM live_machine_telemetry
WHERE (UPPER(machine_name) LIKE '%MAC_LINE_2%' AND UPPER(machine_name) LIKE '%DUAL%')
  AND created_at::date >= '2025-05-01'
  AND created_at::date < '2025-06-01';`

const sqlPromptTemplate = `Write a flawless PostgreSQL query to answer the user's question.
MUST use table: %s
MUST use column: %s

RULES:
1. AGGREGATION:
   - Use SUM/AVG/COUNT/MAX/MIN for "total"/"average"/"highest"/"lowest"
   - For "what is [metric]" on live tables: SELECT ... ORDER BY created_at DESC LIMIT 1
2. FILTERING:
   - Split machine keywords: "galvatron trx bullet" -> LIKE '%%GALVATRON%%' AND LIKE '%%TRX%%' AND LIKE '%%BULLET%%'
   - Machine groups: (LIKE '%%MACLINE 1%%' OR machine_group = 'MACLINE-1')
3. NULL HANDLING:
   - Wrap metrics: COALESCE(NULLIF(%s::text, ''), '0')::float

SCHEMA:
%s

%s

User Question: "%s"

Return ONLY the SQL query.`

const insightInitialPrompt = "You are an expert Power BI analyst. A user has uploaded the following report visual. " +
	"Provide a concise, high-level summary to start the conversation. " +
	"Identify the main KPIs, summarize the key trend, and suggest one business action. " +
	"Keep it brief and invite the user to ask follow-up questions."

// renderHistory flattens chat turns into "role: content" lines for prompting.
func renderHistory(turns []domain.ChatTurn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Role, t.Content))
	}
	return strings.Join(lines, "\n")
}

func buildChatPrompt(history []domain.ChatTurn, question string) string {
	return fmt.Sprintf(chatPromptTemplate, renderHistory(history), question)
}

func buildPlanningPrompt(schema string, history []domain.ChatTurn, keywords []string, question string) string {
	// Cap the keyword list so huge factories don't blow the prompt up.
	if len(keywords) > maxPromptKeywords {
		keywords = keywords[:maxPromptKeywords]
	}
	return fmt.Sprintf(planningPromptTemplate, schema, renderHistory(history), strings.Join(keywords, ", "), question)
}

func buildSQLPrompt(schema string, candidate domain.QueryCandidate, question string) string {
	return fmt.Sprintf(sqlPromptTemplate, candidate.Table, candidate.Column, candidate.Column, schema, sqlFewShotExamples, question)
}

const maxPromptKeywords = 1000
