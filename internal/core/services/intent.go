package services

import "strings"

type intent string

const (
	intentChat intent = "chat"
	intentData intent = "data"
)

// generalIndicators route smalltalk away from the SQL pipeline.
var generalIndicators = []string{
	"how are you", "what's up", "how do you feel", "tell me about yourself",
	"what can you do", "who are you", "introduce yourself", "are you gpt",
	"hello", "hi", "good morning", "good afternoon", "good evening", "hey",
}

func classifyIntent(question string) intent {
	q := strings.ToLower(question)
	for _, indicator := range generalIndicators {
		if strings.Contains(q, indicator) {
			return intentChat
		}
	}
	return intentData
}
