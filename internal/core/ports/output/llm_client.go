package ports

import "context"

// ChatMessage is one message sent to the chat completion API. ImageURL, when
// set, attaches an image (data URL) to a user message for vision requests.
type ChatMessage struct {
	Role     string
	Content  string
	ImageURL string
}

// ChatCompleter is the outbound port to the LLM. Implementations return the
// text of the first completion choice.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
