package azureopenai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"factory-gpt-service/internal/config"
	ports "factory-gpt-service/internal/core/ports/output"
)

const defaultMaxTokens = 2048

type client struct {
	endpoint   string
	apiKey     string
	deployment string
	apiVersion string
	httpClient *http.Client
}

// NewClient creates a chat completion client for an Azure OpenAI deployment.
// It fails fast when the connection settings are incomplete, like the rest
// of the agent's startup checks.
func NewClient(cfg *config.AzureOpenAIConfig) (ports.ChatCompleter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &client{
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		apiKey:     cfg.APIKey,
		deployment: cfg.ChatDeployment,
		apiVersion: cfg.APIVersion,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Request/response shapes for the chat completions API. Message content is
// either a plain string or a list of typed parts when an image rides along.
type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *client) Complete(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	body := chatRequest{
		Messages:    make([]chatMessage, 0, len(messages)),
		Temperature: 0,
		MaxTokens:   defaultMaxTokens,
	}
	for _, m := range messages {
		body.Messages = append(body.Messages, toAPIMessage(m))
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	params := url.Values{}
	params.Set("api-version", c.apiVersion)
	reqURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?%s",
		c.endpoint, url.PathEscape(c.deployment), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion request: %w", err)
	}
	defer resp.Body.Close()

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("chat completion failed: %s (%s)", chatResp.Error.Message, chatResp.Error.Code)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat completion returned status %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func toAPIMessage(m ports.ChatMessage) chatMessage {
	if m.ImageURL == "" {
		return chatMessage{Role: m.Role, Content: m.Content}
	}
	return chatMessage{
		Role: m.Role,
		Content: []contentPart{
			{Type: "text", Text: m.Content},
			{Type: "image_url", ImageURL: &imageURL{URL: m.ImageURL}},
		},
	}
}

// Ensure interface compliance
var _ ports.ChatCompleter = (*client)(nil)
