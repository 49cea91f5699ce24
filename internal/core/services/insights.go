package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"factory-gpt-service/internal/core/domain"
	"factory-gpt-service/internal/core/ports/output"
)

// InsightsService answers questions about uploaded dashboard/report images
// using vision chat completions. Each upload opens a session; follow-up
// questions run over the same image plus the accumulated conversation.
type InsightsService struct {
	llm       ports.ChatCompleter
	store     ports.InsightSessionStore
	uploadDir string
	ttl       time.Duration
	md        goldmark.Markdown
}

func NewInsightsService(llm ports.ChatCompleter, store ports.InsightSessionStore, uploadDir string, ttl time.Duration) *InsightsService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &InsightsService{
		llm:       llm,
		store:     store,
		uploadDir: uploadDir,
		ttl:       ttl,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// Upload stores the report image, opens a session and returns the initial
// AI summary rendered as HTML.
func (s *InsightsService) Upload(ctx context.Context, filename string, file io.Reader) (*domain.InsightSession, string, error) {
	if filename == "" {
		return nil, "", domain.ErrMissingReportFile
	}

	name := fmt.Sprintf("%s_%s", uuid.New(), filepath.Base(filename))
	imagePath := filepath.Join(s.uploadDir, name)

	dst, err := os.Create(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("store report image: %w", err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(imagePath)
		return nil, "", fmt.Errorf("store report image: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(imagePath)
		return nil, "", fmt.Errorf("store report image: %w", err)
	}

	session := domain.NewInsightSession(imagePath, time.Now())

	summary, err := s.complete(ctx, session)
	if err != nil {
		os.Remove(imagePath)
		return nil, "", err
	}
	session.AppendTurn(domain.ChatTurn{Role: domain.RoleAssistant, Content: summary})
	s.store.Put(session)

	html, err := s.renderMarkdown(summary)
	if err != nil {
		return nil, "", err
	}
	return session, html, nil
}

// Ask runs a follow-up question over the session's image and history.
func (s *InsightsService) Ask(ctx context.Context, id uuid.UUID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.ErrEmptyQuestion
	}

	session, ok := s.store.Get(id)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	session.Touch(time.Now())
	session.AppendTurn(domain.ChatTurn{Role: domain.RoleUser, Content: question})

	answer, err := s.complete(ctx, session)
	if err != nil {
		return "", err
	}
	session.AppendTurn(domain.ChatTurn{Role: domain.RoleAssistant, Content: answer})

	return s.renderMarkdown(answer)
}

// Clear drops the session and deletes its stored image.
func (s *InsightsService) Clear(id uuid.UUID) error {
	session, ok := s.store.Get(id)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.store.Delete(id)
	if err := os.Remove(session.ImagePath); err != nil && !os.IsNotExist(err) {
		log.WithError(err).WithField("path", session.ImagePath).Warn("could not remove session image")
	}
	return nil
}

// RunSweeper evicts idle sessions until the context is cancelled.
func (s *InsightsService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			expired := s.store.Sweep(now.Add(-s.ttl))
			for _, session := range expired {
				if err := os.Remove(session.ImagePath); err != nil && !os.IsNotExist(err) {
					log.WithError(err).WithField("path", session.ImagePath).Warn("could not remove expired session image")
				}
			}
			if len(expired) > 0 {
				log.WithField("sessions", len(expired)).Info("expired insight sessions swept")
			}
		}
	}
}

// complete sends the analyst prompt, the session image and the conversation
// so far, and returns the raw markdown reply.
func (s *InsightsService) complete(ctx context.Context, session *domain.InsightSession) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("%w: azure openai is not configured", domain.ErrCompletionFailed)
	}

	dataURL, err := encodeImage(session.ImagePath)
	if err != nil {
		return "", err
	}

	messages := []ports.ChatMessage{{
		Role:     domain.RoleUser,
		Content:  insightInitialPrompt,
		ImageURL: dataURL,
	}}
	for _, turn := range session.History() {
		messages = append(messages, ports.ChatMessage{Role: turn.Role, Content: turn.Content})
	}

	answer, err := s.llm.Complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

func (s *InsightsService) renderMarkdown(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

func encodeImage(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", domain.ErrSessionImageGone
		}
		return "", fmt.Errorf("read report image: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(raw), nil
}
