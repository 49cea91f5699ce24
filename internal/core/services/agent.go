package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/core/domain"
	"factory-gpt-service/internal/core/ports/output"
)

const (
	chatHistoryDepth = 5
	planHistoryDepth = 10
	historyCapacity  = 50
)

const (
	planFailedReply = "My apologies, I was unable to form an initial plan. Please rephrase your question."
	noAnswerReply   = "I couldn't find a definitive answer in the database. Please try rephrasing your question or check if the data exists."
)

// AgentService is the Factory GPT analyst. It routes smalltalk to a plain
// chat completion and data questions through a three-stage pipeline: plan
// candidate (table, column) pairs, generate and execute SQL per candidate
// until one succeeds, then phrase the result conversationally.
type AgentService struct {
	llm       ports.ChatCompleter
	warehouse ports.WarehouseRepository
	schemaSvc *SchemaService
	indexSvc  *MachineIndexService

	history *domain.Conversation

	mu        sync.RWMutex
	status    domain.AgentStatus
	statusMsg string
	schema    string
	keywords  []string
}

func NewAgentService(
	llm ports.ChatCompleter,
	warehouse ports.WarehouseRepository,
	schemaSvc *SchemaService,
	indexSvc *MachineIndexService,
) *AgentService {
	return &AgentService{
		llm:       llm,
		warehouse: warehouse,
		schemaSvc: schemaSvc,
		indexSvc:  indexSvc,
		history:   domain.NewConversation(historyCapacity),
		status:    domain.AgentInitializing,
	}
}

// Init connects to the warehouse, discovers the schema and learns the
// machine keyword index. It is meant to run in the background; the HTTP
// server serves the initializing status until it finishes.
func (s *AgentService) Init(ctx context.Context) error {
	log.Info("initializing factory gpt agent")

	if err := s.warehouse.Ping(ctx); err != nil {
		err = fmt.Errorf("could not connect to warehouse: %w", err)
		s.Fail(err)
		return err
	}
	log.Info("warehouse connection is valid")

	schema, tableCount, err := s.schemaSvc.Discover(ctx)
	if err != nil {
		err = fmt.Errorf("could not discover schema: %w", err)
		s.Fail(err)
		return err
	}
	log.WithField("tables", tableCount).Info("warehouse schema discovered")

	index, err := s.indexSvc.Learn(ctx)
	if err != nil {
		err = fmt.Errorf("could not learn machine keywords: %w", err)
		s.Fail(err)
		return err
	}
	log.WithField("keywords", index.Len()).Info("machine keyword index learned")

	s.mu.Lock()
	s.schema = schema
	s.keywords = index.Keywords()
	s.status = domain.AgentReady
	s.statusMsg = ""
	s.mu.Unlock()

	log.Info("factory gpt agent ready")
	return nil
}

// Fail moves the agent into the error state, keeping the message for
// /agent-status.
func (s *AgentService) Fail(err error) {
	s.mu.Lock()
	s.status = domain.AgentError
	s.statusMsg = err.Error()
	s.mu.Unlock()
}

func (s *AgentService) Status() (domain.AgentStatus, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.statusMsg
}

// Ask answers a user question. Pipeline failures that the user can recover
// from by rephrasing come back as normal answers, the way an analyst would
// apologize rather than crash.
func (s *AgentService) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, domain.ErrEmptyQuestion
	}

	status, msg := s.Status()
	switch status {
	case domain.AgentInitializing:
		return nil, domain.ErrAgentInitializing
	case domain.AgentError:
		return nil, fmt.Errorf("%w: %s", domain.ErrAgentUnavailable, msg)
	}

	if classifyIntent(question) == intentChat {
		return s.askChat(ctx, question)
	}
	return s.askData(ctx, question)
}

func (s *AgentService) askChat(ctx context.Context, question string) (*domain.Answer, error) {
	prompt := buildChatPrompt(s.history.Recent(chatHistoryDepth), question)

	content, err := s.llm.Complete(ctx, []ports.ChatMessage{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	answer := strings.TrimSpace(content)

	s.history.Append(
		domain.ChatTurn{Role: domain.RoleUser, Content: question},
		domain.ChatTurn{Role: domain.RoleAssistant, Content: answer},
	)
	return &domain.Answer{Text: answer}, nil
}

func (s *AgentService) askData(ctx context.Context, question string) (*domain.Answer, error) {
	s.mu.RLock()
	schema := s.schema
	keywords := s.keywords
	s.mu.RUnlock()

	// Stage 1: plan candidate (table, column) pairs.
	candidates, err := s.planCandidates(ctx, schema, keywords, question)
	if err != nil {
		if errors.Is(err, domain.ErrCompletionFailed) {
			return nil, err
		}
		log.WithError(err).Warn("planning stage failed")
		return &domain.Answer{Text: planFailedReply}, nil
	}
	log.WithField("candidates", len(candidates)).Debug("planning stage complete")

	// Stage 2: generate and execute SQL per candidate until one succeeds.
	for i, candidate := range candidates {
		if candidate.Table == "" || candidate.Column == "" {
			continue
		}
		attempt := log.WithFields(log.Fields{
			"attempt": i + 1,
			"table":   candidate.Table,
			"column":  candidate.Column,
		})

		sql, err := s.generateSQL(ctx, schema, candidate, question)
		if err != nil {
			return nil, err
		}
		if err := GuardReadOnly(sql); err != nil {
			attempt.WithError(err).Warn("blocked generated query")
			continue
		}

		result, err := s.warehouse.RunReadQuery(ctx, sql)
		if err != nil {
			attempt.WithError(err).Debug("candidate query failed")
			continue
		}
		if result.Empty() {
			attempt.Debug("candidate query returned no data")
			continue
		}

		// Stage 3: phrase the result.
		answer := FormatAnswer(question, result)
		s.history.Append(
			domain.ChatTurn{Role: domain.RoleUser, Content: question},
			domain.ChatTurn{Role: domain.RoleAssistant, Content: answer, SQLExecuted: sql},
		)
		return &domain.Answer{Text: answer, SQL: sql}, nil
	}

	return &domain.Answer{Text: noAnswerReply}, nil
}

type planResponse struct {
	Candidates []domain.QueryCandidate `json:"candidates"`
}

func (s *AgentService) planCandidates(ctx context.Context, schema string, keywords []string, question string) ([]domain.QueryCandidate, error) {
	prompt := buildPlanningPrompt(schema, s.history.Recent(planHistoryDepth), keywords, question)

	content, err := s.llm.Complete(ctx, []ports.ChatMessage{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}

	var plan planResponse
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if len(plan.Candidates) == 0 {
		return nil, fmt.Errorf("decode plan: no candidates")
	}
	return plan.Candidates, nil
}

func (s *AgentService) generateSQL(ctx context.Context, schema string, candidate domain.QueryCandidate, question string) (string, error) {
	prompt := buildSQLPrompt(schema, candidate, question)

	content, err := s.llm.Complete(ctx, []ports.ChatMessage{{Role: domain.RoleUser, Content: prompt}})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrCompletionFailed, err)
	}
	return cleanSQL(content), nil
}

// stripCodeFence unwraps ```json ... ``` style fences LLMs like to add.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if i := strings.LastIndex(content, "```"); i >= 0 {
			content = content[:i]
		}
	}
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "json")
	return strings.TrimSpace(content)
}

func cleanSQL(content string) string {
	sql := strings.TrimSpace(content)
	sql = strings.TrimPrefix(sql, "```sql")
	sql = strings.TrimPrefix(sql, "```")
	sql = strings.TrimSuffix(sql, "```")
	sql = strings.TrimSpace(sql)
	return strings.TrimSuffix(sql, ";")
}
