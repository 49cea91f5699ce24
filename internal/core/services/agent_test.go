package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"factory-gpt-service/internal/core/domain"
	ports "factory-gpt-service/internal/core/ports/output"
	"factory-gpt-service/internal/testutil"
)

func readyAgent(llm ports.ChatCompleter, repo ports.WarehouseRepository) *AgentService {
	svc := NewAgentService(llm, repo, NewSchemaService(repo), NewMachineIndexService(repo))
	svc.status = domain.AgentReady
	svc.schema = "CREATE TABLE hourly_running_idle_downtime (\n    machine_name VARCHAR,\n    production_count INTEGER\n);"
	svc.keywords = []string{"macline", "press"}
	return svc
}

func TestAsk_EmptyQuestion(t *testing.T) {
	svc := readyAgent(new(testutil.MockChatCompleter), new(testutil.MockWarehouseRepo))

	_, err := svc.Ask(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrEmptyQuestion)
}

func TestAsk_WhileInitializing(t *testing.T) {
	svc := NewAgentService(new(testutil.MockChatCompleter), new(testutil.MockWarehouseRepo), nil, nil)

	_, err := svc.Ask(context.Background(), "total production count?")

	assert.ErrorIs(t, err, domain.ErrAgentInitializing)
}

func TestAsk_AfterFailure(t *testing.T) {
	svc := NewAgentService(new(testutil.MockChatCompleter), new(testutil.MockWarehouseRepo), nil, nil)
	svc.Fail(errors.New("warehouse is down"))

	_, err := svc.Ask(context.Background(), "total production count?")

	assert.ErrorIs(t, err, domain.ErrAgentUnavailable)
	assert.Contains(t, err.Error(), "warehouse is down")
}

func TestAsk_ChatIntent(t *testing.T) {
	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return("  Hello! I'm Factory GPT.  ", nil).Once()
	svc := readyAgent(llm, new(testutil.MockWarehouseRepo))

	answer, err := svc.Ask(context.Background(), "hello there")

	assert.NoError(t, err)
	assert.Equal(t, "Hello! I'm Factory GPT.", answer.Text)
	assert.Empty(t, answer.SQL)
	assert.Equal(t, 2, svc.history.Len())
	llm.AssertExpectations(t)
}

func TestAsk_ChatCompletionFails(t *testing.T) {
	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("timeout")).Once()
	svc := readyAgent(llm, new(testutil.MockWarehouseRepo))

	_, err := svc.Ask(context.Background(), "hello")

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
}

func TestAsk_DataPipeline(t *testing.T) {
	plan := "```json\n{\"candidates\": [{\"table\": \"hourly_running_idle_downtime\", \"column\": \"production_count\"}]}\n```"
	generated := "```sql\nSELECT SUM(production_count) AS total FROM hourly_running_idle_downtime;\n```"
	cleaned := "SELECT SUM(production_count) AS total FROM hourly_running_idle_downtime"

	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return(plan, nil).Once()
	llm.On("Complete", mock.Anything, mock.Anything).Return(generated, nil).Once()

	repo := new(testutil.MockWarehouseRepo)
	repo.On("RunReadQuery", mock.Anything, cleaned).Return(&domain.ResultSet{
		Columns: []string{"total"},
		Rows:    []domain.Row{{"total": 15300.0}},
	}, nil).Once()

	svc := readyAgent(llm, repo)

	answer, err := svc.Ask(context.Background(), "total production count for macline?")

	assert.NoError(t, err)
	assert.Equal(t, "The total production count is **15,300 units**.", answer.Text)
	assert.Equal(t, cleaned, answer.SQL)
	assert.Equal(t, 2, svc.history.Len())
	llm.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestAsk_MalformedPlan(t *testing.T) {
	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return("I cannot answer that.", nil).Once()
	svc := readyAgent(llm, new(testutil.MockWarehouseRepo))

	answer, err := svc.Ask(context.Background(), "total production count?")

	assert.NoError(t, err)
	assert.Equal(t, planFailedReply, answer.Text)
}

func TestAsk_PlanCompletionFails(t *testing.T) {
	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("connection refused")).Once()
	svc := readyAgent(llm, new(testutil.MockWarehouseRepo))

	_, err := svc.Ask(context.Background(), "total production count?")

	assert.ErrorIs(t, err, domain.ErrCompletionFailed)
}

func TestAsk_BlockedQueryIsSkipped(t *testing.T) {
	plan := "{\"candidates\": [{\"table\": \"hourly_running_idle_downtime\", \"column\": \"production_count\"}]}"

	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return(plan, nil).Once()
	llm.On("Complete", mock.Anything, mock.Anything).Return("DELETE FROM hourly_running_idle_downtime", nil).Once()

	repo := new(testutil.MockWarehouseRepo)
	svc := readyAgent(llm, repo)

	answer, err := svc.Ask(context.Background(), "total production count?")

	assert.NoError(t, err)
	assert.Equal(t, noAnswerReply, answer.Text)
	repo.AssertNotCalled(t, "RunReadQuery", mock.Anything, mock.Anything)
}

func TestAsk_AllCandidatesFail(t *testing.T) {
	plan := `{"candidates": [
		{"table": "hourly_running_idle_downtime", "column": "production_count"},
		{"table": "live_machine_telemetry", "column": "production_count"}
	]}`

	llm := new(testutil.MockChatCompleter)
	llm.On("Complete", mock.Anything, mock.Anything).Return(plan, nil).Once()
	llm.On("Complete", mock.Anything, mock.Anything).Return("SELECT 1 FROM hourly_running_idle_downtime", nil).Once()
	llm.On("Complete", mock.Anything, mock.Anything).Return("SELECT 1 FROM live_machine_telemetry", nil).Once()

	repo := new(testutil.MockWarehouseRepo)
	repo.On("RunReadQuery", mock.Anything, "SELECT 1 FROM hourly_running_idle_downtime").
		Return(&domain.ResultSet{Columns: []string{"c"}}, nil).Once()
	repo.On("RunReadQuery", mock.Anything, "SELECT 1 FROM live_machine_telemetry").
		Return(nil, errors.New("relation does not exist")).Once()

	svc := readyAgent(llm, repo)

	answer, err := svc.Ask(context.Background(), "total production count?")

	assert.NoError(t, err)
	assert.Equal(t, noAnswerReply, answer.Text)
	llm.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestInit_BecomesReady(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("Ping", mock.Anything).Return(nil)
	repo.On("ListTables", mock.Anything).Return([]string{"hourly_running_idle_downtime"}, nil)
	repo.On("ListColumns", mock.Anything, "hourly_running_idle_downtime").Return([]ports.ColumnInfo{
		{Name: "machine_name", DataType: "character varying"},
		{Name: "production_count", DataType: "integer"},
	}, nil)
	repo.On("DistinctValues", mock.Anything, "hourly_running_idle_downtime", "machine_name").
		Return([]string{"MACLINE-1 ROBOT"}, nil)

	svc := NewAgentService(new(testutil.MockChatCompleter), repo, NewSchemaService(repo), NewMachineIndexService(repo))

	err := svc.Init(context.Background())

	assert.NoError(t, err)
	status, msg := svc.Status()
	assert.Equal(t, domain.AgentReady, status)
	assert.Empty(t, msg)
	assert.Contains(t, svc.schema, "CREATE TABLE hourly_running_idle_downtime")
	assert.Contains(t, svc.keywords, "macline")
	assert.Contains(t, svc.keywords, "robot")
}

func TestInit_PingFailure(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("Ping", mock.Anything).Return(errors.New("dial tcp: connection refused"))

	svc := NewAgentService(new(testutil.MockChatCompleter), repo, NewSchemaService(repo), NewMachineIndexService(repo))

	err := svc.Init(context.Background())

	assert.Error(t, err)
	status, msg := svc.Status()
	assert.Equal(t, domain.AgentError, status)
	assert.Contains(t, msg, "connection refused")
}

func TestClassifyIntent(t *testing.T) {
	assert.Equal(t, intentChat, classifyIntent("Hello, how are you?"))
	assert.Equal(t, intentChat, classifyIntent("who are you"))
	assert.Equal(t, intentData, classifyIntent("total production count for macline?"))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"candidates": []}`, stripCodeFence("```json\n{\"candidates\": []}\n```"))
	assert.Equal(t, `{"candidates": []}`, stripCodeFence(`{"candidates": []}`))
}

func TestCleanSQL(t *testing.T) {
	assert.Equal(t, "SELECT 1", cleanSQL("```sql\nSELECT 1;\n```"))
	assert.Equal(t, "SELECT 1", cleanSQL("SELECT 1;"))
}
