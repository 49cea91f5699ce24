package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"factory-gpt-service/internal/core/domain"
	ports "factory-gpt-service/internal/core/ports/output"
)

// MockWarehouseRepo is a mock of WarehouseRepository.
type MockWarehouseRepo struct {
	mock.Mock
}

func (m *MockWarehouseRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockWarehouseRepo) ListTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWarehouseRepo) ListColumns(ctx context.Context, table string) ([]ports.ColumnInfo, error) {
	args := m.Called(ctx, table)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.ColumnInfo), args.Error(1)
}

func (m *MockWarehouseRepo) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	args := m.Called(ctx, table, column)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWarehouseRepo) RunReadQuery(ctx context.Context, sql string) (*domain.ResultSet, error) {
	args := m.Called(ctx, sql)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResultSet), args.Error(1)
}

// MockTelemetryRepo is a mock of TelemetryRepository.
type MockTelemetryRepo struct {
	mock.Mock
}

func (m *MockTelemetryRepo) Insert(ctx context.Context, reading *domain.TelemetryReading) error {
	args := m.Called(ctx, reading)
	return args.Error(0)
}

// MockChatCompleter is a mock of ChatCompleter.
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}
