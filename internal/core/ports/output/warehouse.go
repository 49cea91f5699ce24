package ports

import (
	"context"

	"factory-gpt-service/internal/core/domain"
)

// ColumnInfo describes one column of a warehouse table.
type ColumnInfo struct {
	Name     string
	DataType string
}

// WarehouseRepository is the outbound port to the factory data warehouse.
// The agent only ever reads from it; writes go through TelemetryRepository.
type WarehouseRepository interface {
	Ping(ctx context.Context) error
	ListTables(ctx context.Context) ([]string, error)
	ListColumns(ctx context.Context, table string) ([]ColumnInfo, error)
	DistinctValues(ctx context.Context, table, column string) ([]string, error)
	RunReadQuery(ctx context.Context, sql string) (*domain.ResultSet, error)
}

// TelemetryRepository persists live machine readings.
type TelemetryRepository interface {
	Insert(ctx context.Context, reading *domain.TelemetryReading) error
}
