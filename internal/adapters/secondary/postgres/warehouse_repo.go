package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"factory-gpt-service/internal/core/domain"
	ports "factory-gpt-service/internal/core/ports/output"
)

type warehouseRepo struct {
	pool *pgxpool.Pool
}

func NewWarehouseRepository(pool *pgxpool.Pool) ports.WarehouseRepository {
	return &warehouseRepo{pool: pool}
}

func (r *warehouseRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func (r *warehouseRepo) ListTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

func (r *warehouseRepo) ListColumns(ctx context.Context, table string) ([]ports.ColumnInfo, error) {
	query := `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = $1
		ORDER BY ordinal_position
	`
	rows, err := r.pool.Query(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("list columns for %s: %w", table, err)
	}
	defer rows.Close()

	var columns []ports.ColumnInfo
	for rows.Next() {
		var col ports.ColumnInfo
		if err := rows.Scan(&col.Name, &col.DataType); err != nil {
			return nil, fmt.Errorf("scan column for %s: %w", table, err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r *warehouseRepo) DistinctValues(ctx context.Context, table, column string) ([]string, error) {
	// Identifiers cannot be bound as parameters; sanitize them instead.
	query := fmt.Sprintf(
		`SELECT DISTINCT %s::text FROM %s WHERE %s IS NOT NULL`,
		pgx.Identifier{column}.Sanitize(),
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
	)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct values for %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan distinct value for %s.%s: %w", table, column, err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (r *warehouseRepo) RunReadQuery(ctx context.Context, sql string) (*domain.ResultSet, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("run read query: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	result := &domain.ResultSet{Columns: columns}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("run read query: %w", err)
	}
	return result, nil
}

// Ensure interface compliance
var _ ports.WarehouseRepository = (*warehouseRepo)(nil)
