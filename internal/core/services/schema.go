package services

import (
	"context"
	"fmt"
	"strings"

	"factory-gpt-service/internal/core/ports/output"
)

// SchemaService renders the warehouse schema as CREATE TABLE text for
// prompting the planner and the SQL generator.
type SchemaService struct {
	repo ports.WarehouseRepository
}

func NewSchemaService(repo ports.WarehouseRepository) *SchemaService {
	return &SchemaService{repo: repo}
}

// Discover lists every relevant table and returns the rendered schema plus
// the table count.
func (s *SchemaService) Discover(ctx context.Context) (string, int, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("discover schema: %w", err)
	}

	var parts []string
	count := 0
	for _, table := range tables {
		if strings.HasPrefix(strings.ToLower(table), "sys") {
			continue
		}
		columns, err := s.repo.ListColumns(ctx, table)
		if err != nil {
			return "", 0, fmt.Errorf("discover schema for %s: %w", table, err)
		}
		if len(columns) == 0 {
			continue
		}

		lines := make([]string, 0, len(columns))
		for _, col := range columns {
			lines = append(lines, fmt.Sprintf("    %s %s", col.Name, strings.ToUpper(col.DataType)))
		}
		parts = append(parts, fmt.Sprintf("CREATE TABLE %s (\n%s\n);", table, strings.Join(lines, ",\n")))
		count++
	}

	return strings.Join(parts, "\n\n"), count, nil
}
