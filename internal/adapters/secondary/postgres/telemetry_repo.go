package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"factory-gpt-service/internal/core/domain"
	ports "factory-gpt-service/internal/core/ports/output"
)

type telemetryRepo struct {
	pool *pgxpool.Pool
}

func NewTelemetryRepository(pool *pgxpool.Pool) ports.TelemetryRepository {
	return &telemetryRepo{pool: pool}
}

func (r *telemetryRepo) Insert(ctx context.Context, reading *domain.TelemetryReading) error {
	query := `
		INSERT INTO live_machine_telemetry
			(machine_name, machine_group, cycle_time, downtime_seconds,
			 production_count, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := r.pool.Exec(ctx, query,
		reading.MachineName, reading.MachineGroup, reading.CycleTime,
		reading.DowntimeSeconds, reading.ProductionCount, reading.Status,
		reading.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert telemetry reading: %w", err)
	}
	return nil
}

// Ensure interface compliance
var _ ports.TelemetryRepository = (*telemetryRepo)(nil)
