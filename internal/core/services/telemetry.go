package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/core/domain"
	"factory-gpt-service/internal/core/ports/output"
)

// TelemetryIngestService decodes live machine readings off the MQTT bus and
// writes them into the warehouse live table.
type TelemetryIngestService struct {
	repo ports.TelemetryRepository
}

func NewTelemetryIngestService(repo ports.TelemetryRepository) *TelemetryIngestService {
	return &TelemetryIngestService{repo: repo}
}

// HandleMessage processes one MQTT payload. Malformed payloads are an error
// for the caller to log; they never stop the subscription.
func (s *TelemetryIngestService) HandleMessage(ctx context.Context, topic string, payload []byte) error {
	var reading domain.TelemetryReading
	if err := json.Unmarshal(payload, &reading); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedReading, err)
	}
	if reading.MachineName == "" {
		return domain.ErrMissingMachine
	}
	if reading.CreatedAt.IsZero() {
		reading.CreatedAt = time.Now().UTC()
	}

	if err := s.repo.Insert(ctx, &reading); err != nil {
		return fmt.Errorf("insert telemetry reading: %w", err)
	}

	log.WithFields(log.Fields{
		"topic":   topic,
		"machine": reading.MachineName,
	}).Debug("telemetry reading stored")
	return nil
}
