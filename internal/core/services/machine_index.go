package services

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"

	"factory-gpt-service/internal/core/domain"
	"factory-gpt-service/internal/core/ports/output"
)

// machineColumns are the columns whose distinct values name machines.
var machineColumns = []string{"machine_name", "machine_group"}

// MachineIndexService builds the keyword index over machine names found in
// the warehouse. A failure on one table is logged and skipped so a single
// bad table cannot keep the agent from starting.
type MachineIndexService struct {
	repo ports.WarehouseRepository
}

func NewMachineIndexService(repo ports.WarehouseRepository) *MachineIndexService {
	return &MachineIndexService{repo: repo}
}

func (s *MachineIndexService) Learn(ctx context.Context) (*domain.MachineIndex, error) {
	tables, err := s.repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	idx := domain.NewMachineIndex()
	for _, table := range tables {
		if strings.HasPrefix(strings.ToLower(table), "sys") {
			continue
		}
		columns, err := s.repo.ListColumns(ctx, table)
		if err != nil {
			log.WithError(err).WithField("table", table).Warn("skipping machine learning for table")
			continue
		}
		for _, col := range columns {
			if !isMachineColumn(col.Name) {
				continue
			}
			values, err := s.repo.DistinctValues(ctx, table, col.Name)
			if err != nil {
				log.WithError(err).WithFields(log.Fields{
					"table":  table,
					"column": col.Name,
				}).Warn("skipping machine learning for column")
				continue
			}
			for _, name := range values {
				if name == "" {
					continue
				}
				idx.IndexName(name)
			}
		}
	}

	return idx, nil
}

func isMachineColumn(name string) bool {
	for _, mc := range machineColumns {
		if strings.EqualFold(name, mc) {
			return true
		}
	}
	return false
}
