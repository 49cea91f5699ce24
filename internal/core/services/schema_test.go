package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ports "factory-gpt-service/internal/core/ports/output"
	"factory-gpt-service/internal/testutil"
)

func TestDiscover_RendersCreateTables(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("ListTables", mock.Anything).Return([]string{"hourly_running_idle_downtime", "sys_migrations"}, nil)
	repo.On("ListColumns", mock.Anything, "hourly_running_idle_downtime").Return([]ports.ColumnInfo{
		{Name: "machine_name", DataType: "character varying"},
		{Name: "downtime_seconds", DataType: "double precision"},
	}, nil)

	schema, count, err := NewSchemaService(repo).Discover(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "CREATE TABLE hourly_running_idle_downtime (\n    machine_name CHARACTER VARYING,\n    downtime_seconds DOUBLE PRECISION\n);", schema)
	repo.AssertNotCalled(t, "ListColumns", mock.Anything, "sys_migrations")
}

func TestDiscover_ListTablesFails(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("ListTables", mock.Anything).Return(nil, errors.New("permission denied"))

	_, _, err := NewSchemaService(repo).Discover(context.Background())

	assert.Error(t, err)
}

func TestLearn_IndexesMachineColumns(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("ListTables", mock.Anything).Return([]string{"live_machine_telemetry"}, nil)
	repo.On("ListColumns", mock.Anything, "live_machine_telemetry").Return([]ports.ColumnInfo{
		{Name: "machine_name", DataType: "character varying"},
		{Name: "machine_group", DataType: "character varying"},
		{Name: "cycle_time", DataType: "double precision"},
	}, nil)
	repo.On("DistinctValues", mock.Anything, "live_machine_telemetry", "machine_name").
		Return([]string{"MACLINE-1 DualRobot", ""}, nil)
	repo.On("DistinctValues", mock.Anything, "live_machine_telemetry", "machine_group").
		Return([]string{"PRESS SHOP"}, nil)

	idx, err := NewMachineIndexService(repo).Learn(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"macline", "dualrobot", "dual", "robot", "press", "shop"}, idx.Keywords())
	assert.Contains(t, idx.MachinesFor("robot"), "MACLINE-1 DualRobot")
	repo.AssertNotCalled(t, "DistinctValues", mock.Anything, "live_machine_telemetry", "cycle_time")
}

func TestLearn_SkipsFailingColumn(t *testing.T) {
	repo := new(testutil.MockWarehouseRepo)
	repo.On("ListTables", mock.Anything).Return([]string{"live_machine_telemetry"}, nil)
	repo.On("ListColumns", mock.Anything, "live_machine_telemetry").Return([]ports.ColumnInfo{
		{Name: "machine_name", DataType: "character varying"},
		{Name: "machine_group", DataType: "character varying"},
	}, nil)
	repo.On("DistinctValues", mock.Anything, "live_machine_telemetry", "machine_name").
		Return(nil, errors.New("query timeout"))
	repo.On("DistinctValues", mock.Anything, "live_machine_telemetry", "machine_group").
		Return([]string{"PRESS SHOP"}, nil)

	idx, err := NewMachineIndexService(repo).Learn(context.Background())

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"press", "shop"}, idx.Keywords())
}
