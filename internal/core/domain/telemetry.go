package domain

import "time"

// TelemetryReading is a live machine measurement as published on the MQTT
// bus and stored in the live telemetry table.
type TelemetryReading struct {
	MachineName     string    `json:"machine_name"`
	MachineGroup    string    `json:"machine_group"`
	CycleTime       float64   `json:"cycle_time"`
	DowntimeSeconds float64   `json:"downtime_seconds"`
	ProductionCount int64     `json:"production_count"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}
