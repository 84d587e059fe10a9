package service

import (
	"time"

	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/models"
)

// Snapshot is the dashboard view of the reconciler state.
type Snapshot struct {
	models.ThermalState
	Panel display.Panel `json:"panel"`
}

// LogFilter selects events by time range and type.
type LogFilter struct {
	From  time.Time // inclusive; zero means no lower bound
	To    time.Time // inclusive; zero means no upper bound
	Type  string    // "" or one of the models.Event* types
	Limit int       // keep only the newest Limit events; 0 means all
}
