package models

import "time"

// Event types written to the thermostat log.
const (
	EventAdjust    = "ADJUST"
	EventCooling   = "COOLING"
	EventHeating   = "HEATING"
	EventSyncing   = "SYNCING"
	EventPress     = "PRESS"
	EventError     = "ERROR"
	EventTelemetry = "TELEMETRY"
)

// ThermostatEvent is a single log entry.
type ThermostatEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // ADJUST | COOLING | HEATING | SYNCING | PRESS | ERROR | TELEMETRY
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}

// TelemetryPoint is one recorded temperature of the replay dataset.
type TelemetryPoint struct {
	Temperature float64 `json:"temperature" yaml:"temperature"`
}
