package models

import "time"

// ThermalState is the reconciler's view of the room: the last confirmed
// thermostat temperature and the last outside reading.
type ThermalState struct {
	CurrentTempC float64   `json:"current_temp_c"`       // °C
	OutsideTempC *float64  `json:"outside_temp_c"`       // °C, nil when unknown
	Stale        bool      `json:"stale"`                // last tick failed
	UpdatedAt    time.Time `json:"updated_at,omitempty"` // last successful tick
}

// OutsideKnown reports whether an outside reading is available.
func (s ThermalState) OutsideKnown() bool {
	return s.OutsideTempC != nil
}

// Sample is a single chart point.
type Sample struct {
	Timestamp    time.Time `json:"timestamp"`
	CurrentTempC float64   `json:"current_temp_c"`
	OutsideTempC *float64  `json:"outside_temp_c"`
}

// Float returns a pointer to v, used for optional temperatures.
func Float(v float64) *float64 {
	return &v
}
