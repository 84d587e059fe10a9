package models

import "time"

// ThermostatState is the persisted setpoint of the simulated thermostat.
type ThermostatState struct {
	ID        int       `json:"id"`
	TempC     float64   `json:"temperature"` // °C
	UpdatedAt time.Time `json:"updated_at"`
}
