package models

// Reason explains why the reconciler moved the setpoint.
type Reason string

const (
	ReasonCooling Reason = "COOLING"
	ReasonHeating Reason = "HEATING"
	ReasonSyncing Reason = "SYNCING"
)

func (r Reason) String() string {
	return string(r)
}

// AdjustmentCommand is produced at most once per tick and applied immediately.
type AdjustmentCommand struct {
	Delta  float64 `json:"delta"`  // °C, signed
	Reason Reason  `json:"reason"` // COOLING | HEATING | SYNCING
}
