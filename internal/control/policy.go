// Package control holds the reconciliation policy and the thermostat's
// physical controls.
package control

import (
	"math"

	"thermostat_dashboard/internal/models"
)

// Policy thresholds, °C.
const (
	CoolOutsideAbove = 28.0 // outside above this triggers cooling
	CoolFloor        = 22.0 // cooling never goes below this
	HeatOutsideBelow = 15.0 // outside below this triggers heating
	HeatCeiling      = 24.0 // heating never goes above this
	SyncTolerance    = 0.5  // |current-outside| at or below this is in sync
	MaxStep          = 1.0  // cap for cooling/heating per tick
)

// Tick decides the adjustment for one reconciliation cycle.
// The second return value is false when no adjustment is needed.
func Tick(current, outside float64) (models.AdjustmentCommand, bool) {
	switch {
	case outside > CoolOutsideAbove && current > CoolFloor:
		return models.AdjustmentCommand{
			Delta:  math.Max(CoolFloor-current, -MaxStep),
			Reason: models.ReasonCooling,
		}, true
	case outside < HeatOutsideBelow && current < HeatCeiling:
		return models.AdjustmentCommand{
			Delta:  math.Min(HeatCeiling-current, MaxStep),
			Reason: models.ReasonHeating,
		}, true
	case math.Abs(current-outside) > SyncTolerance:
		return models.AdjustmentCommand{
			Delta:  outside - current,
			Reason: models.ReasonSyncing,
		}, true
	default:
		return models.AdjustmentCommand{}, false
	}
}
