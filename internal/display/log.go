package display

import (
	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
)

// LogDisplay writes display updates to the service log.
type LogDisplay struct {
	log *logger.Logger
}

func NewLogDisplay(log *logger.Logger) *LogDisplay {
	return &LogDisplay{log: log}
}

func (d *LogDisplay) ShowTemperatures(current float64, outside *float64) {
	if outside == nil {
		d.log.Warnw("display_temperatures", "current_c", current, "outside", "unknown")
		return
	}
	d.log.Debugw("display_temperatures", "current_c", current, "outside_c", *outside)
}

func (d *LogDisplay) ShowAlert(message string, reason models.Reason) {
	d.log.Infow("display_alert", "reason", reason, "message", message)
}

func (d *LogDisplay) ShowPress(c control.Control, h control.Handle) {
	d.log.Infow("display_press", "control", c.String(), "handle", h)
}
