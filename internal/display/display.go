// Package display holds the sinks the reconciler and the telemetry replay
// report to: dashboards over websocket, MQTT, e-mail and the log.
package display

import (
	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/models"
)

// Display receives everything a dashboard shows. Implementations must not
// block for long; they are called from the reconciler's tick.
type Display interface {
	// ShowTemperatures updates the panel. outside is nil when unknown.
	ShowTemperatures(current float64, outside *float64)
	ShowAlert(message string, reason models.Reason)
	// ShowPress animates a simulated button press.
	ShowPress(c control.Control, h control.Handle)
}

// Recorder stores chart samples.
type Recorder interface {
	Record(s models.Sample)
}

// Fanout forwards every call to each display in order.
type Fanout []Display

func (f Fanout) ShowTemperatures(current float64, outside *float64) {
	for _, d := range f {
		d.ShowTemperatures(current, outside)
	}
}

func (f Fanout) ShowAlert(message string, reason models.Reason) {
	for _, d := range f {
		d.ShowAlert(message, reason)
	}
}

func (f Fanout) ShowPress(c control.Control, h control.Handle) {
	for _, d := range f {
		d.ShowPress(c, h)
	}
}

// Recorders forwards every sample to each recorder.
type Recorders []Recorder

func (rs Recorders) Record(s models.Sample) {
	for _, r := range rs {
		r.Record(s)
	}
}
