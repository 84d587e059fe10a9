package service

import "context"

// TemperatureSource is the backend the reconciler talks to. backend.Client
// implements it over HTTP; LocalSource in-process.
type TemperatureSource interface {
	IndoorTemperature(ctx context.Context) (float64, error)
	OutdoorTemperature(ctx context.Context) (float64, error)
	// ApplyDelta changes the setpoint and returns the confirmed temperature.
	ApplyDelta(ctx context.Context, delta float64) (float64, error)
}

// LocalSource adapts a Thermostat to TemperatureSource.
type LocalSource struct {
	thermostat Thermostat
}

func NewLocalSource(t Thermostat) *LocalSource {
	return &LocalSource{thermostat: t}
}

func (s *LocalSource) IndoorTemperature(ctx context.Context) (float64, error) {
	return s.thermostat.Temperature(ctx)
}

func (s *LocalSource) OutdoorTemperature(ctx context.Context) (float64, error) {
	return s.thermostat.Outside(ctx)
}

func (s *LocalSource) ApplyDelta(ctx context.Context, delta float64) (float64, error) {
	return s.thermostat.Adjust(ctx, delta)
}
