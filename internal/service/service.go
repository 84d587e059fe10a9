package service

import (
	"context"
	"time"

	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/history"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Thermostat is the simulated device: a persisted setpoint and the weather
// outside.
type Thermostat interface {
	Temperature(ctx context.Context) (float64, error)
	Adjust(ctx context.Context, change float64) (float64, error)
	Outside(ctx context.Context) (float64, error)
}

// Reconciler runs the control loop. Stop Run via context cancellation.
type Reconciler interface {
	Run(ctx context.Context, interval time.Duration)
	TickOnce(ctx context.Context) error
	State() models.ThermalState
}

// Controls presses the thermostat buttons and applies manual changes.
type Controls interface {
	Press(ctx context.Context, c control.Control) (float64, error)
	ManualAdjust(ctx context.Context, change float64) (float64, error)
}

// Telemetry replays the recorded dataset through the controls.
type Telemetry interface {
	Replay(ctx context.Context, interval time.Duration)
	Dataset() []models.TelemetryPoint
	MarkManual()
}

// Monitoring exposes the read-only dashboard view.
type Monitoring interface {
	Snapshot() Snapshot
}

type History interface {
	Samples(limit int) []models.Sample
}

// EventLog exposes append-only logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ThermostatEvent, error)
}

type Service struct {
	Thermostat
	Reconciler
	Controls
	Telemetry
	Monitoring
	History
	EventLog
	Authorization
}

// Options carries what the services need beyond the repositories.
type Options struct {
	// Source is where the loop reads and adjusts temperatures. Nil uses the
	// in-process thermostat.
	Source   TemperatureSource
	Weather  *WeatherModel
	Display  display.Display
	History  *history.Ring
	Recorder display.Recorder // defaults to History
	Registry *control.Registry
	Dataset  []models.TelemetryPoint
	Auth     config.Auth
	Log      *logger.Logger
}

func NewService(repos *repository.Repository, opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	recorder := opts.Recorder
	if recorder == nil && opts.History != nil {
		recorder = opts.History
	}

	thermostat := NewThermostatService(repos.StateRepo, repos.EventRepo, opts.Weather, log.Named("thermostat"))
	source := opts.Source
	if source == nil {
		source = NewLocalSource(thermostat)
	}
	reconciler := NewReconcilerService(source, opts.Display, recorder, repos.EventRepo, log.Named("reconciler"))
	controls := NewControlService(opts.Registry, source, reconciler, opts.Display, recorder, repos.EventRepo, log.Named("controls"))

	return &Service{
		Thermostat:    thermostat,
		Reconciler:    reconciler,
		Controls:      controls,
		Telemetry:     NewTelemetryService(opts.Dataset, controls, repos.EventRepo, log.Named("telemetry")),
		Monitoring:    NewMonitoringService(reconciler),
		History:       opts.History,
		EventLog:      NewEventLogService(repos.EventRepo),
		Authorization: NewAuthService(repos.Auth, opts.Auth.SigningKey, opts.Auth.TokenTTL),
	}
}
