package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"

	"github.com/google/uuid"
)

// StateReader gives access to the reconciler's last known state.
type StateReader interface {
	State() models.ThermalState
}

type ControlService struct {
	registry  *control.Registry
	source    TemperatureSource
	state     StateReader
	display   display.Display
	recorder  display.Recorder
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time
}

func NewControlService(
	registry *control.Registry,
	source TemperatureSource,
	state StateReader,
	d display.Display,
	rec display.Recorder,
	eventRepo repository.EventRepo,
	log *logger.Logger,
) *ControlService {
	if log == nil {
		log = logger.Nop()
	}
	if d == nil {
		d = display.Fanout{}
	}
	if rec == nil {
		rec = display.Recorders{}
	}
	return &ControlService{
		registry:  registry,
		source:    source,
		state:     state,
		display:   d,
		recorder:  rec,
		eventRepo: eventRepo,
		log:       log,
		now:       time.Now,
	}
}

// Press animates the control on the displays and applies its step.
func (s *ControlService) Press(ctx context.Context, c control.Control) (float64, error) {
	if s.registry == nil {
		return 0, control.ErrUnknownControl
	}
	h, err := s.registry.Handle(c)
	if err != nil {
		return 0, err
	}
	s.display.ShowPress(c, h)

	temp, err := s.apply(ctx, c.Step())
	if err != nil {
		return 0, fmt.Errorf("press %s: %w", c, err)
	}
	s.appendEvent(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventPress,
		Description: fmt.Sprintf("Pressed %s button", c),
		Metadata:    map[string]any{"control": c.String(), "handle": string(h), "temp_c": temp},
	})
	return temp, nil
}

// ManualAdjust applies a user-entered change.
func (s *ControlService) ManualAdjust(ctx context.Context, change float64) (float64, error) {
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0, ErrInvalidChange
	}
	return s.apply(ctx, change)
}

// apply changes the setpoint, then refreshes the outside reading for the
// chart. A failed outside read shows as unknown; a failed change shows the
// last known temperature.
func (s *ControlService) apply(ctx context.Context, delta float64) (float64, error) {
	temp, err := s.source.ApplyDelta(ctx, delta)
	if err != nil {
		s.display.ShowTemperatures(s.previous(), nil)
		s.log.Errorw("control_apply_failed", "delta_c", delta, "err", err)
		return 0, err
	}

	var outside *float64
	if v, err := s.source.OutdoorTemperature(ctx); err != nil {
		s.log.Warnw("control_outside_read_failed", "err", err)
	} else {
		outside = models.Float(v)
	}

	s.recorder.Record(models.Sample{
		Timestamp:    s.now().UTC(),
		CurrentTempC: temp,
		OutsideTempC: outside,
	})
	s.display.ShowTemperatures(temp, outside)
	return temp, nil
}

func (s *ControlService) previous() float64 {
	if s.state == nil {
		return InitialTempC
	}
	return s.state.State().CurrentTempC
}

func (s *ControlService) appendEvent(ctx context.Context, e models.ThermostatEvent) {
	if s.eventRepo == nil {
		return
	}
	if err := s.eventRepo.Append(ctx, e); err != nil {
		s.log.Errorw("control_event_append_failed", "type", e.Type, "err", err)
	}
}
