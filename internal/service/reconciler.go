package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTickInterval is how often Run reconciles.
	DefaultTickInterval = 5 * time.Second
	// InitialTempC is shown until the first successful tick.
	InitialTempC = DefaultTempC
)

var ErrTickInFlight = errors.New("reconcile tick already in flight")

// ReconcilerService polls the backend and nudges the setpoint toward the
// policy in control.Tick. It owns the ThermalState.
type ReconcilerService struct {
	source    TemperatureSource
	display   display.Display
	recorder  display.Recorder
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time

	inFlight atomic.Bool

	mu    sync.RWMutex
	state models.ThermalState
}

func NewReconcilerService(source TemperatureSource, d display.Display, rec display.Recorder, eventRepo repository.EventRepo, log *logger.Logger) *ReconcilerService {
	if log == nil {
		log = logger.Nop()
	}
	if d == nil {
		d = display.Fanout{}
	}
	if rec == nil {
		rec = display.Recorders{}
	}
	return &ReconcilerService{
		source:    source,
		display:   d,
		recorder:  rec,
		eventRepo: eventRepo,
		log:       log,
		now:       time.Now,
		state:     models.ThermalState{CurrentTempC: InitialTempC},
	}
}

// Run ticks once immediately and then every interval until ctx is
// cancelled. Tick errors are logged, never returned.
func (r *ReconcilerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	r.runTick(ctx)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.runTick(ctx)
		}
	}
}

func (r *ReconcilerService) runTick(ctx context.Context) {
	err := r.TickOnce(ctx)
	switch {
	case err == nil:
	case errors.Is(err, ErrTickInFlight):
		r.log.Debugw("reconcile_tick_skipped", "reason", "in_flight")
	case ctx.Err() != nil:
		// shutting down
	default:
		r.log.Debugw("reconcile_tick_error", "err", err)
	}
}

// State returns a copy of the current ThermalState.
func (r *ReconcilerService) State() models.ThermalState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	st := r.state
	if st.OutsideTempC != nil {
		st.OutsideTempC = models.Float(*st.OutsideTempC)
	}
	return st
}

// TickOnce reads both temperatures, applies at most one adjustment and
// publishes the result. On any backend failure the state is left as it was
// (only marked stale) and the displays show the previous temperature with an
// unknown outside value.
func (r *ReconcilerService) TickOnce(ctx context.Context) error {
	if !r.inFlight.CompareAndSwap(false, true) {
		return ErrTickInFlight
	}
	defer r.inFlight.Store(false)

	indoor, outdoor, err := r.read(ctx)
	if err != nil {
		return r.fail(ctx, err)
	}

	current := indoor
	cmd, ok := control.Tick(indoor, outdoor)
	if ok {
		current, err = r.source.ApplyDelta(ctx, cmd.Delta)
		if err != nil {
			return r.fail(ctx, fmt.Errorf("apply %s delta %+.2f: %w", cmd.Reason, cmd.Delta, err))
		}
	}

	now := r.now().UTC()
	r.mu.Lock()
	r.state = models.ThermalState{
		CurrentTempC: current,
		OutsideTempC: models.Float(outdoor),
		UpdatedAt:    now,
	}
	r.mu.Unlock()

	r.recorder.Record(models.Sample{
		Timestamp:    now,
		CurrentTempC: current,
		OutsideTempC: models.Float(outdoor),
	})
	r.display.ShowTemperatures(current, models.Float(outdoor))

	if !ok {
		return nil
	}
	msg := alertMessage(cmd, outdoor)
	r.display.ShowAlert(msg, cmd.Reason)
	r.log.Infow("reconcile_adjusted",
		"reason", cmd.Reason,
		"delta_c", cmd.Delta,
		"indoor_c", indoor,
		"outdoor_c", outdoor,
		"current_c", current,
	)
	r.appendEvent(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        cmd.Reason.String(),
		Description: msg,
		Metadata: map[string]any{
			"delta_c":   cmd.Delta,
			"indoor_c":  indoor,
			"outdoor_c": outdoor,
			"current_c": current,
		},
	})
	return nil
}

// read fetches indoor and outdoor temperature concurrently.
func (r *ReconcilerService) read(ctx context.Context) (indoor, outdoor float64, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := r.source.IndoorTemperature(gctx)
		if err != nil {
			return fmt.Errorf("read indoor temperature: %w", err)
		}
		indoor = v
		return nil
	})
	g.Go(func() error {
		v, err := r.source.OutdoorTemperature(gctx)
		if err != nil {
			return fmt.Errorf("read outdoor temperature: %w", err)
		}
		outdoor = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return indoor, outdoor, nil
}

func (r *ReconcilerService) fail(ctx context.Context, err error) error {
	r.mu.Lock()
	r.state.Stale = true
	previous := r.state.CurrentTempC
	r.mu.Unlock()

	r.display.ShowTemperatures(previous, nil)
	r.log.Errorw("reconcile_tick_failed", "err", err, "previous_c", previous)
	r.appendEvent(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  r.now().UTC(),
		Type:        models.EventError,
		Description: "Reconcile tick failed",
		Metadata:    map[string]any{"error": err.Error(), "previous_c": previous},
	})
	return err
}

func (r *ReconcilerService) appendEvent(ctx context.Context, e models.ThermostatEvent) {
	if r.eventRepo == nil {
		return
	}
	if err := r.eventRepo.Append(context.WithoutCancel(ctx), e); err != nil {
		r.log.Errorw("reconcile_event_append_failed", "type", e.Type, "err", err)
	}
}

func alertMessage(cmd models.AdjustmentCommand, outdoor float64) string {
	switch cmd.Reason {
	case models.ReasonCooling:
		return fmt.Sprintf("Cooling: outside is %.1f°C, lowering thermostat by %.1f°C", outdoor, -cmd.Delta)
	case models.ReasonHeating:
		return fmt.Sprintf("Heating: outside is %.1f°C, raising thermostat by %.1f°C", outdoor, cmd.Delta)
	default:
		return fmt.Sprintf("Syncing: matching outside temperature %.1f°C (%+.1f°C)", outdoor, cmd.Delta)
	}
}
