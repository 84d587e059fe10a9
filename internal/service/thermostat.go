package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"

	"github.com/google/uuid"
)

// DefaultTempC is the setpoint before the first adjustment.
const DefaultTempC = 22.0

var ErrInvalidChange = errors.New("invalid change: must be a finite number")

type ThermostatService struct {
	stateRepo repository.StateRepo
	eventRepo repository.EventRepo
	weather   *WeatherModel
	log       *logger.Logger
	now       func() time.Time

	// serializes load-add-save in Adjust
	mu sync.Mutex
}

func NewThermostatService(stateRepo repository.StateRepo, eventRepo repository.EventRepo, weather *WeatherModel, log *logger.Logger) *ThermostatService {
	if log == nil {
		log = logger.Nop()
	}
	return &ThermostatService{
		stateRepo: stateRepo,
		eventRepo: eventRepo,
		weather:   weather,
		log:       log,
		now:       time.Now,
	}
}

// Temperature returns the persisted setpoint, DefaultTempC when none exists.
func (s *ThermostatService) Temperature(ctx context.Context) (float64, error) {
	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return 0, err
	}
	if st.ID == 0 {
		return DefaultTempC, nil
	}
	return st.TempC, nil
}

// Adjust adds change to the setpoint, persists it and logs ADJUST.
func (s *ThermostatService) Adjust(ctx context.Context, change float64) (float64, error) {
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return 0, ErrInvalidChange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.stateRepo.Load(ctx)
	if err != nil {
		return 0, err
	}
	if st.ID == 0 {
		st = models.ThermostatState{ID: 1, TempC: DefaultTempC}
	}

	now := s.now().UTC()
	from := st.TempC
	st.TempC += change
	st.UpdatedAt = now
	if err := s.stateRepo.Save(ctx, st); err != nil {
		return 0, err
	}

	// The setpoint is already saved; a lost log line must not fail the call.
	if err := s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  now,
		Type:        models.EventAdjust,
		Description: fmt.Sprintf("Temperature changed by %+.1f°C", change),
		Metadata: map[string]any{
			"from_c":   from,
			"to_c":     st.TempC,
			"change_c": change,
		},
	}); err != nil {
		s.log.Errorw("adjust_event_append_failed", "err", err)
	}
	return st.TempC, nil
}

// Outside returns the simulated outside temperature now.
func (s *ThermostatService) Outside(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.weather == nil {
		return 0, errors.New("weather model not configured")
	}
	return s.weather.At(s.now()), nil
}
