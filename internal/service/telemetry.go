package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

// LoadDataset reads the telemetry replay file: a list of {temperature}
// entries in YAML or JSON.
func LoadDataset(path string) ([]models.TelemetryPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read telemetry dataset: %w", err)
	}
	var points []models.TelemetryPoint
	if err := yaml.Unmarshal(raw, &points); err != nil {
		return nil, fmt.Errorf("parse telemetry dataset %s: %w", path, err)
	}
	return points, nil
}

// TelemetryService replays a recorded temperature series by pressing the
// thermostat buttons, one point per step.
type TelemetryService struct {
	dataset   []models.TelemetryPoint
	controls  Controls
	eventRepo repository.EventRepo
	log       *logger.Logger
	now       func() time.Time

	manual atomic.Bool

	mu       sync.Mutex
	next     int
	previous float64
}

func NewTelemetryService(dataset []models.TelemetryPoint, controls Controls, eventRepo repository.EventRepo, log *logger.Logger) *TelemetryService {
	if log == nil {
		log = logger.Nop()
	}
	return &TelemetryService{
		dataset:   dataset,
		controls:  controls,
		eventRepo: eventRepo,
		log:       log,
		now:       time.Now,
		previous:  InitialTempC,
	}
}

// Dataset returns a copy of the replayed points.
func (s *TelemetryService) Dataset() []models.TelemetryPoint {
	out := make([]models.TelemetryPoint, len(s.dataset))
	copy(out, s.dataset)
	return out
}

// MarkManual pauses the replay for the next step after a user change.
func (s *TelemetryService) MarkManual() {
	s.manual.Store(true)
}

// Remaining reports how many points have not been replayed yet.
func (s *TelemetryService) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dataset) - s.next
}

// Replay steps every interval until the dataset is exhausted or ctx is
// cancelled.
func (s *TelemetryService) Replay(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	if len(s.dataset) == 0 {
		s.log.Infow("telemetry_replay_empty")
		return
	}
	s.appendEvent(ctx, "Telemetry replay started", map[string]any{"points": len(s.dataset)})

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, _, err := s.Step(ctx); err != nil {
				s.log.Errorw("telemetry_press_failed", "err", err)
			}
			if s.Remaining() == 0 {
				s.appendEvent(ctx, "Telemetry replay finished", map[string]any{"points": len(s.dataset)})
				return
			}
		}
	}
}

// Step consumes the next point unless a manual change happened since the
// last step. It presses Increase when the point is above the previous one,
// Decrease when below, nothing when equal. The manual flag is cleared on
// every step.
func (s *TelemetryService) Step(ctx context.Context) (control.Control, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.manual.Swap(false) || s.next >= len(s.dataset) {
		return 0, false, nil
	}

	target := s.dataset[s.next].Temperature
	var c control.Control
	switch {
	case target > s.previous:
		c = control.IncreaseButton
	case target < s.previous:
		c = control.DecreaseButton
	}
	s.previous = target
	s.next++

	if c == 0 {
		return 0, false, nil
	}
	_, err := s.controls.Press(ctx, c)
	return c, true, err
}

func (s *TelemetryService) appendEvent(ctx context.Context, desc string, meta map[string]any) {
	if s.eventRepo == nil {
		return
	}
	if err := s.eventRepo.Append(ctx, models.ThermostatEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  s.now().UTC(),
		Type:        models.EventTelemetry,
		Description: desc,
		Metadata:    meta,
	}); err != nil {
		s.log.Errorw("telemetry_event_append_failed", "err", err)
	}
}
