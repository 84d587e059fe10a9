package service

import (
	"context"
	"sync"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/models"
)

type fakeStateRepo struct {
	loadResp   models.ThermostatState
	loadErr    error
	saveErr    error
	savedCalls []models.ThermostatState
}

func (f *fakeStateRepo) Load(ctx context.Context) (models.ThermostatState, error) {
	if f.loadErr != nil {
		return models.ThermostatState{}, f.loadErr
	}
	return f.loadResp, nil
}

// Save records the call and, on success, becomes the next Load result.
func (f *fakeStateRepo) Save(ctx context.Context, s models.ThermostatState) error {
	f.savedCalls = append(f.savedCalls, s)
	if f.saveErr != nil {
		return f.saveErr
	}
	f.loadResp = s
	return nil
}

// memEventRepo is an in-memory EventRepo.
type memEventRepo struct {
	mu        sync.Mutex
	appendErr error
	events    []models.ThermostatEvent
}

func (m *memEventRepo) Append(ctx context.Context, e models.ThermostatEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return m.appendErr
}

func (m *memEventRepo) List(ctx context.Context, from, to time.Time, typ string) ([]models.ThermostatEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ThermostatEvent
	for _, e := range m.events {
		if typ == "" || e.Type == typ {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memEventRepo) types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeSource is a scriptable TemperatureSource.
type fakeSource struct {
	mu        sync.Mutex
	indoor    float64
	outdoor   float64
	indoorErr error
	outErr    error
	applyErr  error
	deltas    []float64

	// block, when set, holds IndoorTemperature until closed.
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeSource) IndoorTemperature(ctx context.Context) (float64, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.indoor, f.indoorErr
}

func (f *fakeSource) OutdoorTemperature(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outdoor, f.outErr
}

func (f *fakeSource) ApplyDelta(ctx context.Context, delta float64) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas = append(f.deltas, delta)
	if f.applyErr != nil {
		return 0, f.applyErr
	}
	f.indoor += delta
	return f.indoor, nil
}

type shownTemps struct {
	current float64
	outside *float64
}

type shownAlert struct {
	message string
	reason  models.Reason
}

type spyDisplay struct {
	mu      sync.Mutex
	temps   []shownTemps
	alerts  []shownAlert
	presses []control.Control
}

func (s *spyDisplay) ShowTemperatures(current float64, outside *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.temps = append(s.temps, shownTemps{current, outside})
}

func (s *spyDisplay) ShowAlert(message string, reason models.Reason) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, shownAlert{message, reason})
}

func (s *spyDisplay) ShowPress(c control.Control, _ control.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presses = append(s.presses, c)
}

type spyRecorder struct {
	mu      sync.Mutex
	samples []models.Sample
}

func (s *spyRecorder) Record(sample models.Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
}

func mustRegistry() *control.Registry {
	r, err := control.NewRegistry(map[control.Control]control.Handle{
		control.IncreaseButton: "increasebutton",
		control.DecreaseButton: "decreasebutton",
	})
	if err != nil {
		panic(err)
	}
	return r
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
