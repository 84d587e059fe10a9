package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"thermostat_dashboard/internal/models"
)

func newTestThermostat(states *fakeStateRepo, events *memEventRepo) *ThermostatService {
	w, err := NewWeatherModel(WeatherParams{BaseC: 20, AmplitudeC: 5, Period: time.Hour}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	s := NewThermostatService(states, events, w, nil)
	s.now = fixedClock(time.Date(2025, 1, 1, 0, 15, 0, 0, time.UTC))
	return s
}

func TestThermostatService_Temperature(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		repo    *fakeStateRepo
		want    float64
		wantErr bool
	}{
		{name: "default when never adjusted", repo: &fakeStateRepo{}, want: DefaultTempC},
		{name: "persisted value", repo: &fakeStateRepo{loadResp: models.ThermostatState{ID: 1, TempC: 19.5}}, want: 19.5},
		{name: "load error", repo: &fakeStateRepo{loadErr: errors.New("db down")}, wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := newTestThermostat(tc.repo, &memEventRepo{}).Temperature(context.Background())
			if (err != nil) != tc.wantErr {
				t.Fatalf("err=%v wantErr=%v", err, tc.wantErr)
			}
			if !tc.wantErr && got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestThermostatService_Adjust_InitializesAndPersists(t *testing.T) {
	t.Parallel()

	states := &fakeStateRepo{}
	events := &memEventRepo{}
	s := newTestThermostat(states, events)

	got, err := s.Adjust(context.Background(), 0.5)
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if got != 22.5 {
		t.Fatalf("got %v want 22.5", got)
	}
	saved := states.savedCalls[len(states.savedCalls)-1]
	if saved.ID != 1 || saved.TempC != 22.5 || saved.UpdatedAt.IsZero() {
		t.Fatalf("saved=%+v", saved)
	}

	got, err = s.Adjust(context.Background(), -2)
	if err != nil || got != 20.5 {
		t.Fatalf("second Adjust: got %v err %v", got, err)
	}

	if types := events.types(); len(types) != 2 || types[0] != models.EventAdjust {
		t.Fatalf("events=%v", types)
	}
	meta := events.events[1].Metadata.(map[string]any)
	if meta["from_c"] != 22.5 || meta["to_c"] != 20.5 || meta["change_c"] != -2.0 {
		t.Fatalf("metadata=%v", meta)
	}
}

func TestThermostatService_Adjust_RejectsNonFinite(t *testing.T) {
	t.Parallel()

	for _, change := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		states := &fakeStateRepo{}
		_, err := newTestThermostat(states, &memEventRepo{}).Adjust(context.Background(), change)
		if !errors.Is(err, ErrInvalidChange) {
			t.Fatalf("change %v: expected ErrInvalidChange, got %v", change, err)
		}
		if len(states.savedCalls) != 0 {
			t.Fatalf("change %v must not be saved", change)
		}
	}
}

func TestThermostatService_Adjust_SaveErrorPropagates(t *testing.T) {
	t.Parallel()

	events := &memEventRepo{}
	s := newTestThermostat(&fakeStateRepo{saveErr: errors.New("disk full")}, events)
	if _, err := s.Adjust(context.Background(), 1); err == nil {
		t.Fatalf("expected save error")
	}
	if len(events.events) != 0 {
		t.Fatalf("no event when save fails")
	}
}

func TestThermostatService_Adjust_EventErrorDoesNotFail(t *testing.T) {
	t.Parallel()

	s := newTestThermostat(&fakeStateRepo{}, &memEventRepo{appendErr: errors.New("locked")})
	got, err := s.Adjust(context.Background(), 1)
	if err != nil || got != 23 {
		t.Fatalf("got %v err %v", got, err)
	}
}

func TestThermostatService_Outside(t *testing.T) {
	t.Parallel()

	// 15 minutes into a one hour period is the crest of the sine.
	s := newTestThermostat(&fakeStateRepo{}, &memEventRepo{})
	got, err := s.Outside(context.Background())
	if err != nil {
		t.Fatalf("Outside: %v", err)
	}
	if math.Abs(got-25) > 1e-9 {
		t.Fatalf("got %v want 25", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Outside(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
