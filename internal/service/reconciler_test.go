package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"thermostat_dashboard/internal/models"
)

func newTestReconciler(src *fakeSource) (*ReconcilerService, *spyDisplay, *spyRecorder, *memEventRepo) {
	d := &spyDisplay{}
	rec := &spyRecorder{}
	events := &memEventRepo{}
	r := NewReconcilerService(src, d, rec, events, nil)
	r.now = fixedClock(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	return r, d, rec, events
}

func TestReconciler_TickOnce_AppliesPolicy(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		indoor      float64
		outdoor     float64
		wantDelta   float64
		wantCurrent float64
		wantReason  models.Reason // "" when no adjustment
	}{
		{name: "cooling capped at one degree", indoor: 25, outdoor: 30, wantDelta: -1, wantCurrent: 24, wantReason: models.ReasonCooling},
		{name: "cooling stops at 22", indoor: 22.5, outdoor: 30, wantDelta: -0.5, wantCurrent: 22, wantReason: models.ReasonCooling},
		{name: "heating capped at one degree", indoor: 20, outdoor: 10, wantDelta: 1, wantCurrent: 21, wantReason: models.ReasonHeating},
		{name: "heating stops at 24", indoor: 23.5, outdoor: 10, wantDelta: 0.5, wantCurrent: 24, wantReason: models.ReasonHeating},
		{name: "sync to mild outside", indoor: 22, outdoor: 23, wantDelta: 1, wantCurrent: 23, wantReason: models.ReasonSyncing},
		{name: "hot outside at floor syncs uncapped", indoor: 22, outdoor: 29, wantDelta: 7, wantCurrent: 29, wantReason: models.ReasonSyncing},
		{name: "within tolerance does nothing", indoor: 22, outdoor: 22.3, wantCurrent: 22},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			src := &fakeSource{indoor: tc.indoor, outdoor: tc.outdoor}
			r, d, rec, events := newTestReconciler(src)

			if err := r.TickOnce(context.Background()); err != nil {
				t.Fatalf("TickOnce: %v", err)
			}

			if tc.wantReason == "" {
				if len(src.deltas) != 0 || len(d.alerts) != 0 || len(events.events) != 0 {
					t.Fatalf("expected no adjustment, got deltas=%v alerts=%v events=%v", src.deltas, d.alerts, events.types())
				}
			} else {
				if len(src.deltas) != 1 || math.Abs(src.deltas[0]-tc.wantDelta) > 1e-9 {
					t.Fatalf("deltas=%v want [%v]", src.deltas, tc.wantDelta)
				}
				if len(d.alerts) != 1 || d.alerts[0].reason != tc.wantReason || d.alerts[0].message == "" {
					t.Fatalf("alerts=%+v", d.alerts)
				}
				if got := events.types(); len(got) != 1 || got[0] != string(tc.wantReason) {
					t.Fatalf("events=%v", got)
				}
			}

			st := r.State()
			if math.Abs(st.CurrentTempC-tc.wantCurrent) > 1e-9 || st.Stale {
				t.Fatalf("state=%+v want current %v", st, tc.wantCurrent)
			}
			if st.OutsideTempC == nil || *st.OutsideTempC != tc.outdoor {
				t.Fatalf("outside=%v want %v", st.OutsideTempC, tc.outdoor)
			}
			if len(d.temps) != 1 || d.temps[0].current != st.CurrentTempC || d.temps[0].outside == nil {
				t.Fatalf("temps=%+v", d.temps)
			}
			if len(rec.samples) != 1 || rec.samples[0].CurrentTempC != st.CurrentTempC {
				t.Fatalf("samples=%+v", rec.samples)
			}
		})
	}
}

func TestReconciler_TickOnce_ReadFailureLeavesStateAlone(t *testing.T) {
	t.Parallel()

	src := &fakeSource{indoor: 25, outdoor: 30}
	r, d, rec, events := newTestReconciler(src)

	if err := r.TickOnce(context.Background()); err != nil {
		t.Fatalf("first tick: %v", err)
	}
	before := r.State()

	src.outErr = errors.New("connection refused")
	err := r.TickOnce(context.Background())
	if err == nil || !errors.Is(err, src.outErr) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}

	after := r.State()
	if after.CurrentTempC != before.CurrentTempC || *after.OutsideTempC != *before.OutsideTempC || !after.UpdatedAt.Equal(before.UpdatedAt) {
		t.Fatalf("state mutated on failure: before=%+v after=%+v", before, after)
	}
	if !after.Stale {
		t.Fatalf("state must be marked stale")
	}
	if len(src.deltas) != 1 {
		t.Fatalf("no delta may be applied on failure, deltas=%v", src.deltas)
	}
	last := d.temps[len(d.temps)-1]
	if last.current != before.CurrentTempC || last.outside != nil {
		t.Fatalf("display must show previous current with unknown outside, got %+v", last)
	}
	if len(rec.samples) != 1 {
		t.Fatalf("failed tick must not record a sample, samples=%d", len(rec.samples))
	}
	if got := events.types(); got[len(got)-1] != models.EventError {
		t.Fatalf("expected trailing ERROR event, got %v", got)
	}

	src.outErr = nil
	if err := r.TickOnce(context.Background()); err != nil {
		t.Fatalf("recovery tick: %v", err)
	}
	if r.State().Stale {
		t.Fatalf("successful tick must clear stale")
	}
}

func TestReconciler_TickOnce_IndoorFailureBeforeFirstTick(t *testing.T) {
	t.Parallel()

	src := &fakeSource{indoorErr: errors.New("timeout"), outdoor: 10}
	r, d, _, _ := newTestReconciler(src)

	if err := r.TickOnce(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(d.temps) != 1 || d.temps[0].current != InitialTempC || d.temps[0].outside != nil {
		t.Fatalf("temps=%+v", d.temps)
	}
	if st := r.State(); st.OutsideKnown() || !st.Stale {
		t.Fatalf("state=%+v", st)
	}
}

func TestReconciler_TickOnce_ApplyFailureIsNotPartial(t *testing.T) {
	t.Parallel()

	src := &fakeSource{indoor: 20, outdoor: 5, applyErr: errors.New("500")}
	r, d, rec, events := newTestReconciler(src)

	if err := r.TickOnce(context.Background()); !errors.Is(err, src.applyErr) {
		t.Fatalf("expected apply error, got %v", err)
	}
	if st := r.State(); st.CurrentTempC != InitialTempC || st.OutsideKnown() {
		t.Fatalf("state=%+v", st)
	}
	if len(d.alerts) != 0 || len(rec.samples) != 0 {
		t.Fatalf("no alert or sample on failure: alerts=%v samples=%v", d.alerts, rec.samples)
	}
	if got := events.types(); len(got) != 1 || got[0] != models.EventError {
		t.Fatalf("events=%v", got)
	}
}

func TestReconciler_TickOnce_RejectsOverlap(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		indoor:  22,
		outdoor: 22,
		block:   make(chan struct{}),
		entered: make(chan struct{}),
	}
	r, _, _, _ := newTestReconciler(src)

	done := make(chan error, 1)
	go func() { done <- r.TickOnce(context.Background()) }()
	<-src.entered

	if err := r.TickOnce(context.Background()); !errors.Is(err, ErrTickInFlight) {
		t.Fatalf("expected ErrTickInFlight, got %v", err)
	}

	close(src.block)
	if err := <-done; err != nil {
		t.Fatalf("first tick: %v", err)
	}
}

func TestReconciler_State_ReturnsCopy(t *testing.T) {
	t.Parallel()

	r, _, _, _ := newTestReconciler(&fakeSource{indoor: 22, outdoor: 26})
	if err := r.TickOnce(context.Background()); err != nil {
		t.Fatalf("TickOnce: %v", err)
	}
	st := r.State()
	*st.OutsideTempC = -100
	if *r.State().OutsideTempC == -100 {
		t.Fatalf("State leaked internal pointer")
	}
}

func TestReconciler_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()

	src := &fakeSource{indoor: 20, outdoor: 5}
	r, _, rec, _ := newTestReconciler(src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for {
		rec.mu.Lock()
		n := len(rec.samples)
		rec.mu.Unlock()
		if n >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("Run did not tick, samples=%d", n)
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	if st := r.State(); st.CurrentTempC > 24 {
		t.Fatalf("heating overshot 24: %v", st.CurrentTempC)
	}
}

func TestAlertMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cmd  models.AdjustmentCommand
		out  float64
		want string
	}{
		{models.AdjustmentCommand{Delta: -1, Reason: models.ReasonCooling}, 30, "Cooling: outside is 30.0°C, lowering thermostat by 1.0°C"},
		{models.AdjustmentCommand{Delta: 0.5, Reason: models.ReasonHeating}, 10, "Heating: outside is 10.0°C, raising thermostat by 0.5°C"},
		{models.AdjustmentCommand{Delta: -2, Reason: models.ReasonSyncing}, 20, "Syncing: matching outside temperature 20.0°C (-2.0°C)"},
	}
	for _, c := range cases {
		if got := alertMessage(c.cmd, c.out); got != c.want {
			t.Errorf("alertMessage(%+v) = %q, want %q", c.cmd, got, c.want)
		}
	}
}
