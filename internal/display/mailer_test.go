package display

import (
	"context"
	"errors"
	"sync"
	"testing"

	"thermostat_dashboard/internal/logger"

	"github.com/mailgun/mailgun-go/v3"
)

type fakeMailgun struct {
	mu       sync.Mutex
	subjects []string
	texts    []string
	to       [][]string
	sent     int
	sendErr  error
}

func (f *fakeMailgun) NewMessage(from, subject, text string, to ...string) *mailgun.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	f.texts = append(f.texts, text)
	f.to = append(f.to, to)
	return &mailgun.Message{}
}

func (f *fakeMailgun) Send(ctx context.Context, m *mailgun.Message) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent++
	if f.sendErr != nil {
		return "", "", f.sendErr
	}
	return "Queued. Thank you.", "<id@mg>", nil
}

func TestCriticalNotifier_SendsOncePerCrossing(t *testing.T) {
	mg := &fakeMailgun{}
	n := NewCriticalNotifier(mg, "thermo@example.com", []string{"ops@example.com"}, logger.Nop())

	for _, temp := range []float64{25, 31, 32, 33} {
		n.ShowTemperatures(temp, nil)
	}
	n.Wait()
	if mg.sent != 1 {
		t.Fatalf("sent=%d, want 1", mg.sent)
	}
	if len(mg.to[0]) != 1 || mg.to[0][0] != "ops@example.com" {
		t.Fatalf("recipients=%v", mg.to[0])
	}

	n.ShowTemperatures(29, nil)
	n.ShowTemperatures(30.5, nil)
	n.Wait()
	if mg.sent != 2 {
		t.Fatalf("sent=%d after re-arm, want 2", mg.sent)
	}
}

func TestCriticalNotifier_IgnoresAlertsAndPresses(t *testing.T) {
	mg := &fakeMailgun{}
	n := NewCriticalNotifier(mg, "a", []string{"b"}, logger.Nop())
	n.ShowAlert("x", "COOLING")
	n.ShowPress(1, "inc")
	n.ShowTemperatures(30, nil)
	n.Wait()
	if mg.sent != 0 {
		t.Fatalf("sent=%d, want 0", mg.sent)
	}
}

func TestCriticalNotifier_SendErrorDoesNotPanic(t *testing.T) {
	mg := &fakeMailgun{sendErr: errors.New("401 unauthorized")}
	n := NewCriticalNotifier(mg, "a", []string{"b"}, logger.Nop())
	n.ShowTemperatures(35, nil)
	n.Wait()
	if mg.sent != 1 {
		t.Fatalf("sent=%d, want 1", mg.sent)
	}
}
