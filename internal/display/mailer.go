package display

import (
	"context"
	"fmt"
	"sync"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"

	"github.com/mailgun/mailgun-go/v3"
)

const mailSendTimeout = 10 * time.Second

// mailSender is the part of mailgun.MailgunImpl the notifier uses.
type mailSender interface {
	NewMessage(from, subject, text string, to ...string) *mailgun.Message
	Send(ctx context.Context, m *mailgun.Message) (string, string, error)
}

// CriticalNotifier e-mails recipients when the indoor temperature rises
// above CriticalTempC. It sends once per crossing and re-arms when the
// temperature drops back.
type CriticalNotifier struct {
	mg         mailSender
	sender     string
	recipients []string
	log        *logger.Logger

	mu    sync.Mutex
	armed bool
	wg    sync.WaitGroup
}

func NewCriticalNotifier(mg mailSender, sender string, recipients []string, log *logger.Logger) *CriticalNotifier {
	return &CriticalNotifier{
		mg:         mg,
		sender:     sender,
		recipients: recipients,
		log:        log,
		armed:      true,
	}
}

// NewMailgunNotifier builds a notifier backed by the Mailgun API.
func NewMailgunNotifier(domain, apiKey, sender string, recipients []string, log *logger.Logger) *CriticalNotifier {
	return NewCriticalNotifier(mailgun.NewMailgun(domain, apiKey), sender, recipients, log)
}

func (n *CriticalNotifier) ShowTemperatures(current float64, _ *float64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if current <= CriticalTempC {
		n.armed = true
		return
	}
	if !n.armed {
		return
	}
	n.armed = false

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(current)
	}()
}

func (n *CriticalNotifier) ShowAlert(string, models.Reason)           {}
func (n *CriticalNotifier) ShowPress(control.Control, control.Handle) {}

// Wait blocks until in-flight e-mails are sent.
func (n *CriticalNotifier) Wait() {
	n.wg.Wait()
}

func (n *CriticalNotifier) send(current float64) {
	subject := "Thermostat critical temperature"
	body := fmt.Sprintf("%s Current temperature is %.1f°C (limit %.1f°C).", criticalWarning, current, CriticalTempC)
	msg := n.mg.NewMessage(n.sender, subject, body, n.recipients...)

	ctx, cancel := context.WithTimeout(context.Background(), mailSendTimeout)
	defer cancel()

	resp, id, err := n.mg.Send(ctx, msg)
	if err != nil {
		n.log.Errorw("critical_mail_failed", "err", err)
		return
	}
	if id == "" {
		n.log.Errorw("critical_mail_failed", "err", "empty message id", "response", resp)
		return
	}
	n.log.Infow("critical_mail_sent", "id", id, "current_c", current)
}
