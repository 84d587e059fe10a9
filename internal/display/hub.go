package display

import (
	"sync"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/models"
)

// Message types pushed to dashboard subscribers.
const (
	MsgTemperatures = "temperatures"
	MsgAlert        = "alert"
	MsgPress        = "press"
	MsgSample       = "sample"
)

const defaultSubscriberBuffer = 16

// Message is one push to a dashboard.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type TemperaturesPayload struct {
	CurrentTempC float64  `json:"current_temp_c"`
	OutsideTempC *float64 `json:"outside_temp_c"`
	Panel        Panel    `json:"panel"`
}

type AlertPayload struct {
	Message string        `json:"message"`
	Reason  models.Reason `json:"reason"`
	At      time.Time     `json:"at"`
}

type PressPayload struct {
	Control control.Control `json:"control"`
	Handle  control.Handle  `json:"handle"`
}

// Hub fans display updates out to websocket subscribers. A subscriber that
// falls behind loses messages instead of stalling the publisher.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Message
	nextID int
	buffer int
	now    func() time.Time
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		subs:   make(map[int]chan Message),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe registers a subscriber. The returned cancel func closes the
// channel and is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Message, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan Message, h.buffer)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// Publish delivers m to every subscriber with room in its buffer.
func (h *Hub) Publish(m Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- m:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) ShowTemperatures(current float64, outside *float64) {
	h.Publish(Message{Type: MsgTemperatures, Data: TemperaturesPayload{
		CurrentTempC: current,
		OutsideTempC: outside,
		Panel:        NewPanel(current, outside),
	}})
}

func (h *Hub) ShowAlert(message string, reason models.Reason) {
	h.Publish(Message{Type: MsgAlert, Data: AlertPayload{
		Message: message,
		Reason:  reason,
		At:      h.now().UTC(),
	}})
}

func (h *Hub) ShowPress(c control.Control, handle control.Handle) {
	h.Publish(Message{Type: MsgPress, Data: PressPayload{Control: c, Handle: handle}})
}

// Record pushes a chart sample.
func (h *Hub) Record(s models.Sample) {
	h.Publish(Message{Type: MsgSample, Data: s})
}
