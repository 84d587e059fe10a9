package control

import (
	"errors"
	"fmt"
	"strings"
)

// Control identifies one of the thermostat's buttons.
type Control uint8

const (
	IncreaseButton Control = iota + 1
	DecreaseButton
)

// ButtonStep is the temperature change of a single press, °C.
const ButtonStep = 0.5

var ErrUnknownControl = errors.New("unknown control: must be increase or decrease")

func (c Control) String() string {
	switch c {
	case IncreaseButton:
		return "increase"
	case DecreaseButton:
		return "decrease"
	default:
		return "unknown"
	}
}

func (c Control) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Control) UnmarshalText(text []byte) error {
	parsed, err := ParseControl(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Step returns the signed temperature change applied by one press.
func (c Control) Step() float64 {
	switch c {
	case IncreaseButton:
		return ButtonStep
	case DecreaseButton:
		return -ButtonStep
	default:
		return 0
	}
}

// ParseControl accepts "increase"/"decrease" in any case, with or without a
// "button" suffix.
func ParseControl(s string) (Control, error) {
	s = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "button")
	switch s {
	case "increase":
		return IncreaseButton, nil
	case "decrease":
		return DecreaseButton, nil
	default:
		return 0, ErrUnknownControl
	}
}

// Handle is an opaque reference to a control on a display, such as a mesh
// name in a 3D scene or an element id on a panel.
type Handle string

// Registry maps every control to its handle. It is resolved once at setup
// and read-only afterwards.
type Registry struct {
	handles map[Control]Handle
}

// NewRegistry builds a registry and fails unless both buttons have a
// non-empty handle.
func NewRegistry(handles map[Control]Handle) (*Registry, error) {
	r := &Registry{handles: make(map[Control]Handle, len(handles))}
	for c, h := range handles {
		if c != IncreaseButton && c != DecreaseButton {
			return nil, fmt.Errorf("register control %d: %w", c, ErrUnknownControl)
		}
		if strings.TrimSpace(string(h)) == "" {
			return nil, fmt.Errorf("register control %s: empty handle", c)
		}
		r.handles[c] = h
	}
	for _, c := range []Control{IncreaseButton, DecreaseButton} {
		if _, ok := r.handles[c]; !ok {
			return nil, fmt.Errorf("control %s has no handle", c)
		}
	}
	return r, nil
}

// Handle returns the handle bound to c.
func (r *Registry) Handle(c Control) (Handle, error) {
	h, ok := r.handles[c]
	if !ok {
		return "", ErrUnknownControl
	}
	return h, nil
}
