package service

import (
	"errors"
	"math"
	"sync"
	"time"
)

// WeatherParams shape the simulated outside temperature:
// base + amplitude*sin(2*pi*t/period).
type WeatherParams struct {
	BaseC      float64
	AmplitudeC float64
	Period     time.Duration
}

var errInvalidWeather = errors.New("invalid weather params: base and amplitude must be finite, amplitude >= 0 and period > 0")

func (p WeatherParams) Validate() error {
	if math.IsNaN(p.BaseC) || math.IsInf(p.BaseC, 0) ||
		math.IsNaN(p.AmplitudeC) || math.IsInf(p.AmplitudeC, 0) ||
		p.AmplitudeC < 0 || p.Period <= 0 {
		return errInvalidWeather
	}
	return nil
}

// WeatherModel produces the outside temperature. Params can be swapped while
// readers are active (config hot reload).
type WeatherModel struct {
	mu     sync.RWMutex
	params WeatherParams
	epoch  time.Time
}

func NewWeatherModel(p WeatherParams, epoch time.Time) (*WeatherModel, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &WeatherModel{params: p, epoch: epoch}, nil
}

func (w *WeatherModel) SetParams(p WeatherParams) error {
	if err := p.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	w.params = p
	w.mu.Unlock()
	return nil
}

func (w *WeatherModel) Params() WeatherParams {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.params
}

// At returns the outside temperature at t.
func (w *WeatherModel) At(t time.Time) float64 {
	p := w.Params()
	phase := 2 * math.Pi * t.Sub(w.epoch).Seconds() / p.Period.Seconds()
	return p.BaseC + p.AmplitudeC*math.Sin(phase)
}
