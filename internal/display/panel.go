package display

import (
	"fmt"
	"math"
)

// CriticalTempC is the indoor temperature above which the panel warns.
const CriticalTempC = 30.0

const (
	criticalWarning = "Warning: Critical Internal Temperature!"
	lightHot        = "#ff4500"
	lightNormal     = "#1e90ff"
)

// Panel is the info panel view model for one temperature reading.
type Panel struct {
	InfoText        string `json:"info_text"`
	OutsideText     string `json:"outside_text"`
	BackgroundColor string `json:"background_color"`
	LightColor      string `json:"light_color"`
	Critical        bool   `json:"critical"`
	Warning         string `json:"warning,omitempty"`
}

func NewPanel(current float64, outside *float64) Panel {
	p := Panel{
		InfoText:        fmt.Sprintf("Current Temperature: %.1f°C", current),
		OutsideText:     "Outside Temperature: unknown",
		BackgroundColor: BackgroundColor(current),
		LightColor:      lightNormal,
	}
	if outside != nil {
		p.OutsideText = fmt.Sprintf("Outside Temperature: %.1f°C", *outside)
	}
	if current > CriticalTempC {
		p.LightColor = lightHot
		p.Critical = true
		p.Warning = criticalWarning
	}
	return p
}

// band blends from..to by (temp-low)/span for temperatures below upper
// (or equal to it when closed).
type band struct {
	upper    float64
	closed   bool
	low      float64
	span     float64
	from, to uint32
}

var bands = []band{
	{upper: 15, low: 0, span: 15, from: 0xA9D1E8, to: 0xA2D8A0},
	{upper: 18, low: 15, span: 3, from: 0xA2D8A0, to: 0xD1D1D1},
	{upper: 22, low: 18, span: 4, from: 0xD1D1D1, to: 0xFFF9C4},
	{upper: 50, closed: true, low: 22, span: 28, from: 0xFFDBC1, to: 0xFFB5B5},
}

var hotBand = band{low: 50, span: 50, from: 0xFFB5B5, to: 0xFF7A7A}

// BackgroundColor maps a temperature to the scene background as #RRGGBB.
func BackgroundColor(temp float64) string {
	for _, b := range bands {
		if temp < b.upper || (b.closed && temp == b.upper) {
			return interpolateColor(b.from, b.to, (temp-b.low)/b.span)
		}
	}
	return interpolateColor(hotBand.from, hotBand.to, (temp-hotBand.low)/hotBand.span)
}

func interpolateColor(c1, c2 uint32, factor float64) string {
	factor = math.Max(0, math.Min(1, factor))
	mix := func(shift uint) uint32 {
		a := float64((c1 >> shift) & 0xff)
		b := float64((c2 >> shift) & 0xff)
		return uint32(math.Round(a + (b-a)*factor))
	}
	return fmt.Sprintf("#%02X%02X%02X", mix(16), mix(8), mix(0))
}
