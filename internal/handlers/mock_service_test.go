package handlers

import (
	"context"
	"net/http"
	"time"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockThermostat struct {
	temp       float64
	tempErr    error
	outside    float64
	outsideErr error
	adjustErr  error
	lastChange float64
	adjusts    int
}

func (m *mockThermostat) Temperature(ctx context.Context) (float64, error) {
	return m.temp, m.tempErr
}
func (m *mockThermostat) Adjust(ctx context.Context, change float64) (float64, error) {
	m.adjusts++
	m.lastChange = change
	if m.adjustErr != nil {
		return 0, m.adjustErr
	}
	m.temp += change
	return m.temp, nil
}
func (m *mockThermostat) Outside(ctx context.Context) (float64, error) {
	return m.outside, m.outsideErr
}

type mockReconciler struct {
	tickErr error
	ticks   int
	state   models.ThermalState
	lastCtx context.Context
}

func (m *mockReconciler) Run(ctx context.Context, interval time.Duration) {}
func (m *mockReconciler) TickOnce(ctx context.Context) error {
	m.ticks++
	m.lastCtx = ctx
	return m.tickErr
}
func (m *mockReconciler) State() models.ThermalState { return m.state }

type mockControls struct {
	temp        float64
	err         error
	lastPressed control.Control
	lastChange  float64
	presses     int
	adjusts     int
}

func (m *mockControls) Press(ctx context.Context, c control.Control) (float64, error) {
	m.presses++
	m.lastPressed = c
	return m.temp, m.err
}
func (m *mockControls) ManualAdjust(ctx context.Context, change float64) (float64, error) {
	m.adjusts++
	m.lastChange = change
	return m.temp, m.err
}

type mockTelemetry struct {
	dataset []models.TelemetryPoint
	manual  int
}

func (m *mockTelemetry) Replay(ctx context.Context, interval time.Duration) {}
func (m *mockTelemetry) Dataset() []models.TelemetryPoint {
	out := make([]models.TelemetryPoint, len(m.dataset))
	copy(out, m.dataset)
	return out
}
func (m *mockTelemetry) MarkManual() { m.manual++ }

type mockMonitoring struct {
	snapshot service.Snapshot
}

func (m *mockMonitoring) Snapshot() service.Snapshot { return m.snapshot }

type mockHistory struct {
	samples   []models.Sample
	lastLimit int
}

func (m *mockHistory) Samples(limit int) []models.Sample {
	m.lastLimit = limit
	if limit > 0 && limit < len(m.samples) {
		return m.samples[len(m.samples)-limit:]
	}
	return m.samples
}

type mockEventLog struct {
	resp      []models.ThermostatEvent
	err       error
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
	lastLimit int
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.ThermostatEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastLimit = f.Limit
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
