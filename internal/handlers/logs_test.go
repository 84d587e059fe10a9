package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

func logsRouter(logs *mockEventLog, now time.Time) *gin.Engine {
	h := NewHandler(&service.Service{Authorization: &mockAuth{parseID: 99}, EventLog: logs}, nil, nil)
	h.now = func() time.Time { return now }
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func fetchLogs(r http.Handler, query string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authedRequest(http.MethodGet, "/api/v1/logs/"+query, nil))
	return w
}

func TestLogsHandler_List(t *testing.T) {
	now := time.Date(2025, time.August, 27, 15, 0, 0, 0, time.UTC)
	logs := &mockEventLog{resp: []models.ThermostatEvent{
		{EventID: "e1", OccurredAt: now, Type: models.EventPress, Description: "Pressed increase"},
		{EventID: "e2", OccurredAt: now.Add(time.Second), Type: models.EventCooling, Description: "Cooling: outside is 30.0°C, lowering thermostat by 1.0°C"},
	}}
	r := logsRouter(logs, now)

	w := fetchLogs(r, "?from="+now.Format(time.RFC3339)+"&to="+now.Add(2*time.Second).Format(time.RFC3339)+"&type=cooling&limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var out struct {
		Count  int                      `json:"count"`
		Events []models.ThermostatEvent `json:"events"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Count != 2 || len(out.Events) != 2 {
		t.Fatalf("unexpected response: %+v", out)
	}
	// type normalization is the service's job
	if logs.lastType != "cooling" || logs.lastLimit != 2 {
		t.Fatalf("filter not forwarded: type=%q limit=%d", logs.lastType, logs.lastLimit)
	}
	if !logs.lastFrom.Equal(now) || !logs.lastTo.Equal(now.Add(2*time.Second)) {
		t.Fatalf("range not forwarded: %v..%v", logs.lastFrom, logs.lastTo)
	}
}

func TestLogsHandler_TimeForms(t *testing.T) {
	now := time.Date(2025, time.August, 27, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		name     string
		query    string
		wantFrom time.Time
		wantTo   time.Time
	}{
		{
			name:     "date only to covers the day",
			query:    "?from=2025-08-01&to=2025-08-02",
			wantFrom: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			wantTo:   time.Date(2025, time.August, 3, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond),
		},
		{
			name:     "date time layout",
			query:    "?from=2025-08-01%2010:30:00",
			wantFrom: time.Date(2025, time.August, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "since is relative to now",
			query:    "?since=90m",
			wantFrom: now.Add(-90 * time.Minute),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logs := &mockEventLog{}
			w := fetchLogs(logsRouter(logs, now), tc.query)
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
			}
			if !logs.lastFrom.Equal(tc.wantFrom) || !logs.lastTo.Equal(tc.wantTo) {
				t.Fatalf("range %v..%v, want %v..%v", logs.lastFrom, logs.lastTo, tc.wantFrom, tc.wantTo)
			}
		})
	}
}

func TestLogsHandler_BadRequests(t *testing.T) {
	now := time.Date(2025, time.August, 27, 15, 0, 0, 0, time.UTC)
	for _, q := range []string{
		"?from=notatime",
		"?to=31/08/2025",
		"?since=yesterday",
		"?since=-1h",
		"?since=1h&from=2025-08-01",
		"?limit=-3",
		"?limit=many",
	} {
		logs := &mockEventLog{}
		w := fetchLogs(logsRouter(logs, now), q)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, w.Code)
		}
	}

	// filter errors raised by the service map to 400 too
	logs := &mockEventLog{err: fmt.Errorf("%w: unknown type %q", service.ErrInvalidFilter, "FAN")}
	if w := fetchLogs(logsRouter(logs, now), "?type=fan"); w.Code != http.StatusBadRequest {
		t.Fatalf("service filter error: expected 400, got %d", w.Code)
	}

	logs = &mockEventLog{err: errors.New("disk I/O error")}
	if w := fetchLogs(logsRouter(logs, now), ""); w.Code != http.StatusInternalServerError {
		t.Fatalf("storage error: expected 500, got %d", w.Code)
	}
}
