package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

var queryTimeLayouts = []string{time.RFC3339, layoutDateTime, layoutDate}

// parseQueryTime accepts RFC3339, "YYYY-MM-DD HH:MM:SS" or "YYYY-MM-DD" and
// reports whether the value was a bare date.
func parseQueryTime(s string) (t time.Time, dateOnly bool, err error) {
	for _, layout := range queryTimeLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), layout == layoutDate, nil
		}
	}
	return time.Time{}, false, errors.New("use RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'")
}

// logFilterFromQuery reads from/to/since/type/limit. since is a Go duration
// back from now and conflicts with from. A bare-date 'to' covers the whole day.
func logFilterFromQuery(c *gin.Context, now time.Time) (service.LogFilter, error) {
	f := service.LogFilter{Type: c.Query("type")}

	if qs := c.Query("from"); qs != "" {
		t, _, err := parseQueryTime(qs)
		if err != nil {
			return f, errors.New("invalid 'from': " + err.Error())
		}
		f.From = t
	}
	if qs := c.Query("since"); qs != "" {
		if !f.From.IsZero() {
			return f, errors.New("'since' and 'from' are mutually exclusive")
		}
		d, err := time.ParseDuration(qs)
		if err != nil || d <= 0 {
			return f, errors.New("invalid 'since': use a positive duration such as 15m or 24h")
		}
		f.From = now.Add(-d).UTC()
	}
	if qs := c.Query("to"); qs != "" {
		t, dateOnly, err := parseQueryTime(qs)
		if err != nil {
			return f, errors.New("invalid 'to': " + err.Error())
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		f.To = t
	}
	if qs := strings.TrimSpace(c.Query("limit")); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 {
			return f, errors.New(errInvalidLimit)
		}
		f.Limit = n
	}
	return f, nil
}

// @Summary      List logs
// @Description  Filter logs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') or by a relative 'since' window. A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from   query   string  false  "Start of range"  example(2025-08-01)
// @Param        to     query   string  false  "End of range. Date-only treated as end of day."  example(2025-08-31)
// @Param        since  query   string  false  "Relative start as a Go duration, excludes 'from'"  example(1h)
// @Param        type   query   string  false  "Event type"  Enums(ADJUST,COOLING,HEATING,SYNCING,PRESS,ERROR,TELEMETRY)
// @Param        limit  query   int     false  "Keep only the newest N events"  example(50)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	f, err := logFilterFromQuery(c, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	events, err := h.services.EventLog.List(c.Request.Context(), f)
	switch {
	case service.IsFilterError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load logs", "logs_list_failed", err,
			"from", f.From, "to", f.To, "type", f.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}
