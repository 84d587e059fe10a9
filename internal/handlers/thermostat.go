package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK         = "ok"
	statusAdjusted   = "adjusted"
	statusPressed    = "pressed"
	statusReconciled = "reconciled"

	errAdjust          = "failed to adjust thermostat"
	errPress           = "failed to press control"
	errReconcile       = "thermostat backend unavailable"
	errTickInFlight    = "reconcile already in progress"
	errInvalidLimit    = "invalid 'limit'; use a non-negative integer"
	errInvalidBodyPref = "invalid body: "

	telemetryFilename = "telemetry_data.json"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// Respond with a status and the current dashboard snapshot.
func (h *Handler) respondWithStatusAndState(c *gin.Context, status string, extra gin.H) {
	resp := gin.H{"status": status}
	for k, v := range extra {
		resp[k] = v
	}
	resp["state"] = h.services.Monitoring.Snapshot()
	c.JSON(http.StatusOK, resp)
}

type pressRequest struct {
	Control string `json:"control" binding:"required"`
}

// PressRequest is an exported model for Swagger docs of the press payload.
type PressRequest struct {
	// Control to press. Allowed: increase, decrease
	Control string `json:"control" example:"increase"`
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Get thermostat state
// @Description  Last reconciled temperatures with the rendered info panel.
// @Tags         thermostat
// @Produce      json
// @Success      200  {object}  service.Snapshot
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/thermostat/state [get]
// @Security     BearerAuth
func (h *Handler) getThermostatState(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Monitoring.Snapshot())
}

// @Summary      Adjust thermostat manually
// @Description  Applies a signed change and pauses the telemetry replay for one step. "temperature" is the confirmed new value; "state" is the last reconciled state and catches up on the next tick.
// @Tags         thermostat
// @Accept       json
// @Produce      json
// @Param        body  body      ChangeRequest  true  "Signed change"
// @Success      200   {object}  map[string]interface{}  "status, temperature, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/thermostat/adjust [post]
// @Security     BearerAuth
func (h *Handler) adjustThermostat(c *gin.Context) {
	change, ok := h.bindChange(c)
	if !ok {
		return
	}
	if h.services.Telemetry != nil {
		h.services.Telemetry.MarkManual()
	}
	t, err := h.services.Controls.ManualAdjust(c.Request.Context(), change)
	if err != nil {
		if errors.Is(err, service.ErrInvalidChange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errAdjust, "thermostat_adjust_failed", err, "change", change)
		return
	}
	if h.log != nil {
		h.log.Infow("thermostat_adjusted", "user_id", userID(c), "change_c", change, "temp_c", t)
	}
	h.respondWithStatusAndState(c, statusAdjusted, gin.H{"temperature": t})
}

// @Summary      Press a thermostat button
// @Description  Applies the button's step. "temperature" is the confirmed new value; "state" is the last reconciled state and catches up on the next tick.
// @Tags         thermostat
// @Accept       json
// @Produce      json
// @Param        body  body      PressRequest  true  "Control"
// @Success      200   {object}  map[string]interface{}  "status, control, temperature, state"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/thermostat/press [post]
// @Security     BearerAuth
func (h *Handler) pressControl(c *gin.Context) {
	var req pressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	ctl, err := control.ParseControl(req.Control)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := h.services.Controls.Press(c.Request.Context(), ctl)
	if err != nil {
		if errors.Is(err, control.ErrUnknownControl) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusBadGateway, errPress, "thermostat_press_failed", err, "control", ctl.String())
		return
	}
	if h.log != nil {
		h.log.Infow("thermostat_pressed", "user_id", userID(c), "control", ctl.String(), "temp_c", t)
	}
	h.respondWithStatusAndState(c, statusPressed, gin.H{"control": ctl, "temperature": t})
}

// @Summary      Reconcile now
// @Description  Runs one control-loop tick immediately.
// @Tags         thermostat
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, state"
// @Failure      401  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/thermostat/reconcile [post]
// @Security     BearerAuth
func (h *Handler) reconcileNow(c *gin.Context) {
	// A client hanging up must not turn into a failed tick for every dashboard.
	err := h.services.Reconciler.TickOnce(context.WithoutCancel(c.Request.Context()))
	switch {
	case err == nil:
		h.respondWithStatusAndState(c, statusReconciled, gin.H{})
	case errors.Is(err, service.ErrTickInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": errTickInFlight})
	default:
		h.logAndJSONError(c, http.StatusBadGateway, errReconcile, "thermostat_reconcile_failed", err)
	}
}

// @Summary      Chart samples
// @Description  Newest samples, oldest first. limit=0 or missing returns the whole history.
// @Tags         thermostat
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of samples"  example(100)
// @Success      200    {object}  map[string]interface{}  "count, samples"
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /api/v1/samples [get]
// @Security     BearerAuth
func (h *Handler) getSamples(c *gin.Context) {
	limit := 0
	if qs := c.Query("limit"); qs != "" {
		v, err := strconv.Atoi(qs)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidLimit})
			return
		}
		limit = v
	}
	samples := h.services.History.Samples(limit)
	c.JSON(http.StatusOK, gin.H{
		"count":   len(samples),
		"samples": samples,
	})
}

// @Summary      Download telemetry dataset
// @Tags         thermostat
// @Produce      json
// @Success      200  {array}   models.TelemetryPoint
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/telemetry/download [get]
// @Security     BearerAuth
func (h *Handler) downloadTelemetry(c *gin.Context) {
	b, err := json.MarshalIndent(h.services.Telemetry.Dataset(), "", "  ")
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to encode telemetry", "telemetry_encode_failed", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+telemetryFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}
