package handlers

import (
	"errors"
	"net/http"

	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errGetTemperature = "failed to read temperature"
	errUpdateTemp     = "failed to update temperature"
	errGetOutside     = "failed to read outside temperature"
)

// changeRequest is the body of /update-temperature and /api/v1/thermostat/adjust.
type changeRequest struct {
	Change *float64 `json:"change" binding:"required"`
}

// ChangeRequest is an exported model for Swagger docs of the change payload.
type ChangeRequest struct {
	// Signed temperature change in Celsius
	Change float64 `json:"change" example:"0.5"`
}

// TemperatureResponse is the thermostat backend reading.
type TemperatureResponse struct {
	Temperature float64 `json:"temperature" example:"22.5"`
}

// OutsideTemperatureResponse is the simulated weather reading.
type OutsideTemperatureResponse struct {
	OutsideTemperature float64 `json:"outsideTemperature" example:"17.3"`
}

// bindChange decodes a {change} body and writes a 400 on failure.
func (h *Handler) bindChange(c *gin.Context) (float64, bool) {
	var req changeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if h.log != nil {
			h.log.Infow("change_bad_request_body", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return 0, false
	}
	return *req.Change, true
}

// @Summary      Get thermostat temperature
// @Tags         backend
// @Produce      json
// @Success      200  {object}  TemperatureResponse
// @Failure      500  {object}  map[string]string
// @Router       /get-temperature [get]
func (h *Handler) getTemperature(c *gin.Context) {
	t, err := h.services.Thermostat.Temperature(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetTemperature, "thermostat_get_temperature_failed", err)
		return
	}
	c.JSON(http.StatusOK, TemperatureResponse{Temperature: t})
}

// @Summary      Change thermostat temperature
// @Tags         backend
// @Accept       json
// @Produce      json
// @Param        body  body      ChangeRequest  true  "Signed change"
// @Success      200   {object}  TemperatureResponse
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /update-temperature [post]
func (h *Handler) updateTemperature(c *gin.Context) {
	change, ok := h.bindChange(c)
	if !ok {
		return
	}
	t, err := h.services.Thermostat.Adjust(c.Request.Context(), change)
	if err != nil {
		if errors.Is(err, service.ErrInvalidChange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateTemp, "thermostat_update_failed", err, "change", change)
		return
	}
	c.JSON(http.StatusOK, TemperatureResponse{Temperature: t})
}

// @Summary      Get outside temperature
// @Tags         backend
// @Produce      json
// @Success      200  {object}  OutsideTemperatureResponse
// @Failure      500  {object}  map[string]string
// @Router       /get-outside-temperature [get]
func (h *Handler) getOutsideTemperature(c *gin.Context) {
	t, err := h.services.Thermostat.Outside(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetOutside, "thermostat_get_outside_failed", err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, OutsideTemperatureResponse{OutsideTemperature: t})
}

// @Summary      Get telemetry dataset
// @Tags         backend
// @Produce      json
// @Success      200  {array}  models.TelemetryPoint
// @Router       /get-telemetry [get]
func (h *Handler) getTelemetry(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Telemetry.Dataset())
}
