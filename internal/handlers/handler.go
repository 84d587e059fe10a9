package handlers

import (
	"time"

	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services, the dashboard hub and logging.
type Handler struct {
	services *service.Service
	hub      *display.Hub
	log      *logger.Logger
	now      func() time.Time
}

// NewHandler constructs a new HTTP handler with dependencies. hub may be nil,
// in which case /ws only streams periodic state.
func NewHandler(services *service.Service, hub *display.Hub, log *logger.Logger) *Handler {
	return &Handler{services: services, hub: hub, log: log, now: time.Now}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)

	// Thermostat backend, unauthenticated like the device it simulates
	h.registerBackendRoutes(router)

	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerBackendRoutes(r *gin.Engine) {
	r.GET("/get-temperature", h.getTemperature)
	// Body: {"change": 0.5}
	r.POST("/update-temperature", h.updateTemperature)
	r.GET("/get-outside-temperature", h.getOutsideTemperature)
	r.GET("/get-telemetry", h.getTelemetry)
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerThermostatRoutes(api)
		api.GET("/samples", h.getSamples)
		api.GET("/telemetry/download", h.downloadTelemetry)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerThermostatRoutes(api *gin.RouterGroup) {
	thermostat := api.Group("/thermostat")
	{
		thermostat.GET("/state", h.getThermostatState)
		// Body: {"change": -1.5}
		thermostat.POST("/adjust", h.adjustThermostat)
		// Body: {"control": "increase"}
		thermostat.POST("/press", h.pressControl)
		thermostat.POST("/reconcile", h.reconcileNow)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}
