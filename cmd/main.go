package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "thermostat_dashboard/docs"
	"thermostat_dashboard/internal/backend"
	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/display"
	"thermostat_dashboard/internal/handlers"
	"thermostat_dashboard/internal/history"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"
	"thermostat_dashboard/internal/repository"
	"thermostat_dashboard/internal/repository/db"
	"thermostat_dashboard/internal/server"
	"thermostat_dashboard/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const (
	hubBuffer       = 64
	shutdownTimeout = 10 * time.Second
	mqttQuiesceMs   = 250
)

// @title        Thermostat Dashboard API
// @version      1.0
// @description  Simulated thermostat backend, reconciliation loop and dashboard feeds.
// @BasePath     /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load configs/config.yml
	v, cfg, err := config.Load("configs", ".")
	if err != nil {
		log.Fatalw("error reading config", "err", err)
	}
	log.SetLevel(cfg.LogLevel)

	// open DB
	conn, err := openDB(cfg.DB, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	registry, err := newRegistry(cfg.Controls)
	if err != nil {
		log.Fatalw("invalid controls", "err", err)
	}

	weather, err := service.NewWeatherModel(weatherParams(cfg.Weather), time.Now())
	if err != nil {
		log.Fatalw("invalid weather settings", "err", err)
	}

	var dataset []models.TelemetryPoint
	if cfg.Telemetry.Enabled {
		if dataset, err = service.LoadDataset(cfg.Telemetry.File); err != nil {
			log.Fatalw("failed to load telemetry", "file", cfg.Telemetry.File, "err", err)
		}
	}

	// displays: websocket hub and log always, MQTT and e-mail when enabled
	ring := history.NewRing(cfg.History.Capacity)
	hub := display.NewHub(hubBuffer)
	displays := display.Fanout{hub, display.NewLogDisplay(log.Named("display"))}

	var mqttClient mqtt.Client
	if cfg.MQTT.Enabled {
		if mqttClient, err = display.ConnectMQTT(cfg.MQTT, log.Named("mqtt")); err != nil {
			log.Fatalw("failed to connect mqtt", "err", err)
		}
		displays = append(displays, display.NewMQTTPublisher(mqttClient, cfg.MQTT.TopicPrefix, log.Named("mqtt")))
	}

	var notifier *display.CriticalNotifier
	if cfg.Mailgun.Enabled {
		notifier = display.NewMailgunNotifier(cfg.Mailgun.Domain, cfg.Mailgun.APIKey, cfg.Mailgun.Sender, cfg.Mailgun.Recipients, log.Named("mailgun"))
		displays = append(displays, notifier)
	}

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		Source:   newSource(cfg.Backend, log),
		Weather:  weather,
		Display:  displays,
		History:  ring,
		Recorder: display.Recorders{ring, hub},
		Registry: registry,
		Dataset:  dataset,
		Auth:     cfg.Auth,
		Log:      log,
	})
	apiHandler := handlers.NewHandler(services, hub, log.Named("http"))

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Reconciler.Enabled {
		go services.Reconciler.Run(ctx, cfg.Reconciler.Interval)
	}
	if cfg.Telemetry.Enabled {
		go services.Telemetry.Replay(ctx, cfg.Telemetry.Interval)
	}

	watchConfig(v, weather, log)

	// start HTTP server
	srv := server.New(cfg.Port, apiHandler.InitRoutes(), server.Timeouts{})
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)

	if notifier != nil {
		notifier.Wait()
	}
	if mqttClient != nil {
		mqttClient.Disconnect(mqttQuiesceMs)
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(c config.DB, log *logger.Logger) (*sql.DB, error) {
	path := c.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "thermostat.db")
		path = "thermostat.db"
	}
	return db.InitDB(path)
}

func newRegistry(c config.Controls) (*control.Registry, error) {
	return control.NewRegistry(map[control.Control]control.Handle{
		control.IncreaseButton: control.Handle(c.Increase),
		control.DecreaseButton: control.Handle(c.Decrease),
	})
}

func weatherParams(w config.Weather) service.WeatherParams {
	return service.WeatherParams{BaseC: w.BaseC, AmplitudeC: w.AmplitudeC, Period: w.Period}
}

// newSource returns the HTTP backend client when a URL is configured and nil
// otherwise, which makes the services use the in-process thermostat.
func newSource(c config.Backend, log *logger.Logger) service.TemperatureSource {
	if c.URL == "" {
		return nil
	}
	log.Infow("using remote thermostat backend", "url", c.URL)
	return backend.NewClient(c.URL, c.Timeout)
}

// watchConfig applies weather parameters and the log level on every valid
// config edit. Other keys need a restart.
func watchConfig(v *viper.Viper, weather *service.WeatherModel, log *logger.Logger) {
	config.Watch(v, func(c config.Config, e fsnotify.Event) {
		log.SetLevel(c.LogLevel)
		if err := weather.SetParams(weatherParams(c.Weather)); err != nil {
			log.Warnw("config_reload_rejected", "file", e.Name, "err", err)
			return
		}
		log.Infow("config_reloaded", "file", e.Name, "log_level", log.Level())
	}, func(err error) {
		log.Warnw("config_reload_rejected", "err", err)
	})
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
	<-srv.Ready()
	log.Infow("http server listening", "addr", srv.Addr())
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
