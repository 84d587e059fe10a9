// Package config loads service settings from configs/config.yml, the
// environment (THERMO_ prefix) and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "THERMO"

type Config struct {
	Port       string     `mapstructure:"port"`
	LogLevel   string     `mapstructure:"log_level"`
	DB         DB         `mapstructure:"db"`
	Auth       Auth       `mapstructure:"auth"`
	Backend    Backend    `mapstructure:"backend"`
	Reconciler Reconciler `mapstructure:"reconciler"`
	Weather    Weather    `mapstructure:"weather"`
	Telemetry  Telemetry  `mapstructure:"telemetry"`
	History    History    `mapstructure:"history"`
	Controls   Controls   `mapstructure:"controls"`
	MQTT       MQTT       `mapstructure:"mqtt"`
	Mailgun    Mailgun    `mapstructure:"mailgun"`
}

type DB struct {
	Path string `mapstructure:"path"`
}

type Auth struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// Backend points the reconciler at the thermostat API. An empty URL uses the
// in-process thermostat instead of HTTP.
type Backend struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Reconciler struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
}

type Weather struct {
	BaseC      float64       `mapstructure:"base_c"`
	AmplitudeC float64       `mapstructure:"amplitude_c"`
	Period     time.Duration `mapstructure:"period"`
}

type Telemetry struct {
	Enabled  bool          `mapstructure:"enabled"`
	File     string        `mapstructure:"file"`
	Interval time.Duration `mapstructure:"interval"`
}

type History struct {
	Capacity int `mapstructure:"capacity"`
}

// Controls holds the display handles of the thermostat buttons.
type Controls struct {
	Increase string `mapstructure:"increase"`
	Decrease string `mapstructure:"decrease"`
}

type MQTT struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
}

type Mailgun struct {
	Enabled    bool     `mapstructure:"enabled"`
	Domain     string   `mapstructure:"domain"`
	APIKey     string   `mapstructure:"api_key"`
	Sender     string   `mapstructure:"sender"`
	Recipients []string `mapstructure:"recipients"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", "thermostat.db")
	v.SetDefault("auth.signing_key", "change-me")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", 3*time.Second)
	v.SetDefault("reconciler.enabled", true)
	v.SetDefault("reconciler.interval", 5*time.Second)
	v.SetDefault("weather.base_c", 21.0)
	v.SetDefault("weather.amplitude_c", 10.0)
	v.SetDefault("weather.period", 30*time.Minute)
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.file", "configs/telemetry.yml")
	v.SetDefault("telemetry.interval", 5*time.Second)
	v.SetDefault("history.capacity", 1000)
	v.SetDefault("controls.increase", "increasebutton")
	v.SetDefault("controls.decrease", "decreasebutton")
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "thermostat-dashboard")
	v.SetDefault("mqtt.username", "")
	v.SetDefault("mqtt.password", "")
	v.SetDefault("mqtt.topic_prefix", "thermostat")
	v.SetDefault("mailgun.enabled", false)
	v.SetDefault("mailgun.domain", "")
	v.SetDefault("mailgun.api_key", "")
	v.SetDefault("mailgun.sender", "")
	v.SetDefault("mailgun.recipients", []string{})
}

// New returns a viper instance with defaults, env binding and the given
// config search paths. A missing config file is not an error.
func New(paths ...string) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Decode unmarshals the current viper state and validates it.
func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load is New followed by Decode.
func Load(paths ...string) (*viper.Viper, Config, error) {
	v, err := New(paths...)
	if err != nil {
		return nil, Config{}, err
	}
	c, err := Decode(v)
	if err != nil {
		return nil, Config{}, err
	}
	return v, c, nil
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if c.Reconciler.Interval <= 0 {
		return fmt.Errorf("reconciler.interval must be positive, got %v", c.Reconciler.Interval)
	}
	if c.Telemetry.Interval <= 0 {
		return fmt.Errorf("telemetry.interval must be positive, got %v", c.Telemetry.Interval)
	}
	if c.Weather.Period <= 0 {
		return fmt.Errorf("weather.period must be positive, got %v", c.Weather.Period)
	}
	if c.History.Capacity <= 0 {
		return fmt.Errorf("history.capacity must be positive, got %d", c.History.Capacity)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return errors.New("mqtt.broker is required when mqtt is enabled")
	}
	if c.Mailgun.Enabled && (c.Mailgun.Domain == "" || c.Mailgun.APIKey == "" || len(c.Mailgun.Recipients) == 0) {
		return errors.New("mailgun.domain, mailgun.api_key and mailgun.recipients are required when mailgun is enabled")
	}
	return nil
}

// Watch re-decodes the config file on every change and hands valid results
// to onChange. Invalid edits are reported to onError and otherwise ignored.
func Watch(v *viper.Viper, onChange func(Config, fsnotify.Event), onError func(error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := Decode(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(c, e)
	})
	v.WatchConfig()
}
