package display

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"thermostat_dashboard/internal/config"
	"thermostat_dashboard/internal/control"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	mqttQoS         = 0
	mqttWaitTimeout = 2 * time.Second

	payloadOnline  = "online"
	payloadOffline = "offline"
	payloadUnknown = "unknown"
)

// MQTTPublisher mirrors display updates onto MQTT topics under a prefix.
type MQTTPublisher struct {
	client mqtt.Client
	prefix string
	log    *logger.Logger
	now    func() time.Time
}

func NewMQTTPublisher(client mqtt.Client, prefix string, log *logger.Logger) *MQTTPublisher {
	return &MQTTPublisher{client: client, prefix: prefix, log: log, now: time.Now}
}

func (p *MQTTPublisher) topic(suffix string) string {
	return p.prefix + "/" + suffix
}

// ShowTemperatures publishes retained current/outside values so late
// subscribers see the last reading.
func (p *MQTTPublisher) ShowTemperatures(current float64, outside *float64) {
	p.publish(p.topic("temperature/current"), true, strconv.FormatFloat(current, 'f', 2, 64))
	out := payloadUnknown
	if outside != nil {
		out = strconv.FormatFloat(*outside, 'f', 2, 64)
	}
	p.publish(p.topic("temperature/outside"), true, out)
}

func (p *MQTTPublisher) ShowAlert(message string, reason models.Reason) {
	b, err := json.Marshal(AlertPayload{Message: message, Reason: reason, At: p.now().UTC()})
	if err != nil {
		p.log.Errorw("mqtt_alert_marshal_failed", "err", err)
		return
	}
	p.publish(p.topic("alert"), false, string(b))
}

func (p *MQTTPublisher) ShowPress(c control.Control, _ control.Handle) {
	p.publish(p.topic("press"), false, c.String())
}

func (p *MQTTPublisher) publish(topic string, retained bool, payload string) {
	token := p.client.Publish(topic, mqttQoS, retained, payload)
	if !token.WaitTimeout(mqttWaitTimeout) {
		p.log.Warnw("mqtt_publish_timeout", "topic", topic)
		return
	}
	if err := token.Error(); err != nil {
		p.log.Errorw("mqtt_publish_failed", "topic", topic, "err", err)
	}
}

// ConnectMQTT dials the broker with auto-reconnect and an availability topic
// (<prefix>/online) backed by a last-will message.
func ConnectMQTT(cfg config.MQTT, log *logger.Logger) (mqtt.Client, error) {
	availability := cfg.TopicPrefix + "/online"

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetWill(availability, payloadOffline, mqttQoS, true).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Infow("mqtt_connected", "broker", cfg.Broker)
			c.Publish(availability, mqttQoS, true, payloadOnline)
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			log.Warnw("mqtt_connection_lost", "err", err)
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connect mqtt %s: timeout", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", cfg.Broker, err)
	}
	return client, nil
}
