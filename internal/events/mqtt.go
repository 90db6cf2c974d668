package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ghalass/gmao-pro-sub001/common/config"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mqttClient is the publishing side of a broker connection.
type mqttClient interface {
	Publish(topic string, retained bool, payload []byte) error
	Disconnect()
}

// pahoClient publishes with a fixed QoS.
type pahoClient struct {
	c   mqtt.Client
	qos byte
}

func dialMQTT(cfg config.MQTTConfig) (*pahoClient, error) {
	if cfg.Broker == "" {
		return nil, fmt.Errorf("MQTT_BROKER is required when EVENTS_DRIVER=mqtt")
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetCleanSession(true).
		SetConnectTimeout(10 * time.Second)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	c := mqtt.NewClient(opts)
	if tok := c.Connect(); tok.Wait() && tok.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker %s: %w", cfg.Broker, tok.Error())
	}
	return &pahoClient{c: c, qos: cfg.QoS}, nil
}

func (p *pahoClient) Publish(topic string, retained bool, payload []byte) error {
	tok := p.c.Publish(topic, p.qos, retained, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("timed out publishing to %s", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, err)
	}
	return nil
}

// Disconnect gives in-flight messages 250ms.
func (p *pahoClient) Disconnect() { p.c.Disconnect(250) }

// MQTTPublisher publishes on gmao/<entreprise>/saisies.
type MQTTPublisher struct {
	client mqttClient
}

func NewMQTTPublisher(client mqttClient) *MQTTPublisher {
	return &MQTTPublisher{client: client}
}

func (p *MQTTPublisher) Publish(_ context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.client.Publish(Topic(ev.EntrepriseID), false, payload)
}

func (p *MQTTPublisher) Close() error {
	p.client.Disconnect()
	return nil
}
