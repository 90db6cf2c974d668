package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ghalass/gmao-pro-sub001/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMQTT struct {
	topic   string
	payload []byte
	closed  bool
}

func (f *fakeMQTT) Publish(topic string, _ bool, payload []byte) error {
	f.topic, f.payload = topic, payload
	return nil
}

func (f *fakeMQTT) Disconnect() { f.closed = true }

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestMQTTPublisher_TopicPerTenant(t *testing.T) {
	client := &fakeMQTT{}
	p := NewMQTTPublisher(client)

	hrm := 20.0
	require.NoError(t, p.Publish(context.Background(), Event{
		Type: TypeHRMSaved, EntrepriseID: "ent-1", EnginID: "e1", Du: "2024-03-15", EntityID: "h1", HRM: &hrm,
	}))

	assert.Equal(t, "gmao/ent-1/saisies", client.topic)
	var got map[string]any
	require.NoError(t, json.Unmarshal(client.payload, &got))
	assert.Equal(t, TypeHRMSaved, got["type"])
	assert.Equal(t, 20.0, got["hrm"])
	assert.NotContains(t, got, "him")

	require.NoError(t, p.Close())
	assert.True(t, client.closed)
}

func TestKafkaPublisher_KeyedByEngin(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	at := time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeHIMCreated, EntrepriseID: "ent-1", EnginID: "e7", At: at}))
	require.NoError(t, p.Publish(context.Background(), Event{Type: TypeLubrifiantAdded, EntrepriseID: "ent-1", At: at}))

	require.Len(t, w.msgs, 2)
	assert.Equal(t, "e7", string(w.msgs[0].Key))
	assert.Equal(t, "ent-1", string(w.msgs[1].Key))
	assert.Equal(t, at, w.msgs[0].Time)
}

func TestKafkaPublisher_WrapsError(t *testing.T) {
	p := &KafkaPublisher{w: &fakeWriter{err: errors.New("broker down")}}
	err := p.Publish(context.Background(), Event{EntrepriseID: "ent-1"})
	assert.ErrorContains(t, err, "broker down")
}

func TestNew_Drivers(t *testing.T) {
	p, err := New(config.EventsConfig{Driver: "none"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, p)

	_, err = New(config.EventsConfig{Driver: "kafka"}, zap.NewNop())
	assert.Error(t, err)

	_, err = New(config.EventsConfig{Driver: "mqtt"}, zap.NewNop())
	assert.ErrorContains(t, err, "MQTT_BROKER")

	_, err = New(config.EventsConfig{Driver: "amqp"}, zap.NewNop())
	assert.Error(t, err)
}
