package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_NAME", "gmao")
	t.Setenv("DB_MAX_CONNS", "20")

	c := DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", Password: "pw", Database: "x", SSLMode: "disable"}
	c.LoadFromEnv("DB")

	assert.Equal(t, "db.internal", c.Host)
	assert.Equal(t, 6543, c.Port)
	assert.Equal(t, 20, c.MaxConns)
	assert.Equal(t, "host=db.internal port=6543 user=postgres password=pw dbname=gmao sslmode=disable", c.GetDSN())
}

func TestKafkaConfig_LoadFromEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_TOPIC", "gmao.saisies")

	c := KafkaConfig{Brokers: []string{"localhost:9092"}}
	c.LoadFromEnv("KAFKA")

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, c.Brokers)
	assert.Equal(t, "gmao.saisies", c.Topic)
}

func TestLoadFromEnv_KeepsFieldsOnBadValues(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("MQTT_QOS", "7")
	t.Setenv("REDIS_DB", "3")

	db := DatabaseConfig{Port: 5432}
	db.LoadFromEnv("DB")
	assert.Equal(t, 5432, db.Port)
	assert.Equal(t, 30*time.Minute, db.ConnMaxLifetime)

	m := MQTTConfig{QoS: 1}
	m.LoadFromEnv("MQTT")
	assert.Equal(t, byte(1), m.QoS)

	r := RedisConfig{Addr: "localhost:6379"}
	r.LoadFromEnv("REDIS")
	assert.Equal(t, 3, r.DB)
	assert.Equal(t, "localhost:6379", r.Addr)
}
