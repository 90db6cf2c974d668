// Package config holds the connection settings shared by every gmao binary.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
	// ConnMaxLifetime 0 keeps connections forever
	ConnMaxLifetime time.Duration
}

// RedisConfig Redis settings (sessions)
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig broker used for saisie events
type MQTTConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// KafkaConfig producer used for saisie events
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// LoadFromEnv overrides fields from <prefix>_HOST, _PORT, _USER, _PASSWORD, _NAME,
// _SSLMODE, _MAX_CONNS, _MAX_IDLE and _CONN_MAX_LIFETIME. Unset or unparsable values keep the current field.
func (c *DatabaseConfig) LoadFromEnv(prefix string) {
	setString(&c.Host, prefix+"_HOST")
	setInt(&c.Port, prefix+"_PORT")
	setString(&c.User, prefix+"_USER")
	setString(&c.Password, prefix+"_PASSWORD")
	setString(&c.Database, prefix+"_NAME")
	setString(&c.SSLMode, prefix+"_SSLMODE")
	setInt(&c.MaxConns, prefix+"_MAX_CONNS")
	setInt(&c.MaxIdle, prefix+"_MAX_IDLE")
	if v, ok := lookup(prefix + "_CONN_MAX_LIFETIME"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			c.ConnMaxLifetime = d
		}
	}
}

// LoadFromEnv overrides fields from <prefix>_ADDR, _PASSWORD and _DB.
func (c *RedisConfig) LoadFromEnv(prefix string) {
	setString(&c.Addr, prefix+"_ADDR")
	setString(&c.Password, prefix+"_PASSWORD")
	setInt(&c.DB, prefix+"_DB")
}

// LoadFromEnv overrides fields from <prefix>_BROKER, _CLIENT_ID, _USERNAME, _PASSWORD and _QOS.
func (c *MQTTConfig) LoadFromEnv(prefix string) {
	setString(&c.Broker, prefix+"_BROKER")
	setString(&c.ClientID, prefix+"_CLIENT_ID")
	setString(&c.Username, prefix+"_USERNAME")
	setString(&c.Password, prefix+"_PASSWORD")
	if v, ok := lookup(prefix + "_QOS"); ok {
		if q, err := strconv.ParseUint(v, 10, 8); err == nil && q <= 2 {
			c.QoS = byte(q)
		}
	}
}

// LoadFromEnv reads <prefix>_BROKERS (comma separated) and <prefix>_TOPIC.
func (c *KafkaConfig) LoadFromEnv(prefix string) {
	if v, ok := lookup(prefix + "_BROKERS"); ok {
		brokers := make([]string, 0)
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Brokers = brokers
	}
	setString(&c.Topic, prefix+"_TOPIC")
}

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
