package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	commoncfg "github.com/ghalass/gmao-pro-sub001/common/config"

	"github.com/joho/godotenv"
)

// Config gmao-data (HTTP API) configuration
type Config struct {
	HTTP struct {
		Addr        string
		CORSOrigins []string
	}
	Database commoncfg.DatabaseConfig
	Redis    commoncfg.RedisConfig
	Auth     AuthConfig
	Log      struct {
		Level  string
		Format string
	}
	Events EventsConfig
	Report ReportConfig
}

// AuthConfig session signing and lifetime
type AuthConfig struct {
	JWTSecret    string
	SessionTTL   time.Duration
	CookieName   string
	CookieSecure bool
}

// EventsConfig selects where saisie events go: none, mqtt or kafka.
type EventsConfig struct {
	Driver string
	MQTT   commoncfg.MQTTConfig
	Kafka  commoncfg.KafkaConfig
}

// ReportConfig RJE settings
type ReportConfig struct {
	// Timezone in which report dates and saisie days are interpreted.
	Timezone string
}

// Location resolves Timezone, falling back to UTC.
func (r ReportConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the environment, after an optional .env file (ENV_FILE, default ".env").
func Load() *Config {
	envFile := getEnv("ENV_FILE", ".env")
	// A missing .env is the normal production case.
	_ = godotenv.Load(envFile)

	cfg := &Config{}
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")
	cfg.HTTP.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000"))

	cfg.Database = commoncfg.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "gmao",
		SSLMode:  "disable",
		MaxConns: 20,
		MaxIdle:  5,

		ConnMaxLifetime: 30 * time.Minute,
	}
	cfg.Database.LoadFromEnv("DB")

	cfg.Redis = commoncfg.RedisConfig{Addr: "localhost:6379"}
	cfg.Redis.LoadFromEnv("REDIS")

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", "change-me-in-production")
	cfg.Auth.SessionTTL = parseDuration(getEnv("SESSION_TTL", "12h"), 12*time.Hour)
	cfg.Auth.CookieName = getEnv("SESSION_COOKIE", "gmao_session")
	cfg.Auth.CookieSecure = getEnv("SESSION_COOKIE_SECURE", "false") == "true"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	cfg.Events.Driver = strings.ToLower(getEnv("EVENTS_DRIVER", "none"))
	cfg.Events.MQTT = commoncfg.MQTTConfig{
		Broker:   "tcp://localhost:1883",
		ClientID: "gmao-data",
		QoS:      1,
	}
	cfg.Events.MQTT.LoadFromEnv("MQTT")
	cfg.Events.Kafka = commoncfg.KafkaConfig{
		Brokers: []string{"localhost:9092"},
		Topic:   "gmao.saisies",
	}
	cfg.Events.Kafka.LoadFromEnv("KAFKA")

	cfg.Report.Timezone = getEnv("REPORT_TIMEZONE", "Africa/Algiers")

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	// plain seconds
	if n := parseInt(s, -1); n >= 0 {
		return time.Duration(n) * time.Second
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
