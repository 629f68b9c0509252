package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the full service configuration, loaded from environment
// variables with sensible local-development defaults.
type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	HTTP     HTTPConfig
	Capture  CaptureConfig
	Alerts   AlertsConfig

	Log struct {
		Level  string
		Format string
	}
}

// DatabaseConfig PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MaxIdle  int
}

// GetDSN builds the lib/pq connection string.
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// RedisConfig realtime cache settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// MQTTConfig telemetry ingestion settings. Ingestion is optional: when
// disabled the service serves queries and captures over whatever another
// writer puts into sensor_samples.
type MQTTConfig struct {
	Enabled  bool
	Broker   string
	ClientID string
	Username string
	Password string
	Topic    string
	QoS      byte
}

// HTTPConfig API server settings. APIKey guards the privileged endpoints
// (realtime view, manual capture); empty disables the check.
type HTTPConfig struct {
	ListenAddr string
	APIKey     string
}

// CaptureConfig daily snapshot settings.
type CaptureConfig struct {
	Hour             int
	Minute           int
	Timezone         string
	ToleranceMinutes int
	OnStart          bool
	CacheTTLSeconds  int
}

// AlertsConfig webhook notification settings; empty URL disables alerts.
type AlertsConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "fuelmonitor")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = getEnvInt("DB_MAX_CONNS", 10)
	cfg.Database.MaxIdle = getEnvInt("DB_MAX_IDLE", 5)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.MQTT.Enabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "fuelmonitorhub")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "telemetry/+/data")
	cfg.MQTT.QoS = byte(getEnvInt("MQTT_QOS", 1))

	cfg.HTTP.ListenAddr = getEnv("HTTP_LISTEN_ADDR", ":8090")
	cfg.HTTP.APIKey = getEnv("HTTP_API_KEY", "")

	cfg.Capture.Hour = getEnvInt("CAPTURE_HOUR", 23)
	cfg.Capture.Minute = getEnvInt("CAPTURE_MINUTE", 55)
	cfg.Capture.Timezone = getEnv("CAPTURE_TIMEZONE", "Africa/Harare")
	cfg.Capture.ToleranceMinutes = getEnvInt("CAPTURE_TOLERANCE_MINUTES", 5)
	cfg.Capture.OnStart = getEnv("CAPTURE_ON_START", "false") == "true"
	cfg.Capture.CacheTTLSeconds = getEnvInt("REALTIME_CACHE_TTL_SECONDS", 120)

	cfg.Alerts.WebhookURL = getEnv("ALERT_WEBHOOK_URL", "")
	cfg.Alerts.TimeoutSeconds = getEnvInt("ALERT_TIMEOUT_SECONDS", 10)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Capture.Hour < 0 || cfg.Capture.Hour > 23 || cfg.Capture.Minute < 0 || cfg.Capture.Minute > 59 {
		return nil, fmt.Errorf("invalid capture time %02d:%02d", cfg.Capture.Hour, cfg.Capture.Minute)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.Atoi(value); err == nil {
			return v
		}
	}
	return defaultValue
}
