package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Auth         AuthConfig
	AMQP         AMQPConfig
	Notification NotificationConfig
	RateLimit    RateLimitConfig
}

type ServerConfig struct {
	Port   int
	Env    string
	LogDir string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}

type AuthConfig struct {
	JWTSecret string
}

// AMQPConfig holds the outbound notification queue settings. An empty URL
// disables the broker and the service falls back to its in-process queue.
type AMQPConfig struct {
	URL      string
	Exchange string
	Queue    string
}

func (a AMQPConfig) Enabled() bool {
	return a.URL != ""
}

type NotificationConfig struct {
	// Email provider (SendGrid-compatible HTTP API)
	EmailAPIKey  string
	EmailBaseURL string
	FromEmail    string
	FromName     string

	// WhatsApp Cloud API
	WhatsAppToken   string
	WhatsAppPhoneID string
	WhatsAppBaseURL string

	Workers int
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:   getEnvInt("SERVER_PORT", 8080),
			Env:    getEnv("ENV", "development"),
			LogDir: getEnv("LOG_DIR", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "fieldops"),
			Password: getEnv("DB_PASSWORD", "fieldops"),
			Database: getEnv("DB_NAME", "fieldops"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-prod"),
		},
		AMQP: AMQPConfig{
			URL:      getEnv("AMQP_URL", ""),
			Exchange: getEnv("AMQP_EXCHANGE", "fieldops.notifications"),
			Queue:    getEnv("AMQP_QUEUE", "notifications"),
		},
		Notification: NotificationConfig{
			EmailAPIKey:     getEnv("SENDGRID_API_KEY", ""),
			EmailBaseURL:    getEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com"),
			FromEmail:       getEnv("NOTIFY_FROM_EMAIL", "ops@fieldops.local"),
			FromName:        getEnv("NOTIFY_FROM_NAME", "Field Operations"),
			WhatsAppToken:   getEnv("WHATSAPP_TOKEN", ""),
			WhatsAppPhoneID: getEnv("WHATSAPP_PHONE_ID", ""),
			WhatsAppBaseURL: getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v19.0"),
			Workers:         getEnvInt("NOTIFY_WORKERS", 4),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvFloat("RATE_LIMIT_RPS", 50),
			Burst:             getEnvInt("RATE_LIMIT_BURST", 100),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}
