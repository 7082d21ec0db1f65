package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	DBDSN string

	JWTSecret string
	JWTExpiry time.Duration

	CORSAllowedOrigins []string

	ClinicLocation          *time.Location
	ReminderHour            int
	ReminderMinute          int
	QuarantineSweepInterval time.Duration

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	Admin AdminConfig
	SMTP  SMTPConfig
	Redis RedisConfig
	AMQP  AMQPConfig
	MinIO MinIOConfig
}

// AdminConfig es la cuenta ADMIN que se crea al arrancar si no existe.
type AdminConfig struct {
	Username string
	Email    string
	Password string
}

func (c AdminConfig) Enabled() bool { return c.Username != "" && c.Password != "" }

type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Encryption string // NONE | STARTTLS | SSL/TLS
}

func (c SMTPConfig) Enabled() bool { return c.Host != "" && c.From != "" }

type RedisConfig struct {
	URL string
}

func (c RedisConfig) Enabled() bool { return c.URL != "" }

type AMQPConfig struct {
	URL      string
	Exchange string
}

func (c AMQPConfig) Enabled() bool { return c.URL != "" }

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	PublicURL string
}

func (c MinIOConfig) Enabled() bool { return c.Endpoint != "" }

var defaultOrigins = "http://localhost:8081,http://frontend:80,http://frontend"

// Load lee .env (si existe) y luego el entorno.
func Load() (Config, error) {
	_ = godotenv.Load()

	loc, err := time.LoadLocation(env("CLINIC_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, errors.New("config: invalid CLINIC_TIMEZONE")
	}

	cfg := Config{
		Port:      env("PORT", "8080"),
		DBDSN:     env("DB_DSN", ""),
		JWTSecret: env("JWT_SECRET", ""),
		JWTExpiry: time.Duration(envInt("JWT_EXPIRY_MINUTES", 60)) * time.Minute,

		CORSAllowedOrigins: splitCSV(env("CORS_ALLOWED_ORIGINS", defaultOrigins)),

		ClinicLocation:          loc,
		ReminderHour:            envInt("REMINDER_HOUR", 9),
		ReminderMinute:          envInt("REMINDER_MINUTE", 0),
		QuarantineSweepInterval: envDuration("QUARANTINE_SWEEP_INTERVAL", time.Minute),

		AuthRateLimitRPS:   envFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: envInt("AUTH_RATE_LIMIT_BURST", 10),

		Admin: AdminConfig{
			Username: env("ADMIN_USERNAME", ""),
			Email:    env("ADMIN_EMAIL", ""),
			Password: env("ADMIN_PASSWORD", ""),
		},
		SMTP: SMTPConfig{
			Host:       env("SMTP_HOST", ""),
			Port:       envInt("SMTP_PORT", 587),
			Username:   env("SMTP_USERNAME", ""),
			Password:   env("SMTP_PASSWORD", ""),
			From:       env("SMTP_FROM", ""),
			Encryption: env("SMTP_ENCRYPTION", "STARTTLS"),
		},
		Redis: RedisConfig{URL: env("REDIS_URL", "")},
		AMQP: AMQPConfig{
			URL:      env("AMQP_URL", ""),
			Exchange: env("AMQP_EXCHANGE", "vetcare.notifications"),
		},
		MinIO: MinIOConfig{
			Endpoint:  env("MINIO_ENDPOINT", ""),
			AccessKey: env("MINIO_ACCESS_KEY", ""),
			SecretKey: env("MINIO_SECRET_KEY", ""),
			UseSSL:    envBool("MINIO_USE_SSL", false),
			PublicURL: env("MINIO_PUBLIC_URL", ""),
		},
	}

	if cfg.ReminderHour < 0 || cfg.ReminderHour > 23 || cfg.ReminderMinute < 0 || cfg.ReminderMinute > 59 {
		return Config{}, errors.New("config: invalid REMINDER_HOUR/REMINDER_MINUTE")
	}
	if cfg.QuarantineSweepInterval <= 0 {
		return Config{}, errors.New("config: QUARANTINE_SWEEP_INTERVAL must be positive")
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(env(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(env(key, ""), 64)
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(env(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(env(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func splitCSV(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
