package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process-wide configuration, read once from the environment at startup.
type Config struct {
	Port             string
	Env              string
	DatabaseURL      string
	JWTSecret        string
	StaticDir        string
	UploadDir        string
	PublicBaseURL    string
	RedisURL         string
	FallbackSeedFile string
	CORSOrigins      []string
	ProbeTimeout     time.Duration

	Paystack PaystackConfig
	YouTube  YouTubeConfig
	DevAdmin DevAccount
}

type PaystackConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
}

type YouTubeConfig struct {
	APIKey        string
	ChannelID     string
	ChannelHandle string
}

// DevAccount is the single account accepted by login while the database is unreachable.
// It is never honoured in production.
type DevAccount struct {
	Email    string
	Password string
	Name     string
}

const (
	DefaultPaystackBaseURL = "https://api.paystack.co"
	devJWTSecret           = "development-secret-change-me"
)

// Load reads configuration from environment variables.
//
// Environment variables:
//   - PORT (default 5050), APP_ENV (default development)
//   - DATABASE_URL: postgres DSN; empty means every request runs against the in-memory fallback
//   - JWT_SECRET: required when APP_ENV=production
//   - STATIC_DIR, UPLOAD_DIR, PUBLIC_BASE_URL
//   - PAYSTACK_SECRET_KEY, PAYSTACK_BASE_URL, PAYSTACK_CALLBACK_URL
//   - YOUTUBE_API_KEY, YOUTUBE_CHANNEL_ID, YOUTUBE_CHANNEL_HANDLE
//   - REDIS_URL, FALLBACK_SEED_FILE, CORS_ORIGINS (comma separated)
//   - DEV_ADMIN_EMAIL, DEV_ADMIN_PASSWORD
//   - DB_PROBE_TIMEOUT_MS (default 1500)
func Load() (Config, error) {
	cfg := Config{
		Port:             getEnv("PORT", "5050"),
		Env:              strings.ToLower(getEnv("APP_ENV", "development")),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		StaticDir:        getEnv("STATIC_DIR", "./web/dist"),
		UploadDir:        getEnv("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:    strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:5050"), "/"),
		RedisURL:         getEnv("REDIS_URL", ""),
		FallbackSeedFile: getEnv("FALLBACK_SEED_FILE", ""),
		CORSOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		ProbeTimeout:     time.Duration(getEnvInt("DB_PROBE_TIMEOUT_MS", 1500)) * time.Millisecond,
		Paystack: PaystackConfig{
			SecretKey:   getEnv("PAYSTACK_SECRET_KEY", ""),
			BaseURL:     strings.TrimRight(getEnv("PAYSTACK_BASE_URL", DefaultPaystackBaseURL), "/"),
			CallbackURL: getEnv("PAYSTACK_CALLBACK_URL", ""),
		},
		YouTube: YouTubeConfig{
			APIKey:        getEnv("YOUTUBE_API_KEY", ""),
			ChannelID:     getEnv("YOUTUBE_CHANNEL_ID", ""),
			ChannelHandle: getEnv("YOUTUBE_CHANNEL_HANDLE", ""),
		},
		DevAdmin: DevAccount{
			Email:    getEnv("DEV_ADMIN_EMAIL", "admin@localhost"),
			Password: getEnv("DEV_ADMIN_PASSWORD", "admin123"),
			Name:     "Development Admin",
		},
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return Config{}, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.ProbeTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_PROBE_TIMEOUT_MS must be > 0")
	}

	return cfg, nil
}

func (c Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(val) == "" {
		return fallback
	}
	return strings.TrimSpace(val)
}

func getEnvInt(key string, fallback int) int {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
