package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Env         string
	Addr        string
	DBDSN       string
	TokenSecret string
	TokenTTL    time.Duration
	LogLevel    string
	LogFile     string
}

func Load() (Config, error) {
	return LoadFromEnv(os.Getenv)
}

func LoadFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Env:         getenv("APP_ENV"),
		Addr:        getenv("APP_ADDR"),
		DBDSN:       getenv("APP_DB_DSN"),
		TokenSecret: getenv("APP_TOKEN_SECRET"),
		LogLevel:    getenv("APP_LOG_LEVEL"),
		LogFile:     getenv("APP_LOG_FILE"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8080"
	}

	ttlRaw := getenv("APP_TOKEN_TTL")
	if ttlRaw == "" {
		cfg.TokenTTL = time.Hour
	} else {
		ttl, err := time.ParseDuration(ttlRaw)
		if err != nil {
			return Config{}, fmt.Errorf("APP_TOKEN_TTL: %w", err)
		}
		if ttl <= 0 {
			return Config{}, errors.New("APP_TOKEN_TTL: must be > 0")
		}
		cfg.TokenTTL = ttl
	}

	switch cfg.Env {
	case "dev", "prod", "test":
	default:
		return Config{}, errors.New("APP_ENV: must be one of dev, test, prod")
	}

	if cfg.DBDSN == "" {
		return Config{}, errors.New("APP_DB_DSN: required")
	}
	if cfg.TokenSecret == "" {
		return Config{}, errors.New("APP_TOKEN_SECRET: required")
	}
	if cfg.IsProd() && len(cfg.TokenSecret) < 32 {
		return Config{}, errors.New("APP_TOKEN_SECRET: must be at least 32 bytes in prod")
	}

	return cfg, nil
}

func (c Config) IsProd() bool { return c.Env == "prod" }
