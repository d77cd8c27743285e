// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	DatabaseURL      string
	RedisURL         string
	LogLevel         string
	LogPretty        bool
	AsynqConcurrency int
}

// Load reads configuration from the environment. A .env file, when present,
// is merged in first (it never overrides real environment variables).
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
	v.SetDefault("ASYNQ_CONCURRENCY", 10)

	c := &Config{
		Port:             v.GetString("PORT"),
		DatabaseURL:      v.GetString("DB_URL"),
		RedisURL:         v.GetString("REDIS_URL"),
		LogLevel:         v.GetString("LOG_LEVEL"),
		LogPretty:        v.GetBool("LOG_PRETTY"),
		AsynqConcurrency: v.GetInt("ASYNQ_CONCURRENCY"),
	}

	if c.DatabaseURL == "" {
		return nil, errors.New("config: DB_URL environment variable is not set")
	}
	if c.RedisURL == "" {
		return nil, errors.New("config: REDIS_URL environment variable is not set")
	}
	return c, nil
}
