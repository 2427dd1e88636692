package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/shareloop/service-booking/internal/platform/database"
)

// Storage drivers selectable via configuration.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// ServiceConfig holds all configuration for the booking service.
type ServiceConfig struct {
	AppEnv        string
	Server        ServerConfig
	StorageDriver string
	DB            database.Config
	RedisAddr     string
	KafkaBrokers  []string
	LogLevel      string
}

// Load reads configuration from BOOKING_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKING")
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "60s")
	v.SetDefault("STORAGE_DRIVER", StoragePostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "shareloop")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("KAFKA_BROKERS", []string{})
	v.SetDefault("LOG_LEVEL", "info")

	cfg := &ServiceConfig{
		AppEnv: v.GetString("APP_ENV"),
		Server: ServerConfig{
			Addr:         v.GetString("SERVER_ADDR"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		StorageDriver: v.GetString("STORAGE_DRIVER"),
		DB: database.Config{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		RedisAddr:    v.GetString("REDIS_ADDR"),
		KafkaBrokers: v.GetStringSlice("KAFKA_BROKERS"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.StorageDriver)
	}
	return cfg, nil
}
