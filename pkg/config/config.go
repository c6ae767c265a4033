package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	PostgresURL      string `mapstructure:"POSTGRES_URL"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	AnalyticsAPIURL         string `mapstructure:"ANALYTICS_API_URL"`
	AnalyticsAPIToken       string `mapstructure:"ANALYTICS_API_TOKEN"`
	AnalyticsTimeoutSeconds int    `mapstructure:"ANALYTICS_TIMEOUT_SECONDS"`

	DomainCacheTTLSeconds int `mapstructure:"DOMAIN_CACHE_TTL_SECONDS"`
	ExportRateLimit       int `mapstructure:"EXPORT_RATE_LIMIT"`

	OTelEnabled     bool    `mapstructure:"OTEL_ENABLED"`
	OTelEndpoint    string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelServiceName string  `mapstructure:"OTEL_SERVICE_NAME"`
	OTelSampleRatio float64 `mapstructure:"OTEL_TRACE_SAMPLE_RATIO"`
}

var defaults = map[string]any{
	"SERVER_PORT":                 "8080",
	"LOG_LEVEL":                   "info",
	"POSTGRES_URL":                "",
	"POSTGRES_HOST":               "localhost",
	"POSTGRES_PORT":               "5432",
	"POSTGRES_USER":               "user",
	"POSTGRES_PASSWORD":           "password",
	"POSTGRES_DB":                 "linkstats",
	"REDIS_ADDR":                  "localhost:6379",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"ANALYTICS_API_URL":           "http://localhost:7181",
	"ANALYTICS_API_TOKEN":         "",
	"ANALYTICS_TIMEOUT_SECONDS":   30,
	"DOMAIN_CACHE_TTL_SECONDS":    300,
	"EXPORT_RATE_LIMIT":           10,
	"OTEL_ENABLED":                false,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "http://localhost:4318",
	"OTEL_SERVICE_NAME":           "linkstats",
	"OTEL_TRACE_SAMPLE_RATIO":     1.0,
}

// Load reads configuration from an optional .env file and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; production is configured purely through the environment.
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// PostgresConnString returns POSTGRES_URL when set, otherwise a DSN built from the POSTGRES_* parts.
func (c *Config) PostgresConnString() string {
	if c.PostgresURL != "" {
		return c.PostgresURL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func (c *Config) AnalyticsTimeout() time.Duration {
	return time.Duration(c.AnalyticsTimeoutSeconds) * time.Second
}

func (c *Config) DomainCacheTTL() time.Duration {
	return time.Duration(c.DomainCacheTTLSeconds) * time.Second
}
