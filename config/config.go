package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/upb/resource-api/utils"
)

// Config represents the complete application configuration
type Config struct {
	Environment   string `validate:"required"`
	Server        ServerConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Service       ServiceConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int           `validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// AuthConfig holds the OIDC resource-server settings. Audience is optional;
// when empty the aud claim is not checked.
type AuthConfig struct {
	IssuerURI           string `validate:"required,url"`
	Audience            string
	ClockSkew           time.Duration `validate:"gte=0"`
	JWKSRefreshInterval time.Duration `validate:"gt=0"`
	HTTPTimeout         time.Duration `validate:"gt=0"`
}

// CORSConfig holds the cross-origin policy
type CORSConfig struct {
	AllowedOrigins   []string `validate:"required,min=1,dive,required"`
	AllowedMethods   []string `validate:"required,min=1"`
	AllowedHeaders   []string `validate:"required,min=1"`
	AllowCredentials bool
	MaxAge           int `validate:"gte=0"`
}

// ServiceConfig holds identity and presentation settings of the service
type ServiceConfig struct {
	Name         string `validate:"required"`
	Version      string
	HealthFormat string `validate:"oneof=text json"`
}

// ObservabilityConfig holds logging configuration. A non-empty LogFile adds a
// rotating file sink next to stdout.
type ObservabilityConfig struct {
	LogLevel        string `validate:"required"`
	LogFormat       string `validate:"oneof=json console"`
	LogFile         string
	LogMaxAge       time.Duration `validate:"gt=0"`
	LogRotationTime time.Duration `validate:"gt=0"`
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Auth: AuthConfig{
			IssuerURI:           getEnv("ISSUER_URI", ""),
			Audience:            getEnv("JWT_AUDIENCE", ""),
			ClockSkew:           getEnvAsDuration("JWT_CLOCK_SKEW", 60*time.Second),
			JWKSRefreshInterval: getEnvAsDuration("JWKS_REFRESH_INTERVAL", 5*time.Minute),
			HTTPTimeout:         getEnvAsDuration("JWKS_HTTP_TIMEOUT", 10*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", nil),
			AllowedMethods:   getEnvAsList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsList("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 3600),
		},
		Service: ServiceConfig{
			Name:         getEnv("SERVICE_NAME", "Resource API"),
			Version:      getEnv("SERVICE_VERSION", "dev"),
			HealthFormat: strings.ToLower(getEnv("HEALTH_FORMAT", "text")),
		},
		Observability: ObservabilityConfig{
			LogLevel:        getEnv("LOG_LEVEL", "info"),
			LogFormat:       getEnv("LOG_FORMAT", ""),
			LogFile:         getEnv("LOG_FILE", ""),
			LogMaxAge:       getEnvAsDuration("LOG_MAX_AGE", 7*24*time.Hour),
			LogRotationTime: getEnvAsDuration("LOG_ROTATION_TIME", 24*time.Hour),
		},
	}

	if cfg.Observability.LogFormat == "" {
		cfg.Observability.LogFormat = defaultLogFormat(cfg)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks struct constraints and the cross-field CORS rule
func (c *Config) Validate() error {
	if err := utils.ValidateStruct(c); err != nil {
		return err
	}

	// Browsers refuse credentialed responses with a wildcard origin
	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("wildcard CORS origin cannot be combined with credentials")
			}
		}
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// defaultLogFormat picks human-readable logs for local development and JSON
// everywhere else
func defaultLogFormat(cfg *Config) string {
	if cfg.IsDevelopment() {
		return "console"
	}
	return "json"
}

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	for _, key := range []string{"PORT", "SERVER_PORT"} {
		if value := os.Getenv(key); value != "" {
			if p, err := strconv.Atoi(value); err == nil {
				return p
			}
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma-separated variable, trimming blanks and empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
