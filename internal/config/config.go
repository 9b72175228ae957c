// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Optional: when empty, in-memory repositories are used.
	DatabaseURL string `koanf:"database_url"`

	// Redis. Optional: when empty, the in-memory connection store is used.
	RedisAddr string `koanf:"redis_addr"`

	// JWT Authentication
	JWTSecret         string `koanf:"jwt_secret"`
	JWTPreviousSecret string `koanf:"jwt_previous_secret"`

	// Ranking
	RankingCalibrationPath string `koanf:"ranking_calibration_path"`
	RankParallelism        int    `koanf:"rank_parallelism"`
	FeedWindowHours        int    `koanf:"feed_window_hours"`

	// Tracing
	TracingEnabled      bool    `koanf:"tracing_enabled"`
	TracingExporter     string  `koanf:"tracing_exporter"`
	TracingEndpoint     string  `koanf:"tracing_endpoint"`
	TracingSamplingRate float64 `koanf:"tracing_sampling_rate"`
	TracingInsecure     bool    `koanf:"tracing_insecure"`
}

// Configuration validation errors.
var (
	ErrMissingJWTSecret      = errors.New("JWT_SECRET is required")
	ErrInvalidPort           = errors.New("PORT must be a valid integer")
	ErrInvalidParallelism    = errors.New("RANK_PARALLELISM must be > 0")
	ErrInvalidFeedWindow     = errors.New("FEED_WINDOW_HOURS must be >= 0")
	ErrInvalidSamplingRate   = errors.New("TRACING_SAMPLING_RATE must be between 0 and 1")
	ErrInvalidTracingBackend = errors.New("TRACING_EXPORTER must be otlp-http or otlp-grpc")
)

// Default values for non-secret configuration.
const (
	DefaultPort                = 8080
	DefaultEnv                 = "development"
	DefaultRankParallelism     = 8
	DefaultFeedWindowHours     = 72
	DefaultTracingExporter     = "otlp-http"
	DefaultTracingSamplingRate = 0.1
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	parallelism, parErr := getEnvIntOrDefault("RANK_PARALLELISM", k.Int("rank_parallelism"), DefaultRankParallelism)
	if parErr != nil {
		loadErrs = append(loadErrs, parErr)
	}

	feedWindow, windowErr := getEnvIntOrDefault("FEED_WINDOW_HOURS", k.Int("feed_window_hours"), DefaultFeedWindowHours)
	if windowErr != nil {
		loadErrs = append(loadErrs, windowErr)
	}

	samplingRate, rateErr := getEnvFloatOrDefault("TRACING_SAMPLING_RATE", k.Float64("tracing_sampling_rate"), DefaultTracingSamplingRate)
	if rateErr != nil {
		loadErrs = append(loadErrs, rateErr)
	}

	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefault("ENV", k.String("env"), DefaultEnv),
		DatabaseURL:            getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:              getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		JWTSecret:              getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTPreviousSecret:      getEnvOrKoanf("JWT_PREVIOUS_SECRET", k, "jwt_previous_secret"),
		RankingCalibrationPath: getEnvOrKoanf("RANKING_CALIBRATION_PATH", k, "ranking_calibration_path"),
		RankParallelism:        parallelism,
		FeedWindowHours:        feedWindow,
		TracingEnabled:         getEnvBoolOrKoanf("TRACING_ENABLED", k, "tracing_enabled"),
		TracingExporter:        getEnvOrDefault("TRACING_EXPORTER", k.String("tracing_exporter"), DefaultTracingExporter),
		TracingEndpoint:        getEnvOrKoanf("TRACING_ENDPOINT", k, "tracing_endpoint"),
		TracingSamplingRate:    samplingRate,
		TracingInsecure:        getEnvBoolOrKoanf("TRACING_INSECURE", k, "tracing_insecure"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvBoolOrKoanf returns the environment variable as bool if set, otherwise the koanf value.
// Env values "true", "1", "yes", "on" (case-insensitive) read as true.
func getEnvBoolOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) bool {
	if val := os.Getenv(envKey); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return k.Bool(koanfKey)
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as a float.
func getEnvFloatOrDefault(envKey string, koanfVal float64, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid float: %w", envKey, err)
		}
		return f, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.RankParallelism <= 0 {
		errs = append(errs, ErrInvalidParallelism)
	}
	if c.FeedWindowHours < 0 {
		errs = append(errs, ErrInvalidFeedWindow)
	}
	if c.TracingSamplingRate < 0 || c.TracingSamplingRate > 1 {
		errs = append(errs, ErrInvalidSamplingRate)
	}
	if c.TracingEnabled && c.TracingExporter != "otlp-http" && c.TracingExporter != "otlp-grpc" {
		errs = append(errs, ErrInvalidTracingBackend)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                     fmt.Sprintf("%d", c.Port),
		"env":                      c.Env,
		"database_url":             maskDatabaseURL(c.DatabaseURL),
		"redis_addr":               c.RedisAddr,
		"jwt_secret":               maskSecret(c.JWTSecret),
		"jwt_previous_secret":      maskSecret(c.JWTPreviousSecret),
		"ranking_calibration_path": c.RankingCalibrationPath,
		"rank_parallelism":         fmt.Sprintf("%d", c.RankParallelism),
		"feed_window_hours":        fmt.Sprintf("%d", c.FeedWindowHours),
		"tracing_enabled":          fmt.Sprintf("%t", c.TracingEnabled),
		"tracing_exporter":         c.TracingExporter,
		"tracing_endpoint":         c.TracingEndpoint,
		"tracing_sampling_rate":    fmt.Sprintf("%g", c.TracingSamplingRate),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a database URL.
// Supports both postgres:// and postgresql:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
