package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"pipeline-builder/domain/core/aggregates"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string   `yaml:"server_address"`
	Environment   string   `yaml:"environment"`
	CORSOrigins   []string `yaml:"cors_origins"`

	// Validation service client
	ValidationEndpoint  string        `yaml:"validation_endpoint"`
	ValidationTimeout   time.Duration `yaml:"validation_timeout"`
	BreakerMinRequests  uint32        `yaml:"breaker_min_requests"`
	BreakerFailureRatio float64       `yaml:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `yaml:"breaker_open_timeout"`

	// Editor
	DanglingPolicy string `yaml:"dangling_policy"`
	CatalogFile    string `yaml:"catalog_file"`
	WatchCatalog   bool   `yaml:"watch_catalog"`

	// AWS configuration
	AWSRegion    string `yaml:"aws_region"`
	EventBusName string `yaml:"event_bus_name"`
	EventSource  string `yaml:"event_source"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Observability
	EnableMetrics   bool    `yaml:"enable_metrics"`
	EnableTracing   bool    `yaml:"enable_tracing"`
	OTLPEndpoint    string  `yaml:"otlp_endpoint"`
	TraceSampleRate float64 `yaml:"trace_sample_rate"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		ServerAddress:       ":8000",
		Environment:         "development",
		CORSOrigins:         []string{"http://localhost:3000"},
		ValidationEndpoint:  "http://localhost:8000/pipelines/parse",
		ValidationTimeout:   10 * time.Second,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.6,
		BreakerOpenTimeout:  30 * time.Second,
		DanglingPolicy:      string(aggregates.DropDangling),
		AWSRegion:           "us-west-2",
		EventSource:         "pipeline-builder",
		LogLevel:            "info",
		EnableMetrics:       true,
		TraceSampleRate:     1,
	}
}

// LoadConfig loads configuration from defaults, then the YAML file named by
// CONFIG_FILE, then environment variables.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.CORSOrigins = getEnvList("CORS_ORIGINS", c.CORSOrigins)

	c.ValidationEndpoint = getEnv("VALIDATION_ENDPOINT", c.ValidationEndpoint)
	c.ValidationTimeout = getEnvDuration("VALIDATION_TIMEOUT", c.ValidationTimeout)
	c.BreakerMinRequests = uint32(getEnvInt("BREAKER_MIN_REQUESTS", int(c.BreakerMinRequests)))
	c.BreakerFailureRatio = getEnvFloat("BREAKER_FAILURE_RATIO", c.BreakerFailureRatio)
	c.BreakerOpenTimeout = getEnvDuration("BREAKER_OPEN_TIMEOUT", c.BreakerOpenTimeout)

	c.DanglingPolicy = getEnv("DANGLING_POLICY", c.DanglingPolicy)
	c.CatalogFile = getEnv("CATALOG_FILE", c.CatalogFile)
	c.WatchCatalog = getEnvBool("WATCH_CATALOG", c.WatchCatalog)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.EventSource = getEnv("EVENT_SOURCE", c.EventSource)

	c.IsLambda = getEnvBool("IS_LAMBDA", c.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.OTLPEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint)
	c.TraceSampleRate = getEnvFloat("TRACE_SAMPLE_RATE", c.TraceSampleRate)
}

// Validate checks that every value is usable
func (c *Config) Validate() error {
	var errs []error

	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is required"))
	}
	if u, err := url.Parse(c.ValidationEndpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("VALIDATION_ENDPOINT must be an absolute URL, got %q", c.ValidationEndpoint))
	}
	if c.ValidationTimeout <= 0 {
		errs = append(errs, errors.New("VALIDATION_TIMEOUT must be positive"))
	}
	if c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1 {
		errs = append(errs, fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.BreakerFailureRatio))
	}
	if _, err := aggregates.ParseDanglingPolicy(c.DanglingPolicy); err != nil {
		errs = append(errs, fmt.Errorf("DANGLING_POLICY: %w", err))
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		errs = append(errs, fmt.Errorf("TRACE_SAMPLE_RATE must be in [0, 1], got %v", c.TraceSampleRate))
	}
	if c.IsProduction() && c.EnableTracing && c.OTLPEndpoint == "" {
		errs = append(errs, errors.New("OTEL_EXPORTER_OTLP_ENDPOINT is required when tracing in production"))
	}

	return errors.Join(errs...)
}

// Policy returns the configured dangling edge policy
func (c *Config) Policy() aggregates.DanglingPolicy {
	p, err := aggregates.ParseDanglingPolicy(c.DanglingPolicy)
	if err != nil {
		return aggregates.DropDangling
	}
	return p
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("5s") or plain milliseconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return defaultValue
}

// getEnvList splits a comma separated variable
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
