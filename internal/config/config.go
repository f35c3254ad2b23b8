package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Graph store backends.
const (
	BackendPostgres = "postgres"
	BackendNeo4j    = "neo4j"
	BackendMemory   = "memory"
)

// Config holds the application configuration.
type Config struct {
	GraphBackend  string `mapstructure:"GRAPH_BACKEND"`
	GraphURI      string `mapstructure:"GRAPH_URI"`
	GraphUser     string `mapstructure:"GRAPH_USER"`
	GraphPassword string `mapstructure:"GRAPH_PASSWORD"`
	GraphDatabase string `mapstructure:"GRAPH_DATABASE"`

	Port              string        `mapstructure:"PORT"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	RateLimitRPS      float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst    int           `mapstructure:"RATE_LIMIT_BURST"`
	CORSAllowedOrigin string        `mapstructure:"CORS_ALLOWED_ORIGIN"`

	InviteSecret string        `mapstructure:"INVITE_SECRET"`
	InviteTTL    time.Duration `mapstructure:"INVITE_TTL"`

	TracingExporter string `mapstructure:"TRACING_EXPORTER"`
	LogLevel        string `mapstructure:"LOG_LEVEL"`
}

var defaults = map[string]any{
	"GRAPH_BACKEND":       BackendPostgres,
	"GRAPH_URI":           "",
	"GRAPH_USER":          "",
	"GRAPH_PASSWORD":      "",
	"GRAPH_DATABASE":      "",
	"PORT":                "8080",
	"REQUEST_TIMEOUT":     "10s",
	"RATE_LIMIT_RPS":      50,
	"RATE_LIMIT_BURST":    100,
	"CORS_ALLOWED_ORIGIN": "*",
	"INVITE_SECRET":       "",
	"INVITE_TTL":          "168h",
	"TRACING_EXPORTER":    "none",
	"LOG_LEVEL":           "info",
}

// aliases lists the older variable names still accepted for a key, in
// order of preference.
var aliases = map[string][]string{
	"GRAPH_URI":      {"NEO_URI", "DATABASE_URL"},
	"GRAPH_USER":     {"NEO_USER"},
	"GRAPH_PASSWORD": {"NEO_PASS"},
	"INVITE_SECRET":  {"JWT_SECRET"},
}

// Load reads the configuration from a .env file in the working directory and
// from environment variables. Environment variables win.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the .env file looked up in dir.
func LoadFrom(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
		names := append([]string{key, key}, aliases[key]...)
		if err := v.BindEnv(names...); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}

	// aliases spelled in the .env file are not covered by BindEnv
	for key, names := range aliases {
		if v.GetString(key) != "" {
			continue
		}
		for _, alias := range names {
			if val := v.GetString(alias); val != "" {
				v.Set(key, val)
				break
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.GraphBackend = strings.ToLower(strings.TrimSpace(cfg.GraphBackend))
	return &cfg, nil
}

// Validate reports every missing or malformed setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.GraphBackend {
	case BackendPostgres, BackendNeo4j:
		if c.GraphURI == "" {
			errs = append(errs, errors.New("GRAPH_URI is required"))
		}
		if c.GraphUser == "" {
			errs = append(errs, errors.New("GRAPH_USER is required"))
		}
		if c.GraphPassword == "" {
			errs = append(errs, errors.New("GRAPH_PASSWORD is required"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("GRAPH_BACKEND %q is not one of postgres, neo4j, memory", c.GraphBackend))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}
	if c.InviteSecret != "" && c.InviteTTL <= 0 {
		errs = append(errs, errors.New("INVITE_TTL must be positive"))
	}
	return errors.Join(errs...)
}
