package config

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Config represents the complete server configuration
type Config struct {
	Server     ServerConfig     `yaml:"server" json:"server" toml:"server"`
	Logging    LoggingConfig    `yaml:"logging" json:"logging" toml:"logging"`
	Calculator CalculatorConfig `yaml:"calculator" json:"calculator" toml:"calculator"`
	Security   SecurityConfig   `yaml:"security" json:"security" toml:"security"`
}

// ServerConfig contains server-specific configuration
type ServerConfig struct {
	Transport string     `yaml:"transport" json:"transport" toml:"transport"`
	HTTP      HTTPConfig `yaml:"http" json:"http" toml:"http"`
}

// HTTPConfig contains MCP-compliant HTTP transport configuration
type HTTPConfig struct {
	Host           string        `yaml:"host" json:"host" toml:"host"`
	Port           int           `yaml:"port" json:"port" toml:"port"`
	SessionTimeout time.Duration `yaml:"session_timeout" json:"session_timeout" toml:"session_timeout"`
	MaxConnections int           `yaml:"max_connections" json:"max_connections" toml:"max_connections"`
	CORS           CORSConfig    `yaml:"cors" json:"cors" toml:"cors"`
}

// CORSConfig contains CORS configuration
type CORSConfig struct {
	Enabled bool     `yaml:"enabled" json:"enabled" toml:"enabled"`
	Origins []string `yaml:"origins" json:"origins" toml:"origins"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level" toml:"level"`
	Format string `yaml:"format" json:"format" toml:"format"`
	Output string `yaml:"output" json:"output" toml:"output"`
}

// CalculatorConfig contains evaluation defaults
type CalculatorConfig struct {
	AngleUnit           string `yaml:"angle_unit" json:"angle_unit" toml:"angle_unit"`
	MaxExpressionLength int    `yaml:"max_expression_length" json:"max_expression_length" toml:"max_expression_length"`
	HistoryLimit        int    `yaml:"history_limit" json:"history_limit" toml:"history_limit"`
}

// SecurityConfig contains security configuration
type SecurityConfig struct {
	RateLimiting     RateLimitingConfig `yaml:"rate_limiting" json:"rate_limiting" toml:"rate_limiting"`
	RequestSizeLimit string             `yaml:"request_size_limit" json:"request_size_limit" toml:"request_size_limit"`
}

// RateLimitingConfig contains rate limiting configuration
type RateLimitingConfig struct {
	Enabled           bool `yaml:"enabled" json:"enabled" toml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" json:"requests_per_minute" toml:"requests_per_minute"`
}

// Default returns a configuration with default values
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: "stdio",
			HTTP: HTTPConfig{
				Host:           "127.0.0.1", // Default to localhost for security
				Port:           8080,
				SessionTimeout: 5 * time.Minute,
				MaxConnections: 100,
				CORS: CORSConfig{
					Enabled: true,
					Origins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
				},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Calculator: CalculatorConfig{
			AngleUnit:           "radians",
			MaxExpressionLength: 1024,
			HistoryLimit:        100,
		},
		Security: SecurityConfig{
			RateLimiting: RateLimitingConfig{
				Enabled:           true,
				RequestsPerMinute: 100,
			},
			RequestSizeLimit: "1MB",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Transport != "stdio" && c.Server.Transport != "http" {
		return ErrInvalidTransport
	}

	if c.Server.HTTP.Port < 1 || c.Server.HTTP.Port > 65535 {
		return ErrInvalidPort
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrInvalidLogLevel
	}

	switch strings.ToLower(c.Calculator.AngleUnit) {
	case "radians", "rad", "degrees", "deg":
	default:
		return ErrInvalidAngleUnit
	}

	if c.Calculator.MaxExpressionLength < 1 {
		return ErrInvalidMaxExpressionLength
	}

	if c.Calculator.HistoryLimit < 1 {
		return ErrInvalidHistoryLimit
	}

	if c.Security.RateLimiting.RequestsPerMinute < 1 {
		return ErrInvalidRateLimit
	}

	if _, err := c.RequestSizeLimitBytes(); err != nil {
		return ErrInvalidRequestSizeLimit
	}

	return nil
}

// RequestSizeLimitBytes parses the human readable request size limit,
// e.g. "1MB" or "512 KiB".
func (c *Config) RequestSizeLimitBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Security.RequestSizeLimit)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrInvalidRequestSizeLimit
	}
	return int64(n), nil
}
