package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loader handles configuration loading from various sources
type Loader struct {
	searchPaths []string
	getenv      func(string) string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			".",
			"./config",
			"/etc/scientific-calculator",
			"$HOME/.scientific-calculator",
		},
		getenv: os.Getenv,
	}
}

// AddSearchPath adds a path to search for configuration files
func (l *Loader) AddSearchPath(path string) {
	l.searchPaths = append(l.searchPaths, path)
}

// SetSearchPaths replaces the configured search paths.
func (l *Loader) SetSearchPaths(paths ...string) {
	l.searchPaths = paths
}

// Load loads configuration from file with the following priority:
// 1. Default configuration
// 2. Configuration file (if found)
// 3. Environment variables
// 4. Command line flags (handled by caller)
func (l *Loader) Load(configPath string) (*Config, error) {
	config := Default()

	var configFile string
	var err error

	if configPath != "" {
		configFile = configPath
	} else {
		configFile, err = l.findConfigFile()
		if err != nil && err != ErrConfigFileNotFound {
			return nil, fmt.Errorf("error finding config file: %w", err)
		}
	}

	if configFile != "" {
		fileConfig, err := l.loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", configFile, err)
		}
		mergeConfig(config, fileConfig)
	}

	l.loadFromEnvironment(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// findConfigFile searches for configuration files in predefined paths
func (l *Loader) findConfigFile() (string, error) {
	configNames := []string{
		"scientific-calculator.yaml",
		"scientific-calculator.yml",
		"scientific-calculator.json",
		"scientific-calculator.toml",
		"config.yaml",
		"config.yml",
		"config.json",
		"config.toml",
	}

	for _, searchPath := range l.searchPaths {
		expandedPath := os.Expand(searchPath, l.getenv)

		for _, configName := range configNames {
			configPath := filepath.Join(expandedPath, configName)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}
	}

	return "", ErrConfigFileNotFound
}

// loadFromFile loads configuration from a file (YAML, JSON or TOML)
func (l *Loader) loadFromFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}

	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, config); err != nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, ErrInvalidConfigFormat
			}
		}
	}

	return config, nil
}

// loadFromEnvironment overrides configuration with environment variables
func (l *Loader) loadFromEnvironment(config *Config) {
	// Server configuration
	if val := l.getenv("CALCULATOR_TRANSPORT"); val != "" {
		config.Server.Transport = val
	}
	if val := l.getenv("CALCULATOR_HTTP_HOST"); val != "" {
		config.Server.HTTP.Host = val
	}
	if val := l.getenv("CALCULATOR_HTTP_PORT"); val != "" {
		if port := parseInt(val, config.Server.HTTP.Port); port > 0 {
			config.Server.HTTP.Port = port
		}
	}

	// Logging configuration
	if val := l.getenv("CALCULATOR_LOG_LEVEL"); val != "" {
		config.Logging.Level = val
	}
	if val := l.getenv("CALCULATOR_LOG_FORMAT"); val != "" {
		config.Logging.Format = val
	}
	if val := l.getenv("CALCULATOR_LOG_OUTPUT"); val != "" {
		config.Logging.Output = val
	}

	// Calculator configuration
	if val := l.getenv("CALCULATOR_ANGLE_UNIT"); val != "" {
		config.Calculator.AngleUnit = val
	}
	if val := l.getenv("CALCULATOR_MAX_EXPRESSION_LENGTH"); val != "" {
		if n := parseInt(val, config.Calculator.MaxExpressionLength); n > 0 {
			config.Calculator.MaxExpressionLength = n
		}
	}
	if val := l.getenv("CALCULATOR_HISTORY_LIMIT"); val != "" {
		if n := parseInt(val, config.Calculator.HistoryLimit); n > 0 {
			config.Calculator.HistoryLimit = n
		}
	}

	// Security configuration
	if val := l.getenv("CALCULATOR_RATE_LIMIT_ENABLED"); val != "" {
		config.Security.RateLimiting.Enabled = parseBool(val, config.Security.RateLimiting.Enabled)
	}
	if val := l.getenv("CALCULATOR_REQUESTS_PER_MINUTE"); val != "" {
		if rpm := parseInt(val, config.Security.RateLimiting.RequestsPerMinute); rpm > 0 {
			config.Security.RateLimiting.RequestsPerMinute = rpm
		}
	}
	if val := l.getenv("CALCULATOR_REQUEST_SIZE_LIMIT"); val != "" {
		config.Security.RequestSizeLimit = val
	}
}

// mergeConfig merges source configuration into destination. Zero values in
// src leave dest untouched, except CORS.Enabled where false is meaningful.
func mergeConfig(dest, src *Config) {
	if src.Server.Transport != "" {
		dest.Server.Transport = src.Server.Transport
	}
	if src.Server.HTTP.Host != "" {
		dest.Server.HTTP.Host = src.Server.HTTP.Host
	}
	if src.Server.HTTP.Port != 0 {
		dest.Server.HTTP.Port = src.Server.HTTP.Port
	}

	dest.Server.HTTP.CORS.Enabled = src.Server.HTTP.CORS.Enabled
	if len(src.Server.HTTP.CORS.Origins) > 0 {
		dest.Server.HTTP.CORS.Origins = src.Server.HTTP.CORS.Origins
	}

	if src.Server.HTTP.SessionTimeout != 0 {
		dest.Server.HTTP.SessionTimeout = src.Server.HTTP.SessionTimeout
	}
	if src.Server.HTTP.MaxConnections != 0 {
		dest.Server.HTTP.MaxConnections = src.Server.HTTP.MaxConnections
	}

	if src.Logging.Level != "" {
		dest.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dest.Logging.Format = src.Logging.Format
	}
	if src.Logging.Output != "" {
		dest.Logging.Output = src.Logging.Output
	}

	if src.Calculator.AngleUnit != "" {
		dest.Calculator.AngleUnit = src.Calculator.AngleUnit
	}
	if src.Calculator.MaxExpressionLength != 0 {
		dest.Calculator.MaxExpressionLength = src.Calculator.MaxExpressionLength
	}
	if src.Calculator.HistoryLimit != 0 {
		dest.Calculator.HistoryLimit = src.Calculator.HistoryLimit
	}

	if src.Security.RateLimiting.RequestsPerMinute != 0 {
		dest.Security.RateLimiting.RequestsPerMinute = src.Security.RateLimiting.RequestsPerMinute
	}
	if src.Security.RequestSizeLimit != "" {
		dest.Security.RequestSizeLimit = src.Security.RequestSizeLimit
	}
}

// Helper functions for parsing environment variables
func parseInt(s string, defaultVal int) int {
	var result int
	if _, err := fmt.Sscanf(s, "%d", &result); err != nil {
		return defaultVal
	}
	return result
}

func parseBool(s string, defaultVal bool) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultVal
	}
}
