package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "stdio", cfg.Server.Transport)
	assert.Equal(t, "127.0.0.1", cfg.Server.HTTP.Host)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.HTTP.SessionTimeout)
	assert.True(t, cfg.Server.HTTP.CORS.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.Server.HTTP.CORS.Origins)
	assert.Equal(t, "radians", cfg.Calculator.AngleUnit)
	assert.Equal(t, 1024, cfg.Calculator.MaxExpressionLength)
	assert.Equal(t, 100, cfg.Calculator.HistoryLimit)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"Valid default config", func(*Config) {}, nil},
		{"Invalid transport", func(c *Config) { c.Server.Transport = "invalid" }, ErrInvalidTransport},
		{"Invalid port - too low", func(c *Config) { c.Server.HTTP.Port = 0 }, ErrInvalidPort},
		{"Invalid port - too high", func(c *Config) { c.Server.HTTP.Port = 70000 }, ErrInvalidPort},
		{"Invalid log level", func(c *Config) { c.Logging.Level = "verbose" }, ErrInvalidLogLevel},
		{"Degrees accepted", func(c *Config) { c.Calculator.AngleUnit = "degrees" }, nil},
		{"Invalid angle unit", func(c *Config) { c.Calculator.AngleUnit = "gradians" }, ErrInvalidAngleUnit},
		{"Invalid max expression length", func(c *Config) { c.Calculator.MaxExpressionLength = 0 }, ErrInvalidMaxExpressionLength},
		{"Invalid history limit", func(c *Config) { c.Calculator.HistoryLimit = -1 }, ErrInvalidHistoryLimit},
		{"Invalid rate limit", func(c *Config) { c.Security.RateLimiting.RequestsPerMinute = 0 }, ErrInvalidRateLimit},
		{"Invalid request size", func(c *Config) { c.Security.RequestSizeLimit = "lots" }, ErrInvalidRequestSizeLimit},
		{"Zero request size", func(c *Config) { c.Security.RequestSizeLimit = "0B" }, ErrInvalidRequestSizeLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRequestSizeLimitBytes(t *testing.T) {
	for limit, expected := range map[string]int64{
		"1MB":     1000000,
		"1 MiB":   1048576,
		"512 KiB": 524288,
		"2048":    2048,
	} {
		cfg := Default()
		cfg.Security.RequestSizeLimit = limit
		n, err := cfg.RequestSizeLimitBytes()
		require.NoError(t, err, limit)
		assert.Equal(t, expected, n, limit)
	}
}

func newTestLoader(env map[string]string) *Loader {
	l := NewLoader()
	l.SetSearchPaths()
	l.getenv = func(key string) string { return env[key] }
	return l
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := newTestLoader(nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scientific-calculator.yaml")
	content := `
server:
  transport: http
  http:
    host: 0.0.0.0
    port: 9090
    session_timeout: 10m
    cors:
      enabled: true
      origins: ["https://calc.example.com"]
logging:
  level: debug
calculator:
  angle_unit: degrees
  max_expression_length: 256
  history_limit: 20
security:
  request_size_limit: 64KB
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := newTestLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Server.HTTP.Host)
	assert.Equal(t, 9090, cfg.Server.HTTP.Port)
	assert.Equal(t, 10*time.Minute, cfg.Server.HTTP.SessionTimeout)
	assert.Equal(t, []string{"https://calc.example.com"}, cfg.Server.HTTP.CORS.Origins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "degrees", cfg.Calculator.AngleUnit)
	assert.Equal(t, 256, cfg.Calculator.MaxExpressionLength)
	assert.Equal(t, 20, cfg.Calculator.HistoryLimit)
	assert.Equal(t, 100, cfg.Security.RateLimiting.RequestsPerMinute)
	assert.Equal(t, "64KB", cfg.Security.RequestSizeLimit)
}

func TestLoadJSONFileFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	content := `{"server": {"http": {"port": 8181, "cors": {"enabled": false}}}, "calculator": {"angle_unit": "deg"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0o644))

	l := newTestLoader(nil)
	l.AddSearchPath(dir)

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.Server.HTTP.Port)
	assert.False(t, cfg.Server.HTTP.CORS.Enabled)
	assert.Equal(t, "deg", cfg.Calculator.AngleUnit)
	assert.Equal(t, "stdio", cfg.Server.Transport)
}

func TestSearchPathExpandsEnvironment(t *testing.T) {
	home := t.TempDir()
	confDir := filepath.Join(home, ".scientific-calculator")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte("calculator:\n  history_limit: 5\n"), 0o644))

	l := newTestLoader(map[string]string{"HOME": home})
	l.SetSearchPaths("$HOME/.scientific-calculator")

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Calculator.HistoryLimit)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unterminated"), 0o644))

	_, err := newTestLoader(nil).Load(path)
	assert.Error(t, err)

	_, err = newTestLoader(nil).Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverrides(t *testing.T) {
	env := map[string]string{
		"CALCULATOR_TRANSPORT":             "http",
		"CALCULATOR_HTTP_HOST":             "0.0.0.0",
		"CALCULATOR_HTTP_PORT":             "9999",
		"CALCULATOR_LOG_LEVEL":             "warn",
		"CALCULATOR_ANGLE_UNIT":            "degrees",
		"CALCULATOR_MAX_EXPRESSION_LENGTH": "64",
		"CALCULATOR_HISTORY_LIMIT":         "not-a-number",
		"CALCULATOR_RATE_LIMIT_ENABLED":    "off",
		"CALCULATOR_REQUESTS_PER_MINUTE":   "30",
		"CALCULATOR_REQUEST_SIZE_LIMIT":    "2 MiB",
	}

	cfg, err := newTestLoader(env).Load("")
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, "0.0.0.0", cfg.Server.HTTP.Host)
	assert.Equal(t, 9999, cfg.Server.HTTP.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "degrees", cfg.Calculator.AngleUnit)
	assert.Equal(t, 64, cfg.Calculator.MaxExpressionLength)
	assert.Equal(t, 100, cfg.Calculator.HistoryLimit)
	assert.False(t, cfg.Security.RateLimiting.Enabled)
	assert.Equal(t, 30, cfg.Security.RateLimiting.RequestsPerMinute)

	n, err := cfg.RequestSizeLimitBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2*1024*1024), n)
}

func TestEnvironmentOverridesAreValidated(t *testing.T) {
	_, err := newTestLoader(map[string]string{"CALCULATOR_ANGLE_UNIT": "turns"}).Load("")
	assert.ErrorIs(t, err, ErrInvalidAngleUnit)
}

func TestProcessEnvironment(t *testing.T) {
	t.Setenv("CALCULATOR_LOG_LEVEL", "error")

	l := NewLoader()
	l.SetSearchPaths()
	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scientific-calculator.toml")
	content := `
[server]
transport = "http"

[server.http]
port = 7070
session_timeout = "90s"

[server.http.cors]
enabled = true

[calculator]
angle_unit = "degrees"
history_limit = 50

[security.rate_limiting]
enabled = true
requests_per_minute = 600
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := newTestLoader(nil).Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http", cfg.Server.Transport)
	assert.Equal(t, 7070, cfg.Server.HTTP.Port)
	assert.Equal(t, 90*time.Second, cfg.Server.HTTP.SessionTimeout)
	assert.Equal(t, "degrees", cfg.Calculator.AngleUnit)
	assert.Equal(t, 50, cfg.Calculator.HistoryLimit)
	assert.Equal(t, 600, cfg.Security.RateLimiting.RequestsPerMinute)
	assert.Equal(t, "1MB", cfg.Security.RequestSizeLimit)
}
