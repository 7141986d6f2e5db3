package logging

import (
	"os"
	"path/filepath"
	"testing"

	"scientific-calculator/internal/config"

	"github.com/qiniu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	testCases := []struct {
		name     string
		expected int
	}{
		{"debug", log.Ldebug},
		{"", log.Linfo},
		{"info", log.Linfo},
		{"INFO", log.Linfo},
		{"warn", log.Lwarn},
		{"warning", log.Lwarn},
		{"error", log.Lerror},
	}

	for _, tc := range testCases {
		level, err := Level(tc.name)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.expected, level, tc.name)
	}

	_, err := Level("trace")
	assert.Error(t, err)
}

func TestOpenOutput(t *testing.T) {
	out, _, err := openOutput("stderr", "http")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, out)

	out, _, err = openOutput("stdout", "http")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, out)

	// stdout carries protocol frames in stdio mode
	out, _, err = openOutput("stdout", "stdio")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, out)
}

func TestSetupWritesToFile(t *testing.T) {
	saved := log.Std
	defer func() { log.Std = saved }()

	path := filepath.Join(t.TempDir(), "calculator.log")
	closer, err := Setup(config.LoggingConfig{Level: "warn", Format: "text", Output: path}, "http")
	require.NoError(t, err)

	log.Info("hidden below warn")
	log.Warn("visible warning")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "visible warning")
	assert.NotContains(t, string(data), "hidden below warn")
}

func TestSetupRejectsBadInput(t *testing.T) {
	_, err := Setup(config.LoggingConfig{Level: "loud"}, "stdio")
	assert.Error(t, err)

	_, err = Setup(config.LoggingConfig{Level: "info", Output: filepath.Join(t.TempDir(), "missing", "x.log")}, "stdio")
	assert.Error(t, err)
}
