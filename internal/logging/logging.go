// Package logging configures the process-wide leveled logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"scientific-calculator/internal/config"

	"github.com/qiniu/log"
)

// Level maps a configured level name onto the logger's output level.
func Level(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.Ldebug, nil
	case "", "info":
		return log.Linfo, nil
	case "warn", "warning":
		return log.Lwarn, nil
	case "error":
		return log.Lerror, nil
	}
	return log.Linfo, fmt.Errorf("unknown log level %q", name)
}

// Setup applies cfg to the standard logger. The stdio transport owns
// stdout, so stdout output is redirected to stderr in that mode. The
// returned closer releases a log file, if one was opened.
func Setup(cfg config.LoggingConfig, transport string) (io.Closer, error) {
	level, err := Level(cfg.Level)
	if err != nil {
		return nil, err
	}

	out, closer, err := openOutput(cfg.Output, transport)
	if err != nil {
		return nil, err
	}

	flags := log.LstdFlags
	if strings.EqualFold(cfg.Format, "verbose") {
		flags |= log.Lshortfile
	}
	log.Std = log.New(out, "", flags)
	log.SetOutputLevel(level)
	return closer, nil
}

func openOutput(output, transport string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(output) {
	case "", "stderr":
		return os.Stderr, nopCloser{}, nil
	case "stdout":
		if transport == "stdio" {
			return os.Stderr, nopCloser{}, nil
		}
		return os.Stdout, nopCloser{}, nil
	}
	f, err := os.OpenFile(output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output %s: %w", output, err)
	}
	return f, f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
