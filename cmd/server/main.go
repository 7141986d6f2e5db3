/*
Copyright 2025
SPDX-License-Identifier: Apache-2.0
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scientific-calculator/internal/config"
	"scientific-calculator/internal/handlers"
	"scientific-calculator/internal/logging"
	"scientific-calculator/pkg/mcp"

	"github.com/qiniu/log"
)

func main() {
	transport := flag.String("transport", "", "Transport method (stdio, http)")
	port := flag.Int("port", 0, "Port for HTTP transport")
	host := flag.String("host", "", "Host for HTTP transport")
	configPath := flag.String("config", "", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	angleUnit := flag.String("angle-unit", "", "Default angle unit (radians, degrees)")
	flag.Parse()

	loader := config.NewLoader()
	cfg, err := loader.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *transport != "" {
		cfg.Server.Transport = *transport
	}
	if *host != "" {
		cfg.Server.HTTP.Host = *host
	}
	if *port != 0 {
		cfg.Server.HTTP.Port = *port
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *angleUnit != "" {
		cfg.Calculator.AngleUnit = *angleUnit
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Logging, cfg.Server.Transport)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}
	defer logCloser.Close()

	server := mcp.NewServer()
	calcHandler := handlers.NewCalcHandler(handlers.Options{
		DefaultUnit:         cfg.Calculator.AngleUnit,
		MaxExpressionLength: cfg.Calculator.MaxExpressionLength,
		HistoryLimit:        cfg.Calculator.HistoryLimit,
	})
	handlers.RegisterTools(server, calcHandler)

	switch cfg.Server.Transport {
	case "stdio":
		log.Info("Starting calculator server with stdio transport...")
		if err := server.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case "http":
		startHTTPServerWithConfig(server, cfg)
	default:
		log.Fatalf("Unknown transport: %s", cfg.Server.Transport)
	}
}

func startHTTPServerWithConfig(server *mcp.Server, cfg *config.Config) {
	maxBytes, err := cfg.RequestSizeLimitBytes()
	if err != nil {
		log.Fatalf("Invalid request size limit: %v", err)
	}

	httpConfig := &mcp.StreamableHTTPConfig{
		Host:            cfg.Server.HTTP.Host,
		Port:            cfg.Server.HTTP.Port,
		SessionTimeout:  cfg.Server.HTTP.SessionTimeout,
		MaxConnections:  cfg.Server.HTTP.MaxConnections,
		CORSEnabled:     cfg.Server.HTTP.CORS.Enabled,
		CORSOrigins:     cfg.Server.HTTP.CORS.Origins,
		MaxRequestBytes: maxBytes,
	}
	if cfg.Security.RateLimiting.Enabled {
		httpConfig.RequestsPerMinute = cfg.Security.RateLimiting.RequestsPerMinute
	}

	httpTransport := mcp.NewStreamableHTTPTransport(server, httpConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("Starting calculator server with MCP streamable HTTP transport on %s:%d...",
			cfg.Server.HTTP.Host, cfg.Server.HTTP.Port)

		if err := httpTransport.Start(); err != nil {
			log.Errorf("HTTP server error: %v", err)
		}
		cancel()
	}()

	select {
	case <-c:
		log.Info("Received shutdown signal...")
	case <-ctx.Done():
		log.Info("Server context cancelled...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpTransport.Stop(shutdownCtx); err != nil {
		log.Errorf("Error during shutdown: %v", err)
	} else {
		log.Info("Server shut down gracefully")
	}
}
