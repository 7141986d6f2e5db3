// Package mcp implements the Model Context Protocol (MCP) server functionality.
// This file contains the streamable HTTP transport: a single /mcp endpoint
// serving JSON-RPC over POST and Server-Sent Events over GET.
package mcp

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"scientific-calculator/internal/types"

	"github.com/google/uuid"
	"github.com/qiniu/log"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"
)

// StreamableHTTPTransport implements MCP-compliant streamable HTTP transport.
// It provides:
// - Single /mcp endpoint
// - Server-Sent Events (SSE) streaming support
// - Session management with random UUID session IDs
// - CORS support with origin validation
// - Request size and request rate limits
// - Graceful shutdown
type StreamableHTTPTransport struct {
	server      *http.Server
	mcpServer   *Server
	config      *StreamableHTTPConfig
	limiter     *rate.Limiter
	sessions    map[string]*types.Session
	sessionsMux sync.RWMutex
	done        chan struct{}
	stopOnce    sync.Once
}

// StreamableHTTPConfig contains HTTP transport configuration
type StreamableHTTPConfig struct {
	Host              string        // Server host (defaults to 127.0.0.1)
	Port              int           // Server port
	SessionTimeout    time.Duration // How long sessions remain active without activity
	MaxConnections    int           // Maximum concurrent connections, 0 for no limit
	CORSEnabled       bool
	CORSOrigins       []string
	MaxRequestBytes   int64 // Request body limit, 0 for no limit
	RequestsPerMinute int   // Rate limit across all clients, 0 for no limit
}

// NewStreamableHTTPTransport creates a new HTTP transport instance and starts
// the background session cleanup.
func NewStreamableHTTPTransport(mcpServer *Server, config *StreamableHTTPConfig) *StreamableHTTPTransport {
	if config == nil {
		config = &StreamableHTTPConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			SessionTimeout: 5 * time.Minute,
			MaxConnections: 100,
			CORSEnabled:    true,
			CORSOrigins:    []string{"*"},
		}
	}

	transport := &StreamableHTTPTransport{
		mcpServer: mcpServer,
		config:    config,
		sessions:  make(map[string]*types.Session),
		done:      make(chan struct{}),
	}
	if config.RequestsPerMinute > 0 {
		perSecond := rate.Limit(float64(config.RequestsPerMinute) / 60)
		transport.limiter = rate.NewLimiter(perSecond, config.RequestsPerMinute)
	}

	mux := http.NewServeMux()
	transport.setupRoutes(mux)

	transport.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:           transport.corsMiddleware(transport.rateLimitMiddleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go transport.cleanupExpiredSessions()

	return transport
}

// Handler returns the transport's root HTTP handler
func (t *StreamableHTTPTransport) Handler() http.Handler {
	return t.server.Handler
}

func (t *StreamableHTTPTransport) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/mcp", t.handleMCP)
}

// corsMiddleware adds CORS headers if enabled and answers preflight requests
func (t *StreamableHTTPTransport) corsMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if t.config.CORSEnabled {
			origin := r.Header.Get("Origin")
			if t.isOriginAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, MCP-Protocol-Version, Mcp-Session-Id")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		handler.ServeHTTP(w, r)
	})
}

func (t *StreamableHTTPTransport) rateLimitMiddleware(handler http.Handler) http.Handler {
	if t.limiter == nil {
		return handler
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}
		handler.ServeHTTP(w, r)
	})
}

func (t *StreamableHTTPTransport) isOriginAllowed(origin string) bool {
	for _, allowed := range t.config.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// handleMCP is the entry point for all MCP interactions
func (t *StreamableHTTPTransport) handleMCP(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("MCP-Protocol-Version") == "" {
		http.Error(w, "MCP-Protocol-Version header required", http.StatusBadRequest)
		return
	}

	sessionID := r.Header.Get("Mcp-Session-Id")
	if sessionID != "" {
		if !t.isValidSession(sessionID) {
			http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
			return
		}
		t.updateSessionActivity(sessionID)
	}

	switch r.Method {
	case http.MethodPost:
		t.handlePOST(w, r, sessionID)
	case http.MethodGet:
		t.handleGET(w, r, sessionID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePOST processes a JSON-RPC request, answering with JSON or a single
// SSE event depending on the Accept header
func (t *StreamableHTTPTransport) handlePOST(w http.ResponseWriter, r *http.Request, sessionID string) {
	accept := r.Header.Get("Accept")
	if !strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/event-stream") {
		http.Error(w, "Accept header must include application/json or text/event-stream", http.StatusBadRequest)
		return
	}

	body := r.Body
	if t.config.MaxRequestBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, t.config.MaxRequestBytes)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusRequestEntityTooLarge)
		return
	}

	var mcpReq types.MCPRequest
	if err := json.Unmarshal(data, &mcpReq); err != nil {
		t.writeErrorResponse(w, nil, ErrorCodeParseError, "Invalid JSON-RPC request", err.Error())
		return
	}

	response := t.mcpServer.HandleRequest(mcpReq)

	if strings.Contains(accept, "text/event-stream") && t.shouldStream(&mcpReq) {
		t.writeSSEResponse(w, response, sessionID)
	} else {
		t.writeJSONResponse(w, response)
	}
}

// handleGET establishes an SSE stream, creating a session if needed
func (t *StreamableHTTPTransport) handleGET(w http.ResponseWriter, r *http.Request, sessionID string) {
	if !strings.Contains(r.Header.Get("Accept"), "text/event-stream") {
		http.Error(w, "Accept header must include text/event-stream for GET requests", http.StatusBadRequest)
		return
	}

	if sessionID == "" {
		sessionID = t.createSession()
		log.Infof("Created new session: %s", sessionID)
	}

	t.setupSSEStream(w, r, sessionID)
}

func (t *StreamableHTTPTransport) shouldStream(req *types.MCPRequest) bool {
	return req.Method == "tools/call"
}

func (t *StreamableHTTPTransport) writeSSEResponse(w http.ResponseWriter, response types.MCPResponse, sessionID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	if sessionID != "" {
		w.Header().Set("Mcp-Session-Id", sessionID)
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Server does not support streaming", http.StatusInternalServerError)
		return
	}

	responseJSON, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "id: %s\n", t.generateEventID())
	fmt.Fprintf(w, "event: message\n")
	fmt.Fprintf(w, "data: %s\n\n", responseJSON)
	flusher.Flush()
}

func (t *StreamableHTTPTransport) setupSSEStream(w http.ResponseWriter, r *http.Request, sessionID string) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Mcp-Session-Id", sessionID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Server does not support streaming", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "id: %s\n", t.generateEventID())
	fmt.Fprintf(w, "event: connection\n")
	fmt.Fprintf(w, "data: {\"type\":\"connected\",\"session_id\":\"%s\"}\n\n", sessionID)
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-ticker.C:
			fmt.Fprintf(w, "id: %s\n", t.generateEventID())
			fmt.Fprintf(w, "event: heartbeat\n")
			fmt.Fprintf(w, "data: {\"type\":\"ping\"}\n\n")
			flusher.Flush()
		}
	}
}

// writeJSONResponse maps JSON-RPC error codes to HTTP status codes
func (t *StreamableHTTPTransport) writeJSONResponse(w http.ResponseWriter, response types.MCPResponse) {
	w.Header().Set("Content-Type", "application/json")

	statusCode := http.StatusOK
	if response.Error != nil {
		switch response.Error.Code {
		case ErrorCodeParseError, ErrorCodeInvalidRequest, ErrorCodeInvalidParams:
			statusCode = http.StatusBadRequest
		case ErrorCodeMethodNotFound:
			statusCode = http.StatusNotFound
		default:
			statusCode = http.StatusInternalServerError
		}
	}

	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Warnf("Failed to write response: %v", err)
	}
}

func (t *StreamableHTTPTransport) writeErrorResponse(w http.ResponseWriter, id interface{}, code int, message, data string) {
	t.writeJSONResponse(w, types.MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &types.MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

// createSession registers a new session under a random UUID
func (t *StreamableHTTPTransport) createSession() string {
	sessionID := uuid.NewString()
	now := time.Now()

	t.sessionsMux.Lock()
	defer t.sessionsMux.Unlock()

	t.sessions[sessionID] = &types.Session{
		ID:        sessionID,
		CreatedAt: now,
		LastSeen:  now,
		Active:    true,
	}

	return sessionID
}

func (t *StreamableHTTPTransport) isValidSession(sessionID string) bool {
	t.sessionsMux.RLock()
	defer t.sessionsMux.RUnlock()

	session, exists := t.sessions[sessionID]
	if !exists || !session.Active {
		return false
	}
	return time.Since(session.LastSeen) <= t.config.SessionTimeout
}

func (t *StreamableHTTPTransport) updateSessionActivity(sessionID string) {
	t.sessionsMux.Lock()
	defer t.sessionsMux.Unlock()

	if session, exists := t.sessions[sessionID]; exists {
		session.LastSeen = time.Now()
	}
}

// SessionCount returns the number of tracked sessions
func (t *StreamableHTTPTransport) SessionCount() int {
	t.sessionsMux.RLock()
	defer t.sessionsMux.RUnlock()
	return len(t.sessions)
}

// cleanupExpiredSessions removes expired sessions every minute until Stop
func (t *StreamableHTTPTransport) cleanupExpiredSessions() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-t.done:
			return
		case now := <-ticker.C:
			t.removeExpiredSessions(now)
		}
	}
}

func (t *StreamableHTTPTransport) removeExpiredSessions(now time.Time) {
	t.sessionsMux.Lock()
	defer t.sessionsMux.Unlock()

	for id, session := range t.sessions {
		if now.Sub(session.LastSeen) > t.config.SessionTimeout {
			delete(t.sessions, id)
			log.Debugf("Cleaned up expired session: %s", id)
		}
	}
}

func (t *StreamableHTTPTransport) generateEventID() string {
	return uuid.NewString()
}

// Start listens on the configured address and serves until Stop. The
// listener is capped at MaxConnections concurrent connections.
func (t *StreamableHTTPTransport) Start() error {
	ln, err := net.Listen("tcp", t.server.Addr)
	if err != nil {
		return err
	}
	if t.config.MaxConnections > 0 {
		ln = netutil.LimitListener(ln, t.config.MaxConnections)
	}

	log.Infof("Starting MCP streamable HTTP server on %s", t.server.Addr)
	if err := t.server.Serve(ln); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the HTTP server
func (t *StreamableHTTPTransport) Stop(ctx context.Context) error {
	log.Info("Shutting down MCP streamable HTTP server...")
	t.stopOnce.Do(func() { close(t.done) })
	return t.server.Shutdown(ctx)
}

// GetAddr returns the server address
func (t *StreamableHTTPTransport) GetAddr() string {
	return t.server.Addr
}
