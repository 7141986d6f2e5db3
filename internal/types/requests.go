package types

import (
	"encoding/json"
	"time"
)

// MCP Protocol Types
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Tool Types
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

type ListToolsResult struct {
	Tools []Tool `json:"tools"`
}

type CallToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

type CallToolResult struct {
	Content []ContentBlock `json:"content"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Calculator Request Types
type ExpressionRequest struct {
	Expression string `json:"expression"`
	Unit       string `json:"unit,omitempty"`
}

// UnaryRequest applies one scientific key to the displayed operand.
type UnaryRequest struct {
	Operation string `json:"operation"`
	Operand   string `json:"operand"`
	Unit      string `json:"unit,omitempty"`
}

type FormatRequest struct {
	Value float64 `json:"value"`
}

type AngleConversionRequest struct {
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

type HistoryRequest struct {
	Action string `json:"action,omitempty"`
}

// Response Types
type CalculationResult struct {
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
	Entry     string  `json:"entry,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

type HistoryResult struct {
	Entries []string `json:"entries"`
	Count   int      `json:"count"`
}

// MCP Session Management Types
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	Active    bool      `json:"active"`
}

type SessionError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
