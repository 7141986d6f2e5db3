package mcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sort"

	"scientific-calculator/internal/types"

	jsoniter "github.com/json-iterator/go"
	"github.com/qiniu/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

const (
	ProtocolVersion = "2024-11-05"
	ServerName      = "scientific-calculator"
	ServerVersion   = "1.0.0"
)

type Server struct {
	tools   map[string]ToolHandler
	schemas map[string]ToolSchema
}

type ToolSchema struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

type ToolHandler func(params map[string]interface{}) (interface{}, error)

// ToolError lets a tool attach structured data to a failed call. The data
// is returned as the JSON-RPC error data instead of the plain error text.
type ToolError struct {
	Err  error
	Data map[string]interface{}
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// Transport defines the interface for different transport mechanisms
type Transport interface {
	Start() error
	Stop(ctx context.Context) error
}

// StdioTransport implements line-delimited JSON-RPC over a reader and writer
type StdioTransport struct {
	server *Server
	in     io.Reader
	out    io.Writer
}

// NewStdioTransport creates a stdio transport bound to os.Stdin and os.Stdout
func NewStdioTransport(server *Server) *StdioTransport {
	return NewStreamTransport(server, os.Stdin, os.Stdout)
}

// NewStreamTransport creates a line-delimited transport over arbitrary streams
func NewStreamTransport(server *Server, in io.Reader, out io.Writer) *StdioTransport {
	return &StdioTransport{server: server, in: in, out: out}
}

func NewServer() *Server {
	return &Server{
		tools:   make(map[string]ToolHandler),
		schemas: make(map[string]ToolSchema),
	}
}

func (s *Server) RegisterTool(name string, description string, inputSchema map[string]interface{}, handler ToolHandler) {
	s.tools[name] = handler
	s.schemas[name] = ToolSchema{
		Name:        name,
		Description: description,
		InputSchema: inputSchema,
	}
}

// ListTools returns the registered tools ordered by name
func (s *Server) ListTools() []types.Tool {
	tools := make([]types.Tool, 0, len(s.schemas))
	for _, schema := range s.schemas {
		tools = append(tools, types.Tool{
			Name:        schema.Name,
			Description: schema.Description,
			InputSchema: schema.InputSchema,
		})
	}
	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })
	return tools
}

func (s *Server) HandleRequest(req types.MCPRequest) types.MCPResponse {
	response := types.MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
	}

	switch req.Method {
	case "initialize":
		response.Result = map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    ServerName,
				"version": ServerVersion,
			},
		}
	case "tools/list":
		response.Result = types.ListToolsResult{Tools: s.ListTools()}
	case "tools/call":
		var params types.CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			response.Error = &types.MCPError{
				Code:    ErrorCodeInvalidParams,
				Message: "Invalid parameters",
				Data:    err.Error(),
			}
			return response
		}

		handler, exists := s.tools[params.Name]
		if !exists {
			response.Error = &types.MCPError{
				Code:    ErrorCodeMethodNotFound,
				Message: "Tool not found",
				Data:    params.Name,
			}
			return response
		}

		result, err := handler(params.Arguments)
		if err != nil {
			log.Debugf("tool %s failed: %v", params.Name, err)
			response.Error = &types.MCPError{
				Code:    ErrorCodeInternalError,
				Message: "Tool execution failed",
				Data:    errorData(err),
			}
			return response
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			response.Error = &types.MCPError{
				Code:    ErrorCodeInternalError,
				Message: "Failed to encode tool result",
				Data:    err.Error(),
			}
			return response
		}
		response.Result = types.CallToolResult{
			Content: []types.ContentBlock{
				{
					Type: "text",
					Text: string(resultJSON),
				},
			},
		}
	default:
		response.Error = &types.MCPError{
			Code:    ErrorCodeMethodNotFound,
			Message: "Method not found",
			Data:    req.Method,
		}
	}

	return response
}

func errorData(err error) interface{} {
	var te *ToolError
	if errors.As(err, &te) && te.Data != nil {
		return te.Data
	}
	return err.Error()
}

// Run starts the stdio transport
func (s *Server) Run() error {
	return NewStdioTransport(s).Start()
}

// Start implements the Transport interface; it returns when the input ends
func (st *StdioTransport) Start() error {
	scanner := bufio.NewScanner(st.in)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req types.MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			// Echo the ID back if the line is at least a JSON object
			var rawMap map[string]interface{}
			var responseID interface{}
			if json.Unmarshal(line, &rawMap) == nil {
				if id, exists := rawMap["id"]; exists {
					responseID = id
				}
			}

			st.writeResponse(types.MCPResponse{
				JSONRPC: "2.0",
				ID:      responseID,
				Error: &types.MCPError{
					Code:    ErrorCodeParseError,
					Message: "Parse error",
					Data:    err.Error(),
				},
			})
			continue
		}

		st.writeResponse(st.server.HandleRequest(req))
	}

	return scanner.Err()
}

// Stop implements the Transport interface for stdio transport
func (st *StdioTransport) Stop(ctx context.Context) error {
	return nil
}

func (st *StdioTransport) writeResponse(response types.MCPResponse) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		log.Errorf("Error marshaling response: %v", err)
		return
	}
	responseJSON = append(responseJSON, '\n')
	if _, err := st.out.Write(responseJSON); err != nil {
		log.Errorf("Error writing response: %v", err)
	}
}
