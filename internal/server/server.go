package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-studio-mcp/internal/config"
	"github.com/ironsheep/photo-studio-mcp/internal/editor"
	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
	"github.com/ironsheep/photo-studio-mcp/internal/removebg"
)

// Version is reported in the initialize handshake.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cfg      *config.Config
	log      logrus.FieldLogger
	loader   *imaging.Loader
	removebg *removebg.Client
	sessions *editor.Manager
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON-RPC error codes used by the server.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// New creates a server from cfg. A nil cfg uses config.Default and a nil log
// uses the standard logrus logger.
func New(cfg *config.Config, log logrus.FieldLogger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	loader := imaging.NewLoader(&http.Client{Timeout: cfg.HTTPTimeout()}, cfg.Loader.SiteBaseURL)
	loader.MaxBytes = cfg.MaxSourceBytes()
	loader.Log = log.WithField("component", "loader")

	bg := removebg.NewClient(cfg.RemoveBG.APIKey, loader)
	if cfg.RemoveBG.BaseURL != "" {
		bg.BaseURL = cfg.RemoveBG.BaseURL
	}
	if cfg.RemoveBG.Size != "" {
		bg.Size = cfg.RemoveBG.Size
	}
	bg.HTTP = &http.Client{Timeout: cfg.RemoveBGTimeout()}
	if cfg.RemoveBG.BatchSize > 0 {
		bg.BatchSize = cfg.RemoveBG.BatchSize
	}
	bg.BatchDelay = cfg.BatchDelay()
	bg.Log = log.WithField("component", "removebg")

	sessions := editor.NewManager(loader, log.WithField("component", "editor"))
	sessions.MaxSessions = cfg.Editor.MaxSessions
	sessions.IdleTimeout = cfg.IdleTimeout()
	sessions.MaxHistory = cfg.Editor.MaxHistory

	return &Server{
		cfg:      cfg,
		log:      log,
		loader:   loader,
		removebg: bg,
		sessions: sessions,
	}
}

// Run serves MCP over stdin and stdout until stdin is closed.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
// It returns when r is exhausted or ctx is cancelled.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Data URIs make requests large.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 64*1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.WithError(err).Warn("failed to parse request")
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.WithError(err).Error("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    codeMethodNotFound,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "photo-studio-mcp",
				"version": Version,
			},
		},
	}
}

