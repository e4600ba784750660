package server

import (
	"bufio"
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/ironsheep/image-variants/internal/imaging"
	"github.com/ironsheep/image-variants/internal/sizes"
	"github.com/ironsheep/image-variants/internal/storage"
	"github.com/ironsheep/image-variants/internal/variants"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Version is reported in the initialize handshake.
var Version = "dev"

// Server handles MCP protocol communication
type Server struct {
	cache    *imaging.ImageCache
	registry *sizes.Registry
	catalog  sizes.Catalog
	filters  *imaging.FilterSet
	sampler  imaging.Sampler
	saver    storage.Saver
	quality  int
	pipeline *variants.Pipeline
	logger   *zap.Logger
}

// Options wires the server's collaborators. Zero values fall back to
// defaults: an empty registry and catalog, the built-in filters, the imaging
// sampler, no saver (callers must then pass output_dir) and a no-op logger.
type Options struct {
	Registry *sizes.Registry
	Catalog  sizes.Catalog
	Filters  *imaging.FilterSet
	Sampler  imaging.Sampler
	Saver    storage.Saver
	Quality  int
	Logger   *zap.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string              `json:"jsonrpc"`
	ID      interface{}         `json:"id"`
	Method  string              `json:"method"`
	Params  jsoniter.RawMessage `json:"params,omitempty"`
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

// New creates a new MCP server instance
func New(opts Options) *Server {
	if opts.Registry == nil {
		opts.Registry = sizes.NewRegistry()
	}
	if opts.Filters == nil {
		opts.Filters = imaging.DefaultFilters()
	}
	if opts.Sampler == nil {
		opts.Sampler, _ = imaging.NewSampler(imaging.EngineImaging)
	}
	if opts.Quality == 0 {
		opts.Quality = storage.DefaultQuality
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Server{
		cache:    imaging.NewImageCache(),
		registry: opts.Registry,
		catalog:  opts.Catalog,
		filters:  opts.Filters,
		sampler:  opts.Sampler,
		saver:    opts.Saver,
		quality:  opts.Quality,
		pipeline: variants.New(opts.Registry, opts.Logger),
		logger:   opts.Logger,
	}
}

// Run serves MCP requests from stdin, writing responses to stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("failed to parse request", zap.Error(err))
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("failed to encode response", zap.Error(err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
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
				Code:    -32601,
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
				"name":    "image-variants",
				"version": Version,
			},
		},
	}
}
