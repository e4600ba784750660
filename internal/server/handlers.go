package server

import (
	"context"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/ironsheep/image-variants/internal/imaging"
	"github.com/ironsheep/image-variants/internal/sizes"
	"github.com/ironsheep/image-variants/internal/storage"
	"github.com/ironsheep/image-variants/internal/variants"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_multi_resize").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments jsoniter.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args jsoniter.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = jsoniter.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_resize_plan":
		return s.handleImageResizePlan(args)
	case "image_multi_resize":
		return s.handleImageMultiResize(args)
	case "image_register_size_info":
		return s.handleImageRegisterSizeInfo(args)
	case "image_list_filters":
		return s.handleImageListFilters(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args jsoniter.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args jsoniter.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Geometry Handlers ===

type imageResizePlanArgs struct {
	Path       string       `json:"path,omitempty"`
	Width      int          `json:"width,omitempty"`
	Height     int          `json:"height,omitempty"`
	DestWidth  int          `json:"dest_width,omitempty"`
	DestHeight int          `json:"dest_height,omitempty"`
	Crop       imaging.Crop `json:"crop"`
	Zoom       float64      `json:"zoom,omitempty"`
}

// ResizePlanResult reports the geometry for one resize. Plan is nil when the
// resize would be skipped.
type ResizePlanResult struct {
	Skip bool          `json:"skip"`
	Plan *imaging.Plan `json:"plan,omitempty"`
}

func (s *Server) handleImageResizePlan(args jsoniter.RawMessage) (interface{}, error) {
	var a imageResizePlanArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	if a.Path != "" {
		dims, err := imaging.GetDimensions(s.cache, a.Path)
		if err != nil {
			return nil, err
		}
		a.Width, a.Height = dims.Width, dims.Height
	}
	if a.Width <= 0 || a.Height <= 0 {
		return nil, fmt.Errorf("either path or a positive width and height is required")
	}
	if a.DestWidth <= 0 && a.DestHeight <= 0 {
		return nil, sizes.ErrInvalidSpec
	}
	if a.Zoom == 0 {
		a.Zoom = 1
	}

	plan, ok := imaging.ResolveDimensions(a.Width, a.Height, a.DestWidth, a.DestHeight, a.Crop, a.Zoom)
	if !ok {
		return &ResizePlanResult{Skip: true}, nil
	}
	return &ResizePlanResult{Plan: &plan}, nil
}

// === Variant Handlers ===

type imageMultiResizeArgs struct {
	Path      string        `json:"path"`
	Sizes     []sizes.Entry `json:"sizes,omitempty"`
	OutputDir string        `json:"output_dir,omitempty"`
}

// MultiResizeResult holds the produced variants keyed by size name.
type MultiResizeResult struct {
	Sizes map[string]variants.Metadata `json:"sizes"`
	Count int                          `json:"count"`
}

func (s *Server) handleImageMultiResize(args jsoniter.RawMessage) (interface{}, error) {
	var a imageMultiResizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	catalog := s.catalog
	if len(a.Sizes) > 0 {
		catalog = sizes.Catalog(a.Sizes)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("no sizes given and no catalog configured")
	}

	saver := s.saver
	if a.OutputDir != "" {
		local, err := storage.NewLocalSaver(a.OutputDir)
		if err != nil {
			return nil, err
		}
		saver = local
	}
	if saver == nil {
		return nil, errors.New("output_dir is required when no output backend is configured")
	}

	editor, err := s.cache.Editor(a.Path, imaging.EditorOptions{
		Sampler: s.sampler,
		Filters: s.filters,
		Saver:   saver,
		Logger:  s.logger,
		Quality: s.quality,
	})
	if err != nil {
		return nil, err
	}

	produced := s.pipeline.MultiResize(context.Background(), editor, catalog)
	return &MultiResizeResult{Sizes: produced, Count: len(produced)}, nil
}

type imageRegisterSizeInfoArgs struct {
	Name string `json:"name"`
	sizes.Info
}

// RegisterSizeInfoResult echoes the merged info now stored for a size.
type RegisterSizeInfoResult struct {
	Name string     `json:"name"`
	Info sizes.Info `json:"info"`
}

func (s *Server) handleImageRegisterSizeInfo(args jsoniter.RawMessage) (interface{}, error) {
	var a imageRegisterSizeInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if err := s.registry.Register(a.Name, a.Info); err != nil {
		return nil, err
	}
	return &RegisterSizeInfoResult{Name: a.Name, Info: s.registry.Info(a.Name)}, nil
}

// FiltersResult lists the filter names and sampling engines available.
type FiltersResult struct {
	Filters []string `json:"filters"`
	Engines []string `json:"engines"`
}

func (s *Server) handleImageListFilters(args jsoniter.RawMessage) (interface{}, error) {
	return &FiltersResult{
		Filters: s.filters.Names(),
		Engines: imaging.SamplerEngines(),
	}, nil
}
