package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_resize_plan",
		"image_multi_resize",
		"image_register_size_info",
		"image_list_filters",
	}

	if len(tools) != len(expectedTools) {
		t.Fatalf("GetToolDefinitions returned %d tools, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			if _, ok := tool.InputSchema["properties"].(map[string]interface{}); !ok {
				t.Error("InputSchema properties should be a map")
			}
		})
	}
}

func TestToolDefinitions_Required(t *testing.T) {
	tests := []struct {
		tool     string
		required []string
	}{
		{"image_load", []string{"path"}},
		{"image_dimensions", []string{"path"}},
		{"image_multi_resize", []string{"path"}},
		{"image_register_size_info", []string{"name"}},
		{"image_resize_plan", nil},
		{"image_list_filters", nil},
	}

	toolMap := make(map[string]Tool)
	for _, tool := range GetToolDefinitions() {
		toolMap[tool.Name] = tool
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool := toolMap[tt.tool]
			got, _ := tool.InputSchema["required"].([]string)
			if len(got) != len(tt.required) {
				t.Fatalf("required: got %v, want %v", got, tt.required)
			}
			props := tool.InputSchema["properties"].(map[string]interface{})
			for i, name := range tt.required {
				if got[i] != name {
					t.Errorf("required[%d]: got %s, want %s", i, got[i], name)
				}
				if _, ok := props[name]; !ok {
					t.Errorf("required field %s missing from properties", name)
				}
			}
		})
	}
}

func TestToolDefinitions_CropAcceptsBoolOrAnchors(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "image_resize_plan" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		crop, ok := props["crop"].(map[string]interface{})
		if !ok {
			t.Fatal("crop property missing")
		}
		variants, ok := crop["oneOf"].([]interface{})
		if !ok || len(variants) != 2 {
			t.Fatalf("crop oneOf: got %v", crop["oneOf"])
		}
		if crop["default"] != false {
			t.Errorf("crop default: got %v, want false", crop["default"])
		}
		return
	}
	t.Fatal("image_resize_plan not defined")
}

func TestHandleToolsList(t *testing.T) {
	s := New(Options{})
	resp := s.handleToolsList(&MCPRequest{JSONRPC: "2.0", ID: "list-1"})

	if resp.ID != "list-1" {
		t.Errorf("ID: got %v, want list-1", resp.ID)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if tools, ok := result["tools"].([]Tool); !ok || len(tools) == 0 {
		t.Error("tools should be a non-empty slice of Tool")
	}
}
