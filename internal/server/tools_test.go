package server

import (
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"mosaic_layout",
		"mosaic_tile_colors",
		"mosaic_build",
		"color_key",
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
	if len(tools) != len(expectedTools) {
		t.Errorf("Expected %d tools, got %d", len(expectedTools), len(tools))
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

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok {
				t.Fatal("InputSchema properties should be a map")
			}

			// Every required field must be declared
			required, _ := tool.InputSchema["required"].([]string)
			for _, field := range required {
				if _, ok := props[field]; !ok {
					t.Errorf("required field %s missing from properties", field)
				}
			}
		})
	}
}

func TestToolDefinitions_TileOverrides(t *testing.T) {
	for _, name := range []string{"mosaic_layout", "mosaic_tile_colors", "mosaic_build"} {
		t.Run(name, func(t *testing.T) {
			var tool *Tool
			for _, candidate := range GetToolDefinitions() {
				if candidate.Name == name {
					tool = &candidate
					break
				}
			}
			if tool == nil {
				t.Fatalf("tool %s not found", name)
			}

			props := tool.InputSchema["properties"].(map[string]interface{})
			for _, field := range []string{"path", "tile_width", "tile_height"} {
				if _, ok := props[field]; !ok {
					t.Errorf("property %s missing", field)
				}
			}
		})
	}
}
