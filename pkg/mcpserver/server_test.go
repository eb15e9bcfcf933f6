package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/castwise/foundry/pkg/tools"
)

func testRegistry() *tools.Registry {
	return tools.NewRegistry(
		tools.NewPredictInvoker("", nil, 0, true),
		tools.NewAnalyzeInvoker("", nil, 0, true),
		tools.NewSearchInvoker("", nil, 0, true),
	)
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var request mcp.CallToolRequest
	request.Params.Arguments = args
	return request
}

func TestToolHandlerPredict(t *testing.T) {
	handler := toolHandler(testRegistry(), "predict_quality")

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"features": map[string]interface{}{"molten_temp": 650.0},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %+v", result)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", result.Content[0])
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if _, ok := payload["prediction"]; !ok {
		t.Errorf("payload = %v", payload)
	}
}

func TestToolHandlerErrorResult(t *testing.T) {
	handler := toolHandler(testRegistry(), "search_knowledge_base")

	// Missing query produces an error-shaped result, which surfaces as an
	// MCP tool error rather than a Go error.
	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected MCP tool error for missing query")
	}
}

func TestNewRegistersCatalog(t *testing.T) {
	s, err := New("foundry", "test", testRegistry(), tools.Catalog())
	if err != nil {
		t.Fatal(err)
	}
	if s.mcpServer == nil {
		t.Fatal("mcp server not initialized")
	}
}

func TestCatalogToolCarriesInputSchema(t *testing.T) {
	for _, spec := range tools.Catalog() {
		tool, err := catalogTool(spec)
		if err != nil {
			t.Fatalf("%s: %v", spec.Name, err)
		}
		if len(tool.RawInputSchema) == 0 {
			t.Fatalf("%s: empty input schema", spec.Name)
		}
		var schema struct {
			Type       string                     `json:"type"`
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		if err := json.Unmarshal(tool.RawInputSchema, &schema); err != nil {
			t.Fatalf("%s: schema is not JSON: %v", spec.Name, err)
		}
		if schema.Type != "object" {
			t.Errorf("%s: schema type = %q", spec.Name, schema.Type)
		}
		if len(schema.Properties) == 0 {
			t.Errorf("%s: schema advertises no parameters", spec.Name)
		}
	}
}

func TestPredictSchemaRequiresFeatures(t *testing.T) {
	for _, cs := range tools.Catalog() {
		if cs.Name != "predict_quality" {
			continue
		}
		tool, err := catalogTool(cs)
		if err != nil {
			t.Fatal(err)
		}
		var schema struct {
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		if err := json.Unmarshal(tool.RawInputSchema, &schema); err != nil {
			t.Fatal(err)
		}
		if _, ok := schema.Properties["features"]; !ok {
			t.Error("predict schema is missing the features property")
		}
		if len(schema.Required) != 1 || schema.Required[0] != "features" {
			t.Errorf("predict required = %v", schema.Required)
		}
		return
	}
	t.Fatal("predict_quality not in catalog")
}
