package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	assessor *core.Assessor
}

// assessResponse is the JSON payload of assess_heart_risk.
type assessResponse struct {
	schema.Assessment
	Advice string `json:"advice"`
}

func (h *toolHandler) handleAssess(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.assessor == nil {
		return mcp.NewToolResultError(schema.ErrModelNotLoaded.Error()), nil
	}

	// Only the clinical fields are passed on
	args := request.GetArguments()
	fields := make(map[string]any, len(schema.Fields))
	for _, f := range schema.Fields {
		if v, ok := args[f.Name]; ok {
			fields[f.Name] = v
		}
	}

	assessment, err := h.assessor.Assess(schema.RawInputFromAny(fields))
	if err != nil {
		if schema.IsValidationError(err) {
			return mcp.NewToolResultError(fmt.Sprintf("invalid input: %v", err)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("assessment failed: %v", err)), nil
	}

	resp := assessResponse{Assessment: assessment, Advice: assessment.Result.Tier.Advice()}
	jsonData, _ := json.MarshalIndent(resp, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleDescribe(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.assessor == nil {
		return mcp.NewToolResultError(schema.ErrModelNotLoaded.Error()), nil
	}
	jsonData, _ := json.MarshalIndent(h.assessor.Describe(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
