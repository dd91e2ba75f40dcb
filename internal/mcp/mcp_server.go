// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	AssessToolName   = "assess_heart_risk"
	DescribeToolName = "describe_model"
)

// NewMCPServer initializes and configures the cardiorisk MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(assessor *core.Assessor) *server.MCPServer {
	s := server.NewMCPServer(
		"Cardiorisk Assessment Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{assessor: assessor}

	// --- 1. Tool: assess_heart_risk ---
	opts := []mcp.ToolOption{
		mcp.WithDescription("Estimate the probability of heart disease for one patient and classify it as low, moderate or high risk."),
	}
	for _, f := range schema.Fields {
		opts = append(opts, fieldOption(f))
	}
	s.AddTool(mcp.NewTool(AssessToolName, opts...), h.handleAssess)

	// --- 2. Tool: describe_model ---
	s.AddTool(mcp.NewTool(DescribeToolName,
		mcp.WithDescription("Describe the loaded model: id, training metadata and the value range of every feature column."),
	), h.handleDescribe)

	return s
}

// fieldOption declares one clinical field as a required tool parameter.
func fieldOption(f schema.FieldSpec) mcp.ToolOption {
	desc := f.Label + ". " + f.Hint
	switch f.Kind {
	case schema.CategoricalKind:
		return mcp.WithString(f.Name, mcp.Description(desc), mcp.Enum(f.Values...), mcp.Required())
	default:
		return mcp.WithNumber(f.Name, mcp.Description(desc), mcp.Required())
	}
}

// StartMCPServer loads the configured model and serves the tools over stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	m, err := core.LoadModel(baseCfg, mgr)
	if err != nil {
		return err
	}
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	s := NewMCPServer(core.NewAssessor(m, history, baseCfg.SourceOr(schema.MCPSource)))
	return server.ServeStdio(s)
}
