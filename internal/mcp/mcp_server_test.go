package mcp_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cardiorisk/cardiorisk/core"
	mcp_internal "github.com/cardiorisk/cardiorisk/internal/mcp"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainingCSV = `Age,Sex,ChestPainType,RestingBP,Cholesterol,FastingBS,RestingECG,MaxHR,ExerciseAngina,Oldpeak,ST_Slope,HeartDisease
40,M,ATA,140,289,0,Normal,172,N,0,Up,0
49,F,NAP,160,180,0,Normal,156,N,1,Flat,1
37,M,ATA,130,283,0,ST,98,N,0,Up,0
48,F,ASY,138,214,0,Normal,108,Y,1.5,Flat,1
54,M,NAP,150,195,0,Normal,122,N,0,Up,0
39,M,NAP,120,339,0,Normal,170,N,0,Up,0
45,F,ATA,130,237,0,Normal,170,N,0,Up,0
54,M,ATA,110,208,0,Normal,142,N,0,Up,0
37,M,ASY,140,207,0,Normal,130,Y,1.5,Flat,1
48,F,ATA,120,284,0,Normal,120,N,0,Up,0
58,M,ATA,136,164,0,ST,99,Y,2,Flat,1
49,M,ASY,140,234,0,Normal,140,Y,1,Flat,1
60,M,ASY,100,248,0,Normal,125,N,1,Flat,1
63,M,TA,150,223,0,LVH,115,N,0,Down,0
`

func newTestServer(t *testing.T) *core.Assessor {
	t.Helper()
	ds, err := core.ReadDataset(strings.NewReader(trainingCSV))
	require.NoError(t, err)
	m, err := core.Train(t.Context(), ds, core.TrainOptions{Trees: 5, Seed: 1, Workers: 2})
	require.NoError(t, err)
	return core.NewAssessor(m, nil, schema.MCPSource)
}

func callTool(t *testing.T, assessor *core.Assessor, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(assessor)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	return res
}

func patientArgs() map[string]any {
	return map[string]any{
		"Age":            55.0,
		"Sex":            "M",
		"ChestPainType":  "ASY",
		"RestingBP":      130.0,
		"Cholesterol":    250.0,
		"FastingBS":      0.0,
		"RestingECG":     "Normal",
		"MaxHR":          150.0,
		"ExerciseAngina": "Y",
		"Oldpeak":        1.5,
		"ST_Slope":       "Flat",
	}
}

func TestMCPServer_AssessHeartRisk(t *testing.T) {
	assessor := newTestServer(t)
	res := callTool(t, assessor, mcp_internal.AssessToolName, patientArgs())
	require.False(t, res.IsError)

	var out struct {
		ID      string            `json:"id"`
		ModelID string            `json:"model_id"`
		Input   schema.RawInput   `json:"input"`
		Result  schema.RiskResult `json:"result"`
		Advice  string            `json:"advice"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &out))
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, assessor.Model().Info.ModelID, out.ModelID)
	assert.Equal(t, "55", out.Input["Age"])
	assert.Equal(t, "1.5", out.Input["Oldpeak"])
	assert.Equal(t, out.Result.Tier.Advice(), out.Advice)

	want, err := assessor.Model().Classifier().Predict(schema.RawInputFromAny(patientArgs()))
	require.NoError(t, err)
	assert.Equal(t, want, out.Result)
}

func TestMCPServer_ValidationErrors(t *testing.T) {
	assessor := newTestServer(t)

	t.Run("missing field", func(t *testing.T) {
		args := patientArgs()
		delete(args, "Cholesterol")
		res := callTool(t, assessor, mcp_internal.AssessToolName, args)
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "invalid field Cholesterol")
	})

	t.Run("fractional age", func(t *testing.T) {
		args := patientArgs()
		args["Age"] = 55.5
		res := callTool(t, assessor, mcp_internal.AssessToolName, args)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "whole number")
	})

	t.Run("no model", func(t *testing.T) {
		res := callTool(t, nil, mcp_internal.AssessToolName, patientArgs())
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "model not loaded")
	})
}

func TestMCPServer_DescribeModel(t *testing.T) {
	assessor := newTestServer(t)
	res := callTool(t, assessor, mcp_internal.DescribeToolName, nil)
	require.False(t, res.IsError)

	var desc schema.ModelDescription
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &desc))
	assert.Equal(t, assessor.Model().Info.ModelID, desc.Info.ModelID)
	assert.Equal(t, assessor.Model().Schema.Columns(), desc.Info.Columns)
	assert.Len(t, desc.Columns, assessor.Model().Schema.Len())
}

func TestMCPServer_ToolSchema(t *testing.T) {
	s := mcp_internal.NewMCPServer(nil)
	tool := s.GetTool(mcp_internal.AssessToolName)
	require.NotNil(t, tool)

	props := tool.Tool.InputSchema.Properties
	for _, f := range schema.Fields {
		assert.Contains(t, props, f.Name)
		assert.Contains(t, tool.Tool.InputSchema.Required, f.Name)
	}
}
