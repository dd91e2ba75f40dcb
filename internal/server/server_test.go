package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
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

const patientJSON = `{"Age": 55, "Sex": "M", "ChestPainType": "ASY", "RestingBP": 130,
	"Cholesterol": 250, "FastingBS": 0, "RestingECG": "Normal", "MaxHR": 150,
	"ExerciseAngina": "Y", "Oldpeak": 1.5, "ST_Slope": "Flat"}`

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := core.ReadDataset(strings.NewReader(trainingCSV))
	require.NoError(t, err)
	m, err := core.Train(t.Context(), ds, core.TrainOptions{Trees: 5, Seed: 1, Workers: 2})
	require.NoError(t, err)
	return New(core.NewAssessor(m, nil, schema.HTTPSource))
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHandleAssess(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/v1/assess", patientJSON)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		ID     string            `json:"id"`
		Result schema.RiskResult `json:"result"`
		Advice string            `json:"advice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, core.TierFor(resp.Result.Percent), resp.Result.Tier)
	assert.Equal(t, resp.Result.Tier.Advice(), resp.Advice)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.assessments.WithLabelValues(outcomeOK, string(resp.Result.Tier))))
	assert.Equal(t, 1, testutil.CollectAndCount(s.metrics.latency))
}

func TestHandleAssess_BadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name      string
		body      string
		wantError string
		wantField string
	}{
		{"malformed json", `{"Age": `, "invalid request", ""},
		{"not an object", `[1, 2]`, "invalid request", ""},
		{"missing field", `{"Age": 55}`, "invalid input", schema.FieldSex},
		{"bad binary", strings.Replace(patientJSON, `"FastingBS": 0`, `"FastingBS": 3`, 1), "invalid input", schema.FieldFastingBS},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/v1/assess", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp["error"])
			assert.NotEmpty(t, resp["details"])
			assert.Equal(t, tt.wantField, resp["field"])
		})
	}
	assert.Equal(t, float64(len(tests)), testutil.ToFloat64(s.metrics.assessments.WithLabelValues(outcomeInvalid, "")))
}

func TestHandleAssess_NoModel(t *testing.T) {
	s := New(nil)
	w := do(t, s, http.MethodPost, "/api/v1/assess", patientJSON)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = do(t, s, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unavailable")
}

func TestHandleSchema(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/api/v1/schema", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Fields []schema.FieldSpec      `json:"fields"`
		Model  schema.ModelDescription `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Fields, len(schema.Fields))
	assert.Equal(t, s.assessor.Model().Schema.Columns(), resp.Model.Info.Columns)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/api/v1/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
	assert.Equal(t, s.assessor.Model().Info.ModelID, resp["model_id"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	do(t, s, http.MethodPost, "/api/v1/assess", patientJSON)

	w := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "cardiorisk_assessments_total")
	assert.Contains(t, body, "cardiorisk_assessment_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestRun_Shutdown(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, addr) }()

	require.Eventually(t, func() bool {
		resp, err := http.Post("http://"+addr+"/api/v1/assess", "application/json", bytes.NewBufferString(patientJSON))
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
