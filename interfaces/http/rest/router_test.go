package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pipeline-builder/application/commands/bus"
	commandhandlers "pipeline-builder/application/commands/handlers"
	"pipeline-builder/application/ports"
	querybus "pipeline-builder/application/queries/bus"
	queryhandlers "pipeline-builder/application/queries/handlers"
	"pipeline-builder/application/services"
	"pipeline-builder/domain/catalog"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/infrastructure/validation"
	"pipeline-builder/pkg/observability"
)

type testServer struct {
	*httptest.Server
	metrics *observability.Collector
}

// newTestServer wires the full HTTP stack. With a nil client the editor
// submits to the in-process analyzer.
func newTestServer(t *testing.T, client ports.ValidationService) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewCollector("test")

	editor := services.NewEditorService(catalog.Default(), aggregates.DropDangling, nil, nil, logger)
	analyzer := services.NewPipelineAnalyzer(nil, nil, metrics, nil, logger)
	if client == nil {
		client = analyzer
	}
	submitter := services.NewSubmissionService(editor, client, metrics, logger)

	commands := bus.NewCommandBus()
	require.NoError(t, commandhandlers.NewCanvasHandlers(editor).Register(commands))
	queries := querybus.NewQueryBus()
	require.NoError(t, queryhandlers.NewCanvasQueryHandlers(editor, submitter).Register(queries))
	require.NoError(t, queryhandlers.NewAnalysisQueryHandler(analyzer).Register(queries))

	router := NewRouter(commands, queries, metrics, RouterConfig{CORSOrigins: []string{"http://localhost:3000"}}, logger)
	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, metrics: metrics}
}

func (s *testServer) do(t *testing.T, method, path, body string) (int, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, s.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestPing(t *testing.T) {
	srv := newTestServer(t, nil)
	status, body := srv.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"Ping": "Pong"}, body)
}

func TestParsePipeline(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodPost, "/pipelines/parse", `{
		"nodes": [{"id": "a"}, {"id": "b"}, {"id": "c"}],
		"edges": [{"source": "a", "target": "b"}, {"source": "b", "target": "c"}]
	}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 3.0, body["num_nodes"])
	assert.Equal(t, 2.0, body["num_edges"])
	assert.Equal(t, true, body["is_dag"])
	assert.NotContains(t, body, "error")
}

func TestParsePipelineMalformedBody(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodPost, "/pipelines/parse", `{"nodes": 3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, true, body["error"])
}

func TestEditorFlowAndSubmit(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"customInput","position":{"x":10,"y":20}}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "customInput-1", body["data"].(map[string]any)["id"])

	status, _ = srv.do(t, http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"customOutput"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body = srv.do(t, http.MethodPost, "/api/v1/canvas/edges", `{
		"source": "customInput-1", "sourceHandle": "customInput-1-value",
		"target": "customOutput-1", "targetHandle": "customOutput-1-value"
	}`)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = srv.do(t, http.MethodGet, "/api/v1/canvas", "")
	require.Equal(t, http.StatusOK, status)
	canvas := body["data"].(map[string]any)
	assert.Len(t, canvas["nodes"], 2)
	assert.Len(t, canvas["edges"], 1)

	status, body = srv.do(t, http.MethodPost, "/api/v1/canvas/submit", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t,
		"Pipeline Analysis Results:\n\nNumber of Nodes: 2\nNumber of Edges: 1\nIs DAG: Yes",
		body["message"])
}

func TestSubmitReportsTransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	cfg := validation.DefaultClientConfig()
	cfg.Endpoint = upstream.URL
	srv := newTestServer(t, validation.NewClient(cfg, zap.NewNop()))

	status, _ := srv.do(t, http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"text"}`)
	require.Equal(t, http.StatusCreated, status)

	status, body := srv.do(t, http.MethodPost, "/api/v1/canvas/submit", "")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Error submitting pipeline: HTTP error! status: 500", body["message"])

	_, body = srv.do(t, http.MethodGet, "/api/v1/canvas", "")
	assert.Len(t, body["data"].(map[string]any)["nodes"], 1)
}

func TestSubmitReportsOpenBreaker(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	cfg := validation.DefaultClientConfig()
	cfg.Endpoint = upstream.URL
	cfg.MinRequests = 1
	cfg.FailureRatio = 0.5
	srv := newTestServer(t, validation.NewClient(cfg, zap.NewNop()))

	status, _ := srv.do(t, http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"text"}`)
	require.Equal(t, http.StatusCreated, status)

	status, _ = srv.do(t, http.MethodPost, "/api/v1/canvas/submit", "")
	require.Equal(t, http.StatusBadGateway, status)

	status, body := srv.do(t, http.MethodPost, "/api/v1/canvas/submit", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "Error submitting pipeline: request failed: circuit breaker is open", body["message"])
}

func TestEditorErrors(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"unknown node type", http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"spaceship"}`, http.StatusBadRequest},
		{"missing node type", http.MethodPost, "/api/v1/canvas/nodes", `{}`, http.StatusBadRequest},
		{"malformed drop", http.MethodPost, "/api/v1/canvas/nodes", `{`, http.StatusBadRequest},
		{"missing node", http.MethodGet, "/api/v1/canvas/nodes/llm-7", "", http.StatusNotFound},
		{"delete missing node", http.MethodDelete, "/api/v1/canvas/nodes/llm-7", "", http.StatusNotFound},
		{"bad option", http.MethodPatch, "/api/v1/canvas/nodes/customInput-1/fields/inputType", `{"value":"Video"}`, http.StatusBadRequest},
		{"connect without handles", http.MethodPost, "/api/v1/canvas/edges", `{"source":"customInput-1"}`, http.StatusBadRequest},
		{"unknown route", http.MethodGet, "/api/v2/nodes", "", http.StatusNotFound},
	}

	status, _ := srv.do(t, http.MethodPost, "/api/v1/canvas/nodes", `{"nodeType":"customInput"}`)
	require.Equal(t, http.StatusCreated, status)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := srv.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, true, body["error"])
		})
	}
}

func TestNodeTypesAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	status, body := srv.do(t, http.MethodGet, "/api/v1/node-types", "")
	require.Equal(t, http.StatusOK, status)
	types := body["data"].([]any)
	assert.Equal(t, "customInput", types[0].(map[string]any)["type"])

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `test_http_requests_total{method="GET",route="/api/v1/node-types",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/pipelines/parse", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}
