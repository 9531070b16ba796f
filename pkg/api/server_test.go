package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/metrics"
)

const snapshotJSON = `{
	"nodes": [
		{"id": "s1", "type": "Switch", "x": 50, "y": 50},
		{"id": "h1", "type": "Host", "x": 60, "y": 60},
		{"id": "gnb1", "type": "GNB", "x": 200, "y": 200},
		{"id": "ue1", "type": "UE", "x": 210, "y": 210},
		{"id": "core", "type": "VGcore", "x": 100, "y": 100,
			"properties": {"AMF_configs": [{"name": "amf1"}], "UPF_configs": [{"name": "upf1"}]}}
	],
	"links": [
		{"source": "s1", "destination": "h1"},
		{"source": "s1", "destination": "core"}
	]
}`

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	s := NewServer(metrics.NewRegistry(), "test")
	return s, s.Handler()
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateCleanSnapshot(t *testing.T) {
	_, h := newTestServer(t)

	rec := postJSON(t, h, "/validate", ExportRequest{
		Topology: json.RawMessage(snapshotJSON),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 5, resp.Nodes)
	assert.Equal(t, 2, resp.Links)
}

func TestValidateReportsSkippedRecords(t *testing.T) {
	_, h := newTestServer(t)

	bad := `{"nodes": [{"id": "", "type": "Host"}, {"id": "h1", "type": "Host"}], "links": []}`
	rec := postJSON(t, h, "/validate", ExportRequest{Topology: json.RawMessage(bad)})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ValidateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, 1, resp.Nodes)
	require.NotNil(t, resp.Report)
	assert.Len(t, resp.Report.SkippedNodes, 1)
}

func TestExportInline(t *testing.T) {
	_, h := newTestServer(t)

	rec := postJSON(t, h, "/export", ExportRequest{
		Name:     "lab",
		Topology: json.RawMessage(snapshotJSON),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "lab", resp.Name)
	assert.NotEmpty(t, resp.ID)
	assert.Contains(t, resp.Script, "def topology(args):")
	assert.Contains(t, resp.Artifacts, "amf.yaml")
	assert.Contains(t, resp.Artifacts, "upf.yaml")
	assert.Equal(t, 5, resp.Summary.Nodes)
	assert.Empty(t, resp.OutputPath)
}

func TestExportToDisk(t *testing.T) {
	_, h := newTestServer(t)
	out := filepath.Join(t.TempDir(), "lab.py")

	rec := postJSON(t, h, "/export", ExportRequest{
		Name:       "lab",
		OutputPath: out,
		Topology:   json.RawMessage(snapshotJSON),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Script)
	assert.Equal(t, out, resp.OutputPath)

	script, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(script), "net = Containernet(")
	_, err = os.Stat(filepath.Join(filepath.Dir(out), "5g-configs", "amf.yaml"))
	assert.NoError(t, err)
}

func TestExportConcurrentSamePath(t *testing.T) {
	_, h := newTestServer(t)
	out := filepath.Join(t.TempDir(), "lab.py")

	var wg sync.WaitGroup
	codes := make([]int, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := postJSON(t, h, "/export", ExportRequest{
				OutputPath: out,
				Topology:   json.RawMessage(snapshotJSON),
			})
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	script, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(string(script)), "topology(sys.argv)"))
}

func TestExportEmptyTopology(t *testing.T) {
	_, h := newTestServer(t)

	rec := postJSON(t, h, "/export", ExportRequest{
		Topology: json.RawMessage(`{"nodes": [], "links": []}`),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestExportUnknownPolicy(t *testing.T) {
	_, h := newTestServer(t)

	rec := postJSON(t, h, "/export", ExportRequest{
		Policy:   "teleport",
		Topology: json.RawMessage(snapshotJSON),
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportMalformedBody(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportMissingTopology(t *testing.T) {
	_, h := newTestServer(t)

	rec := postJSON(t, h, "/export", ExportRequest{Name: "lab"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/export", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
