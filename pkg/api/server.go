// Package api exposes the export pipeline over HTTP: compile a topology
// snapshot to an emulation script, validate a snapshot, health and metrics.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/api/middleware"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/export"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/metrics"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/spatial"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

const maxRequestBody = 8 << 20 // topology snapshots are small; 8 MiB is generous

// Server handles export API requests.
type Server struct {
	metrics   *metrics.Registry
	version   string
	startTime time.Time

	// Concurrent exports to the same output path would interleave script
	// and artifact writes, so each path gets its own lock.
	mu          sync.Mutex
	outputLocks map[string]*sync.Mutex
}

// NewServer creates an API server recording into the given metrics registry.
func NewServer(reg *metrics.Registry, version string) *Server {
	if reg == nil {
		reg = metrics.DefaultRegistry()
	}
	if version == "" {
		version = "dev"
	}
	return &Server{
		metrics:     reg,
		version:     version,
		startTime:   time.Now(),
		outputLocks: make(map[string]*sync.Mutex),
	}
}

// Handler returns the fully wired HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(
		s.metrics.GetPrometheusRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/export", s.handleExport)
	mux.HandleFunc("/validate", s.handleValidate)

	var h http.Handler = mux
	h = middleware.Metrics(s.metrics)(h)
	h = middleware.Logging(middleware.GetRequestID)(h)
	h = middleware.PanicRecovery()(h)
	h = middleware.RequestID()(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ExportRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	_, report, err := topology.DecodeTopology(req.Topology, false)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, ValidateResponse{
		Valid:  report.Clean(),
		Nodes:  report.NodesLoaded,
		Links:  report.LinksLoaded,
		Report: report,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ExportRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}

	topo, report, err := topology.DecodeTopology(req.Topology, false)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := export.Options{Name: req.Name, Policy: spatial.Policy(req.Policy)}
	if req.Policy != "" &&
		opts.Policy != spatial.NearestFallback && opts.Policy != spatial.StrictCoverage {
		s.respondError(w, http.StatusBadRequest,
			fmt.Sprintf("unknown policy %q", req.Policy))
		return
	}

	start := time.Now()
	var dep *export.Deployment
	if req.OutputPath != "" {
		lock := s.outputLock(req.OutputPath)
		lock.Lock()
		dep, err = export.Export(topo, opts, req.OutputPath)
		lock.Unlock()
	} else {
		dep, err = export.Compile(topo, opts)
	}
	s.metrics.RecordExport(dep, time.Since(start), err)

	if err != nil {
		s.respondError(w, exportStatus(err), err.Error())
		return
	}

	resp := ExportResponse{
		ID:         uuid.New().String(),
		Name:       req.Name,
		OutputPath: req.OutputPath,
		Summary:    dep.Summary,
		Report:     report,
	}
	if resp.Name == "" {
		resp.Name = "topology"
	}
	for _, art := range dep.Artifacts {
		resp.Artifacts = append(resp.Artifacts, art.Name)
	}
	if req.OutputPath == "" {
		var buf bytes.Buffer
		if werr := export.WriteScript(&buf, dep, resp.Name); werr != nil {
			s.respondError(w, http.StatusInternalServerError, werr.Error())
			return
		}
		resp.Script = buf.String()
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// outputLock returns the mutex guarding one output path.
func (s *Server) outputLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.outputLocks[path]; ok {
		return l
	}
	l := &sync.Mutex{}
	s.outputLocks[path] = l
	return l
}

// exportStatus maps pipeline errors to HTTP status codes. Empty input is
// the caller's problem; unwritable output is ours.
func exportStatus(err error) int {
	switch {
	case errors.Is(err, export.ErrEmptyTopology):
		return http.StatusUnprocessableEntity
	case errors.Is(err, export.ErrOutputNotWritable):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, req *ExportRequest) bool {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if len(req.Topology) == 0 {
		s.respondError(w, http.StatusBadRequest, "missing topology")
		return false
	}
	return true
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorLog("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, ErrorResponse{Error: msg})
}
