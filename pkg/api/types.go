package api

import (
	"encoding/json"
	"time"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/export"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// ExportRequest asks the server to compile a topology snapshot.
type ExportRequest struct {
	// Name labels the generated script. Defaults to "topology".
	Name string `json:"name,omitempty"`
	// Policy selects the association policy: "nearest-fallback" (default)
	// or "strict-coverage".
	Policy string `json:"policy,omitempty"`
	// OutputPath, when set, writes the script and its config artifacts to
	// disk instead of returning the script inline. Exports to the same
	// path are serialized.
	OutputPath string `json:"output_path,omitempty"`
	// Topology is the snapshot in its JSON wire form.
	Topology json.RawMessage `json:"topology"`
}

// ExportResponse carries the compile result.
type ExportResponse struct {
	// ID identifies this export job in logs and metrics.
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Script     string               `json:"script,omitempty"`
	OutputPath string               `json:"output_path,omitempty"`
	Summary    export.Summary       `json:"summary"`
	Artifacts  []string             `json:"artifacts,omitempty"`
	Report     *topology.LoadReport `json:"load_report,omitempty"`
}

// ValidateResponse reports what a snapshot contains without compiling it.
type ValidateResponse struct {
	Valid  bool                 `json:"valid"`
	Nodes  int                  `json:"nodes"`
	Links  int                  `json:"links"`
	Report *topology.LoadReport `json:"load_report"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}
