package metrics

import (
	"time"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/export"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordExport records one compile attempt and, when it succeeded, the
// shape of its output.
func (r *Registry) RecordExport(dep *export.Deployment, duration time.Duration, err error) {
	if err != nil {
		r.ExportsTotal.WithLabelValues("error").Inc()
		return
	}
	r.ExportsTotal.WithLabelValues("ok").Inc()
	r.ExportDuration.Observe(duration.Seconds())
	r.ExportNodesProcessed.Observe(float64(dep.Summary.Nodes))
	r.ExportLinksEmitted.Observe(float64(dep.Summary.EmittedLinks))
	r.LinksDroppedTotal.Add(float64(len(dep.Summary.DroppedLinks)))
	r.OutOfRangeMobiles.Add(float64(len(dep.Summary.OutOfRange)))

	for _, inst := range dep.Instances {
		r.InstancesExtracted.WithLabelValues(string(inst.Role)).Inc()
	}
	for _, art := range dep.Artifacts {
		r.ArtifactsWritten.WithLabelValues(string(art.Origin)).Inc()
	}
}
