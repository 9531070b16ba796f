package topology

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
)

// Snapshot is the wire form of a topology file: validated record lists as
// the editor's persistence layer writes them.
type Snapshot struct {
	Nodes []NodeRecord `json:"nodes" yaml:"nodes"`
	Links []LinkRecord `json:"links" yaml:"links"`
}

// LoadReport summarizes what the loader had to skip. Structural problems
// never abort a load; they are reported so the caller can surface them.
type LoadReport struct {
	NodesLoaded  int      `json:"nodes_loaded"`
	LinksLoaded  int      `json:"links_loaded"`
	SkippedNodes []string `json:"skipped_nodes,omitempty"`
	SkippedLinks []string `json:"skipped_links,omitempty"`
}

// Clean reports whether nothing had to be skipped.
func (r *LoadReport) Clean() bool {
	return len(r.SkippedNodes) == 0 && len(r.SkippedLinks) == 0
}

// ReadTopology reads a topology snapshot file. Serialization is selected by
// the filename extension: .yaml/.yml decodes as YAML, everything else as
// JSON. If dict is non-empty the file is not read and dict is decoded
// instead.
func ReadTopology(filename string, dict []byte) (*Topology, *LoadReport, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, nil, err
		}
	}

	ext := path.Ext(filename)
	useYAML := ext == ".yaml" || ext == ".yml" || ext == ".YAML" || ext == ".YML"

	return DecodeTopology(dict, useYAML)
}

// DecodeTopology decodes and validates a snapshot. Invalid records are
// skipped with a warning and reported; decode failure of the envelope
// itself is fatal since no topology can be recovered from it.
func DecodeTopology(data []byte, useYAML bool) (*Topology, *LoadReport, error) {
	snap := Snapshot{}

	var err error
	if useYAML {
		err = yaml.Unmarshal(data, &snap)
	} else {
		err = json.Unmarshal(data, &snap)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("decode topology snapshot: %w", err)
	}

	topo := &Topology{}
	report := &LoadReport{}
	seen := make(map[string]bool)

	for i := range snap.Nodes {
		rec := &snap.Nodes[i]
		if verr := ValidateNodeRecord(rec); verr != nil {
			report.SkippedNodes = append(report.SkippedNodes, fmt.Sprintf("node %d: %v", i, verr))
			logging.Warn("skipping malformed node record",
				logging.Component("loader"), logging.Int("index", i), logging.Error(verr))
			continue
		}
		if seen[rec.ID] {
			report.SkippedNodes = append(report.SkippedNodes, fmt.Sprintf("node %d: duplicate id '%s'", i, rec.ID))
			logging.Warn("skipping node with duplicate id",
				logging.Component("loader"), logging.NodeID(rec.ID))
			continue
		}
		seen[rec.ID] = true
		topo.Nodes = append(topo.Nodes, Node{
			ID:         rec.ID,
			Type:       NodeType(rec.Type),
			X:          rec.X,
			Y:          rec.Y,
			Properties: rec.Properties,
		})
	}

	for i := range snap.Links {
		rec := &snap.Links[i]
		if verr := ValidateLinkRecord(rec); verr != nil {
			report.SkippedLinks = append(report.SkippedLinks, fmt.Sprintf("link %d: %v", i, verr))
			logging.Warn("skipping malformed link record",
				logging.Component("loader"), logging.Int("index", i), logging.Error(verr))
			continue
		}
		topo.Links = append(topo.Links, Link{
			Source:      rec.Source,
			Destination: rec.Destination,
			Properties:  rec.Properties,
		})
	}

	report.NodesLoaded = len(topo.Nodes)
	report.LinksLoaded = len(topo.Links)

	return topo, report, nil
}
