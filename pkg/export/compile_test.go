package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/nf"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

func fullTopology() *topology.Topology {
	return &topology.Topology{
		Nodes: []topology.Node{
			{ID: "c0", Type: topology.TypeController},
			{ID: "s1", Type: topology.TypeSwitch},
			{ID: "h1", Type: topology.TypeHost},
			{ID: "ap1", Type: topology.TypeAccessPoint, X: 100, Y: 100},
			{ID: "gnb1", Type: topology.TypeGNB, X: 200, Y: 200, Properties: map[string]any{
				"GNB_APEnabled": true,
			}},
			{ID: "ue1", Type: topology.TypeUE, X: 210, Y: 210, Properties: map[string]any{
				"UE_APN": "internet",
			}},
			{ID: "core", Type: topology.TypeCoreAggregator, Properties: map[string]any{
				"AMF_configs": []any{map[string]any{"name": "amf1"}},
				"UPF_configs": []any{map[string]any{"name": "upf1"}},
				"NRF_enabled": true,
			}},
		},
		Links: []topology.Link{
			{Source: "s1", Destination: "core"},
			{Source: "h1", Destination: "s1"},
		},
	}
}

func TestCompileEmptyTopology(t *testing.T) {
	_, err := Compile(&topology.Topology{}, Options{})
	if !errors.Is(err, ErrEmptyTopology) {
		t.Fatalf("expected ErrEmptyTopology, got %v", err)
	}
	_, err = Compile(nil, Options{})
	if !errors.Is(err, ErrEmptyTopology) {
		t.Fatalf("nil topology should report ErrEmptyTopology, got %v", err)
	}
}

func TestCompileFullTopology(t *testing.T) {
	dep, err := Compile(fullTopology(), Options{Name: "lab"})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	if !dep.Wireless || !dep.Containers {
		t.Errorf("wireless and container support expected")
	}
	if dep.Controller.Var != "c0" {
		t.Errorf("declared controller should win: %+v", dep.Controller)
	}
	if len(dep.Instances) != 3 {
		t.Errorf("amf1, upf1 and synthesized nrf1 expected, got %d", len(dep.Instances))
	}
	if len(dep.Artifacts) != 3 {
		t.Errorf("one artifact per instance, got %d", len(dep.Artifacts))
	}
	// amf1 + upf1 fan-out plus the plain host link.
	if len(dep.Links) != 3 {
		t.Errorf("expected 3 emitted links, got %+v", dep.Links)
	}
	if len(dep.GNBs) != 1 || dep.GNBs[0].Companion == nil {
		t.Fatalf("gNB should carry its companion cell: %+v", dep.GNBs)
	}
	if dep.GNBs[0].Companion.Var != "ap101" {
		t.Errorf("companion id wrong: %s", dep.GNBs[0].Companion.Var)
	}
	if len(dep.Associations) != 1 {
		t.Fatalf("ue1 should be associated, got %+v", dep.Associations)
	}
	if dep.Summary.Instances != 3 || dep.Summary.EmittedLinks != 3 {
		t.Errorf("summary wrong: %+v", dep.Summary)
	}
	if len(dep.Summary.Synthesized) != 1 || dep.Summary.Synthesized[0] != "nrf" {
		t.Errorf("synthesis must be reported: %+v", dep.Summary.Synthesized)
	}
}

func TestCompileIsPure(t *testing.T) {
	topo := fullTopology()
	a, err := Compile(topo, Options{Name: "lab"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile(topo, Options{Name: "lab"})
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Links) != len(b.Links) || len(a.Instances) != len(b.Instances) {
		t.Errorf("repeated compiles must agree: %+v vs %+v", a.Summary, b.Summary)
	}
}

func TestExportWritesScriptAndArtifacts(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "topology.py")

	dep, err := Export(fullTopology(), Options{Name: "lab"}, scriptPath)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(scriptPath)
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if !strings.HasPrefix(string(data), "#!/usr/bin/env python") {
		t.Errorf("script header wrong")
	}

	for _, want := range []string{"amf.yaml", "upf.yaml", "nrf.yaml"} {
		p := filepath.Join(dir, ConfigDirName, want)
		if _, err := os.Stat(p); err != nil {
			t.Errorf("artifact %s not written: %v", want, err)
		}
	}
	if dep.Summary.EmittedLinks == 0 {
		t.Errorf("summary should be populated")
	}
}

func TestExportEmptyTopologyWritesNothing(t *testing.T) {
	dir := t.TempDir()
	scriptPath := filepath.Join(dir, "topology.py")

	_, err := Export(&topology.Topology{}, Options{}, scriptPath)
	if !errors.Is(err, ErrEmptyTopology) {
		t.Fatalf("expected ErrEmptyTopology, got %v", err)
	}
	if _, statErr := os.Stat(scriptPath); !os.IsNotExist(statErr) {
		t.Errorf("no script may be written for an empty topology")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("output dir must stay empty, got %v", entries)
	}
}

func TestExportUnwritablePath(t *testing.T) {
	_, err := Export(fullTopology(), Options{}, "/nonexistent-root-dir/sub/topology.py")
	if err == nil {
		t.Fatalf("unwritable path must be a hard failure")
	}
	var cerr *CompileError
	if !errors.As(err, &cerr) {
		t.Errorf("expected a CompileError, got %T", err)
	}
	if !errors.Is(err, ErrOutputNotWritable) {
		t.Errorf("expected ErrOutputNotWritable in the chain, got %v", err)
	}
}

func TestCompileInstanceImageFallback(t *testing.T) {
	topo := &topology.Topology{Nodes: []topology.Node{
		{ID: "core", Type: topology.TypeCoreAggregator, Properties: map[string]any{
			"VGcore_DockerImage": "registry.local/open5gs:v2.7",
			"AMF_configs": []any{
				map[string]any{"name": "amf1"},
				map[string]any{"name": "amf2", "image": "custom/amf:dev"},
			},
		}},
	}}
	dep, err := Compile(topo, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if dep.Instances[0].Image != "registry.local/open5gs:v2.7" {
		t.Errorf("aggregator image should be inherited, got %q", dep.Instances[0].Image)
	}
	if dep.Instances[1].Image != "custom/amf:dev" {
		t.Errorf("per-instance image must win, got %q", dep.Instances[1].Image)
	}
	if dep.Instances[0].Role != nf.AMF || dep.Instances[0].ArtifactName != "amf.yaml" {
		t.Errorf("instance decl wrong: %+v", dep.Instances[0])
	}
}

func TestCompileWiredOnlyTopology(t *testing.T) {
	topo := &topology.Topology{
		Nodes: []topology.Node{
			{ID: "h1", Type: topology.TypeHost},
			{ID: "h2", Type: topology.TypeHost},
			{ID: "s1", Type: topology.TypeSwitch},
		},
		Links: []topology.Link{
			{Source: "h1", Destination: "s1"},
			{Source: "h2", Destination: "s1"},
		},
	}
	dep, err := Compile(topo, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if dep.Wireless || dep.Containers {
		t.Errorf("plain hosts and switches need neither wireless nor containers")
	}
	if dep.Controller.Var != "c0" {
		t.Errorf("default controller expected, got %+v", dep.Controller)
	}
}
