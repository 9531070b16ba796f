package nf

import (
	"testing"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

func aggregatorNode(props map[string]any) *topology.Node {
	return &topology.Node{ID: "core1", Type: topology.TypeCoreAggregator, Properties: props}
}

func TestExtractStructuredList(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"AMF_configs": []any{
			map[string]any{"name": "amf-east", "image": "custom/open5gs:v2"},
			map[string]any{"config_content": "amf:\n  sbi: {}\n"},
		},
	})
	instances, report := Extract(agg)

	amfs := InstancesOf(instances, AMF)
	if len(amfs) != 2 {
		t.Fatalf("expected 2 amf instances, got %d", len(amfs))
	}
	if amfs[0].Name != "amf-east" || amfs[0].Image != "custom/open5gs:v2" {
		t.Errorf("first instance wrong: %+v", amfs[0])
	}
	if amfs[1].Name != "amf2" {
		t.Errorf("unnamed instance should auto-name amf2, got %q", amfs[1].Name)
	}
	if amfs[0].ArtifactName != "amf.yaml" || amfs[1].ArtifactName != "amf_2.yaml" {
		t.Errorf("artifact names wrong: %q, %q", amfs[0].ArtifactName, amfs[1].ArtifactName)
	}
	if amfs[0].Source != SourceStructured {
		t.Errorf("source tag wrong: %s", amfs[0].Source)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("nothing should be skipped: %v", report.Skipped)
	}
}

func TestExtractLegacyRowTable(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"Component5G_UPFtable": []any{
			[]any{"upf-main", "/etc/netflux/upf-main.yaml"},
			[]any{"upf-edge"},
		},
	})
	instances, _ := Extract(agg)

	upfs := InstancesOf(instances, UPF)
	if len(upfs) != 2 {
		t.Fatalf("expected 2 upf instances, got %d", len(upfs))
	}
	if upfs[0].Name != "upf-main" || upfs[0].ConfigFilePath != "/etc/netflux/upf-main.yaml" {
		t.Errorf("row decode wrong: %+v", upfs[0])
	}
	if upfs[0].Source != SourceLegacyRow {
		t.Errorf("source tag wrong: %s", upfs[0].Source)
	}
	if upfs[1].ArtifactName != "upf_2.yaml" {
		t.Errorf("second artifact name %q", upfs[1].ArtifactName)
	}
}

func TestExtractStructuredWinsOverLegacy(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"SMF_configs":          []any{map[string]any{"name": "smf-new"}},
		"Component5G_SMFtable": []any{[]any{"smf-old", ""}},
	})
	instances, _ := Extract(agg)
	smfs := InstancesOf(instances, SMF)
	if len(smfs) != 1 || smfs[0].Name != "smf-new" {
		t.Fatalf("structured schema must win, got %+v", smfs)
	}
}

func TestExtractSynthesizesEnabledRole(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"NRF_enabled": true,
	})
	instances, report := Extract(agg)
	nrfs := InstancesOf(instances, NRF)
	if len(nrfs) != 1 {
		t.Fatalf("expected 1 synthesized nrf, got %d", len(nrfs))
	}
	if nrfs[0].Name != "nrf1" || nrfs[0].Source != SourceSynthesized || nrfs[0].ArtifactName != "nrf.yaml" {
		t.Errorf("synthesized instance wrong: %+v", nrfs[0])
	}
	if len(report.Synthesized) != 1 || report.Synthesized[0] != NRF {
		t.Errorf("report should record the synthesis: %+v", report)
	}
}

func TestExtractEnabledComponentsList(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"enabled_components": []any{"scp", "NRF"},
	})
	instances, _ := Extract(agg)
	if len(InstancesOf(instances, SCP)) != 1 || len(InstancesOf(instances, NRF)) != 1 {
		t.Errorf("list membership should enable roles: %+v", instances)
	}
	if len(InstancesOf(instances, AMF)) != 0 {
		t.Errorf("unlisted role must not be synthesized")
	}
}

func TestExtractSkipsMalformedEntries(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"AMF_configs": []any{
			"not-a-mapping",
			map[string]any{"name": "amf-good"},
		},
		"Component5G_UPFtable": []any{
			[]any{},
			[]any{"  "},
			[]any{"upf-good", ""},
		},
	})
	instances, report := Extract(agg)

	if got := InstancesOf(instances, AMF); len(got) != 1 || got[0].Name != "amf-good" {
		t.Errorf("malformed mapping should be skipped, got %+v", got)
	}
	upfs := InstancesOf(instances, UPF)
	if len(upfs) != 1 || upfs[0].Name != "upf-good" {
		t.Errorf("malformed rows should be skipped, got %+v", upfs)
	}
	// Good survivors keep the bare artifact name since skips do not consume ordinals.
	if upfs[0].ArtifactName != "upf.yaml" {
		t.Errorf("artifact name %q", upfs[0].ArtifactName)
	}
	if len(report.Skipped) != 3 {
		t.Errorf("expected 3 skips, got %v", report.Skipped)
	}
}

func TestExtractRoleOrderIsFixed(t *testing.T) {
	agg := aggregatorNode(map[string]any{
		"SMF_configs": []any{map[string]any{"name": "s1"}},
		"UPF_configs": []any{map[string]any{"name": "u1"}},
		"AMF_configs": []any{map[string]any{"name": "a1"}},
	})
	instances, _ := Extract(agg)
	if len(instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(instances))
	}
	want := []Role{UPF, AMF, SMF}
	for i, r := range want {
		if instances[i].Role != r {
			t.Errorf("position %d: got %s, want %s", i, instances[i].Role, r)
		}
	}
}

func TestExtractEmptyAggregator(t *testing.T) {
	instances, report := Extract(aggregatorNode(nil))
	if len(instances) != 0 {
		t.Errorf("no roles configured, no instances expected: %+v", instances)
	}
	if len(report.Skipped) != 0 || len(report.Synthesized) != 0 {
		t.Errorf("report should be empty: %+v", report)
	}
}
