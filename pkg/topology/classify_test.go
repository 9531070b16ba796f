package topology

import "testing"

func sampleTopology() *Topology {
	return &Topology{Nodes: []Node{
		{ID: "h1", Type: TypeHost},
		{ID: "sta1", Type: TypeStation},
		{ID: "ue1", Type: TypeUE},
		{ID: "gnb1", Type: TypeGNB},
		{ID: "ap1", Type: TypeAccessPoint},
		{ID: "s1", Type: TypeSwitch},
		{ID: "r1", Type: TypeRouter},
		{ID: "c0", Type: TypeController},
		{ID: "d1", Type: TypeDockerHost},
		{ID: "core", Type: TypeCoreAggregator},
		{ID: "sat1", Type: NodeType("Satellite")},
	}}
}

func TestClassifyBuckets(t *testing.T) {
	b := Classify(sampleTopology())

	if len(b.Hosts) != 1 || len(b.Stations) != 1 || len(b.UEs) != 1 ||
		len(b.GNBs) != 1 || len(b.AccessPoints) != 1 {
		t.Fatalf("unexpected wireless bucket sizes: %+v", b)
	}
	if len(b.Switches) != 2 {
		t.Errorf("Switch and Router should share a bucket, got %d", len(b.Switches))
	}
	if len(b.Controllers) != 1 || len(b.DockerHosts) != 1 || len(b.Core) != 1 {
		t.Errorf("unexpected infra bucket sizes: %+v", b)
	}
	if len(b.Other) != 1 || b.Other[0].ID != "sat1" {
		t.Errorf("unknown type should land in Other, got %+v", b.Other)
	}
}

func TestClassifyPreservesOrder(t *testing.T) {
	topo := &Topology{Nodes: []Node{
		{ID: "s2", Type: TypeSwitch},
		{ID: "r1", Type: TypeRouter},
		{ID: "s1", Type: TypeSwitch},
	}}
	b := Classify(topo)
	got := []string{b.Switches[0].ID, b.Switches[1].ID, b.Switches[2].ID}
	want := []string{"s2", "r1", "s1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("declaration order not preserved: got %v want %v", got, want)
		}
	}
}

func TestHasWirelessAndContainers(t *testing.T) {
	wired := Classify(&Topology{Nodes: []Node{
		{ID: "h1", Type: TypeHost},
		{ID: "s1", Type: TypeSwitch},
	}})
	if wired.HasWireless() {
		t.Errorf("hosts and switches alone are not wireless")
	}
	if wired.HasContainers() {
		t.Errorf("hosts and switches alone need no containers")
	}

	radio := Classify(&Topology{Nodes: []Node{{ID: "gnb1", Type: TypeGNB}}})
	if !radio.HasWireless() || !radio.HasContainers() {
		t.Errorf("a gNB needs both wireless and container support")
	}
}

func TestAggregatorFirstWins(t *testing.T) {
	b := Classify(&Topology{Nodes: []Node{
		{ID: "coreA", Type: TypeCoreAggregator},
		{ID: "coreB", Type: TypeCoreAggregator},
	}})
	agg, ok := b.Aggregator()
	if !ok || agg.ID != "coreA" {
		t.Fatalf("first aggregator should win, got %+v ok=%v", agg, ok)
	}

	empty := Classify(&Topology{})
	if _, ok := empty.Aggregator(); ok {
		t.Errorf("empty topology has no aggregator")
	}
}
