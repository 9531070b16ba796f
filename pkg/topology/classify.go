package topology

// Buckets partitions a snapshot's nodes by semantic role. Slices preserve
// declaration order; the emitter depends on that for deterministic output.
type Buckets struct {
	Hosts        []*Node
	Stations     []*Node
	UEs          []*Node
	GNBs         []*Node
	AccessPoints []*Node
	Switches     []*Node // Switch and Router share one bucket downstream
	Controllers  []*Node
	DockerHosts  []*Node
	Core         []*Node // VGcore aggregator nodes
	Other        []*Node // unknown types; classification never aborts
}

// Classify partitions nodes into role buckets. Pure; unknown types land in
// Other and are otherwise ignored by the compiler.
func Classify(t *Topology) *Buckets {
	b := &Buckets{}
	for i := range t.Nodes {
		n := &t.Nodes[i]
		switch n.Type {
		case TypeHost:
			b.Hosts = append(b.Hosts, n)
		case TypeStation:
			b.Stations = append(b.Stations, n)
		case TypeUE:
			b.UEs = append(b.UEs, n)
		case TypeGNB:
			b.GNBs = append(b.GNBs, n)
		case TypeAccessPoint:
			b.AccessPoints = append(b.AccessPoints, n)
		case TypeSwitch, TypeRouter:
			b.Switches = append(b.Switches, n)
		case TypeController:
			b.Controllers = append(b.Controllers, n)
		case TypeDockerHost:
			b.DockerHosts = append(b.DockerHosts, n)
		case TypeCoreAggregator:
			b.Core = append(b.Core, n)
		default:
			b.Other = append(b.Other, n)
		}
	}
	return b
}

// HasWireless reports whether the snapshot needs wireless emulation support.
func (b *Buckets) HasWireless() bool {
	return len(b.AccessPoints) > 0 || len(b.Stations) > 0 || len(b.UEs) > 0 || len(b.GNBs) > 0
}

// HasContainers reports whether the snapshot needs container emulation support.
func (b *Buckets) HasContainers() bool {
	return len(b.DockerHosts) > 0 || len(b.UEs) > 0 || len(b.GNBs) > 0 || len(b.Core) > 0
}

// Aggregator returns the core aggregator node. Snapshots declare at most
// one; when several exist the first wins, matching editor behavior.
func (b *Buckets) Aggregator() (*Node, bool) {
	if len(b.Core) == 0 {
		return nil, false
	}
	return b.Core[0], true
}
