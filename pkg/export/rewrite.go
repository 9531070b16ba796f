package export

import (
	"fmt"
	"regexp"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/nf"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/spatial"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// LinkSignificantRoles are the functions an abstract aggregator link fans
// out to. Other control-plane functions talk over the service bus and never
// appear in the data-link graph.
var LinkSignificantRoles = []nf.Role{nf.AMF, nf.UPF, nf.SMF}

// controllerPattern matches legacy controller instance ids that some
// snapshots still wire links to. Controllers are attached out of band, so
// these links are dropped.
var controllerPattern = regexp.MustCompile(`Controller__\d+`)

// companionPattern matches synthesized gNB cell ids.
var companionPattern = regexp.MustCompile(`^ap\d+$`)

// rewriter resolves abstract link endpoints into emitted entity variables.
type rewriter struct {
	topo       *topology.Topology
	buckets    *topology.Buckets
	aggregator string // aggregator node id, empty when absent

	fanOutVars []string        // link-significant instance vars, fixed order
	nfVars     map[string]bool // all instance vars
	switchVars map[string]bool
	companions map[string]string // gNB node id -> companion cell var
	controller map[string]bool   // controller node ids
}

func newRewriter(topo *topology.Topology, b *topology.Buckets,
	instances []nf.InstanceConfig, cells []spatial.AccessNode) *rewriter {

	rw := &rewriter{
		topo:       topo,
		buckets:    b,
		nfVars:     make(map[string]bool),
		switchVars: make(map[string]bool),
		companions: make(map[string]string),
		controller: make(map[string]bool),
	}
	if agg, ok := b.Aggregator(); ok {
		rw.aggregator = agg.ID
	}
	for _, role := range LinkSignificantRoles {
		for _, inst := range nf.InstancesOf(instances, role) {
			v := topology.SanitizeName(inst.Name)
			rw.fanOutVars = append(rw.fanOutVars, v)
		}
	}
	for _, inst := range instances {
		rw.nfVars[topology.SanitizeName(inst.Name)] = true
	}
	for _, sw := range b.Switches {
		rw.switchVars[topology.SanitizeName(sw.ID)] = true
	}
	for _, cell := range cells {
		if cell.FromGNB {
			rw.companions[cell.SourceNodeID] = cell.ID
		}
	}
	for _, c := range b.Controllers {
		rw.controller[c.ID] = true
	}
	return rw
}

// rewriteLinks applies the rewrite pass over every link in declaration
// order. Unresolvable and controller links are dropped with a diagnostic,
// never fatally.
func (rw *rewriter) rewriteLinks(summary *Summary) []LinkDecl {
	var out []LinkDecl
	for i := range rw.topo.Links {
		out = append(out, rw.rewriteOne(&rw.topo.Links[i], summary)...)
	}
	return out
}

func (rw *rewriter) rewriteOne(l *topology.Link, summary *Summary) []LinkDecl {
	if rw.isControllerEndpoint(l.Source) || rw.isControllerEndpoint(l.Destination) {
		rw.drop(summary, l, "controller links are attached out of band")
		return nil
	}

	cfg := topology.LinkConfigFrom(l)

	srcAgg := rw.aggregator != "" && l.Source == rw.aggregator
	dstAgg := rw.aggregator != "" && l.Destination == rw.aggregator
	if srcAgg && dstAgg {
		rw.drop(summary, l, "both endpoints are the aggregator")
		return nil
	}

	if srcAgg || dstAgg {
		peer := l.Source
		if srcAgg {
			peer = l.Destination
		}
		peerVar, ok := rw.resolveConcrete(peer)
		if !ok {
			rw.drop(summary, l, fmt.Sprintf("endpoint '%s' does not exist", peer))
			return nil
		}
		if len(rw.fanOutVars) == 0 {
			rw.drop(summary, l, "aggregator has no link-significant instances")
			return nil
		}
		var out []LinkDecl
		for _, instVar := range rw.fanOutVars {
			// The instance takes the aggregator's side of the link.
			if srcAgg {
				out = append(out, rw.canonical(instVar, peerVar, cfg))
			} else {
				out = append(out, rw.canonical(peerVar, instVar, cfg))
			}
		}
		return out
	}

	srcVar, ok := rw.resolveConcrete(l.Source)
	if !ok {
		rw.drop(summary, l, fmt.Sprintf("endpoint '%s' does not exist", l.Source))
		return nil
	}
	dstVar, ok := rw.resolveConcrete(l.Destination)
	if !ok {
		rw.drop(summary, l, fmt.Sprintf("endpoint '%s' does not exist", l.Destination))
		return nil
	}
	return []LinkDecl{rw.canonical(srcVar, dstVar, cfg)}
}

// resolveConcrete maps a node id to its emitted variable. A gNB with a
// synthesized cell resolves to the cell so stations can roam onto it.
func (rw *rewriter) resolveConcrete(id string) (string, bool) {
	if companion, ok := rw.companions[id]; ok {
		return companion, true
	}
	if _, ok := rw.topo.NodeByID(id); !ok {
		return "", false
	}
	return topology.SanitizeName(id), true
}

func (rw *rewriter) isControllerEndpoint(id string) bool {
	return rw.controller[id] || controllerPattern.MatchString(id)
}

// canonical orders a link's endpoints: the link-creation primitive is
// order-sensitive, and switches must come first when the peer is a core
// instance, a gNB or an access cell.
func (rw *rewriter) canonical(left, right string, cfg topology.LinkConfig) LinkDecl {
	if rw.switchVars[right] && rw.needsSwitchFirst(left) {
		left, right = right, left
	}
	return LinkDecl{
		Left:      left,
		Right:     right,
		Bandwidth: cfg.Bandwidth,
		Delay:     cfg.Delay,
		Loss:      cfg.Loss,
	}
}

func (rw *rewriter) needsSwitchFirst(peer string) bool {
	if rw.nfVars[peer] || companionPattern.MatchString(peer) {
		return true
	}
	for _, gnb := range rw.buckets.GNBs {
		if topology.SanitizeName(gnb.ID) == peer {
			return true
		}
	}
	return false
}

func (rw *rewriter) drop(summary *Summary, l *topology.Link, reason string) {
	msg := fmt.Sprintf("%s -> %s: %s", l.Source, l.Destination, reason)
	summary.DroppedLinks = append(summary.DroppedLinks, msg)
	logging.Warn("dropping link",
		logging.LinkEndpoints(l.Source, l.Destination),
		logging.String("reason", reason))
}
