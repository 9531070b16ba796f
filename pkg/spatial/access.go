package spatial

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// Default coverage radii in meters, used when a node declares no explicit
// range and carries no usable power value.
const (
	DefaultGNBRange = 300.0
	DefaultAPRange  = 116.0
)

// AccessNode is one attachable radio cell: a declared AP, or the companion
// cell synthesized for a gNB with its AP capability enabled.
type AccessNode struct {
	ID            string // emitted entity id, companion id for gNB cells
	SourceNodeID  string // topology node this cell came from
	SSID          string
	Channel       string
	Mode          string
	CoverageRange float64
	Pos           r2.Vec
	FromGNB       bool
}

// CollectAccessNodes gathers every attachable cell from the classified
// buckets: all declared APs first, then each gNB whose AP capability is
// enabled. gNB companions get ids ap101, ap102, ... in gNB declaration
// order so they never collide with user-declared AP names.
func CollectAccessNodes(b *topology.Buckets) []AccessNode {
	var out []AccessNode

	for _, ap := range b.AccessPoints {
		cfg := topology.APConfigFrom(ap)
		out = append(out, AccessNode{
			ID:            topology.SanitizeName(ap.ID),
			SourceNodeID:  ap.ID,
			SSID:          cfg.SSID,
			Channel:       cfg.Channel,
			Mode:          cfg.Mode,
			CoverageRange: apCoverage(cfg),
			Pos:           r2.Vec{X: ap.X, Y: ap.Y},
		})
	}

	companion := 0
	for _, gnb := range b.GNBs {
		cfg := topology.GNBConfigFrom(gnb)
		if !cfg.AP.Enabled {
			continue
		}
		companion++
		out = append(out, AccessNode{
			ID:            CompanionAPID(companion),
			SourceNodeID:  gnb.ID,
			SSID:          cfg.AP.SSID,
			Channel:       cfg.AP.Channel,
			Mode:          cfg.AP.Mode,
			CoverageRange: gnbCoverage(cfg),
			Pos:           r2.Vec{X: gnb.X, Y: gnb.Y},
			FromGNB:       true,
		})
	}
	return out
}

// CompanionAPID names the nth synthesized gNB cell (1-based).
func CompanionAPID(n int) string {
	return fmt.Sprintf("ap%d", 100+n)
}

// apCoverage resolves a declared AP's radius: explicit range first, then a
// power-derived estimate, then the role default.
func apCoverage(cfg topology.APConfig) float64 {
	if cfg.Range > 0 {
		return cfg.Range
	}
	if cfg.TxPower > 0 {
		return RangeFromPower(cfg.TxPower, RadioParams{FrequencyGHz: frequencyFor(cfg.Channel)})
	}
	return DefaultAPRange
}

// gnbCoverage resolves a gNB cell's radius from the gNB's own radio
// parameters, not the hotspot block: the hotspot rides on the gNB antenna.
func gnbCoverage(cfg topology.GNBConfig) float64 {
	if cfg.Range > 0 {
		return cfg.Range
	}
	if cfg.TxPower > 0 && cfg.TxPower != 30 {
		return RangeFromPower(cfg.TxPower, RadioParams{FrequencyGHz: 3.5})
	}
	return DefaultGNBRange
}

func frequencyFor(channel string) float64 {
	var ch int
	if _, err := fmt.Sscanf(channel, "%d", &ch); err != nil {
		return DefaultFrequencyGHz
	}
	return FrequencyForChannel(ch)
}
