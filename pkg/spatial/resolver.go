package spatial

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/logging"
	"github.com/adaptivenetworklab/NetFlux5G-sub000/pkg/topology"
)

// Policy controls what happens to a mobile node with no in-range cell.
type Policy string

const (
	// NearestFallback attaches the node to the nearest cell regardless of
	// coverage and flags the association out-of-range. Every mobile node
	// always gets an association.
	NearestFallback Policy = "nearest-fallback"
	// StrictCoverage leaves such nodes unassociated.
	StrictCoverage Policy = "strict-coverage"
)

// Association binds one mobile node to the cell it should attach to.
type Association struct {
	MobileID     string
	AccessNodeID string
	SSID         string
	Distance     float64
	InRange      bool
}

// Resolve assigns every mobile node to an access node. Within coverage the
// nearest cell wins, ties broken by encounter order. Out of coverage the
// policy decides: fall back to the nearest cell overall, or skip the node.
// Results follow mobile declaration order so downstream output stays
// deterministic.
func Resolve(mobiles []*topology.Node, cells []AccessNode, policy Policy) []Association {
	if len(cells) == 0 {
		return nil
	}

	var out []Association
	for _, m := range mobiles {
		pos := r2.Vec{X: m.X, Y: m.Y}

		bestIdx, bestDist := -1, 0.0
		nearestIdx, nearestDist := -1, 0.0
		for i := range cells {
			d := r2.Norm(r2.Sub(pos, cells[i].Pos))
			if nearestIdx < 0 || d < nearestDist {
				nearestIdx, nearestDist = i, d
			}
			if d <= cells[i].CoverageRange && (bestIdx < 0 || d < bestDist) {
				bestIdx, bestDist = i, d
			}
		}

		switch {
		case bestIdx >= 0:
			out = append(out, Association{
				MobileID:     topology.SanitizeName(m.ID),
				AccessNodeID: cells[bestIdx].ID,
				SSID:         cells[bestIdx].SSID,
				Distance:     bestDist,
				InRange:      true,
			})
		case policy == NearestFallback:
			out = append(out, Association{
				MobileID:     topology.SanitizeName(m.ID),
				AccessNodeID: cells[nearestIdx].ID,
				SSID:         cells[nearestIdx].SSID,
				Distance:     nearestDist,
				InRange:      false,
			})
			logging.Warn("mobile node out of coverage, attaching to nearest cell",
				logging.NodeID(m.ID), logging.String("cell", cells[nearestIdx].ID),
				logging.Float64("distance", nearestDist))
		default:
			logging.Warn("mobile node out of coverage, left unassociated",
				logging.NodeID(m.ID))
		}
	}
	return out
}
