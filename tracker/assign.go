package tracker

import (
	"fmt"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/reid"
)

// assignment is the outcome of one association round: matched
// (track index, detection index) pairs plus the leftovers on each side.
type assignment struct {
	matches         [][2]int
	unmatchedTracks []int
	unmatchedDets   []int
}

// buildCostMatrix prices every (track, detection) pair.  The geometric
// term is one minus the IoU of the predicted track box and the
// detection box; when a distance function is supplied and both sides
// carry descriptors, an appearance term (minimum distance over the
// track's history) is blended in by weight.  Pairs below the IoU gate
// or above the cost ceiling are priced out of candidacy entirely, so
// the solver can never assign a detection to a track it is nowhere
// near, even as a least-bad option.
func buildCostMatrix(tracks []*Track, dets []Detection, cfg Config,
	dist reid.DistanceFunc) [][]float32 {

	if len(tracks) == 0 || len(dets) == 0 {
		return nil
	}

	// any cost above the ceiling is excluded by the solver's limit
	gated := cfg.CostCeiling + 1

	m := make([][]float32, len(tracks))

	for i, t := range tracks {
		m[i] = make([]float32, len(dets))

		for j, d := range dets {

			iou := t.rect.IoU(d.Rect)

			if iou < cfg.IoUGate {
				m[i][j] = gated
				continue
			}

			c := 1 - iou

			if dist != nil {
				if ad, ok := t.bestFeatureDistance(d.Feature, dist); ok {
					c = (1-cfg.AppearanceWeight)*c + cfg.AppearanceWeight*ad
				}
			}

			if c > cfg.CostCeiling {
				c = gated
			}

			m[i][j] = c
		}
	}

	return m
}

// associate solves the minimum-cost bipartite matching over the
// surviving candidate pairs.  Rows arrive in registry insertion order
// (ascending track sequence), so equal-cost ties deterministically
// resolve to the lower track identifier.
func associate(cost [][]float32, nTracks, nDets int,
	costLimit float32) (assignment, error) {

	var as assignment

	if len(cost) == 0 {
		for i := 0; i < nTracks; i++ {
			as.unmatchedTracks = append(as.unmatchedTracks, i)
		}
		for j := 0; j < nDets; j++ {
			as.unmatchedDets = append(as.unmatchedDets, j)
		}
		return as, nil
	}

	rowsol, colsol, err := solveAssignment(cost, costLimit)

	if err != nil {
		return as, fmt.Errorf("linear assignment: %w", err)
	}

	for i, sol := range rowsol {
		if sol >= 0 {
			as.matches = append(as.matches, [2]int{i, sol})
		} else {
			as.unmatchedTracks = append(as.unmatchedTracks, i)
		}
	}

	for j, sol := range colsol {
		if sol < 0 {
			as.unmatchedDets = append(as.unmatchedDets, j)
		}
	}

	return as, nil
}
