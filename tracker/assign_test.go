package tracker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/reid"
)

func testModel() *reid.Model {
	return &reid.Model{Name: "stub", Dim: 4, Method: reid.Cosine}
}

func featureTrack(seq int, r Rect, feat []float32) *Track {

	cfg := DefaultConfig()

	det := Detection{Rect: r, Label: "person", Score: 0.9, Feature: feat}

	return newTrack(seq, "reid", det, newEwmaMotion(cfg.VelocityAlpha, r), cfg)
}

func TestCostMatrixGatesDistantPairs(t *testing.T) {

	cfg := DefaultConfig()

	tr := featureTrack(1, NewRect(0, 0, 100, 100), nil)
	far := NewDetection(5000, 5000, 5100, 5100, "person", 0.9)

	cost := buildCostMatrix([]*Track{tr}, []Detection{far}, cfg, nil)

	require.Len(t, cost, 1)
	assert.Greater(t, cost[0][0], cfg.CostCeiling,
		"zero-overlap pair must be priced out of candidacy")

	as, err := associate(cost, 1, 1, cfg.CostCeiling)
	require.NoError(t, err)

	assert.Empty(t, as.matches)
	assert.Equal(t, []int{0}, as.unmatchedTracks)
	assert.Equal(t, []int{0}, as.unmatchedDets)
}

func TestCostMatrixOverlapPriced(t *testing.T) {

	cfg := DefaultConfig()

	tr := featureTrack(1, NewRect(0, 0, 100, 100), nil)
	same := NewDetection(0, 0, 100, 100, "person", 0.9)

	cost := buildCostMatrix([]*Track{tr}, []Detection{same}, cfg, nil)

	require.Len(t, cost, 1)
	assert.InDelta(t, 0.0, float64(cost[0][0]), 1e-5, "perfect overlap costs nothing")
}

func TestCostMatrixAppearanceSteersMatch(t *testing.T) {

	cfg := DefaultConfig()
	model := testModel()

	// track remembers a [1,0,0,0] appearance
	tr := featureTrack(1, NewRect(0, 0, 100, 100), []float32{1, 0, 0, 0})

	// both candidates overlap the track identically; only the
	// descriptor tells them apart
	stranger := NewDetection(0, 0, 100, 100, "person", 0.9)
	stranger.Feature = []float32{0, 1, 0, 0}

	match := NewDetection(0, 0, 100, 100, "person", 0.9)
	match.Feature = []float32{1, 0, 0, 0}

	cost := buildCostMatrix([]*Track{tr}, []Detection{stranger, match},
		cfg, model.DistanceFunc())

	require.Len(t, cost, 1)
	assert.Less(t, cost[0][1], cost[0][0],
		"matching descriptor must price below the stranger")

	as, err := associate(cost, 1, 2, cfg.CostCeiling)
	require.NoError(t, err)

	require.Len(t, as.matches, 1)
	assert.Equal(t, [2]int{0, 1}, as.matches[0])
}

func TestCostMatrixMissingFeatureFallsBackToOverlap(t *testing.T) {

	cfg := DefaultConfig()
	model := testModel()

	// track has no appearance history: the blend is skipped, not zeroed
	tr := featureTrack(1, NewRect(0, 0, 100, 100), nil)

	det := NewDetection(0, 0, 100, 100, "person", 0.9)
	det.Feature = []float32{0, 1, 0, 0}

	cost := buildCostMatrix([]*Track{tr}, []Detection{det}, cfg,
		model.DistanceFunc())

	require.Len(t, cost, 1)
	assert.InDelta(t, 0.0, float64(cost[0][0]), 1e-5)
}

func TestAssociateEmptySides(t *testing.T) {

	cfg := DefaultConfig()

	as, err := associate(nil, 0, 3, cfg.CostCeiling)
	require.NoError(t, err)
	assert.Empty(t, as.matches)
	assert.Equal(t, []int{0, 1, 2}, as.unmatchedDets)

	as, err = associate(nil, 2, 0, cfg.CostCeiling)
	require.NoError(t, err)
	assert.Empty(t, as.matches)
	assert.Equal(t, []int{0, 1}, as.unmatchedTracks)
}

// TestAssociateTieDeterministic verifies that a cost matrix with exact
// ties resolves identically on every solve, so replaying a recording
// always reproduces the same identities.
func TestAssociateTieDeterministic(t *testing.T) {

	cfg := DefaultConfig()

	cost := [][]float32{
		{0.2, 0.2},
		{0.2, 0.2},
	}

	first, err := associate(cost, 2, 2, cfg.CostCeiling)
	require.NoError(t, err)
	require.Len(t, first.matches, 2)

	for i := 0; i < 50; i++ {
		again, err := associate(cost, 2, 2, cfg.CostCeiling)
		require.NoError(t, err)

		if diff := cmp.Diff(first, again,
			cmp.AllowUnexported(assignment{})); diff != "" {
			t.Fatalf("tied costs resolved differently on solve %d:\n%s", i, diff)
		}
	}
}
