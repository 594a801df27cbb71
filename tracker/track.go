package tracker

import (
	"fmt"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/reid"
)

// TrackState is the lifecycle state of a tracked object.
type TrackState int

const (
	// Tentative is a newly created track that has not yet been matched
	// in enough consecutive rounds to be reported
	Tentative TrackState = iota
	// Confirmed is an established track, reported to the sink
	Confirmed
	// Lost is a confirmed track that went unmatched; it is advanced by
	// prediction only while it waits out the age window
	Lost
	// Removed is terminal; the registry evicts the track at the end of
	// the round
	Removed
)

// String returns the state name used in logs.
func (s TrackState) String() string {
	switch s {
	case Tentative:
		return "tentative"
	case Confirmed:
		return "confirmed"
	case Lost:
		return "lost"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// Track is one followed object on a single camera.  It is created and
// mutated only by its owning tracker during a matching round.
type Track struct {
	// seq is the per-camera creation sequence number, never reused
	seq int
	// id is the strategy-prefixed public identifier
	id string
	// state machine
	state TrackState
	// hits counts consecutive matched rounds
	hits int
	// misses counts consecutive unmatched rounds once lost
	misses int
	// rect is the current box: last matched detection folded through
	// the motion model, or prediction only while lost
	rect   Rect
	motion motionModel
	label  string
	score  float32
	// detectionID is the detector ID of the most recent match
	detectionID int64
	// features is the bounded appearance history, oldest evicted first
	features [][]float32
	// smooth is the exponentially smoothed feature (re-normalized)
	smooth       []float32
	maxFeatures  int
	featureAlpha float32
}

func newTrack(seq int, prefix string, det Detection, motion motionModel,
	cfg Config) *Track {

	t := &Track{
		seq:          seq,
		id:           fmt.Sprintf("%s-%d", prefix, seq),
		state:        Tentative,
		hits:         1,
		rect:         motion.current(),
		motion:       motion,
		label:        det.Label,
		score:        det.Score,
		detectionID:  det.ID,
		maxFeatures:  cfg.FeatureHistory,
		featureAlpha: cfg.FeatureAlpha,
	}

	t.pushFeature(det.Feature)

	return t
}

// ID returns the stable strategy-prefixed identifier.
func (t *Track) ID() string {
	return t.id
}

// State returns the current lifecycle state.
func (t *Track) State() TrackState {
	return t.state
}

// Rect returns the current bounding box.
func (t *Track) Rect() Rect {
	return t.rect
}

// Label returns the object class label.
func (t *Track) Label() string {
	return t.label
}

// Score returns the confidence of the most recent matched detection.
func (t *Track) Score() float32 {
	return t.score
}

// predict advances the track's box one frame via its motion model.
func (t *Track) predict() {
	t.rect = t.motion.predict()
}

// observe folds a matched detection into the track and applies the
// matched state transition.
func (t *Track) observe(det Detection, confirmHits int) error {

	if err := t.motion.correct(det.Rect); err != nil {
		return fmt.Errorf("track %s: %w", t.id, err)
	}

	t.rect = t.motion.current()
	t.score = det.Score
	t.detectionID = det.ID
	t.hits++
	t.misses = 0

	switch t.state {
	case Tentative:
		if t.hits >= confirmHits {
			t.state = Confirmed
		}
	case Lost:
		// re-acquired within the age window, identity preserved
		t.state = Confirmed
	}

	t.pushFeature(det.Feature)

	return nil
}

// miss applies the unmatched state transition.  Tentative tracks get no
// grace; confirmed tracks enter the lost state and are removed once the
// miss count reaches maxAge.
func (t *Track) miss(maxAge int) {

	switch t.state {
	case Tentative:
		t.state = Removed
	case Confirmed:
		t.state = Lost
		t.misses = 1
		t.hits = 0
	case Lost:
		t.misses++
		if t.misses >= maxAge {
			t.state = Removed
		}
	}
}

// pushFeature appends a normalized appearance descriptor to the bounded
// history, evicting the oldest entry past the depth limit, and folds it
// into the smoothed feature.
func (t *Track) pushFeature(feat []float32) {

	if len(feat) == 0 || t.maxFeatures <= 0 {
		return
	}

	norm := reid.Normalize(feat)

	if t.smooth == nil {
		t.smooth = make([]float32, len(norm))
		copy(t.smooth, norm)
	} else if len(t.smooth) == len(norm) {
		for i := range norm {
			t.smooth[i] = t.featureAlpha*t.smooth[i] + (1-t.featureAlpha)*norm[i]
		}
		t.smooth = reid.Normalize(t.smooth)
	}

	t.features = append(t.features, norm)

	if len(t.features) > t.maxFeatures {
		t.features = t.features[1:]
	}
}

// bestFeatureDistance returns the minimum distance between the given
// descriptor and the track's stored history.  The minimum, not the
// average, tolerates pose variation across the history.  ok is false
// when no comparable descriptor exists on either side.
func (t *Track) bestFeatureDistance(feat []float32,
	dist reid.DistanceFunc) (float32, bool) {

	if len(feat) == 0 || len(t.features) == 0 {
		return 0, false
	}

	norm := reid.Normalize(feat)

	best := float32(0)
	found := false

	for _, f := range t.features {

		if len(f) != len(norm) {
			continue
		}

		d := dist(f, norm)

		if !found || d < best {
			best = d
			found = true
		}
	}

	return best, found
}

// clone deep-copies the track for the pre-round snapshot.
func (t *Track) clone() *Track {

	c := *t
	c.motion = t.motion.clone()

	c.features = make([][]float32, len(t.features))
	for i, f := range t.features {
		c.features[i] = append([]float32(nil), f...)
	}

	c.smooth = append([]float32(nil), t.smooth...)

	return &c
}
