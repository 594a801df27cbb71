package tracker

import (
	"errors"
	"fmt"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/reid"
)

// ErrRoundAborted is returned when an internal failure interrupts a
// matching round.  The registry is rolled back to its pre-round state
// and the frame must be considered unprocessed by the caller.
var ErrRoundAborted = errors.New("tracking round aborted")

// Strategy identifies which association strategy a tracker was built
// with.  It is fixed for the tracker's whole lifetime.
type Strategy int

const (
	// StrategyAppearance blends re-identification descriptor distance
	// into the association cost.  The default when the re-id model is
	// available.
	StrategyAppearance Strategy = iota
	// StrategyGeometry associates on spatial overlap only.  The silent
	// degrade when the re-id model cannot be initialized.
	StrategyGeometry
)

// String returns the strategy name used in logs.
func (s Strategy) String() string {
	if s == StrategyAppearance {
		return "appearance"
	}
	return "geometry"
}

// prefix returns the track identifier namespace, so downstream
// consumers can tell which strategy produced an identity.
func (s Strategy) prefix() string {
	if s == StrategyAppearance {
		return "reid"
	}
	return "iou"
}

// Tracker runs the matching rounds for a single camera.  The strategy
// (cost terms, motion model, identifier namespace) is decided once at
// construction.  A Tracker is not safe for concurrent use: each
// camera's frame pipeline is its single writer, and frames must arrive
// in order.
type Tracker struct {
	cfg      Config
	strategy Strategy
	reg      registry
	// nextSeq issues track sequence numbers, monotonic per camera and
	// never reused within a session
	nextSeq int
	// dist is nil for the geometry strategy
	dist reid.DistanceFunc
	// kf is the shared filter for appearance-strategy tracks
	kf      *KalmanFilter
	metrics *Metrics
}

// NewAppearanceTracker creates a tracker using the appearance-aware
// strategy backed by the given re-identification model.
func NewAppearanceTracker(cfg Config, model *reid.Model) *Tracker {

	cfg = cfg.withDefaults()

	return &Tracker{
		cfg:      cfg,
		strategy: StrategyAppearance,
		dist:     model.DistanceFunc(),
		kf:       NewKalmanFilter(cfg.StdWeightPosition, cfg.StdWeightVelocity),
	}
}

// NewGeometryTracker creates a tracker using the geometry-only fallback
// strategy.
func NewGeometryTracker(cfg Config) *Tracker {
	return &Tracker{
		cfg:      cfg.withDefaults(),
		strategy: StrategyGeometry,
	}
}

// Strategy returns the strategy the tracker was built with.
func (tk *Tracker) Strategy() Strategy {
	return tk.strategy
}

// Size returns the number of live tracks, tentative and lost included.
func (tk *Tracker) Size() int {
	return tk.reg.size()
}

// Tracks returns the live tracks in creation order.  Exposed for
// diagnostics; callers must not mutate.
func (tk *Tracker) Tracks() []*Track {
	return tk.reg.alive()
}

// Reset drops every track.  Sequence numbers keep counting so released
// identifiers are never reused within the camera session.
func (tk *Tracker) Reset() {
	tk.reg.clear()
}

// Update runs one matching round against the detections of a new frame
// and returns the confirmed tracks.  Fewer confirmed tracks is always a
// valid outcome and never an error; an error means the round was
// aborted, the registry rolled back, and the frame not processed.
func (tk *Tracker) Update(dets []Detection) ([]Report, error) {

	// drop malformed detections before the round
	valid := make([]Detection, 0, len(dets))

	for _, d := range dets {
		if d.valid() {
			valid = append(valid, d)
		} else {
			tk.metrics.incDetectionsDropped()
		}
	}

	backup := tk.reg.snapshot()

	// advance every live track's predicted box, lost tracks included
	tracks := tk.reg.alive()

	for _, t := range tracks {
		t.predict()
	}

	cost := buildCostMatrix(tracks, valid, tk.cfg, tk.dist)

	as, err := associate(cost, len(tracks), len(valid), tk.cfg.CostCeiling)

	if err != nil {
		tk.reg.restore(backup)
		tk.metrics.incRoundsAborted()
		return nil, fmt.Errorf("%w: %v", ErrRoundAborted, err)
	}

	for _, m := range as.matches {

		t := tracks[m[0]]
		wasConfirmed := t.state == Confirmed

		if err := t.observe(valid[m[1]], tk.cfg.ConfirmHits); err != nil {
			tk.reg.restore(backup)
			tk.metrics.incRoundsAborted()
			return nil, fmt.Errorf("%w: %v", ErrRoundAborted, err)
		}

		if !wasConfirmed && t.state == Confirmed {
			tk.metrics.incTracksConfirmed()
		}
	}

	for _, ti := range as.unmatchedTracks {
		tracks[ti].miss(tk.cfg.MaxAge)
	}

	// unmatched detections at or above the spawn confidence become new
	// tentative tracks; the rest are dropped silently
	for _, di := range as.unmatchedDets {

		d := valid[di]

		if d.Score < tk.cfg.SpawnScore {
			tk.metrics.incDetectionsIgnored()
			continue
		}

		tk.spawn(d)
	}

	removed := tk.reg.compact()
	tk.metrics.addTracksRemoved(removed)
	tk.metrics.incFrames()

	return tk.report(), nil
}

// spawn creates a new tentative track from an unmatched detection.
func (tk *Tracker) spawn(d Detection) {

	tk.nextSeq++

	var motion motionModel

	if tk.strategy == StrategyAppearance {
		motion = newKalmanMotion(tk.kf, d.Rect)
	} else {
		motion = newEwmaMotion(tk.cfg.VelocityAlpha, d.Rect)
	}

	tk.reg.add(newTrack(tk.nextSeq, tk.strategy.prefix(), d, motion, tk.cfg))
	tk.metrics.incTracksCreated()
}

// report lists the confirmed tracks in creation order.  Tentative and
// lost tracks are withheld from the sink.
func (tk *Tracker) report() []Report {

	out := make([]Report, 0, tk.reg.size())

	for _, t := range tk.reg.alive() {

		if t.state != Confirmed {
			continue
		}

		out = append(out, Report{
			TrackID:     t.id,
			Rect:        t.rect,
			Label:       t.label,
			Score:       t.score,
			DetectionID: t.detectionID,
		})
	}

	return out
}
