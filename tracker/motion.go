package tracker

// motionModel predicts a track's next-frame bounding box from its
// history.  One instance per track, created by the tracker's strategy
// at spawn time.  predict advances the state by one frame and always
// returns a valid, non-degenerate box; correct folds in the box of a
// matched detection.
type motionModel interface {
	predict() Rect
	correct(meas Rect) error
	current() Rect
	clone() motionModel
}

// ewmaMotion is a constant-velocity estimate without uncertainty
// modelling, used by the geometry-only strategy.  The predicted center
// moves by the current velocity each frame; the velocity is updated on
// every match as an exponentially-weighted average of the per-frame
// center displacement since the previous match.
type ewmaMotion struct {
	// alpha is the smoothing weight given to the newest displacement
	alpha float32
	rect  Rect
	vx    float32
	vy    float32
	// last is the center of the previous matched detection
	last Point
	// gap counts predicted frames since the previous match
	gap int
}

func newEwmaMotion(alpha float32, r Rect) *ewmaMotion {
	return &ewmaMotion{
		alpha: alpha,
		rect:  r.clamp(),
		last:  r.Center(),
	}
}

func (m *ewmaMotion) predict() Rect {
	m.rect = m.rect.translate(m.vx, m.vy).clamp()
	m.gap++
	return m.rect
}

func (m *ewmaMotion) correct(meas Rect) error {

	c := meas.Center()

	// displacement is normalized per frame so re-acquiring a track
	// after several predicted frames does not spike the velocity
	if m.gap > 0 {
		dx := (c.X - m.last.X) / float32(m.gap)
		dy := (c.Y - m.last.Y) / float32(m.gap)

		m.vx = m.alpha*dx + (1-m.alpha)*m.vx
		m.vy = m.alpha*dy + (1-m.alpha)*m.vy
	}

	m.rect = meas.clamp()
	m.last = c
	m.gap = 0

	return nil
}

func (m *ewmaMotion) current() Rect {
	return m.rect
}

func (m *ewmaMotion) clone() motionModel {
	c := *m
	return &c
}
