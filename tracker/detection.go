package tracker

// Detection is one object reported by the upstream detector for a single
// frame.  Detections are consumed during the matching round and not
// retained afterwards; the optional appearance Feature is copied into
// the matched track's bounded history.
type Detection struct {
	// Rect is the detection bounding box
	Rect Rect
	// Label is the detector class label, eg: "person"
	Label string
	// Score is the detector confidence in [0, 1]
	Score float32
	// Feature is an optional appearance descriptor produced by the
	// re-identification model, L2-normalized on first use
	Feature []float32
	// ID is the detector's own identifier for this detection, echoed
	// back on the matching Report so callers can join input to output
	ID int64
}

// NewDetection creates a Detection from detector corner coordinates.
func NewDetection(x1, y1, x2, y2 float32, label string, score float32) Detection {
	return Detection{
		Rect:  NewRectTLBR(x1, y1, x2, y2),
		Label: label,
		Score: score,
	}
}

// valid reports whether the detection box is usable for association.
// Malformed boxes are dropped from the round without affecting other
// detections or existing tracks.
func (d Detection) valid() bool {
	return d.Rect.isFinite() && d.Rect.W > 0 && d.Rect.H > 0
}

// Report is one tracked object emitted to the downstream sink after a
// matching round.  Only confirmed tracks are reported.
type Report struct {
	// TrackID is the stable strategy-prefixed identifier, eg: "reid-7"
	TrackID string
	// Rect is the track's current bounding box
	Rect Rect
	// Label is the object class label
	Label string
	// Score is the confidence of the most recent matched detection
	Score float32
	// DetectionID is the detector ID of the most recent matched
	// detection
	DetectionID int64
}
