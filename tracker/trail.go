package tracker

import "sync"

// Trail keeps a bounded history of reported track center points, used
// by downstream consumers for drawing movement trails on overlays.
type Trail struct {
	// size is the maximum number of most recent points kept per track
	size int
	// history of center points keyed by track identifier
	history map[string][]Point
	sync.Mutex
}

// NewTrail returns a new trail history instance keeping at most size
// points per track.
func NewTrail(size int) *Trail {
	return &Trail{
		size:    size,
		history: make(map[string][]Point),
	}
}

// Reset clears all history.
func (t *Trail) Reset() {
	t.Lock()
	defer t.Unlock()

	t.history = make(map[string][]Point)
}

// Add appends the report's box center to its track history, dropping
// the oldest point once the size limit is exceeded.
func (t *Trail) Add(rep Report) {
	t.Lock()
	defer t.Unlock()

	points := append(t.history[rep.TrackID], rep.Rect.Center())

	if len(points) > t.size {
		points = points[1:]
	}

	t.history[rep.TrackID] = points
}

// Points returns the center point history for a track identifier, or
// nil when the track has no history yet.
func (t *Trail) Points(id string) []Point {
	t.Lock()
	defer t.Unlock()

	return t.history[id]
}

// Forget drops the history of a single track, typically after its
// removal has been observed downstream.
func (t *Trail) Forget(id string) {
	t.Lock()
	defer t.Unlock()

	delete(t.history, id)
}
