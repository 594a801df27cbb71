package tracker

// registry is the set of live tracks for one camera.  Iteration order
// is insertion order (ascending track sequence), which the association
// engine relies on for deterministic cost-matrix construction and
// tie-breaking.  A registry belongs to exactly one tracker and is never
// shared across cameras.
type registry struct {
	tracks []*Track
}

// add appends a newly spawned track.
func (r *registry) add(t *Track) {
	r.tracks = append(r.tracks, t)
}

// alive returns the tracks participating in the next matching round, in
// insertion order.
func (r *registry) alive() []*Track {
	return r.tracks
}

// size returns the number of live tracks.
func (r *registry) size() int {
	return len(r.tracks)
}

// compact evicts removed tracks, preserving insertion order, and
// returns how many were dropped.
func (r *registry) compact() int {

	kept := r.tracks[:0]

	for _, t := range r.tracks {
		if t.state != Removed {
			kept = append(kept, t)
		}
	}

	dropped := len(r.tracks) - len(kept)

	// clear trailing slots so evicted tracks can be collected
	for i := len(kept); i < len(r.tracks); i++ {
		r.tracks[i] = nil
	}

	r.tracks = kept

	return dropped
}

// snapshot deep-copies the registry so an aborted round can be rolled
// back to its pre-round state.
func (r *registry) snapshot() []*Track {

	s := make([]*Track, len(r.tracks))

	for i, t := range r.tracks {
		s[i] = t.clone()
	}

	return s
}

// restore replaces the registry contents with a snapshot.
func (r *registry) restore(s []*Track) {
	r.tracks = s
}

// clear drops every track.
func (r *registry) clear() {
	r.tracks = nil
}
