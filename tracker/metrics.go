package tracker

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics collects tracking counters across all cameras of a Manager.
// Counters are plain atomics sampled by a private Prometheus registry,
// so the hot path never touches Prometheus directly.  A nil *Metrics is
// valid and disables collection.
type Metrics struct {
	// FramesProcessed counts completed matching rounds
	FramesProcessed atomic.Uint64
	// RoundsAborted counts rounds rolled back by internal failures
	RoundsAborted atomic.Uint64
	// DetectionsDropped counts malformed detections discarded on ingest
	DetectionsDropped atomic.Uint64
	// DetectionsIgnored counts unmatched detections below the spawn
	// confidence
	DetectionsIgnored atomic.Uint64
	// TracksCreated counts tentative tracks spawned
	TracksCreated atomic.Uint64
	// TracksConfirmed counts tentative or lost tracks promoted to
	// confirmed
	TracksConfirmed atomic.Uint64
	// TracksRemoved counts tracks evicted from registries
	TracksRemoved atomic.Uint64
	// ActiveCameras is the number of cameras with a bound tracker
	ActiveCameras atomic.Int64

	registry *prometheus.Registry
}

// NewMetrics creates a Metrics instance with its Prometheus collectors
// registered.
func NewMetrics() *Metrics {

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	gauges := []struct {
		name string
		help string
		fn   func() float64
	}{
		{
			"smarteye_tracker_frames_processed_total",
			"Completed matching rounds across all cameras",
			func() float64 { return float64(m.FramesProcessed.Load()) },
		},
		{
			"smarteye_tracker_rounds_aborted_total",
			"Matching rounds aborted and rolled back",
			func() float64 { return float64(m.RoundsAborted.Load()) },
		},
		{
			"smarteye_tracker_detections_dropped_total",
			"Malformed detections discarded on ingest",
			func() float64 { return float64(m.DetectionsDropped.Load()) },
		},
		{
			"smarteye_tracker_detections_ignored_total",
			"Unmatched detections below the spawn confidence",
			func() float64 { return float64(m.DetectionsIgnored.Load()) },
		},
		{
			"smarteye_tracker_tracks_created_total",
			"Tentative tracks spawned",
			func() float64 { return float64(m.TracksCreated.Load()) },
		},
		{
			"smarteye_tracker_tracks_confirmed_total",
			"Tracks promoted to confirmed",
			func() float64 { return float64(m.TracksConfirmed.Load()) },
		},
		{
			"smarteye_tracker_tracks_removed_total",
			"Tracks evicted from registries",
			func() float64 { return float64(m.TracksRemoved.Load()) },
		},
		{
			"smarteye_tracker_active_cameras",
			"Cameras with a bound tracker",
			func() float64 { return float64(m.ActiveCameras.Load()) },
		},
	}

	for _, g := range gauges {
		m.registry.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{Name: g.name, Help: g.help}, g.fn))
	}

	return m
}

// Handler returns the Prometheus scrape handler for this collector.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) incFrames() {
	if m != nil {
		m.FramesProcessed.Add(1)
	}
}

func (m *Metrics) incRoundsAborted() {
	if m != nil {
		m.RoundsAborted.Add(1)
	}
}

func (m *Metrics) incDetectionsDropped() {
	if m != nil {
		m.DetectionsDropped.Add(1)
	}
}

func (m *Metrics) incDetectionsIgnored() {
	if m != nil {
		m.DetectionsIgnored.Add(1)
	}
}

func (m *Metrics) incTracksCreated() {
	if m != nil {
		m.TracksCreated.Add(1)
	}
}

func (m *Metrics) incTracksConfirmed() {
	if m != nil {
		m.TracksConfirmed.Add(1)
	}
}

func (m *Metrics) addTracksRemoved(n int) {
	if m != nil && n > 0 {
		m.TracksRemoved.Add(uint64(n))
	}
}

func (m *Metrics) addCameras(n int64) {
	if m != nil {
		m.ActiveCameras.Add(n)
	}
}
