package tracker

import (
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/RuthlessHLS/SmartEye-Station-Guard-sub001/reid"
)

// Manager owns one tracker per camera.  The camera to tracker mapping
// is the only structure touched by more than one camera's pipeline, so
// it is the only synchronized state; each tracker remains camera-local
// and unsynchronized.  Cleanup is explicit: ReleaseTracker must be
// called when a camera's stream stops, there is no background eviction.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	trackers map[string]*Tracker
	// model is the re-identification model; nil routes every camera to
	// the geometry-only fallback strategy
	model     *reid.Model
	modelPath string
	log       *slog.Logger
	metrics   *Metrics
	// session tags log lines from this manager instance
	session string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}

// WithModel sets an already loaded re-identification model, enabling
// the appearance strategy for cameras created afterwards.
func WithModel(model *reid.Model) Option {
	return func(m *Manager) {
		m.model = model
	}
}

// WithModelFile loads the re-identification model manifest from path.
// A missing or unreadable model is not fatal: it is logged once and
// every camera falls back to the geometry-only strategy.
func WithModelFile(path string) Option {
	return func(m *Manager) {
		m.modelPath = path
	}
}

// WithMetrics attaches a metrics collector shared by all trackers.
func WithMetrics(metrics *Metrics) Option {
	return func(m *Manager) {
		m.metrics = metrics
	}
}

// NewManager creates a Manager.  The strategy for each camera is fixed
// at the camera's first frame from the model availability decided here.
func NewManager(cfg Config, opts ...Option) *Manager {

	m := &Manager{
		cfg:      cfg.withDefaults(),
		trackers: make(map[string]*Tracker),
		log:      slog.Default(),
		session:  uuid.NewString(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.model == nil && m.modelPath != "" {

		model, err := reid.Load(m.modelPath)

		if err != nil {
			// logged once; cameras silently degrade to geometry-only
			m.log.Warn("re-id model unavailable, using geometry-only fallback",
				"path", m.modelPath, "error", err, "session", m.session)
		} else {
			m.model = model
		}
	}

	return m
}

// GetTracker returns the tracker bound to the camera, creating it on
// first use.  The strategy decision is made once here and holds for the
// camera's whole session.
func (m *Manager) GetTracker(cameraID string) *Tracker {

	m.mu.RLock()
	tk, ok := m.trackers[cameraID]
	m.mu.RUnlock()

	if ok {
		return tk
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// another pipeline may have created it between the locks
	if tk, ok := m.trackers[cameraID]; ok {
		return tk
	}

	if m.model != nil {
		tk = NewAppearanceTracker(m.cfg, m.model)
	} else {
		tk = NewGeometryTracker(m.cfg)
	}

	tk.metrics = m.metrics
	m.trackers[cameraID] = tk
	m.metrics.addCameras(1)

	m.log.Info("camera tracker created",
		"camera", cameraID, "strategy", tk.Strategy().String(),
		"session", m.session)

	return tk
}

// ReleaseTracker discards the camera's tracker and all of its tracks,
// freeing the appearance history memory.  A later GetTracker for the
// same camera starts a fresh session with no memory of prior tracks.
func (m *Manager) ReleaseTracker(cameraID string) {

	m.mu.Lock()
	tk, ok := m.trackers[cameraID]
	if ok {
		delete(m.trackers, cameraID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}

	tracks := tk.Size()
	tk.Reset()
	m.metrics.addCameras(-1)

	m.log.Info("camera tracker released",
		"camera", cameraID, "tracks_freed", tracks, "session", m.session)
}

// ReleaseAll releases every camera's tracker.
func (m *Manager) ReleaseAll() {
	for _, id := range m.Cameras() {
		m.ReleaseTracker(id)
	}
}

// Cameras returns the identifiers of cameras with a bound tracker,
// sorted for stable output.
func (m *Manager) Cameras() []string {

	m.mu.RLock()
	out := make([]string, 0, len(m.trackers))

	for id := range m.trackers {
		out = append(out, id)
	}
	m.mu.RUnlock()

	sort.Strings(out)

	return out
}
