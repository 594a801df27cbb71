package tracker

// Config holds the tunables of the tracking core.  The zero value of
// any field is replaced by its default, so callers only set what they
// need to change.
type Config struct {
	// ConfirmHits is the number of consecutive matched rounds a new
	// track needs before it is confirmed and reported
	ConfirmHits int
	// MaxAge is the number of consecutive unmatched frames a confirmed
	// track survives in the lost state before removal
	MaxAge int
	// FeatureHistory is the per-track appearance descriptor history
	// depth, oldest evicted first
	FeatureHistory int
	// IoUGate is the minimum overlap between a predicted track box and
	// a detection for the pair to be a match candidate at all
	IoUGate float32
	// CostCeiling is the maximum blended association cost for a pair
	// to remain a candidate
	CostCeiling float32
	// SpawnScore is the minimum detection confidence required to create
	// a new track from an unmatched detection
	SpawnScore float32
	// AppearanceWeight is the appearance term's share of the blended
	// cost for the appearance strategy, in [0, 1]
	AppearanceWeight float32
	// VelocityAlpha is the exponential smoothing weight given to the
	// newest center displacement in the constant-velocity motion model
	VelocityAlpha float32
	// FeatureAlpha is the exponential smoothing weight kept from the
	// previous value when updating a track's smoothed feature
	FeatureAlpha float32
	// StdWeightPosition is the Kalman filter position noise weight
	StdWeightPosition float32
	// StdWeightVelocity is the Kalman filter velocity noise weight
	StdWeightVelocity float32
}

// DefaultConfig returns the tracking defaults used in deployment when
// no per-site tuning is supplied.
func DefaultConfig() Config {
	return Config{
		ConfirmHits:       3,
		MaxAge:            30,
		FeatureHistory:    30,
		IoUGate:           0.05,
		CostCeiling:       0.8,
		SpawnScore:        0.5,
		AppearanceWeight:  0.3,
		VelocityAlpha:     0.6,
		FeatureAlpha:      0.9,
		StdWeightPosition: 1.0 / 20,
		StdWeightVelocity: 1.0 / 160,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig.
func (c Config) withDefaults() Config {

	d := DefaultConfig()

	if c.ConfirmHits <= 0 {
		c.ConfirmHits = d.ConfirmHits
	}
	if c.MaxAge <= 0 {
		c.MaxAge = d.MaxAge
	}
	if c.FeatureHistory <= 0 {
		c.FeatureHistory = d.FeatureHistory
	}
	if c.IoUGate <= 0 {
		c.IoUGate = d.IoUGate
	}
	if c.CostCeiling <= 0 {
		c.CostCeiling = d.CostCeiling
	}
	if c.SpawnScore <= 0 {
		c.SpawnScore = d.SpawnScore
	}
	if c.AppearanceWeight <= 0 {
		c.AppearanceWeight = d.AppearanceWeight
	}
	if c.VelocityAlpha <= 0 {
		c.VelocityAlpha = d.VelocityAlpha
	}
	if c.FeatureAlpha <= 0 {
		c.FeatureAlpha = d.FeatureAlpha
	}
	if c.StdWeightPosition <= 0 {
		c.StdWeightPosition = d.StdWeightPosition
	}
	if c.StdWeightVelocity <= 0 {
		c.StdWeightVelocity = d.StdWeightVelocity
	}

	return c
}
