package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DetectBox is a measurement vector (center x, center y, aspect ratio,
// height) as a 1x4 matrix.
type DetectBox []float32

// StateMean is the 1x8 filter state: measurement vector plus its
// velocities.
type StateMean []float32

// StateCov is the 8x8 state covariance matrix.
type StateCov struct {
	*mat.Dense
}

// StateHMean is the state mean projected to measurement space, 1x4.
type StateHMean []float32

// StateHCov is the projected 4x4 covariance matrix.
type StateHCov struct {
	*mat.SymDense
}

// KalmanFilter is a constant-velocity filter over (center x, center y,
// aspect ratio, height).  The filter itself is stateless; per-track
// mean and covariance are passed in by the caller, so one filter
// instance serves every track of a camera.
type KalmanFilter struct {
	stdWeightPosition float32
	stdWeightVelocity float32
	motionMat         *mat.Dense
	updateMat         *mat.Dense
}

// NewKalmanFilter initializes and returns a new KalmanFilter with the
// given process noise weights.
func NewKalmanFilter(stdWeightPosition, stdWeightVelocity float32) *KalmanFilter {

	ndim := 4
	dt := float32(1.0)

	// motion matrix is identity with dt on the velocity couplings
	motionMat := mat.NewDense(8, 8, nil)

	for i := 0; i < 8; i++ {
		motionMat.Set(i, i, float64(1.0))
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, float64(dt))
	}

	// update matrix projects state onto the first four components
	updateMat := mat.NewDense(4, 8, nil)

	for i := 0; i < 4; i++ {
		updateMat.Set(i, i, float64(1.0))
	}

	return &KalmanFilter{
		stdWeightPosition: stdWeightPosition,
		stdWeightVelocity: stdWeightVelocity,
		motionMat:         motionMat,
		updateMat:         updateMat,
	}
}

// Initiate initializes the state mean and covariance from the first
// measurement.
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement DetectBox) {

	copy(mean[:4], measurement[:4])

	// velocity components start at zero
	for i := 4; i < 8; i++ {
		mean[i] = 0.0
	}

	std := make(StateMean, 8)
	std[0] = 2 * kf.stdWeightPosition * measurement[3]  // x position
	std[1] = 2 * kf.stdWeightPosition * measurement[3]  // y position
	std[2] = 1e-2                                       // aspect ratio
	std[3] = 2 * kf.stdWeightPosition * measurement[3]  // height
	std[4] = 10 * kf.stdWeightVelocity * measurement[3] // x velocity
	std[5] = 10 * kf.stdWeightVelocity * measurement[3] // y velocity
	std[6] = 1e-5                                       // aspect ratio velocity
	std[7] = 10 * kf.stdWeightVelocity * measurement[3] // height velocity

	for i, v := range std {
		covariance.Set(i, i, float64(v*v))
	}
}

// Predict advances the state mean and covariance by one frame.
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	std := make(StateMean, 8)
	std[0] = kf.stdWeightPosition * mean[3] // x position
	std[1] = kf.stdWeightPosition * mean[3] // y position
	std[2] = 1e-2                           // aspect ratio
	std[3] = kf.stdWeightPosition * mean[3] // height
	std[4] = kf.stdWeightVelocity * mean[3] // x velocity
	std[5] = kf.stdWeightVelocity * mean[3] // y velocity
	std[6] = 1e-5                           // aspect ratio velocity
	std[7] = kf.stdWeightVelocity * mean[3] // height velocity

	// process noise covariance with variances on the diagonal
	motionCov := mat.NewDense(8, 8, nil)

	for i, v := range std {
		motionCov.Set(i, i, float64(v*v))
	}

	meanVec := mat.NewVecDense(8, nil)

	for i := 0; i < 8; i++ {
		meanVec.SetVec(i, float64(mean[i]))
	}

	meanMat := mat.NewDense(8, 1, meanVec.RawVector().Data)
	meanMat.Mul(kf.motionMat, meanMat)

	for i := 0; i < 8; i++ {
		mean[i] = float32(meanMat.At(i, 0))
	}

	cov := covariance.Dense
	cov.Mul(kf.motionMat, cov)
	cov.Mul(cov, kf.motionMat.T())
	cov.Add(cov, motionCov)
}

// Update folds a new measurement into the state mean and covariance.
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement DetectBox) error {

	projectedMean, projectedCov := kf.project(mean, covariance)

	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// B = covariance * H^T feeds the gain computation
	B := mat.NewDense(8, 4, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	var kalmanGain mat.Dense
	err := chol.SolveTo(&kalmanGain, B.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	// innovation (measurement residual)
	innovation := make([]float64, 4)

	for i := 0; i < 4; i++ {
		innovation[i] = float64(measurement[i] - projectedMean[i])
	}

	innovationVec := mat.NewVecDense(4, innovation)
	tmp := mat.NewVecDense(8, nil)
	tmp.MulVec(kalmanGain.T(), innovationVec)

	for i := 0; i < 8; i++ {
		mean[i] += float32(tmp.AtVec(i))
	}

	temp := mat.NewDense(8, 4, nil)
	temp.Mul(kalmanGain.T(), projectedCov)

	temp2 := mat.NewDense(8, 8, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(8, 8, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project maps the state mean and covariance to measurement space.
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (StateHMean, *StateHCov) {

	std := make(DetectBox, 4)
	std[0] = kf.stdWeightPosition * mean[3]
	std[1] = kf.stdWeightPosition * mean[3]
	std[2] = 1e-1
	std[3] = kf.stdWeightPosition * mean[3]

	// measurement noise covariance
	innovationCov := mat.NewSymDense(4, nil)

	for i := 0; i < 4; i++ {
		innovationCov.SetSym(i, i, float64(std[i]*std[i]))
	}

	projectedMeanVec := mat.NewVecDense(4, nil)
	projectedMeanVec.MulVec(
		kf.updateMat, mat.NewVecDense(8, func() []float64 {
			data := make([]float64, 8)
			for i, v := range mean {
				data[i] = float64(v)
			}
			return data
		}()),
	)

	projectedCov := mat.NewSymDense(4, nil)
	temp := mat.NewDense(4, 8, nil)
	temp.Mul(kf.updateMat, covariance.Dense)
	temp2 := mat.NewDense(4, 4, nil)
	temp2.Mul(temp, kf.updateMat.T())

	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			projectedCov.SetSym(i, j, temp2.At(i, j))
		}
	}

	projectedCov.AddSym(projectedCov, innovationCov)

	projectedMean := make(StateHMean, 4)

	for i := 0; i < 4; i++ {
		projectedMean[i] = float32(projectedMeanVec.AtVec(i))
	}

	return projectedMean, &StateHCov{projectedCov}
}

// kalmanMotion adapts the shared KalmanFilter to the per-track
// motionModel interface, holding this track's mean and covariance.
type kalmanMotion struct {
	kf   *KalmanFilter
	mean StateMean
	cov  StateCov
	rect Rect
}

func newKalmanMotion(kf *KalmanFilter, r Rect) *kalmanMotion {

	m := &kalmanMotion{
		kf:   kf,
		mean: make(StateMean, 8),
		cov:  StateCov{mat.NewDense(8, 8, nil)},
	}

	xyah := r.Xyah()
	m.kf.Initiate(m.mean, &m.cov, DetectBox(xyah[:]))
	m.syncRect()

	return m
}

func (m *kalmanMotion) predict() Rect {
	m.kf.Predict(m.mean, &m.cov)
	m.syncRect()
	return m.rect
}

func (m *kalmanMotion) correct(meas Rect) error {

	xyah := meas.Xyah()

	err := m.kf.Update(m.mean, &m.cov, DetectBox(xyah[:]))

	if err != nil {
		return fmt.Errorf("kalman update: %w", err)
	}

	m.syncRect()

	return nil
}

func (m *kalmanMotion) current() Rect {
	return m.rect
}

func (m *kalmanMotion) clone() motionModel {

	c := &kalmanMotion{
		kf:   m.kf,
		mean: make(StateMean, 8),
		cov:  StateCov{mat.DenseCopyOf(m.cov.Dense)},
		rect: m.rect,
	}
	copy(c.mean, m.mean)

	return c
}

// syncRect rebuilds the bounding box from the state mean, clamped to be
// non-degenerate.
func (m *kalmanMotion) syncRect() {
	m.rect = rectFromXyah(m.mean[0], m.mean[1], m.mean[2], m.mean[3]).clamp()
}
