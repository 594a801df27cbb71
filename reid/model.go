package reid

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
)

// Method selects the descriptor distance calculation.
type Method int

const (
	// Cosine distance, the default for L2-normalized embeddings
	Cosine Method = iota
	// Euclidean L2 distance
	Euclidean
)

// Model describes a loaded re-identification model: the descriptor
// dimensionality it produces and the distance method it was tuned for.
// The descriptors themselves are computed upstream and arrive attached
// to detections.
type Model struct {
	// Name is the model architecture name from the manifest
	Name string
	// Dim is the descriptor vector length
	Dim int
	// Method is the distance calculation the model was tuned for
	Method Method
	// WeightsPath is the resolved location of the weights file
	WeightsPath string
}

// Load reads a model manifest and verifies the weights file it points
// at exists.  Any failure here means the appearance strategy cannot be
// initialized and cameras degrade to geometry-only tracking.
//
// The manifest is JSON of the form:
//
//	{"name": "osnet_x0_25", "dim": 512, "distance": "cosine",
//	 "weights": "osnet_x0_25.onnx"}
//
// with the weights path relative to the manifest location.
func Load(path string) (*Model, error) {

	data, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("read model manifest: %w", err)
	}

	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("model manifest %s is not valid JSON", path)
	}

	root := gjson.ParseBytes(data)

	dim := int(root.Get("dim").Int())

	if dim <= 0 {
		return nil, fmt.Errorf("model manifest %s: missing or invalid dim", path)
	}

	m := &Model{
		Name: root.Get("name").String(),
		Dim:  dim,
	}

	switch root.Get("distance").String() {
	case "", "cosine":
		m.Method = Cosine
	case "euclidean":
		m.Method = Euclidean
	default:
		return nil, fmt.Errorf("model manifest %s: unknown distance %q",
			path, root.Get("distance").String())
	}

	weights := root.Get("weights").String()

	if weights == "" {
		return nil, fmt.Errorf("model manifest %s: missing weights entry", path)
	}

	if !filepath.IsAbs(weights) {
		weights = filepath.Join(filepath.Dir(path), weights)
	}

	if _, err := os.Stat(weights); err != nil {
		return nil, fmt.Errorf("model weights unavailable: %w", err)
	}

	m.WeightsPath = weights

	return m, nil
}

// Distance measures dissimilarity between two descriptors using the
// model's configured method.
func (m *Model) Distance(a, b []float32) float32 {
	if m.Method == Euclidean {
		return EuclideanDistance(a, b)
	}
	return CosineDistance(a, b)
}

// DistanceFunc returns the model's distance calculation as a function
// value for the association engine.
func (m *Model) DistanceFunc() DistanceFunc {
	return m.Distance
}

// Compatible reports whether a descriptor has the dimensionality this
// model produces.
func (m *Model) Compatible(feat []float32) bool {
	return len(feat) == m.Dim
}
