package reid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest drops a manifest plus an empty weights file into a temp
// directory and returns the manifest path.
func writeManifest(t *testing.T, manifest string) string {
	t.Helper()

	dir := t.TempDir()

	weights := filepath.Join(dir, "model.onnx")
	require.NoError(t, os.WriteFile(weights, []byte("weights"), 0o644))

	path := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o644))

	return path
}

func TestLoad(t *testing.T) {

	path := writeManifest(t, `{"name": "osnet_x0_25", "dim": 512,
		"distance": "cosine", "weights": "model.onnx"}`)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "osnet_x0_25", m.Name)
	assert.Equal(t, 512, m.Dim)
	assert.Equal(t, Cosine, m.Method)

	// weights resolved relative to the manifest
	assert.Equal(t, filepath.Join(filepath.Dir(path), "model.onnx"),
		m.WeightsPath)
}

func TestLoadDefaultsToCosine(t *testing.T) {

	path := writeManifest(t, `{"name": "x", "dim": 128, "weights": "model.onnx"}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Cosine, m.Method)
}

func TestLoadEuclidean(t *testing.T) {

	path := writeManifest(t, `{"name": "x", "dim": 128,
		"distance": "euclidean", "weights": "model.onnx"}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Euclidean, m.Method)

	d := m.Distance([]float32{0, 0}, []float32{3, 4})
	assert.InDelta(t, 5.0, float64(d), 1e-5)
}

func TestLoadErrors(t *testing.T) {

	tests := []struct {
		name     string
		manifest string
	}{
		{"not json", `not a manifest`},
		{"missing dim", `{"name": "x", "weights": "model.onnx"}`},
		{"negative dim", `{"dim": -1, "weights": "model.onnx"}`},
		{"unknown distance", `{"dim": 128, "distance": "hamming", "weights": "model.onnx"}`},
		{"missing weights entry", `{"dim": 128}`},
		{"weights file absent", `{"dim": 128, "weights": "gone.onnx"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tc.manifest))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingManifest(t *testing.T) {

	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestCompatible(t *testing.T) {

	m := &Model{Dim: 4}

	assert.True(t, m.Compatible([]float32{1, 2, 3, 4}))
	assert.False(t, m.Compatible([]float32{1, 2}))
	assert.False(t, m.Compatible(nil))
}
