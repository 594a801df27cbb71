// Package reid provides the appearance-descriptor math used by the
// appearance-aware tracking strategy, and loads the re-identification
// model manifest whose availability decides whether a camera can use
// that strategy at all.
package reid

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
)

// DistanceFunc measures dissimilarity between two descriptors of equal
// length.  Smaller is more similar.
type DistanceFunc func(a, b []float32) float32

// Normalize returns the vector scaled to unit length.  A zero-magnitude
// input is returned unchanged to avoid division by zero.
func Normalize(v []float32) []float32 {

	var sum float32

	for _, x := range v {
		sum += x * x
	}

	if sum == 0 {
		return v
	}

	norm := float32(math.Sqrt(float64(sum)))

	out := make([]float32, len(v))

	for i, x := range v {
		out[i] = x / norm
	}

	return out
}

// CosineSimilarity returns the cosine of the angle between a and b.
// For L2-normalized vectors this is just their dot product.
func CosineSimilarity(a, b []float32) float32 {

	var dot float32

	for i := range a {
		dot += a[i] * b[i]
	}

	return dot
}

// CosineDistance returns 1 minus cosine similarity; for normalized
// vectors the result is in [0, 2] with small values meaning similar.
func CosineDistance(a, b []float32) float32 {
	return 1 - CosineSimilarity(a, b)
}

// EuclideanDistance returns the L2 distance between two vectors.
func EuclideanDistance(a, b []float32) float32 {

	var sum float32

	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}

	return float32(math.Sqrt(float64(sum)))
}

// Fingerprint returns a hex-encoded SHA-256 hash of a descriptor's
// binary representation, usable as a compact stable key for a
// normalized feature.
func Fingerprint(feat []float32) (string, error) {

	buf := new(bytes.Buffer)

	for _, v := range feat {
		if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
			return "", err
		}
	}

	sum := sha256.Sum256(buf.Bytes())

	return hex.EncodeToString(sum[:]), nil
}
