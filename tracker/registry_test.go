package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registryTrack(seq int) *Track {

	cfg := DefaultConfig()
	r := NewRect(float32(seq*200), 0, 50, 100)
	det := Detection{Rect: r, Label: "person", Score: 0.9}

	return newTrack(seq, "iou", det, newEwmaMotion(cfg.VelocityAlpha, r), cfg)
}

func TestRegistryCompactPreservesOrder(t *testing.T) {

	var reg registry

	a := registryTrack(1)
	b := registryTrack(2)
	c := registryTrack(3)

	reg.add(a)
	reg.add(b)
	reg.add(c)

	b.state = Removed

	dropped := reg.compact()

	assert.Equal(t, 1, dropped)
	require.Equal(t, 2, reg.size())
	assert.Same(t, a, reg.alive()[0])
	assert.Same(t, c, reg.alive()[1])
}

func TestRegistrySnapshotRestore(t *testing.T) {

	var reg registry

	tr := registryTrack(1)
	reg.add(tr)

	backup := reg.snapshot()

	// mutate past the snapshot point
	tr.state = Confirmed
	tr.hits = 7
	reg.add(registryTrack(2))
	require.Equal(t, 2, reg.size())

	reg.restore(backup)

	require.Equal(t, 1, reg.size())
	restored := reg.alive()[0]
	assert.Equal(t, Tentative, restored.State())
	assert.Equal(t, 1, restored.hits)
	assert.Equal(t, "iou-1", restored.ID())
}

func TestRegistrySnapshotIsDeep(t *testing.T) {

	var reg registry

	tr := registryTrack(1)
	tr.pushFeature([]float32{1, 0, 0, 0})
	reg.add(tr)

	backup := reg.snapshot()

	tr.pushFeature([]float32{0, 1, 0, 0})
	tr.motion.predict()

	assert.Len(t, backup[0].features, 1,
		"snapshot must not share feature history with the live track")
	assert.NotSame(t, tr.motion, backup[0].motion)
}

func TestRegistryClear(t *testing.T) {

	var reg registry

	reg.add(registryTrack(1))
	reg.add(registryTrack(2))

	reg.clear()

	assert.Equal(t, 0, reg.size())
	assert.Empty(t, reg.alive())
}
