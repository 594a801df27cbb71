package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrailBounded(t *testing.T) {

	trail := NewTrail(3)

	for i := 0; i < 5; i++ {
		trail.Add(Report{
			TrackID: "iou-1",
			Rect:    NewRect(float32(i*10), 0, 10, 10),
		})
	}

	points := trail.Points("iou-1")

	assert.Len(t, points, 3)

	// oldest two dropped: centers start at x=25
	assert.InDelta(t, 25, float64(points[0].X), 1e-5)
	assert.InDelta(t, 45, float64(points[2].X), 1e-5)
}

func TestTrailPerTrackHistory(t *testing.T) {

	trail := NewTrail(10)

	trail.Add(Report{TrackID: "iou-1", Rect: NewRect(0, 0, 10, 10)})
	trail.Add(Report{TrackID: "iou-2", Rect: NewRect(100, 0, 10, 10)})

	assert.Len(t, trail.Points("iou-1"), 1)
	assert.Len(t, trail.Points("iou-2"), 1)
	assert.Nil(t, trail.Points("iou-3"))
}

func TestTrailForgetAndReset(t *testing.T) {

	trail := NewTrail(10)

	trail.Add(Report{TrackID: "iou-1", Rect: NewRect(0, 0, 10, 10)})
	trail.Add(Report{TrackID: "iou-2", Rect: NewRect(100, 0, 10, 10)})

	trail.Forget("iou-1")
	assert.Nil(t, trail.Points("iou-1"))
	assert.Len(t, trail.Points("iou-2"), 1)

	trail.Reset()
	assert.Nil(t, trail.Points("iou-2"))
}
