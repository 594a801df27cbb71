package tracker

import (
	"math"
)

// minSide is the smallest width/height a box may have after motion
// prediction.  Predictions are clamped so a shrinking estimate can never
// produce a degenerate box.
const minSide = 1.0

// Point is an x,y coordinate in frame pixel space.
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned bounding box in top-left/width/height form.
// Detector output arrives as corner coordinates and is converted on
// ingest with NewRectTLBR.
type Rect struct {
	X, Y, W, H float32
}

// NewRect creates a Rect from top-left corner, width and height.
func NewRect(x, y, w, h float32) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// NewRectTLBR creates a Rect from top-left and bottom-right corners.
func NewRectTLBR(x1, y1, x2, y2 float32) Rect {
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// BRX returns the bottom-right x coordinate.
func (r Rect) BRX() float32 {
	return r.X + r.W
}

// BRY returns the bottom-right y coordinate.
func (r Rect) BRY() float32 {
	return r.Y + r.H
}

// Center returns the box center point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Area returns the box area.
func (r Rect) Area() float32 {
	return r.W * r.H
}

// Xyah converts the box to (center x, center y, aspect ratio, height)
// form, the measurement space of the Kalman motion model.
func (r Rect) Xyah() [4]float32 {
	return [4]float32{
		r.X + r.W/2,
		r.Y + r.H/2,
		r.W / r.H,
		r.H,
	}
}

// rectFromXyah converts a (center x, center y, aspect ratio, height)
// state back into a Rect.
func rectFromXyah(cx, cy, aspect, height float32) Rect {
	w := aspect * height
	return Rect{X: cx - w/2, Y: cy - height/2, W: w, H: height}
}

// translate returns the box shifted by (dx, dy).
func (r Rect) translate(dx, dy float32) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W, H: r.H}
}

// clamp enforces a non-degenerate box, keeping the center fixed while
// growing either side up to minSide.
func (r Rect) clamp() Rect {
	c := r.Center()

	if r.W < minSide {
		r.W = minSide
		r.X = c.X - minSide/2
	}

	if r.H < minSide {
		r.H = minSide
		r.Y = c.Y - minSide/2
	}

	return r
}

// IoU returns the intersection-over-union overlap ratio with another
// box, in [0, 1].
func (r Rect) IoU(other Rect) float32 {

	iw := minf(r.BRX(), other.BRX()) - maxf(r.X, other.X)
	if iw <= 0 {
		return 0
	}

	ih := minf(r.BRY(), other.BRY()) - maxf(r.Y, other.Y)
	if ih <= 0 {
		return 0
	}

	inter := iw * ih
	union := r.Area() + other.Area() - inter

	if union <= 0 {
		return 0
	}

	return inter / union
}

// isFinite reports whether every coordinate of the box is a finite
// number.
func (r Rect) isFinite() bool {
	for _, v := range [4]float32{r.X, r.Y, r.W, r.H} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
