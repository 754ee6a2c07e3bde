// Package joint describes the seam the trainee welds along.
package joint

import "math"

const (
	startFrac = 0.07
	endFrac   = 0.93
	rowFrac   = 0.5
)

// Seam is a straight horizontal joint in canvas pixel space.
type Seam struct {
	X0 float64
	X1 float64
	Y  float64
}

// For returns the seam for a canvas of the given size.
func For(width, height float64) Seam {
	return Seam{
		X0: width * startFrac,
		X1: width * endFrac,
		Y:  height * rowFrac,
	}
}

// Length returns the seam length.
func (s Seam) Length() float64 {
	return s.X1 - s.X0
}

// Offset returns the distance from (x, y) to the nearest point of the seam.
func (s Seam) Offset(x, y float64) float64 {
	cx := math.Max(s.X0, math.Min(s.X1, x))
	dx := x - cx
	dy := y - s.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Contains reports whether (x, y) lies within tol of the seam.
func (s Seam) Contains(x, y, tol float64) bool {
	return s.Offset(x, y) <= tol
}

// Coverage returns the fraction of the seam length spanned by points within
// tol of the seam. xs are the x coordinates, ys the matching y coordinates.
func (s Seam) Coverage(xs, ys []float64, tol float64) float64 {
	length := s.Length()
	if length <= 0 || len(xs) == 0 {
		return 0
	}
	const buckets = 100
	hit := make([]bool, buckets)
	for i := range xs {
		if i >= len(ys) || !s.Contains(xs[i], ys[i], tol) {
			continue
		}
		pos := (xs[i] - s.X0) / length
		idx := int(pos * buckets)
		if idx < 0 {
			idx = 0
		}
		if idx >= buckets {
			idx = buckets - 1
		}
		hit[idx] = true
	}
	covered := 0
	for _, h := range hit {
		if h {
			covered++
		}
	}
	return float64(covered) / buckets
}
