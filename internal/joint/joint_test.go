package joint

import (
	"math"
	"testing"
)

func TestForPlacesSeamAcrossCanvas(t *testing.T) {
	s := For(1200, 600)
	if math.Abs(s.X0-84) > 1e-9 || math.Abs(s.X1-1116) > 1e-9 || s.Y != 300 {
		t.Fatalf("unexpected seam: %+v", s)
	}
	if math.Abs(s.Length()-1032) > 1e-9 {
		t.Fatalf("unexpected length %v", s.Length())
	}
}

func TestOffset(t *testing.T) {
	s := Seam{X0: 100, X1: 200, Y: 50}
	if got := s.Offset(150, 60); got != 10 {
		t.Fatalf("expected vertical offset 10, got %v", got)
	}
	if got := s.Offset(97, 54); got != 5 {
		t.Fatalf("expected offset past the start to be 5, got %v", got)
	}
	if !s.Contains(150, 52, 2) || s.Contains(150, 53, 2) {
		t.Fatalf("unexpected tolerance handling")
	}
}

func TestCoverage(t *testing.T) {
	s := Seam{X0: 0, X1: 100, Y: 0}
	var xs, ys []float64
	for x := 0.0; x < 50; x++ {
		xs = append(xs, x)
		ys = append(ys, 1)
	}
	// Far from the seam, ignored.
	xs = append(xs, 80)
	ys = append(ys, 40)
	if got := s.Coverage(xs, ys, 5); got != 0.5 {
		t.Fatalf("expected half coverage, got %v", got)
	}
	if got := s.Coverage(nil, nil, 5); got != 0 {
		t.Fatalf("expected zero coverage, got %v", got)
	}
}
