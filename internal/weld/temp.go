// Package weld models a simulated weld pass: sampling, filler and scoring.
package weld

import (
	"math"

	"github.com/verte-zerg/tuiweld/internal/model"
)

const (
	ampReference   = 250.0
	speedCoupling  = 0.06
	verticalFactor = 1.05
	overheadFactor = 1.15
)

// Point is a position in canvas pixel space.
type Point struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Speed returns distance per millisecond, flooring elapsed time at 1ms.
func Speed(a, b Point, elapsedMs float64) float64 {
	return Distance(a, b) / math.Max(1, elapsedMs)
}

// PositionFactor returns the heat multiplier for a weld position.
func PositionFactor(pos model.WeldPosition) float64 {
	switch pos {
	case model.PositionVertical:
		return verticalFactor
	case model.PositionOverhead:
		return overheadFactor
	default:
		return 1
	}
}

// EstimateTemp derives the synthetic puddle temperature at capture time.
// Higher amperage and slower travel run hotter; out-of-position welds run hotter still.
func EstimateTemp(amp int, speed float64, pos model.WeldPosition) float64 {
	base := float64(amp) / ampReference
	speedEffect := 1 / (1 + speed*speedCoupling)
	return base * speedEffect * PositionFactor(pos)
}
