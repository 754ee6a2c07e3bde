package weld

import "math"

// MeterLevel maps an instantaneous speed to a 0-1 travel speed meter level.
func MeterLevel(speed float64) float64 {
	if speed <= 0 {
		return 0
	}
	return math.Min(1, math.Log10(1+speed*0.5))
}
