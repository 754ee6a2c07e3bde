package weld

import (
	"math"
	"testing"

	"github.com/verte-zerg/tuiweld/internal/model"
)

func TestEstimateTempBaseline(t *testing.T) {
	if got := EstimateTemp(150, 0, model.PositionFlat); got != 0.6 {
		t.Fatalf("expected 0.6, got %v", got)
	}
	want := 250.0 / 250.0 * (1 / (1 + 2*0.06)) * 1.15
	if got := EstimateTemp(250, 2, model.PositionOverhead); math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEstimateTempDecreasesWithSpeed(t *testing.T) {
	for _, pos := range model.Positions {
		prev := EstimateTemp(180, 0, pos)
		for speed := 0.1; speed < 20; speed += 0.7 {
			cur := EstimateTemp(180, speed, pos)
			if cur > prev {
				t.Fatalf("%s: temperature rose with speed %.1f: %v > %v", pos, speed, cur, prev)
			}
			prev = cur
		}
	}
}

func TestEstimateTempNonDecreasingInAmp(t *testing.T) {
	for _, speed := range []float64{0, 0.5, 3, 12} {
		prev := EstimateTemp(model.MinAmp, speed, model.PositionVertical)
		for amp := model.MinAmp + 1; amp <= model.MaxAmp; amp++ {
			cur := EstimateTemp(amp, speed, model.PositionVertical)
			if cur < prev {
				t.Fatalf("temperature fell with amp %d at speed %.1f", amp, speed)
			}
			prev = cur
		}
	}
}

func TestEstimateTempPositionOrder(t *testing.T) {
	for _, amp := range []int{80, 150, 250} {
		for _, speed := range []float64{0, 1, 8} {
			flat := EstimateTemp(amp, speed, model.PositionFlat)
			vertical := EstimateTemp(amp, speed, model.PositionVertical)
			overhead := EstimateTemp(amp, speed, model.PositionOverhead)
			if !(overhead >= vertical && vertical >= flat) {
				t.Fatalf("unexpected order at amp %d speed %.1f: flat %v vertical %v overhead %v", amp, speed, flat, vertical, overhead)
			}
		}
	}
}

func TestSpeedFloorsElapsedTime(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 3, Y: 4}
	if got := Speed(a, b, 0); got != 5 {
		t.Fatalf("expected 5 with floored elapsed time, got %v", got)
	}
	if got := Speed(a, b, 10); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
}

func TestMeterLevel(t *testing.T) {
	if got := MeterLevel(0); got != 0 {
		t.Fatalf("expected empty meter at rest, got %v", got)
	}
	if got := MeterLevel(18); got != 1 {
		t.Fatalf("expected full meter for fast travel, got %v", got)
	}
	if got := MeterLevel(2); math.Abs(got-math.Log10(2)) > 1e-12 {
		t.Fatalf("unexpected meter level %v", got)
	}
}
