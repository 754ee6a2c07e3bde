package weld

import (
	"errors"
	"fmt"
	"math"

	"github.com/verte-zerg/tuiweld/internal/model"
)

// MinSamples is the shortest path that can be scored.
const MinSamples = 10

// Weights of the sub-scores. They sum to 1.0.
const (
	weightSpeed  = 0.35
	weightTemp   = 0.35
	weightFiller = 0.30
)

// Scoring targets and sensitivities.
const (
	IdealTemp      = 0.32
	HotThreshold   = 0.6
	IdealFiller    = 0.25
	tempTolerance  = 0.35
	speedCVWeight  = 3.0
	hotWeight      = 2.5
	fillerSlopeMul = 3.0
)

// ErrPathTooShort is returned when a pass has fewer than MinSamples samples.
var ErrPathTooShort = errors.New("weld path too short")

// Score reduces a pass to a 0-100 quality score and its breakdown.
//
//	score = round((speed*0.35 + temp*0.35*hotPenalty + filler*0.30) * 100)
//
// Each factor lies in [0, 1], so the score cannot exceed 100.
func Score(samples []model.Sample, temps []model.TemperatureSample) (model.PassResult, error) {
	if len(samples) < MinSamples {
		return model.PassResult{}, fmt.Errorf("%w: %d samples, need %d", ErrPathTooShort, len(samples), MinSamples)
	}

	speeds := StepSpeeds(samples)
	meanSpeed := mean(speeds)
	variance := 0.0
	for _, v := range speeds {
		variance += (v - meanSpeed) * (v - meanSpeed)
	}
	variance /= float64(len(speeds))
	den := meanSpeed
	if den == 0 {
		den = 1
	}
	speedCV := math.Sqrt(variance) / den

	avgTemp, hotFraction := 0.0, 0.0
	if len(temps) > 0 {
		hot := 0
		for _, ts := range temps {
			avgTemp += ts.Temp
			if ts.Temp > HotThreshold {
				hot++
			}
		}
		avgTemp /= float64(len(temps))
		hotFraction = float64(hot) / float64(len(temps))
	}

	filler := 0
	for _, smp := range samples {
		if smp.Filler {
			filler++
		}
	}
	fillerFraction := float64(filler) / float64(len(samples))

	speedScore := math.Max(0, 1-speedCV*speedCVWeight)
	tempScore := 1 - math.Min(1, math.Abs(avgTemp-IdealTemp)/tempTolerance)
	hotPenalty := math.Max(0, 1-hotFraction*hotWeight)
	fillerScore := math.Max(0, 1-math.Abs(fillerFraction-IdealFiller)*fillerSlopeMul)

	raw := speedScore*weightSpeed + tempScore*weightTemp*hotPenalty + fillerScore*weightFiller

	return model.PassResult{
		Score:          int(math.Round(raw * 100)),
		AvgTemp:        avgTemp,
		HotFraction:    hotFraction,
		SpeedCV:        speedCV,
		FillerFraction: fillerFraction,
		SpeedScore:     speedScore,
		TempScore:      tempScore,
		HotPenalty:     hotPenalty,
		FillerScore:    fillerScore,
	}, nil
}

// StepSpeeds returns the travel speed between each consecutive pair of samples.
func StepSpeeds(samples []model.Sample) []float64 {
	if len(samples) < 2 {
		return nil
	}
	speeds := make([]float64, 0, len(samples)-1)
	for i := 1; i < len(samples); i++ {
		a := Point{X: samples[i-1].X, Y: samples[i-1].Y}
		b := Point{X: samples[i].X, Y: samples[i].Y}
		speeds = append(speeds, Speed(a, b, samples[i].T-samples[i-1].T))
	}
	return speeds
}

// Report renders the four-line diagnostic for a scored pass.
func Report(r model.PassResult) string {
	return fmt.Sprintf("Avg temp: %.2f (ideal ~%.2f)\nHot fraction: %.1f%%\nSpeed CV: %.2f\nFiller use: %.1f%%",
		r.AvgTemp, IdealTemp, r.HotFraction*100, r.SpeedCV, r.FillerFraction*100)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
