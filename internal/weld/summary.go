package weld

import "github.com/verte-zerg/tuiweld/internal/model"

// Summary describes the shape of a pass independent of its score.
type Summary struct {
	Strokes    int
	MeanAmp    float64
	Position   model.WeldPosition
	DurationMs int64
}

// Summarize computes stroke count, mean amperage, the most used position and
// the elapsed time between the first and last sample.
func Summarize(samples []model.Sample) Summary {
	if len(samples) == 0 {
		return Summary{Position: model.PositionFlat}
	}
	counts := map[model.WeldPosition]int{}
	strokes := map[int]struct{}{}
	ampSum := 0
	for _, s := range samples {
		counts[s.Position]++
		strokes[s.Stroke] = struct{}{}
		ampSum += s.Amp
	}
	dominant := model.PositionFlat
	best := -1
	for _, pos := range model.Positions {
		if counts[pos] > best {
			best = counts[pos]
			dominant = pos
		}
	}
	return Summary{
		Strokes:    len(strokes),
		MeanAmp:    float64(ampSum) / float64(len(samples)),
		Position:   dominant,
		DurationMs: int64(samples[len(samples)-1].T - samples[0].T),
	}
}
