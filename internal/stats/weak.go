package stats

import (
	"sort"

	"github.com/verte-zerg/tuiweld/internal/model"
)

// Factor is one weighted component of the pass score.
type Factor struct {
	Name    string
	Average float64
	Tip     string
}

// WeakestFactors ranks score factors by their average over passes, lowest first.
// The heat factor includes the overheating penalty.
func WeakestFactors(passes []model.PassAggregate) []Factor {
	if len(passes) == 0 {
		return nil
	}
	var speed, heat, filler float64
	for _, p := range passes {
		r := p.Result
		speed += r.SpeedScore
		heat += r.TempScore * r.HotPenalty
		filler += r.FillerScore
	}
	n := float64(len(passes))
	factors := []Factor{
		{Name: "Speed", Average: speed / n, Tip: "Keep travel speed steady along the joint."},
		{Name: "Heat", Average: heat / n, Tip: "Aim for a puddle near 0.32; lower amperage or travel faster when running hot."},
		{Name: "Filler", Average: filler / n, Tip: "Dab filler on roughly a quarter of the bead."},
	}
	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Average < factors[j].Average
	})
	return factors
}
