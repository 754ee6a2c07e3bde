// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"sort"

	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/store"
)

// PositionSummary aggregates passes welded in one position.
type PositionSummary struct {
	Position model.WeldPosition
	Passes   int
	AvgScore float64
	Best     int
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Passes     []model.PassAggregate
	Window     []model.PassAggregate
	Summary    Summary
	Factors    []Factor
	ByPosition []PositionSummary
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	passes, err := st.ListPasses(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	window := lastPasses(passes, cfg.CurveWindow)
	return Report{
		Passes:     passes,
		Window:     window,
		Summary:    Summarize(passes),
		Factors:    WeakestFactors(window),
		ByPosition: ByPosition(passes),
	}, nil
}

// ByPosition groups passes by weld position in flat, vertical, overhead order.
func ByPosition(passes []model.PassAggregate) []PositionSummary {
	groups := map[model.WeldPosition]*PositionSummary{}
	for _, p := range passes {
		g, ok := groups[p.Position]
		if !ok {
			g = &PositionSummary{Position: p.Position, Best: p.Result.Score}
			groups[p.Position] = g
		}
		g.Passes++
		g.AvgScore += float64(p.Result.Score)
		g.Best = max(g.Best, p.Result.Score)
	}
	out := make([]PositionSummary, 0, len(groups))
	for _, g := range groups {
		g.AvgScore /= float64(g.Passes)
		out = append(out, *g)
	}
	order := map[model.WeldPosition]int{}
	for i, pos := range model.Positions {
		order[pos] = i
	}
	sort.Slice(out, func(i, j int) bool {
		return order[out[i].Position] < order[out[j].Position]
	})
	return out
}

func lastPasses(passes []model.PassAggregate, window int) []model.PassAggregate {
	if window <= 0 || len(passes) <= window {
		return passes
	}
	return passes[len(passes)-window:]
}
