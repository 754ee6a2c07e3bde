package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "tuiweld.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	positions := []model.WeldPosition{model.PositionOverhead, model.PositionFlat, model.PositionFlat}
	for i, pos := range positions {
		end := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		pass := model.PassStats{
			UID:        string(rune('a' + i)),
			StartedAt:  end.Add(-10 * time.Second),
			EndedAt:    end,
			Position:   pos,
			MeanAmp:    140,
			Strokes:    1,
			DurationMs: 10000,
			Result: model.PassResult{
				Score:       40 + i*10,
				SpeedScore:  0.9,
				TempScore:   0.5,
				HotPenalty:  1,
				FillerScore: 0.2 + float64(i)*0.1,
			},
		}
		if _, err := st.InsertPass(ctx, pass, nil, nil); err != nil {
			t.Fatalf("insert pass: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{CurveWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Passes) != 3 || len(report.Window) != 2 {
		t.Fatalf("expected 3 passes and 2 in window, got %d/%d", len(report.Passes), len(report.Window))
	}
	if report.Summary.BestScore != 60 || report.Summary.AvgScore != 50 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.Factors) != 3 || report.Factors[0].Name != "Filler" {
		t.Fatalf("expected filler to be the weakest factor, got %+v", report.Factors)
	}
	if len(report.ByPosition) != 2 || report.ByPosition[0].Position != model.PositionFlat || report.ByPosition[0].Passes != 2 {
		t.Fatalf("unexpected position breakdown: %+v", report.ByPosition)
	}
	if report.ByPosition[0].AvgScore != 55 || report.ByPosition[0].Best != 60 {
		t.Fatalf("unexpected flat summary: %+v", report.ByPosition[0])
	}
}
