package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweld/internal/model"
)

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
}

func TestRenderSummaryAndTable(t *testing.T) {
	passes := []model.PassAggregate{
		{PassID: 1, EndedAt: time.Now().Add(-2 * time.Hour), Position: model.PositionFlat, MeanAmp: 150,
			Result: model.PassResult{Score: 70, AvgTemp: 0.3, HotFraction: 0.1, SpeedCV: 0.2, FillerFraction: 0.2}},
		{PassID: 2, EndedAt: time.Now(), Position: model.PositionVertical, MeanAmp: 130,
			Result: model.PassResult{Score: 90, AvgTemp: 0.34, HotFraction: 0, SpeedCV: 0.1, FillerFraction: 0.3}},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, passes); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Passes: 2", "Avg score: 80.0", "Best score: 90", "Avg temp: 0.32", "Avg filler use: 25.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := RenderPassTable(&buf, passes); err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[2], "vertical") || !strings.Contains(lines[3], "flat") {
		t.Fatalf("expected newest pass first:\n%s", buf.String())
	}
	if !strings.Contains(lines[3], "2 hours ago") {
		t.Fatalf("expected humanized time in %q", lines[3])
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if buf.String() != "No passes found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
