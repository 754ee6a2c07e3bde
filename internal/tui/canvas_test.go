package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuiweld/internal/joint"
	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/weld"
)

func TestHeatTintBands(t *testing.T) {
	cases := []struct {
		temp float64
		want lipgloss.Color
	}{
		{0, "#CFCFCF"},
		{0.179, "#CFCFCF"},
		{0.18, "#F2D58A"},
		{0.32, "#C59EE6"},
		{0.6, "#7FB8FF"},
		{0.8, "#5577AA"},
		{0.9, "#333333"},
		{1.3, "#333333"},
	}
	for _, tc := range cases {
		if got := heatTint(tc.temp); got != tc.want {
			t.Fatalf("heatTint(%v) = %s, want %s", tc.temp, got, tc.want)
		}
	}
}

func TestBeadWidthGrowsWithAmpAndFiller(t *testing.T) {
	if beadWidth(80, false) >= beadWidth(250, false) {
		t.Fatalf("expected wider bead at higher amperage")
	}
	if beadWidth(150, true)-beadWidth(150, false) != 4 {
		t.Fatalf("expected filler to add 4px")
	}
}

func bead(x, y float64, stroke int) model.Sample {
	return model.Sample{X: x, Y: y, Amp: 150, Position: model.PositionFlat, Stroke: stroke}
}

func TestDrawBeadJoinsWithinStroke(t *testing.T) {
	c := newCanvas(20, 5, 1, 1)
	samples := []model.Sample{bead(1.5, 2.5, 0), bead(10.5, 2.5, 0)}
	temps := []model.TemperatureSample{{Temp: 0.3}, {Temp: 0.3}}
	c.drawBead(samples, temps)
	for col := 1; col <= 10; col++ {
		if c.cells[2][col].kind != cellBead {
			t.Fatalf("expected bead at column %d", col)
		}
	}
}

func TestDrawBeadBreaksBetweenStrokes(t *testing.T) {
	c := newCanvas(20, 5, 1, 1)
	samples := []model.Sample{bead(1.5, 2.5, 0), bead(10.5, 2.5, 1)}
	temps := []model.TemperatureSample{{Temp: 0.3}, {Temp: 0.3}}
	c.drawBead(samples, temps)
	if c.cells[2][1].kind != cellBead || c.cells[2][10].kind != cellBead {
		t.Fatalf("expected both stroke endpoints drawn")
	}
	if c.cells[2][5].kind != cellEmpty {
		t.Fatalf("expected gap between strokes")
	}
}

func TestDrawBeadUsesLaterSampleTint(t *testing.T) {
	c := newCanvas(10, 3, 1, 1)
	samples := []model.Sample{bead(1.5, 1.5, 0), bead(3.5, 1.5, 0)}
	temps := []model.TemperatureSample{{Temp: 0.1}, {Temp: 0.5}}
	c.drawBead(samples, temps)
	if got := c.cells[1][2].color; got != heatTint(0.5) {
		t.Fatalf("expected segment tinted by its end sample, got %s", got)
	}
}

func TestDrawBeadWidthFromSegmentStart(t *testing.T) {
	c := newCanvas(10, 3, 1, 1)
	start := bead(1.5, 1.5, 0)
	start.Amp = 250
	start.Filler = true
	end := bead(5.5, 1.5, 0)
	end.Amp = 80
	c.drawBead([]model.Sample{start, end}, []model.TemperatureSample{{Temp: 0.3}, {Temp: 0.3}})
	want := beadGlyph(250, true)
	if want == beadGlyph(80, false) {
		t.Fatalf("expected distinct glyphs for wide and narrow beads")
	}
	for col := 2; col <= 5; col++ {
		if got := c.cells[1][col].glyph; got != want {
			t.Fatalf("column %d: expected glyph %q, got %q", col, want, got)
		}
	}
}

func TestTorchDrawsOverBeadAndSeam(t *testing.T) {
	c := newCanvas(40, 9, 1, 1)
	seam := joint.For(40, 9)
	c.drawSeam(seam, true)
	if c.cells[4][5].kind != cellGhost {
		t.Fatalf("expected ghost seam, got %d", c.cells[4][5].kind)
	}
	c.drawBead([]model.Sample{bead(20.5, 4.5, 0)}, []model.TemperatureSample{{Temp: 0.3}})
	c.drawTorch(weld.Point{X: 20.5, Y: 4.5}, 0.3)

	if c.cells[4][20].kind != cellTorch {
		t.Fatalf("expected torch over bead")
	}
	if c.cells[4][21].kind != cellBead && c.cells[4][21].kind != cellGlow {
		t.Fatalf("expected glow next to torch")
	}
}

func TestRenderKeepsGridWidth(t *testing.T) {
	c := newCanvas(30, 4, 1, 1)
	c.drawSeam(joint.For(30, 4), false)
	c.drawBead([]model.Sample{bead(3.5, 2.5, 0), bead(12.5, 2.5, 0)}, []model.TemperatureSample{{Temp: 0.2}, {Temp: 0.7}})
	out := c.render()
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 30 {
			t.Fatalf("row %d width = %d, want 30", i, w)
		}
	}
}
