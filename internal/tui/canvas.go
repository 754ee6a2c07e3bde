package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/tuiweld/internal/joint"
	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/weld"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellSeam
	cellGhost
	cellGlow
	cellBead
	cellTorch
)

type canvasCell struct {
	kind  cellKind
	glyph rune
	color lipgloss.Color
}

// canvas maps canvas pixel space onto a grid of terminal cells.
type canvas struct {
	cols  int
	rows  int
	cellW float64
	cellH float64
	cells [][]canvasCell
}

type heatBand struct {
	below float64
	color lipgloss.Color
}

var heatBands = []heatBand{
	{0.18, lipgloss.Color("#CFCFCF")},
	{0.28, lipgloss.Color("#F2D58A")},
	{0.45, lipgloss.Color("#C59EE6")},
	{0.7, lipgloss.Color("#7FB8FF")},
	{0.9, lipgloss.Color("#5577AA")},
}

const (
	overheatColor = lipgloss.Color("#333333")
	seamColor     = lipgloss.Color("#4A4D51")
	ghostColor    = lipgloss.Color("#5E8CA8")
	glowColor     = lipgloss.Color("#FF8C50")
	torchColor    = lipgloss.Color("#FFFFF0")
)

// heatTint returns the bead colour for a temperature.
func heatTint(temp float64) lipgloss.Color {
	for _, band := range heatBands {
		if temp < band.below {
			return band.color
		}
	}
	return overheatColor
}

// beadWidth is the bead width in canvas pixels.
func beadWidth(amp int, filler bool) float64 {
	w := 6 + float64(amp)/40
	if filler {
		w += 4
	}
	return w
}

func beadGlyph(amp int, filler bool) rune {
	w := beadWidth(amp, filler)
	switch {
	case w < 10:
		return glyph('•', '.')
	case w < 14:
		return glyph('●', 'o')
	default:
		return glyph('█', '#')
	}
}

// glyph returns r when it occupies one terminal column, fallback otherwise.
func glyph(r, fallback rune) rune {
	if runewidth.RuneWidth(r) == 1 {
		return r
	}
	return fallback
}

func newCanvas(cols, rows int, cellW, cellH float64) *canvas {
	cols = max(1, cols)
	rows = max(1, rows)
	cells := make([][]canvasCell, rows)
	for i := range cells {
		cells[i] = make([]canvasCell, cols)
	}
	return &canvas{cols: cols, rows: rows, cellW: cellW, cellH: cellH, cells: cells}
}

// pixelWidth returns the canvas width in pixel space.
func (c *canvas) pixelWidth() float64 {
	return float64(c.cols) * c.cellW
}

// pixelHeight returns the canvas height in pixel space.
func (c *canvas) pixelHeight() float64 {
	return float64(c.rows) * c.cellH
}

func (c *canvas) cellAt(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor(x / c.cellW))
	row = int(math.Floor(y / c.cellH))
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return col, row, false
	}
	return col, row, true
}

// center returns the pixel-space centre of a cell.
func (c *canvas) center(col, row int) weld.Point {
	return weld.Point{X: (float64(col) + 0.5) * c.cellW, Y: (float64(row) + 0.5) * c.cellH}
}

func (c *canvas) set(col, row int, cell canvasCell) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	if cell.kind < c.cells[row][col].kind {
		return
	}
	c.cells[row][col] = cell
}

func (c *canvas) drawSeam(seam joint.Seam, ghost bool) {
	cell := canvasCell{kind: cellSeam, glyph: glyph('─', '-'), color: seamColor}
	if ghost {
		cell = canvasCell{kind: cellGhost, glyph: glyph('═', '='), color: ghostColor}
	}
	c0, row, _ := c.cellAt(seam.X0, seam.Y)
	c1, _, _ := c.cellAt(seam.X1, seam.Y)
	for col := c0; col <= c1; col++ {
		c.set(col, row, cell)
	}
}

// drawBead paints the segment ending at each sample in that sample's heat
// tint. The bead width comes from the sample starting the segment. Segments
// are not drawn across stroke boundaries.
func (c *canvas) drawBead(samples []model.Sample, temps []model.TemperatureSample) {
	for i, s := range samples {
		col, row, _ := c.cellAt(s.X, s.Y)
		tint := heatTint(temps[i].Temp)
		if i == 0 || samples[i-1].Stroke != s.Stroke {
			c.set(col, row, canvasCell{kind: cellBead, glyph: beadGlyph(s.Amp, s.Filler), color: tint})
			continue
		}
		prev := samples[i-1]
		cell := canvasCell{kind: cellBead, glyph: beadGlyph(prev.Amp, prev.Filler), color: tint}
		pc, pr, _ := c.cellAt(prev.X, prev.Y)
		drawCellLine(pc, pr, col, row, func(x, y int) {
			c.set(x, y, cell)
		})
	}
}

// drawTorch paints the arc glow around p. The glow radius grows with heat.
func (c *canvas) drawTorch(p weld.Point, temp float64) {
	r := 18 + temp*36
	col, row, _ := c.cellAt(p.X, p.Y)
	reachX := int(math.Ceil(r / c.cellW))
	reachY := int(math.Ceil(r / c.cellH))
	for y := row - reachY; y <= row+reachY; y++ {
		for x := col - reachX; x <= col+reachX; x++ {
			if weld.Distance(c.center(x, y), p) > r {
				continue
			}
			c.set(x, y, canvasCell{kind: cellGlow, glyph: glyph('░', ':'), color: glowColor})
		}
	}
	c.set(col, row, canvasCell{kind: cellTorch, glyph: glyph('✦', '*'), color: torchColor})
}

// render returns the canvas rows joined by newlines. Runs of cells sharing a
// colour are styled together.
func (c *canvas) render() string {
	lines := make([]string, c.rows)
	var run strings.Builder
	for r, cells := range c.cells {
		var line strings.Builder
		runColor := lipgloss.Color("")
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				line.WriteString(run.String())
			} else {
				line.WriteString(lipgloss.NewStyle().Foreground(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for _, cell := range cells {
			if cell.color != runColor {
				flush()
				runColor = cell.color
			}
			if cell.kind == cellEmpty {
				run.WriteByte(' ')
			} else {
				run.WriteRune(cell.glyph)
			}
		}
		flush()
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}

func drawCellLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
