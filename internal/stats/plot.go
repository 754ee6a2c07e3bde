// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"
)

// Series represents a named data series for plotting on a 0-100 scale.
type Series struct {
	Name   string
	Values []float64
}

type lineStyle struct {
	name   string
	period int
	on     int
}

type ansiColor struct {
	name string
	code string
}

const (
	defaultPlotHeight   = 10
	minPlotWidth        = 10
	axisWidth           = 3
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
	plotScaleMax        = 100.0
)

var lineStyles = []lineStyle{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
	{name: "dashdot", period: 8, on: 3},
}

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "green", code: "\x1b[32m"},
}

// PlotSeries renders a braille line plot for the provided series.
func PlotSeries(w io.Writer, title string, series []Series, width, height int) error {
	return plotSeries(w, title, series, width, height, false)
}

// PlotSeriesWithColor renders a plot with optional forced color output.
func PlotSeriesWithColor(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	return plotSeries(w, title, series, width, height, forceColor)
}

func plotSeries(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	kept := series[:0:0]
	for _, s := range series {
		if len(s.Values) > 0 {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultPlotHeight
	}
	if width <= 0 {
		width = PlotWidthFor(terminalWidth())
	}
	width = max(width, minPlotWidth)
	useColor := shouldUseColor(w, forceColor)

	dotW, dotH := width*2, height*4
	masks := make([][][]uint8, len(kept))
	for si, s := range kept {
		cells := makeCells(height, width)
		style := lineStyles[si%len(lineStyles)]
		values := resample(s.Values, dotW)
		prevX, prevY := -1, -1
		for x, v := range values {
			y := valueToDotRow(v, dotH)
			if prevX >= 0 {
				drawLine(prevX, prevY, x, y, func(px, py int) {
					if style.shouldPlot(px) {
						setDot(cells, px, py)
					}
				})
			} else if style.shouldPlot(x) {
				setDot(cells, x, y)
			}
			prevX, prevY = x, y
		}
		masks[si] = cells
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for row := 0; row < height; row++ {
		b.WriteString(axisLabel(row, height))
		b.WriteString(axisSeparator)
		for col := 0; col < width; col++ {
			mask, owner := uint8(0), -1
			for si := range masks {
				if m := masks[si][row][col]; m != 0 {
					mask |= m
					if owner < 0 {
						owner = si
					}
				}
			}
			cell := string(rune(0x2800 + int(mask)))
			if useColor && owner >= 0 {
				cell = colorPalette[owner%len(colorPalette)].code + cell + colorReset
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	b.WriteString(renderLegend(kept, useColor))
	b.WriteByte('\n')
	_, err := io.WriteString(w, b.String())
	return err
}

// PlotWidthFor returns the plot area width for a total output width.
func PlotWidthFor(totalWidth int) int {
	if totalWidth <= 0 {
		totalWidth = terminalWidthBackup
	}
	return max(minPlotWidth, totalWidth-axisWidth-len([]rune(axisSeparator)))
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if force {
		return true
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func axisLabel(row, height int) string {
	switch row {
	case 0:
		return "100"
	case height / 2:
		return " 50"
	case height - 1:
		return "  0"
	default:
		return strings.Repeat(" ", axisWidth)
	}
}

func renderLegend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		style := lineStyles[i%len(lineStyles)]
		color := colorPalette[i%len(colorPalette)]
		label := fmt.Sprintf("%s (%s)", s.Name, style.name)
		if useColor {
			label = color.code + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func (ls lineStyle) shouldPlot(x int) bool {
	if ls.period <= 1 {
		return true
	}
	return x%ls.period < ls.on
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return cells
}

// resample linearly interpolates values onto n evenly spaced points.
func resample(values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(values) == 1 || n == 1 {
		for i := range out {
			out[i] = values[len(values)-1]
		}
		return out
	}
	for i := range out {
		pos := float64(i) * float64(len(values)-1) / float64(n-1)
		lo := int(math.Floor(pos))
		hi := min(lo+1, len(values)-1)
		frac := pos - float64(lo)
		out[i] = values[lo]*(1-frac) + values[hi]*frac
	}
	return out
}

func valueToDotRow(v float64, dotH int) int {
	v = math.Max(0, math.Min(plotScaleMax, v))
	return int(math.Round((1 - v/plotScaleMax) * float64(dotH-1)))
}

func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Braille dot bits indexed by [row][column] within a 2x4 cell.
var brailleBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setDot(cells [][]uint8, x, y int) {
	row, col := y/4, x/2
	if row < 0 || row >= len(cells) || col < 0 || col >= len(cells[row]) {
		return
	}
	cells[row][col] |= brailleBits[y%4][x%2]
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
