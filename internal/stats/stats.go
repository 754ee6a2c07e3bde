// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/verte-zerg/tuiweld/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := minMax(values)
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(len(sparkChars)-1, idx))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Summary aggregates a list of passes.
type Summary struct {
	Passes     int
	AvgScore   float64
	BestScore  int
	AvgSpeedCV float64
	AvgTemp    float64
	AvgFiller  float64
	AvgHot     float64
}

// Summarize averages the result fields over passes.
func Summarize(passes []model.PassAggregate) Summary {
	if len(passes) == 0 {
		return Summary{}
	}
	sum := Summary{Passes: len(passes), BestScore: passes[0].Result.Score}
	for _, p := range passes {
		r := p.Result
		sum.AvgScore += float64(r.Score)
		sum.AvgSpeedCV += r.SpeedCV
		sum.AvgTemp += r.AvgTemp
		sum.AvgFiller += r.FillerFraction
		sum.AvgHot += r.HotFraction
		if r.Score > sum.BestScore {
			sum.BestScore = r.Score
		}
	}
	n := float64(len(passes))
	sum.AvgScore /= n
	sum.AvgSpeedCV /= n
	sum.AvgTemp /= n
	sum.AvgFiller /= n
	sum.AvgHot /= n
	return sum
}

// RenderSummary prints a summary block for passes.
func RenderSummary(w io.Writer, passes []model.PassAggregate) error {
	if len(passes) == 0 {
		_, err := fmt.Fprintln(w, "No passes found.")
		return err
	}
	s := Summarize(passes)
	lines := []string{
		"Summary",
		fmt.Sprintf("Passes: %d", s.Passes),
		fmt.Sprintf("Avg score: %.1f", s.AvgScore),
		fmt.Sprintf("Best score: %d", s.BestScore),
		fmt.Sprintf("Avg temp: %.2f", s.AvgTemp),
		fmt.Sprintf("Avg hot fraction: %.1f%%", s.AvgHot*100),
		fmt.Sprintf("Avg speed CV: %.2f", s.AvgSpeedCV),
		fmt.Sprintf("Avg filler use: %.1f%%", s.AvgFiller*100),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves prints score learning curves.
func RenderCurves(w io.Writer, passes []model.PassAggregate, window int) error {
	return RenderCurvesWithSize(w, passes, window, 0, defaultPlotHeight, false)
}

// RenderCurvesWithSize prints score learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, passes []model.PassAggregate, window, totalWidth, height int, useColor bool) error {
	if len(passes) == 0 {
		return nil
	}
	scores := make([]float64, len(passes))
	speed := make([]float64, len(passes))
	heat := make([]float64, len(passes))
	filler := make([]float64, len(passes))
	for i, p := range passes {
		r := p.Result
		scores[i] = float64(r.Score)
		speed[i] = r.SpeedScore * 100
		heat[i] = r.TempScore * r.HotPenalty * 100
		filler[i] = r.FillerScore * 100
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "Score", Values: MovingAverage(scores, window)},
		{Name: "Speed", Values: MovingAverage(speed, window)},
		{Name: "Heat", Values: MovingAverage(heat, window)},
		{Name: "Filler", Values: MovingAverage(filler, window)},
	}, width, height, useColor)
}

// PassTable returns headers and rows for a pass listing, newest first.
func PassTable(passes []model.PassAggregate) ([]string, [][]string) {
	headers := []string{"#", "When", "Position", "Amp", "Score", "Temp", "Hot", "CV", "Filler"}
	rows := make([][]string, 0, len(passes))
	for i := len(passes) - 1; i >= 0; i-- {
		p := passes[i]
		r := p.Result
		rows = append(rows, []string{
			fmt.Sprintf("%d", p.PassID),
			humanize.Time(p.EndedAt),
			string(p.Position),
			fmt.Sprintf("%.0fA", p.MeanAmp),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.2f", r.AvgTemp),
			fmt.Sprintf("%.1f%%", r.HotFraction*100),
			fmt.Sprintf("%.2f", r.SpeedCV),
			fmt.Sprintf("%.1f%%", r.FillerFraction*100),
		})
	}
	return headers, rows
}

// RenderPassTable prints the pass listing.
func RenderPassTable(w io.Writer, passes []model.PassAggregate) error {
	if len(passes) == 0 {
		_, err := fmt.Fprintln(w, "No passes found.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Passes"); err != nil {
		return err
	}
	headers, rows := PassTable(passes)
	rightAlign := map[int]bool{0: true, 3: true, 4: true, 5: true, 6: true, 7: true, 8: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func minMax(values []float64) (float64, float64) {
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	return minVal, maxVal
}
