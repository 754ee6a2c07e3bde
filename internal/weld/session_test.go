package weld

import (
	"math"
	"testing"

	"github.com/verte-zerg/tuiweld/internal/model"
)

var flat150 = model.Settings{Amp: 150, Position: model.PositionFlat}

func TestMoveWithoutPreviousHasZeroSpeed(t *testing.T) {
	s := NewSession()
	if speed := s.Move(Point{X: 10, Y: 10}, 100, flat150); speed != 0 {
		t.Fatalf("expected zero speed, got %v", speed)
	}
	temps := s.Temperatures()
	if len(temps) != 1 || temps[0].Temp != 0.6 {
		t.Fatalf("unexpected temperatures: %+v", temps)
	}
}

func TestMoveMeasuresFromStrokeAnchor(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{X: 0, Y: 0}, 0)
	if speed := s.Move(Point{X: 30, Y: 40}, 10, flat150); speed != 5 {
		t.Fatalf("expected speed 5, got %v", speed)
	}
	if speed := s.Move(Point{X: 30, Y: 40}, 10, flat150); speed != 0 {
		t.Fatalf("expected zero speed for stationary move, got %v", speed)
	}
	if speed := s.Move(Point{X: 33, Y: 44}, 10, flat150); speed != 5 {
		t.Fatalf("expected elapsed time floored at 1, got speed %v", speed)
	}
}

func TestSamplesAndTemperaturesStayAligned(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{}, 0)
	for i := 1; i <= 25; i++ {
		s.Move(Point{X: float64(i * 4), Y: 2}, float64(i*16), model.Settings{Amp: 120, Position: model.PositionOverhead})
	}
	samples := s.Samples()
	temps := s.Temperatures()
	if len(samples) != len(temps) {
		t.Fatalf("length mismatch: %d samples, %d temperatures", len(samples), len(temps))
	}
	for i := range samples {
		if samples[i].X != temps[i].X || samples[i].Y != temps[i].Y {
			t.Fatalf("temperature %d not aligned with its sample", i)
		}
		if i > 0 && samples[i].T <= samples[i-1].T {
			t.Fatalf("timestamps not increasing at %d", i)
		}
		if samples[i].Filler {
			t.Fatalf("sample %d should start without filler", i)
		}
		if samples[i].Position != model.PositionOverhead || samples[i].Amp != 120 {
			t.Fatalf("settings not captured on sample %d: %+v", i, samples[i])
		}
	}
}

func TestSpeedHistoryKeepsLast40(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{}, 0)
	for i := 1; i <= 55; i++ {
		s.Move(Point{X: float64(i * i)}, float64(i), flat150)
	}
	history := s.SpeedHistory()
	if len(history) != 40 {
		t.Fatalf("expected 40 speeds, got %d", len(history))
	}
	// Step i moves (i*i - (i-1)*(i-1)) = 2i-1 pixels in 1ms.
	if history[0] != float64(2*16-1) {
		t.Fatalf("expected oldest retained speed from step 16, got %v", history[0])
	}
	if history[39] != float64(2*55-1) {
		t.Fatalf("expected newest speed from step 55, got %v", history[39])
	}
	if s.Len() != 55 {
		t.Fatalf("speed history must not bound samples, got %d", s.Len())
	}
}

func TestStrokesMarkSeparateGestures(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{}, 0)
	s.Move(Point{X: 1}, 1, flat150)
	s.Move(Point{X: 2}, 2, flat150)
	s.EndStroke()
	if s.Welding() {
		t.Fatalf("expected stroke to be closed")
	}
	s.BeginStroke(Point{X: 100}, 50)
	s.Move(Point{X: 101}, 51, flat150)
	samples := s.Samples()
	if samples[0].Stroke != 0 || samples[1].Stroke != 0 || samples[2].Stroke != 1 {
		t.Fatalf("unexpected stroke markers: %d %d %d", samples[0].Stroke, samples[1].Stroke, samples[2].Stroke)
	}
	if sum := Summarize(samples); sum.Strokes != 2 {
		t.Fatalf("expected 2 strokes, got %d", sum.Strokes)
	}
}

func TestAddFillerOnEmptySessionIsNoop(t *testing.T) {
	s := NewSession()
	if s.AddFiller(1000) {
		t.Fatalf("expected no filler on empty session")
	}
	if s.Len() != 0 || len(s.Temperatures()) != 0 {
		t.Fatalf("expected session to stay empty")
	}
}

func TestAddFillerFlagsTrailingTimeWindow(t *testing.T) {
	s := NewSession()
	for i := 0; i < 10; i++ {
		s.Move(Point{X: float64(i)}, float64(i*100), flat150)
	}
	// now=1000: samples at t=800 and t=900 are within 300ms; t=700 is not.
	if !s.AddFiller(1000) {
		t.Fatalf("expected filler to be applied")
	}
	for i, smp := range s.Samples() {
		want := i >= 8
		if smp.Filler != want {
			t.Fatalf("sample %d (t=%v) filler=%v, want %v", i, smp.T, smp.Filler, want)
		}
	}
}

func TestAddFillerSampleAndTemperatureWindows(t *testing.T) {
	s := NewSession()
	for i := 0; i < 50; i++ {
		s.Move(Point{X: float64(i)}, float64(i), flat150)
	}
	before := s.Temperatures()
	s.AddFiller(50)
	samples := s.Samples()
	for i, smp := range samples {
		want := i >= 20
		if smp.Filler != want {
			t.Fatalf("sample %d filler=%v, want %v", i, smp.Filler, want)
		}
	}
	after := s.Temperatures()
	for i := range after {
		delta := before[i].Temp - after[i].Temp
		if i >= 10 {
			if math.Abs(delta-0.08) > 1e-12 {
				t.Fatalf("temperature %d cooled by %v, want 0.08", i, delta)
			}
		} else if delta != 0 {
			t.Fatalf("temperature %d outside window changed by %v", i, delta)
		}
	}
}

func TestAddFillerOutsideTimeWindowLeavesTemperatures(t *testing.T) {
	s := NewSession()
	for i := 0; i < 5; i++ {
		s.Move(Point{X: float64(i)}, float64(i*10), flat150)
	}
	before := s.Temperatures()
	if s.AddFiller(5000) {
		t.Fatalf("expected no samples flagged")
	}
	after := s.Temperatures()
	for i := range after {
		if after[i].Temp != before[i].Temp {
			t.Fatalf("temperature %d changed without filler", i)
		}
	}
}

func TestAddFillerCompoundsAndFloorsAtZero(t *testing.T) {
	s := NewSession()
	for i := 0; i < 3; i++ {
		s.Move(Point{X: float64(i)}, float64(i), model.Settings{Amp: 80, Position: model.PositionFlat})
	}
	start := s.Temperatures()[0].Temp // 80/250 = 0.32
	s.AddFiller(3)
	s.AddFiller(3)
	got := s.Temperatures()[0].Temp
	if math.Abs(got-(start-0.16)) > 1e-12 {
		t.Fatalf("expected repeated filler to compound to %v, got %v", start-0.16, got)
	}
	for i := 0; i < 10; i++ {
		s.AddFiller(3)
	}
	for i, ts := range s.Temperatures() {
		if ts.Temp != 0 {
			t.Fatalf("temperature %d should floor at 0, got %v", i, ts.Temp)
		}
	}
}

func TestAddFillerNeverRaisesTemperature(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{}, 0)
	for i := 1; i <= 60; i++ {
		s.Move(Point{X: float64(i * 3), Y: float64(i % 7)}, float64(i*9), model.Settings{Amp: 80 + i, Position: model.Positions[i%3]})
		before := s.Temperatures()
		s.AddFiller(float64(i * 9))
		after := s.Temperatures()
		for j := range after {
			if after[j].Temp > before[j].Temp || after[j].Temp < 0 {
				t.Fatalf("filler produced invalid temperature at %d: %v -> %v", j, before[j].Temp, after[j].Temp)
			}
		}
	}
}

func TestResetClearsSession(t *testing.T) {
	s := NewSession()
	s.BeginStroke(Point{}, 0)
	s.Move(Point{X: 5}, 5, flat150)
	s.Reset()
	if s.Len() != 0 || len(s.Temperatures()) != 0 || len(s.SpeedHistory()) != 0 {
		t.Fatalf("expected empty session after reset")
	}
	if s.Welding() {
		t.Fatalf("expected no active stroke after reset")
	}
	if _, ok := s.LastTemp(); ok {
		t.Fatalf("expected no last temperature after reset")
	}
}

func TestReplayRebuildsTemperatures(t *testing.T) {
	s := NewSession()
	s.Move(Point{X: 0}, 0, flat150)
	s.Move(Point{X: 10}, 10, flat150)
	s.EndStroke()
	s.Move(Point{X: 50}, 40, model.Settings{Amp: 200, Position: model.PositionVertical})
	original := s.Samples()
	original[1].Filler = true

	replayed := Replay(original)
	samples := replayed.Samples()
	temps := replayed.Temperatures()
	if len(samples) != 3 || len(temps) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}
	if !samples[1].Filler || samples[0].Filler {
		t.Fatalf("filler flags not carried over: %+v", samples)
	}
	if samples[2].Stroke != 1 {
		t.Fatalf("expected second stroke, got %d", samples[2].Stroke)
	}
	if want := EstimateTemp(150, 1, model.PositionFlat); temps[1].Temp != want {
		t.Fatalf("expected %v, got %v", want, temps[1].Temp)
	}
	if want := EstimateTemp(200, 0, model.PositionVertical); temps[2].Temp != want {
		t.Fatalf("new stroke should start at rest: want %v, got %v", want, temps[2].Temp)
	}
}
