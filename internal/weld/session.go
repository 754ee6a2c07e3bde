package weld

import (
	"math"

	"github.com/verte-zerg/tuiweld/internal/model"
)

const (
	speedHistoryLen = 40

	fillerSampleWindow = 30
	fillerTempWindow   = 40
	fillerTimeWindowMs = 300.0
	fillerCooling      = 0.08
)

// Session owns the samples of one weld pass.
// Samples and temperatures are index-aligned and kept in capture order.
type Session struct {
	samples []model.Sample
	temps   []model.TemperatureSample
	speeds  []float64

	strokes   int
	welding   bool
	hasAnchor bool
	anchor    Point
	anchorT   float64
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Reset discards every sample, temperature and speed.
func (s *Session) Reset() {
	s.samples = nil
	s.temps = nil
	s.speeds = nil
	s.strokes = 0
	s.welding = false
	s.hasAnchor = false
}

// BeginStroke starts a new gesture at p (pointer down).
// The first move of the stroke measures its speed from p.
func (s *Session) BeginStroke(p Point, t float64) {
	s.strokes++
	s.welding = true
	s.hasAnchor = true
	s.anchor = p
	s.anchorT = t
}

// EndStroke ends the current gesture (pointer up or cancel).
func (s *Session) EndStroke() {
	s.welding = false
	s.hasAnchor = false
}

// Welding reports whether a stroke is in progress.
func (s *Session) Welding() bool {
	return s.welding
}

// Anchor returns the last pointer position of the active stroke.
func (s *Session) Anchor() (Point, bool) {
	return s.anchor, s.hasAnchor
}

// Move appends one sample and its temperature for the pointer at p.
// It returns the instantaneous speed. A move outside a stroke opens one
// implicitly, with zero speed.
func (s *Session) Move(p Point, t float64, settings model.Settings) float64 {
	if !s.welding {
		s.strokes++
		s.welding = true
	}
	speed := 0.0
	if s.hasAnchor {
		speed = Speed(p, s.anchor, t-s.anchorT)
	}
	s.speeds = append(s.speeds, speed)
	if len(s.speeds) > speedHistoryLen {
		s.speeds = s.speeds[len(s.speeds)-speedHistoryLen:]
	}

	s.samples = append(s.samples, model.Sample{
		X:        p.X,
		Y:        p.Y,
		T:        t,
		Amp:      settings.Amp,
		Position: settings.Position,
		Stroke:   s.strokes - 1,
	})
	s.temps = append(s.temps, model.TemperatureSample{
		X:    p.X,
		Y:    p.Y,
		Temp: EstimateTemp(settings.Amp, speed, settings.Position),
	})

	s.hasAnchor = true
	s.anchor = p
	s.anchorT = t
	return speed
}

// AddFiller flags recent samples as filler-applied and cools the trailing
// temperatures. Samples among the last 30 captured less than 300ms before now
// are flagged. When any sample is flagged, each of the last 40 temperatures
// drops by 0.08, floored at 0. Repeated calls keep cooling the same entries.
// Both windows include their oldest entry: exactly the last 30 samples and 40
// temperatures are visited. It reports whether any sample was flagged.
func (s *Session) AddFiller(now float64) bool {
	n := len(s.samples)
	if n == 0 {
		return false
	}
	added := false
	for i := n - 1; i >= 0 && i >= n-fillerSampleWindow; i-- {
		if now-s.samples[i].T < fillerTimeWindowMs {
			s.samples[i].Filler = true
			added = true
		}
	}
	if !added {
		return false
	}
	m := len(s.temps)
	for i := m - 1; i >= 0 && i >= m-fillerTempWindow; i-- {
		s.temps[i].Temp = math.Max(0, s.temps[i].Temp-fillerCooling)
	}
	return true
}

// Len returns the number of samples.
func (s *Session) Len() int {
	return len(s.samples)
}

// Samples returns a copy of the samples.
func (s *Session) Samples() []model.Sample {
	out := make([]model.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Temperatures returns a copy of the temperatures.
func (s *Session) Temperatures() []model.TemperatureSample {
	out := make([]model.TemperatureSample, len(s.temps))
	copy(out, s.temps)
	return out
}

// SpeedHistory returns up to the last 40 instantaneous speeds, oldest first.
func (s *Session) SpeedHistory() []float64 {
	out := make([]float64, len(s.speeds))
	copy(out, s.speeds)
	return out
}

// LastTemp returns the most recent temperature, if any.
func (s *Session) LastTemp() (float64, bool) {
	if len(s.temps) == 0 {
		return 0, false
	}
	return s.temps[len(s.temps)-1].Temp, true
}

// Score scores the accumulated pass.
func (s *Session) Score() (model.PassResult, error) {
	return Score(s.samples, s.temps)
}
