package weld

import "github.com/verte-zerg/tuiweld/internal/model"

// Replay rebuilds a session from recorded samples, re-deriving temperatures.
// Each stroke starts without an anchor, so its first sample has zero speed.
// Filler flags are carried over as recorded; filler cooling is not replayed.
func Replay(samples []model.Sample) *Session {
	s := NewSession()
	for i, smp := range samples {
		if i > 0 && smp.Stroke != samples[i-1].Stroke {
			s.EndStroke()
		}
		s.Move(Point{X: smp.X, Y: smp.Y}, smp.T, model.Settings{Amp: smp.Amp, Position: smp.Position})
		s.samples[len(s.samples)-1].Filler = smp.Filler
	}
	return s
}
