// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// WeldPosition is the orientation of the simulated weld.
type WeldPosition string

// Supported weld positions.
const (
	PositionFlat     WeldPosition = "flat"
	PositionVertical WeldPosition = "vertical"
	PositionOverhead WeldPosition = "overhead"
)

// Positions lists weld positions in cycling order.
var Positions = []WeldPosition{PositionFlat, PositionVertical, PositionOverhead}

// ParsePosition converts user input to a WeldPosition.
func ParsePosition(s string) (WeldPosition, error) {
	switch WeldPosition(strings.ToLower(strings.TrimSpace(s))) {
	case PositionFlat:
		return PositionFlat, nil
	case PositionVertical:
		return PositionVertical, nil
	case PositionOverhead:
		return PositionOverhead, nil
	default:
		return "", fmt.Errorf("unknown weld position %q (want flat, vertical or overhead)", s)
	}
}

// Next returns the position after p in cycling order.
func (p WeldPosition) Next() WeldPosition {
	for i, pos := range Positions {
		if pos == p {
			return Positions[(i+1)%len(Positions)]
		}
	}
	return PositionFlat
}

// Amperage bounds accepted by the torch control.
const (
	MinAmp  = 80
	MaxAmp  = 250
	AmpStep = 10
)

// Settings is the torch configuration read at capture time.
type Settings struct {
	Amp      int
	Position WeldPosition
}

// Sample is one pointer observation during a drag.
type Sample struct {
	X        float64      `yaml:"x"`
	Y        float64      `yaml:"y"`
	T        float64      `yaml:"t"`
	Amp      int          `yaml:"amp"`
	Position WeldPosition `yaml:"position"`
	Filler   bool         `yaml:"filler"`
	Stroke   int          `yaml:"stroke"`
}

// TemperatureSample is index-aligned with Sample.
type TemperatureSample struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Temp float64 `yaml:"temp"`
}

// Config defines practice settings.
type Config struct {
	Amp        int
	Position   WeldPosition
	Ghost      bool
	CellWidth  float64
	CellHeight float64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Position    WeldPosition
	Since       *time.Time
	Last        int
	CurveWindow int
}

// PassResult holds the score and its breakdown.
type PassResult struct {
	Score          int
	AvgTemp        float64
	HotFraction    float64
	SpeedCV        float64
	FillerFraction float64
	SpeedScore     float64
	TempScore      float64
	HotPenalty     float64
	FillerScore    float64
}

// PassStats captures a finished, scored pass.
type PassStats struct {
	UID        string
	StartedAt  time.Time
	EndedAt    time.Time
	Position   WeldPosition
	MeanAmp    float64
	Strokes    int
	Samples    int
	DurationMs int64
	Result     PassResult
}

// PassAggregate summarizes a stored pass for reporting.
type PassAggregate struct {
	PassID     int64
	UID        string
	EndedAt    time.Time
	Position   WeldPosition
	MeanAmp    float64
	Samples    int
	DurationMs int64
	Result     PassResult
}
