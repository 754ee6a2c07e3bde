// Package pathfile reads and writes weld pass recordings as YAML.
package pathfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuiweld/internal/model"
)

// Version is the recording format version written by this package.
const Version = 1

// Recording is a serialized weld pass.
type Recording struct {
	Version      int                       `yaml:"version"`
	UID          string                    `yaml:"uid"`
	RecordedAt   time.Time                 `yaml:"recorded_at"`
	Score        *int                      `yaml:"score,omitempty"`
	Samples      []model.Sample            `yaml:"samples"`
	Temperatures []model.TemperatureSample `yaml:"temperatures,omitempty"`
}

// New builds a recording with a fresh identifier.
func New(samples []model.Sample, temps []model.TemperatureSample, recordedAt time.Time) Recording {
	return Recording{
		Version:      Version,
		UID:          uuid.NewString(),
		RecordedAt:   recordedAt.UTC(),
		Samples:      samples,
		Temperatures: temps,
	}
}

// Validate checks ordering and alignment. Temperatures may be omitted.
func (r Recording) Validate() error {
	if r.Version != Version {
		return fmt.Errorf("unsupported recording version %d", r.Version)
	}
	if len(r.Temperatures) > 0 && len(r.Temperatures) != len(r.Samples) {
		return fmt.Errorf("recording has %d samples but %d temperatures", len(r.Samples), len(r.Temperatures))
	}
	for i := 1; i < len(r.Samples); i++ {
		if r.Samples[i].T <= r.Samples[i-1].T {
			return fmt.Errorf("sample %d: timestamp %v does not follow %v", i, r.Samples[i].T, r.Samples[i-1].T)
		}
	}
	for i, s := range r.Samples {
		if s.Position == "" {
			r.Samples[i].Position = model.PositionFlat
			continue
		}
		if _, err := model.ParsePosition(string(s.Position)); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return nil
}

// Encode writes the recording as YAML.
func Encode(w io.Writer, r Recording) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}
	return enc.Close()
}

// Decode reads and validates a YAML recording.
func Decode(rd io.Reader) (Recording, error) {
	var r Recording
	dec := yaml.NewDecoder(rd)
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		if errors.Is(err, io.EOF) {
			return Recording{}, fmt.Errorf("recording is empty")
		}
		return Recording{}, fmt.Errorf("failed to decode recording: %w", err)
	}
	if err := r.Validate(); err != nil {
		return Recording{}, err
	}
	return r, nil
}

// ReadFile decodes the recording at path.
func ReadFile(path string) (Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return Recording{}, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only recording.
			_ = cerr
		}
	}()
	return Decode(f)
}

// WriteFile atomically writes the recording to path.
func WriteFile(path string, r Recording) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create recording dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "recording-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp recording: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := Encode(tmpFile, r); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close recording: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write recording: %w", err)
	}
	return nil
}
