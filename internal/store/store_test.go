package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuiweld/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "tuiweld.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func testPass(uid string, endedAt time.Time, pos model.WeldPosition, score int) model.PassStats {
	return model.PassStats{
		UID:        uid,
		StartedAt:  endedAt.Add(-5 * time.Second),
		EndedAt:    endedAt,
		Position:   pos,
		MeanAmp:    150,
		Strokes:    1,
		Samples:    2,
		DurationMs: 5000,
		Result: model.PassResult{
			Score:          score,
			AvgTemp:        0.31,
			HotFraction:    0.05,
			SpeedCV:        0.2,
			FillerFraction: 0.25,
			SpeedScore:     0.4,
			TempScore:      0.97,
			HotPenalty:     0.875,
			FillerScore:    1,
		},
	}
}

func TestInsertAndReadPass(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	samples := []model.Sample{
		{X: 1, Y: 2, T: 10, Amp: 150, Position: model.PositionFlat, Filler: false, Stroke: 0},
		{X: 3, Y: 4, T: 26, Amp: 160, Position: model.PositionFlat, Filler: true, Stroke: 1},
	}
	temps := []model.TemperatureSample{{X: 1, Y: 2, Temp: 0.6}, {X: 3, Y: 4, Temp: 0.44}}
	pass := testPass("a", time.Unix(100, 0).UTC(), model.PositionFlat, 81)

	id, err := st.InsertPass(ctx, pass, samples, temps)
	if err != nil {
		t.Fatalf("insert pass: %v", err)
	}
	got, err := st.GetPass(ctx, id)
	if err != nil {
		t.Fatalf("get pass: %v", err)
	}
	if got.UID != "a" || got.Result != pass.Result || got.Position != model.PositionFlat || !got.EndedAt.Equal(pass.EndedAt) {
		t.Fatalf("unexpected pass: %+v", got)
	}

	gotSamples, gotTemps, err := st.GetPassSamples(ctx, id)
	if err != nil {
		t.Fatalf("get samples: %v", err)
	}
	if len(gotSamples) != 2 || len(gotTemps) != 2 {
		t.Fatalf("expected 2 samples, got %d/%d", len(gotSamples), len(gotTemps))
	}
	for i := range samples {
		if gotSamples[i] != samples[i] {
			t.Fatalf("sample %d mismatch: %+v != %+v", i, gotSamples[i], samples[i])
		}
		if gotTemps[i] != temps[i] {
			t.Fatalf("temperature %d mismatch: %+v != %+v", i, gotTemps[i], temps[i])
		}
	}
}

func TestInsertPassRejectsMisalignedTemperatures(t *testing.T) {
	st := openTestStore(t)
	_, err := st.InsertPass(context.Background(), testPass("x", time.Now(), model.PositionFlat, 10),
		[]model.Sample{{}}, nil)
	if err == nil {
		t.Fatalf("expected error for misaligned input")
	}
}

func TestListPassesFilters(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(0, 0).UTC()
	positions := []model.WeldPosition{model.PositionFlat, model.PositionOverhead, model.PositionFlat, model.PositionFlat}
	var ids []int64
	for i, pos := range positions {
		id, err := st.InsertPass(ctx, testPass(string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour), pos, 50+i), nil, nil)
		if err != nil {
			t.Fatalf("insert pass: %v", err)
		}
		ids = append(ids, id)
	}

	all, err := st.ListPasses(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list passes: %v", err)
	}
	if len(all) != 4 || all[0].PassID != ids[0] || all[3].PassID != ids[3] {
		t.Fatalf("unexpected order: %+v", all)
	}

	flat, err := st.ListPasses(ctx, model.StatsConfig{Position: model.PositionFlat, Last: 2})
	if err != nil {
		t.Fatalf("list flat passes: %v", err)
	}
	if len(flat) != 2 || flat[0].PassID != ids[2] || flat[1].PassID != ids[3] {
		t.Fatalf("unexpected flat passes: %+v", flat)
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListPasses(ctx, model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list recent passes: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent passes, got %d", len(recent))
	}

	latest, err := st.LatestPassID(ctx)
	if err != nil {
		t.Fatalf("latest pass: %v", err)
	}
	if latest != ids[3] {
		t.Fatalf("expected latest %d, got %d", ids[3], latest)
	}
}

func TestMissingPass(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.GetPass(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LatestPassID(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty store, got %v", err)
	}
}
