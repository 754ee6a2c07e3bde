// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/tuiweld/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Timestamps are stored in UTC with fixed width so text order is time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a pass does not exist.
var ErrNotFound = errors.New("pass not found")

// Store wraps SQLite access for pass data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passes (
			id INTEGER PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			position TEXT NOT NULL,
			mean_amp REAL NOT NULL,
			strokes INTEGER NOT NULL,
			samples INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			score INTEGER NOT NULL,
			avg_temp REAL NOT NULL,
			hot_fraction REAL NOT NULL,
			speed_cv REAL NOT NULL,
			filler_fraction REAL NOT NULL,
			speed_score REAL NOT NULL,
			temp_score REAL NOT NULL,
			hot_penalty REAL NOT NULL,
			filler_score REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS pass_samples (
			pass_id INTEGER NOT NULL,
			seq INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			t REAL NOT NULL,
			amp INTEGER NOT NULL,
			position TEXT NOT NULL,
			filler INTEGER NOT NULL,
			stroke INTEGER NOT NULL,
			temp REAL NOT NULL,
			PRIMARY KEY (pass_id, seq)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passes_ended_at ON passes(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_passes_position ON passes(position);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertPass stores a scored pass with its samples and temperatures.
func (s *Store) InsertPass(ctx context.Context, stats model.PassStats, samples []model.Sample, temps []model.TemperatureSample) (passID int64, err error) {
	if len(samples) != len(temps) {
		return 0, fmt.Errorf("samples and temperatures differ in length: %d != %d", len(samples), len(temps))
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	r := stats.Result
	res, err := tx.ExecContext(ctx,
		`INSERT INTO passes (uid, started_at, ended_at, position, mean_amp, strokes, samples, duration_ms,
			score, avg_temp, hot_fraction, speed_cv, filler_fraction, speed_score, temp_score, hot_penalty, filler_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stats.UID,
		stats.StartedAt.UTC().Format(timeLayout),
		stats.EndedAt.UTC().Format(timeLayout),
		string(stats.Position),
		stats.MeanAmp,
		stats.Strokes,
		stats.Samples,
		stats.DurationMs,
		r.Score,
		r.AvgTemp,
		r.HotFraction,
		r.SpeedCV,
		r.FillerFraction,
		r.SpeedScore,
		r.TempScore,
		r.HotPenalty,
		r.FillerScore,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(samples) > 0 {
		var stmt *sql.Stmt
		stmt, err = tx.PrepareContext(ctx,
			`INSERT INTO pass_samples (pass_id, seq, x, y, t, amp, position, filler, stroke, temp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for i, smp := range samples {
			filler := 0
			if smp.Filler {
				filler = 1
			}
			if _, err = stmt.ExecContext(ctx, id, i, smp.X, smp.Y, smp.T, smp.Amp, string(smp.Position), filler, smp.Stroke, temps[i].Temp); err != nil {
				return 0, err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

const passColumns = `id, uid, ended_at, position, mean_amp, samples, duration_ms,
	score, avg_temp, hot_fraction, speed_cv, filler_fraction, speed_score, temp_score, hot_penalty, filler_score`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPass(row rowScanner) (model.PassAggregate, error) {
	var agg model.PassAggregate
	var endedAt, position string
	r := &agg.Result
	if err := row.Scan(&agg.PassID, &agg.UID, &endedAt, &position, &agg.MeanAmp, &agg.Samples, &agg.DurationMs,
		&r.Score, &r.AvgTemp, &r.HotFraction, &r.SpeedCV, &r.FillerFraction,
		&r.SpeedScore, &r.TempScore, &r.HotPenalty, &r.FillerScore); err != nil {
		return model.PassAggregate{}, err
	}
	parsed, err := time.Parse(timeLayout, endedAt)
	if err != nil {
		return model.PassAggregate{}, err
	}
	agg.EndedAt = parsed
	agg.Position = model.WeldPosition(position)
	return agg, nil
}

// ListPasses returns pass aggregates filtered by stats config, oldest first.
func (s *Store) ListPasses(ctx context.Context, cfg model.StatsConfig) ([]model.PassAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Position != "" {
		clauses = append(clauses, "position = ?")
		args = append(args, string(cfg.Position))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	query := fmt.Sprintf(`SELECT %s
		FROM passes
		WHERE %s
		ORDER BY ended_at ASC, id ASC`, passColumns, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var passes []model.PassAggregate
	for rows.Next() {
		agg, err := scanPass(rows)
		if err != nil {
			return nil, err
		}
		passes = append(passes, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(passes) > cfg.Last {
		passes = passes[len(passes)-cfg.Last:]
	}
	return passes, nil
}

// GetPass returns one pass by id.
func (s *Store) GetPass(ctx context.Context, id int64) (model.PassAggregate, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT %s FROM passes WHERE id = ?`, passColumns), id)
	agg, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PassAggregate{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return agg, err
}

// LatestPassID returns the id of the most recently finished pass.
func (s *Store) LatestPassID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM passes ORDER BY ended_at DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return id, err
}

// GetPassSamples returns the samples and temperatures of a pass in capture order.
func (s *Store) GetPassSamples(ctx context.Context, passID int64) ([]model.Sample, []model.TemperatureSample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT x, y, t, amp, position, filler, stroke, temp
		 FROM pass_samples
		 WHERE pass_id = ?
		 ORDER BY seq ASC`, passID)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.Sample
	var temps []model.TemperatureSample
	for rows.Next() {
		var smp model.Sample
		var position string
		var filler int
		var temp float64
		if err := rows.Scan(&smp.X, &smp.Y, &smp.T, &smp.Amp, &position, &filler, &smp.Stroke, &temp); err != nil {
			return nil, nil, err
		}
		smp.Position = model.WeldPosition(position)
		smp.Filler = filler != 0
		samples = append(samples, smp)
		temps = append(temps, model.TemperatureSample{X: smp.X, Y: smp.Y, Temp: temp})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return samples, temps, nil
}
