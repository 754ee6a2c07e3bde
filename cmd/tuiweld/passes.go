package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiweld/internal/config"
	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/pathfile"
	"github.com/verte-zerg/tuiweld/internal/store"
	"github.com/verte-zerg/tuiweld/internal/weld"
)

var (
	exportID   int64
	exportLast bool
	exportOut  string
)

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score FILE",
		Short: "Score a recorded pass",
		Args:  cobra.ExactArgs(1),
		RunE:  runScoreCmd,
	}
}

func runScoreCmd(cmd *cobra.Command, args []string) error {
	log, err := commandLogger()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	rec, err := pathfile.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read recording: %w", err)
	}
	result, err := scoreRecording(rec)
	if err != nil {
		if errors.Is(err, weld.ErrPathTooShort) {
			log.Info("recording rejected", zap.String("uid", rec.UID), zap.Int("samples", len(rec.Samples)))
			return fmt.Errorf("weld path too short: %d samples, need at least %d", len(rec.Samples), weld.MinSamples)
		}
		return err
	}
	log.Info("recording scored", zap.String("uid", rec.UID), zap.Int("score", result.Score))
	return writeScore(cmd.OutOrStdout(), rec, result)
}

// scoreRecording scores the recorded temperatures, or rebuilds them from the
// samples when the recording carries none.
func scoreRecording(rec pathfile.Recording) (model.PassResult, error) {
	if len(rec.Temperatures) == 0 {
		return weld.Replay(rec.Samples).Score()
	}
	return weld.Score(rec.Samples, rec.Temperatures)
}

func writeScore(w io.Writer, rec pathfile.Recording, result model.PassResult) error {
	if _, err := fmt.Fprintf(w, "Weld scored: %d/100\n\n%s\n", result.Score, weld.Report(result)); err != nil {
		return err
	}
	if rec.Score != nil && *rec.Score != result.Score {
		if _, err := fmt.Fprintf(w, "\nRecorded score was %d\n", *rec.Score); err != nil {
			return err
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored pass as YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().Int64Var(&exportID, "id", 0, "pass id (see tuiweld stats)")
	cmd.Flags().BoolVar(&exportLast, "last", false, "export the most recent pass")
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	cmd.MarkFlagsMutuallyExclusive("id", "last")
	cmd.MarkFlagsOneRequired("id", "last")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	id := exportID
	if exportLast {
		id, err = st.LatestPassID(cmd.Context())
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("no passes recorded yet")
			}
			return fmt.Errorf("failed to find latest pass: %w", err)
		}
	}
	rec, err := loadRecording(cmd, st, id)
	if err != nil {
		return err
	}

	if exportOut == "" {
		return pathfile.Encode(cmd.OutOrStdout(), rec)
	}
	if err := pathfile.WriteFile(exportOut, rec); err != nil {
		return err
	}
	logErrf("Wrote %s\n", exportOut)
	return nil
}

func loadRecording(cmd *cobra.Command, st *store.Store, id int64) (pathfile.Recording, error) {
	pass, err := st.GetPass(cmd.Context(), id)
	if err != nil {
		return pathfile.Recording{}, fmt.Errorf("failed to load pass: %w", err)
	}
	samples, temps, err := st.GetPassSamples(cmd.Context(), id)
	if err != nil {
		return pathfile.Recording{}, fmt.Errorf("failed to load pass samples: %w", err)
	}
	rec := pathfile.New(samples, temps, pass.EndedAt)
	rec.UID = pass.UID
	score := pass.Result.Score
	rec.Score = &score
	return rec, nil
}
