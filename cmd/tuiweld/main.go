// Package main provides the CLI entrypoint for tuiweld.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/tuiweld/internal/config"
	"github.com/verte-zerg/tuiweld/internal/logging"
	"github.com/verte-zerg/tuiweld/internal/model"
	"github.com/verte-zerg/tuiweld/internal/stats"
	"github.com/verte-zerg/tuiweld/internal/statsui"
	"github.com/verte-zerg/tuiweld/internal/store"
	"github.com/verte-zerg/tuiweld/internal/tui"
)

const (
	defaultAmp         = 120
	defaultPosition    = string(model.PositionFlat)
	defaultCellWidth   = 8.0
	defaultCellHeight  = 16.0
	defaultCurveWindow = 10
)

var (
	practiceAmp        int
	practicePosition   string
	practiceGhost      bool
	practiceCellWidth  float64
	practiceCellHeight float64

	statsPosition    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

// practiceFlags holds practice settings before the config file is applied.
type practiceFlags struct {
	amp        int
	position   string
	ghost      bool
	cellWidth  float64
	cellHeight float64
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuiweld",
		Short:         "TUI TIG welding trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().IntVar(&practiceAmp, "amp", defaultAmp, "torch amperage (80-250)")
	rootCmd.Flags().StringVar(&practicePosition, "position", defaultPosition, "weld position (flat, vertical, overhead)")
	rootCmd.Flags().BoolVar(&practiceGhost, "ghost", false, "show the ghost guide along the joint")
	rootCmd.Flags().Float64Var(&practiceCellWidth, "cell-width", defaultCellWidth, "canvas pixels per terminal column")
	rootCmd.Flags().Float64Var(&practiceCellHeight, "cell-height", defaultCellHeight, "canvas pixels per terminal row")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newScoreCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	configPath := config.DefaultConfigPath()
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	flags := practiceFlags{
		amp:        practiceAmp,
		position:   practicePosition,
		ghost:      practiceGhost,
		cellWidth:  practiceCellWidth,
		cellHeight: practiceCellHeight,
	}
	cfg, err := resolvePracticeConfig(cmd, flags, fileCfg.Practice)
	if err != nil {
		return err
	}

	log, err := newLogger(fileCfg.Log, false)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			log.Error("failed to close db", zap.Error(cerr))
		}
	}()

	log.Info("practice started",
		zap.Int("amp", cfg.Amp),
		zap.String("position", string(cfg.Position)),
		zap.Float64("cell_width", cfg.CellWidth),
		zap.Float64("cell_height", cfg.CellHeight))

	m := tui.NewModel(cfg, st, log)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if _, err := os.Stat(configPath); err == nil {
		go func() {
			err := config.Watch(ctx, configPath, log, func(fc config.FileConfig) {
				next, err := resolvePracticeConfig(cmd, flags, fc.Practice)
				if err != nil {
					log.Warn("ignoring invalid practice config", zap.Error(err))
					return
				}
				program.Send(tui.ConfigMsg{Config: next})
			})
			if err != nil {
				log.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeConfig overlays the config file on the flag values. Flags
// set on the command line win.
func resolvePracticeConfig(cmd *cobra.Command, flags practiceFlags, file config.PracticeConfig) (model.Config, error) {
	applyIntConfig(cmd, "amp", &flags.amp, file.Amp)
	applyStringConfig(cmd, "position", &flags.position, file.Position)
	applyBoolConfig(cmd, "ghost", &flags.ghost, file.Ghost)
	applyFloatConfig(cmd, "cell-width", &flags.cellWidth, file.CellWidth)
	applyFloatConfig(cmd, "cell-height", &flags.cellHeight, file.CellHeight)

	position, err := model.ParsePosition(flags.position)
	if err != nil {
		return model.Config{}, fmt.Errorf("--position: %w", err)
	}
	cfg := model.Config{
		Amp:        flags.amp,
		Position:   position,
		Ghost:      flags.ghost,
		CellWidth:  flags.cellWidth,
		CellHeight: flags.cellHeight,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, console bool) (*zap.Logger, error) {
	opts := logging.Options{
		Path:    config.DefaultLogPath(),
		Console: console,
	}
	if cfg.Level != nil {
		opts.Level = *cfg.Level
	}
	if cfg.MaxSizeMB != nil {
		opts.MaxSizeMB = *cfg.MaxSizeMB
	}
	if cfg.MaxBackups != nil {
		opts.MaxBackups = *cfg.MaxBackups
	}
	if cfg.MaxAgeDays != nil {
		opts.MaxAgeDays = *cfg.MaxAgeDays
	}
	log, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return log, nil
}

// commandLogger loads the log section of the config for non-TUI commands.
// Warnings also go to stderr.
func commandLogger() (*zap.Logger, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newLogger(fileCfg.Log, true)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show pass history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsPosition, "position", "", "weld position filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N passes")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfigFromFlags()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		return renderPlainStats(cmd, st, cfg)
	}

	m := statsui.NewModel(st, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func statsConfigFromFlags() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	var position model.WeldPosition
	if statsPosition != "" {
		parsed, err := model.ParsePosition(statsPosition)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("--position: %w", err)
		}
		position = parsed
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return model.StatsConfig{
		Position:    position,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func renderPlainStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Passes); err != nil {
		return err
	}
	if len(report.Passes) == 0 {
		return nil
	}
	if err := stats.RenderCurves(out, report.Passes, cfg.CurveWindow); err != nil {
		return err
	}
	if len(report.Factors) > 0 {
		weakest := report.Factors[0]
		if _, err := fmt.Fprintf(out, "\nWeakest factor: %s (%.0f%%). %s\n\n", weakest.Name, weakest.Average*100, weakest.Tip); err != nil {
			return err
		}
	}
	return stats.RenderPassTable(out, report.Passes)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuiweld configuration
# Uncomment a value to enable it. CLI flags override config values.
# Practice settings are reloaded while the trainer is running.

[practice]
# amp = %d                # Torch amperage (%d-%d)
# position = %q        # Weld position: flat, vertical or overhead
# ghost = false           # Show the ghost guide along the joint
# cell-width = %.1f        # Canvas pixels per terminal column
# cell-height = %.1f      # Canvas pixels per terminal row

[log]
# level = %q          # debug, info, warn or error
# max-size = %d            # Megabytes before the log file rotates
# max-backups = %d         # Rotated files to keep
# max-age = %d            # Days to keep rotated files
`,
		defaultAmp,
		model.MinAmp,
		model.MaxAmp,
		defaultPosition,
		defaultCellWidth,
		defaultCellHeight,
		logging.DefaultLevel,
		logging.DefaultMaxSizeMB,
		logging.DefaultMaxBackups,
		logging.DefaultMaxAgeDays,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Amp < model.MinAmp || cfg.Amp > model.MaxAmp {
		return fmt.Errorf("--amp must be between %d and %d", model.MinAmp, model.MaxAmp)
	}
	if cfg.CellWidth <= 0 {
		return fmt.Errorf("--cell-width must be > 0")
	}
	if cfg.CellHeight <= 0 {
		return fmt.Errorf("--cell-height must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
