// Package main provides the CLI entrypoint for fretdrill.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fretdrill/internal/config"
	"github.com/verte-zerg/fretdrill/internal/drill"
	"github.com/verte-zerg/fretdrill/internal/fretboard"
	"github.com/verte-zerg/fretdrill/internal/model"
	"github.com/verte-zerg/fretdrill/internal/selector"
	"github.com/verte-zerg/fretdrill/internal/stats"
	"github.com/verte-zerg/fretdrill/internal/store"
	"github.com/verte-zerg/fretdrill/internal/tui"
)

const (
	defaultDrill        = string(model.DrillNameNote)
	defaultTuning       = "standard"
	defaultWeakFactor   = 2.0
	defaultFlashFrames  = 5
	defaultAdvanceDelay = 600 * time.Millisecond
)

var (
	drillKind         string
	drillTuning       string
	drillMinString    int
	drillMaxString    int
	drillMinFret      int
	drillMaxFret      int
	drillFast         time.Duration
	drillFocusWeak    bool
	drillWeakFactor   float64
	drillFlashFrames  int
	drillAdvanceDelay time.Duration
	drillLogFile      string
	drillDebug        bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fretdrill",
		Short:         "TUI guitar fretboard note trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDrillCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&drillTuning, "tuning", defaultTuning, "tuning preset or notes from the highest string, e.g. E,B,G,D,A,E")
	flags.IntVar(&drillMinString, "min-string", fretboard.DefaultBounds.MinString, "first string, 0 is the highest")
	flags.IntVar(&drillMaxString, "max-string", fretboard.DefaultBounds.MaxString, "last string (inclusive)")
	flags.IntVar(&drillMinFret, "min-fret", fretboard.DefaultBounds.MinFret, "first fret")
	flags.IntVar(&drillMaxFret, "max-fret", fretboard.DefaultBounds.MaxFret, "fret bound (exclusive)")

	rootCmd.Flags().StringVar(&drillKind, "drill", defaultDrill, "drill to run: name or find")
	rootCmd.Flags().DurationVar(&drillFast, "fast-threshold", selector.DefaultFastThreshold, "answers this fast retire an item")
	rootCmd.Flags().BoolVar(&drillFocusWeak, "focus-weak", false, "bias selection toward slow or missed items")
	rootCmd.Flags().Float64Var(&drillWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak items")
	rootCmd.Flags().IntVar(&drillFlashFrames, "flash-frames", defaultFlashFrames, "frames the answer flash stays visible")
	rootCmd.Flags().DurationVar(&drillAdvanceDelay, "advance-delay", defaultAdvanceDelay, "pause before the next find target")
	rootCmd.Flags().StringVar(&drillLogFile, "log-file", "", "write structured logs to this file")
	rootCmd.Flags().BoolVar(&drillDebug, "debug", false, "log at debug level")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newNotesCmd())
	rootCmd.AddCommand(newTuningsCmd())

	return rootCmd
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadDrillConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(drillLogFile, drillDebug)
	if err != nil {
		return err
	}
	defer closeLog()
	cfg.Logger = logger

	st, err := store.Open()
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close journal: %v\n", cerr)
		}
	}()

	factory := func() (drill.Session, error) {
		return drill.New(cfg, drill.WithRecorder(st))
	}
	m, err := tui.NewModel(cfg, factory, st)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return printSummaries(cmd.Context(), cmd.OutOrStdout(), st, m.Sessions())
}

// loadDrillConfig merges the config file under explicitly set flags.
func loadDrillConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	d := fileCfg.Drill
	applyStringConfig(cmd, "drill", &drillKind, d.Drill)
	applyStringConfig(cmd, "tuning", &drillTuning, d.Tuning)
	applyIntConfig(cmd, "min-string", &drillMinString, d.MinString)
	applyIntConfig(cmd, "max-string", &drillMaxString, d.MaxString)
	applyIntConfig(cmd, "min-fret", &drillMinFret, d.MinFret)
	applyIntConfig(cmd, "max-fret", &drillMaxFret, d.MaxFret)
	applyDurationConfig(cmd, "fast-threshold", &drillFast, d.FastThreshold)
	applyBoolConfig(cmd, "focus-weak", &drillFocusWeak, d.FocusWeak)
	applyFloatConfig(cmd, "weak-factor", &drillWeakFactor, d.WeakFactor)
	applyIntConfig(cmd, "flash-frames", &drillFlashFrames, d.FlashFrames)
	applyDurationConfig(cmd, "advance-delay", &drillAdvanceDelay, d.AdvanceDelay)
	applyStringConfig(cmd, "log-file", &drillLogFile, d.LogFile)

	tuning, err := fretboard.ParseTuning(drillTuning)
	if err != nil {
		return model.Config{}, err
	}
	cfg := model.Config{
		Drill:         model.DrillKind(strings.ToLower(strings.TrimSpace(drillKind))),
		Tuning:        tuning,
		MinString:     drillMinString,
		MaxString:     drillMaxString,
		MinFret:       drillMinFret,
		MaxFret:       drillMaxFret,
		FastThreshold: drillFast,
		FocusWeak:     drillFocusWeak,
		WeakFactor:    drillWeakFactor,
		FlashFrames:   drillFlashFrames,
		AdvanceDelay:  drillAdvanceDelay,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func printSummaries(ctx context.Context, w io.Writer, st *store.Store, sessions []drill.Session) error {
	if ctx == nil {
		ctx = context.Background()
	}
	journal, err := st.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	attempts := make(map[uuid.UUID]int, len(journal))
	for _, summary := range journal {
		attempts[summary.ID] = summary.Attempts
	}

	for _, s := range sessions {
		if s.State() == drill.Ready {
			continue
		}
		if err := stats.RenderSummary(w, s.Kind(), s.Stats(), s.Elapsed()); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		n, ok := attempts[s.ID()]
		if !ok {
			// Journal writes are best-effort.
			if _, err := fmt.Fprintln(w, "Attempt journal unavailable."); err != nil {
				return fmt.Errorf("failed to write summary: %w", err)
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "Journaled attempts: %d\n", n); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		report, err := stats.BuildReport(ctx, st, s.ID())
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		if err := report.Render(w, 0); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return nil
}

// openLogger returns a discarding logger unless a log file is given; the
// TUI owns the terminal.
func openLogger(path string, debug bool) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	closeFn := func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
	return slog.New(h), closeFn, nil
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

func newNotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print the note at every position in range",
		Args:  cobra.NoArgs,
		RunE:  runNotesCmd,
	}
}

func runNotesCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	d := fileCfg.Drill
	applyStringConfig(cmd, "tuning", &drillTuning, d.Tuning)
	applyIntConfig(cmd, "min-string", &drillMinString, d.MinString)
	applyIntConfig(cmd, "max-string", &drillMaxString, d.MaxString)
	applyIntConfig(cmd, "min-fret", &drillMinFret, d.MinFret)
	applyIntConfig(cmd, "max-fret", &drillMaxFret, d.MaxFret)

	tuning, err := fretboard.ParseTuning(drillTuning)
	if err != nil {
		return err
	}
	b := fretboard.Bounds{
		MinString: drillMinString,
		MaxString: drillMaxString,
		MinFret:   drillMinFret,
		MaxFret:   drillMaxFret,
	}
	if err := fretboard.Validate(tuning, b); err != nil {
		return err
	}
	return stats.RenderNoteGrid(cmd.OutOrStdout(), tuning, b)
}

func newTuningsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tunings",
		Short: "List tuning presets",
		Args:  cobra.NoArgs,
		RunE:  runTuningsCmd,
	}
}

func runTuningsCmd(cmd *cobra.Command, _ []string) error {
	names := make([]string, 0, len(fretboard.Presets))
	for name := range fretboard.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, fretboard.FormatTuning(fretboard.Presets[name])); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *config.Duration) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value.Std()
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fretdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[drill]
# drill = %q              # Drill to run: name or find
# tuning = %q         # Preset or notes from the highest string
# min-string = %d             # First string, 0 is the highest
# max-string = %d             # Last string (inclusive)
# min-fret = %d               # First fret
# max-fret = %d              # Fret bound (exclusive)
# fast-threshold = %q      # Answers this fast retire an item
# focus-weak = false         # Bias selection toward slow or missed items
# weak-factor = %.1f         # Weight factor for weak items
# flash-frames = %d           # Frames the answer flash stays visible
# advance-delay = %q   # Pause before the next find target
# log-file = ""              # Write structured logs to this file
`,
		defaultDrill,
		defaultTuning,
		fretboard.DefaultBounds.MinString,
		fretboard.DefaultBounds.MaxString,
		fretboard.DefaultBounds.MinFret,
		fretboard.DefaultBounds.MaxFret,
		selector.DefaultFastThreshold.String(),
		defaultWeakFactor,
		defaultFlashFrames,
		defaultAdvanceDelay.String(),
	)
}

func validateConfig(cfg model.Config) error {
	switch cfg.Drill {
	case model.DrillNameNote, model.DrillFindAll:
	default:
		return fmt.Errorf("--drill must be %q or %q", model.DrillNameNote, model.DrillFindAll)
	}
	if cfg.FastThreshold <= 0 {
		return fmt.Errorf("--fast-threshold must be > 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.FlashFrames < 0 {
		return fmt.Errorf("--flash-frames must be >= 0")
	}
	if cfg.AdvanceDelay < 0 {
		return fmt.Errorf("--advance-delay must be >= 0")
	}
	b := fretboard.Bounds{
		MinString: cfg.MinString,
		MaxString: cfg.MaxString,
		MinFret:   cfg.MinFret,
		MaxFret:   cfg.MaxFret,
	}
	if err := fretboard.Validate(cfg.Tuning, b); err != nil {
		var cfgErr *fretboard.ConfigError
		if errors.As(err, &cfgErr) {
			return fmt.Errorf("invalid %s: %s (check --tuning and the string/fret bounds)", cfgErr.Field, cfgErr.Reason)
		}
		return err
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
