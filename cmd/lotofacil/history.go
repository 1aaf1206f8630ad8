package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lotofacil/internal/caixa"
	"github.com/verte-zerg/lotofacil/internal/export"
	"github.com/verte-zerg/lotofacil/internal/history"
	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
	"github.com/verte-zerg/lotofacil/internal/statsui"
)

const (
	defaultAPIURL      = caixa.DefaultBaseURL
	defaultSyncRate    = 2.0
	defaultSyncTimeout = 10 * time.Second
	defaultRankTop     = model.NumberCount
	defaultTrendWindow = 10
)

var (
	dumpOut string

	syncAPIURL  string
	syncRate    float64
	syncTimeout time.Duration

	rankLast   int
	rankTop    int
	rankFull   bool
	rankCombos int
	rankFormat string

	statsLast   int
	statsTop    int
	statsWindow int
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <csv>",
		Short: "Import draws from a results CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	loaded, err := history.LoadCSV(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	if len(loaded.Records) == 0 {
		return fmt.Errorf("no valid draws in %s (%d rows skipped)", args[0], loaded.Skipped)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	inserted, err := st.UpsertDraws(cmd.Context(), loaded.Records)
	if err != nil {
		return fmt.Errorf("failed to store draws: %w", err)
	}
	e.log.Info().
		Str("file", args[0]).
		Int("read", len(loaded.Records)).
		Int("inserted", inserted).
		Int("skipped", loaded.Skipped).
		Msg("import finished")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d draws (%d new, %d rows skipped)\n", len(loaded.Records), inserted, loaded.Skipped)
	return err
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write stored draws as CSV",
		Args:  cobra.NoArgs,
		RunE:  runDumpCmd,
	}
	cmd.Flags().StringVarP(&dumpOut, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func runDumpCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadEnv(cmd); err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	records, err := st.ListDraws(cmd.Context(), 0)
	if err != nil {
		return fmt.Errorf("failed to list draws: %w", err)
	}
	if dumpOut == "" {
		return history.WriteCSV(cmd.OutOrStdout(), records)
	}
	return writeCSVFile(dumpOut, records)
}

func writeCSVFile(path string, records []model.DrawRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "draws-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	if err := history.WriteCSV(writer, records); err != nil {
		return fmt.Errorf("failed to write draws: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush draws: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close draws file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write draws: %w", err)
	}
	return nil
}

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch missing contests from the results API",
		Args:  cobra.NoArgs,
		RunE:  runSyncCmd,
	}
	cmd.Flags().StringVar(&syncAPIURL, "api-url", defaultAPIURL, "results API base URL")
	cmd.Flags().Float64Var(&syncRate, "rate", defaultSyncRate, "requests per second (negative: unlimited)")
	cmd.Flags().DurationVar(&syncTimeout, "timeout", defaultSyncTimeout, "per-request timeout")
	return cmd
}

func runSyncCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "api-url", &syncAPIURL, e.file.Sync.APIURL)
	applyFloatConfig(cmd, "rate", &syncRate, e.file.Sync.Rate)
	applyDurationConfig(cmd, "timeout", &syncTimeout, e.file.Sync.Timeout)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	client := caixa.New(caixa.Options{
		BaseURL: syncAPIURL,
		Timeout: syncTimeout,
		Rate:    syncRate,
		Logger:  e.log,
	})
	res, err := client.Sync(cmd.Context(), st)
	if err != nil {
		if res.Inserted > 0 {
			logErrf("stored %d draws before the failure\n", res.Inserted)
		}
		return err
	}
	out := cmd.OutOrStdout()
	if res.Remote <= res.LocalBefore {
		_, err = fmt.Fprintf(out, "Up to date at contest %d\n", res.LocalBefore)
		return err
	}
	if _, err := fmt.Fprintf(out, "Synced contests %d-%d: %d new draws\n", res.LocalBefore+1, res.Remote, res.Inserted); err != nil {
		return err
	}
	if len(res.Unavailable) > 0 {
		_, err = fmt.Fprintf(out, "Unavailable: %v\n", res.Unavailable)
	}
	return err
}

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Show frequency and delay rankings",
		Args:  cobra.NoArgs,
		RunE:  runRankCmd,
	}
	cmd.Flags().IntVar(&rankLast, "last", 0, "use only the newest N draws")
	cmd.Flags().IntVar(&rankTop, "top", defaultRankTop, "ranking entries to show")
	cmd.Flags().BoolVar(&rankFull, "full", false, "include balance and repeated combinations")
	cmd.Flags().IntVar(&rankCombos, "combos", 0, "repeated combinations per size (with --full)")
	cmd.Flags().StringVar(&rankFormat, "format", string(export.FormatText), "output format (text, json, yaml)")
	return cmd
}

func runRankCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "last", &rankLast, e.file.History.Last)
	if rankLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if rankTop <= 0 {
		return fmt.Errorf("--top must be > 0")
	}
	format, err := parseFormat(rankFormat)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	report, err := stats.BuildReport(cmd.Context(), st, model.StatsConfig{Last: rankLast, TopN: rankCombos})
	if err != nil {
		return fmt.Errorf("failed to load draws: %w", err)
	}
	if len(report.Records) == 0 {
		logErrln("No draws stored. Run: lotofacil import <csv> or lotofacil sync")
	}
	if rankFull {
		return export.WriteReport(cmd.OutOrStdout(), format, report, rankTop)
	}
	return export.WriteRankings(cmd.OutOrStdout(), format, report.Analysis, rankTop)
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Browse draw statistics",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsLast, "last", 0, "use only the newest N draws")
	cmd.Flags().IntVar(&statsTop, "top", 0, "repeated combinations per size")
	cmd.Flags().IntVar(&statsWindow, "window", defaultTrendWindow, "moving average window of the sum trend")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "last", &statsLast, e.file.History.Last)

	cfg := model.StatsConfig{
		Last:        statsLast,
		TopN:        statsTop,
		TrendWindow: statsWindow,
	}
	if cfg.Last < 0 || cfg.TopN < 0 {
		return fmt.Errorf("--last and --top must be >= 0")
	}
	if cfg.TrendWindow < 1 {
		return fmt.Errorf("--window must be >= 1")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ui := statsui.NewModel(contextSource{ctx: cmd.Context(), src: st}, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

// contextSource binds the command context to store reads issued by the UI.
type contextSource struct {
	ctx context.Context
	src stats.DrawSource
}

func (s contextSource) ListDraws(_ context.Context, last int) ([]model.DrawRecord, error) {
	return s.src.ListDraws(s.ctx, last)
}
