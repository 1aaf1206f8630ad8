// Package main provides the CLI entrypoint for lotofacil.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/lotofacil/internal/config"
	"github.com/verte-zerg/lotofacil/internal/export"
	"github.com/verte-zerg/lotofacil/internal/generator"
	"github.com/verte-zerg/lotofacil/internal/logger"
	"github.com/verte-zerg/lotofacil/internal/store"
)

var (
	rootDB        string
	rootLogLevel  string
	rootLogFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "lotofacil",
		Short:         "Lotofácil draw statistics and play generator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&rootDB, "db", config.DefaultDBPath(), "path to the draw database")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", logger.FormatConsole, "log format (console, json)")

	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newDumpCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newRankCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newEvaluateCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newBatchesCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// env bundles what every command needs after config resolution.
type env struct {
	file config.FileConfig
	log  zerolog.Logger
}

// loadEnv reads dotenv files and the TOML config, then applies the
// persistent flags on top.
func loadEnv(cmd *cobra.Command) (env, error) {
	if err := config.LoadEnv(config.DefaultEnvPaths()...); err != nil {
		return env{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return env{}, fmt.Errorf("failed to load config: %w", err)
	}
	config.ApplyEnv(&fileCfg)

	applyStringConfig(cmd, "db", &rootDB, fileCfg.History.DB)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &rootLogFormat, fileCfg.Log.Format)

	log, err := logger.New(logger.Config{Level: rootLogLevel, Format: rootLogFormat})
	if err != nil {
		return env{}, err
	}
	return env{file: fileCfg, log: log}, nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(rootDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func parseFormat(value string) (export.Format, error) {
	f, err := export.ParseFormat(value)
	if err != nil {
		return "", fmt.Errorf("--format: %w", err)
	}
	return f, nil
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
	*target = value.Duration
}

func defaultConfigTemplate() string {
	d := generator.DefaultConfig()
	return fmt.Sprintf(`# lotofacil configuration
# Uncomment a value to enable it. CLI flags override config values.
# LOTOFACIL_DB, LOTOFACIL_API_URL and LOTOFACIL_LOG_LEVEL override this file.

[generate]
# alpha = %.2f            # Weight of normalized frequency
# beta = %.2f             # Weight of normalized delay (alpha + beta = 1)
# floor = %.2f            # Base weight added to every number
# sum-check = %t
# sum-min = %d
# sum-max = %d
# odd-check = %t
# odd-min = %d
# odd-max = %d
# run-check = %t
# max-run = %d            # Longest run of consecutive numbers
# overlap-check = %t
# max-overlap = %d        # Numbers shared with the latest draw
# max-attempts = %d       # Attempts per play before giving up
# plays = %d
# distinct = false
# workers = %d

[history]
# db = "/path/to/lotofacil.db"
# last = 0                # Use only the newest N draws (0 = all)

[sync]
# api-url = %q
# rate = 2.0              # Requests per second
# timeout = "10s"

[serve]
# addr = %q

[log]
# level = "info"
# format = "console"      # console or json
`,
		d.Alpha,
		d.Beta,
		d.Floor,
		d.Sum.Enabled,
		d.Sum.Min,
		d.Sum.Max,
		d.Odd.Enabled,
		d.Odd.Min,
		d.Odd.Max,
		d.MaxRun.Enabled,
		d.MaxRun.Max,
		d.MaxOverlap.Enabled,
		d.MaxOverlap.Max,
		d.MaxAttempts,
		d.Plays,
		defaultWorkers,
		defaultAPIURL,
		defaultServeAddr,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
