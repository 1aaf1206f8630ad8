package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/lotofacil/internal/config"
	"github.com/verte-zerg/lotofacil/internal/export"
	"github.com/verte-zerg/lotofacil/internal/generator"
	"github.com/verte-zerg/lotofacil/internal/model"
	"github.com/verte-zerg/lotofacil/internal/stats"
	"github.com/verte-zerg/lotofacil/internal/store"
)

const (
	defaultWorkers      = 1
	defaultBatchesLimit = 20
)

var (
	genCfg     = generator.DefaultConfig()
	genLast    int
	genWorkers int
	genSeed    int64
	genSave    bool
	genNote    string
	genFormat  string

	evalBatch  string
	evalLast   int
	evalFormat string

	searchCfg    = generator.DefaultSearchConfig()
	searchLast   int
	searchSeed   int64
	searchFormat string

	batchesLimit  int
	batchesFormat string
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate plays weighted by frequency and delay",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	f := cmd.Flags()
	f.IntVar(&genCfg.Plays, "plays", genCfg.Plays, "number of plays")
	f.BoolVar(&genCfg.RequireDistinct, "distinct", false, "require pairwise-distinct plays")
	f.Float64Var(&genCfg.Alpha, "alpha", genCfg.Alpha, "weight of normalized frequency")
	f.Float64Var(&genCfg.Beta, "beta", genCfg.Beta, "weight of normalized delay")
	f.Float64Var(&genCfg.Floor, "floor", genCfg.Floor, "base weight added to every number")
	f.BoolVar(&genCfg.Sum.Enabled, "sum-check", genCfg.Sum.Enabled, "enforce the sum range")
	f.IntVar(&genCfg.Sum.Min, "sum-min", genCfg.Sum.Min, "minimum play sum")
	f.IntVar(&genCfg.Sum.Max, "sum-max", genCfg.Sum.Max, "maximum play sum")
	f.BoolVar(&genCfg.Odd.Enabled, "odd-check", genCfg.Odd.Enabled, "enforce the odd count range")
	f.IntVar(&genCfg.Odd.Min, "odd-min", genCfg.Odd.Min, "minimum odd numbers")
	f.IntVar(&genCfg.Odd.Max, "odd-max", genCfg.Odd.Max, "maximum odd numbers")
	f.BoolVar(&genCfg.MaxRun.Enabled, "run-check", genCfg.MaxRun.Enabled, "enforce the consecutive run limit")
	f.IntVar(&genCfg.MaxRun.Max, "max-run", genCfg.MaxRun.Max, "longest allowed run of consecutive numbers")
	f.BoolVar(&genCfg.MaxOverlap.Enabled, "overlap-check", genCfg.MaxOverlap.Enabled, "enforce the overlap limit with the latest draw")
	f.IntVar(&genCfg.MaxOverlap.Max, "max-overlap", genCfg.MaxOverlap.Max, "numbers allowed in common with the latest draw")
	f.IntVar(&genCfg.MaxAttempts, "max-attempts", genCfg.MaxAttempts, "attempts per play")
	f.IntVar(&genLast, "last", 0, "use only the newest N draws")
	f.IntVar(&genWorkers, "workers", defaultWorkers, "parallel workers (ignored with --distinct)")
	f.Int64Var(&genSeed, "seed", 0, "random seed (0: time based)")
	f.BoolVar(&genSave, "save", false, "store the plays as a batch")
	f.StringVar(&genNote, "note", "", "note stored with --save")
	f.StringVar(&genFormat, "format", string(export.FormatText), "output format (text, json, yaml)")
	return cmd
}

func applyGenerateConfig(cmd *cobra.Command, fc config.GenerateConfig, cfg *generator.Config) {
	applyFloatConfig(cmd, "alpha", &cfg.Alpha, fc.Alpha)
	applyFloatConfig(cmd, "beta", &cfg.Beta, fc.Beta)
	applyFloatConfig(cmd, "floor", &cfg.Floor, fc.Floor)
	applyBoolConfig(cmd, "sum-check", &cfg.Sum.Enabled, fc.SumCheck)
	applyIntConfig(cmd, "sum-min", &cfg.Sum.Min, fc.SumMin)
	applyIntConfig(cmd, "sum-max", &cfg.Sum.Max, fc.SumMax)
	applyBoolConfig(cmd, "odd-check", &cfg.Odd.Enabled, fc.OddCheck)
	applyIntConfig(cmd, "odd-min", &cfg.Odd.Min, fc.OddMin)
	applyIntConfig(cmd, "odd-max", &cfg.Odd.Max, fc.OddMax)
	applyBoolConfig(cmd, "run-check", &cfg.MaxRun.Enabled, fc.RunCheck)
	applyIntConfig(cmd, "max-run", &cfg.MaxRun.Max, fc.MaxRun)
	applyBoolConfig(cmd, "overlap-check", &cfg.MaxOverlap.Enabled, fc.OverlapCheck)
	applyIntConfig(cmd, "max-overlap", &cfg.MaxOverlap.Max, fc.MaxOverlap)
	applyIntConfig(cmd, "max-attempts", &cfg.MaxAttempts, fc.MaxAttempts)
	applyIntConfig(cmd, "plays", &cfg.Plays, fc.Plays)
	applyBoolConfig(cmd, "distinct", &cfg.RequireDistinct, fc.Distinct)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyGenerateConfig(cmd, e.file.Generate, &genCfg)
	applyIntConfig(cmd, "workers", &genWorkers, e.file.Generate.Workers)
	applyIntConfig(cmd, "last", &genLast, e.file.History.Last)
	format, err := parseFormat(genFormat)
	if err != nil {
		return err
	}
	if err := genCfg.Validate(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	h, err := loadHistory(cmd, st, genLast)
	if err != nil {
		return err
	}
	if len(h) == 0 {
		logErrln("No draws stored; numbers are drawn uniformly. Run: lotofacil import <csv> or lotofacil sync")
	}

	gen := newGenerator(genSeed)
	res, err := gen.GenerateParallel(cmd.Context(), h, genCfg, genWorkers)
	if err != nil {
		var exhausted *generator.GenerationExhaustedError
		if errors.As(err, &exhausted) {
			printRelaxationHints(exhausted)
		}
		return fmt.Errorf("failed to generate plays: %w", err)
	}
	e.log.Debug().Int("plays", len(res.Plays)).Int("attempts", res.Attempts).Msg("generation finished")

	var batchID string
	if genSave && len(res.Plays) > 0 {
		batchID, err = st.SaveBatch(cmd.Context(), model.Batch{Note: genNote, Plays: res.Plays})
		if err != nil {
			return fmt.Errorf("failed to save batch: %w", err)
		}
	}
	return export.WritePlays(cmd.OutOrStdout(), format, batchID, res)
}

func newGenerator(seed int64) *generator.Generator {
	if seed == 0 {
		return generator.NewTimeSeeded()
	}
	return generator.NewSeeded(seed)
}

func loadHistory(cmd *cobra.Command, st *store.Store, last int) (model.History, error) {
	if last < 0 {
		return nil, fmt.Errorf("--last must be >= 0")
	}
	records, err := st.ListDraws(cmd.Context(), last)
	if err != nil {
		return nil, fmt.Errorf("failed to load draws: %w", err)
	}
	return model.HistoryOf(records), nil
}

var relaxationHints = map[string]string{
	generator.ConstraintSum:       "widen --sum-min/--sum-max or pass --sum-check=false",
	generator.ConstraintOdd:       "widen --odd-min/--odd-max or pass --odd-check=false",
	generator.ConstraintRun:       "raise --max-run or pass --run-check=false",
	generator.ConstraintOverlap:   "raise --max-overlap or pass --overlap-check=false",
	generator.ConstraintDuplicate: "request fewer plays or drop --distinct",
}

func printRelaxationHints(err *generator.GenerationExhaustedError) {
	logErrf("No valid play after %d attempts. Try one of:\n", err.Attempts)
	for _, name := range []string{
		generator.ConstraintSum,
		generator.ConstraintOdd,
		generator.ConstraintRun,
		generator.ConstraintOverlap,
		generator.ConstraintDuplicate,
	} {
		if err.Failures[name] == 0 {
			continue
		}
		logErrf("  %s (%d rejections): %s\n", name, err.Failures[name], relaxationHints[name])
	}
	logErrln("  raise --max-attempts")
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [play...]",
		Short: "Count historical 11-15 hits of plays",
		Long: "Each play is 15 to 20 numbers separated by commas, e.g.\n" +
			"  lotofacil evaluate 1,2,3,4,5,6,7,8,9,10,11,12,13,14,15",
		RunE: runEvaluateCmd,
	}
	cmd.Flags().StringVar(&evalBatch, "batch", "", "evaluate a saved batch")
	cmd.Flags().IntVar(&evalLast, "last", 0, "use only the newest N draws")
	cmd.Flags().StringVar(&evalFormat, "format", string(export.FormatText), "output format (text, json, yaml)")
	return cmd
}

func runEvaluateCmd(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "last", &evalLast, e.file.History.Last)
	format, err := parseFormat(evalFormat)
	if err != nil {
		return err
	}
	if evalBatch == "" && len(args) == 0 {
		return fmt.Errorf("pass plays as arguments or --batch")
	}
	plays := make([]model.Play, 0, len(args))
	for _, arg := range args {
		play, err := parsePlayArg(arg)
		if err != nil {
			return fmt.Errorf("invalid play %q: %w", arg, err)
		}
		plays = append(plays, play)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	if evalBatch != "" {
		batch, err := st.GetBatch(cmd.Context(), evalBatch)
		if err != nil {
			if errors.Is(err, store.ErrBatchNotFound) {
				return fmt.Errorf("batch %s not found", evalBatch)
			}
			return fmt.Errorf("failed to load batch: %w", err)
		}
		plays = append(plays, batch.Plays...)
	}

	h, err := loadHistory(cmd, st, evalLast)
	if err != nil {
		return err
	}
	return export.WriteEvaluations(cmd.OutOrStdout(), format, stats.EvaluatePlays(h, plays))
}

// parsePlayArg reads numbers separated by commas or spaces.
func parsePlayArg(arg string) (model.Play, error) {
	fields := strings.FieldsFunc(arg, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	numbers := make([]int, 0, len(fields))
	for _, field := range fields {
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", field)
		}
		numbers = append(numbers, n)
	}
	return model.ParsePlay(numbers)
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search random plays with the best historical hits",
		Args:  cobra.NoArgs,
		RunE:  runSearchCmd,
	}
	cmd.Flags().IntVar(&searchCfg.Size, "size", searchCfg.Size, "numbers per play (15-20)")
	cmd.Flags().IntVar(&searchCfg.Tier, "tier", searchCfg.Tier, "hit tier to rank by (11-15)")
	cmd.Flags().IntVar(&searchCfg.Samples, "samples", searchCfg.Samples, "random plays to score")
	cmd.Flags().IntVar(&searchCfg.Top, "top", searchCfg.Top, "plays to keep")
	cmd.Flags().IntVar(&searchLast, "last", 0, "use only the newest N draws")
	cmd.Flags().Int64Var(&searchSeed, "seed", 0, "random seed (0: time based)")
	cmd.Flags().StringVar(&searchFormat, "format", string(export.FormatText), "output format (text, json, yaml)")
	return cmd
}

func runSearchCmd(cmd *cobra.Command, _ []string) error {
	e, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "last", &searchLast, e.file.History.Last)
	format, err := parseFormat(searchFormat)
	if err != nil {
		return err
	}
	if err := searchCfg.Validate(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	h, err := loadHistory(cmd, st, searchLast)
	if err != nil {
		return err
	}
	if len(h) == 0 {
		return fmt.Errorf("no draws stored; run: lotofacil import <csv> or lotofacil sync")
	}

	start := time.Now()
	found, err := newGenerator(searchSeed).Search(cmd.Context(), h, searchCfg)
	if err != nil {
		return err
	}
	e.log.Debug().Int("samples", searchCfg.Samples).Int("found", len(found)).Dur("elapsed", time.Since(start)).Msg("search finished")

	out := cmd.OutOrStdout()
	if err := export.WriteEvaluations(out, format, found); err != nil {
		return err
	}
	if format == export.FormatText {
		return writePrice(out, searchCfg.Size)
	}
	return nil
}

func writePrice(w io.Writer, size int) error {
	price, ok := model.BetPrice(size)
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(w, "Price per %d-number play: R$ %.2f\n", size, price)
	return err
}

type batchDoc struct {
	ID        string   `json:"id" yaml:"id"`
	CreatedAt string   `json:"created_at" yaml:"created_at"`
	Note      string   `json:"note,omitempty" yaml:"note,omitempty"`
	Plays     []string `json:"plays" yaml:"plays"`
}

func newBatchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batches",
		Short: "List saved play batches",
		Args:  cobra.NoArgs,
		RunE:  runBatchesCmd,
	}
	cmd.Flags().IntVar(&batchesLimit, "limit", defaultBatchesLimit, "batches to list (0: all)")
	cmd.Flags().StringVar(&batchesFormat, "format", string(export.FormatText), "output format (text, json, yaml)")
	return cmd
}

func runBatchesCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadEnv(cmd); err != nil {
		return err
	}
	format, err := parseFormat(batchesFormat)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	batches, err := st.ListBatches(cmd.Context(), batchesLimit)
	if err != nil {
		return fmt.Errorf("failed to list batches: %w", err)
	}
	out := cmd.OutOrStdout()
	if format != export.FormatText {
		docs := make([]batchDoc, len(batches))
		for i, b := range batches {
			docs[i] = newBatchDoc(b)
		}
		return export.Encode(out, format, docs)
	}
	if len(batches) == 0 {
		_, err := fmt.Fprintln(out, "No saved batches.")
		return err
	}
	for _, b := range batches {
		if err := writeBatch(out, b); err != nil {
			return err
		}
	}
	return nil
}

func newBatchDoc(b model.Batch) batchDoc {
	plays := make([]string, len(b.Plays))
	for i, p := range b.Plays {
		plays[i] = p.String()
	}
	return batchDoc{
		ID:        b.ID,
		CreatedAt: b.CreatedAt.Local().Format(time.RFC3339),
		Note:      b.Note,
		Plays:     plays,
	}
}

func writeBatch(w io.Writer, b model.Batch) error {
	header := fmt.Sprintf("%s  %s  %d plays", b.ID, b.CreatedAt.Local().Format("2006-01-02 15:04"), len(b.Plays))
	if b.Note != "" {
		header += "  " + b.Note
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, p := range b.Plays {
		if _, err := fmt.Fprintf(w, "  %s\n", p); err != nil {
			return err
		}
	}
	return nil
}
