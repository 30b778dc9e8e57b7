//go:build !lambda

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootFlags struct {
	config  string
	verbose bool
}

var solveFlags struct {
	horizon   int
	mode      string
	head      int
	workers   int
	memoLimit int
	jsonOut   bool
}

var rootCmd = &cobra.Command{
	Use:   "geode-optimizer",
	Short: "Maximize terminal output of producer blueprints within a tick horizon",
	Long: `geode-optimizer runs a branch-and-bound search per blueprint to find the
largest amount of the terminal resource that can be stocked within the horizon,
then combines the per-blueprint results.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(rootFlags.verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

var solveCmd = &cobra.Command{
	Use:   "solve <blueprints>",
	Short: "Search every blueprint and print the aggregated result",
	Long: `Solve reads blueprints in text or JSON form and searches each one.

Modes:
  quality   sum of blueprint ID × best (all blueprints)
  product   product of best over the first --head blueprints`,
	Args: cobra.ExactArgs(1),
	RunE: runSolve,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <blueprints>",
	Short: "Print parsed blueprints with their demand cap and root bound",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.config, "config", "", "YAML config file (flags override it)")
	pf.BoolVar(&rootFlags.verbose, "verbose", false, "Enable debug logging")

	d := DefaultConfig()
	f := solveCmd.Flags()
	f.IntVar(&solveFlags.horizon, "horizon", d.Horizon, "Ticks simulated per blueprint")
	f.StringVar(&solveFlags.mode, "mode", d.Mode, "Aggregation mode (quality, product)")
	f.IntVar(&solveFlags.head, "head", d.Head, "Blueprints multiplied in product mode")
	f.IntVar(&solveFlags.workers, "workers", d.Workers, "Concurrent blueprint searches (0 = GOMAXPROCS)")
	f.IntVar(&solveFlags.memoLimit, "memo-limit", d.MemoLimit, "Max memo entries per blueprint (0 = unlimited)")
	f.BoolVar(&solveFlags.jsonOut, "json", false, "Output results as JSON")
	inspectCmd.Flags().IntVar(&solveFlags.horizon, "horizon", d.Horizon, "Ticks used for the root bound")

	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(inspectCmd)
}

// resolveConfig layers explicitly set flags over the config file over defaults.
func resolveConfig(cmd *cobra.Command) (Config, error) {
	cfg := DefaultConfig()
	if rootFlags.config != "" {
		var err error
		if cfg, err = LoadConfig(rootFlags.config); err != nil {
			return cfg, err
		}
	}
	f := cmd.Flags()
	if f.Changed("horizon") {
		cfg.Horizon = solveFlags.horizon
	}
	if f.Changed("mode") {
		cfg.Mode = solveFlags.mode
	}
	if f.Changed("head") {
		cfg.Head = solveFlags.head
	}
	if f.Changed("workers") {
		cfg.Workers = solveFlags.workers
	}
	if f.Changed("memo-limit") {
		cfg.MemoLimit = solveFlags.memoLimit
	}
	if rootFlags.verbose {
		cfg.Verbose = true
	} else if cfg.Verbose {
		// verbose came from the config file, after the logger was built
		l, err := newLogger(true)
		if err != nil {
			return cfg, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
	}
	return cfg, cfg.Validate()
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	blueprints, err := LoadBlueprints(args[0])
	if err != nil {
		return err
	}
	logger.Info("loaded blueprints", zap.String("path", args[0]), zap.Int("count", len(blueprints)))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	summary, err := Run(ctx, blueprints, cfg)
	out := cmd.OutOrStdout()
	if solveFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(summary); encErr != nil {
			return encErr
		}
	} else {
		printTable(out, summary)
	}
	return err
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	blueprints, err := LoadBlueprints(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i := range blueprints {
		bp := &blueprints[i]
		fmt.Fprintln(out, FormatBlueprint(bp))
		fmt.Fprintf(out, "  demand cap: %s\n", FormatDemandCap(bp))
		fmt.Fprintf(out, "  root bound @%d: %d\n", cfg.Horizon, rootBound(cfg.Horizon))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
