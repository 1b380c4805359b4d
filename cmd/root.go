package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mat-adamec/100-prisoner-problem/sim"
)

var (
	// CLI flags for the experiment configuration
	prisoners   int     // Number of prisoners in the cohort
	envelopes   int     // Number of envelopes (0 = same as prisoners)
	trials      int64   // Number of independent trials
	strategy    string  // Strategy name (loop, random, or custom-registered)
	schemaName  string  // Attempt schema (half, divisor, fixed)
	schemaParam float64 // Schema parameter (divisor value or fixed attempt count)
	rounding    string  // Rounding policy for non-integral budgets (lower, raise)
	seed        int64   // Master seed for the partitioned RNG
	workers     int     // Parallel trial workers (1 = sequential)
	progress    int64   // Log a progress line every N trials (0 = quiet)
	logLevel    string  // Log verbosity level
	csvPath     string  // Optional CSV file to append the result record to
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "prisoner-sim",
	Short: "Monte Carlo simulator for the 100-prisoners riddle",
}

// runCmd executes one experiment using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one experiment",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg, err := buildConfig()
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		result, err := sim.RunExperiment(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Experiment failed: %v", err)
		}

		result.Print()
		if csvPath != "" {
			if err := appendResultCSV(csvPath, result); err != nil {
				logrus.Fatalf("Writing %s: %v", csvPath, err)
			}
			logrus.Infof("Result appended to %s", csvPath)
		}
	},
}

// setupLogging applies the --log flag to the global logrus logger.
func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// buildConfig assembles an ExperimentConfig from the run flags.
func buildConfig() (sim.ExperimentConfig, error) {
	schema, err := sim.SchemaByName(schemaName, schemaParam)
	if err != nil {
		return sim.ExperimentConfig{}, err
	}
	policy, err := sim.ParseRoundingPolicy(rounding)
	if err != nil {
		return sim.ExperimentConfig{}, err
	}
	return sim.ExperimentConfig{
		Prisoners:     prisoners,
		Envelopes:     envelopes,
		Trials:        trials,
		Strategy:      strategy,
		Schema:        schema,
		Rounding:      policy,
		Seed:          seed,
		Workers:       workers,
		ProgressEvery: progress,
	}, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().IntVar(&prisoners, "prisoners", 100, "Number of prisoners")
	runCmd.Flags().IntVar(&envelopes, "envelopes", 0, "Number of envelopes (0 = same as prisoners)")
	runCmd.Flags().Int64Var(&trials, "trials", 100000, "Number of independent trials")
	runCmd.Flags().StringVar(&strategy, "strategy", "loop", "Envelope selection strategy (loop, random)")
	runCmd.Flags().StringVar(&schemaName, "schema", "half", "Attempt schema (half, divisor, fixed)")
	runCmd.Flags().Float64Var(&schemaParam, "schema-param", 0, "Schema parameter (divisor value or fixed attempt count)")
	runCmd.Flags().StringVar(&rounding, "rounding", "lower", "Rounding for non-integral budgets (lower, raise)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random permutation generation")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Parallel trial workers (1 = sequential)")
	runCmd.Flags().Int64Var(&progress, "progress", 0, "Log a progress line every N trials (0 = quiet)")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "Append the result record to this CSV file")

	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.AddCommand(runCmd)
}
