package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/mat-adamec/100-prisoner-problem/sim"
)

var sweepCSVPath string // Optional CSV file to append every result record to

// sweepCmd runs every experiment listed in a YAML sweep spec.
var sweepCmd = &cobra.Command{
	Use:   "sweep <spec.yaml>",
	Short: "Run a YAML file of experiments back to back",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		spec, err := LoadSweepSpec(args[0])
		if err != nil {
			logrus.Fatalf("Loading sweep spec: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		// Every spec is validated up front so a typo in experiment 7 fails
		// before experiment 1 burns CPU.
		runners := make([]*sim.ExperimentRunner, len(spec.Experiments))
		for i, exp := range spec.Experiments {
			cfg, err := exp.Config()
			if err != nil {
				logrus.Fatalf("%s: %v", exp.Label(i), err)
			}
			runner, err := sim.NewExperimentRunner(cfg)
			if err != nil {
				logrus.Fatalf("%s: %v", exp.Label(i), err)
			}
			runners[i] = runner
		}

		for i, runner := range runners {
			logrus.Infof("Running %s", spec.Experiments[i].Label(i))
			result, err := runner.Run(ctx)
			if err != nil {
				logrus.Fatalf("%s: %v", spec.Experiments[i].Label(i), err)
			}
			result.Print()
			if sweepCSVPath != "" {
				if err := appendResultCSV(sweepCSVPath, result); err != nil {
					logrus.Fatalf("Writing %s: %v", sweepCSVPath, err)
				}
			}
		}
	},
}

func init() {
	sweepCmd.Flags().StringVar(&sweepCSVPath, "csv", "", "Append every result record to this CSV file")

	rootCmd.AddCommand(sweepCmd)
}
