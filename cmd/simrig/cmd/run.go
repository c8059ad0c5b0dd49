package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simrigproject/simrig/internal/common"
	"github.com/simrigproject/simrig/internal/dispatch"
	"github.com/simrigproject/simrig/internal/options"
	"github.com/simrigproject/simrig/internal/runner"
	"github.com/simrigproject/simrig/internal/settings"
	"github.com/simrigproject/simrig/internal/solver"
)

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int("runs", 0, "total number of runs, overriding the configured value")
	runCmd.Flags().Bool("weighted", false, "split runs across the weighted datasources from the settings")
	runCmd.Flags().String("datasource", "", "datasource applied to every job in uniform mode")
	runCmd.Flags().Bool("sweep", false, "run once per feasible sweep_options combination")
}

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- --option value ...]",
	Short: "Run a batch of simulation jobs",
	Long: `
Run a batch of simulation jobs through the configured solver command.

Everything after -- is coerced into runtime options and merged into every
job specification, e.g.:

  simrig run --weighted --runs 200 -- --tolerance 0.05 --modes "['fast']"
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := loadConfig()

		if cmd.Flags().Changed("runs") {
			config.Runner.Runs, _ = cmd.Flags().GetInt("runs")
		}
		if cmd.Flags().Changed("weighted") {
			config.Runner.Weighted, _ = cmd.Flags().GetBool("weighted")
		}
		if cmd.Flags().Changed("datasource") {
			config.Runner.Datasource, _ = cmd.Flags().GetString("datasource")
		}
		sweep, _ := cmd.Flags().GetBool("sweep")

		values, err := options.ParseArgs(args)
		if err != nil {
			return err
		}

		merged, err := settings.Load(config.Settings.Dir)
		if err != nil {
			return err
		}
		if config.Settings.Files != "" {
			merged = settings.Merge(merged, settings.LoadFiles(config.Settings.Files))
		}

		solve, err := solver.New(config.Solver)
		if err != nil {
			return err
		}
		dispatcher, err := dispatch.NewDispatcher(config.Dispatch)
		if err != nil {
			return err
		}

		shutdownMetricServer := common.ServeMetrics(config.MetricsPort)
		defer shutdownMetricServer()

		// SIGINT kills in-flight solver commands; the batch still drains
		// every job before the failure is reported.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := runner.New(config.Runner, merged, dispatcher, solve.Solve)
		return r.Run(ctx, runner.Params{
			Sweep:   sweep,
			Options: options.AsOptions(values),
		})
	},
}
