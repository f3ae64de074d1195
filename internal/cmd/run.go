package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/citykit/mcrbatch/internal/admission"
	"github.com/citykit/mcrbatch/internal/config"
	"github.com/citykit/mcrbatch/internal/logcap"
	"github.com/citykit/mcrbatch/internal/progress"
	"github.com/citykit/mcrbatch/internal/router"
	"github.com/citykit/mcrbatch/internal/routing"
	"github.com/citykit/mcrbatch/internal/sysmem"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a batch of route searches",
	Long: `Run one route search per location mapping, writing one artifact per
origin into the output directory plus an errors.json manifest.

Individual search failures never abort the batch; they are recorded in the
manifest. The command exits non-zero only on fatal errors (invalid
configuration, pre-existing output, error-channel overflow).`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Flag defaults mirror config.Default so that bound-but-unchanged
	// flags don't shadow the configured defaults in viper.
	defaults := config.Default()

	runCmd.Flags().String("mappings", "", "JSON file of cell-to-node location mappings")
	runCmd.Flags().String("output", "", "output directory (must not contain files)")
	runCmd.Flags().String("router-bin", "", "route-search executable")
	runCmd.Flags().String("initial-steps", "", "initial step-matrix spec file")
	runCmd.Flags().String("repeating-steps", "", "repeating step-matrix spec file")
	runCmd.Flags().String("start-time", defaults.Routing.StartTime, "departure time (HH:MM:SS)")
	runCmd.Flags().Int("max-transfers", defaults.Routing.MaxTransfers, "maximum transfer rounds per search")
	runCmd.Flags().Int("max-workers", defaults.Batch.MaxWorkers, "maximum concurrent searches")
	runCmd.Flags().Uint64("min-free-memory", defaults.Batch.MinFreeMemoryBytes, "available-memory floor in bytes for admitting a search")
	runCmd.Flags().Int("poll-interval-ms", defaults.Batch.PollIntervalMs, "supervisor polling interval in milliseconds")
	runCmd.Flags().Int("error-buffer", defaults.Batch.ErrorChannelCapacity, "error channel capacity")
	runCmd.Flags().Bool("verbose", false, "render an in-place progress line")

	_ = viper.BindPFlag("batch.mappings_file", runCmd.Flags().Lookup("mappings"))
	_ = viper.BindPFlag("batch.output_dir", runCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("routing.router_bin", runCmd.Flags().Lookup("router-bin"))
	_ = viper.BindPFlag("routing.initial_steps", runCmd.Flags().Lookup("initial-steps"))
	_ = viper.BindPFlag("routing.repeating_steps", runCmd.Flags().Lookup("repeating-steps"))
	_ = viper.BindPFlag("routing.start_time", runCmd.Flags().Lookup("start-time"))
	_ = viper.BindPFlag("routing.max_transfers", runCmd.Flags().Lookup("max-transfers"))
	_ = viper.BindPFlag("batch.max_workers", runCmd.Flags().Lookup("max-workers"))
	_ = viper.BindPFlag("batch.min_free_memory_bytes", runCmd.Flags().Lookup("min-free-memory"))
	_ = viper.BindPFlag("batch.poll_interval_ms", runCmd.Flags().Lookup("poll-interval-ms"))
	_ = viper.BindPFlag("batch.error_channel_capacity", runCmd.Flags().Lookup("error-buffer"))
	_ = viper.BindPFlag("logging.verbose", runCmd.Flags().Lookup("verbose"))
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return config.ValidationErrors(errs)
	}

	log := logcap.NewBatchLogger(os.Stderr, cfg.Logging.Level)

	mappings, err := routing.LoadMappings(cfg.Batch.MappingsFile)
	if err != nil {
		return err
	}
	if err := routing.ValidateMappings(mappings); err != nil {
		return err
	}

	if total, err := sysmem.TotalMemory(); err == nil && cfg.Batch.MinFreeMemoryBytes > total {
		// There is no admission timeout, so this configuration would wait
		// forever in the submitting phase.
		log.Warn("memory threshold exceeds total physical memory; no task will ever be admitted",
			"threshold", sysmem.PrettyBytes(cfg.Batch.MinFreeMemoryBytes),
			"total", sysmem.PrettyBytes(total),
		)
	}

	routingCfg := &routing.Config{
		InitialSteps:   cfg.Routing.InitialSteps,
		RepeatingSteps: cfg.Routing.RepeatingSteps,
		StartTime:      cfg.Routing.StartTime,
		MaxTransfers:   cfg.Routing.MaxTransfers,
	}
	runner := &routing.ExecRunner{
		Bin:                cfg.Routing.RouterBin,
		InitialStepsPath:   cfg.Routing.InitialSteps,
		RepeatingStepsPath: cfg.Routing.RepeatingSteps,
	}

	opts := []router.Option{
		router.WithAdmission(admission.NewController(
			admission.WithMaxWorkers(cfg.Batch.MaxWorkers),
			admission.WithMinFreeMemory(cfg.Batch.MinFreeMemoryBytes),
		)),
		router.WithPollInterval(cfg.Batch.PollInterval()),
		router.WithChannelCapacity(cfg.Batch.ErrorChannelCapacity),
		router.WithLogger(log),
	}
	if cfg.Logging.Verbose {
		opts = append(opts, router.WithReporter(progress.NewStatusLine(os.Stderr)))
	} else {
		opts = append(opts, router.WithReporter(&progress.LogReporter{Log: log}))
	}

	records, err := router.New(runner, opts...).Run(
		cmd.Context(), mappings, routingCfg, cfg.Batch.OutputDir,
	)
	if err != nil {
		return err
	}

	if len(records) > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d origins failed; see %s\n",
			len(records), len(mappings), cfg.Batch.OutputDir)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "all %d origins completed\n", len(mappings))
	}
	return nil
}
