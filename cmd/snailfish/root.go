package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nickandperla.net/snailfish/internal/config"
	"nickandperla.net/snailfish/internal/logging"
	"nickandperla.net/snailfish/internal/metrics"
	"nickandperla.net/snailfish/pkg/snailfish"
)

var (
	// Global flags
	verbose       bool
	configPath    string
	workers       int
	maxIterations int
	skipInvalid   bool
	showMetrics   bool

	// Set up by PersistentPreRunE
	logger   *zap.Logger
	engine   *snailfish.Engine
	registry *prometheus.Registry
)

var rootCmd = &cobra.Command{
	Use:   "snailfish [FILE]",
	Short: "Add snailfish numbers and report magnitudes",
	Long: `snailfish reads one snailfish number per line from FILE, or from stdin
when input is piped, and prints two lines:

  1. the magnitude of the sum of all numbers, added in file order
  2. the largest magnitude of the sum of any two different numbers`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runHomework,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Pair search workers (0 = one per CPU)")
	rootCmd.PersistentFlags().IntVar(&maxIterations, "max-iterations", 0, "Rule applications allowed per reduction")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Log reduction metrics on exit")
	rootCmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Log and drop malformed lines instead of failing")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Search.Workers = workers
	}
	if flags.Changed("max-iterations") {
		cfg.Reduce.MaxIterations = maxIterations
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Development = true
	}
	return cfg, cfg.Validate()
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err = logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))

	registry = prometheus.NewRegistry()
	engine, err = snailfish.New(
		snailfish.WithConfig(cfg),
		snailfish.WithLogger(logger),
		snailfish.WithMetrics(registry),
	)
	if err != nil {
		return err
	}
	logger.Debug("engine ready",
		zap.Int("workers", engine.Workers()),
		zap.Int("max_iterations", cfg.Reduce.MaxIterations))
	return nil
}

func teardown(cmd *cobra.Command, args []string) {
	if logger == nil {
		return
	}
	if showMetrics && registry != nil {
		samples, err := metrics.Snapshot(registry)
		if err != nil {
			logger.Warn("gathering metrics failed", zap.Error(err))
		}
		for _, s := range samples {
			logger.Info("metric", zap.String("name", s.Name), zap.Float64("value", s.Value))
		}
	}
	_ = logger.Sync()
}
