// Package config holds the mcrbatch configuration, loaded through viper
// from flags, environment variables (MCRBATCH_ prefix), and an optional
// config.yaml.
package config

import (
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete mcrbatch configuration.
type Config struct {
	Batch   BatchConfig   `mapstructure:"batch"`
	Routing RoutingConfig `mapstructure:"routing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BatchConfig controls the batch supervisor and its admission policy.
type BatchConfig struct {
	// MaxWorkers is the maximum number of concurrently running tasks.
	MaxWorkers int `mapstructure:"max_workers"`
	// MinFreeMemoryBytes is the available-memory floor for admitting a
	// new task. Zero disables the memory gate.
	MinFreeMemoryBytes uint64 `mapstructure:"min_free_memory_bytes"`
	// PollIntervalMs is the supervisor's polling interval in milliseconds.
	PollIntervalMs int `mapstructure:"poll_interval_ms"`
	// ErrorChannelCapacity bounds the worker-to-supervisor error channel.
	// Reaching capacity aborts the batch.
	ErrorChannelCapacity int `mapstructure:"error_channel_capacity"`
	// OutputDir receives one artifact per origin plus the error manifest.
	// It must not already contain files.
	OutputDir string `mapstructure:"output_dir"`
	// MappingsFile is the JSON file of cell-to-node location mappings.
	MappingsFile string `mapstructure:"mappings_file"`
}

// RoutingConfig parameterizes the route-search collaborator.
type RoutingConfig struct {
	// StartTime is the departure time in HH:MM:SS format.
	StartTime string `mapstructure:"start_time"`
	// MaxTransfers bounds transfer rounds per search.
	MaxTransfers int `mapstructure:"max_transfers"`
	// RouterBin is the external route-search executable.
	RouterBin string `mapstructure:"router_bin"`
	// InitialSteps and RepeatingSteps are step-matrix spec files passed
	// through to the router binary.
	InitialSteps   string `mapstructure:"initial_steps"`
	RepeatingSteps string `mapstructure:"repeating_steps"`
}

// LoggingConfig controls the supervisor's structured logging.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Verbose enables the in-place progress status line.
	Verbose bool `mapstructure:"verbose"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Batch: BatchConfig{
			MaxWorkers:           runtime.NumCPU(),
			MinFreeMemoryBytes:   3 << 30,
			PollIntervalMs:       1000,
			ErrorChannelCapacity: 1024,
		},
		Routing: RoutingConfig{
			StartTime:    "08:00:00",
			MaxTransfers: 2,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// SetDefaults registers the default values with viper so they apply even
// without a config file.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("batch.max_workers", defaults.Batch.MaxWorkers)
	viper.SetDefault("batch.min_free_memory_bytes", defaults.Batch.MinFreeMemoryBytes)
	viper.SetDefault("batch.poll_interval_ms", defaults.Batch.PollIntervalMs)
	viper.SetDefault("batch.error_channel_capacity", defaults.Batch.ErrorChannelCapacity)

	viper.SetDefault("routing.start_time", defaults.Routing.StartTime)
	viper.SetDefault("routing.max_transfers", defaults.Routing.MaxTransfers)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.verbose", defaults.Logging.Verbose)
}

// Load unmarshals the current viper state into a Config.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// PollInterval returns the polling interval as a duration.
func (c *BatchConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
