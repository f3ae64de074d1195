// Package cmd implements the mcrbatch command-line interface.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/citykit/mcrbatch/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "mcrbatch",
	Short: "Multi-origin transit-accessibility batch router",
	Long: `mcrbatch runs one multi-criteria route search per origin cell across a
city, in parallel, under a live memory budget. Each origin's search runs in
its own isolated worker; failures are collected into an error manifest
instead of aborting the batch.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is ./config.yaml)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("MCRBATCH")
	// Replace dots with underscores for nested keys in env vars
	// e.g., MCRBATCH_BATCH_MAX_WORKERS for batch.max_workers
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}
