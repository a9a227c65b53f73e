package main

import (
	"github.com/spf13/cobra"

	"github.com/ronuchit/kstar/internal/config"
)

// GlobalFlags holds global flags available to all commands.
type GlobalFlags struct {
	Verbose    bool
	Quiet      bool
	ConfigFile string

	Admissible bool
	Optimal    bool
	Preferred  bool
}

var globalFlags = &GlobalFlags{}

// RegisterGlobalFlags registers persistent flags on the root command.
func RegisterGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	cmd.PersistentFlags().BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "Path to config file (YAML)")
	cmd.PersistentFlags().BoolVar(&globalFlags.Admissible, "admissible", false, "Use the admissible cost-partitioned estimate")
	cmd.PersistentFlags().BoolVar(&globalFlags.Optimal, "optimal", false, "Use LP-based optimal cost partitioning (requires --admissible)")
	cmd.PersistentFlags().BoolVar(&globalFlags.Preferred, "pref", true, "Identify preferred operators")
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("admissible") {
		cfg.Heuristic.Admissible = globalFlags.Admissible
	}
	if cmd.Flags().Changed("optimal") {
		cfg.Heuristic.Optimal = globalFlags.Optimal
	}
	if cmd.Flags().Changed("pref") {
		cfg.Heuristic.PreferredOperators = globalFlags.Preferred
	}
	if globalFlags.Verbose {
		cfg.Log.Level = "debug"
	}
	if globalFlags.Quiet {
		cfg.Log.Level = "error"
	}
}
