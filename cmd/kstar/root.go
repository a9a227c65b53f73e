package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ronuchit/kstar/internal/config"
)

// cfg is the loaded configuration, available to all commands after
// PersistentPreRunE has run.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kstar",
	Short: "kstar - landmark-based heuristic search planner",
	Long: `kstar evaluates planning tasks with the landmark-count heuristic:
per state it estimates the remaining cost to the goal, proves dead ends,
and derives preferred operators to focus a greedy best-first search.`,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// loadConfig is called before any command runs: defaults, optional config
// file, KSTAR_* environment, then validation.
func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("KSTAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	loaded := config.DefaultConfig()
	if globalFlags.ConfigFile != "" {
		v.SetConfigFile(globalFlags.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		if err := v.Unmarshal(loaded); err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}
	loaded.ApplyEnvironmentOverrides()
	applyFlagOverrides(cmd, loaded)

	if err := config.NewValidator().Validate(loaded); err != nil {
		return err
	}
	cfg = loaded
	return nil
}

func init() {
	RegisterGlobalFlags(rootCmd)
	rootCmd.AddCommand(solveCmd)
	rootCmd.AddCommand(versionCmd)
}
