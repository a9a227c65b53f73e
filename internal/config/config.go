// Package config defines the runtime configuration for the kstar CLI:
// heuristic mode flags, search bounds, and logging. Values are loaded from
// a YAML file via viper, overridden by KSTAR_* environment variables, and
// validated before use.
package config

import "os"

// Config is the root configuration.
type Config struct {
	Heuristic HeuristicConfig `mapstructure:"heuristic" yaml:"heuristic"`
	Search    SearchConfig    `mapstructure:"search" yaml:"search"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// HeuristicConfig selects the landmark heuristic's mode. The admissibility
// combination is validated again, structurally, by the heuristic
// constructor; validation here catches plain nonsense early.
type HeuristicConfig struct {
	// Admissible selects the cost-partitioned lower bound.
	Admissible bool `mapstructure:"admissible" yaml:"admissible"`

	// Optimal selects LP-based cost partitioning; requires Admissible.
	Optimal bool `mapstructure:"optimal" yaml:"optimal"`

	// PreferredOperators enables helpful-action detection.
	PreferredOperators bool `mapstructure:"preferred_operators" yaml:"preferred_operators"`

	// ReasonableOrders declares the landmark graph was generated with
	// reasonable orderings.
	ReasonableOrders bool `mapstructure:"reasonable_orders" yaml:"reasonable_orders"`

	// ConditionalEffectsSupported declares landmark-generation support for
	// conditional effects.
	ConditionalEffectsSupported bool `mapstructure:"conditional_effects_supported" yaml:"conditional_effects_supported"`
}

// SearchConfig bounds the search driver.
type SearchConfig struct {
	// MaxExpansions bounds expanded states; zero means unbounded.
	MaxExpansions int `mapstructure:"max_expansions" yaml:"max_expansions" validate:"gte=0"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Heuristic: HeuristicConfig{
			PreferredOperators: true,
		},
		Search: SearchConfig{
			MaxExpansions: 0,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyEnvironmentOverrides checks for environment variables and overrides
// config values if they are set.
//
// Supported environment variables:
//   - KSTAR_LOG_LEVEL: overrides Log.Level
//   - KSTAR_ADMISSIBLE: any non-empty value enables Heuristic.Admissible
func (c *Config) ApplyEnvironmentOverrides() {
	if level := os.Getenv("KSTAR_LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if os.Getenv("KSTAR_ADMISSIBLE") != "" {
		c.Heuristic.Admissible = true
	}
}
