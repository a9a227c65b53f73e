package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ronuchit/kstar/internal/config"
)

// newFlagTestCmd builds a throwaway command with the global flags
// registered, isolated from the package-level rootCmd.
func newFlagTestCmd(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "kstar-test", Run: func(*cobra.Command, []string) {}}
	RegisterGlobalFlags(cmd)
	t.Cleanup(func() { globalFlags = &GlobalFlags{} })
	return cmd
}

func TestApplyFlagOverrides_Defaults(t *testing.T) {
	cmd := newFlagTestCmd(t)
	require.NoError(t, cmd.ParseFlags(nil))

	loaded := config.DefaultConfig()
	applyFlagOverrides(cmd, loaded)

	// Untouched flags leave the defaults alone.
	assert.False(t, loaded.Heuristic.Admissible)
	assert.False(t, loaded.Heuristic.Optimal)
	assert.True(t, loaded.Heuristic.PreferredOperators)
	assert.Equal(t, "info", loaded.Log.Level)
}

func TestApplyFlagOverrides_ExplicitFlags(t *testing.T) {
	cmd := newFlagTestCmd(t)
	require.NoError(t, cmd.ParseFlags([]string{"--admissible", "--pref=false", "--verbose"}))

	loaded := config.DefaultConfig()
	applyFlagOverrides(cmd, loaded)

	assert.True(t, loaded.Heuristic.Admissible)
	assert.False(t, loaded.Heuristic.Optimal)
	assert.False(t, loaded.Heuristic.PreferredOperators)
	assert.Equal(t, "debug", loaded.Log.Level)
}

func TestApplyFlagOverrides_QuietWinsOverVerbose(t *testing.T) {
	cmd := newFlagTestCmd(t)
	require.NoError(t, cmd.ParseFlags([]string{"-v", "-q"}))

	loaded := config.DefaultConfig()
	applyFlagOverrides(cmd, loaded)

	assert.Equal(t, "error", loaded.Log.Level)
}

func TestApplyFlagOverrides_OptimalWithoutAdmissibleRejected(t *testing.T) {
	cmd := newFlagTestCmd(t)
	require.NoError(t, cmd.ParseFlags([]string{"--optimal"}))

	loaded := config.DefaultConfig()
	applyFlagOverrides(cmd, loaded)

	err := config.NewValidator().Validate(loaded)
	require.Error(t, err)
}
