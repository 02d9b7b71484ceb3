package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntkit/ntsolve/internal/model"
)

// newScenarioCommand returns a throwaway command carrying the scenario flags,
// with the given args already parsed.
func newScenarioCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addScenarioFlags(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func TestScenarioFromFlags(t *testing.T) {
	t.Parallel()

	t.Run("set flags become knowns", func(t *testing.T) {
		t.Parallel()
		cmd := newScenarioCommand(t,
			"--path", "x**2/20",
			"--x", "10",
			"--v", "8",
			"--constant-speed",
		)
		s := scenarioFromFlags(cmd)

		assert.Equal(t, "x**2/20", s.Path)
		require.NotNil(t, s.XVal)
		assert.Equal(t, 10.0, *s.XVal)
		require.NotNil(t, s.V)
		assert.Equal(t, 8.0, *s.V)
		assert.True(t, s.SpeedIsConstant)
		assert.Nil(t, s.Rho, "unset flags stay unknown")
		assert.Nil(t, s.AT)
	})

	t.Run("explicit zero is a known, not an absence", func(t *testing.T) {
		t.Parallel()
		cmd := newScenarioCommand(t, "--v0", "0", "--v", "10", "--a-t", "2", "--solve-time")
		s := scenarioFromFlags(cmd)

		require.NotNil(t, s.V0)
		assert.Zero(t, *s.V0)
		assert.True(t, s.SolveForElapsedTime)
	})

	t.Run("no flags yields empty scenario", func(t *testing.T) {
		t.Parallel()
		s := scenarioFromFlags(newScenarioCommand(t))
		assert.Equal(t, model.Scenario{}, s)
	})
}

func TestFormatScenario(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	formatScenario(&buf, model.Scenario{
		Path: "x**2/20",
		V:    model.Float(8),
	})
	out := buf.String()

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 16, "every field prints, known or not")
	assert.True(t, strings.HasPrefix(lines[0], "a_n"), "fields are sorted by name")
	assert.Contains(t, out, "8.00")
	assert.Contains(t, out, "x**2/20")
	assert.Contains(t, out, "-")
}
