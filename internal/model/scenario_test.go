package model

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioClone(t *testing.T) {
	t.Parallel()

	orig := Scenario{
		Path:            "x**2/20",
		XVal:            Float(10),
		V:               Float(8),
		SpeedIsConstant: true,
	}

	c := orig.Clone()
	require.NotNil(t, c.V)
	*c.V = 99
	c.Rho = Float(28.28)

	assert.Equal(t, 8.0, *orig.V, "mutating the clone must not touch the original")
	assert.Nil(t, orig.Rho)
	assert.Equal(t, "x**2/20", c.Path)
	assert.True(t, c.SpeedIsConstant)
}

func TestFieldsSortedAndComplete(t *testing.T) {
	t.Parallel()

	s := Scenario{V: Float(8), Path: "x**2/20"}
	fields := s.Fields()

	assert.Len(t, fields, 16, "every scenario quantity appears, known or not")
	assert.True(t, sort.SliceIsSorted(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	}))

	byName := make(map[string]Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}
	assert.Equal(t, "8.00", byName["v"].Display())
	assert.Equal(t, "-", byName["rho"].Display(), "absent quantities display as dash")
	assert.Equal(t, "x**2/20", byName["path"].Display())
	assert.Equal(t, "-", byName["a_t_as_function"].Display())
	assert.Equal(t, "false", byName["speed_is_constant"].Display())
}

func TestLoadFixtures(t *testing.T) {
	t.Parallel()

	t.Run("valid file", func(t *testing.T) {
		t.Parallel()
		path := writeFixture(t, `
scenarios:
  - name: parabola
    path: x**2/20
    x_val: 10
    speed_is_constant: true
    v: 8
  - name: elapsed
    solve_for_elapsed_time: true
    v0: 0
    v: 10
    a_t: 2
`)
		fixtures, err := LoadFixtures(path)
		require.NoError(t, err)
		require.Len(t, fixtures, 2)

		assert.Equal(t, "parabola", fixtures[0].Name)
		assert.Equal(t, "x**2/20", fixtures[0].Scenario.Path)
		require.NotNil(t, fixtures[0].Scenario.XVal)
		assert.Equal(t, 10.0, *fixtures[0].Scenario.XVal)
		assert.True(t, fixtures[0].Scenario.SpeedIsConstant)

		assert.True(t, fixtures[1].Scenario.SolveForElapsedTime)
		require.NotNil(t, fixtures[1].Scenario.AT)
		assert.Equal(t, 2.0, *fixtures[1].Scenario.AT)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadFixtures(t.TempDir() + "/nope.yaml")
		assert.Error(t, err)
	})

	t.Run("empty scenario list", func(t *testing.T) {
		t.Parallel()
		path := writeFixture(t, "scenarios: []\n")
		_, err := LoadFixtures(path)
		assert.Error(t, err)
	})

	t.Run("unnamed scenario", func(t *testing.T) {
		t.Parallel()
		path := writeFixture(t, "scenarios:\n  - v: 8\n")
		_, err := LoadFixtures(path)
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		t.Parallel()
		path := writeFixture(t, "scenarios: [\n")
		_, err := LoadFixtures(path)
		assert.Error(t, err)
	})
}
