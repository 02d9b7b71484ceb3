package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntkit/ntsolve/internal/symbol"
)

func TestCurvatureRadius(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		x    float64
		want float64
	}{
		// y = x²/20 at x = 10: y' = 1, y'' = 0.1, rho = 2^1.5/0.1.
		{name: "parabola", path: "x**2/20", x: 10, want: 28.2842712},
		{name: "parabola at vertex", path: "x**2/20", x: 0, want: 10},
		{name: "cubic", path: "x^3", x: 1, want: 5.27046},
		{name: "sine crest", path: "sin(x)", x: 1.5707963267948966, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, err := symbol.Parse(tt.path)
			require.NoError(t, err)
			rho, err := CurvatureRadius(path, tt.x)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, rho, 1e-4)
		})
	}
}

func TestCurvatureRadiusUnavailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		x    float64
	}{
		{name: "straight line", path: "3x + 1", x: 2},
		{name: "constant", path: "5", x: 0},
		{name: "cubic inflection point", path: "x^3", x: 0},
		{name: "unknown symbol in path", path: "y**2", x: 1},
		{name: "derivative domain failure", path: "sqrt(x)", x: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path, err := symbol.Parse(tt.path)
			require.NoError(t, err)
			_, err = CurvatureRadius(path, tt.x)
			require.Error(t, err)
			assert.ErrorIs(t, err, symbol.ErrUnavailable)
		})
	}
}
