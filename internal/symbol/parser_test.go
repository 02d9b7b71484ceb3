package symbol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
		v    Var
		at   float64
		want float64
	}{
		{name: "implicit multiplication number-symbol", expr: "2x", v: VarX, at: 3, want: 6},
		{name: "implicit multiplication paren", expr: "3(x+1)", v: VarX, at: 1, want: 6},
		{name: "implicit multiplication adjacency", expr: "x sin(x)", v: VarX, at: 0, want: 0},
		{name: "double-star power", expr: "x**2", v: VarX, at: 4, want: 16},
		{name: "caret power", expr: "x^2", v: VarX, at: 4, want: 16},
		{name: "right-assoc power", expr: "2^3^2", v: VarX, at: 0, want: 512},
		{name: "unary minus", expr: "-x + 5", v: VarX, at: 2, want: 3},
		{name: "precedence", expr: "1 + 2*3", v: VarX, at: 0, want: 7},
		{name: "division chain", expr: "x**2/20", v: VarX, at: 10, want: 5},
		{name: "pi constant", expr: "2pi", v: VarX, at: 0, want: 6.283185307179586},
		{name: "nested calls", expr: "sqrt(abs(-9))", v: VarX, at: 0, want: 3},
		{name: "decimal literal", expr: "0.5x", v: VarX, at: 4, want: 2},
		{name: "time variable", expr: "2*t", v: VarT, at: 3, want: 6},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			expr, err := Parse(tt.expr)
			require.NoError(t, err)
			got, err := expr.Eval(tt.v, tt.at)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: ""},
		{name: "whitespace only", expr: "   "},
		{name: "dangling operator", expr: "2 +"},
		{name: "unbalanced paren", expr: "(x + 1"},
		{name: "stray close paren", expr: "x + 1)"},
		{name: "bad number", expr: "1.2.3"},
		{name: "unexpected character", expr: "x $ 2"},
		{name: "function without parens", expr: "sin x"},
		{name: "unterminated call", expr: "sin(x"},
		{name: "oversized input", expr: strings.Repeat("1+", 300) + "1"},
		{name: "excessive nesting", expr: strings.Repeat("(", 100) + "x" + strings.Repeat(")", 100)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse(tt.expr)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	t.Parallel()

	// A grab-bag of hostile inputs; only the absence of panics matters.
	inputs := []string{
		"((((((((", "))))", "^^^", "--", "***", "2**", "sin()", "sin(,)",
		"0x41", "1e309", "import os", "x;y", "\x00", "π", "x**t**x**t",
	}
	for _, in := range inputs {
		_, _ = Parse(in)
	}
}
