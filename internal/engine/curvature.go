package engine

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/ntkit/ntsolve/internal/symbol"
)

// CurvatureRadius computes the radius of the osculating circle of the path
// y(x) at position x:
//
//	ρ(x) = (1 + y′(x)²)^{3/2} / |y″(x)|
//
// A path whose second derivative vanishes at x (locally straight, infinite
// radius) yields an error wrapping symbol.ErrUnavailable, as does any
// derivative that cannot be evaluated there.
func CurvatureRadius(path symbol.Expr, x float64) (float64, error) {
	slope := path.Diff(symbol.VarX)
	second := slope.Diff(symbol.VarX)

	yp, err := slope.Eval(symbol.VarX, x)
	if err != nil {
		return 0, eris.Wrap(err, "engine: evaluate slope")
	}
	ypp, err := second.Eval(symbol.VarX, x)
	if err != nil {
		return 0, eris.Wrap(err, "engine: evaluate second derivative")
	}
	if ypp == 0 {
		return 0, eris.Wrap(symbol.ErrUnavailable, "engine: zero second derivative, path is locally straight")
	}

	return math.Pow(1+yp*yp, 1.5) / math.Abs(ypp), nil
}
