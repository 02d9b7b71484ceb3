// Package symbol implements the small symbolic-expression kernel behind the
// resolver: parsing of user-supplied formula text, symbolic differentiation
// (needed for curvature), and numeric evaluation under a single variable
// binding.
//
// The kernel is deliberately tiny. Expressions are trees of numbers, symbols,
// sums, products, powers, and calls into a closed whitelist of real-valued
// elementary functions. There is no general simplifier beyond constant
// folding, and no code-evaluation path: the grammar is fixed at parse time.
package symbol

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Var is one of the two free variables an expression may reference.
// Vars are immutable values passed explicitly into Eval; they carry no state.
type Var string

const (
	// VarX is the position variable.
	VarX Var = "x"
	// VarT is the time variable.
	VarT Var = "t"
)

var (
	// ErrUnparseable reports formula text the parser rejected.
	ErrUnparseable = errors.New("symbol: unparseable expression")
	// ErrUnavailable reports an expression that parses but cannot be reduced
	// to a real finite number at the given substitution.
	ErrUnavailable = errors.New("symbol: expression not evaluable")
)

// Expr is a parsed symbolic expression.
type Expr interface {
	// Diff returns the derivative with respect to v.
	Diff(v Var) Expr
	// Eval substitutes value for v and reduces to a float64. Any symbol other
	// than v, and any non-finite or out-of-domain intermediate, yields an
	// error wrapping ErrUnavailable.
	Eval(v Var, value float64) (float64, error)
	// DependsOn reports whether the expression references v.
	DependsOn(v Var) bool

	fmt.Stringer
}

// num is a numeric literal.
type num struct{ val float64 }

// Number returns a constant expression.
func Number(v float64) Expr { return num{val: v} }

func (n num) Diff(Var) Expr { return num{} }

func (n num) Eval(Var, float64) (float64, error) { return n.val, nil }

func (n num) DependsOn(Var) bool { return false }

func (n num) String() string { return strconv.FormatFloat(n.val, 'g', -1, 64) }

// sym is a named symbol. Names other than the bound variable survive to Eval
// and fail there, which is how typos in user formulas surface.
type sym struct{ name string }

// Symbol returns a symbolic variable expression.
func Symbol(name string) Expr { return sym{name: name} }

func (s sym) Diff(v Var) Expr {
	if s.name == string(v) {
		return num{val: 1}
	}
	return num{}
}

func (s sym) Eval(v Var, value float64) (float64, error) {
	if s.name == string(v) {
		return value, nil
	}
	return 0, eris.Wrapf(ErrUnavailable, "unbound symbol %q", s.name)
}

func (s sym) DependsOn(v Var) bool { return s.name == string(v) }

func (s sym) String() string { return s.name }

// add is an n-ary sum.
type add struct{ terms []Expr }

// Sum builds a sum, folding numeric terms and flattening nested sums.
func Sum(terms ...Expr) Expr {
	var flat []Expr
	c := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case add:
			for _, inner := range v.terms {
				if n, ok := inner.(num); ok {
					c += n.val
				} else {
					flat = append(flat, inner)
				}
			}
		case num:
			c += v.val
		default:
			flat = append(flat, t)
		}
	}
	if c != 0 || len(flat) == 0 {
		flat = append(flat, num{val: c})
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return add{terms: flat}
}

func (a add) Diff(v Var) Expr {
	d := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d[i] = t.Diff(v)
	}
	return Sum(d...)
}

func (a add) Eval(v Var, value float64) (float64, error) {
	total := 0.0
	for _, t := range a.terms {
		r, err := t.Eval(v, value)
		if err != nil {
			return 0, err
		}
		total += r
	}
	return finite(total)
}

func (a add) DependsOn(v Var) bool {
	for _, t := range a.terms {
		if t.DependsOn(v) {
			return true
		}
	}
	return false
}

func (a add) String() string {
	parts := make([]string, len(a.terms))
	for i, t := range a.terms {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " + ") + ")"
}

// mul is an n-ary product.
type mul struct{ factors []Expr }

// Product builds a product, folding numeric factors and flattening nested
// products. A zero factor collapses the whole product.
func Product(factors ...Expr) Expr {
	var flat []Expr
	c := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case mul:
			for _, inner := range v.factors {
				if n, ok := inner.(num); ok {
					c *= n.val
				} else {
					flat = append(flat, inner)
				}
			}
		case num:
			c *= v.val
		default:
			flat = append(flat, f)
		}
	}
	if c == 0 {
		return num{}
	}
	if c != 1 || len(flat) == 0 {
		flat = append([]Expr{num{val: c}}, flat...)
	}
	if len(flat) == 1 {
		return flat[0]
	}
	return mul{factors: flat}
}

// Negate returns -e.
func Negate(e Expr) Expr { return Product(num{val: -1}, e) }

func (m mul) Diff(v Var) Expr {
	// Product rule over n factors.
	terms := make([]Expr, 0, len(m.factors))
	for i := range m.factors {
		fs := make([]Expr, len(m.factors))
		copy(fs, m.factors)
		fs[i] = m.factors[i].Diff(v)
		terms = append(terms, Product(fs...))
	}
	return Sum(terms...)
}

func (m mul) Eval(v Var, value float64) (float64, error) {
	total := 1.0
	for _, f := range m.factors {
		r, err := f.Eval(v, value)
		if err != nil {
			return 0, err
		}
		total *= r
	}
	return finite(total)
}

func (m mul) DependsOn(v Var) bool {
	for _, f := range m.factors {
		if f.DependsOn(v) {
			return true
		}
	}
	return false
}

func (m mul) String() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		parts[i] = f.String()
	}
	return "(" + strings.Join(parts, "*") + ")"
}

// pow is base^exp.
type pow struct{ base, exp Expr }

// Power builds base^exp with light folding of trivial exponents.
func Power(base, exp Expr) Expr {
	if n, ok := exp.(num); ok {
		switch n.val {
		case 0:
			return num{val: 1}
		case 1:
			return base
		}
		if b, ok := base.(num); ok {
			return num{val: math.Pow(b.val, n.val)}
		}
	}
	return pow{base: base, exp: exp}
}

// Quotient returns a/b as a * b^-1.
func Quotient(a, b Expr) Expr { return Product(a, Power(b, num{val: -1})) }

func (p pow) Diff(v Var) Expr {
	if !p.exp.DependsOn(v) {
		// Power rule: d(u^c) = c * u^(c-1) * u'.
		return Product(p.exp, Power(p.base, Sum(p.exp, num{val: -1})), p.base.Diff(v))
	}
	// General case via u^w = exp(w*ln u): d = u^w * (w'*ln u + w*u'/u).
	return Product(p,
		Sum(
			Product(p.exp.Diff(v), call{fn: "ln", arg: p.base}),
			Product(p.exp, Quotient(p.base.Diff(v), p.base)),
		))
}

func (p pow) Eval(v Var, value float64) (float64, error) {
	b, err := p.base.Eval(v, value)
	if err != nil {
		return 0, err
	}
	e, err := p.exp.Eval(v, value)
	if err != nil {
		return 0, err
	}
	return finite(math.Pow(b, e))
}

func (p pow) DependsOn(v Var) bool { return p.base.DependsOn(v) || p.exp.DependsOn(v) }

func (p pow) String() string { return "(" + p.base.String() + "^" + p.exp.String() + ")" }

// call applies one of the whitelisted elementary functions.
type call struct {
	fn  string
	arg Expr
}

// funcs is the closed whitelist of real-valued elementary functions the
// grammar accepts. Expression text originates from untrusted input, so
// nothing outside this table is callable.
var funcs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sqrt": math.Sqrt,
	"exp":  math.Exp,
	"ln":   math.Log,
	"log":  math.Log10,
	"abs":  math.Abs,
}

// Call builds fn(arg). The function name must be in the whitelist; Parse
// guarantees this, and direct constructor callers get a panic-free fallback
// at Eval time for unknown names.
func Call(fn string, arg Expr) Expr { return call{fn: fn, arg: arg} }

func (c call) Diff(v Var) Expr {
	du := c.arg.Diff(v)
	var outer Expr
	switch c.fn {
	case "sin":
		outer = call{fn: "cos", arg: c.arg}
	case "cos":
		outer = Negate(call{fn: "sin", arg: c.arg})
	case "tan":
		outer = Quotient(num{val: 1}, Power(call{fn: "cos", arg: c.arg}, num{val: 2}))
	case "asin":
		outer = Quotient(num{val: 1}, Call("sqrt", Sum(num{val: 1}, Negate(Power(c.arg, num{val: 2})))))
	case "acos":
		outer = Negate(Quotient(num{val: 1}, Call("sqrt", Sum(num{val: 1}, Negate(Power(c.arg, num{val: 2}))))))
	case "atan":
		outer = Quotient(num{val: 1}, Sum(num{val: 1}, Power(c.arg, num{val: 2})))
	case "sqrt":
		outer = Quotient(num{val: 1}, Product(num{val: 2}, call{fn: "sqrt", arg: c.arg}))
	case "exp":
		outer = c
	case "ln":
		outer = Quotient(num{val: 1}, c.arg)
	case "log":
		outer = Quotient(num{val: 1}, Product(c.arg, num{val: math.Ln10}))
	case "abs":
		// d|u| = u/|u| * u'; undefined at u = 0, which surfaces at Eval.
		outer = Quotient(c.arg, c)
	default:
		// Unknown function: derivative is unevaluable, represented by a call
		// that will fail at Eval.
		return call{fn: c.fn, arg: c.arg}
	}
	return Product(outer, du)
}

func (c call) Eval(v Var, value float64) (float64, error) {
	fn, ok := funcs[c.fn]
	if !ok {
		return 0, eris.Wrapf(ErrUnavailable, "unknown function %q", c.fn)
	}
	arg, err := c.arg.Eval(v, value)
	if err != nil {
		return 0, err
	}
	return finite(fn(arg))
}

func (c call) DependsOn(v Var) bool { return c.arg.DependsOn(v) }

func (c call) String() string { return c.fn + "(" + c.arg.String() + ")" }

// finite maps NaN/Inf results to ErrUnavailable so domain failures (sqrt of a
// negative, log of a non-positive, division by zero) degrade instead of
// propagating non-real values into the engine.
func finite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, eris.Wrap(ErrUnavailable, "non-finite result")
	}
	return v, nil
}
