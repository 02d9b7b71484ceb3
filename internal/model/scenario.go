// Package model defines the Scenario record exchanged between callers and the
// resolution engine, plus the fixture schema used by batch runs.
package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Scenario is the record of known and unknown kinematic quantities for one
// planar curvilinear-motion problem, expressed in the normal–tangential
// frame. A nil numeric pointer means "unknown". Expression fields hold raw
// formula text in the position variable x or the time variable t; they are
// parsed by the engine, never here.
//
// A Scenario has no identity beyond a single resolution call: it is built
// from raw input, passed through the engine, and returned enriched.
type Scenario struct {
	// Path is the trajectory shape y(x).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
	// XVal is the position at which curvature and position-dependent
	// expressions are evaluated.
	XVal *float64 `json:"x_val,omitempty" yaml:"x_val,omitempty"`
	// Rho is the radius of curvature.
	Rho *float64 `json:"rho,omitempty" yaml:"rho,omitempty"`

	// V and V0 are the instantaneous and initial speeds.
	V  *float64 `json:"v,omitempty" yaml:"v,omitempty"`
	V0 *float64 `json:"v0,omitempty" yaml:"v0,omitempty"`
	// VOfTime and VOfPosition are alternate ways to supply V.
	VOfTime     string `json:"v_as_function_of_time,omitempty" yaml:"v_as_function_of_time,omitempty"`
	VOfPosition string `json:"v_as_function_of_position,omitempty" yaml:"v_as_function_of_position,omitempty"`

	// AT is the tangential acceleration; ATExpr an alternate expression form
	// in either the time or the position variable.
	AT     *float64 `json:"a_t,omitempty" yaml:"a_t,omitempty"`
	ATExpr string   `json:"a_t_as_function,omitempty" yaml:"a_t_as_function,omitempty"`
	// AN is the normal (centripetal) acceleration.
	AN *float64 `json:"a_n,omitempty" yaml:"a_n,omitempty"`
	// ATotal is the magnitude of the total acceleration vector.
	ATotal *float64 `json:"a_total,omitempty" yaml:"a_total,omitempty"`
	// AngleFromTangent is the angle, in degrees, of the total-acceleration
	// vector from the tangential direction.
	AngleFromTangent *float64 `json:"angle_from_tangent,omitempty" yaml:"angle_from_tangent,omitempty"`

	// Time is the clock time at which time-dependent expressions are evaluated.
	Time *float64 `json:"time,omitempty" yaml:"time,omitempty"`

	// SpeedIsConstant forces the tangential acceleration to zero.
	SpeedIsConstant bool `json:"speed_is_constant,omitempty" yaml:"speed_is_constant,omitempty"`
	// SolveForElapsedTime requests derivation of ElapsedTime from V0, V, AT.
	SolveForElapsedTime bool `json:"solve_for_elapsed_time,omitempty" yaml:"solve_for_elapsed_time,omitempty"`
	// ElapsedTime is output only.
	ElapsedTime *float64 `json:"elapsed_time,omitempty" yaml:"elapsed_time,omitempty"`
}

// Float returns a pointer to v, for building scenarios literally.
func Float(v float64) *float64 { return &v }

// Clone returns a deep copy; the engine enriches the copy and leaves the
// caller's record untouched.
func (s Scenario) Clone() Scenario {
	c := s
	c.XVal = cloneFloat(s.XVal)
	c.Rho = cloneFloat(s.Rho)
	c.V = cloneFloat(s.V)
	c.V0 = cloneFloat(s.V0)
	c.AT = cloneFloat(s.AT)
	c.AN = cloneFloat(s.AN)
	c.ATotal = cloneFloat(s.ATotal)
	c.AngleFromTangent = cloneFloat(s.AngleFromTangent)
	c.Time = cloneFloat(s.Time)
	c.ElapsedTime = cloneFloat(s.ElapsedTime)
	return c
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// FieldKind distinguishes how a Field's value is rendered.
type FieldKind int

const (
	// KindNumber is an optional numeric quantity.
	KindNumber FieldKind = iota
	// KindExpr is raw expression text.
	KindExpr
	// KindFlag is a boolean policy flag.
	KindFlag
)

// Field is one scenario quantity prepared for presentation.
type Field struct {
	Name string
	Kind FieldKind
	Num  *float64
	Text string
	Flag bool
}

// Display renders the field value: "-" for an absent quantity, two decimals
// for numbers, raw text for expressions, true/false for flags.
func (f Field) Display() string {
	switch f.Kind {
	case KindExpr:
		if f.Text == "" {
			return "-"
		}
		return f.Text
	case KindFlag:
		return strconv.FormatBool(f.Flag)
	default:
		if f.Num == nil {
			return "-"
		}
		return fmt.Sprintf("%.2f", *f.Num)
	}
}

// Fields returns every scenario quantity, including absent ones, sorted by
// name. Callers display the full list; the engine never consumes it.
func (s Scenario) Fields() []Field {
	fields := []Field{
		{Name: "a_n", Kind: KindNumber, Num: s.AN},
		{Name: "a_t", Kind: KindNumber, Num: s.AT},
		{Name: "a_t_as_function", Kind: KindExpr, Text: s.ATExpr},
		{Name: "a_total", Kind: KindNumber, Num: s.ATotal},
		{Name: "angle_from_tangent", Kind: KindNumber, Num: s.AngleFromTangent},
		{Name: "elapsed_time", Kind: KindNumber, Num: s.ElapsedTime},
		{Name: "path", Kind: KindExpr, Text: s.Path},
		{Name: "rho", Kind: KindNumber, Num: s.Rho},
		{Name: "solve_for_elapsed_time", Kind: KindFlag, Flag: s.SolveForElapsedTime},
		{Name: "speed_is_constant", Kind: KindFlag, Flag: s.SpeedIsConstant},
		{Name: "time", Kind: KindNumber, Num: s.Time},
		{Name: "v", Kind: KindNumber, Num: s.V},
		{Name: "v0", Kind: KindNumber, Num: s.V0},
		{Name: "v_as_function_of_position", Kind: KindExpr, Text: s.VOfPosition},
		{Name: "v_as_function_of_time", Kind: KindExpr, Text: s.VOfTime},
		{Name: "x_val", Kind: KindNumber, Num: s.XVal},
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}
