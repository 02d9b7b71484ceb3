// Package engine resolves planar curvilinear-motion scenarios expressed in
// the normal–tangential frame. Given a record of known quantities (numbers,
// formula text, policy flags) it derives every quantity reachable through a
// fixed battery of physics identities in one deterministic forward pass.
//
// The pass is not a fixpoint iteration: each rule fires at most once, in a
// fixed order, and only fills fields that are still absent (the constant-speed
// override being the single exception). A chain of deductions that would need
// to run backwards relative to this order stays unresolved. Nothing in the
// pass can fail the resolution: every parse, evaluation, or domain failure
// degrades to "field remains absent".
package engine

import (
	"math"

	"github.com/ntkit/ntsolve/internal/model"
	"github.com/ntkit/ntsolve/internal/symbol"
)

// Options selects engine capabilities.
type Options struct {
	// DecomposeTotal enables the angle-decomposition branch of the
	// total/components cross-resolution: with a_total and angle_from_tangent
	// both known, absent components are filled from
	// a_t = a_total·cos(angle), a_n = a_total·sin(angle).
	// Disabled, only the partial-Pythagorean branch runs.
	DecomposeTotal bool
}

// consistencyTol is the relative tolerance beyond which independently
// supplied a_total, a_t, a_n are reported as inconsistent.
const consistencyTol = 1e-6

// Engine applies the rule battery. Engines are stateless across calls and
// safe for concurrent use from multiple goroutines.
type Engine struct {
	opts Options
	obs  Observer
}

// New creates an Engine. A nil observer discards trace events.
func New(opts Options, obs Observer) *Engine {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Engine{opts: opts, obs: obs}
}

// Resolve returns a copy of s with every derivable absent field filled in.
// It never fails; an ill-posed scenario simply comes back less enriched.
func (e *Engine) Resolve(s model.Scenario) model.Scenario {
	out := s.Clone()

	e.checkConsistency(out)

	e.ruleCurvature(&out)
	e.ruleConstantSpeed(&out)
	e.ruleTangentialFromExpr(&out)
	e.ruleSpeedFromTime(&out)
	e.ruleSpeedFromPosition(&out)
	e.ruleNormalFromSpeed(&out)
	e.ruleCrossResolve(&out)
	e.ruleAngleFromComponents(&out)
	e.ruleElapsedTime(&out)

	return out
}

// checkConsistency emits an advisory trace event when all three acceleration
// magnitudes were supplied by the caller and violate the Pythagorean
// identity. Fields are never altered.
func (e *Engine) checkConsistency(s model.Scenario) {
	if s.ATotal == nil || s.AT == nil || s.AN == nil {
		return
	}
	want := *s.AT * *s.AT + *s.AN * *s.AN
	got := *s.ATotal * *s.ATotal
	if math.Abs(got-want) > consistencyTol*math.Max(1, got) {
		e.obs.Inconsistent(*s.ATotal, *s.AT, *s.AN)
	}
}

// ruleCurvature fills rho from the path shape and the evaluation position.
func (e *Engine) ruleCurvature(s *model.Scenario) {
	const rule = "curvature_from_path"
	if s.Rho != nil || s.Path == "" || s.XVal == nil {
		return
	}
	path, err := symbol.Parse(s.Path)
	if err != nil {
		e.obs.RuleSkipped(rule, err.Error())
		return
	}
	rho, err := CurvatureRadius(path, *s.XVal)
	if err != nil {
		e.obs.RuleSkipped(rule, err.Error())
		return
	}
	s.Rho = model.Float(rho)
	e.obs.RuleFired(rule, "rho", rho)
}

// ruleConstantSpeed forces a_t to zero under the constant-speed policy. This
// is the only rule allowed to overwrite a supplied value; any numeric or
// expression a_t is discarded.
func (e *Engine) ruleConstantSpeed(s *model.Scenario) {
	const rule = "constant_speed_override"
	if !s.SpeedIsConstant {
		return
	}
	s.AT = model.Float(0)
	s.ATExpr = ""
	e.obs.RuleFired(rule, "a_t", 0)
}

// ruleTangentialFromExpr resolves an a_t expression at the known time or
// position, preferring the time variable when the expression uses it.
func (e *Engine) ruleTangentialFromExpr(s *model.Scenario) {
	const rule = "a_t_from_expression"
	if s.AT != nil || s.ATExpr == "" {
		return
	}
	expr, err := symbol.Parse(s.ATExpr)
	if err != nil {
		e.obs.RuleSkipped(rule, err.Error())
		return
	}

	var (
		at      float64
		evalErr error
	)
	switch {
	case expr.DependsOn(symbol.VarT) && s.Time != nil:
		at, evalErr = expr.Eval(symbol.VarT, *s.Time)
	case expr.DependsOn(symbol.VarX) && s.XVal != nil:
		at, evalErr = expr.Eval(symbol.VarX, *s.XVal)
	default:
		e.obs.RuleSkipped(rule, "no known value for the expression variable")
		return
	}
	if evalErr != nil {
		e.obs.RuleSkipped(rule, evalErr.Error())
		return
	}
	s.AT = model.Float(at)
	e.obs.RuleFired(rule, "a_t", at)
}

// ruleSpeedFromTime resolves a v(t) expression at the known time.
func (e *Engine) ruleSpeedFromTime(s *model.Scenario) {
	const rule = "v_from_time_expression"
	if s.V != nil || s.VOfTime == "" || s.Time == nil {
		return
	}
	e.evalSpeed(s, rule, s.VOfTime, symbol.VarT, *s.Time)
}

// ruleSpeedFromPosition resolves a v(x) expression at the known position.
func (e *Engine) ruleSpeedFromPosition(s *model.Scenario) {
	const rule = "v_from_position_expression"
	if s.V != nil || s.VOfPosition == "" || s.XVal == nil {
		return
	}
	e.evalSpeed(s, rule, s.VOfPosition, symbol.VarX, *s.XVal)
}

func (e *Engine) evalSpeed(s *model.Scenario, rule, text string, v symbol.Var, at float64) {
	expr, err := symbol.Parse(text)
	if err != nil {
		e.obs.RuleSkipped(rule, err.Error())
		return
	}
	speed, err := expr.Eval(v, at)
	if err != nil {
		e.obs.RuleSkipped(rule, err.Error())
		return
	}
	s.V = model.Float(speed)
	e.obs.RuleFired(rule, "v", speed)
}

// ruleNormalFromSpeed derives the centripetal acceleration a_n = v²/ρ.
func (e *Engine) ruleNormalFromSpeed(s *model.Scenario) {
	const rule = "a_n_from_speed_and_curvature"
	if s.AN != nil || s.V == nil || s.Rho == nil {
		return
	}
	if *s.Rho == 0 {
		e.obs.RuleSkipped(rule, "zero curvature radius")
		return
	}
	an := *s.V * *s.V / *s.Rho
	s.AN = model.Float(an)
	e.obs.RuleFired(rule, "a_n", an)
}

// ruleCrossResolve ties the total acceleration magnitude to its components.
// Exactly one branch runs:
//
//  1. a_total and the angle known: absent components from the decomposition
//     (when the DecomposeTotal capability is enabled);
//  2. a_total and exactly one component known: the other from the
//     Pythagorean identity, if the radicand is non-negative;
//  3. both components known, a_total absent: magnitude from the identity.
func (e *Engine) ruleCrossResolve(s *model.Scenario) {
	const rule = "total_components_cross_resolution"
	switch {
	case s.ATotal != nil && s.AngleFromTangent != nil && e.opts.DecomposeTotal:
		rad := *s.AngleFromTangent * math.Pi / 180
		if s.AT == nil {
			at := *s.ATotal * math.Cos(rad)
			s.AT = model.Float(at)
			e.obs.RuleFired(rule, "a_t", at)
		}
		if s.AN == nil {
			an := *s.ATotal * math.Sin(rad)
			s.AN = model.Float(an)
			e.obs.RuleFired(rule, "a_n", an)
		}
	case s.ATotal != nil && (s.AT == nil) != (s.AN == nil):
		known := s.AT
		if known == nil {
			known = s.AN
		}
		radicand := *s.ATotal * *s.ATotal - *known * *known
		if radicand < 0 {
			e.obs.RuleSkipped(rule, "negative radicand, components exceed total")
			return
		}
		other := math.Sqrt(radicand)
		if s.AT == nil {
			s.AT = model.Float(other)
			e.obs.RuleFired(rule, "a_t", other)
		} else {
			s.AN = model.Float(other)
			e.obs.RuleFired(rule, "a_n", other)
		}
	case s.ATotal == nil && s.AT != nil && s.AN != nil:
		total := math.Hypot(*s.AT, *s.AN)
		s.ATotal = model.Float(total)
		e.obs.RuleFired(rule, "a_total", total)
	}
}

// ruleAngleFromComponents derives the direction of the total acceleration
// from its components, in degrees from the tangential direction.
func (e *Engine) ruleAngleFromComponents(s *model.Scenario) {
	const rule = "angle_from_components"
	if s.AngleFromTangent != nil || s.AT == nil || s.AN == nil {
		return
	}
	angle := math.Atan2(*s.AN, *s.AT) * 180 / math.Pi
	s.AngleFromTangent = model.Float(angle)
	e.obs.RuleFired(rule, "angle_from_tangent", angle)
}

// ruleElapsedTime derives elapsed time from the constant-acceleration
// relation v = v0 + a_t·Δt, on request.
func (e *Engine) ruleElapsedTime(s *model.Scenario) {
	const rule = "elapsed_time"
	if !s.SolveForElapsedTime {
		return
	}
	if s.V0 == nil || s.V == nil || s.AT == nil {
		e.obs.RuleSkipped(rule, "v0, v and a_t must all be known")
		return
	}
	if *s.AT == 0 {
		e.obs.RuleSkipped(rule, "zero tangential acceleration")
		return
	}
	dt := (*s.V - *s.V0) / *s.AT
	s.ElapsedTime = model.Float(dt)
	e.obs.RuleFired(rule, "elapsed_time", dt)
}
