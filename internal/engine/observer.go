package engine

import "go.uber.org/zap"

// Observer receives trace events from the rule pass. The engine itself never
// logs or prints; narration is the observer's concern, keeping the core free
// of side effects.
type Observer interface {
	// RuleFired reports that rule derived value for field.
	RuleFired(rule, field string, value float64)
	// RuleSkipped reports that rule could not derive its target.
	RuleSkipped(rule, reason string)
	// Inconsistent reports independently supplied acceleration components
	// that violate a_total² = a_t² + a_n². Advisory only.
	Inconsistent(aTotal, aT, aN float64)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) RuleFired(string, string, float64) {}

func (NopObserver) RuleSkipped(string, string) {}

func (NopObserver) Inconsistent(float64, float64, float64) {}

// ZapObserver narrates rule activity to a zap logger at debug level,
// with inconsistencies surfaced at warn.
type ZapObserver struct {
	log *zap.Logger
}

// NewZapObserver wraps log; a nil log uses the global logger.
func NewZapObserver(log *zap.Logger) *ZapObserver {
	if log == nil {
		log = zap.L()
	}
	return &ZapObserver{log: log}
}

func (o *ZapObserver) RuleFired(rule, field string, value float64) {
	o.log.Debug("engine: rule fired",
		zap.String("rule", rule),
		zap.String("field", field),
		zap.Float64("value", value),
	)
}

func (o *ZapObserver) RuleSkipped(rule, reason string) {
	o.log.Debug("engine: rule skipped",
		zap.String("rule", rule),
		zap.String("reason", reason),
	)
}

func (o *ZapObserver) Inconsistent(aTotal, aT, aN float64) {
	o.log.Warn("engine: supplied accelerations violate pythagorean identity",
		zap.Float64("a_total", aTotal),
		zap.Float64("a_t", aT),
		zap.Float64("a_n", aN),
	)
}
