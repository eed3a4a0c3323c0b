package rules

// Evaluator decides a boolean rule for a field. fieldID names the field the
// rule is attached to; rule is the raw expression from the definition.
type Evaluator interface {
	Eval(fieldID, rule string, scope Scope) (bool, error)
}

// Scope provides the inputs a rule can read. Values holds field values keyed
// by field name (and dotted panel paths); Extras carries caller data such as
// prefill payloads or feature flags, addressed with the `extras.` prefix.
type Scope struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldID, rule string, scope Scope) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldID, rule string, scope Scope) (bool, error) {
	return fn(fieldID, rule, scope)
}

// Rule names read from a field's `rules` map.
const (
	RuleVisible  = "visible"
	RuleEnabled  = "enabled"
	RuleRequired = "required"
)
