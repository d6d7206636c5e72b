package grade

import "log/slog"

// RuleFunc compares one expectation against one recorded action.
type RuleFunc func(expected ExpectedAction, action CanonicalAction) Result

// Registry is the comparison rule table, keyed by rule name. Expectations
// select their rule by name; unset or unknown names fall back to the
// default rule so authored content can never make grading impossible.
type Registry struct {
	rules map[string]RuleFunc
}

// NewRegistry builds a registry with the default rule installed.
func NewRegistry() *Registry {
	r := &Registry{rules: make(map[string]RuleFunc)}
	r.Register(DefaultRuleName, DefaultRule)
	return r
}

// Register installs or replaces a named rule.
func (r *Registry) Register(name string, fn RuleFunc) {
	r.rules[name] = fn
}

// Evaluate grades an action against an expectation using the expectation's
// named rule. An empty rule name selects the default rule silently; an
// unknown name also falls back but logs, since that points at a content
// typo.
func (r *Registry) Evaluate(expected ExpectedAction, action CanonicalAction) Result {
	name := expected.Rule
	if name == "" {
		name = DefaultRuleName
	}
	fn, ok := r.rules[name]
	if !ok {
		slog.Warn("unknown comparison rule, using default",
			"rule", name,
			"expected_id", expected.ID,
		)
		fn = r.rules[DefaultRuleName]
	}
	result := fn(expected, action)
	result.Rule = name
	if !ok {
		result.Rule = DefaultRuleName
	}
	return result
}
