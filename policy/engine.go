package policy

import (
	"errors"
	"fmt"

	"github.com/go-openapi/swag"

	"github.com/wardenhq/warden/api"
)

// Overlay is a user-preference layer on top of the base rules. Allow
// patterns pre-approve matching actions (supervision is lowered to notify),
// deny patterns forbid them. A pattern present in both lists resolves to
// deny.
type Overlay struct {
	Allow []string
	Deny  []string
}

// RuleSet is an immutable, compiled set of rules plus an optional overlay.
// Build one with NewRuleSet; evaluation never mutates it, so a single
// RuleSet may serve any number of concurrent evaluations.
type RuleSet struct {
	rules   []compiledRule
	allow   overlayMatcher
	deny    overlayMatcher
	unruled api.Decision
}

// DefaultDecision is the verdict for a request no rule matches: execution is
// allowed but gated on confirmation, at medium risk. Rule authors who want a
// different fallback declare a catch-all "*" rule.
var DefaultDecision = api.Decision{
	Allowed:     true,
	Supervision: api.SupervisionConfirm,
	Risk:        api.RiskMedium,
	Reason:      "no rule matched",
}

// NewRuleSet compiles the given rules and overlay. All rules are validated
// up front; every invalid rule is reported, joined into one error.
func NewRuleSet(rules []Rule, overlay *Overlay) (*RuleSet, error) {
	rs := &RuleSet{unruled: DefaultDecision}

	var errs error
	for i, rule := range rules {
		compiled, err := compileRule(rule)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		rs.rules = append(rs.rules, compiled)
	}

	if overlay != nil {
		var err error
		if rs.allow, err = compileOverlay(overlay.Allow); err != nil {
			errs = errors.Join(errs, fmt.Errorf("allow overlay: %w", err))
		}
		if rs.deny, err = compileOverlay(overlay.Deny); err != nil {
			errs = errors.Join(errs, fmt.Errorf("deny overlay: %w", err))
		}
	}

	if errs != nil {
		return nil, errs
	}
	return rs, nil
}

// MustRuleSet is like NewRuleSet but panics on error. Intended for static
// rule tables.
func MustRuleSet(rules []Rule, overlay *Overlay) *RuleSet {
	rs, err := NewRuleSet(rules, overlay)
	if err != nil {
		panic(err)
	}
	return rs
}

func compileRule(rule Rule) (compiledRule, error) {
	var errs error

	kind, prefix, err := compilePattern(rule.Pattern)
	if err != nil {
		errs = errors.Join(errs, err)
	}
	if rule.Supervision != "" && !rule.Supervision.Valid() {
		errs = errors.Join(errs, fmt.Errorf("unknown supervision level %q", rule.Supervision))
	}
	if rule.Risk != "" && !rule.Risk.Valid() {
		errs = errors.Join(errs, fmt.Errorf("unknown risk level %q", rule.Risk))
	}

	compiled := compiledRule{Rule: rule, kind: kind, prefix: prefix}
	if kind == kindExact {
		compiled.prefix = rule.Pattern
	}
	if rule.Condition != "" {
		cond, err := compileCondition(rule.Condition)
		if err != nil {
			errs = errors.Join(errs, err)
		}
		compiled.condition = cond
	}

	if errs != nil {
		return compiledRule{}, errs
	}
	return compiled, nil
}

// overlayMatcher matches overlay patterns against action names. Exact
// patterns sit in a plain membership list, wildcards keep their compiled
// form.
type overlayMatcher struct {
	exact    []string
	patterns []compiledRule
}

func compileOverlay(patterns []string) (overlayMatcher, error) {
	var m overlayMatcher
	var errs error
	for _, pattern := range patterns {
		compiled, err := compileRule(Rule{Pattern: pattern})
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		if compiled.kind == kindExact {
			m.exact = append(m.exact, compiled.prefix)
		} else {
			m.patterns = append(m.patterns, compiled)
		}
	}
	return m, errs
}

func (m overlayMatcher) matches(name string) bool {
	if swag.ContainsStrings(m.exact, name) {
		return true
	}
	for _, rule := range m.patterns {
		if rule.matchesName(name) {
			return true
		}
	}
	return false
}

// Evaluate maps a request to its Decision. It is deterministic and free of
// side effects: the same request against the same rule set always yields the
// same Decision.
func (rs *RuleSet) Evaluate(req api.ActionRequest) api.Decision {
	decision := rs.baseDecision(req)
	return rs.applyOverlay(req, decision)
}

func (rs *RuleSet) baseDecision(req api.ActionRequest) api.Decision {
	matched, ok := rs.match(req)
	if !ok {
		return rs.unruled
	}

	supervision := matched.Supervision
	if supervision == "" {
		supervision = api.SupervisionConfirm
	}
	risk := matched.Risk
	if risk == "" {
		risk = api.RiskMedium
	}
	reason := matched.Reason
	if reason == "" {
		reason = fmt.Sprintf("matched rule %q", matched.Pattern)
	}

	return api.Decision{
		Allowed:     supervision != api.SupervisionDeny,
		Supervision: supervision,
		Risk:        risk,
		Reason:      reason,
		Inspections: matched.Inspections,
	}
}

// match returns the most specific rule matching the request. Conditions are
// part of matching: a rule whose condition does not hold is skipped, letting
// a less specific rule apply instead.
func (rs *RuleSet) match(req api.ActionRequest) (compiledRule, bool) {
	var best compiledRule
	bestScore := -1 << 30
	found := false

	for _, rule := range rs.rules {
		if !rule.matchesName(req.Name) {
			continue
		}
		if rule.condition != nil && !rule.condition.holds(req) {
			continue
		}
		// Strict inequality keeps the earliest declared rule on ties.
		if score := rule.specificity(); score > bestScore {
			best = rule
			bestScore = score
			found = true
		}
	}
	return best, found
}

// applyOverlay layers user preferences over the base verdict. Deny always
// outranks allow; allow never resurrects an action the base rules forbid.
func (rs *RuleSet) applyOverlay(req api.ActionRequest, decision api.Decision) api.Decision {
	if rs.deny.matches(req.Name) {
		decision.Allowed = false
		decision.Supervision = api.SupervisionDeny
		decision.Reason = fmt.Sprintf("%s; denied by user overlay", decision.Reason)
		return decision
	}

	if decision.Allowed && decision.Supervision.RequiresConfirmation() && rs.allow.matches(req.Name) {
		decision.Supervision = api.SupervisionNotify
		decision.Reason = fmt.Sprintf("%s; pre-approved by user overlay", decision.Reason)
	}
	return decision
}
