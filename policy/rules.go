// Package policy implements the rule engine: it maps an action request to a
// Decision that says whether the action may run, how much human oversight it
// needs, and which inspections must pass first.
//
// Rules are matched by pattern specificity, not declaration order: an exact
// name beats a wildcard prefix, a longer wildcard prefix beats a shorter
// one, and the catch-all pattern "*" matches last. An optional
// user-preference overlay can pre-approve or forbid patterns on top of the
// base rules; deny patterns always outrank allow patterns.
//
// Evaluation is a pure function of (request, rule set): no I/O, no side
// effects, identical inputs always produce the identical Decision.
package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wardenhq/warden/api"
)

// Rule associates an action-name pattern with the supervision and risk
// levels policy assigns to matching requests.
type Rule struct {
	// Pattern is an exact action name ("delete_file"), a wildcard prefix
	// ("delete_*"), or the catch-all "*".
	Pattern string
	// Supervision is the oversight level for matching requests.
	// SupervisionDeny forbids them outright.
	Supervision api.Supervision
	// Risk classifies the impact of matching requests.
	Risk api.Risk
	// Reason is a short operator-facing explanation for the verdict.
	Reason string
	// Inspections names the inspectors that must pass before execution,
	// in order.
	Inspections []string
	// Condition is an optional CEL expression over the request, e.g.
	// `params.path.startsWith("/etc")`. A rule whose condition evaluates
	// to false does not match. Compiled once when the rule set is built.
	Condition string
}

type patternKind int

const (
	kindExact patternKind = iota
	kindPrefix
	kindCatchAll
)

type compiledRule struct {
	Rule
	kind      patternKind
	prefix    string
	condition *condition
}

// specificity orders matching rules: exact beats prefix beats catch-all, and
// among prefixes the longer one wins. Declaration order breaks ties.
func (r compiledRule) specificity() int {
	switch r.kind {
	case kindExact:
		return 1 << 16
	case kindPrefix:
		return len(r.prefix)
	default:
		return -1
	}
}

func compilePattern(pattern string) (patternKind, string, error) {
	switch {
	case pattern == "":
		return 0, "", errors.New("empty pattern")
	case pattern == "*":
		return kindCatchAll, "", nil
	case strings.HasSuffix(pattern, "*"):
		prefix := strings.TrimSuffix(pattern, "*")
		if strings.Contains(prefix, "*") {
			return 0, "", fmt.Errorf("pattern %q: wildcard is only supported as a trailing suffix", pattern)
		}
		return kindPrefix, prefix, nil
	case strings.Contains(pattern, "*"):
		return 0, "", fmt.Errorf("pattern %q: wildcard is only supported as a trailing suffix", pattern)
	default:
		return kindExact, pattern, nil
	}
}

func (r compiledRule) matchesName(name string) bool {
	switch r.kind {
	case kindExact:
		return name == r.prefix
	case kindPrefix:
		return strings.HasPrefix(name, r.prefix)
	default:
		return true
	}
}
