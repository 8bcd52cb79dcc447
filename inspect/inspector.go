// Package inspect implements the inspection pipeline: an ordered chain of
// named safety inspectors that run between the policy decision and handler
// execution. Each inspector may pass the parameters through unchanged, pass
// them with modifications, or veto the action with a blocking message.
//
// The pipeline is fail-fast: it stops at the first failing inspector and
// never runs the ones after it. Inspectors are pure functions of their input;
// they must never trigger actions themselves.
package inspect

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/wardenhq/warden/api"
)

// Severity classifies an inspection finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Result is the outcome of one inspector run against one request.
type Result struct {
	// Inspector is the name of the inspector that produced the result.
	Inspector string `json:"inspector"`
	// Passed is false when the inspector vetoes the action.
	Passed bool `json:"passed"`
	// Params holds the rewritten parameter document when the inspector
	// modified it, nil when the parameters passed through unchanged.
	Params json.RawMessage `json:"params,omitempty"`
	// Message explains the finding; mandatory on failure.
	Message string `json:"message,omitempty"`
	// Severity classifies the finding.
	Severity Severity `json:"severity,omitempty"`
}

// Pass returns a passing result with unchanged parameters.
func Pass() Result {
	return Result{Passed: true}
}

// PassModified returns a passing result carrying a rewritten parameter
// document.
func PassModified(params []byte, message string) Result {
	return Result{Passed: true, Params: params, Message: message, Severity: SeverityInfo}
}

// Fail returns a vetoing result with a blocking message.
func Fail(message string, severity Severity) Result {
	return Result{Passed: false, Message: message, Severity: severity}
}

// Context carries the request surroundings an inspector may consult. It is
// read-only from the inspector's point of view.
type Context struct {
	// Action is the name of the action under inspection.
	Action string
	// Decision is the policy verdict that demanded this inspection.
	Decision api.Decision
}

// Inspector is a pure check-and-maybe-modify step. Implementations must not
// keep state across calls and must not invoke actions.
type Inspector interface {
	// Name returns the identifier rules use to demand this inspector.
	Name() string
	// Inspect examines the parameter document and returns a Result.
	// The params slice must be treated as read-only; modifications go
	// into a fresh document on the Result.
	Inspect(ctx context.Context, params []byte, ic Context) Result
}

// Func adapts a function to the Inspector interface.
type Func struct {
	ID string
	Fn func(ctx context.Context, params []byte, ic Context) Result
}

func (f Func) Name() string { return f.ID }

func (f Func) Inspect(ctx context.Context, params []byte, ic Context) Result {
	return f.Fn(ctx, params, ic)
}
