package api

import (
	"context"

	"github.com/wardenhq/warden/tool"
	"github.com/wardenhq/warden/types"
)

// Specialist is a named, independently configured delegate target with its
// own action set and instructions. Implementations are expected to be
// immutable after construction.
//
// Design decisions:
//   - Minimal interface: only what the delegator needs to forward a task
//   - Immutable configuration: methods return values, no runtime mutation
//   - Flexible instruction rendering: instructions may be templated on
//     context variables merged at delegation time
type Specialist interface {
	// Name returns the specialist's unique identifier, used to resolve
	// delegation targets and to attribute actions in the audit trail.
	Name() string

	// Instructions returns the raw, possibly templated instruction text.
	Instructions() string

	// RenderInstructions renders the instruction template with the
	// provided context variables. Returns an error when a referenced
	// variable is missing or the template is malformed.
	RenderInstructions(types.ContextVars) (string, error)

	// Actions returns the catalog entries this specialist may invoke.
	// Every invocation still flows through the supervising engine.
	Actions() []tool.Definition

	// Runner returns the orchestrator that carries out tasks for this
	// specialist. The engine treats it as opaque.
	Runner() Runner
}

// Invoker dispatches a single supervised action. The engine implements it;
// runners receive it so that every action a specialist takes re-enters the
// policy, inspection and confirmation machinery.
type Invoker interface {
	Invoke(ctx context.Context, name string, parameters []byte) (string, error)
}

// Runner executes one delegated task on behalf of a specialist. How it
// decides which actions to invoke is outside the engine's scope; the only
// contract is that actions go through the supplied Invoker and that one
// call produces one final result.
type Runner interface {
	Run(ctx context.Context, sp Specialist, task string, vars types.ContextVars, invoke Invoker) (result string, meta map[string]any, err error)
}

// RunnerFunc adapts a plain function to the Runner interface.
type RunnerFunc func(ctx context.Context, sp Specialist, task string, vars types.ContextVars, invoke Invoker) (string, map[string]any, error)

func (f RunnerFunc) Run(ctx context.Context, sp Specialist, task string, vars types.ContextVars, invoke Invoker) (string, map[string]any, error) {
	return f(ctx, sp, task, vars, invoke)
}

// AgentResponse is the structured outcome of one delegation call. It is
// stateless: the delegator builds a fresh value per call and never retries.
type AgentResponse struct {
	// Specialist is the name of the delegate that handled the task.
	Specialist string `json:"specialist"`
	// Task is the task text that was forwarded.
	Task string `json:"task"`
	// Result is the specialist's final answer, empty on failure.
	Result string `json:"result,omitempty"`
	// Meta carries optional structured metadata the runner reported.
	Meta map[string]any `json:"meta,omitempty"`
	// Success is false when the specialist failed to load or its runner
	// returned an error.
	Success bool `json:"success"`
	// Err holds the failure, always wrapped, never a raw panic.
	Err error `json:"-"`
}

// IsSuccess reports whether the delegation produced a usable result.
func (r AgentResponse) IsSuccess() bool {
	return r.Success && r.Err == nil
}
