package warden

import (
	"context"
	"fmt"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/types"
)

// DelegationError reports a delegation that never reached the specialist's
// runner: the specialist could not be resolved or its handle could not be
// built. Runner failures are reported as-is on the AgentResponse instead.
type DelegationError struct {
	Specialist string
	Err        error
}

func (e *DelegationError) Error() string {
	return fmt.Sprintf("delegation to %q failed: %v", e.Specialist, e.Err)
}

func (e *DelegationError) Unwrap() error { return e.Err }

// handle is the cached per-specialist delegation state: the resolved
// specialist with its actions already registered in the engine's catalog.
// Handles are built lazily on first delegation and reused afterwards.
type handle struct {
	sp api.Specialist
}

// Delegate hands a whole task to the named specialist and returns its
// structured outcome. The call is stateless: one request, one response, no
// retries. Every action the specialist's runner takes flows back through
// the engine's supervision machinery via the Invoker it receives.
//
// A specialist that cannot be resolved or registered produces a failed
// AgentResponse carrying a DelegationError; it never panics.
func (e *Engine) Delegate(ctx context.Context, name, task string, vars types.ContextVars) api.AgentResponse {
	resp := api.AgentResponse{Specialist: name, Task: task}

	h, err := e.handleFor(name)
	if err != nil {
		resp.Err = &DelegationError{Specialist: name, Err: err}
		return resp
	}

	runner := h.sp.Runner()
	if runner == nil {
		resp.Err = &DelegationError{Specialist: name, Err: fmt.Errorf("specialist has no runner")}
		return resp
	}

	result, meta, err := runner.Run(ctx, h.sp, task, vars, e)
	if err != nil {
		resp.Err = fmt.Errorf("specialist %q: %w", name, err)
		return resp
	}

	resp.Result = result
	resp.Meta = meta
	resp.Success = true
	return resp
}

// handleFor returns the cached handle for a specialist, building it on first
// use. Failed constructions are not cached, so a later delegation retries
// resolution from scratch.
func (e *Engine) handleFor(name string) (*handle, error) {
	if h, ok := e.handles.Get(name); ok {
		return h, nil
	}

	sp, ok := e.loader(name)
	if !ok {
		return nil, fmt.Errorf("specialist not registered")
	}

	for _, action := range sp.Actions() {
		if err := e.catalog.Register(action); err != nil {
			return nil, fmt.Errorf("registering action %q: %w", action.Name, err)
		}
	}

	h, _ := e.handles.GetOrAdd(name, func() *handle {
		return &handle{sp: sp}
	})
	return h, nil
}
