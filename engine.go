package warden

import (
	"context"
	"time"

	"github.com/fogfish/opts"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/events"
	"github.com/wardenhq/warden/inspect"
	"github.com/wardenhq/warden/internal/registry"
	"github.com/wardenhq/warden/policy"
	"github.com/wardenhq/warden/run"
	"github.com/wardenhq/warden/specialist"
	"github.com/wardenhq/warden/tool"
)

// Loader resolves a specialist by name. The default loader consults the
// global specialist registry.
type Loader func(name string) (api.Specialist, bool)

// Engine is the public façade: one supervised dispatch surface plus a
// delegation surface for handing whole sub-tasks to specialists. Construct
// with New; an Engine is safe for concurrent use.
type Engine struct {
	rules    *policy.RuleSet
	pipeline *inspect.Pipeline
	catalog  *tool.Catalog
	hook     events.Hook
	timeout  time.Duration
	limit    int
	clock    func() time.Time
	loader   Loader

	coordinator *run.Coordinator
	handles     registry.Registry[*handle]
}

// Option configures an Engine during construction.
type Option = opts.Option[Engine]

var (
	// WithRules sets the rule set consulted for every dispatched action.
	WithRules = opts.ForName[Engine, *policy.RuleSet]("rules")
	// WithPipeline sets the inspection pipeline.
	WithPipeline = opts.ForName[Engine, *inspect.Pipeline]("pipeline")
	// WithCatalog sets the action catalog.
	WithCatalog = opts.ForName[Engine, *tool.Catalog]("catalog")
	// WithHook sets the lifecycle event sink.
	WithHook = opts.ForName[Engine, events.Hook]("hook")
	// WithConfirmationTimeout bounds the confirmation wait.
	WithConfirmationTimeout = opts.ForName[Engine, time.Duration]("timeout")
	// WithHistoryLimit caps the audit history.
	WithHistoryLimit = opts.ForName[Engine, int]("limit")
	// WithClock overrides the clock for deterministic tests.
	WithClock = opts.ForName[Engine, func() time.Time]("clock")
	// WithLoader overrides how specialists are resolved by name.
	WithLoader = opts.ForName[Engine, Loader]("loader")
)

// New creates an Engine. A rule set and a catalog are required; every other
// option has a default.
func New(options ...Option) (*Engine, error) {
	e := &Engine{
		timeout: run.DefaultConfirmationTimeout,
		limit:   run.DefaultHistoryLimit,
		clock:   time.Now,
		loader:  specialist.Get,
		handles: registry.New[*handle](),
	}
	if err := opts.Apply(e, options); err != nil {
		return nil, err
	}

	coordinator, err := run.New(
		run.WithRules(e.rules),
		run.WithPipeline(e.pipeline),
		run.WithCatalog(e.catalog),
		run.WithHook(e.hook),
		run.WithConfirmationTimeout(e.timeout),
		run.WithHistoryLimit(e.limit),
		run.WithClock(e.clock),
	)
	if err != nil {
		return nil, err
	}
	e.coordinator = coordinator
	return e, nil
}

// Dispatch drives one action through the full supervision lifecycle and
// blocks until it reaches a terminal state. The returned snapshot is the
// final audit record; the error classifies any non-success.
func (e *Engine) Dispatch(ctx context.Context, name string, parameters []byte) (api.RecordSnapshot, error) {
	return e.coordinator.Execute(ctx, api.NewActionRequest(name, parameters))
}

// Invoke implements api.Invoker so that every action a specialist's runner
// takes re-enters the supervision machinery.
func (e *Engine) Invoke(ctx context.Context, name string, parameters []byte) (string, error) {
	snap, err := e.Dispatch(ctx, name, parameters)
	if err != nil {
		return "", err
	}
	return snap.Result, nil
}

// Confirm approves the pending confirmation for the given invocation.
func (e *Engine) Confirm(id uuid.UUID) error {
	return e.coordinator.Confirm(id)
}

// Deny rejects the pending confirmation for the given invocation.
func (e *Engine) Deny(id uuid.UUID) error {
	return e.coordinator.Deny(id)
}

// Active returns snapshots of every in-flight invocation.
func (e *Engine) Active() []api.RecordSnapshot {
	return e.coordinator.Active()
}

// History returns up to limit terminal snapshots, newest first.
func (e *Engine) History(limit int) []api.RecordSnapshot {
	return e.coordinator.History(limit)
}

// FilterByState returns every known record in the given state.
func (e *Engine) FilterByState(state api.ExecutionState) []api.RecordSnapshot {
	return e.coordinator.FilterByState(state)
}

var _ api.Invoker = (*Engine)(nil)
