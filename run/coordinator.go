// Package run implements the execution coordinator: the owner of every
// in-flight action's lifecycle. It consults the rule engine and the
// inspection pipeline, suspends actions that need human confirmation on
// one-shot tickets, invokes handlers, and keeps a bounded audit history.
//
// All lifecycle mutation goes through the coordinator's own API and happens
// under its single mutex; the two suspension points — the confirmation wait
// and the handler call — sit outside the lock, so any number of actions can
// be suspended concurrently, each independently resumable.
package run

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fogfish/opts"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/events"
	"github.com/wardenhq/warden/inspect"
	"github.com/wardenhq/warden/policy"
	"github.com/wardenhq/warden/tool"
)

// DefaultConfirmationTimeout bounds how long an action may wait on its
// confirmation ticket before the wait resolves as a denial.
const DefaultConfirmationTimeout = 300 * time.Second

// DefaultHistoryLimit is the default audit history capacity.
const DefaultHistoryLimit = 256

// Coordinator owns the lifecycle of every in-flight action. Construct one
// with New; the zero value is not usable.
type Coordinator struct {
	rules    *policy.RuleSet
	pipeline *inspect.Pipeline
	catalog  *tool.Catalog
	hook     events.Hook
	timeout  time.Duration
	limit    int
	clock    func() time.Time

	mu      sync.Mutex
	active  map[uuid.UUID]*record
	tickets map[uuid.UUID]*ticket
	history *history
}

// Option configures a Coordinator during construction.
type Option = opts.Option[Coordinator]

var (
	// WithRules sets the compiled rule set consulted for every request.
	WithRules = opts.ForName[Coordinator, *policy.RuleSet]("rules")
	// WithPipeline sets the inspection pipeline.
	WithPipeline = opts.ForName[Coordinator, *inspect.Pipeline]("pipeline")
	// WithCatalog sets the action catalog handlers are resolved from.
	WithCatalog = opts.ForName[Coordinator, *tool.Catalog]("catalog")
	// WithHook sets the event sink notified at every lifecycle stage.
	WithHook = opts.ForName[Coordinator, events.Hook]("hook")
	// WithConfirmationTimeout bounds the confirmation wait.
	WithConfirmationTimeout = opts.ForName[Coordinator, time.Duration]("timeout")
	// WithHistoryLimit caps the audit history.
	WithHistoryLimit = opts.ForName[Coordinator, int]("limit")
	// WithClock overrides the clock for deterministic tests.
	WithClock = opts.ForName[Coordinator, func() time.Time]("clock")
)

// New creates a Coordinator. A rule set and a catalog are required;
// everything else has defaults: an empty pipeline, the logging hook, a 300s
// confirmation timeout and a 256-entry history.
func New(options ...Option) (*Coordinator, error) {
	c := &Coordinator{
		timeout: DefaultConfirmationTimeout,
		limit:   DefaultHistoryLimit,
		clock:   time.Now,
		active:  make(map[uuid.UUID]*record),
		tickets: make(map[uuid.UUID]*ticket),
	}
	if err := opts.Apply(c, options); err != nil {
		return nil, err
	}

	var err error
	if c.rules == nil {
		err = errors.Join(err, errors.New("a rule set is required"))
	}
	if c.catalog == nil {
		err = errors.Join(err, errors.New("an action catalog is required"))
	}
	if c.timeout <= 0 {
		err = errors.Join(err, errors.New("confirmation timeout must be positive"))
	}
	if c.limit <= 0 {
		err = errors.Join(err, errors.New("history limit must be positive"))
	}
	if err != nil {
		return nil, err
	}

	if c.pipeline == nil {
		c.pipeline = inspect.NewPipeline()
	}
	if c.hook == nil {
		c.hook = events.LoggingHook()
	}
	c.history = newHistory(c.limit)
	return c, nil
}

// Execute drives one request through its whole lifecycle: policy decision,
// inspections, optional confirmation suspend, handler invocation, history.
// It blocks until the record reaches a terminal state and returns the final
// snapshot; the error classifies why a record did not succeed.
//
// Concurrent invocations are fully independent; any number may be suspended
// on their tickets at once.
func (c *Coordinator) Execute(ctx context.Context, req api.ActionRequest) (api.RecordSnapshot, error) {
	entry, ok := c.catalog.Get(req.Name)
	if !ok {
		return api.RecordSnapshot{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Name)
	}

	decision := c.rules.Evaluate(req)
	rec := newRecord(req, decision, c.clock())

	c.mu.Lock()
	c.active[rec.id] = rec
	snap := rec.snapshot()
	c.mu.Unlock()
	c.hook.OnStart(ctx, snap)

	if !decision.Allowed {
		return c.finish(ctx, rec, api.StateBlocked, "", fmt.Errorf("%w: %s", ErrPolicyBlocked, decision.Reason))
	}

	effective, _, err := c.pipeline.Run(ctx, decision.Inspections, req.Parameters, inspect.Context{
		Action:   req.Name,
		Decision: decision,
	})
	if err != nil {
		// A veto discards modifications applied before it; the record
		// keeps the original request parameters.
		return c.finish(ctx, rec, api.StateBlocked, "", err)
	}

	c.mu.Lock()
	rec.params = effective
	c.mu.Unlock()

	if decision.Supervision.RequiresConfirmation() {
		outcome, err := c.awaitConfirmation(ctx, rec, decision)
		if err != nil {
			return outcome, err
		}
	}

	c.mu.Lock()
	rec.advance(api.StateExecuting, c.clock())
	snap = rec.snapshot()
	c.mu.Unlock()
	c.hook.OnUpdate(ctx, snap)

	result, herr := entry.Handler(ctx, gjson.ParseBytes(effective))
	if herr != nil {
		return c.finish(ctx, rec, api.StateFailed, "", &HandlerError{Action: req.Name, Err: herr})
	}
	return c.finish(ctx, rec, api.StateSucceeded, result, nil)
}

// awaitConfirmation opens the record's one-shot ticket and suspends until it
// resolves. The returned error is nil only on approval; otherwise the record
// is already terminal and the returned snapshot is its final state.
func (c *Coordinator) awaitConfirmation(ctx context.Context, rec *record, decision api.Decision) (api.RecordSnapshot, error) {
	tkt := newTicket(rec.id)

	c.mu.Lock()
	c.tickets[rec.id] = tkt
	rec.advance(api.StateConfirming, c.clock())
	snap := rec.snapshot()
	c.mu.Unlock()
	c.hook.OnConfirmationRequired(ctx, snap, decision)

	approved, timedOut, err := tkt.await(ctx, c.timeout)

	c.mu.Lock()
	delete(c.tickets, rec.id)
	c.mu.Unlock()

	switch {
	case err != nil:
		snap, _ = c.finish(ctx, rec, api.StateCancelled, "", fmt.Errorf("confirmation wait aborted: %w", err))
		return snap, err
	case timedOut:
		c.mu.Lock()
		rec.timedOut = true
		c.mu.Unlock()
		return c.finish(ctx, rec, api.StateCancelled, "", ErrConfirmationTimeout)
	case !approved:
		return c.finish(ctx, rec, api.StateCancelled, "", ErrConfirmationDenied)
	default:
		c.mu.Lock()
		rec.confirmed = true
		c.mu.Unlock()
		return api.RecordSnapshot{}, nil
	}
}

// finish drives a record to its terminal state, moves it from the active map
// into history and emits the completion event.
func (c *Coordinator) finish(ctx context.Context, rec *record, state api.ExecutionState, result string, err error) (api.RecordSnapshot, error) {
	c.mu.Lock()
	rec.result = result
	rec.err = err
	rec.advance(state, c.clock())
	delete(c.active, rec.id)
	snap := rec.snapshot()
	c.history.add(snap)
	c.mu.Unlock()

	c.hook.OnComplete(ctx, snap)
	return snap, err
}

// Confirm approves the confirmation ticket for the given invocation.
// Idempotent after the first effective resolution: confirming an already
// resolved or already finished invocation changes nothing and returns nil.
// Only an id the coordinator has never seen yields ErrNoTicket.
func (c *Coordinator) Confirm(id uuid.UUID) error {
	return c.resolveTicket(id, true)
}

// Deny rejects the confirmation ticket for the given invocation. Same
// idempotency contract as Confirm.
func (c *Coordinator) Deny(id uuid.UUID) error {
	return c.resolveTicket(id, false)
}

func (c *Coordinator) resolveTicket(id uuid.UUID, approved bool) error {
	c.mu.Lock()
	tkt, ok := c.tickets[id]
	if !ok {
		// No live ticket: tolerate duplicate UI events for any
		// invocation we know about, past or present.
		_, isActive := c.active[id]
		known := isActive || c.history.contains(id)
		c.mu.Unlock()
		if known {
			return nil
		}
		return fmt.Errorf("%w for invocation %s", ErrNoTicket, id)
	}
	c.mu.Unlock()

	tkt.resolve(approved)
	return nil
}

// Active returns snapshots of every in-flight record, ordered by creation.
func (c *Coordinator) Active() []api.RecordSnapshot {
	c.mu.Lock()
	out := make([]api.RecordSnapshot, 0, len(c.active))
	for _, rec := range c.active {
		out = append(out, rec.snapshot())
	}
	c.mu.Unlock()

	// Invocation ids are time-ordered (v7), so sorting by id sorts by
	// creation.
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// History returns up to limit terminal snapshots, newest first. A
// non-positive limit returns the full retained history.
func (c *Coordinator) History(limit int) []api.RecordSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.list(limit)
}

// FilterByState returns snapshots of every known record in the given state,
// searching both the active set and the retained history.
func (c *Coordinator) FilterByState(state api.ExecutionState) []api.RecordSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []api.RecordSnapshot
	if state.Terminal() {
		return c.history.byState(state)
	}
	for _, rec := range c.active {
		if rec.state == state {
			out = append(out, rec.snapshot())
		}
	}
	return out
}
