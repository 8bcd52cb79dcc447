package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/pkg/uuidx"
)

// Supervision expresses how much human oversight an action requires before
// it may execute. Levels are ordered from least to most restrictive;
// SupervisionDeny forbids execution outright.
type Supervision string

const (
	SupervisionAutomatic Supervision = "automatic"
	SupervisionNotify    Supervision = "notify"
	SupervisionConfirm   Supervision = "confirm"
	SupervisionManual    Supervision = "manual"
	SupervisionDeny      Supervision = "deny"
)

// RequiresConfirmation reports whether the level gates execution on an
// explicit approve/deny signal from outside the engine.
func (s Supervision) RequiresConfirmation() bool {
	return s == SupervisionConfirm || s == SupervisionManual
}

// Valid reports whether s is one of the known supervision levels.
func (s Supervision) Valid() bool {
	switch s {
	case SupervisionAutomatic, SupervisionNotify, SupervisionConfirm, SupervisionManual, SupervisionDeny:
		return true
	default:
		return false
	}
}

// Risk classifies the potential impact of an action, independent of the
// supervision level policy assigns to it.
type Risk string

const (
	RiskNone     Risk = "none"
	RiskLow      Risk = "low"
	RiskMedium   Risk = "medium"
	RiskHigh     Risk = "high"
	RiskCritical Risk = "critical"
)

var riskRank = map[Risk]int{
	RiskNone:     0,
	RiskLow:      1,
	RiskMedium:   2,
	RiskHigh:     3,
	RiskCritical: 4,
}

// Rank returns the ordinal position of the risk level, usable for
// comparisons. Unknown levels rank below RiskNone.
func (r Risk) Rank() int {
	if rank, ok := riskRank[r]; ok {
		return rank
	}
	return -1
}

// Valid reports whether r is one of the known risk levels.
func (r Risk) Valid() bool {
	return r.Rank() >= 0
}

// ActionRequest describes one action an upstream orchestrator wants to run.
// It is immutable once dispatched: the coordinator never rewrites the
// request, inspector modifications are tracked separately.
type ActionRequest struct {
	// Name identifies the action in the catalog, e.g. "write_file".
	Name string `json:"name"`
	// Parameters is the raw JSON argument document for the handler.
	Parameters json.RawMessage `json:"parameters,omitempty"`
	// InvocationID uniquely identifies this invocation across its
	// whole lifecycle, including confirmation round-trips.
	InvocationID uuid.UUID `json:"invocation_id"`
}

// NewActionRequest builds an ActionRequest with a fresh v7 invocation id.
func NewActionRequest(name string, parameters []byte) ActionRequest {
	return ActionRequest{
		Name:         name,
		Parameters:   parameters,
		InvocationID: uuidx.New(),
	}
}

// Decision is the rule engine's verdict for a single request. One is
// produced per request and never mutated afterwards.
type Decision struct {
	// Allowed is false when policy forbids the action outright; the
	// handler is never invoked for a disallowed request.
	Allowed bool `json:"allowed"`
	// Supervision is the required oversight level for the request.
	Supervision Supervision `json:"supervision"`
	// Risk is the severity classification of the action's impact.
	Risk Risk `json:"risk"`
	// Reason explains which rule and overlay produced the verdict.
	Reason string `json:"reason,omitempty"`
	// Inspections names the inspectors that must pass before execution,
	// in the order they will run.
	Inspections []string `json:"inspections,omitempty"`
}

// ExecutionState is the lifecycle state of an execution record. States only
// advance, they never revert.
type ExecutionState string

const (
	StatePending    ExecutionState = "pending"
	StateConfirming ExecutionState = "confirming"
	StateExecuting  ExecutionState = "executing"
	StateSucceeded  ExecutionState = "succeeded"
	StateFailed     ExecutionState = "failed"
	StateCancelled  ExecutionState = "cancelled"
	StateBlocked    ExecutionState = "blocked"
)

// Terminal reports whether the state ends the record's lifecycle.
func (s ExecutionState) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateCancelled, StateBlocked:
		return true
	default:
		return false
	}
}

// RecordSnapshot is an immutable copy of an execution record, safe to hand
// to event sinks and audit queries. The coordinator owns the live record;
// consumers only ever see snapshots.
type RecordSnapshot struct {
	ID       uuid.UUID      `json:"id"`
	Request  ActionRequest  `json:"request"`
	Decision Decision       `json:"decision"`
	State    ExecutionState `json:"state"`
	// Params is the effective parameter document after inspector
	// modifications. Equal to Request.Parameters when nothing rewrote it.
	Params      json.RawMessage `json:"params,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	StartedAt   time.Time       `json:"started_at,omitempty"`
	CompletedAt time.Time       `json:"completed_at,omitempty"`
	Result      string          `json:"result,omitempty"`
	Err         string          `json:"error,omitempty"`
	// Confirmed is true once an approver explicitly allowed execution.
	Confirmed bool `json:"confirmed"`
	// TimedOut distinguishes a confirmation timeout from an explicit
	// denial; the two are otherwise observably identical.
	TimedOut bool `json:"timed_out"`
}
