package run

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/wardenhq/warden/api"
)

// record is the live lifecycle object tracking one action from request to
// terminal state. The coordinator owns it exclusively; everything outside
// the coordinator only ever sees snapshots.
type record struct {
	id          uuid.UUID
	request     api.ActionRequest
	decision    api.Decision
	state       api.ExecutionState
	params      json.RawMessage
	createdAt   time.Time
	startedAt   time.Time
	completedAt time.Time
	result      string
	err         error
	confirmed   bool
	timedOut    bool
}

func newRecord(req api.ActionRequest, decision api.Decision, now time.Time) *record {
	return &record{
		id:        req.InvocationID,
		request:   req,
		decision:  decision,
		state:     api.StatePending,
		params:    req.Parameters,
		createdAt: now,
	}
}

// advance moves the record to the given state. States only move forward:
// once a record is terminal it never changes again, so a stray late
// transition is silently dropped instead of corrupting the audit trail.
func (r *record) advance(state api.ExecutionState, now time.Time) {
	if r.state.Terminal() {
		return
	}
	r.state = state
	switch {
	case state == api.StateExecuting:
		r.startedAt = now
	case state.Terminal():
		r.completedAt = now
	}
}

func (r *record) snapshot() api.RecordSnapshot {
	snap := api.RecordSnapshot{
		ID:          r.id,
		Request:     r.request,
		Decision:    r.decision,
		State:       r.state,
		Params:      r.params,
		CreatedAt:   r.createdAt,
		StartedAt:   r.startedAt,
		CompletedAt: r.completedAt,
		Result:      r.result,
		Confirmed:   r.confirmed,
		TimedOut:    r.timedOut,
	}
	if r.err != nil {
		snap.Err = r.err.Error()
	}
	return snap
}
