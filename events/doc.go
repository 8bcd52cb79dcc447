// Package events defines the lifecycle events the execution coordinator
// emits and the Hook interface sinks implement to observe them.
//
// Design decisions:
//   - All Hook methods must be implemented: when new lifecycle stages are
//     added, every sink has to make an explicit decision about them. No
//     no-op implementation is provided on purpose.
//   - Snapshots only: events carry immutable record snapshots, never the
//     coordinator's live records.
//   - Wire-friendly: every event serializes to JSON with a type marker so
//     sinks can be remoted over a broker.
//
// Event hierarchy:
//   - Event: base interface for serializable lifecycle events
//     ├── Started: a record entered the active set
//     ├── Updated: a record advanced to a non-terminal state
//     ├── ConfirmationRequested: a record is suspended awaiting approval
//     ├── Completed: a record reached a terminal state
//     └── Failure: an engine-level error with its invocation context
//
// The UI collaborator that receives OnConfirmationRequired must eventually
// resolve the ticket by calling Confirm or Deny on the engine, exactly once;
// duplicate resolutions are tolerated and ignored.
package events
