package events

import (
	"fmt"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/wardenhq/warden/api"
)

// Event is a serializable lifecycle event. The concrete types below are the
// only implementations.
type Event interface {
	// InvocationID identifies the execution record the event belongs to.
	InvocationID() uuid.UUID
	event()
}

// Started signals that a record was created and entered the active set.
type Started struct {
	Record    api.RecordSnapshot `json:"record"`
	Timestamp strfmt.DateTime    `json:"timestamp"`
}

// Updated signals that a record advanced to a new non-terminal state.
type Updated struct {
	Record    api.RecordSnapshot `json:"record"`
	Timestamp strfmt.DateTime    `json:"timestamp"`
}

// ConfirmationRequested signals that a record is suspended on its
// confirmation ticket. ExpiresAt is the deadline after which the wait
// resolves as a timeout.
type ConfirmationRequested struct {
	Record    api.RecordSnapshot `json:"record"`
	Decision  api.Decision       `json:"decision"`
	ExpiresAt strfmt.DateTime    `json:"expires_at"`
	Timestamp strfmt.DateTime    `json:"timestamp"`
}

// Completed signals that a record reached a terminal state and moved from
// the active set into history.
type Completed struct {
	Record    api.RecordSnapshot `json:"record"`
	Timestamp strfmt.DateTime    `json:"timestamp"`
}

// Failure carries an engine-level error together with the invocation it
// belongs to. The error is preserved as text on the wire.
type Failure struct {
	ID        uuid.UUID       `json:"invocation_id"`
	Message   string          `json:"message"`
	Timestamp strfmt.DateTime `json:"timestamp"`
	Err       error           `json:"-"`
}

func (e Started) InvocationID() uuid.UUID               { return e.Record.ID }
func (e Updated) InvocationID() uuid.UUID               { return e.Record.ID }
func (e ConfirmationRequested) InvocationID() uuid.UUID { return e.Record.ID }
func (e Completed) InvocationID() uuid.UUID             { return e.Record.ID }
func (e Failure) InvocationID() uuid.UUID               { return e.ID }

func (Started) event()               {}
func (Updated) event()               {}
func (ConfirmationRequested) event() {}
func (Completed) event()             {}
func (Failure) event()               {}

// Error implements the error interface so a Failure can travel as either.
func (e Failure) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e Failure) Unwrap() error { return e.Err }

// Now returns the current time as a wire timestamp.
func Now() strfmt.DateTime {
	return strfmt.DateTime(time.Now().UTC())
}

const (
	typeStarted               = "started"
	typeUpdated               = "updated"
	typeConfirmationRequested = "confirmation_requested"
	typeCompleted             = "completed"
	typeFailure               = "failure"
)

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func typeName(event Event) (string, error) {
	switch event.(type) {
	case Started:
		return typeStarted, nil
	case Updated:
		return typeUpdated, nil
	case ConfirmationRequested:
		return typeConfirmationRequested, nil
	case Completed:
		return typeCompleted, nil
	case Failure:
		return typeFailure, nil
	default:
		return "", fmt.Errorf("unknown event type %T", event)
	}
}

// ToJSON serializes an event with its type marker so FromJSON can restore
// the concrete type.
func ToJSON(event Event) ([]byte, error) {
	name, err := typeName(event)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{Type: name, Payload: payload})
}

// FromJSON restores an event serialized by ToJSON.
func FromJSON(data []byte) (Event, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid event JSON")
	}
	kind := gjson.GetBytes(data, "type")
	if !kind.Exists() {
		return nil, fmt.Errorf("event JSON has no type marker")
	}
	payload := []byte(gjson.GetBytes(data, "payload").Raw)
	if len(payload) == 0 {
		return nil, fmt.Errorf("event JSON has no payload")
	}

	var (
		event Event
		err   error
	)
	switch kind.String() {
	case typeStarted:
		var e Started
		err = json.Unmarshal(payload, &e)
		event = e
	case typeUpdated:
		var e Updated
		err = json.Unmarshal(payload, &e)
		event = e
	case typeConfirmationRequested:
		var e ConfirmationRequested
		err = json.Unmarshal(payload, &e)
		event = e
	case typeCompleted:
		var e Completed
		err = json.Unmarshal(payload, &e)
		event = e
	case typeFailure:
		var e Failure
		err = json.Unmarshal(payload, &e)
		event = e
	default:
		return nil, fmt.Errorf("unknown event type %q", kind.String())
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}
