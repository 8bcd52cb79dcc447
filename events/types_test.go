package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/pkg/uuidx"
)

func sampleSnapshot() api.RecordSnapshot {
	return api.RecordSnapshot{
		ID:      uuidx.New(),
		Request: api.ActionRequest{Name: "delete_file"},
		Decision: api.Decision{
			Allowed:     true,
			Supervision: api.SupervisionConfirm,
			Risk:        api.RiskHigh,
			Reason:      "destructive",
		},
		State: api.StateConfirming,
	}
}

func TestStartedJSON(t *testing.T) {
	record := sampleSnapshot()
	event := Started{Record: record, Timestamp: Now()}

	data, err := ToJSON(event)
	require.NoError(t, err)

	result := gjson.ParseBytes(data)
	assert.Equal(t, "started", result.Get("type").String())
	assert.Equal(t, record.ID.String(), result.Get("payload.record.id").String())
	assert.Equal(t, "delete_file", result.Get("payload.record.request.name").String())
	assert.True(t, result.Get("payload.timestamp").Exists())

	restored, err := FromJSON(data)
	require.NoError(t, err)
	started, ok := restored.(Started)
	require.True(t, ok, "expected Started, got %T", restored)
	assert.Equal(t, record.ID, started.InvocationID())
	assert.Equal(t, record.Request.Name, started.Record.Request.Name)
}

func TestConfirmationRequestedJSON(t *testing.T) {
	record := sampleSnapshot()
	event := ConfirmationRequested{
		Record:    record,
		Decision:  record.Decision,
		ExpiresAt: Now(),
		Timestamp: Now(),
	}

	data, err := ToJSON(event)
	require.NoError(t, err)

	result := gjson.ParseBytes(data)
	assert.Equal(t, "confirmation_requested", result.Get("type").String())
	assert.Equal(t, "confirm", result.Get("payload.decision.supervision").String())
	assert.Equal(t, "high", result.Get("payload.decision.risk").String())
	assert.True(t, result.Get("payload.expires_at").Exists())

	restored, err := FromJSON(data)
	require.NoError(t, err)
	cr, ok := restored.(ConfirmationRequested)
	require.True(t, ok, "expected ConfirmationRequested, got %T", restored)
	assert.Equal(t, record.ID, cr.InvocationID())
	assert.Equal(t, api.SupervisionConfirm, cr.Decision.Supervision)
}

func TestFailureJSON(t *testing.T) {
	id := uuidx.New()
	event := Failure{
		ID:        id,
		Message:   "handler exploded",
		Timestamp: Now(),
		Err:       errors.New("handler exploded"),
	}

	data, err := ToJSON(event)
	require.NoError(t, err)

	result := gjson.ParseBytes(data)
	assert.Equal(t, "failure", result.Get("type").String())
	assert.Equal(t, "handler exploded", result.Get("payload.message").String())
	// The wrapped error never travels on the wire.
	assert.False(t, result.Get("payload.err").Exists())

	restored, err := FromJSON(data)
	require.NoError(t, err)
	failure, ok := restored.(Failure)
	require.True(t, ok, "expected Failure, got %T", restored)
	assert.Equal(t, id, failure.InvocationID())
	assert.EqualError(t, failure, "handler exploded")
}

func TestFailureAsError(t *testing.T) {
	underlying := errors.New("root cause")
	failure := Failure{ID: uuidx.New(), Message: "wrapped", Err: underlying}

	assert.EqualError(t, failure, "root cause")
	assert.ErrorIs(t, failure, underlying)

	// Without an underlying error the message carries the text.
	assert.EqualError(t, Failure{Message: "bare"}, "bare")
}

func TestFromJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", "not json"},
		{"missing type", `{"payload":{}}`},
		{"unknown type", `{"type":"mystery","payload":{}}`},
		{"missing payload", `{"type":"started"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := FromJSON([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, event)
		})
	}
}

func TestEventRoundTripAllKinds(t *testing.T) {
	record := sampleSnapshot()
	events := []Event{
		Started{Record: record, Timestamp: Now()},
		Updated{Record: record, Timestamp: Now()},
		ConfirmationRequested{Record: record, Decision: record.Decision, ExpiresAt: Now(), Timestamp: Now()},
		Completed{Record: record, Timestamp: Now()},
		Failure{ID: record.ID, Message: "boom", Timestamp: Now()},
	}

	for _, event := range events {
		data, err := ToJSON(event)
		require.NoError(t, err)

		restored, err := FromJSON(data)
		require.NoError(t, err)
		assert.IsType(t, event, restored)
		assert.Equal(t, record.ID, restored.InvocationID())
	}
}
