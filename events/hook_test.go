package events

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/pkg/uuidx"
)

type mockHook struct {
	startCalled        bool
	updateCalled       bool
	confirmationCalled bool
	completeCalled     bool
	errorCalled        bool

	lastRecord   api.RecordSnapshot
	lastDecision api.Decision
	lastError    error
}

func (m *mockHook) OnStart(_ context.Context, record api.RecordSnapshot) {
	m.startCalled = true
	m.lastRecord = record
}

func (m *mockHook) OnUpdate(_ context.Context, record api.RecordSnapshot) {
	m.updateCalled = true
	m.lastRecord = record
}

func (m *mockHook) OnConfirmationRequired(_ context.Context, record api.RecordSnapshot, decision api.Decision) {
	m.confirmationCalled = true
	m.lastRecord = record
	m.lastDecision = decision
}

func (m *mockHook) OnComplete(_ context.Context, record api.RecordSnapshot) {
	m.completeCalled = true
	m.lastRecord = record
}

func (m *mockHook) OnError(_ context.Context, err error) {
	m.errorCalled = true
	m.lastError = err
}

func TestCompositeHook(t *testing.T) {
	mock1 := &mockHook{}
	mock2 := &mockHook{}
	composite := NewCompositeHook(mock1, mock2)
	ctx := context.Background()

	record := api.RecordSnapshot{
		ID:      uuidx.New(),
		Request: api.ActionRequest{Name: "write_file"},
		State:   api.StatePending,
	}

	t.Run("OnStart", func(t *testing.T) {
		composite.OnStart(ctx, record)
		assert.True(t, mock1.startCalled)
		assert.True(t, mock2.startCalled)
		assert.Equal(t, record, mock1.lastRecord)
		assert.Equal(t, record, mock2.lastRecord)
	})

	t.Run("OnUpdate", func(t *testing.T) {
		composite.OnUpdate(ctx, record)
		assert.True(t, mock1.updateCalled)
		assert.True(t, mock2.updateCalled)
	})

	t.Run("OnConfirmationRequired", func(t *testing.T) {
		decision := api.Decision{Allowed: true, Supervision: api.SupervisionConfirm, Risk: api.RiskHigh}
		composite.OnConfirmationRequired(ctx, record, decision)
		assert.True(t, mock1.confirmationCalled)
		assert.True(t, mock2.confirmationCalled)
		assert.Equal(t, decision, mock1.lastDecision)
		assert.Equal(t, decision, mock2.lastDecision)
	})

	t.Run("OnComplete", func(t *testing.T) {
		composite.OnComplete(ctx, record)
		assert.True(t, mock1.completeCalled)
		assert.True(t, mock2.completeCalled)
	})

	t.Run("OnError", func(t *testing.T) {
		err := fmt.Errorf("test error")
		composite.OnError(ctx, err)
		assert.True(t, mock1.errorCalled)
		assert.True(t, mock2.errorCalled)
		assert.Equal(t, err, mock1.lastError)
		assert.Equal(t, err, mock2.lastError)
	})
}

func TestEmptyCompositeHook(t *testing.T) {
	composite := NewCompositeHook()
	ctx := context.Background()

	require.NotPanics(t, func() {
		composite.OnStart(ctx, api.RecordSnapshot{})
		composite.OnError(ctx, fmt.Errorf("ignored"))
	})
}

func TestLoggingHookDoesNotPanic(t *testing.T) {
	hook := LoggingHook()
	ctx := context.Background()

	record := api.RecordSnapshot{
		ID:      uuidx.New(),
		Request: api.ActionRequest{Name: "read_file", Parameters: []byte(`{"path":"/tmp/x"}`)},
		State:   api.StateSucceeded,
	}

	require.NotPanics(t, func() {
		hook.OnStart(ctx, record)
		hook.OnUpdate(ctx, record)
		hook.OnConfirmationRequired(ctx, record, api.Decision{Supervision: api.SupervisionConfirm})
		hook.OnComplete(ctx, record)
		hook.OnError(ctx, fmt.Errorf("test error"))
	})
}

func TestMustJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, mustJSON(map[string]int{"a": 1}))
	assert.Panics(t, func() {
		mustJSON(make(chan int))
	})
}
