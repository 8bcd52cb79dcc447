package events

import (
	"context"
	"log/slog"
	"slices"

	"github.com/goccy/go-json"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/pkg/slogx"
)

// Hook is the event sink the coordinator notifies at every lifecycle stage.
//
// All methods must be implemented; there is deliberately no no-op
// implementation, so that adding a lifecycle stage forces every sink to
// decide how to handle it. Use CompositeHook to combine sinks.
//
// The sink receiving OnConfirmationRequired is responsible for eventually
// calling Confirm or Deny on the engine with the record's invocation id,
// exactly once. Late or duplicate resolutions are safe: the first effective
// call wins and the rest are ignored.
type Hook interface {
	// OnStart fires when a record is created, before any inspection.
	OnStart(context.Context, api.RecordSnapshot)

	// OnUpdate fires when a record advances to a non-terminal state.
	OnUpdate(context.Context, api.RecordSnapshot)

	// OnConfirmationRequired fires when a record suspends on its ticket.
	OnConfirmationRequired(context.Context, api.RecordSnapshot, api.Decision)

	// OnComplete fires when a record reaches a terminal state.
	OnComplete(context.Context, api.RecordSnapshot)

	// OnError fires for engine-level failures that have no record to
	// carry them, such as event codec errors in remote sinks.
	OnError(context.Context, error)
}

// LoggingHook returns a sink that writes every event to slog. Useful as a
// default sink and as the audit tail in tests.
func LoggingHook() Hook {
	return loggingHook{}
}

type loggingHook struct{}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}

func (loggingHook) OnStart(ctx context.Context, record api.RecordSnapshot) {
	slog.InfoContext(ctx, "execution started", "record", mustJSON(record))
}

func (loggingHook) OnUpdate(ctx context.Context, record api.RecordSnapshot) {
	slog.InfoContext(ctx, "execution updated", "record", mustJSON(record))
}

func (loggingHook) OnConfirmationRequired(ctx context.Context, record api.RecordSnapshot, decision api.Decision) {
	slog.WarnContext(ctx, "confirmation required",
		"record", mustJSON(record),
		"reason", decision.Reason,
		"risk", string(decision.Risk),
	)
}

func (loggingHook) OnComplete(ctx context.Context, record api.RecordSnapshot) {
	slog.InfoContext(ctx, "execution completed", "record", mustJSON(record))
}

func (loggingHook) OnError(ctx context.Context, err error) {
	slog.ErrorContext(ctx, "engine error", slogx.Error(err))
}

// NewCompositeHook combines multiple sinks into one; events fan out to every
// member in order.
func NewCompositeHook(hooks ...Hook) Hook {
	return CompositeHook(hooks)
}

// CompositeHook fans events out to each member hook in order.
type CompositeHook []Hook

func (c CompositeHook) OnStart(ctx context.Context, record api.RecordSnapshot) {
	for h := range slices.Values(c) {
		h.OnStart(ctx, record)
	}
}

func (c CompositeHook) OnUpdate(ctx context.Context, record api.RecordSnapshot) {
	for h := range slices.Values(c) {
		h.OnUpdate(ctx, record)
	}
}

func (c CompositeHook) OnConfirmationRequired(ctx context.Context, record api.RecordSnapshot, decision api.Decision) {
	for h := range slices.Values(c) {
		h.OnConfirmationRequired(ctx, record, decision)
	}
}

func (c CompositeHook) OnComplete(ctx context.Context, record api.RecordSnapshot) {
	for h := range slices.Values(c) {
		h.OnComplete(ctx, record)
	}
}

func (c CompositeHook) OnError(ctx context.Context, err error) {
	for h := range slices.Values(c) {
		h.OnError(ctx, err)
	}
}
