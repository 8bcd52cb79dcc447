package broker

import (
	"context"
	"log/slog"

	"github.com/wardenhq/warden/api"
	"github.com/wardenhq/warden/events"
	"github.com/wardenhq/warden/pkg/slogx"
)

// PublishHook adapts a topic into an events.Hook: every lifecycle callback
// is published as its wire event, so remote subscribers observe the same
// stream an in-process hook would. Publish failures are logged, never
// surfaced; event distribution must not interfere with execution.
func PublishHook(topic Topic) events.Hook {
	return publishHook{topic: topic}
}

type publishHook struct {
	topic Topic
}

func (h publishHook) publish(ctx context.Context, event events.Event) {
	if err := h.topic.Publish(ctx, event); err != nil {
		slog.Error("failed to publish lifecycle event", slogx.Error(err))
	}
}

func (h publishHook) OnStart(ctx context.Context, record api.RecordSnapshot) {
	h.publish(ctx, events.Started{Record: record, Timestamp: events.Now()})
}

func (h publishHook) OnUpdate(ctx context.Context, record api.RecordSnapshot) {
	h.publish(ctx, events.Updated{Record: record, Timestamp: events.Now()})
}

// OnConfirmationRequired publishes the suspension. The hook does not know
// the coordinator's timeout, so ExpiresAt stays unset; subscribers that need
// the deadline derive it from their own configuration.
func (h publishHook) OnConfirmationRequired(ctx context.Context, record api.RecordSnapshot, decision api.Decision) {
	h.publish(ctx, events.ConfirmationRequested{
		Record:    record,
		Decision:  decision,
		Timestamp: events.Now(),
	})
}

func (h publishHook) OnComplete(ctx context.Context, record api.RecordSnapshot) {
	h.publish(ctx, events.Completed{Record: record, Timestamp: events.Now()})
}

func (h publishHook) OnError(ctx context.Context, err error) {
	h.publish(ctx, events.Failure{Message: err.Error(), Timestamp: events.Now(), Err: err})
}
