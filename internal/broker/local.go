package broker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alphadose/haxmap"

	"github.com/wardenhq/warden/events"
	"github.com/wardenhq/warden/pkg/uuidx"
)

const defaultSlowSubscriberTimeout = 100 * time.Millisecond

type localBroker struct {
	topics                *haxmap.Map[string, *topic]
	slowSubscriberTimeout time.Duration
}

func Local() Broker {
	return &localBroker{
		topics:                haxmap.New[string, *topic](),
		slowSubscriberTimeout: defaultSlowSubscriberTimeout,
	}
}

// WithSlowSubscriberTimeout configures the timeout for detecting slow subscribers
func (b *localBroker) WithSlowSubscriberTimeout(timeout time.Duration) *localBroker {
	b.slowSubscriberTimeout = timeout
	return b
}

func (b *localBroker) Topic(ctx context.Context, id string) Topic {
	topic, _ := b.topics.GetOrCompute(id, func() *topic {
		return &topic{
			ID:                    id,
			subscriptions:         haxmap.New[string, *subscription](),
			slowSubscriberTimeout: b.slowSubscriberTimeout,
		}
	})
	return topic
}

type topic struct {
	ID                    string
	subscriptions         *haxmap.Map[string, *subscription]
	slowSubscriberTimeout time.Duration
}

func (t *topic) Publish(ctx context.Context, event events.Event) error {
	t.subscriptions.ForEach(func(id string, sub *subscription) bool {
		if sub == nil {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
			return true
		default:
		}

		select {
		case <-ctx.Done():
			return false
		case <-sub.ctx.Done():
			sub.Unsubscribe()
		case sub.channel <- event:
		case <-time.After(t.slowSubscriberTimeout):
			// Channel is full after timeout, unsubscribe
			sub.Unsubscribe()
		}
		return true
	})
	return nil
}

func (t *topic) Subscribe(ctx context.Context, hook events.Hook) (Subscription, error) {
	if hook == nil {
		return nil, fmt.Errorf("hook is required")
	}
	sub := t.newSubscription(ctx, hook)
	return sub, nil
}

func (t *topic) newSubscription(ctx context.Context, hook events.Hook) *subscription {
	id := uuidx.NewString()
	sub := &subscription{
		id:        id,
		ctx:       ctx,
		channel:   make(chan events.Event, 50),
		closeOnce: sync.Once{},
		onClose:   func() { t.subscriptions.Del(id) },
		hook:      hook,
	}
	t.subscriptions.Set(id, sub)
	go sub.forwardToHook()
	return sub
}

type subscription struct {
	id        string
	ctx       context.Context
	channel   chan events.Event
	closeOnce sync.Once
	onClose   func()
	hook      events.Hook
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		if s.onClose != nil {
			s.onClose()
		}
		close(s.channel)
	})
}

func (s *subscription) forwardToHook() {
	for {
		select {
		case event, ok := <-s.channel:
			if !ok {
				return
			}
			dispatch(s.ctx, event, s.hook)
		case <-s.ctx.Done():
			return
		}
	}
}

// dispatch translates a wire event back into the hook callback it encodes.
func dispatch(ctx context.Context, event events.Event, hook events.Hook) {
	switch event := event.(type) {
	case events.Started:
		hook.OnStart(ctx, event.Record)
	case events.Updated:
		hook.OnUpdate(ctx, event.Record)
	case events.ConfirmationRequested:
		hook.OnConfirmationRequired(ctx, event.Record, event.Decision)
	case events.Completed:
		hook.OnComplete(ctx, event.Record)
	case events.Failure:
		hook.OnError(ctx, event)
	default:
		panic(fmt.Sprintf("unknown event type: %T", event))
	}
}
