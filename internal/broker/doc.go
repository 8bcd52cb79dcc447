// Package broker implements a pub/sub fan-out for execution lifecycle
// events, so that approval surfaces and audit sinks outside the engine
// process can observe records and react to confirmation requests.
//
// Design decisions:
//   - Context-first: all operations accept context.Context for cancellation
//   - Topic-based: events are distributed through named topics
//   - Hook integration: subscribers are events.Hook implementations; the
//     broker translates wire events back into hook callbacks
//   - Subscription management: explicit lifecycle with unique IDs
//   - Thread safety: safe for concurrent publishing and subscribing
//
// Two implementations exist: Local (in-process, for single-binary setups)
// and NATS (for remote approval UIs). Both serialize through events.ToJSON
// semantics, so a record observed remotely is byte-identical to one observed
// in process.
//
// Example usage:
//
//	broker := broker.Local()
//	topic := broker.Topic(ctx, "warden.lifecycle")
//
//	sub, err := topic.Subscribe(ctx, approvalUI)
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
//	if err := topic.Publish(ctx, events.Started{Record: snap, Timestamp: events.Now()}); err != nil {
//	    return err
//	}
package broker
