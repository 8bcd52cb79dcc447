package run

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ticket is the one-shot synchronization slot gating an action on an
// external approve/deny signal. At most one exists per invocation id, and it
// lives only while the decision is pending.
//
// The buffered channel plus sync.Once give the one-shot semantics: the first
// resolution wins, every later one is a no-op, and the waiter can collect
// the resolution even if it arrives before the wait begins.
type ticket struct {
	id   uuid.UUID
	ch   chan bool
	once sync.Once
}

func newTicket(id uuid.UUID) *ticket {
	return &ticket{
		id: id,
		ch: make(chan bool, 1),
	}
}

// resolve records the approval verdict. Only the first call has any effect;
// it reports whether this call was the effective one.
func (t *ticket) resolve(approved bool) bool {
	won := false
	t.once.Do(func() {
		t.ch <- approved
		won = true
	})
	return won
}

// await blocks until the ticket resolves, the timeout fires, or the context
// is cancelled. A timeout resolves the ticket as a denial so that a late
// approver finds an already-resolved ticket instead of a dangling one.
func (t *ticket) await(ctx context.Context, timeout time.Duration) (approved, timedOut bool, err error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case approved = <-t.ch:
		return approved, false, nil
	case <-timer.C:
		// Seal the ticket; if a resolution raced the timer it wins and
		// the verdict below reflects it.
		won := t.resolve(false)
		approved = <-t.ch
		return approved, won && !approved, nil
	case <-ctx.Done():
		t.resolve(false)
		return false, false, ctx.Err()
	}
}
