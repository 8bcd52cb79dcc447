package run

import (
	"github.com/google/uuid"

	"github.com/wardenhq/warden/api"
)

// history is a bounded buffer of terminal record snapshots. When full, the
// oldest entry is evicted. Only terminal records enter it, so an active
// record can never be evicted.
type history struct {
	limit   int
	records []api.RecordSnapshot
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

func (h *history) add(snap api.RecordSnapshot) {
	h.records = append(h.records, snap)
	if len(h.records) > h.limit {
		// Shift instead of reslicing so evicted entries do not pin the
		// backing array.
		copy(h.records, h.records[1:])
		h.records = h.records[:h.limit]
	}
}

// list returns up to limit snapshots, newest first. A non-positive limit
// returns everything.
func (h *history) list(limit int) []api.RecordSnapshot {
	n := len(h.records)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]api.RecordSnapshot, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, h.records[i])
	}
	return out
}

func (h *history) byState(state api.ExecutionState) []api.RecordSnapshot {
	var out []api.RecordSnapshot
	for i := len(h.records) - 1; i >= 0; i-- {
		if h.records[i].State == state {
			out = append(out, h.records[i])
		}
	}
	return out
}

func (h *history) contains(id uuid.UUID) bool {
	for i := range h.records {
		if h.records[i].ID == id {
			return true
		}
	}
	return false
}

func (h *history) len() int {
	return len(h.records)
}
