package core

import "sync"

// DefaultHistorySize is how many import results History keeps.
const DefaultHistorySize = 50

// History is a bounded, in-memory list of recent import results.
// It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	entries []ImportResult // oldest first
	max     int
}

// NewHistory creates a History holding at most max entries.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

// Add records res, evicting the oldest entry when full.
func (h *History) Add(res ImportResult) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, res)
	if len(h.entries) > h.max {
		h.entries = append(h.entries[:0:0], h.entries[len(h.entries)-h.max:]...)
	}
}

// List returns the recorded results, newest first.
func (h *History) List() []ImportResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]ImportResult, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}

// Get returns the result with the given import ID.
func (h *History) Get(id string) (ImportResult, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, e := range h.entries {
		if e.ID == id {
			return e, true
		}
	}
	return ImportResult{}, false
}
