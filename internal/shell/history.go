package shell

import (
	"sync"
	"time"

	"gitsandbox/internal/render"

	"github.com/google/uuid"
)

// Entry is one classified line.
type Entry struct {
	ID     uuid.UUID
	At     time.Time
	Record render.Record
}

// History keeps classified lines for the lifetime of a session.
type History struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{now: time.Now}
}

// Add records a line and returns its entry.
func (h *History) Add(record render.Record) Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	e := Entry{ID: uuid.New(), At: h.now(), Record: record}
	h.entries = append(h.entries, e)
	return e
}

// Entries returns a copy of the recorded entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
