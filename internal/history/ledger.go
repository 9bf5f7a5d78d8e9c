// Package history keeps the rolling in-memory record of past scans and the
// per-batch text aggregation. Nothing here survives process exit.
package history

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of entries retained, oldest evicted first.
const DefaultCapacity = 20

// DateFormat is the display timestamp format.
const DateFormat = "2006-01-02 15:04:05"

// Entry is one retained past scan result. Immutable after creation except
// for being evicted.
type Entry struct {
	ID        int64 // creation time, unix milliseconds
	Text      string
	Thumbnail []byte // optional captured-frame reference
	Date      string // display timestamp
}

// Ledger owns the bounded history list. Single writer; the mutex only
// guards readers that snapshot while a run is appending.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	entries  []Entry

	now func() time.Time // test hook
}

func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{capacity: capacity, now: time.Now}
}

// Record prepends a new entry and truncates to capacity from the tail.
func (l *Ledger) Record(text string, thumbnail []byte) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := Entry{
		ID:        now.UnixMilli(),
		Text:      text,
		Thumbnail: thumbnail,
		Date:      now.Format(DateFormat),
	}
	l.entries = append([]Entry{e}, l.entries...)
	if len(l.entries) > l.capacity {
		l.entries = l.entries[:l.capacity]
	}
	return e
}

// Entries returns a newest-first snapshot.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
