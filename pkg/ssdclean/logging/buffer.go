package logging

import "sync"

// DefaultBufferSize is the number of entries the TUI log panel keeps.
const DefaultBufferSize = 200

// LogBuffer holds the most recent log entries, oldest first.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
	head    int
	count   int
}

// NewLogBuffer creates a buffer holding up to size entries.
func NewLogBuffer(size int) *LogBuffer {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// Add appends an entry, overwriting the oldest when full.
func (b *LogBuffer) Add(entry LogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	size := len(b.entries)
	b.entries[(b.head+b.count)%size] = entry
	if b.count < size {
		b.count++
		return
	}
	b.head = (b.head + 1) % size
}

// Entries returns a copy of all entries, oldest first.
func (b *LogBuffer) Entries() []LogEntry {
	return b.Last(b.Len())
}

// Last returns a copy of the newest n entries, oldest first.
func (b *LogBuffer) Last(n int) []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if n > b.count {
		n = b.count
	}
	if n < 0 {
		n = 0
	}
	out := make([]LogEntry, n)
	skip := b.count - n
	for i := range out {
		out[i] = b.entries[(b.head+skip+i)%len(b.entries)]
	}
	return out
}

// Len returns the number of buffered entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// Clear drops all entries.
func (b *LogBuffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.head, b.count = 0, 0
}
