package monitor

import (
	"sync"

	"github.com/jamesainslie/ssdclean/pkg/ssdclean/types"
)

// DefaultHistorySize is one minute of samples at one sample per second.
const DefaultHistorySize = 60

// History is a fixed-capacity FIFO of snapshots. Adding to a full
// history evicts the oldest sample. It is safe for concurrent use.
type History struct {
	mu      sync.RWMutex
	samples []types.Snapshot
	head    int
	count   int
}

// NewHistory creates a history holding up to capacity samples.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistorySize
	}
	return &History{samples: make([]types.Snapshot, capacity)}
}

// Add appends a sample.
func (h *History) Add(s types.Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()

	size := len(h.samples)
	h.samples[(h.head+h.count)%size] = s
	if h.count < size {
		h.count++
		return
	}
	h.head = (h.head + 1) % size
}

// Snapshots returns a copy of the samples, oldest first.
func (h *History) Snapshots() []types.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]types.Snapshot, h.count)
	for i := range out {
		out[i] = h.samples[(h.head+i)%len(h.samples)]
	}
	return out
}

// Series returns the CPU, RAM and disk percentages, oldest first.
func (h *History) Series() (cpu, ram, disk []float64) {
	snaps := h.Snapshots()
	cpu = make([]float64, len(snaps))
	ram = make([]float64, len(snaps))
	disk = make([]float64, len(snaps))
	for i, s := range snaps {
		cpu[i] = s.CPUPercent
		ram[i] = s.RAMPercent
		disk[i] = s.DiskPercent
	}
	return cpu, ram, disk
}

// Latest returns the newest sample.
func (h *History) Latest() (types.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.count == 0 {
		return types.Snapshot{}, false
	}
	return h.samples[(h.head+h.count-1)%len(h.samples)], true
}

// Len returns the number of samples held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Cap returns the capacity.
func (h *History) Cap() int {
	return len(h.samples)
}
