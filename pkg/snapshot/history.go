package snapshot

import (
	"sync"

	"github.com/oisee/gb-core/pkg/cpu"
)

// History records completed steps. It is safe for concurrent use.
type History struct {
	mu    sync.Mutex
	steps []cpu.Result
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Add appends a step.
func (h *History) Add(r cpu.Result) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.steps = append(h.steps, r)
}

// Steps returns a copy of all steps, oldest first.
func (h *History) Steps() []cpu.Result {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]cpu.Result, len(h.steps))
	copy(out, h.steps)
	return out
}

// Cycles returns the total cycles of all recorded steps.
func (h *History) Cycles() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for i := range h.steps {
		n += h.steps[i].Cycles
	}
	return n
}

// Len returns the number of steps.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.steps)
}
