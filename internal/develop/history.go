// Edit history: bounded undo stack of whole-session state snapshots
package develop

import (
	"bytes"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ModuleState is one module's captured state inside a history item.
type ModuleState struct {
	ModuleID string
	Op       string
	Enabled  bool
	Params   []byte
}

// Item is one undoable point: the full per-module state of the session.
type Item struct {
	ID     string
	Label  string
	Time   time.Time
	States []ModuleState
}

// History holds the item stack and the current position. Recording while
// not at the top truncates the redo tail. Items equal to the current state
// are suppressed unless recorded with force. The baseline item at index 0
// survives capacity eviction, so undo can always reach the initial state.
type History struct {
	mu       sync.Mutex
	items    []Item
	pos      int
	capacity int
	onChange func()
}

// NewHistory creates an empty history. Capacity below 2 disables the bound.
func NewHistory(capacity int) *History {
	return &History{capacity: capacity, pos: -1}
}

// SetOnChange installs the notification hook, invoked after every
// recording, restore-position move, or init.
func (h *History) SetOnChange(fn func()) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Init seeds the baseline item and resets the position.
func (h *History) Init(label string, states []ModuleState) {
	h.mu.Lock()
	h.items = []Item{{
		ID:     uuid.NewString(),
		Label:  label,
		Time:   time.Now(),
		States: states,
	}}
	h.pos = 0
	notify := h.onChange
	h.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Record appends a new item after the current position. When force is
// false and the states equal the current item's, nothing is recorded.
// Returns whether an item was added.
func (h *History) Record(label string, states []ModuleState, force bool) bool {
	h.mu.Lock()
	if h.pos >= 0 && !force && statesEqual(h.items[h.pos].States, states) {
		h.mu.Unlock()
		return false
	}

	// Drop the redo tail.
	if h.pos >= 0 {
		h.items = h.items[:h.pos+1]
	}
	h.items = append(h.items, Item{
		ID:     uuid.NewString(),
		Label:  label,
		Time:   time.Now(),
		States: states,
	})
	h.pos = len(h.items) - 1

	// Evict the oldest non-baseline item beyond capacity.
	if h.capacity >= 2 && len(h.items) > h.capacity {
		h.items = append(h.items[:1], h.items[2:]...)
		h.pos--
	}
	notify := h.onChange
	h.mu.Unlock()

	if notify != nil {
		notify()
	}
	return true
}

// Undo moves one step back and returns the states to restore.
func (h *History) Undo() ([]ModuleState, bool) {
	return h.moveTo(func(pos, n int) int { return pos - 1 })
}

// Redo moves one step forward and returns the states to restore.
func (h *History) Redo() ([]ModuleState, bool) {
	return h.moveTo(func(pos, n int) int { return pos + 1 })
}

// Goto jumps to an absolute position and returns the states to restore.
func (h *History) Goto(i int) ([]ModuleState, bool) {
	return h.moveTo(func(pos, n int) int { return i })
}

func (h *History) moveTo(next func(pos, n int) int) ([]ModuleState, bool) {
	h.mu.Lock()
	i := next(h.pos, len(h.items))
	if i < 0 || i >= len(h.items) || i == h.pos {
		h.mu.Unlock()
		return nil, false
	}
	h.pos = i
	states := copyStates(h.items[i].States)
	notify := h.onChange
	h.mu.Unlock()

	if notify != nil {
		notify()
	}
	return states, true
}

// CanUndo reports whether a step back exists.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos > 0
}

// CanRedo reports whether a step forward exists.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos >= 0 && h.pos < len(h.items)-1
}

// Len returns the number of items.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Pos returns the current position, -1 before Init.
func (h *History) Pos() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pos
}

// Current returns the states at the current position.
func (h *History) Current() ([]ModuleState, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pos < 0 {
		return nil, false
	}
	return copyStates(h.items[h.pos].States), true
}

// Items returns a copy of the item list for display.
func (h *History) Items() []Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Item, len(h.items))
	copy(out, h.items)
	return out
}

func statesEqual(a, b []ModuleState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ModuleID != b[i].ModuleID ||
			a[i].Enabled != b[i].Enabled ||
			!bytes.Equal(a[i].Params, b[i].Params) {
			return false
		}
	}
	return true
}

func copyStates(states []ModuleState) []ModuleState {
	out := make([]ModuleState, len(states))
	for i, s := range states {
		out[i] = s
		out[i].Params = append([]byte(nil), s.Params...)
	}
	return out
}
