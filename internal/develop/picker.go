// Color picker state: arming, sample delivery, reset
package develop

import "sync"

// Sample is the mean color of a picked image region, channel values in
// display range 0-255.
type Sample struct {
	R, G, B float64
}

// Picker tracks which module, if any, is sampling colors from the canvas.
// Parameter edits reset the armed state so a stale pick can never apply to
// changed parameters.
type Picker struct {
	mu      sync.Mutex
	armed   *Module
	onArm   func(m *Module)
	onReset func(m *Module)
}

// NewPicker creates a disarmed picker.
func NewPicker() *Picker {
	return &Picker{}
}

// SetOnArm installs the hook invoked when the armed module changes;
// nil means disarmed.
func (p *Picker) SetOnArm(fn func(m *Module)) {
	p.mu.Lock()
	p.onArm = fn
	p.mu.Unlock()
}

// SetOnReset installs the hook invoked on every Reset call, with the
// module the reset was issued for.
func (p *Picker) SetOnReset(fn func(m *Module)) {
	p.mu.Lock()
	p.onReset = fn
	p.mu.Unlock()
}

// Request arms sampling for a module, replacing any previous armed module.
func (p *Picker) Request(m *Module) {
	p.mu.Lock()
	p.armed = m
	notify := p.onArm
	p.mu.Unlock()

	if notify != nil {
		notify(m)
	}
}

// Toggle arms m, or disarms when m is already armed.
func (p *Picker) Toggle(m *Module) {
	if p.Active() == m {
		p.Reset(m, true)
		return
	}
	p.Request(m)
}

// Active returns the armed module, nil when disarmed.
func (p *Picker) Active() *Module {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed
}

// Deliver routes a sample to the armed module's PickApplied hook.
func (p *Picker) Deliver(s Sample) {
	p.mu.Lock()
	m := p.armed
	p.mu.Unlock()

	if m != nil && m.PickApplied != nil {
		m.PickApplied(s)
	}
}

// Reset disarms sampling for m. updateUI selects whether the arm hook
// fires so panel buttons repaint; the reset hook fires on every call.
func (p *Picker) Reset(m *Module, updateUI bool) {
	p.mu.Lock()
	disarmed := false
	if p.armed == m && m != nil {
		p.armed = nil
		disarmed = true
	}
	onArm, onReset := p.onArm, p.onReset
	p.mu.Unlock()

	if disarmed && updateUI && onArm != nil {
		onArm(nil)
	}
	if onReset != nil {
		onReset(m)
	}
}
