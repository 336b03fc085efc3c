// Module instances: one operation bound to live parameters in a session
package develop

import (
	"fyne.io/fyne/v2"
	"github.com/google/uuid"

	"github.com/maxime-henry/darktable/internal/params"
)

// Module is an operation instance inside a develop session: its own
// parameter block, an enabled flag, and optional hooks the GUI layer
// installs.
//
// GuiChanged runs after a bound control changed a parameter to a genuinely
// new value, before the history commit, with the control and the previous
// value. PickApplied receives color samples while the module has the
// picker armed.
type Module struct {
	id      string
	op      *Operation
	params  *params.Block
	enabled bool

	GuiChanged  func(ctrl fyne.CanvasObject, previous any)
	PickApplied func(s Sample)
}

func newModule(op *Operation) *Module {
	return &Module{
		id:     uuid.NewString(),
		op:     op,
		params: op.Schema.NewBlock(),
	}
}

// ID returns the instance id, stable for the session.
func (m *Module) ID() string {
	return m.id
}

// Op returns the operation this module instantiates.
func (m *Module) Op() *Operation {
	return m.op
}

// Params returns the live parameter block.
func (m *Module) Params() *params.Block {
	return m.params
}

// Enabled reports whether the module participates in processing.
func (m *Module) Enabled() bool {
	return m.enabled
}

// SetEnabled flips pipeline participation. Callers record history
// separately.
func (m *Module) SetEnabled(v bool) {
	m.enabled = v
}

// state captures the module for a history item.
func (m *Module) state() ModuleState {
	return ModuleState{
		ModuleID: m.id,
		Op:       m.op.Name,
		Enabled:  m.enabled,
		Params:   m.params.Bytes(),
	}
}

// restore applies a history state back onto the module.
func (m *Module) restore(s ModuleState) error {
	if err := m.params.Restore(s.Params); err != nil {
		return err
	}
	m.enabled = s.Enabled
	return nil
}
