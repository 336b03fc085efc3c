// Toggle binding for bool parameters
package bind

import (
	"fmt"

	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

// Check binds a bool parameter to a new checkbox and appends it to the
// module's container. The (module, field) binding lives in the handler
// closure and goes away with the control. Non-bool kinds and unknown
// names yield a disabled placeholder carrying the message as its label.
func (u *UI) Check(m *develop.Module, name string) *widget.Check {
	f, ok := m.Params().Field(name)
	if !ok || f.Desc().Kind != params.KindBool {
		msg := fmt.Sprintf("'%s' is not a bool parameter", name)
		c := widget.NewCheck(msg, nil)
		c.Disable()
		u.placeholder(m, name, msg, c)
		return c
	}

	c := widget.NewCheck(lang.L(f.Desc().Description), nil)
	c.SetChecked(f.Bool())
	c.OnChanged = func(v bool) {
		if u.InReset() {
			return
		}
		previous := f.Bool()
		f.SetBool(v)
		if v != previous {
			u.processChanged(m, c, previous)
		}
	}
	u.registerSyncer(m, func() {
		c.SetChecked(f.Bool())
	})

	u.Container(m).Add(c)
	return c
}
