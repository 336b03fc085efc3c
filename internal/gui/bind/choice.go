// Choice-list binding for enum, int, uint and bool parameters
package bind

import (
	"fmt"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/widget"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

// Select binds a parameter to a new choice list and appends it to the
// module's container.
//
// Bool fields get the two choices "no" and "yes". Enum fields get one
// choice per table entry in declared order, each carrying the entry's
// stored value, so selection resolves through the table rather than the
// display index. Int and uint fields bind with no choices populated; the
// selection index is the value. Other kinds yield a disabled placeholder.
func (u *UI) Select(m *develop.Module, name string) *widget.Select {
	f, ok := m.Params().Field(name)
	if !ok || !selectableKind(f.Desc().Kind) {
		msg := fmt.Sprintf("'%s' is not an enum/int/bool parameter", name)
		sel := widget.NewSelect(nil, nil)
		sel.Disable()
		u.placeholder(m, name, msg, container.NewVBox(widget.NewLabel(msg), sel))
		return sel
	}

	d := f.Desc()
	var sel *widget.Select

	if d.Kind == params.KindBool {
		sel = widget.NewSelect([]string{lang.L("no"), lang.L("yes")}, nil)
		sel.SetSelectedIndex(boolIndex(f.Bool()))
		sel.OnChanged = func(string) {
			if u.InReset() {
				return
			}
			idx := sel.SelectedIndex()
			if idx < 0 {
				return
			}
			newv := idx == 1
			previous := f.Bool()
			f.SetBool(newv)
			if newv != previous {
				u.processChanged(m, sel, previous)
			}
		}
		u.registerSyncer(m, func() {
			sel.SetSelectedIndex(boolIndex(f.Bool()))
		})
	} else {
		var aux []int32
		if d.Kind == params.KindEnum {
			options := make([]string, len(d.Enum.Values))
			aux = make([]int32, len(d.Enum.Values))
			for i, ev := range d.Enum.Values {
				label := ev.Description
				if label == "" {
					label = ev.Name
				}
				options[i] = lang.L(label)
				aux[i] = ev.Value
			}
			sel = widget.NewSelect(options, nil)
			if idx := auxIndex(aux, f.Enum()); idx >= 0 {
				sel.SetSelectedIndex(idx)
			}
		} else {
			sel = widget.NewSelect([]string{}, nil)
		}

		sel.OnChanged = u.choiceChanged(m, sel, f, aux)
		u.registerSyncer(m, func() {
			idx := -1
			switch d.Kind {
			case params.KindEnum:
				idx = auxIndex(aux, f.Enum())
			case params.KindInt:
				idx = int(f.Int())
			case params.KindUInt:
				idx = int(f.Uint())
			}
			if idx >= 0 && idx < len(sel.Options) {
				sel.SetSelectedIndex(idx)
			}
		})
	}

	title := widget.NewLabel(lang.L(d.Description))
	u.Container(m).Add(container.NewVBox(title, sel))
	return sel
}

// choiceChanged is the shared handler for enum, int and uint choice
// lists: the new value is the attached auxiliary value when a table is
// present, else the plain selection index.
func (u *UI) choiceChanged(m *develop.Module, sel *widget.Select, f params.Field, aux []int32) func(string) {
	return func(string) {
		if u.InReset() {
			return
		}
		idx := sel.SelectedIndex()
		if idx < 0 {
			return
		}
		v := int32(idx)
		if aux != nil {
			v = aux[idx]
		}

		switch f.Desc().Kind {
		case params.KindEnum:
			previous := f.Enum()
			f.SetEnum(v)
			if v != previous {
				u.processChanged(m, sel, previous)
			}
		case params.KindInt:
			previous := f.Int()
			f.SetInt(v)
			if v != previous {
				u.processChanged(m, sel, previous)
			}
		case params.KindUInt:
			newv := uint32(v)
			previous := f.Uint()
			f.SetUint(newv)
			if newv != previous {
				u.processChanged(m, sel, previous)
			}
		}
	}
}

func selectableKind(k params.Kind) bool {
	switch k {
	case params.KindEnum, params.KindInt, params.KindUInt, params.KindBool:
		return true
	}
	return false
}

func boolIndex(v bool) int {
	if v {
		return 1
	}
	return 0
}

func auxIndex(aux []int32, v int32) int {
	for i, a := range aux {
		if a == v {
			return i
		}
	}
	return -1
}
