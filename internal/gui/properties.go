// Module panel: one card per pipeline module with bound controls
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/gui/bind"
	"github.com/maxime-henry/darktable/internal/params"
	"github.com/maxime-henry/darktable/internal/preset"
)

// ModulesPanel builds and owns the per-module editing cards. Parameter
// controls come from the binding layer; the enable toggle and preset
// actions are wired here.
type ModulesPanel struct {
	dev    *develop.Develop
	binder *bind.UI
	store  *preset.Store
	window fyne.Window
	log    *logrus.Entry

	root    *container.Scroll
	list    *fyne.Container
	enables map[string]*widget.Check
	pickers map[string]*widget.Button
}

func NewModulesPanel(dev *develop.Develop, binder *bind.UI, store *preset.Store, window fyne.Window, logger *logrus.Logger) *ModulesPanel {
	p := &ModulesPanel{
		dev:     dev,
		binder:  binder,
		store:   store,
		window:  window,
		log:     logger.WithField("component", "modules"),
		enables: make(map[string]*widget.Check),
		pickers: make(map[string]*widget.Button),
	}
	p.list = container.NewVBox()
	p.root = container.NewVScroll(p.list)
	p.root.SetMinSize(fyne.NewSize(340, 400))
	return p
}

func (p *ModulesPanel) GetContainer() fyne.CanvasObject {
	return p.root
}

// Rebuild recreates every module card. Call after the session's module
// list changes.
func (p *ModulesPanel) Rebuild() {
	p.list.RemoveAll()
	p.enables = make(map[string]*widget.Check)
	p.pickers = make(map[string]*widget.Button)

	for _, m := range p.dev.Modules() {
		p.list.Add(p.buildCard(m))
	}
	p.list.Refresh()
}

func (p *ModulesPanel) buildCard(m *develop.Module) fyne.CanvasObject {
	enable := widget.NewCheck(lang.L(m.Op().Title), func(v bool) {
		if p.binder.InReset() || v == m.Enabled() {
			return
		}
		m.SetEnabled(v)
		p.dev.AddHistory(m, true)
	})
	enable.SetChecked(m.Enabled())
	p.enables[m.ID()] = enable

	header := container.NewHBox(enable, layout.NewSpacer())
	if m.PickApplied != nil {
		pick := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), func() {
			p.dev.Picker().Toggle(m)
		})
		p.pickers[m.ID()] = pick
		header.Add(pick)
	}
	header.Add(widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), func() {
		p.resetModule(m)
	}))
	header.Add(p.presetMenu(m))

	p.buildControls(m)

	return widget.NewCard("", "", container.NewVBox(
		header,
		p.binder.Container(m),
	))
}

// buildControls binds one control per schema field. Uint fields stay
// script-only and get no control.
func (p *ModulesPanel) buildControls(m *develop.Module) {
	for _, d := range m.Op().Schema.Descs() {
		switch d.Kind {
		case params.KindFloat, params.KindInt:
			p.binder.Slider(m, d.Name)
		case params.KindEnum:
			p.binder.Select(m, d.Name)
		case params.KindBool:
			p.binder.Check(m, d.Name)
		}
	}
}

// presetMenu builds the save button and the stored-preset dropdown.
func (p *ModulesPanel) presetMenu(m *develop.Module) fyne.CanvasObject {
	op := m.Op().Name

	apply := widget.NewSelect(nil, nil)
	apply.PlaceHolder = lang.L("presets")

	refresh := func() {
		names, err := p.store.List(op)
		if err != nil {
			p.log.WithError(err).Warn("MODULES: Preset listing failed")
			return
		}
		apply.Options = names
		apply.Refresh()
	}

	apply.OnChanged = func(name string) {
		if name == "" {
			return
		}
		pst, err := p.store.Load(op, name)
		if err != nil {
			dialog.ShowError(err, p.window)
			return
		}
		p.applyPreset(m, pst)
		apply.ClearSelected()
	}

	save := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), func() {
		entry := widget.NewEntry()
		items := []*widget.FormItem{widget.NewFormItem(lang.L("Name"), entry)}
		dialog.ShowForm(lang.L("Save preset"), lang.L("Save"), lang.L("Cancel"), items, func(ok bool) {
			if !ok || entry.Text == "" {
				return
			}
			if err := p.store.Save(preset.Capture(entry.Text, m)); err != nil {
				dialog.ShowError(err, p.window)
				return
			}
			refresh()
		}, p.window)
	})

	refresh()
	return container.NewHBox(apply, save)
}

// resetModule puts every parameter back to its default, refreshes the
// bound controls and commits once.
func (p *ModulesPanel) resetModule(m *develop.Module) {
	release := p.binder.BeginReset()
	m.Params().Reset()
	p.binder.Sync(m)
	release()

	p.dev.AddHistory(m, true)
	p.log.WithField("op", m.Op().Name).Info("MODULES: Parameters reset")
}

// applyPreset writes the preset under GUI reset, refreshes the bound
// controls and commits once.
func (p *ModulesPanel) applyPreset(m *develop.Module, pst *preset.Preset) {
	release := p.binder.BeginReset()
	err := pst.Apply(m)
	if err == nil {
		p.binder.Sync(m)
	}
	release()

	if err != nil {
		dialog.ShowError(err, p.window)
		return
	}
	p.dev.Commit(fmt.Sprintf("%s preset %s", m.Op().Name, pst.Name))
	p.log.WithFields(logrus.Fields{
		"op":     m.Op().Name,
		"preset": pst.Name,
	}).Info("MODULES: Preset applied")
}

// SyncEnables refreshes the enable checks from module state, under reset
// so the handlers stay quiet.
func (p *ModulesPanel) SyncEnables() {
	release := p.binder.BeginReset()
	defer release()
	for _, m := range p.dev.Modules() {
		if c, ok := p.enables[m.ID()]; ok {
			c.SetChecked(m.Enabled())
		}
	}
}

// SetPickerArmed highlights the armed module's picker button.
func (p *ModulesPanel) SetPickerArmed(armed *develop.Module) {
	for id, btn := range p.pickers {
		if armed != nil && id == armed.ID() {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}
