// Parameter-bound widget factory: sliders, choice lists and toggles
// generated from operation schemas, wired into history and the picker
package bind

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/develop"
)

// UI is the binding session for one develop session. It owns the reset
// state that suppresses change propagation during programmatic refresh,
// the lazily created per-module containers, and the refresh hooks of
// every bound control.
//
// Everything here runs on the event thread; no locking.
type UI struct {
	dev *develop.Develop
	log *logrus.Entry

	reset      int
	containers map[*develop.Module]*fyne.Container
	syncers    map[*develop.Module][]func()
}

// NewUI creates the binding session.
func NewUI(dev *develop.Develop, logger *logrus.Logger) *UI {
	return &UI{
		dev:        dev,
		log:        logger.WithField("component", "bind"),
		containers: make(map[*develop.Module]*fyne.Container),
		syncers:    make(map[*develop.Module][]func()),
	}
}

// Develop returns the bound session.
func (u *UI) Develop() *develop.Develop {
	return u.dev
}

// Container returns the module's widget container, creating it on the
// first call. Every bound control and placeholder is appended here.
func (u *UI) Container(m *develop.Module) *fyne.Container {
	if c, ok := u.containers[m]; ok {
		return c
	}
	c := container.NewVBox()
	u.containers[m] = c
	return c
}

// BeginReset enters reset state and returns its release. While any reset
// is held, change handlers ignore widget events entirely, so widgets can
// be refreshed from externally changed parameters without feeding the
// changes back. Acquisitions nest.
func (u *UI) BeginReset() func() {
	u.reset++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		u.reset--
	}
}

// InReset reports whether a programmatic refresh is in progress.
func (u *UI) InReset() bool {
	return u.reset > 0
}

// Sync refreshes every bound control of a module from its parameter
// block, under reset.
func (u *UI) Sync(m *develop.Module) {
	release := u.BeginReset()
	defer release()
	for _, refresh := range u.syncers[m] {
		refresh()
	}
}

// SyncAll refreshes every bound control of every module.
func (u *UI) SyncAll() {
	release := u.BeginReset()
	defer release()
	for _, syncers := range u.syncers {
		for _, refresh := range syncers {
			refresh()
		}
	}
}

func (u *UI) registerSyncer(m *develop.Module, refresh func()) {
	u.syncers[m] = append(u.syncers[m], refresh)
}

// processChanged runs the shared post-write propagation for a genuinely
// changed value: module hook, picker reset, forced history commit, in
// that order.
func (u *UI) processChanged(m *develop.Module, ctrl fyne.CanvasObject, previous any) {
	if m.GuiChanged != nil {
		m.GuiChanged(ctrl, previous)
	}
	u.dev.Picker().Reset(m, true)
	u.dev.AddHistory(m, true)
}

// placeholder logs and appends a labeled non-functional control, keeping
// the panel constructible when a name or kind does not line up.
func (u *UI) placeholder(m *develop.Module, name, message string, row fyne.CanvasObject) {
	u.log.WithFields(logrus.Fields{
		"op":    m.Op().Name,
		"param": name,
	}).Warn("BIND: " + message)
	u.Container(m).Add(row)
}
