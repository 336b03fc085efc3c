// Top toolbar with file and sidecar quick actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

type Toolbar struct {
	log *logrus.Entry

	root *fyne.Container

	openBtn    *widget.Button
	exportBtn  *widget.Button
	sidecarBtn *widget.Button

	onOpen        func()
	onExport      func()
	onSaveSidecar func()
}

func NewToolbar(logger *logrus.Logger) *Toolbar {
	tb := &Toolbar{
		log: logger.WithField("component", "toolbar"),
	}

	title := widget.NewLabelWithStyle("darktable", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	tb.openBtn = widget.NewButtonWithIcon(lang.L("Open"), theme.FolderOpenIcon(), func() {
		if tb.onOpen != nil {
			tb.onOpen()
		}
	})
	tb.openBtn.Importance = widget.HighImportance

	tb.exportBtn = widget.NewButtonWithIcon(lang.L("Export"), theme.DocumentSaveIcon(), func() {
		if tb.onExport != nil {
			tb.onExport()
		}
	})
	tb.exportBtn.Disable()

	tb.sidecarBtn = widget.NewButtonWithIcon(lang.L("Sidecar"), theme.DocumentCreateIcon(), func() {
		if tb.onSaveSidecar != nil {
			tb.onSaveSidecar()
		}
	})
	tb.sidecarBtn.Disable()

	actions := container.NewHBox(
		title,
		widget.NewSeparator(),
		tb.openBtn,
		tb.exportBtn,
		tb.sidecarBtn,
	)

	tb.root = container.NewBorder(nil, nil, actions, nil)
	return tb
}

// SetCallbacks wires the toolbar actions.
func (tb *Toolbar) SetCallbacks(onOpen, onExport, onSaveSidecar func()) {
	tb.onOpen = onOpen
	tb.onExport = onExport
	tb.onSaveSidecar = onSaveSidecar
}

// EnableImageActions enables the buttons that need a loaded image.
func (tb *Toolbar) EnableImageActions() {
	tb.exportBtn.Enable()
	tb.sidecarBtn.Enable()
}

func (tb *Toolbar) DisableImageActions() {
	tb.exportBtn.Disable()
	tb.sidecarBtn.Disable()
}

func (tb *Toolbar) GetContainer() fyne.CanvasObject {
	return tb.root
}
