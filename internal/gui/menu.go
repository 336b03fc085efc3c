// Menu handler for application actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/io"
)

// MenuHandler builds the main menu and routes its actions to the
// application through callbacks.
type MenuHandler struct {
	window fyne.Window
	log    *logrus.Entry

	exportName string

	onOpen        func(path string)
	onExport      func(path string)
	onSaveSidecar func()
	onLoadSidecar func()
	onUndo        func()
	onRedo        func()
}

func NewMenuHandler(window fyne.Window, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window:     window,
		log:        logger.WithField("component", "menu"),
		exportName: "untitled.png",
	}
}

// SetCallbacks wires the menu actions.
func (mh *MenuHandler) SetCallbacks(onOpen, onExport func(string), onSaveSidecar, onLoadSidecar, onUndo, onRedo func()) {
	mh.onOpen = onOpen
	mh.onExport = onExport
	mh.onSaveSidecar = onSaveSidecar
	mh.onLoadSidecar = onLoadSidecar
	mh.onUndo = onUndo
	mh.onRedo = onRedo
}

// SetExportName sets the suggested file name for the export dialog.
func (mh *MenuHandler) SetExportName(name string) {
	if name != "" {
		mh.exportName = name
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu(lang.L("File"),
		fyne.NewMenuItem(lang.L("Open Image…"), mh.openImage),
		fyne.NewMenuItem(lang.L("Export…"), mh.exportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(lang.L("Save Edit Sidecar"), func() {
			if mh.onSaveSidecar != nil {
				mh.onSaveSidecar()
			}
		}),
		fyne.NewMenuItem(lang.L("Reapply Sidecar"), func() {
			if mh.onLoadSidecar != nil {
				mh.onLoadSidecar()
			}
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(lang.L("Quit"), func() {
			mh.window.Close()
		}),
	)

	undo := fyne.NewMenuItem(lang.L("Undo"), func() {
		if mh.onUndo != nil {
			mh.onUndo()
		}
	})
	undo.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierShortcutDefault}
	redo := fyne.NewMenuItem(lang.L("Redo"), func() {
		if mh.onRedo != nil {
			mh.onRedo()
		}
	})
	redo.Shortcut = &desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierShortcutDefault}
	editMenu := fyne.NewMenu(lang.L("Edit"), undo, redo)

	helpMenu := fyne.NewMenu(lang.L("Help"),
		fyne.NewMenuItem(lang.L("About"), mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mh.window)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		mh.log.WithField("path", path).Info("MENU: Image selected")
		if mh.onOpen != nil {
			mh.onOpen(path)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) exportImage() {
	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mh.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		mh.log.WithField("path", path).Info("MENU: Export target selected")
		if mh.onExport != nil {
			mh.onExport(path)
		}
	}, mh.window)

	fileDialog.SetFileName(mh.exportName)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("darktable"),
		widget.NewSeparator(),
		widget.NewLabel(lang.L("Non-destructive photo editing")),
		widget.NewLabel("Built with Go, Fyne v2.6, and OpenCV 4.11"),
	)

	aboutDialog := dialog.NewCustom(lang.L("About"), lang.L("Close"), content, mh.window)
	aboutDialog.Resize(fyne.NewSize(360, 220))
	aboutDialog.Show()
}
