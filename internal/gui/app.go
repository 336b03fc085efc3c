// Main application: wires the develop session into the Fyne interface
package gui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"github.com/sirupsen/logrus"
	"github.com/zmwangx/debounce"

	"github.com/maxime-henry/darktable/internal/config"
	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/gui/bind"
	"github.com/maxime-henry/darktable/internal/io"
	"github.com/maxime-henry/darktable/internal/ops"
	"github.com/maxime-henry/darktable/internal/preset"
	"github.com/maxime-henry/darktable/internal/script"
)

// Application owns the develop session and every GUI component, and wires
// the change propagation between them: history changes drive the debounced
// preview render, panel refresh and script notification.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	log    *logrus.Entry
	cfg    *config.Config

	// Core components
	dev    *develop.Develop
	loader *io.Loader
	store  *preset.Store
	script *script.Runtime

	// GUI components
	binder  *bind.UI
	canvas  *PreviewCanvas
	modules *ModulesPanel
	history *HistoryPanel
	status  *StatusBar
	toolbar *Toolbar
	menu    *MenuHandler

	requestPreview func()
	previewCancel  func()
}

func NewApplication(app fyne.App, logger *logrus.Logger, cfg *config.Config) *Application {
	window := app.NewWindow("darktable")
	window.Resize(fyne.NewSize(float32(cfg.Window.Width), float32(cfg.Window.Height)))
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		log:    logger.WithField("component", "app"),
		cfg:    cfg,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) initializeCore() {
	a.dev = develop.NewDevelop(a.logger, a.cfg.History.Capacity)
	a.loader = io.NewLoader(a.logger)
	a.store = preset.NewStore(presetDir(), a.logger)
	a.script = script.NewRuntime(a.dev, a.logger)

	for _, op := range ops.All() {
		m := a.dev.AddModule(op)
		if op.Name == "whitebalance" {
			a.wireNeutralPicker(m)
		}
	}
	a.dev.Baseline("original")
}

func (a *Application) initializeGUI() {
	a.binder = bind.NewUI(a.dev, a.logger)
	a.canvas = NewPreviewCanvas(a.dev, a.logger)
	a.modules = NewModulesPanel(a.dev, a.binder, a.store, a.window, a.logger)
	a.history = NewHistoryPanel(a.dev, a.logger)
	a.status = NewStatusBar(a.logger)
	a.toolbar = NewToolbar(a.logger)
	a.menu = NewMenuHandler(a.window, a.logger)

	a.modules.Rebuild()
	a.history.Refresh()
}

func (a *Application) setupLayout() {
	content := container.NewBorder(
		a.toolbar.GetContainer(), // top
		a.status.GetContainer(),  // bottom
		a.history.GetContainer(), // left
		a.modules.GetContainer(), // right
		container.NewPadded(a.canvas),
	)

	a.window.SetMainMenu(a.menu.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	render, ctrl := debounce.Debounce(a.renderPreview, a.cfg.Debounce(),
		debounce.WithMaxWait(time.Second))
	a.requestPreview = render
	a.previewCancel = ctrl.Cancel

	// Every history mutation funnels through here: undo, redo, jumps,
	// commits from controls, presets, sidecars and scripts.
	a.dev.History().SetOnChange(func() {
		a.script.HandleHistoryChange()
		a.requestPreview()
		fyne.Do(func() {
			a.history.Refresh()
		})
	})

	// Restored states rewrite parameter blocks behind the controls.
	a.dev.SetOnRestore(func() {
		a.binder.SyncAll()
		a.modules.SyncEnables()
	})

	a.dev.Picker().SetOnArm(func(m *develop.Module) {
		a.modules.SetPickerArmed(m)
		a.canvas.SetPickerActive(m != nil)
		if m != nil {
			a.status.SetMessage("click the image to sample a neutral area")
		} else {
			a.status.SetMessage("ready")
		}
	})

	a.menu.SetCallbacks(a.LoadImage, a.Export,
		a.saveSidecar, a.applySidecar, a.undo, a.redo)
	a.toolbar.SetCallbacks(a.menu.openImage, a.menu.exportImage, a.saveSidecar)
}

// wireNeutralPicker routes picked samples into the white balance gains.
func (a *Application) wireNeutralPicker(m *develop.Module) {
	m.PickApplied = func(s develop.Sample) {
		ops.ApplyNeutralSample(m, s)
		a.binder.Sync(m)
		a.dev.AddHistory(m, true)
		a.log.WithFields(logrus.Fields{
			"r": s.R, "g": s.G, "b": s.B,
		}).Info("APP: Neutral sample applied")
	}
}

// renderPreview runs on the debounce timer goroutine: processing happens
// off the UI thread, the canvas update is marshaled back with fyne.Do.
func (a *Application) renderPreview() {
	if !a.dev.Image().Loaded() {
		return
	}
	src := a.dev.Image().Preview()
	defer src.Close()

	out, err := a.dev.ProcessCurrent(src)
	if err != nil {
		a.log.WithError(err).Error("APP: Preview processing failed")
		return
	}

	fyne.Do(func() {
		a.canvas.UpdatePreview(out)
		out.Close()
		a.status.SetTimings(a.dev.Timings())
	})
}

// LoadImage loads a new source image and starts a fresh edit over it.
func (a *Application) LoadImage(path string) {
	go func() {
		if err := a.loadImage(path); err != nil {
			fyne.Do(func() {
				a.showError(err)
			})
		}
	}()
}

func (a *Application) loadImage(path string) error {
	mat, err := a.loader.Load(path)
	if err != nil {
		return err
	}
	defer mat.Close()

	if err := a.dev.Image().SetOriginal(mat, path, a.cfg.Preview.LongestSide); err != nil {
		return err
	}

	if armed := a.dev.Picker().Active(); armed != nil {
		a.dev.Picker().Reset(armed, true)
	}
	for _, m := range a.dev.Modules() {
		m.Params().Reset()
		m.SetEnabled(false)
	}
	a.dev.Baseline("original")

	fyne.Do(func() {
		a.binder.SyncAll()
		a.modules.SyncEnables()
		a.toolbar.EnableImageActions()
		a.menu.SetExportName(exportName(path))
		a.status.SetMessage(fmt.Sprintf("loaded %s", filepath.Base(path)))
	})
	return nil
}

// Export processes the full-resolution image at the current history
// position and writes it to path.
func (a *Application) Export(path string) {
	go func() {
		if err := a.export(path); err != nil {
			fyne.Do(func() {
				a.showError(err)
			})
			return
		}
		fyne.Do(func() {
			a.status.SetMessage(fmt.Sprintf("exported %s", filepath.Base(path)))
		})
	}()
}

func (a *Application) export(path string) error {
	if !a.dev.Image().Loaded() {
		return fmt.Errorf("no image loaded")
	}
	src := a.dev.Image().Original()
	defer src.Close()

	out, err := a.dev.ProcessCurrent(src)
	if err != nil {
		return fmt.Errorf("process image: %w", err)
	}
	defer out.Close()

	if err := a.loader.Save(out, path); err != nil {
		return err
	}
	a.log.WithField("path", path).Info("APP: Image exported")
	return nil
}

func (a *Application) saveSidecar() {
	if !a.dev.Image().Loaded() {
		a.status.SetMessage("no image loaded")
		return
	}
	sc := preset.CaptureSidecar(a.dev)
	target := preset.SidecarPath(a.dev.Image().Path())
	if err := preset.WriteSidecar(target, sc); err != nil {
		a.showError(err)
		return
	}
	a.status.SetMessage(fmt.Sprintf("sidecar written to %s", filepath.Base(target)))
}

func (a *Application) applySidecar() {
	if !a.dev.Image().Loaded() {
		return
	}
	target := preset.SidecarPath(a.dev.Image().Path())
	sc, err := preset.ReadSidecar(target)
	if err != nil {
		a.showError(err)
		return
	}
	if err := sc.Apply(a.dev); err != nil {
		a.showError(err)
		return
	}
	a.binder.SyncAll()
	a.modules.SyncEnables()
	a.dev.Commit("sidecar")
	a.status.SetMessage("sidecar applied")
}

func (a *Application) undo() {
	a.dev.Undo()
}

func (a *Application) redo() {
	a.dev.Redo()
}

func (a *Application) ShowAndRun() {
	a.log.Info("APP: Showing main window")

	if path := a.cfg.Script.Path; path != "" {
		a.app.Lifecycle().SetOnStarted(func() {
			a.log.WithField("path", path).Info("APP: Running startup script")
			if err := a.script.Run(path); err != nil {
				a.showError(fmt.Errorf("startup script: %w", err))
			}
		})
	}

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})
	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.log.Info("APP: Cleaning up")
	if a.previewCancel != nil {
		a.previewCancel()
	}
	a.saveConfig()
	a.script.Close()
	a.canvas.Close()
	a.dev.Close()
}

func (a *Application) saveConfig() {
	size := a.window.Canvas().Size()
	if size.Width > 0 && size.Height > 0 {
		a.cfg.Window.Width = int(size.Width)
		a.cfg.Window.Height = int(size.Height)
	}
	if path := a.dev.Image().Path(); path != "" {
		a.cfg.Paths.LastDirectory = filepath.Dir(path)
	}
	if err := a.cfg.Save(); err != nil {
		a.log.WithError(err).Warn("APP: Could not save configuration")
	}
}

func (a *Application) showError(err error) {
	a.log.WithError(err).Error("APP: Error")
	dialog.ShowError(err, a.window)
	a.status.SetMessage(err.Error())
}

func presetDir() string {
	p, err := config.Path()
	if err != nil {
		return "presets"
	}
	return filepath.Join(filepath.Dir(p), "presets")
}

func exportName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_export.png"
}
