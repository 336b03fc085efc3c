// History panel: the undo stack as a selectable list
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/develop"
)

// HistoryPanel lists the edit history. Selecting an entry restores it;
// undo and redo step through the stack.
type HistoryPanel struct {
	dev *develop.Develop
	log *logrus.Entry

	root    fyne.CanvasObject
	list    *widget.List
	items   []develop.Item
	undoBtn *widget.Button
	redoBtn *widget.Button

	updating bool
}

func NewHistoryPanel(dev *develop.Develop, logger *logrus.Logger) *HistoryPanel {
	hp := &HistoryPanel{
		dev: dev,
		log: logger.WithField("component", "history"),
	}
	hp.initializeUI()
	return hp
}

func (hp *HistoryPanel) initializeUI() {
	hp.list = widget.NewList(
		func() int {
			return len(hp.items)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("entry")
			stamp := widget.NewLabel("00:00:00")
			stamp.Importance = widget.LowImportance
			return container.NewBorder(nil, nil, nil, stamp, label)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id >= len(hp.items) {
				return
			}
			entry := hp.items[id]
			row := item.(*fyne.Container)
			row.Objects[0].(*widget.Label).SetText(fmt.Sprintf("%d  %s", id, entry.Label))
			row.Objects[1].(*widget.Label).SetText(entry.Time.Format("15:04:05"))
		},
	)

	hp.list.OnSelected = func(id widget.ListItemID) {
		if hp.updating {
			return
		}
		if hp.dev.GotoHistory(id) {
			hp.log.WithField("position", id).Debug("HISTORY: Jumped to entry")
		}
	}

	hp.undoBtn = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() {
		hp.dev.Undo()
	})
	hp.redoBtn = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() {
		hp.dev.Redo()
	})

	buttons := container.NewHBox(hp.undoBtn, hp.redoBtn)
	scroll := container.NewVScroll(hp.list)
	scroll.SetMinSize(fyne.NewSize(240, 300))

	hp.root = widget.NewCard(lang.L("history"), "",
		container.NewBorder(buttons, nil, nil, nil, scroll))
}

func (hp *HistoryPanel) GetContainer() fyne.CanvasObject {
	return hp.root
}

// Refresh reloads the list from the session history and mirrors the
// current position in the selection and button states.
func (hp *HistoryPanel) Refresh() {
	hp.items = hp.dev.History().Items()

	hp.updating = true
	hp.list.Refresh()
	if pos := hp.dev.History().Pos(); pos >= 0 && pos < len(hp.items) {
		hp.list.Select(pos)
	}
	hp.updating = false

	setEnabled(hp.undoBtn, hp.dev.History().CanUndo())
	setEnabled(hp.redoBtn, hp.dev.History().CanRedo())
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
