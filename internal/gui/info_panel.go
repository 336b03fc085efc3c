// Status bar: messages and pipeline timing
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/metrics"
)

// StatusBar is the single-line bar under the canvas: a status message on
// the left, the last pipeline timing on the right.
type StatusBar struct {
	log *logrus.Entry

	root    *fyne.Container
	message *widget.Label
	timing  *widget.Label
}

func NewStatusBar(logger *logrus.Logger) *StatusBar {
	sb := &StatusBar{
		log:     logger.WithField("component", "status"),
		message: widget.NewLabel("ready"),
		timing:  widget.NewLabel(""),
	}
	sb.timing.Importance = widget.LowImportance
	sb.root = container.NewHBox(sb.message, layout.NewSpacer(), sb.timing)
	return sb
}

func (sb *StatusBar) GetContainer() fyne.CanvasObject {
	return sb.root
}

func (sb *StatusBar) SetMessage(msg string) {
	sb.message.SetText(msg)
}

// SetTimings summarizes a processing run.
func (sb *StatusBar) SetTimings(c *metrics.Collector) {
	stats := c.Snapshot()
	if len(stats) == 0 {
		sb.timing.SetText("")
		return
	}
	sb.timing.SetText(fmt.Sprintf("%d ops · %d ms", len(stats), c.Total().Milliseconds()))
}

func (sb *StatusBar) Clear() {
	sb.message.SetText("ready")
	sb.timing.SetText("")
}
