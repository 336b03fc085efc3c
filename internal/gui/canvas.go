// Preview canvas: processed image display and color sampling
package gui

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
)

// pickRadius is the half-size of the square averaged around a picked point.
const pickRadius = 4

// PreviewCanvas shows the processed preview and, while the color picker is
// armed, turns taps into averaged color samples.
type PreviewCanvas struct {
	widget.BaseWidget

	dev *develop.Develop
	log *logrus.Entry

	display *canvas.Image

	mu           sync.Mutex
	preview      gocv.Mat
	hasPreview   bool
	pickerActive bool
}

func NewPreviewCanvas(dev *develop.Develop, logger *logrus.Logger) *PreviewCanvas {
	pc := &PreviewCanvas{
		dev: dev,
		log: logger.WithField("component", "canvas"),
	}
	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PreviewCanvas) CreateRenderer() fyne.WidgetRenderer {
	pc.display = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	pc.display.FillMode = canvas.ImageFillContain
	return &previewCanvasRenderer{display: pc.display}
}

// UpdatePreview replaces the shown image. The canvas keeps its own copy of
// the mat for color sampling; the caller retains ownership of m.
func (pc *PreviewCanvas) UpdatePreview(m gocv.Mat) {
	img, err := m.ToImage()
	if err != nil {
		pc.log.WithError(err).Warn("CANVAS: Preview conversion failed")
		return
	}

	pc.mu.Lock()
	if pc.hasPreview {
		pc.preview.Close()
	}
	pc.preview = m.Clone()
	pc.hasPreview = true
	pc.mu.Unlock()

	if pc.display != nil {
		pc.display.Image = img
		pc.display.Refresh()
	}
}

// Clear drops the preview and shows nothing.
func (pc *PreviewCanvas) Clear() {
	pc.mu.Lock()
	if pc.hasPreview {
		pc.preview.Close()
		pc.hasPreview = false
	}
	pc.mu.Unlock()

	if pc.display != nil {
		pc.display.Image = image.NewRGBA(image.Rect(0, 0, 1, 1))
		pc.display.Refresh()
	}
}

// SetPickerActive switches tap handling between navigation and sampling.
func (pc *PreviewCanvas) SetPickerActive(active bool) {
	pc.mu.Lock()
	pc.pickerActive = active
	pc.mu.Unlock()
}

// Tapped samples the picked point while the picker is armed.
func (pc *PreviewCanvas) Tapped(e *fyne.PointEvent) {
	pc.mu.Lock()
	active := pc.pickerActive && pc.hasPreview
	pc.mu.Unlock()
	if !active {
		return
	}

	pt, ok := pc.positionToPixel(e.Position)
	if !ok {
		return
	}

	sample, ok := pc.sampleAround(pt)
	if !ok {
		return
	}

	pc.log.WithFields(logrus.Fields{
		"x": pt.X,
		"y": pt.Y,
	}).Debug("CANVAS: Color sampled")
	pc.dev.Picker().Deliver(sample)
}

// positionToPixel maps a widget position onto preview pixel coordinates,
// accounting for the contain-fit letterboxing.
func (pc *PreviewCanvas) positionToPixel(pos fyne.Position) (image.Point, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.hasPreview {
		return image.Point{}, false
	}

	size := pc.Size()
	cols, rows := pc.preview.Cols(), pc.preview.Rows()
	if cols <= 0 || rows <= 0 || size.Width <= 0 || size.Height <= 0 {
		return image.Point{}, false
	}

	scale := math.Min(float64(size.Width)/float64(cols), float64(size.Height)/float64(rows))
	offsetX := (float64(size.Width) - float64(cols)*scale) / 2
	offsetY := (float64(size.Height) - float64(rows)*scale) / 2

	x := (float64(pos.X) - offsetX) / scale
	y := (float64(pos.Y) - offsetY) / scale
	if x < 0 || y < 0 || x >= float64(cols) || y >= float64(rows) {
		return image.Point{}, false
	}
	return image.Point{X: int(x), Y: int(y)}, true
}

// sampleAround averages a small square around the pixel and returns it in
// RGB order.
func (pc *PreviewCanvas) sampleAround(pt image.Point) (develop.Sample, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.hasPreview {
		return develop.Sample{}, false
	}

	cols, rows := pc.preview.Cols(), pc.preview.Rows()
	rect := image.Rect(
		max(0, pt.X-pickRadius), max(0, pt.Y-pickRadius),
		min(cols, pt.X+pickRadius+1), min(rows, pt.Y+pickRadius+1),
	)
	if rect.Empty() {
		return develop.Sample{}, false
	}

	region := pc.preview.Region(rect)
	defer region.Close()
	mean := region.Mean()

	if pc.preview.Channels() >= 3 {
		// Mats are BGR.
		return develop.Sample{R: mean.Val3, G: mean.Val2, B: mean.Val1}, true
	}
	return develop.Sample{R: mean.Val1, G: mean.Val1, B: mean.Val1}, true
}

// Close releases the sampling copy.
func (pc *PreviewCanvas) Close() {
	pc.Clear()
}

type previewCanvasRenderer struct {
	display *canvas.Image
}

func (r *previewCanvasRenderer) Layout(size fyne.Size) {
	r.display.Resize(size)
}

func (r *previewCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(480, 320)
}

func (r *previewCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.display}
}

func (r *previewCanvasRenderer) Refresh() {
	r.display.Refresh()
}

func (r *previewCanvasRenderer) Destroy() {}
