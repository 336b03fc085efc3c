// Loaded image state: full-resolution original plus downscaled preview
package develop

import (
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// Image holds the session's source image and the working preview the GUI
// pipeline runs on. Accessors hand out clones; the mats inside are owned
// here and released by Close.
type Image struct {
	mu       sync.RWMutex
	original gocv.Mat
	preview  gocv.Mat
	path     string
	width    int
	height   int
	loaded   bool
}

// NewImage creates an empty container.
func NewImage() *Image {
	return &Image{
		original: gocv.NewMat(),
		preview:  gocv.NewMat(),
	}
}

// SetOriginal stores a new source image and derives the preview, scaled so
// its longest side is at most previewLongest (0 keeps full resolution).
// The input mat is cloned; the caller keeps ownership.
func (img *Image) SetOriginal(mat gocv.Mat, path string, previewLongest int) error {
	if mat.Empty() {
		return fmt.Errorf("cannot use empty image")
	}
	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid image dimensions: %dx%d", mat.Cols(), mat.Rows())
	}
	if c := mat.Channels(); c != 1 && c != 3 && c != 4 {
		return fmt.Errorf("unsupported number of channels: %d", c)
	}

	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.original.Empty() {
		img.original.Close()
	}
	if !img.preview.Empty() {
		img.preview.Close()
	}

	img.original = mat.Clone()
	img.preview = scaleToLongest(mat, previewLongest)
	img.path = path
	img.width = mat.Cols()
	img.height = mat.Rows()
	img.loaded = true
	return nil
}

func scaleToLongest(mat gocv.Mat, longest int) gocv.Mat {
	w, h := mat.Cols(), mat.Rows()
	side := w
	if h > side {
		side = h
	}
	if longest <= 0 || side <= longest {
		return mat.Clone()
	}

	scale := float64(longest) / float64(side)
	dst := gocv.NewMat()
	gocv.Resize(mat, &dst, image.Pt(int(float64(w)*scale), int(float64(h)*scale)),
		0, 0, gocv.InterpolationArea)
	return dst
}

// Original returns a clone of the full-resolution image.
func (img *Image) Original() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if !img.loaded {
		return gocv.NewMat()
	}
	return img.original.Clone()
}

// Preview returns a clone of the working preview.
func (img *Image) Preview() gocv.Mat {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if !img.loaded {
		return gocv.NewMat()
	}
	return img.preview.Clone()
}

// Loaded reports whether an image is present.
func (img *Image) Loaded() bool {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.loaded
}

// Path returns the source file path.
func (img *Image) Path() string {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.path
}

// Bounds returns the full-resolution dimensions.
func (img *Image) Bounds() (width, height int) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	return img.width, img.height
}

// PreviewBounds returns the preview dimensions.
func (img *Image) PreviewBounds() (width, height int) {
	img.mu.RLock()
	defer img.mu.RUnlock()
	if !img.loaded {
		return 0, 0
	}
	return img.preview.Cols(), img.preview.Rows()
}

// Close releases both mats.
func (img *Image) Close() {
	img.mu.Lock()
	defer img.mu.Unlock()

	if !img.original.Empty() {
		img.original.Close()
	}
	if !img.preview.Empty() {
		img.preview.Close()
	}
	img.original = gocv.NewMat()
	img.preview = gocv.NewMat()
	img.loaded = false
	img.path = ""
	img.width, img.height = 0, 0
}
