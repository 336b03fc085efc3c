// Image file loading and export
package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

var supportedExtensions = []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"}

// Loader reads and writes image files through OpenCV.
type Loader struct {
	log *logrus.Entry
}

func NewLoader(logger *logrus.Logger) *Loader {
	return &Loader{
		log: logger.WithField("component", "io"),
	}
}

// Load reads an image in color mode. The result is always 3-channel BGR,
// regardless of the file's own channel layout.
func (l *Loader) Load(path string) (gocv.Mat, error) {
	l.log.WithField("path", path).Debug("IO: Loading image")

	if !Supported(path) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return gocv.NewMat(), fmt.Errorf("load image: %s", path)
	}

	l.log.WithFields(logrus.Fields{
		"path":     path,
		"width":    mat.Cols(),
		"height":   mat.Rows(),
		"channels": mat.Channels(),
	}).Info("IO: Image loaded")

	return mat, nil
}

// Save writes the mat to path. The encoder is chosen from the extension.
func (l *Loader) Save(mat gocv.Mat, path string) error {
	l.log.WithField("path", path).Debug("IO: Saving image")

	if mat.Empty() {
		return fmt.Errorf("cannot save empty image")
	}
	if !Supported(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	if !gocv.IMWrite(path, mat) {
		return fmt.Errorf("save image: %s", path)
	}

	l.log.WithFields(logrus.Fields{
		"path":   path,
		"width":  mat.Cols(),
		"height": mat.Rows(),
	}).Info("IO: Image saved")

	return nil
}

// Validate checks that path names a readable, well-formed image without
// keeping it in memory.
func (l *Loader) Validate(path string) error {
	if !Supported(path) {
		return fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadGrayScale)
	defer mat.Close()

	if mat.Empty() {
		return fmt.Errorf("invalid or corrupted image file: %s", path)
	}
	if mat.Cols() <= 0 || mat.Rows() <= 0 {
		return fmt.Errorf("invalid image dimensions: %s", path)
	}
	return nil
}

// Supported reports whether the file extension names a readable format.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range supportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}

// SupportedExtensions returns the recognized file extensions, dot included.
func SupportedExtensions() []string {
	out := make([]string, len(supportedExtensions))
	copy(out, supportedExtensions)
	return out
}
