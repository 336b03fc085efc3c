// Blur: gaussian, median and bilateral smoothing
package ops

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

const (
	blurGaussian int32 = iota
	blurMedian
	blurBilateral
)

func newBlur() *develop.Operation {
	return &develop.Operation{
		Name:  "blur",
		Title: "blur",
		Order: 30,
		Schema: params.MustSchema(
			params.Int("radius", "radius", 1, 25, 3),
			params.Enum("mode", "mode", []params.EnumValue{
				{Name: "gaussian", Value: blurGaussian, Description: "gaussian"},
				{Name: "median", Value: blurMedian, Description: "median"},
				{Name: "bilateral", Value: blurBilateral, Description: "bilateral"},
			}, blurGaussian),
		),
		Process: processBlur,
	}
}

func processBlur(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	radius := int(intParam(p, "radius"))
	kernel := 2*radius + 1

	out := gocv.NewMat()
	switch enumParam(p, "mode") {
	case blurMedian:
		gocv.MedianBlur(src, &out, kernel)
	case blurBilateral:
		sigma := float64(kernel) * 2
		gocv.BilateralFilter(src, &out, kernel, sigma, sigma)
	default:
		gocv.GaussianBlur(src, &out, image.Pt(kernel, kernel), 0, 0, gocv.BorderDefault)
	}
	return out, nil
}
