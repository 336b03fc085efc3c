// Sharpen: unsharp masking with a local-contrast threshold
package ops

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newSharpen() *develop.Operation {
	return &develop.Operation{
		Name:  "sharpen",
		Title: "sharpen",
		Order: 40,
		Schema: params.MustSchema(
			params.Float("radius", "radius", 0.5, 60, 2),
			params.Float("amount", "amount", 0, 2, 0.5),
			params.Float("threshold", "threshold", 0, 100, 0),
		),
		Process: processSharpen,
	}
}

func processSharpen(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	radius := float64(floatParam(p, "radius"))
	amount := float64(floatParam(p, "amount"))
	threshold := float64(floatParam(p, "threshold"))
	if amount == 0 {
		return src.Clone(), nil
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(0, 0), radius, radius, gocv.BorderDefault)

	// Unsharp mask: src + amount * (src - blurred).
	sharp := gocv.NewMat()
	gocv.AddWeighted(src, 1+amount, blurred, -amount, 0, &sharp)
	if threshold == 0 {
		return sharp, nil
	}
	defer sharp.Close()

	// Sharpen only where local contrast exceeds the threshold, so flat
	// areas keep their noise floor.
	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(src, blurred, &diff)
	if diff.Channels() > 1 {
		gocv.CvtColor(diff, &diff, gocv.ColorBGRToGray)
	}

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, threshold, 255, gocv.ThresholdBinary)

	out := src.Clone()
	sharp.CopyToWithMask(&out, mask)
	return out, nil
}
