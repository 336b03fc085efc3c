// Vibrance: saturation scaling in HSV space
package ops

import (
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newVibrance() *develop.Operation {
	return &develop.Operation{
		Name:  "vibrance",
		Title: "vibrance",
		Order: 50,
		Schema: params.MustSchema(
			params.Float("strength", "strength", 0, 2, 1),
		),
		Process: processVibrance,
	}
}

func processVibrance(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	strength := floatParam(p, "strength")
	if strength == 1 || src.Channels() < 3 {
		return src.Clone(), nil
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(src, &hsv, gocv.ColorBGRToHSV)

	channels := gocv.Split(hsv)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()
	channels[1].MultiplyFloat(strength)
	gocv.Merge(channels, &hsv)

	out := gocv.NewMat()
	gocv.CvtColor(hsv, &out, gocv.ColorHSVToBGR)
	return out, nil
}
