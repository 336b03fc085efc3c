// Exposure correction: black level and EV gain
package ops

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newExposure() *develop.Operation {
	return &develop.Operation{
		Name:  "exposure",
		Title: "exposure",
		Order: 10,
		Schema: params.MustSchema(
			params.Float("black", "black level correction", -0.1, 0.1, 0),
			params.Float("exposure", "exposure", -3, 3, 0),
		),
		Process: processExposure,
	}
}

func processExposure(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	black := floatParam(p, "black")
	ev := floatParam(p, "exposure")
	gain := float32(math.Pow(2, float64(ev)))

	// out = (in - black) * 2^ev, in display range.
	out := src.Clone()
	out.MultiplyFloat(gain)
	out.AddFloat(-black * 255 * gain)
	return out, nil
}
