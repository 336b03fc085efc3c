// Grain: seeded synthetic film grain
package ops

import (
	"fmt"
	"image"
	"math/rand"

	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newGrain() *develop.Operation {
	return &develop.Operation{
		Name:  "grain",
		Title: "grain",
		Order: 55,
		Schema: params.MustSchema(
			params.Float("coarseness", "coarseness", 0, 60, 20),
			params.Float("strength", "strength", 0, 100, 25),
			params.UInt("seed", "seed", 0, 9999, 0),
		),
		Process: processGrain,
	}
}

func processGrain(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	strength := float64(floatParam(p, "strength")) / 100
	if strength == 0 {
		return src.Clone(), nil
	}
	coarseness := floatParam(p, "coarseness")
	seed := uintParam(p, "seed")

	// Grain cells grow with coarseness; the noise field is generated at
	// reduced resolution and upscaled without interpolation.
	cell := 1 + int(coarseness/10)
	noiseCols := (src.Cols() + cell - 1) / cell
	noiseRows := (src.Rows() + cell - 1) / cell
	if noiseCols < 1 || noiseRows < 1 {
		return src.Clone(), nil
	}

	rng := rand.New(rand.NewSource(int64(seed)))
	data := make([]byte, noiseRows*noiseCols)
	rng.Read(data)

	field, err := gocv.NewMatFromBytes(noiseRows, noiseCols, gocv.MatTypeCV8U, data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("grain field: %w", err)
	}
	defer field.Close()

	noise := gocv.NewMat()
	defer noise.Close()
	gocv.Resize(field, &noise, image.Pt(src.Cols(), src.Rows()), 0, 0, gocv.InterpolationNearestNeighbor)

	if src.Channels() == 3 {
		gocv.CvtColor(noise, &noise, gocv.ColorGrayToBGR)
	}

	// Zero-mean blend: uniform noise is centered before it is added.
	out := gocv.NewMat()
	gocv.AddWeighted(src, 1, noise, strength, -strength*128, &out)
	return out, nil
}
