// White balance: per-channel gains with neutral-patch picking
package ops

import (
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newWhiteBalance() *develop.Operation {
	return &develop.Operation{
		Name:  "whitebalance",
		Title: "white balance",
		Order: 20,
		Schema: params.MustSchema(
			params.Float("red", "red gain", 0.25, 4, 1),
			params.Float("blue", "blue gain", 0.25, 4, 1),
		),
		Process: processWhiteBalance,
	}
}

func processWhiteBalance(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	red := floatParam(p, "red")
	blue := floatParam(p, "blue")
	if src.Channels() < 3 || (red == 1 && blue == 1) {
		return src.Clone(), nil
	}

	channels := gocv.Split(src)
	defer func() {
		for _, ch := range channels {
			ch.Close()
		}
	}()

	// BGR order: blue gain on 0, red gain on 2, green untouched.
	channels[0].MultiplyFloat(blue)
	channels[2].MultiplyFloat(red)

	out := gocv.NewMat()
	gocv.Merge(channels, &out)
	return out, nil
}

// ApplyNeutralSample derives channel gains that map the sampled color to
// gray and writes them into the module's white balance parameters. The
// sample is expected from a region the user considers neutral.
func ApplyNeutralSample(m *develop.Module, s develop.Sample) {
	red, ok := m.Params().Field("red")
	if !ok {
		return
	}
	blue, ok := m.Params().Field("blue")
	if !ok {
		return
	}
	red.SetFloat(neutralGain(s.G, s.R))
	blue.SetFloat(neutralGain(s.G, s.B))
}

func neutralGain(reference, channel float64) float32 {
	if channel <= 0 {
		return 1
	}
	gain := reference / channel
	if gain < 0.25 {
		gain = 0.25
	}
	if gain > 4 {
		gain = 4
	}
	return float32(gain)
}
