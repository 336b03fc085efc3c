// Monochrome conversion with selectable channel mixing
package ops

import (
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

const (
	monoLuminance int32 = iota
	monoAverage
	monoRedFilter
)

func newMonochrome() *develop.Operation {
	return &develop.Operation{
		Name:  "monochrome",
		Title: "monochrome",
		Order: 60,
		Schema: params.MustSchema(
			params.Enum("mode", "mode", []params.EnumValue{
				{Name: "luminance", Value: monoLuminance, Description: "luminance"},
				{Name: "average", Value: monoAverage, Description: "channel average"},
				{Name: "red_filter", Value: monoRedFilter, Description: "red filter"},
			}, monoLuminance),
		),
		Process: processMonochrome,
	}
}

func processMonochrome(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	if src.Channels() < 3 {
		return src.Clone(), nil
	}

	gray := gocv.NewMat()
	defer gray.Close()

	switch enumParam(p, "mode") {
	case monoAverage:
		channels := gocv.Split(src)
		defer func() {
			for _, ch := range channels {
				ch.Close()
			}
		}()
		tmp := gocv.NewMat()
		defer tmp.Close()
		gocv.AddWeighted(channels[0], 1.0/3, channels[1], 1.0/3, 0, &tmp)
		gocv.AddWeighted(tmp, 1, channels[2], 1.0/3, 0, &gray)
	case monoRedFilter:
		// The red channel alone approximates a red contrast filter on
		// panchromatic film.
		channels := gocv.Split(src)
		defer func() {
			for _, ch := range channels {
				ch.Close()
			}
		}()
		channels[2].CopyTo(&gray)
	default:
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)
	}

	out := gocv.NewMat()
	gocv.CvtColor(gray, &out, gocv.ColorGrayToBGR)
	return out, nil
}
