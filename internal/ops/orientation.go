// Orientation: quarter-turn rotation and mirroring
package ops

import (
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newOrientation() *develop.Operation {
	return &develop.Operation{
		Name:  "orientation",
		Title: "orientation",
		Order: 5,
		Schema: params.MustSchema(
			params.Enum("rotate", "rotation", []params.EnumValue{
				{Name: "none", Value: 0, Description: "none"},
				{Name: "clockwise", Value: 90, Description: "90 degrees"},
				{Name: "half", Value: 180, Description: "180 degrees"},
				{Name: "counterclockwise", Value: 270, Description: "270 degrees"},
			}, 0),
			params.Bool("flip_horizontal", "mirror horizontally", false),
			params.Bool("flip_vertical", "mirror vertically", false),
		),
		Process: processOrientation,
	}
}

func processOrientation(src gocv.Mat, p *params.Block) (gocv.Mat, error) {
	out := src.Clone()
	switch enumParam(p, "rotate") {
	case 90:
		gocv.Rotate(out, &out, gocv.Rotate90Clockwise)
	case 180:
		gocv.Rotate(out, &out, gocv.Rotate180Clockwise)
	case 270:
		gocv.Rotate(out, &out, gocv.Rotate90CounterClockwise)
	}
	if boolParam(p, "flip_horizontal") {
		gocv.Flip(out, &out, 1)
	}
	if boolParam(p, "flip_vertical") {
		gocv.Flip(out, &out, 0)
	}
	return out, nil
}
