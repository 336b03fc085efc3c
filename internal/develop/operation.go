// Processing operations: the registered units a develop session instantiates
package develop

import (
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/params"
)

// Operation is one registered image operation: a stable name, a pipeline
// position, a parameter schema built at registration time, and the
// processing function itself.
//
// Process receives the working image and a parameter snapshot. It must not
// close or retain src; it returns a new mat owned by the caller.
type Operation struct {
	Name    string
	Title   string
	Order   int
	Schema  *params.Schema
	Process func(src gocv.Mat, p *params.Block) (gocv.Mat, error)
}
