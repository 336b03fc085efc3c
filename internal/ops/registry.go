// Built-in image operations and their registry
package ops

import (
	"sort"

	"github.com/maxime-henry/darktable/internal/develop"
)

var operations = make(map[string]*develop.Operation)

// Register adds an operation to the registry.
func Register(op *develop.Operation) {
	operations[op.Name] = op
}

// Get returns a registered operation by name.
func Get(name string) (*develop.Operation, bool) {
	op, exists := operations[name]
	return op, exists
}

// All returns every registered operation in pipeline order.
func All() []*develop.Operation {
	out := make([]*develop.Operation, 0, len(operations))
	for _, op := range operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns the registered operation names in pipeline order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, op := range all {
		names[i] = op.Name
	}
	return names
}

func init() {
	// Geometry first, then tone, color and detail.
	Register(newOrientation())
	Register(newExposure())
	Register(newWhiteBalance())

	Register(newBlur())
	Register(newSharpen())
	Register(newVibrance())
	Register(newGrain())
	Register(newMonochrome())
}
