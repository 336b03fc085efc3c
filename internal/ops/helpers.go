// Typed parameter reads for operation process functions
package ops

import "github.com/maxime-henry/darktable/internal/params"

// The process functions read fields of their own schemas, so lookups here
// cannot miss; a missing name would be a registration bug and panics via
// the zero Field.

func floatParam(p *params.Block, name string) float32 {
	f, _ := p.Field(name)
	return f.Float()
}

func intParam(p *params.Block, name string) int32 {
	f, _ := p.Field(name)
	return f.Int()
}

func uintParam(p *params.Block, name string) uint32 {
	f, _ := p.Field(name)
	return f.Uint()
}

func boolParam(p *params.Block, name string) bool {
	f, _ := p.Field(name)
	return f.Bool()
}

func enumParam(p *params.Block, name string) int32 {
	f, _ := p.Field(name)
	return f.Enum()
}
