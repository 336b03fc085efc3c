// Sidecar files: the whole edit state of one image, stored next to it
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/maxime-henry/darktable/internal/develop"
)

// Sidecar is the complete edit applied to one source image: one entry per
// module, in pipeline order. It lives next to the image so edits travel
// with the file.
type Sidecar struct {
	Source  string          `toml:"source"`
	Written time.Time       `toml:"written"`
	Modules []SidecarModule `toml:"module"`
}

// SidecarModule is one module's slice of the edit.
type SidecarModule struct {
	Op      string         `toml:"op"`
	Enabled bool           `toml:"enabled"`
	Params  map[string]any `toml:"params"`
}

// SidecarPath returns where the sidecar for an image lives.
func SidecarPath(imagePath string) string {
	return imagePath + ".dt.toml"
}

// CaptureSidecar snapshots the session's full edit state.
func CaptureSidecar(dev *develop.Develop) *Sidecar {
	sc := &Sidecar{
		Written: time.Now(),
	}
	if path := dev.Image().Path(); path != "" {
		sc.Source = filepath.Base(path)
	}
	for _, m := range dev.Modules() {
		sc.Modules = append(sc.Modules, SidecarModule{
			Op:      m.Op().Name,
			Enabled: m.Enabled(),
			Params:  m.Params().Map(),
		})
	}
	return sc
}

// Apply writes the sidecar's edit onto a session. Every referenced
// operation must already have a module in the session.
func (sc *Sidecar) Apply(dev *develop.Develop) error {
	for _, entry := range sc.Modules {
		m, ok := dev.ModuleByOp(entry.Op)
		if !ok {
			return fmt.Errorf("sidecar references unknown operation %q", entry.Op)
		}
		if err := m.Params().SetMap(entry.Params); err != nil {
			return fmt.Errorf("sidecar %s: %w", entry.Op, err)
		}
		m.SetEnabled(entry.Enabled)
	}
	return nil
}

// WriteSidecar stores the sidecar at path.
func WriteSidecar(path string, sc *Sidecar) error {
	if err := writeTOML(path, sc); err != nil {
		return fmt.Errorf("write sidecar: %w", err)
	}
	return nil
}

// ReadSidecar loads a sidecar file.
func ReadSidecar(path string) (*Sidecar, error) {
	var sc Sidecar
	if _, err := toml.DecodeFile(path, &sc); err != nil {
		return nil, fmt.Errorf("read sidecar %s: %w", path, err)
	}
	return &sc, nil
}

// HasSidecar reports whether an image has a sidecar next to it.
func HasSidecar(imagePath string) bool {
	_, err := os.Stat(SidecarPath(imagePath))
	return err == nil
}
