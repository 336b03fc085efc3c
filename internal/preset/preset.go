// Package preset stores named parameter snapshots and whole-edit sidecars
// as TOML.
package preset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/maxime-henry/darktable/internal/develop"
)

// Preset is a named parameter snapshot for one operation. Param values use
// the block's map interchange types, so the file stays human-editable.
type Preset struct {
	Name   string         `toml:"name"`
	Op     string         `toml:"op"`
	Params map[string]any `toml:"params"`
}

// Capture snapshots a module's current parameters into a preset.
func Capture(name string, m *develop.Module) *Preset {
	return &Preset{
		Name:   name,
		Op:     m.Op().Name,
		Params: m.Params().Map(),
	}
}

// Apply writes the preset's parameters onto the module. Callers refresh any
// bound controls and record history afterwards.
func (p *Preset) Apply(m *develop.Module) error {
	if m.Op().Name != p.Op {
		return fmt.Errorf("preset %q is for %s, not %s", p.Name, p.Op, m.Op().Name)
	}
	if err := m.Params().SetMap(p.Params); err != nil {
		return fmt.Errorf("apply preset %q: %w", p.Name, err)
	}
	return nil
}

// Store keeps presets on disk, one file per preset under <dir>/<op>/.
type Store struct {
	dir string
	log *logrus.Entry
}

func NewStore(dir string, logger *logrus.Logger) *Store {
	return &Store{
		dir: dir,
		log: logger.WithField("component", "preset"),
	}
}

// Save writes the preset to <dir>/<op>/<name>.toml.
func (s *Store) Save(p *Preset) error {
	if err := validName(p.Name); err != nil {
		return err
	}
	if p.Op == "" {
		return fmt.Errorf("preset %q has no operation", p.Name)
	}

	dir := filepath.Join(s.dir, p.Op)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preset dir: %w", err)
	}
	if err := writeTOML(filepath.Join(dir, p.Name+".toml"), p); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"op":   p.Op,
		"name": p.Name,
	}).Info("PRESET: Saved")
	return nil
}

// Load reads one preset back.
func (s *Store) Load(op, name string) (*Preset, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var p Preset
	path := filepath.Join(s.dir, op, name+".toml")
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, fmt.Errorf("load preset %s/%s: %w", op, name, err)
	}
	return &p, nil
}

// List returns the preset names stored for an operation, sorted.
func (s *Store) List(op string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, op))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list presets for %s: %w", op, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a stored preset.
func (s *Store) Delete(op, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, op, name+".toml")); err != nil {
		return fmt.Errorf("delete preset %s/%s: %w", op, name, err)
	}
	return nil
}

func validName(name string) error {
	if name == "" {
		return fmt.Errorf("preset name is empty")
	}
	if strings.ContainsAny(name, `/\`) || name != filepath.Base(name) {
		return fmt.Errorf("invalid preset name %q", name)
	}
	return nil
}

// writeTOML encodes v into path via a temp file and rename.
func writeTOML(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".preset-*.toml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
