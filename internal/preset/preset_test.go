package preset

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/ops"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newSession(t *testing.T, opNames ...string) *develop.Develop {
	t.Helper()
	dev := develop.NewDevelop(testLogger(), 8)
	t.Cleanup(dev.Close)
	for _, name := range opNames {
		op, ok := ops.Get(name)
		require.True(t, ok, name)
		dev.AddModule(op)
	}
	return dev
}

func setFloat(t *testing.T, m *develop.Module, name string, v float32) {
	t.Helper()
	f, ok := m.Params().Field(name)
	require.True(t, ok)
	f.SetFloat(v)
}

func getFloat(t *testing.T, m *develop.Module, name string) float32 {
	t.Helper()
	f, ok := m.Params().Field(name)
	require.True(t, ok)
	return f.Float()
}

func TestPresetCaptureApply(t *testing.T) {
	dev := newSession(t, "exposure")
	m, _ := dev.ModuleByOp("exposure")
	setFloat(t, m, "exposure", 1.5)

	p := Capture("bright", m)
	assert.Equal(t, "bright", p.Name)
	assert.Equal(t, "exposure", p.Op)

	setFloat(t, m, "exposure", 0)
	require.NoError(t, p.Apply(m))
	assert.InDelta(t, 1.5, getFloat(t, m, "exposure"), 1e-6)
}

func TestPresetApplyRejectsOtherOp(t *testing.T) {
	dev := newSession(t, "exposure", "blur")
	exposure, _ := dev.ModuleByOp("exposure")
	blur, _ := dev.ModuleByOp("blur")

	p := Capture("bright", exposure)
	err := p.Apply(blur)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exposure")
}

func TestStoreSaveLoadListDelete(t *testing.T) {
	store := NewStore(t.TempDir(), testLogger())
	dev := newSession(t, "exposure", "blur")
	exposure, _ := dev.ModuleByOp("exposure")
	blur, _ := dev.ModuleByOp("blur")

	setFloat(t, exposure, "exposure", 2)
	require.NoError(t, store.Save(Capture("sunny", exposure)))
	setFloat(t, exposure, "exposure", -1)
	require.NoError(t, store.Save(Capture("dim", exposure)))
	require.NoError(t, store.Save(Capture("soft", blur)))

	names, err := store.List("exposure")
	require.NoError(t, err)
	assert.Equal(t, []string{"dim", "sunny"}, names)

	loaded, err := store.Load("exposure", "sunny")
	require.NoError(t, err)
	require.NoError(t, loaded.Apply(exposure))
	assert.InDelta(t, 2, getFloat(t, exposure, "exposure"), 1e-6)

	require.NoError(t, store.Delete("exposure", "dim"))
	names, err = store.List("exposure")
	require.NoError(t, err)
	assert.Equal(t, []string{"sunny"}, names)
}

func TestStoreListUnknownOpIsEmpty(t *testing.T) {
	store := NewStore(t.TempDir(), testLogger())
	names, err := store.List("nothing")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStoreRejectsBadNames(t *testing.T) {
	store := NewStore(t.TempDir(), testLogger())
	dev := newSession(t, "exposure")
	m, _ := dev.ModuleByOp("exposure")

	for _, name := range []string{"", "a/b", `a\b`} {
		t.Run("save "+name, func(t *testing.T) {
			assert.Error(t, store.Save(Capture(name, m)))
		})
	}

	_, err := store.Load("exposure", "../escape")
	assert.Error(t, err)
}

func TestSidecarRoundtrip(t *testing.T) {
	dev := newSession(t, "exposure", "blur")
	exposure, _ := dev.ModuleByOp("exposure")
	setFloat(t, exposure, "exposure", 1.25)
	exposure.SetEnabled(true)

	sc := CaptureSidecar(dev)
	assert.Len(t, sc.Modules, 2)

	path := filepath.Join(t.TempDir(), "photo.jpg.dt.toml")
	require.NoError(t, WriteSidecar(path, sc))

	got, err := ReadSidecar(path)
	require.NoError(t, err)
	assert.Equal(t, sc.Source, got.Source)
	assert.WithinDuration(t, sc.Written, got.Written, time.Second)

	fresh := newSession(t, "exposure", "blur")
	require.NoError(t, got.Apply(fresh))

	m, _ := fresh.ModuleByOp("exposure")
	assert.True(t, m.Enabled())
	assert.InDelta(t, 1.25, getFloat(t, m, "exposure"), 1e-6)

	b, _ := fresh.ModuleByOp("blur")
	assert.False(t, b.Enabled())
}

func TestSidecarApplyUnknownOp(t *testing.T) {
	dev := newSession(t, "exposure")
	sc := &Sidecar{Modules: []SidecarModule{{Op: "does-not-exist"}}}

	err := sc.Apply(dev)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does-not-exist")
}

func TestSidecarPath(t *testing.T) {
	assert.Equal(t, "/photos/img.jpg.dt.toml", SidecarPath("/photos/img.jpg"))
	assert.False(t, HasSidecar(filepath.Join(t.TempDir(), "img.jpg")))
}
