package develop

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxime-henry/darktable/internal/params"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testOp(name string, order int) *Operation {
	return &Operation{
		Name:   name,
		Title:  name,
		Order:  order,
		Schema: params.MustSchema(params.Float("value", "value", -10, 10, 0)),
	}
}

func TestAddModuleKeepsPipelineOrder(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	d.AddModule(testOp("sharpen", 40))
	d.AddModule(testOp("orientation", 5))
	d.AddModule(testOp("exposure", 10))

	mods := d.Modules()
	require.Len(t, mods, 3)
	assert.Equal(t, "orientation", mods[0].Op().Name)
	assert.Equal(t, "exposure", mods[1].Op().Name)
	assert.Equal(t, "sharpen", mods[2].Op().Name)

	m, ok := d.ModuleByOp("exposure")
	require.True(t, ok)
	assert.Equal(t, "exposure", m.Op().Name)

	_, ok = d.ModuleByOp("grain")
	assert.False(t, ok)
}

func setValue(t *testing.T, m *Module, v float32) {
	t.Helper()
	f, ok := m.Params().Field("value")
	require.True(t, ok)
	f.SetFloat(v)
}

func TestHistoryCommitAndDedup(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")
	require.Equal(t, 1, d.History().Len())

	setValue(t, m, 1)
	d.AddHistory(m, false)
	assert.Equal(t, 2, d.History().Len())

	// Same state again without force: suppressed.
	d.AddHistory(m, false)
	assert.Equal(t, 2, d.History().Len())

	// Force bypasses the suppression.
	d.AddHistory(m, true)
	assert.Equal(t, 3, d.History().Len())
}

func TestUndoRedoRestoresParameters(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")

	setValue(t, m, 1)
	d.AddHistory(m, true)
	setValue(t, m, 2)
	d.AddHistory(m, true)

	f, _ := m.Params().Field("value")

	require.True(t, d.Undo())
	assert.Equal(t, float32(1), f.Float())

	require.True(t, d.Undo())
	assert.Equal(t, float32(0), f.Float())
	assert.False(t, d.Undo())

	require.True(t, d.Redo())
	assert.Equal(t, float32(1), f.Float())

	require.True(t, d.Redo())
	assert.Equal(t, float32(2), f.Float())
	assert.False(t, d.Redo())
}

func TestCommitAfterUndoDropsRedoTail(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")

	setValue(t, m, 1)
	d.AddHistory(m, true)
	setValue(t, m, 2)
	d.AddHistory(m, true)

	require.True(t, d.Undo())
	require.True(t, d.History().CanRedo())

	setValue(t, m, 5)
	d.AddHistory(m, true)
	assert.False(t, d.History().CanRedo())
	assert.Equal(t, 3, d.History().Len())
}

func TestHistoryCapacityKeepsBaseline(t *testing.T) {
	d := NewDevelop(testLogger(), 3)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")

	for i := 1; i <= 4; i++ {
		setValue(t, m, float32(i))
		d.AddHistory(m, true)
	}

	items := d.History().Items()
	require.Len(t, items, 3)
	assert.Equal(t, "original", items[0].Label)

	// Undoing all the way lands on the baseline state.
	for d.Undo() {
	}
	f, _ := m.Params().Field("value")
	assert.Equal(t, float32(0), f.Float())
}

func TestGotoHistory(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")

	setValue(t, m, 1)
	d.AddHistory(m, true)
	setValue(t, m, 2)
	d.AddHistory(m, true)

	require.True(t, d.GotoHistory(1))
	f, _ := m.Params().Field("value")
	assert.Equal(t, float32(1), f.Float())

	assert.False(t, d.GotoHistory(1), "jump to current position is a no-op")
	assert.False(t, d.GotoHistory(99))
}

func TestOnRestoreFiresOnUndoOnly(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("exposure", 10))
	d.Baseline("original")

	restored := 0
	d.SetOnRestore(func() { restored++ })

	setValue(t, m, 1)
	d.AddHistory(m, true)
	assert.Equal(t, 0, restored)

	require.True(t, d.Undo())
	assert.Equal(t, 1, restored)
}

func TestPickerArmDeliverReset(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("whitebalance", 20))
	other := d.AddModule(testOp("exposure", 10))

	var delivered []Sample
	m.PickApplied = func(s Sample) { delivered = append(delivered, s) }

	p := d.Picker()
	resets := 0
	p.SetOnReset(func(*Module) { resets++ })

	p.Request(m)
	assert.Equal(t, m, p.Active())

	p.Deliver(Sample{R: 128, G: 128, B: 128})
	require.Len(t, delivered, 1)
	assert.Equal(t, 128.0, delivered[0].R)

	// Reset for a different module leaves the armed module alone.
	p.Reset(other, true)
	assert.Equal(t, m, p.Active())
	assert.Equal(t, 1, resets)

	p.Reset(m, true)
	assert.Nil(t, p.Active())
	assert.Equal(t, 2, resets)

	// Delivering while disarmed goes nowhere.
	p.Deliver(Sample{})
	assert.Len(t, delivered, 1)
}

func TestPickerToggle(t *testing.T) {
	d := NewDevelop(testLogger(), 100)
	m := d.AddModule(testOp("whitebalance", 20))

	var armed []*Module
	d.Picker().SetOnArm(func(m *Module) { armed = append(armed, m) })

	d.Picker().Toggle(m)
	assert.Equal(t, m, d.Picker().Active())

	d.Picker().Toggle(m)
	assert.Nil(t, d.Picker().Active())

	require.Len(t, armed, 2)
	assert.Equal(t, m, armed[0])
	assert.Nil(t, armed[1])
}
