package bind

import (
	"io"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

func newTestUI(t *testing.T) (*UI, *develop.Develop, *develop.Module) {
	t.Helper()
	test.NewApp()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dev := develop.NewDevelop(logger, 100)
	m := dev.AddModule(&develop.Operation{
		Name:  "testop",
		Title: "testop",
		Order: 10,
		Schema: params.MustSchema(
			params.Float("exposure", "exposure", -3, 3, 0),
			params.Float("fraction", "fraction", 0, 1, 0.5),
			params.Int("radius", "radius", 0, 25, 3),
			params.UInt("seed", "seed", 0, 99, 0),
			params.Bool("clip", "clip highlights", false),
			params.Enum("rotate", "rotation", []params.EnumValue{
				{Name: "none", Value: 0, Description: "none"},
				{Name: "cw", Value: 90, Description: "90 degrees clockwise"},
				{Name: "half", Value: 180, Description: "180 degrees"},
			}, 0),
		),
	})
	dev.Baseline("original")
	return NewUI(dev, logger), dev, m
}

func TestSliderScale(t *testing.T) {
	testCases := []struct {
		name     string
		min, max float32
		step     float64
		digits   int
	}{
		{"unit range", 0, 1, 0.01, 2},
		{"degrees", -180, 180, 1, 2},
		{"range of exactly 100", 0, 100, 1, 2},
		{"small signed range", -0.1, 0.1, 0.001, 3},
		{"five times power", 0.5, 60, 0.5, 2},
		{"two units", 0, 2, 0.01, 2},
		{"tiny range", 0, 0.05, 0.0005, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			step, digits := sliderScale(tc.min, tc.max)
			assert.InDelta(t, tc.step, float64(step), 1e-9)
			assert.Equal(t, tc.digits, digits)
		})
	}
}

func TestFloatFormat(t *testing.T) {
	assert.Equal(t, "%.2f", floatFormat(2, false))
	assert.Equal(t, "%+.2f", floatFormat(2, true))
	assert.Equal(t, "%+.3f", floatFormat(3, true))
}

func TestSliderFloatBinding(t *testing.T) {
	ui, dev, m := newTestUI(t)

	s := ui.Slider(m, "exposure")
	require.NotNil(t, s)
	assert.Equal(t, float64(-3), s.Min)
	assert.Equal(t, float64(3), s.Max)
	assert.InDelta(t, 0.01, s.Step, 1e-9)
	assert.Equal(t, float64(0), s.Value)

	s.SetValue(1.5)

	f, _ := m.Params().Field("exposure")
	assert.Equal(t, float32(1.5), f.Float())
	assert.Equal(t, 2, dev.History().Len(), "one commit after the baseline")
}

func TestSliderIntBinding(t *testing.T) {
	ui, dev, m := newTestUI(t)

	s := ui.Slider(m, "radius")
	assert.Equal(t, float64(1), s.Step)
	assert.Equal(t, float64(3), s.Value)

	s.SetValue(7)

	f, _ := m.Params().Field("radius")
	assert.Equal(t, int32(7), f.Int())
	assert.Equal(t, 2, dev.History().Len())
}

func TestSliderPlaceholders(t *testing.T) {
	ui, dev, m := newTestUI(t)

	for _, name := range []string{"clip", "seed", "rotate", "missing"} {
		s := ui.Slider(m, name)
		require.NotNil(t, s, name)
		assert.True(t, s.Disabled(), name)
	}

	// Placeholders carry no binding: driving them changes nothing.
	before := dev.History().Len()
	ui.Slider(m, "clip").SetValue(1)
	assert.Equal(t, before, dev.History().Len())

	f, _ := m.Params().Field("clip")
	assert.False(t, f.Bool())
}

func TestSelectBool(t *testing.T) {
	ui, dev, m := newTestUI(t)

	sel := ui.Select(m, "clip")
	require.Equal(t, []string{"no", "yes"}, sel.Options)
	assert.Equal(t, 0, sel.SelectedIndex())

	sel.SetSelectedIndex(1)

	f, _ := m.Params().Field("clip")
	assert.True(t, f.Bool())
	assert.Equal(t, 2, dev.History().Len())

	// Re-selecting the same choice never commits again.
	sel.SetSelectedIndex(1)
	assert.Equal(t, 2, dev.History().Len())
}

func TestSelectEnumAuxValues(t *testing.T) {
	ui, dev, m := newTestUI(t)

	sel := ui.Select(m, "rotate")
	require.Equal(t, []string{"none", "90 degrees clockwise", "180 degrees"}, sel.Options)
	assert.Equal(t, 0, sel.SelectedIndex())

	sel.SetSelectedIndex(2)

	f, _ := m.Params().Field("rotate")
	assert.Equal(t, int32(180), f.Enum(), "stored value comes from the table, not the index")
	assert.Equal(t, 2, dev.History().Len())
}

func TestSelectIntIndexFallback(t *testing.T) {
	ui, dev, m := newTestUI(t)

	sel := ui.Select(m, "radius")
	assert.Empty(t, sel.Options, "no choices for plain int fields")

	// A caller that populates choices later binds by plain index.
	sel.Options = []string{"0", "1", "2", "3", "4", "5"}
	sel.SetSelectedIndex(5)

	f, _ := m.Params().Field("radius")
	assert.Equal(t, int32(5), f.Int())
	assert.Equal(t, 2, dev.History().Len())
}

func TestSelectUintIndexFallback(t *testing.T) {
	ui, _, m := newTestUI(t)

	sel := ui.Select(m, "seed")
	sel.Options = []string{"0", "1", "2"}
	sel.SetSelectedIndex(2)

	f, _ := m.Params().Field("seed")
	assert.Equal(t, uint32(2), f.Uint())
}

func TestSelectPlaceholders(t *testing.T) {
	ui, dev, m := newTestUI(t)

	for _, name := range []string{"exposure", "missing"} {
		sel := ui.Select(m, name)
		require.NotNil(t, sel, name)
		assert.True(t, sel.Disabled(), name)
	}
	assert.Equal(t, 1, dev.History().Len())
}

func TestCheckBinding(t *testing.T) {
	ui, dev, m := newTestUI(t)

	c := ui.Check(m, "clip")
	assert.Equal(t, "clip highlights", c.Text)
	assert.False(t, c.Checked)

	c.SetChecked(true)

	f, _ := m.Params().Field("clip")
	assert.True(t, f.Bool())
	assert.Equal(t, 2, dev.History().Len())
}

func TestCheckPlaceholder(t *testing.T) {
	ui, dev, m := newTestUI(t)

	c := ui.Check(m, "exposure")
	require.NotNil(t, c)
	assert.True(t, c.Disabled())
	assert.Equal(t, "'exposure' is not a bool parameter", c.Text)

	c.SetChecked(true)
	assert.Equal(t, 1, dev.History().Len())
}

func TestResetSuppressesPropagation(t *testing.T) {
	ui, dev, m := newTestUI(t)
	s := ui.Slider(m, "exposure")
	f, _ := m.Params().Field("exposure")

	release := ui.BeginReset()
	s.SetValue(2)

	assert.Equal(t, float32(0), f.Float(), "no field write under reset")
	assert.Equal(t, 1, dev.History().Len(), "no commit under reset")

	release()
	release() // releasing twice is harmless
	assert.False(t, ui.InReset())

	s.SetValue(1)
	assert.Equal(t, float32(1), f.Float())
	assert.Equal(t, 2, dev.History().Len())
}

func TestResetNesting(t *testing.T) {
	ui, _, _ := newTestUI(t)

	outer := ui.BeginReset()
	inner := ui.BeginReset()
	inner()
	assert.True(t, ui.InReset())
	outer()
	assert.False(t, ui.InReset())
}

func TestEqualValueWritesWithoutCommit(t *testing.T) {
	ui, dev, m := newTestUI(t)
	s := ui.Slider(m, "exposure")
	f, _ := m.Params().Field("exposure")

	hooks := 0
	m.GuiChanged = func(fyne.CanvasObject, any) { hooks++ }
	resets := 0
	dev.Picker().SetOnReset(func(*develop.Module) { resets++ })

	// The field moved externally; the widget still shows the old value.
	// The handler then sees new == previous.
	f.SetFloat(1.5)
	s.SetValue(1.5)

	assert.Equal(t, float32(1.5), f.Float())
	assert.Equal(t, 1, dev.History().Len(), "no commit for an unchanged value")
	assert.Zero(t, hooks)
	assert.Zero(t, resets)
}

func TestChangedValuePropagationOrder(t *testing.T) {
	ui, dev, m := newTestUI(t)
	s := ui.Slider(m, "exposure")

	var events []string
	var hookCtrl fyne.CanvasObject
	var hookPrevious any
	m.GuiChanged = func(ctrl fyne.CanvasObject, previous any) {
		events = append(events, "hook")
		hookCtrl = ctrl
		hookPrevious = previous
	}
	dev.Picker().SetOnReset(func(*develop.Module) {
		events = append(events, "picker")
	})
	dev.History().SetOnChange(func() {
		events = append(events, "history")
	})

	s.SetValue(2)

	require.Equal(t, []string{"hook", "picker", "history"}, events)
	assert.Same(t, s, hookCtrl)
	assert.Equal(t, float32(0), hookPrevious)
	assert.Equal(t, 2, dev.History().Len())
}

func TestPickerResetOnChange(t *testing.T) {
	ui, dev, m := newTestUI(t)
	s := ui.Slider(m, "exposure")

	dev.Picker().Request(m)
	require.Equal(t, m, dev.Picker().Active())

	s.SetValue(1)
	assert.Nil(t, dev.Picker().Active(), "parameter change disarms the picker")
}

func TestContainerLazyAndShared(t *testing.T) {
	ui, _, m := newTestUI(t)

	assert.Empty(t, ui.containers, "no container before the first bind")

	s := ui.Slider(m, "exposure")
	_ = s
	c := ui.Container(m)
	require.NotNil(t, c)
	assert.Same(t, c, ui.Container(m))
	assert.Len(t, c.Objects, 1)

	// Placeholders land in the same container.
	ui.Slider(m, "clip")
	assert.Len(t, c.Objects, 2)
}

func TestBindingDoesNotCommit(t *testing.T) {
	ui, dev, m := newTestUI(t)

	ui.Slider(m, "exposure")
	ui.Check(m, "clip")
	ui.Select(m, "rotate")

	assert.Equal(t, 1, dev.History().Len(), "constructing controls records nothing")
}

func TestSyncRefreshes(t *testing.T) {
	ui, dev, m := newTestUI(t)

	s := ui.Slider(m, "exposure")
	c := ui.Check(m, "clip")
	sel := ui.Select(m, "rotate")

	before := dev.History().Len()

	fe, _ := m.Params().Field("exposure")
	fe.SetFloat(2)
	fb, _ := m.Params().Field("clip")
	fb.SetBool(true)
	fr, _ := m.Params().Field("rotate")
	fr.SetEnum(180)

	ui.Sync(m)

	assert.Equal(t, float64(2), s.Value)
	assert.True(t, c.Checked)
	assert.Equal(t, 2, sel.SelectedIndex())
	assert.Equal(t, before, dev.History().Len(), "sync never commits")
	assert.False(t, ui.InReset(), "reset released after sync")
}
