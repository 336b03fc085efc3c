// Slider binding for float and int parameters
package bind

import (
	"fmt"
	"math"
	"strconv"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/lang"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

// Slider binds a float or int parameter to a new slider and appends it to
// the module's container. Any other kind, or an unknown name, yields a
// disabled placeholder so the panel still renders.
func (u *UI) Slider(m *develop.Module, name string) *widget.Slider {
	f, ok := m.Params().Field(name)
	if !ok || (f.Desc().Kind != params.KindFloat && f.Desc().Kind != params.KindInt) {
		msg := fmt.Sprintf("'%s' is not a float/int parameter", name)
		s := widget.NewSlider(0, 1)
		s.Disable()
		u.placeholder(m, name, msg, container.NewVBox(widget.NewLabel(msg), s))
		return s
	}

	d := f.Desc()
	var s *widget.Slider
	var value *widget.Label

	switch d.Kind {
	case params.KindFloat:
		min, max := d.Float.Min, d.Float.Max
		step, digits := sliderScale(min, max)
		format := floatFormat(digits, min < 0)

		s = widget.NewSlider(float64(min), float64(max))
		s.Step = float64(step)
		value = widget.NewLabel(fmt.Sprintf(format, f.Float()))
		s.SetValue(float64(f.Float()))

		s.OnChanged = func(v float64) {
			if u.InReset() {
				return
			}
			newv := float32(v)
			previous := f.Float()
			f.SetFloat(newv)
			value.SetText(fmt.Sprintf(format, newv))
			if newv != previous {
				u.processChanged(m, s, previous)
			}
		}
		u.registerSyncer(m, func() {
			cur := f.Float()
			s.SetValue(float64(cur))
			value.SetText(fmt.Sprintf(format, cur))
		})

	case params.KindInt:
		min, max := d.Int.Min, d.Int.Max

		s = widget.NewSlider(float64(min), float64(max))
		s.Step = 1
		value = widget.NewLabel(strconv.Itoa(int(f.Int())))
		s.SetValue(float64(f.Int()))

		s.OnChanged = func(v float64) {
			if u.InReset() {
				return
			}
			newv := int32(math.Round(v))
			previous := f.Int()
			f.SetInt(newv)
			value.SetText(strconv.Itoa(int(newv)))
			if newv != previous {
				u.processChanged(m, s, previous)
			}
		}
		u.registerSyncer(m, func() {
			cur := f.Int()
			s.SetValue(float64(cur))
			value.SetText(strconv.Itoa(int(cur)))
		})
	}

	title := widget.NewLabel(lang.L(d.Description))
	u.Container(m).Add(container.NewVBox(
		container.NewHBox(title, layout.NewSpacer(), value),
		s,
	))
	return s
}

// sliderScale derives the display step and decimal digit count from a
// float range: step 1 for ranges spanning 100 or more, otherwise a
// power-of-ten (or five times one) just below a hundredth of the range.
// The +0.1 nudge keeps a log that lands a hair under an integer from
// flooring one power too far down.
func sliderScale(min, max float32) (float32, int) {
	top := math.Min(float64(max-min), math.Max(math.Abs(float64(min)), math.Abs(float64(max))))
	step := float32(1)
	digits := 2
	if top < 100 {
		log10step := math.Log10(top / 100)
		exponent := math.Floor(log10step + 0.1)
		step = float32(math.Pow(10, exponent))
		if log10step-exponent > 0.5 {
			step *= 5
		}
		if exponent < -2 {
			digits = int(-exponent)
		}
	}
	return step, digits
}

// floatFormat builds the value label format, with an explicit sign for
// ranges reaching below zero.
func floatFormat(digits int, signed bool) string {
	if signed {
		return fmt.Sprintf("%%+.%df", digits)
	}
	return fmt.Sprintf("%%.%df", digits)
}
