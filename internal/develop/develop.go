// Develop session: module stack, history, picker and the processing pipeline
package develop

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/maxime-henry/darktable/internal/metrics"
)

// Develop is one editing session: the ordered module stack over a loaded
// image, its history, and the picker. Processing always runs from history
// snapshots, so background pipeline passes never race the live parameter
// blocks the GUI writes into.
type Develop struct {
	mu      sync.Mutex
	log     *logrus.Entry
	modules []*Module
	history *History
	picker  *Picker
	image   *Image
	timings *metrics.Collector

	onRestore func()
}

// NewDevelop creates an empty session.
func NewDevelop(logger *logrus.Logger, historyCapacity int) *Develop {
	return &Develop{
		log:     logger.WithField("component", "develop"),
		history: NewHistory(historyCapacity),
		picker:  NewPicker(),
		image:   NewImage(),
		timings: metrics.NewCollector(),
	}
}

// History returns the session history.
func (d *Develop) History() *History {
	return d.history
}

// Picker returns the session color picker.
func (d *Develop) Picker() *Picker {
	return d.picker
}

// Image returns the loaded image state.
func (d *Develop) Image() *Image {
	return d.image
}

// Timings returns the pipeline timing collector.
func (d *Develop) Timings() *metrics.Collector {
	return d.timings
}

// SetOnRestore installs the hook invoked after history states were applied
// back onto the modules (undo, redo, history jump).
func (d *Develop) SetOnRestore(fn func()) {
	d.mu.Lock()
	d.onRestore = fn
	d.mu.Unlock()
}

// AddModule instantiates an operation into the stack, keeping the stack
// sorted by pipeline order.
func (d *Develop) AddModule(op *Operation) *Module {
	d.mu.Lock()
	defer d.mu.Unlock()

	m := newModule(op)
	i := sort.Search(len(d.modules), func(i int) bool {
		a, b := d.modules[i].op, op
		if a.Order != b.Order {
			return a.Order > b.Order
		}
		return a.Name > b.Name
	})
	d.modules = append(d.modules, nil)
	copy(d.modules[i+1:], d.modules[i:])
	d.modules[i] = m

	d.log.WithFields(logrus.Fields{
		"op":    op.Name,
		"order": op.Order,
		"id":    m.id,
	}).Debug("DEVELOP: Module added")
	return m
}

// Modules returns the stack in pipeline order.
func (d *Develop) Modules() []*Module {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]*Module, len(d.modules))
	copy(out, d.modules)
	return out
}

// ModuleByOp returns the first module instantiating the named operation.
func (d *Develop) ModuleByOp(name string) (*Module, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modules {
		if m.op.Name == name {
			return m, true
		}
	}
	return nil, false
}

func (d *Develop) moduleByID(id string) *Module {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, m := range d.modules {
		if m.id == id {
			return m
		}
	}
	return nil
}

// Snapshot captures the live state of every module, in stack order.
func (d *Develop) Snapshot() []ModuleState {
	d.mu.Lock()
	defer d.mu.Unlock()
	states := make([]ModuleState, len(d.modules))
	for i, m := range d.modules {
		states[i] = m.state()
	}
	return states
}

// Baseline seeds the history with the current state. Call once after the
// modules are registered and initial parameters applied.
func (d *Develop) Baseline(label string) {
	d.history.Init(label, d.Snapshot())
	d.log.WithField("label", label).Debug("DEVELOP: History baseline recorded")
}

// AddHistory commits the current session state as a history item labeled
// with the module's operation. force bypasses duplicate-state suppression.
func (d *Develop) AddHistory(m *Module, force bool) {
	label := m.op.Name
	recorded := d.history.Record(label, d.Snapshot(), force)
	d.log.WithFields(logrus.Fields{
		"op":       label,
		"force":    force,
		"recorded": recorded,
	}).Debug("DEVELOP: History commit")
}

// Commit records the current session state under an arbitrary label,
// bypassing duplicate suppression. Scripts and preset application use this.
func (d *Develop) Commit(label string) {
	d.history.Record(label, d.Snapshot(), true)
	d.log.WithField("label", label).Debug("DEVELOP: History commit")
}

// Undo steps the history back and restores that state.
func (d *Develop) Undo() bool {
	states, ok := d.history.Undo()
	if !ok {
		return false
	}
	d.applyStates(states)
	return true
}

// Redo steps the history forward and restores that state.
func (d *Develop) Redo() bool {
	states, ok := d.history.Redo()
	if !ok {
		return false
	}
	d.applyStates(states)
	return true
}

// GotoHistory jumps to an absolute history position and restores it.
func (d *Develop) GotoHistory(i int) bool {
	states, ok := d.history.Goto(i)
	if !ok {
		return false
	}
	d.applyStates(states)
	return true
}

func (d *Develop) applyStates(states []ModuleState) {
	for _, s := range states {
		m := d.moduleByID(s.ModuleID)
		if m == nil {
			d.log.WithField("id", s.ModuleID).Warn("DEVELOP: History state for unknown module")
			continue
		}
		if err := m.restore(s); err != nil {
			d.log.WithFields(logrus.Fields{
				"op":    s.Op,
				"error": err,
			}).Warn("DEVELOP: Failed to restore module state")
		}
	}

	d.mu.Lock()
	notify := d.onRestore
	d.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// ProcessStates runs the pipeline described by a state snapshot over src.
// src is not closed; the returned mat is owned by the caller.
func (d *Develop) ProcessStates(src gocv.Mat, states []ModuleState) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.NewMat(), fmt.Errorf("no image to process")
	}

	start := time.Now()
	result := src.Clone()
	applied := 0

	for _, s := range states {
		if !s.Enabled {
			continue
		}
		m := d.moduleByID(s.ModuleID)
		if m == nil {
			d.log.WithField("op", s.Op).Warn("PIPELINE: Skipping state for unknown module")
			continue
		}

		block := m.op.Schema.NewBlock()
		if err := block.Restore(s.Params); err != nil {
			result.Close()
			return gocv.NewMat(), fmt.Errorf("restore %s parameters: %w", s.Op, err)
		}

		stepStart := time.Now()
		next, err := m.op.Process(result, block)
		if err != nil {
			result.Close()
			return gocv.NewMat(), fmt.Errorf("process %s: %w", s.Op, err)
		}
		result.Close()
		result = next
		applied++

		stepTime := time.Since(stepStart)
		d.timings.Observe(s.Op, stepTime)
		d.log.WithFields(logrus.Fields{
			"op":          s.Op,
			"duration_ms": stepTime.Milliseconds(),
		}).Debug("PIPELINE: Step complete")
	}

	d.log.WithFields(logrus.Fields{
		"modules":     applied,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("PIPELINE: Processing complete")
	return result, nil
}

// ProcessCurrent runs the pipeline at the current history position, or the
// live module state when no history exists yet.
func (d *Develop) ProcessCurrent(src gocv.Mat) (gocv.Mat, error) {
	states, ok := d.history.Current()
	if !ok {
		states = d.Snapshot()
	}
	return d.ProcessStates(src, states)
}

// Close releases the session's image resources.
func (d *Develop) Close() {
	d.image.Close()
}
