// Package script embeds a Lua runtime for automating edit sessions.
package script

import (
	"fmt"

	"github.com/sirupsen/logrus"
	lua "github.com/yuin/gopher-lua"

	"github.com/maxime-henry/darktable/internal/develop"
	"github.com/maxime-henry/darktable/internal/params"
)

// Runtime is one Lua VM bound to a develop session. Scripts drive the
// session through a global `darktable` table; parameter access goes
// through the same validated accessors the rest of the application uses.
//
// The runtime is not safe for concurrent use. Callers invoke Run,
// RunString and HandleHistoryChange from one goroutine.
type Runtime struct {
	state    *lua.LState
	dev      *develop.Develop
	log      *logrus.Entry
	onChange []*lua.LFunction
}

func NewRuntime(dev *develop.Develop, logger *logrus.Logger) *Runtime {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	r := &Runtime{
		state: L,
		dev:   dev,
		log:   logger.WithField("component", "script"),
	}
	r.registerDarktable()
	return r
}

// Close shuts the VM down.
func (r *Runtime) Close() {
	r.state.Close()
}

// Run executes a script file.
func (r *Runtime) Run(path string) error {
	r.log.WithField("path", path).Info("SCRIPT: Running file")
	if err := r.state.DoFile(path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

// RunString executes Lua source directly.
func (r *Runtime) RunString(src string) error {
	if err := r.state.DoString(src); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return nil
}

// HandleHistoryChange invokes every registered on_change callback with the
// label of the history item now current. Wire it into the history change
// notification alongside the preview refresh.
func (r *Runtime) HandleHistoryChange() {
	if len(r.onChange) == 0 {
		return
	}
	label := ""
	if items := r.dev.History().Items(); len(items) > 0 {
		if pos := r.dev.History().Pos(); pos >= 0 && pos < len(items) {
			label = items[pos].Label
		}
	}
	for _, fn := range r.onChange {
		if err := r.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LString(label)); err != nil {
			r.log.WithError(err).Warn("SCRIPT: on_change callback failed")
		}
	}
}

// registerDarktable builds the global `darktable` table.
func (r *Runtime) registerDarktable() {
	L := r.state
	t := L.NewTable()

	L.SetField(t, "get", L.NewFunction(func(L *lua.LState) int {
		f := r.checkField(L, L.CheckString(1), L.CheckString(2))
		L.Push(fieldToLua(f))
		return 1
	}))

	L.SetField(t, "set", L.NewFunction(func(L *lua.LState) int {
		op := L.CheckString(1)
		f := r.checkField(L, op, L.CheckString(2))
		v, err := luaToGo(L.CheckAny(3))
		if err != nil {
			L.RaiseError("darktable.set: %v", err)
		}
		if err := f.Set(v); err != nil {
			L.RaiseError("darktable.set %s.%s: %v", op, f.Desc().Name, err)
		}
		return 0
	}))

	L.SetField(t, "enable", L.NewFunction(func(L *lua.LState) int {
		m := r.checkModule(L, L.CheckString(1))
		m.SetEnabled(L.CheckBool(2))
		return 0
	}))

	L.SetField(t, "commit", L.NewFunction(func(L *lua.LState) int {
		r.dev.Commit(L.CheckString(1))
		return 0
	}))

	L.SetField(t, "on_change", L.NewFunction(func(L *lua.LState) int {
		fn := L.CheckFunction(1)
		r.onChange = append(r.onChange, fn)
		return 0
	}))

	L.SetGlobal("darktable", t)
}

func (r *Runtime) checkModule(L *lua.LState, op string) *develop.Module {
	m, ok := r.dev.ModuleByOp(op)
	if !ok {
		L.RaiseError("unknown operation '%s'", op)
	}
	return m
}

func (r *Runtime) checkField(L *lua.LState, op, param string) params.Field {
	m := r.checkModule(L, op)
	f, ok := m.Params().Field(param)
	if !ok {
		L.RaiseError("operation '%s' has no parameter '%s'", op, param)
	}
	return f
}

// fieldToLua converts a field value into the Lua value space. Enums become
// their value name when one exists.
func fieldToLua(f params.Field) lua.LValue {
	d := f.Desc()
	switch d.Kind {
	case params.KindFloat:
		return lua.LNumber(f.Float())
	case params.KindInt:
		return lua.LNumber(f.Int())
	case params.KindUInt:
		return lua.LNumber(f.Uint())
	case params.KindBool:
		return lua.LBool(f.Bool())
	case params.KindEnum:
		v := f.Enum()
		if name := d.Enum.ValueName(v); name != "" {
			return lua.LString(name)
		}
		return lua.LNumber(v)
	default:
		return lua.LNil
	}
}

// luaToGo maps Lua values onto the generic setter's input types.
func luaToGo(v lua.LValue) (any, error) {
	switch lv := v.(type) {
	case lua.LNumber:
		return float64(lv), nil
	case lua.LBool:
		return bool(lv), nil
	case lua.LString:
		return string(lv), nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", v.Type())
	}
}
