package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/vipix/internal/dispatcher"
	"github.com/dshills/vipix/internal/input/mode"
)

// installAPI creates the vipix global table.
func (r *Runtime) installAPI() {
	mod := r.L.SetFuncs(r.L.NewTable(), map[string]lua.LGFunction{
		"bind":    r.luaBind,
		"command": r.luaCommand,
		"status":  r.luaStatus,
		"cursor":  r.luaCursor,
		"mode":    r.luaMode,
		"setmode": r.luaSetMode,
	})
	r.L.SetGlobal("vipix", mod)
}

// active returns the installed control or raises a Lua error.
func (r *Runtime) active(L *lua.LState, fn string) dispatcher.Control {
	if r.control == nil {
		L.RaiseError("vipix.%s: %v", fn, ErrNoControl)
	}
	return r.control
}

func checkMode(L *lua.LState, n int) mode.Mode {
	m, err := mode.Parse(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return m
}

// vipix.bind(mode, trigger, expansion)
func (r *Runtime) luaBind(L *lua.LState) int {
	m := checkMode(L, 1)
	trigger := L.CheckString(2)
	expansion := L.CheckString(3)

	c := r.active(L, "bind")
	if err := c.BindKey(trigger, m, expansion); err != nil {
		L.RaiseError("vipix.bind: %v", err)
	}
	return 0
}

// vipix.command(name, fn)
func (r *Runtime) luaCommand(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	if r.register == nil {
		L.RaiseError("vipix.command: commands cannot be added here")
	}
	err := r.register(name, func(c dispatcher.Control, args []string) error {
		return r.call(c, name, fn, args)
	})
	if err != nil {
		L.RaiseError("vipix.command: %v", err)
	}
	r.commands = append(r.commands, name)
	return 0
}

// call runs a Lua command function with its arguments as a table.
// A string returned by the function is shown on the status line.
func (r *Runtime) call(c dispatcher.Control, name string, fn *lua.LFunction, args []string) error {
	return r.run(c, name, func(L *lua.LState) error {
		tbl := L.NewTable()
		for _, a := range args {
			tbl.Append(lua.LString(a))
		}
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, tbl); err != nil {
			return err
		}
		ret := L.Get(-1)
		L.Pop(1)
		if s, ok := ret.(lua.LString); ok {
			c.SetStatus(string(s))
		}
		return nil
	})
}

// vipix.status(msg)
func (r *Runtime) luaStatus(L *lua.LState) int {
	msg := L.CheckString(1)
	r.active(L, "status").SetStatus(msg)
	return 0
}

// vipix.cursor() -> x, y
func (r *Runtime) luaCursor(L *lua.LState) int {
	p := r.active(L, "cursor").Cursor()
	L.Push(lua.LNumber(p.X))
	L.Push(lua.LNumber(p.Y))
	return 2
}

// vipix.mode() -> name
func (r *Runtime) luaMode(L *lua.LState) int {
	L.Push(lua.LString(r.active(L, "mode").Mode().String()))
	return 1
}

// vipix.setmode(name)
func (r *Runtime) luaSetMode(L *lua.LState) int {
	m := checkMode(L, 1)
	r.active(L, "setmode").SetMode(m)
	return 0
}

