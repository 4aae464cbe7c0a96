package script

import (
	lua "github.com/yuin/gopher-lua"
)

// removedGlobals load code from files or strings and would bypass the
// sandbox.
var removedGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"require",
	"module",
}

// openSafeLibraries opens only the side-effect free standard libraries.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	// io, os, debug, package and channel stay closed.
}

// installSandbox removes unsafe globals and routes print to the logger.
func installSandbox(L *lua.LState, log Logger) {
	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		args := make([]any, 0, n)
		for i := 1; i <= n; i++ {
			args = append(args, L.ToStringMeta(L.Get(i)).String())
		}
		log.Info("lua print %v", args)
		return 0
	}))
}
