// Package script runs Lua scripts that extend the editor.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and the functions that load code
// from disk or strings are removed. A global table named vipix is the
// only bridge to the editor:
//
//	vipix.bind(mode, trigger, expansion)  -- add a key binding
//	vipix.command(name, function(args) end) -- add a :command
//	vipix.status(msg)                      -- set the status line
//	vipix.cursor()                         -- returns x, y
//	vipix.mode()                           -- returns the mode name
//	vipix.setmode(name)                    -- switch mode
//
// Lua only runs while a command is executing; the engine's Control is
// installed for the duration of that call and removed afterwards, so a
// script cannot hold on to it.
//
// Example init.lua:
//
//	vipix.bind("normal", "gg", "kkkk")
//	vipix.command("hello", function(args)
//	    vipix.status("hello " .. (args[1] or "world"))
//	end)
package script
