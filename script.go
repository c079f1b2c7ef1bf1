// script.go - Lua scenario-scripting harness: drives the emulator from a
// .lua file instead of a bespoke Go test per end-to-end scenario.

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ScenarioRunner exposes load/step_frames/peek/reg/assert_eq to a Lua
// script running against a live Bus/CPU/FrameDriver triple.
type ScenarioRunner struct {
	fd  *FrameDriver
	bus *Bus
	cpu *CPU_Z80
}

func NewScenarioRunner(fd *FrameDriver, bus *Bus, cpu *CPU_Z80) *ScenarioRunner {
	return &ScenarioRunner{fd: fd, bus: bus, cpu: cpu}
}

// RunScript executes path as a Lua scenario, with the host functions
// below registered as globals.
func (sr *ScenarioRunner) RunScript(path string) error {
	L := lua.NewState()
	defer L.Close()

	L.SetGlobal("load", L.NewFunction(sr.luaLoad))
	L.SetGlobal("step_frames", L.NewFunction(sr.luaStepFrames))
	L.SetGlobal("peek", L.NewFunction(sr.luaPeek))
	L.SetGlobal("reg", L.NewFunction(sr.luaReg))
	L.SetGlobal("assert_eq", L.NewFunction(sr.luaAssertEq))

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("scenario %s: %w", path, err)
	}
	return nil
}

// load(path) - queue a .cas/.bas file the way --load does, via the CLI
// autoload shortcut on the software loader.
func (sr *ScenarioRunner) luaLoad(L *lua.LState) int {
	path := L.CheckString(1)
	sr.fd.SoftwareLoader().SetupFromCLI(path, sr.fd.KeyInjector())
	return 0
}

// step_frames(n) - run n video frames of emulated time.
func (sr *ScenarioRunner) luaStepFrames(L *lua.LState) int {
	n := L.CheckInt(1)
	for i := 0; i < n; i++ {
		sr.fd.RunFrame()
	}
	return 0
}

// peek(addr) -> byte at addr, side-effect free.
func (sr *ScenarioRunner) luaPeek(L *lua.LState) int {
	addr := L.CheckInt(1)
	L.Push(lua.LNumber(sr.bus.Peek(uint16(addr))))
	return 1
}

// reg(name) -> named CPU register value (case-insensitive).
func (sr *ScenarioRunner) luaReg(L *lua.LState) int {
	name := L.CheckString(1)
	v, ok := sr.registerByName(name)
	if !ok {
		L.RaiseError("unknown register %q", name)
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (sr *ScenarioRunner) registerByName(name string) (uint16, bool) {
	c := sr.cpu
	switch name {
	case "a", "A":
		return uint16(c.A), true
	case "f", "F":
		return uint16(c.F), true
	case "b", "B":
		return uint16(c.B), true
	case "c", "C":
		return uint16(c.C), true
	case "d", "D":
		return uint16(c.D), true
	case "e", "E":
		return uint16(c.E), true
	case "h", "H":
		return uint16(c.H), true
	case "l", "L":
		return uint16(c.L), true
	case "pc", "PC":
		return c.PC, true
	case "sp", "SP":
		return c.SP, true
	case "ix", "IX":
		return c.IX, true
	case "iy", "IY":
		return c.IY, true
	case "bc", "BC":
		return uint16(c.B)<<8 | uint16(c.C), true
	case "de", "DE":
		return uint16(c.D)<<8 | uint16(c.E), true
	case "hl", "HL":
		return uint16(c.H)<<8 | uint16(c.L), true
	default:
		return 0, false
	}
}

// assert_eq(a, b) - fails the script (and the process, for a CI-usable
// exit code) if a ~= b.
func (sr *ScenarioRunner) luaAssertEq(L *lua.LState) int {
	a := L.CheckAny(1)
	b := L.CheckAny(2)
	if a.String() != b.String() {
		L.RaiseError("assert_eq failed: %s != %s", a.String(), b.String())
	}
	return 0
}
