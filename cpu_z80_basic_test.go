package main

import "testing"

func TestZ80ResetDefaults(t *testing.T) {
	rig := newCPUZ80TestRig()
	cpu := rig.cpu

	cpu.A, cpu.F, cpu.B, cpu.C = 0x11, 0x22, 0x33, 0x44
	cpu.D, cpu.E, cpu.H, cpu.L = 0x55, 0x66, 0x77, 0x88
	cpu.A2, cpu.F2, cpu.B2, cpu.C2 = 0x99, 0xAA, 0xBB, 0xCC
	cpu.D2, cpu.E2, cpu.H2, cpu.L2 = 0xDD, 0xEE, 0xFF, 0x01
	cpu.IX, cpu.IY = 0x1234, 0x4567
	cpu.SP, cpu.PC = 0xABCD, 0xFEED
	cpu.I, cpu.R, cpu.IM, cpu.WZ = 0x12, 0x34, 2, 0x2222
	cpu.IFF1, cpu.IFF2 = true, true
	cpu.iffDelay = 1
	cpu.Halted = true
	cpu.Cycles = 999

	cpu.Reset()

	requireZ80EqualU16(t, "PC", cpu.PC, 0x0000)
	requireZ80EqualU16(t, "SP", cpu.SP, 0xFFFF)
	requireZ80EqualU8(t, "A", cpu.A, 0x00)
	requireZ80EqualU8(t, "F", cpu.F, 0x00)
	requireZ80EqualU8(t, "B", cpu.B, 0x00)
	requireZ80EqualU8(t, "C", cpu.C, 0x00)
	requireZ80EqualU8(t, "D", cpu.D, 0x00)
	requireZ80EqualU8(t, "E", cpu.E, 0x00)
	requireZ80EqualU8(t, "H", cpu.H, 0x00)
	requireZ80EqualU8(t, "L", cpu.L, 0x00)
	requireZ80EqualU8(t, "A'", cpu.A2, 0x00)
	requireZ80EqualU8(t, "F'", cpu.F2, 0x00)
	requireZ80EqualU8(t, "B'", cpu.B2, 0x00)
	requireZ80EqualU8(t, "C'", cpu.C2, 0x00)
	requireZ80EqualU8(t, "D'", cpu.D2, 0x00)
	requireZ80EqualU8(t, "E'", cpu.E2, 0x00)
	requireZ80EqualU8(t, "H'", cpu.H2, 0x00)
	requireZ80EqualU8(t, "L'", cpu.L2, 0x00)
	requireZ80EqualU16(t, "IX", cpu.IX, 0x0000)
	requireZ80EqualU16(t, "IY", cpu.IY, 0x0000)
	requireZ80EqualU8(t, "I", cpu.I, 0x00)
	requireZ80EqualU8(t, "R", cpu.R, 0x00)
	requireZ80EqualU16(t, "WZ", cpu.WZ, 0x0000)
	if cpu.IFF1 || cpu.IFF2 {
		t.Fatalf("IFF1/IFF2 should be cleared on reset")
	}
	if cpu.iffDelay != 0 {
		t.Fatalf("iffDelay should be cleared on reset")
	}
	if cpu.IM != 0 {
		t.Fatalf("IM = %d, want 0", cpu.IM)
	}
	if cpu.Halted {
		t.Fatalf("Halted should be false on reset")
	}
	if cpu.Cycles != 0 {
		t.Fatalf("Cycles = %d, want 0", cpu.Cycles)
	}
}

func TestZ80RegisterPairs(t *testing.T) {
	rig := newCPUZ80TestRig()
	cpu := rig.cpu

	cpu.SetAF(0x1234)
	cpu.SetBC(0x2345)
	cpu.SetDE(0x3456)
	cpu.SetHL(0x4567)
	cpu.SetAF2(0x6789)
	cpu.SetBC2(0x789A)
	cpu.SetDE2(0x89AB)
	cpu.SetHL2(0x9ABC)

	requireZ80EqualU16(t, "AF", cpu.AF(), 0x1234)
	requireZ80EqualU16(t, "BC", cpu.BC(), 0x2345)
	requireZ80EqualU16(t, "DE", cpu.DE(), 0x3456)
	requireZ80EqualU16(t, "HL", cpu.HL(), 0x4567)
	requireZ80EqualU16(t, "AF'", cpu.AF2(), 0x6789)
	requireZ80EqualU16(t, "BC'", cpu.BC2(), 0x789A)
	requireZ80EqualU16(t, "DE'", cpu.DE2(), 0x89AB)
	requireZ80EqualU16(t, "HL'", cpu.HL2(), 0x9ABC)
}

func TestZ80StepNOP(t *testing.T) {
	rig := newCPUZ80TestRig()
	rig.resetAndLoad(0x0000, []byte{0x00})

	cpu := rig.cpu
	cpu.Step()

	requireZ80EqualU16(t, "PC", cpu.PC, 0x0001)
	if cpu.Cycles != 4 {
		t.Fatalf("Cycles = %d, want 4", cpu.Cycles)
	}
	if rig.bus.ticks != 4 {
		t.Fatalf("bus ticks = %d, want 4", rig.bus.ticks)
	}
}

func TestZ80PlainReg8SurvivesIndexPrefix(t *testing.T) {
	rig := newCPUZ80TestRig()
	// DD 74: LD (IX+d), H under a DD prefix means "store the real H",
	// never IX's own high byte - plainReg8 exists to make that distinction.
	rig.resetAndLoad(0x0000, []byte{0xDD, 0x74, 0x02})
	cpu := rig.cpu
	cpu.IX = 0x4000
	cpu.H = 0x55

	cpu.Step()

	if got := rig.bus.mem[0x4002]; got != 0x55 {
		t.Fatalf("(IX+2) = 0x%02X, want 0x55 (real H, not IXH)", got)
	}
}
