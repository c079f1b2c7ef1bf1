package main

import "testing"

func TestLoadROMRejectsWrongSize(t *testing.T) {
	b := NewBus()
	if err := b.LoadROM("does-not-exist.rom"); err == nil {
		t.Fatalf("expected an error for a missing ROM file")
	}
}

func TestVRAMWriteReadRoundTrip(t *testing.T) {
	b := NewBus()
	b.Write(vramStart+10, 0x41)
	if got := b.Read(vramStart+10, false); got != 0x41 {
		t.Fatalf("VRAM read = 0x%02X, want 0x41", got)
	}
	if got := b.Peek(vramStart + 10); got != 0x41 {
		t.Fatalf("Peek = 0x%02X, want 0x41", got)
	}
}

func TestROMShadowWriteDoesNotMutateROM(t *testing.T) {
	b := NewBus()
	b.rom[0] = 0xAA
	b.Write(0, 0xFF)
	if got := b.Peek(0); got != 0xFF {
		t.Fatalf("shadowed read = 0x%02X, want 0xFF", got)
	}
	if b.rom[0] != 0xAA {
		t.Fatalf("ROM write should go to the shadow, not the real ROM")
	}
}

func TestKeyboardMatrixRowSelect(t *testing.T) {
	b := NewBus()
	b.SetKeyboardRow(0, 0x02) // 'A' held
	b.SetKeyboardRow(1, 0x01) // 'H' held

	if got := b.readKeyboard(0x01); got != 0x02 {
		t.Fatalf("row 0 select = 0x%02X, want 0x02", got)
	}
	if got := b.readKeyboard(0x03); got != 0x03 {
		t.Fatalf("rows 0+1 select = 0x%02X, want 0x03", got)
	}
}

func TestFlatModeBypassesMemoryMap(t *testing.T) {
	b := NewFlatBus()
	b.Write(0x0100, 0x3E)
	if got := b.Read(0x0100, false); got != 0x3E {
		t.Fatalf("flat-mode read = 0x%02X, want 0x3E", got)
	}
	// In flat mode even the ROM-shadowed range is ordinary RAM.
	b.Write(0x0000, 0xC9)
	if got := b.Peek(0x0000); got != 0xC9 {
		t.Fatalf("flat-mode Peek at 0 = 0x%02X, want 0xC9", got)
	}
}

func TestClearInterruptLeavesFDCIntrqAlone(t *testing.T) {
	b := NewBus()
	b.intPending = true
	b.fdc.intrq = true
	b.ClearInterrupt()
	if b.intPending {
		t.Fatalf("ClearInterrupt should clear the timer latch")
	}
	if !b.fdc.intrq {
		t.Fatalf("ClearInterrupt must not touch the FDC's own INTRQ")
	}
}
