package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeyInjectorEnqueueTranslatesCase(t *testing.T) {
	k := NewKeyInjector()
	k.Enqueue("ab\n")
	want := []byte{'A', 'B', 0x0D}
	if string(k.queue) != string(want) {
		t.Fatalf("queue = %v, want %v", k.queue, want)
	}
}

func TestKeyInjectorEnqueueDropsCR(t *testing.T) {
	k := NewKeyInjector()
	k.Enqueue("hi\r\n")
	want := []byte{'H', 'I', 0x0D}
	if string(k.queue) != string(want) {
		t.Fatalf("queue = %v, want %v", k.queue, want)
	}
}

func TestKeyInjectorIsActive(t *testing.T) {
	k := NewKeyInjector()
	if k.IsActive() {
		t.Fatalf("a fresh KeyInjector should not be active")
	}
	k.Enqueue("x")
	if !k.IsActive() {
		t.Fatalf("expected IsActive after Enqueue")
	}
}

func TestHandleInterceptDrainsOneCharacter(t *testing.T) {
	bus := NewBus()
	cpu := NewCPU_Z80(bus)
	cpu.SP = 0x6000
	bus.Write(0x6000, 0x34)
	bus.Write(0x6001, 0x12) // return address 0x1234

	k := NewKeyInjector()
	k.Enqueue("Q")

	ticks, ok := k.HandleIntercept(romKey, cpu, bus)
	if !ok {
		t.Fatalf("expected HandleIntercept to fire at romKey")
	}
	if ticks != 10 {
		t.Fatalf("ticks = %d, want 10", ticks)
	}
	if cpu.A != 'Q' {
		t.Fatalf("A = 0x%02X, want 'Q'", cpu.A)
	}
	if cpu.PC != 0x1234 {
		t.Fatalf("PC = 0x%04X, want 0x1234", cpu.PC)
	}
	if cpu.SP != 0x6002 {
		t.Fatalf("SP = 0x%04X, want 0x6002", cpu.SP)
	}
	if k.IsActive() {
		t.Fatalf("the queue should be drained after one character")
	}
}

func TestHandleInterceptIgnoresOtherPC(t *testing.T) {
	bus := NewBus()
	cpu := NewCPU_Z80(bus)
	k := NewKeyInjector()
	k.Enqueue("Q")
	_, ok := k.HandleIntercept(0x1000, cpu, bus)
	if ok {
		t.Fatalf("HandleIntercept should only fire at romKey")
	}
}

func TestFindCasFileShortestMatchPrefersBasOnTie(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	if err := os.Mkdir("software", 0o755); err != nil {
		t.Fatalf("mkdir software: %v", err)
	}
	for _, name := range []string{"FOO.cas", "FOO.bas"} {
		if err := os.WriteFile(filepath.Join("software", name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got := findCasFile("foo", "TEST")
	want := filepath.Join("software", "FOO.bas")
	if got != want {
		t.Fatalf("findCasFile = %q, want %q", got, want)
	}
}

func TestIsSystemCasDetectsSyncAndType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cas")
	data := append([]byte{0x00, 0x00, 0xA5, 0x55}, []byte("TESTED")...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !isSystemCas(path) {
		t.Fatalf("expected isSystemCas to recognize a SYSTEM-tagged file")
	}
}

func TestIsSystemCasRejectsBasicCas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.cas")
	data := []byte{0x00, 0x00, 0xD3, 0xD3} // BASIC sync byte, not 0xA5
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if isSystemCas(path) {
		t.Fatalf("a BASIC .cas file should not be detected as SYSTEM")
	}
}

func TestExtractFilenameStopsAtQuoteOrLowBit(t *testing.T) {
	bus := NewBus()
	bus.Write(romFilenamePtr, 0x00)
	bus.Write(romFilenamePtr+1, 0x50)
	ptr := uint16(0x5000)
	bus.Write(ptr, '"')
	name := "HELLO\""
	for i, c := range []byte(name) {
		bus.Write(ptr+1+uint16(i), c)
	}
	got := extractFilename(bus)
	if got != "HELLO" {
		t.Fatalf("extractFilename = %q, want %q", got, "HELLO")
	}
}
