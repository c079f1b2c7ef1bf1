package main

import (
	"os"
	"testing"
)

func TestTracerRecordWrapsBuffer(t *testing.T) {
	tr := NewTracer()
	bus := NewBus()
	cpu := NewCPU_Z80(bus)
	for i := 0; i < traceBufSize+10; i++ {
		cpu.PC = uint16(i)
		tr.Record(cpu, uint64(i))
	}
	if tr.count != traceBufSize {
		t.Fatalf("count = %d, want capped at %d", tr.count, traceBufSize)
	}
	if !tr.HasEntries() {
		t.Fatalf("expected HasEntries after recording")
	}
}

func TestCheckFreezeIgnoresKeyWaitLoop(t *testing.T) {
	tr := NewTracer()
	for i := 0; i < freezeStreakMin+10; i++ {
		if tr.CheckFreeze(romKey) {
			t.Fatalf("the $KEY wait loop at 0x%04X must never be flagged as frozen", romKey)
		}
	}
}

func TestCheckFreezeFiresOnTightRAMLoop(t *testing.T) {
	tr := NewTracer()
	detected := false
	for i := 0; i < freezeStreakMin+10; i++ {
		if tr.CheckFreeze(0x5000) {
			detected = true
			break
		}
	}
	if !detected {
		t.Fatalf("a tight loop confined to RAM should eventually be flagged")
	}
}

func TestCheckFreezeOnlyFiresOnce(t *testing.T) {
	tr := NewTracer()
	fired := 0
	for i := 0; i < freezeStreakMin+20; i++ {
		if tr.CheckFreeze(0x5000) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("CheckFreeze fired %d times, want exactly 1", fired)
	}
}

func TestDumpWritesTraceLog(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	tr := NewTracer()
	bus := NewBus()
	cpu := NewCPU_Z80(bus)
	cpu.PC = 0x1234
	tr.Record(cpu, 42)
	tr.Dump(bus)

	if _, err := os.Stat("trace.log"); err != nil {
		t.Fatalf("expected trace.log to be created: %v", err)
	}
}
