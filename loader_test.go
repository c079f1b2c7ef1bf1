package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestROM(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "level2.rom")
	if err := os.WriteFile(path, make([]byte, romSize), 0o644); err != nil {
		t.Fatalf("writing test ROM: %v", err)
	}
	return path
}

func TestBootstrapFailsOnMissingROM(t *testing.T) {
	_, _, _, err := Bootstrap(StartupConfig{ROMPath: "no-such.rom"})
	if err == nil {
		t.Fatalf("expected a fatal error for a missing ROM")
	}
}

func TestBootstrapSucceedsWithValidROM(t *testing.T) {
	fd, bus, cpu, err := Bootstrap(StartupConfig{ROMPath: writeTestROM(t)})
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	if fd == nil || bus == nil || cpu == nil {
		t.Fatalf("Bootstrap returned a nil component with no error")
	}
}

func TestBootstrapDiskErrorIsNonFatal(t *testing.T) {
	fd, _, _, err := Bootstrap(StartupConfig{
		ROMPath:  writeTestROM(t),
		DiskPath: "no-such.dsk",
	})
	if err != nil {
		t.Fatalf("a missing disk image must not be fatal, got: %v", err)
	}
	if fd == nil {
		t.Fatalf("expected a usable FrameDriver even with a missing disk image")
	}
}
