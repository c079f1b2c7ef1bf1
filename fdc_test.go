package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestDisk(t *testing.T, tracks, sectorsPerTrack int) string {
	t.Helper()
	data := make([]byte, tracks*sectorsPerTrack*fdcBytesPerSector)
	for i := range data {
		data[i] = byte(i)
	}
	path := filepath.Join(t.TempDir(), "test.dsk")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing test disk: %v", err)
	}
	return path
}

func TestLoadDiskRejectsBadDriveIndex(t *testing.T) {
	var f FDC
	if err := f.LoadDisk(fdcDrives, "anything.dsk"); err == nil {
		t.Fatalf("expected an error for an out-of-range drive index")
	}
}

func TestRestoreSeeksToTrackZero(t *testing.T) {
	var f FDC
	path := writeTestDisk(t, fdcMaxTracks, fdcSectorsPerTrk)
	if err := f.LoadDisk(0, path); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	f.SelectDrive(0x01)
	f.drives[0].headTrack = 12

	f.Write(fdcRegStart, 0x00) // RESTORE
	if f.track != 0 {
		t.Fatalf("track = %d, want 0", f.track)
	}
	if f.status&stTrack0 == 0 {
		t.Fatalf("status should report track 0")
	}
	if !f.IntrqPending() {
		t.Fatalf("RESTORE should assert INTRQ")
	}
}

func TestReadSectorFillsBufferAndDRQ(t *testing.T) {
	var f FDC
	path := writeTestDisk(t, fdcMaxTracks, fdcSectorsPerTrk)
	if err := f.LoadDisk(0, path); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	f.SelectDrive(0x01)
	f.sector = 2

	f.Write(fdcRegStart, 0x80) // READ SECTOR

	if f.status&stDRQ == 0 {
		t.Fatalf("DRQ should be asserted after a READ SECTOR command")
	}
	first := f.Read(fdcRegStart + 3)
	expectedOffset := 2 * fdcBytesPerSector
	if first != byte(expectedOffset) {
		t.Fatalf("first data byte = 0x%02X, want 0x%02X", first, byte(expectedOffset))
	}
}

func TestReadSectorOutOfRangeSetsRNF(t *testing.T) {
	var f FDC
	path := writeTestDisk(t, fdcMaxTracks, fdcSectorsPerTrk)
	if err := f.LoadDisk(0, path); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	f.SelectDrive(0x01)
	f.sector = byte(fdcSectorsPerTrk) // one past the last valid sector

	f.Write(fdcRegStart, 0x80)
	if f.status&stRNF == 0 {
		t.Fatalf("expected Record Not Found for an out-of-range sector")
	}
}

func TestWriteSectorRoundTrip(t *testing.T) {
	var f FDC
	path := writeTestDisk(t, fdcMaxTracks, fdcSectorsPerTrk)
	if err := f.LoadDisk(0, path); err != nil {
		t.Fatalf("LoadDisk: %v", err)
	}
	f.SelectDrive(0x01)
	f.sector = 3

	f.Write(fdcRegStart, 0xA0) // WRITE SECTOR
	for i := 0; i < fdcBytesPerSector; i++ {
		f.Write(fdcRegStart+3, 0x55)
	}
	if !f.IntrqPending() {
		t.Fatalf("a completed sector write should assert INTRQ")
	}

	f.sector = 3
	f.Write(fdcRegStart, 0x80) // READ SECTOR back
	got := f.Read(fdcRegStart + 3)
	if got != 0x55 {
		t.Fatalf("read-back byte = 0x%02X, want 0x55", got)
	}
}

func TestStatusReadClearsIntrq(t *testing.T) {
	var f FDC
	f.intrq = true
	f.Read(fdcRegStart)
	if f.IntrqPending() {
		t.Fatalf("reading the status register should clear INTRQ")
	}
}
