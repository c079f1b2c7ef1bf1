// fdc.go - FD1771-compatible floppy controller over a flat JV1-style sector
// image. Registers are memory-mapped by the bus at 0x37EC-0x37EF; drive
// select lives at 0x37E0-0x37E3.

package main

import (
	"fmt"
	"os"
)

const (
	fdcDrives         = 4
	fdcSectorsPerTrk  = 10
	fdcBytesPerSector = 256
	fdcMaxTracks      = 35
)

const (
	stBusy     = 0x01
	stDRQ      = 0x02
	stTrack0   = 0x04
	stRNF      = 0x10
	stRecType  = 0x20
	stNotReady = 0x80
)

type fdcDrive struct {
	image      []byte
	headTrack  int
	loaded     bool
}

func (d *fdcDrive) readSector(track, sector int) [fdcBytesPerSector]byte {
	var out [fdcBytesPerSector]byte
	offset := (track*fdcSectorsPerTrk + sector) * fdcBytesPerSector
	if offset >= 0 && offset+fdcBytesPerSector <= len(d.image) {
		copy(out[:], d.image[offset:offset+fdcBytesPerSector])
	}
	return out
}

func (d *fdcDrive) writeSector(track, sector int, data [fdcBytesPerSector]byte) {
	offset := (track*fdcSectorsPerTrk + sector) * fdcBytesPerSector
	need := offset + fdcBytesPerSector
	if need > len(d.image) {
		grown := make([]byte, need)
		copy(grown, d.image)
		d.image = grown
	}
	copy(d.image[offset:offset+fdcBytesPerSector], data[:])
}

// FDC is the floppy controller's command state machine.
type FDC struct {
	drives [fdcDrives]fdcDrive

	status byte
	track  byte
	sector byte
	data   byte

	driveSel  byte
	lastDrive int

	buf    [fdcBytesPerSector]byte
	bufPos int
	bufLen int

	writePending bool
	writeTrack   int
	writeSector  int

	intrq bool

	lastDir int
}

// LoadDisk reads a flat JV1 image into the given drive slot.
func (f *FDC) LoadDisk(drive int, path string) error {
	if drive < 0 || drive >= fdcDrives {
		return fmt.Errorf("fdc: invalid drive index %d", drive)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("fdc: open disk image %s: %w", path, err)
	}
	f.drives[drive].image = data
	f.drives[drive].loaded = true
	f.drives[drive].headTrack = 0
	f.status = stTrack0
	return nil
}

// SelectDrive handles a write to the drive-select latch (0x37E0-0x37E3).
// A deselect (bits 0-2 all zero) preserves the last explicit selection.
func (f *FDC) SelectDrive(val byte) {
	f.driveSel = val
	for i := 0; i < 3; i++ {
		if val&(1<<i) != 0 {
			f.lastDrive = i
			break
		}
	}
}

func (f *FDC) currentDrive() int {
	for i := 0; i < 3; i++ {
		if f.driveSel&(1<<i) != 0 {
			return i
		}
	}
	return f.lastDrive
}

func (f *FDC) activeDrive() *fdcDrive {
	idx := f.currentDrive()
	if idx < 0 || idx >= fdcDrives || !f.drives[idx].loaded {
		return nil
	}
	return &f.drives[idx]
}

// IntrqPending reports the sticky interrupt-request flag, cleared only by
// a status-register read.
func (f *FDC) IntrqPending() bool {
	return f.intrq
}

// Read dispatches a register read by address (0x37EC-0x37EF).
func (f *FDC) Read(addr uint16) byte {
	switch addr {
	case fdcRegStart: // status: reading clears INTRQ
		f.intrq = false
		return f.status
	case fdcRegStart + 1:
		return f.track
	case fdcRegStart + 2:
		return f.sector
	case fdcRegStart + 3:
		if f.bufLen > 0 && f.bufPos < f.bufLen {
			f.data = f.buf[f.bufPos]
			f.bufPos++
			if f.bufPos >= f.bufLen {
				f.bufLen = 0
				f.status &^= stBusy | stDRQ
				f.intrq = true
			}
		}
		return f.data
	default:
		return 0xFF
	}
}

// Write dispatches a register write by address (0x37EC-0x37EF).
func (f *FDC) Write(addr uint16, val byte) {
	switch addr {
	case fdcRegStart: // command
		f.executeCommand(val)
	case fdcRegStart + 1:
		f.track = val
	case fdcRegStart + 2:
		f.sector = val
	case fdcRegStart + 3:
		f.data = val
		if f.writePending && f.bufLen > 0 && f.bufPos < f.bufLen {
			f.buf[f.bufPos] = val
			f.bufPos++
			if f.bufPos >= f.bufLen {
				if d := f.activeDrive(); d != nil {
					d.writeSector(f.writeTrack, f.writeSector, f.buf)
				}
				f.bufLen = 0
				f.writePending = false
				f.status &^= stBusy | stDRQ
				f.intrq = true
			}
		}
	}
}

func (f *FDC) executeCommand(cmd byte) {
	f.bufLen = 0
	f.bufPos = 0
	f.writePending = false
	f.intrq = false

	switch cmd >> 4 {
	case 0x0:
		f.cmdRestore()
	case 0x1:
		f.cmdSeek()
	case 0x2:
		f.cmdStep(f.lastDir, false)
	case 0x3:
		f.cmdStep(f.lastDir, true)
	case 0x4:
		f.cmdStep(+1, false)
	case 0x5:
		f.cmdStep(+1, true)
	case 0x6:
		f.cmdStep(-1, false)
	case 0x7:
		f.cmdStep(-1, true)
	case 0x8, 0x9:
		f.cmdReadSector()
	case 0xA, 0xB:
		f.cmdWriteSector()
	case 0xC:
		f.cmdReadAddress()
	case 0xD:
		f.cmdForceInterrupt(cmd)
	default:
		f.cmdForceInterrupt(0xD0)
	}
}

func (f *FDC) cmdRestore() {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	d.headTrack = 0
	f.track = 0
	f.status = stTrack0
	f.intrq = true
}

func (f *FDC) cmdSeek() {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	target := int(f.data)
	if target < 0 {
		target = 0
	}
	if target >= fdcMaxTracks {
		target = fdcMaxTracks - 1
	}
	if target > d.headTrack {
		f.lastDir = +1
	} else {
		f.lastDir = -1
	}
	d.headTrack = target
	f.track = byte(target)
	if f.track == 0 {
		f.status = stTrack0
	} else {
		f.status = 0
	}
	f.intrq = true
}

func (f *FDC) cmdStep(dir int, updateTrack bool) {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	f.lastDir = dir
	next := d.headTrack + dir
	if next < 0 {
		next = 0
	}
	if next >= fdcMaxTracks {
		next = fdcMaxTracks - 1
	}
	d.headTrack = next
	if updateTrack {
		f.track = byte(next)
	}
	if d.headTrack == 0 {
		f.status = stTrack0
	} else {
		f.status = 0
	}
	f.intrq = true
}

func (f *FDC) cmdReadSector() {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	t, s := d.headTrack, int(f.sector)
	if s >= fdcSectorsPerTrk || t >= fdcMaxTracks {
		f.status = stRNF
		f.intrq = true
		return
	}
	f.buf = d.readSector(t, s)
	f.bufPos = 0
	f.bufLen = fdcBytesPerSector
	f.status = stBusy | stDRQ
	if t == 17 {
		f.status |= stRecType
	}
}

func (f *FDC) cmdWriteSector() {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	t, s := d.headTrack, int(f.sector)
	if s >= fdcSectorsPerTrk || t >= fdcMaxTracks {
		f.status = stRNF
		f.intrq = true
		return
	}
	f.writePending = true
	f.writeTrack = t
	f.writeSector = s
	f.bufPos = 0
	f.bufLen = fdcBytesPerSector
	f.status = stBusy | stDRQ
}

func (f *FDC) cmdReadAddress() {
	d := f.activeDrive()
	if d == nil {
		f.status = stNotReady
		f.intrq = true
		return
	}
	trk := byte(d.headTrack)
	sec := f.sector
	f.buf[0] = trk
	f.buf[1] = 0x00
	f.buf[2] = sec
	f.buf[3] = 0x01
	f.buf[4] = 0x00
	f.buf[5] = 0x00
	f.bufPos = 0
	f.bufLen = 6
	f.track = trk
	f.status = stBusy | stDRQ
}

func (f *FDC) cmdForceInterrupt(cmd byte) {
	f.status &^= stBusy | stDRQ
	if cmd&0x08 != 0 {
		f.intrq = true
	}
}
