// bus.go - memory/port arbiter: address decode, ROM shadow, video timing,
// keyboard matrix, port 0xFF cassette/sound line, interrupt latches.

package main

import (
	"fmt"
	"os"
)

const (
	romStart = 0x0000
	romEnd   = 0x2FFF
	romSize  = 0x3000

	unmappedStart = 0x3000
	unmappedEnd   = 0x37DF

	ioLatchStart = 0x37E0
	ioLatchEnd   = 0x37E3

	printerStart = 0x37E4
	printerEnd   = 0x37EB

	fdcRegStart = 0x37EC
	fdcRegEnd   = 0x37EF

	keyboardStart = 0x3800
	keyboardEnd   = 0x3BFF

	vramStart = 0x3C00
	vramEnd   = 0x3FFF
	vramSize  = 0x0400

	ramStart = 0x4000
	ramEnd   = 0xFFFF
	ramSize  = 0xC000

	videoScanlineStart     = 48
	videoScanlineEnd       = 240
	videoTotalScanlines    = 262
	videoTStatesPerScanLn  = 114
	videoTStatesPerFrame   = 29498
	videoContentionStartT  = 30
	videoContentionEndT    = 90
	videoContentionPenalty = 2
)

// Bus is the sole owner of memory, ROM shadow, video timing, the keyboard
// matrix, and the FDC/cassette peripherals. Only the frame driver constructs
// and mutates it; no locking is required because everything runs on one
// goroutine (see the concurrency model).
type Bus struct {
	rom  [romSize]byte
	vram [vramSize]byte
	ram  [ramSize]byte

	romShadow       [romSize]byte
	romShadowActive [romSize]bool

	keyboardMatrix [8]byte

	globalT    uint64
	scanline   uint16
	tInLine    uint16
	intPending bool
	intLatch   bool

	prevPortFF byte

	fdc FDC
	cas Cassette

	casData     []byte
	casFilename string

	flatMode bool
	flatMem  [65536]byte
}

// NewBus constructs a Bus in TRS-80 memory-mapped mode.
func NewBus() *Bus {
	b := &Bus{}
	b.Reset()
	return b
}

// NewFlatBus constructs a Bus in flat 64 KiB RAM mode, used only by the
// CP/M conformance harness (cmd/zexall).
func NewFlatBus() *Bus {
	b := &Bus{flatMode: true}
	b.Reset()
	return b
}

func (b *Bus) Reset() {
	for i := range b.vram {
		b.vram[i] = 0x20
	}
	for i := range b.ram {
		b.ram[i] = 0
	}
	for i := range b.romShadowActive {
		b.romShadowActive[i] = false
	}
	b.globalT = 0
	b.scanline = 0
	b.tInLine = 0
	b.intPending = false
	b.intLatch = false
	b.cas.Reset()
}

// LoadROM reads exactly romSize bytes from path into ROM. Any other size is
// a fatal setup error per the error taxonomy.
func (b *Bus) LoadROM(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bus: read ROM %s: %w", path, err)
	}
	if len(data) != romSize {
		return fmt.Errorf("bus: ROM %s is %d bytes, want %d", path, len(data), romSize)
	}
	copy(b.rom[:], data)
	return nil
}

// Read implements Z80Bus. isM1 marks an opcode fetch, the only access
// subject to video contention.
func (b *Bus) Read(addr uint16, isM1 bool) byte {
	if b.flatMode {
		return b.flatMem[addr]
	}

	if b.shouldContend(addr, isM1) {
		b.addTicks(videoContentionPenalty)
	}

	var value byte
	switch {
	case addr <= romEnd:
		if b.romShadowActive[addr] {
			value = b.romShadow[addr]
		} else {
			value = b.rom[addr]
		}
	case addr >= unmappedStart && addr <= unmappedEnd:
		value = 0xFF
	case addr >= ioLatchStart && addr <= ioLatchEnd:
		value = b.readIOLatch()
	case addr >= printerStart && addr <= printerEnd:
		value = 0xFF // no printer fault
	case addr >= fdcRegStart && addr <= fdcRegEnd:
		value = b.fdc.Read(addr)
	case addr >= keyboardStart && addr <= keyboardEnd:
		value = b.readKeyboard(addr)
	case addr >= vramStart && addr <= vramEnd:
		value = b.vram[addr-vramStart]
	case addr >= ramStart:
		value = b.ram[addr-ramStart]
	default:
		value = 0xFF
	}

	b.addTicks(1)
	return value
}

// Write implements Z80Bus.
func (b *Bus) Write(addr uint16, val byte) {
	if b.flatMode {
		b.flatMem[addr] = val
		return
	}

	b.addTicks(1)

	switch {
	case addr <= romEnd:
		b.romShadow[addr] = val
		b.romShadowActive[addr] = true
	case addr >= ioLatchStart && addr <= ioLatchEnd:
		b.fdc.SelectDrive(val)
	case addr >= fdcRegStart && addr <= fdcRegEnd:
		b.fdc.Write(addr, val)
	case addr >= vramStart && addr <= vramEnd:
		b.vram[addr-vramStart] = val
	case addr >= ramStart:
		b.ram[addr-ramStart] = val
	}
	// keyboard matrix and unmapped/printer ranges are read-only
}

// Peek is a side-effect-free read for diagnostics (filename extraction,
// trace dumps, monitor inspection). It never advances timing or clears
// latches.
func (b *Bus) Peek(addr uint16) byte {
	if b.flatMode {
		return b.flatMem[addr]
	}
	switch {
	case addr <= romEnd:
		if b.romShadowActive[addr] {
			return b.romShadow[addr]
		}
		return b.rom[addr]
	case addr >= unmappedStart && addr <= unmappedEnd:
		return 0xFF
	case addr >= printerStart && addr <= printerEnd:
		return 0xFF
	case addr >= fdcRegStart && addr <= fdcRegEnd:
		return 0xFF // diagnostics never trigger INTRQ-clearing side effects
	case addr >= keyboardStart && addr <= keyboardEnd:
		return b.readKeyboard(addr)
	case addr >= vramStart && addr <= vramEnd:
		return b.vram[addr-vramStart]
	case addr >= ramStart:
		return b.ram[addr-ramStart]
	default:
		return 0xFF
	}
}

func (b *Bus) readKeyboard(addr uint16) byte {
	rowSelect := byte(addr)
	var value byte
	for row := 0; row < 8; row++ {
		if rowSelect&(1<<row) != 0 {
			value |= b.keyboardMatrix[row]
		}
	}
	return value
}

// SetKeyboardRow ORs bit patterns into the matrix; the video frontend calls
// this from host key events.
func (b *Bus) SetKeyboardRow(row int, bits byte) {
	if row >= 0 && row < 8 {
		b.keyboardMatrix[row] = bits
	}
}

func (b *Bus) readIOLatch() byte {
	v := byte(0)
	if b.intLatch {
		v |= 0x80
	}
	if b.fdc.IntrqPending() {
		v |= 0x40
	}
	b.intLatch = false
	return v
}

// SoundBit returns bit 1 of the last port-0xFF write: the 1-bit audio
// line games toggle to produce sound.
func (b *Bus) SoundBit() bool {
	return b.prevPortFF&0x02 != 0
}

// In implements Z80Bus for port I/O. Only port 0xFF is meaningful.
func (b *Bus) In(port uint16) byte {
	if byte(port) != 0xFF {
		return 0xFF
	}
	val := b.prevPortFF & 0x7F
	if b.cas.InputBit(b.globalT) {
		val |= 0x80
	}
	return val
}

// Out implements Z80Bus. bit0=cassette clock, bit1=cassette data/speaker,
// bit2=cassette motor.
func (b *Bus) Out(port uint16, val byte) {
	if byte(port) != 0xFF {
		return
	}
	prev := b.prevPortFF
	b.prevPortFF = val
	motorOn := val&0x04 != 0
	b.cas.OnMotor(motorOn, b.globalT)
	// Recording decodes rising edges of bit 0.
	if val&0x01 != 0 && prev&0x01 == 0 {
		b.cas.OnEdge(b.globalT)
	}
}

// Tick implements Z80Bus; the CPU calls this once per step with the total
// ticks consumed.
func (b *Bus) Tick(cycles int) {
	b.addTicks(cycles)
}

func (b *Bus) addTicks(n int) {
	if n <= 0 {
		return
	}
	b.globalT += uint64(n)
	b.updateVideoTiming(n)
}

func (b *Bus) updateVideoTiming(n int) {
	b.tInLine += uint16(n)
	for b.tInLine >= videoTStatesPerScanLn {
		b.tInLine -= videoTStatesPerScanLn
		b.scanline++
		if b.scanline >= videoTotalScanlines {
			b.scanline = 0
			b.intPending = true
			b.intLatch = true
		}
	}
}

func (b *Bus) shouldContend(addr uint16, isM1 bool) bool {
	if !isM1 {
		return false
	}
	if addr < vramStart || addr > vramEnd {
		return false
	}
	if b.scanline < videoScanlineStart || b.scanline >= videoScanlineEnd {
		return false
	}
	return b.tInLine >= videoContentionStartT && b.tInLine <= videoContentionEndT
}

// InterruptPending reports whether the frame-timer latch or the FDC's
// INTRQ line is asserted.
func (b *Bus) InterruptPending() bool {
	return b.intPending || b.fdc.IntrqPending()
}

// ClearInterrupt clears only the frame-timer latch; FDC INTRQ clears only
// on a status-register read.
func (b *Bus) ClearInterrupt() {
	b.intPending = false
}

// GlobalTicks returns the running tick count, used by the cassette engine
// and trace dumps.
func (b *Bus) GlobalTicks() uint64 {
	return b.globalT
}

// VRAM returns the 1024-byte produced video interface.
func (b *Bus) VRAM() [vramSize]byte {
	return b.vram
}

// --- Cassette facade -------------------------------------------------
//
// The bus owns the host-visible cassette file state (the loaded .cas
// bytes and the name used for status display and CSAVE output); the
// Cassette sub-object owns the FSK signal timing and bit decoder.

// LoadCasFile reads a .cas image from disk, ready for StartPlayback.
func (b *Bus) LoadCasFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("bus: read cassette image %s: %w", path, err)
	}
	b.casData = data
	return nil
}

func (b *Bus) SetCasFilename(name string) { b.casFilename = name; b.cas.SetFilename(name) }
func (b *Bus) GetCasFilename() string     { return b.casFilename }
func (b *Bus) GetCasData() []byte         { return b.cas.Data() }

func (b *Bus) StartPlayback()               { b.cas.StartPlayback(b.casData, b.globalT) }
func (b *Bus) StartRecording()              { b.cas.StartRecording(b.globalT) }
func (b *Bus) GetCassetteState() cassetteState { return b.cas.State() }
func (b *Bus) RealignCasClock()             { b.cas.RealignClock(b.globalT) }
func (b *Bus) IsRecordingIdle() bool        { return b.cas.IsRecordingIdle(b.globalT) }
func (b *Bus) IsPlaybackDone() bool         { return b.cas.IsPlaybackDone(b.globalT) }

// StopCassette ends playback or recording. If a recording was in
// progress, the accumulated bytes are written to software/<name>.cas.
func (b *Bus) StopCassette() []byte {
	wasRecording := b.cas.IsRecording()
	data := b.cas.StopCassette()
	if wasRecording && len(data) > 0 {
		name := b.casFilename
		if name == "" {
			name = "UNTITLED"
		}
		path := "software/" + name + ".cas"
		if err := os.WriteFile(path, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "[CSAVE] Failed to write %s: %v\n", path, err)
		}
	}
	return data
}

// GetCassetteStatus returns a short human-readable status string for the
// window title, or "" when the cassette engine is idle.
func (b *Bus) GetCassetteStatus() string {
	switch b.cas.State() {
	case casPlaying:
		return "CLOAD: " + b.casFilename
	case casRecording:
		return "CSAVE: " + b.casFilename
	default:
		return ""
	}
}
