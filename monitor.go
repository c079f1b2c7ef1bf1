// monitor.go - interactive debug REPL: register dump, single-stepping,
// breakpoints, memory/disassembly inspection, and manual trace dumps.
// Adapts terminal_host.go's raw-goroutine-over-stdin pattern to a
// line-oriented command reader instead of a byte-at-a-time MMIO feed.

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/term"
)

// DisassembledLine is one decoded instruction, produced by disassembleZ80
// and printed by the monitor's "d" command.
type DisassembledLine struct {
	Address      uint64
	HexBytes     string
	Mnemonic     string
	Size         int
	IsBranch     bool
	BranchTarget uint64
	// Annotation names the ROM entry point at Address, when it's one of
	// the handful intercept.go fast-paths (see romInterceptName).
	Annotation string
}

// Monitor is an optional debug console attached to a running FrameDriver.
// When paused, RunFrame's instruction loop blocks at the top of each step
// until Resume or Step releases it.
type Monitor struct {
	fd  *FrameDriver
	bus *Bus
	cpu *CPU_Z80

	paused      atomic.Bool
	stepBudget  atomic.Int64
	breakpoints map[uint16]bool
	mu          sync.Mutex

	stopCh chan struct{}
	once   sync.Once
}

func NewMonitor(fd *FrameDriver, bus *Bus, cpu *CPU_Z80) *Monitor {
	return &Monitor{
		fd:          fd,
		bus:         bus,
		cpu:         cpu,
		breakpoints: make(map[uint16]bool),
		stopCh:      make(chan struct{}),
	}
}

// Start launches the stdin command-reader goroutine. stdin is put in raw
// mode and handed to a term.Terminal, which gives the REPL history and
// line editing without reimplementing it.
func (m *Monitor) Start() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "monitor: failed to set raw mode: %v\n", err)
		return
	}

	go func() {
		defer term.Restore(fd, oldState)
		t := term.NewTerminal(os.Stdin, "(mon) ")
		for {
			select {
			case <-m.stopCh:
				return
			default:
			}
			line, err := t.ReadLine()
			if err != nil {
				return
			}
			m.execute(strings.TrimSpace(line))
		}
	}()
}

func (m *Monitor) Stop() {
	m.once.Do(func() { close(m.stopCh) })
}

// ShouldHalt is called once per instruction from the frame driver's hot
// loop; it reports whether execution should block before this PC, either
// because the monitor is paused or because pc is a breakpoint.
func (m *Monitor) ShouldHalt(pc uint16) bool {
	if m.breakpointHit(pc) {
		m.paused.Store(true)
		fmt.Printf("[MONITOR] breakpoint at 0x%04X\n", pc)
	}
	if !m.paused.Load() {
		return false
	}
	if m.stepBudget.Load() > 0 {
		m.stepBudget.Add(-1)
		return false
	}
	return true
}

func (m *Monitor) breakpointHit(pc uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.breakpoints[pc]
}

func (m *Monitor) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case "r", "regs":
		m.printRegisters()
	case "s", "step":
		n := int64(1)
		if len(fields) > 1 {
			if v, err := strconv.ParseInt(fields[1], 0, 64); err == nil {
				n = v
			}
		}
		m.paused.Store(true)
		m.stepBudget.Store(n)
	case "c", "continue":
		m.paused.Store(false)
	case "b", "break":
		if len(fields) < 2 {
			fmt.Println("usage: b <addr>")
			return
		}
		addr, err := strconv.ParseUint(fields[1], 0, 16)
		if err != nil {
			fmt.Printf("bad address: %v\n", err)
			return
		}
		m.mu.Lock()
		m.breakpoints[uint16(addr)] = true
		m.mu.Unlock()
		fmt.Printf("breakpoint set at 0x%04X\n", addr)
	case "d", "disasm":
		addr := uint64(m.cpu.PC)
		count := 10
		if len(fields) > 1 {
			if v, err := strconv.ParseUint(fields[1], 0, 16); err == nil {
				addr = v
			}
		}
		if len(fields) > 2 {
			if v, err := strconv.Atoi(fields[2]); err == nil {
				count = v
			}
		}
		m.printDisasm(addr, count)
	case "m", "mem":
		if len(fields) < 2 {
			fmt.Println("usage: m <addr> [count]")
			return
		}
		addr, err := strconv.ParseUint(fields[1], 0, 16)
		if err != nil {
			fmt.Printf("bad address: %v\n", err)
			return
		}
		count := 64
		if len(fields) > 2 {
			if v, err := strconv.Atoi(fields[2]); err == nil {
				count = v
			}
		}
		m.printMemory(uint16(addr), count)
	case "trace":
		m.fd.tracer.Dump(m.bus)
	case "q", "quit":
		os.Exit(0)
	default:
		fmt.Printf("unknown command: %s\n", fields[0])
	}
}

func (m *Monitor) printRegisters() {
	c := m.cpu
	fmt.Printf("PC=%04X SP=%04X AF=%02X%02X BC=%02X%02X DE=%02X%02X HL=%02X%02X IX=%04X IY=%04X I=%02X IM=%d IFF1=%v IFF2=%v HALT=%v\n",
		c.PC, c.SP, c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L, c.IX, c.IY, c.I, c.IM, c.IFF1, c.IFF2, c.Halted)
}

func (m *Monitor) printDisasm(addr uint64, count int) {
	read := func(a uint64, size int) []byte {
		out := make([]byte, size)
		for i := 0; i < size; i++ {
			out[i] = m.bus.Peek(uint16(a) + uint16(i))
		}
		return out
	}
	for _, line := range disassembleZ80(read, addr, count) {
		if line.Annotation != "" {
			fmt.Printf("%04X  %-12s %-24s ; %s\n", line.Address, line.HexBytes, line.Mnemonic, line.Annotation)
		} else {
			fmt.Printf("%04X  %-12s %s\n", line.Address, line.HexBytes, line.Mnemonic)
		}
	}
}

func (m *Monitor) printMemory(addr uint16, count int) {
	for i := 0; i < count; i += 16 {
		fmt.Printf("%04X: ", addr+uint16(i))
		for j := 0; j < 16 && i+j < count; j++ {
			fmt.Printf("%02X ", m.bus.Peek(addr+uint16(i+j)))
		}
		fmt.Println()
	}
}
