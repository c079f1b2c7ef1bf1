//go:build zexall

// zexall.go - CP/M BDOS-trap conformance harness for zexall.com/zexdoc.com,
// built with `go build -tags zexall`. Runs the Z80 core against a flat 64
// KiB address space instead of the TRS-80 memory map, trapping the two
// console BDOS calls the ZEXALL/ZEXDOC test suites use.
//
// No zexall.com/zexdoc.com image ships with this repository; this harness
// is grounded on the original CP/M trap loop but has never been run against
// a real test image (see DESIGN.md).

package main

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	cpmTPAStart  = 0x0100
	cpmBDOSEntry = 0x0005
	cpmBIOSWboot = 0x0000

	bdosCWrite    = 2
	bdosCWritestr = 9
)

func loadComFile(path string, bus *Bus) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	if len(data) > 0xFE00-cpmTPAStart {
		return 0, fmt.Errorf("COM file too large: %d bytes", len(data))
	}
	for i, b := range data {
		bus.Write(cpmTPAStart+uint16(i), b)
	}
	return len(data), nil
}

func setupCPMPageZero(bus *Bus) {
	bus.Write(0x0000, 0xC9) // RET: warm boot trap
	bus.Write(0x0005, 0xC9) // RET: BDOS trap
	bus.Write(0x0006, 0x00)
	bus.Write(0x0007, 0xF0) // fake top-of-TPA
}

func main() {
	path := "tests/zexall/zexall.com"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	fmt.Println("Z80 ZEXALL/ZEXDOC conformance runner")

	bus := NewFlatBus()
	n, err := loadComFile(path, bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "zexall: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s (%d bytes) at 0x%04X\n", path, n, cpmTPAStart)
	setupCPMPageZero(bus)

	cpu := NewCPU_Z80(bus)
	cpu.Reset()
	cpu.PC = cpmTPAStart
	cpu.SP = 0xF000

	var currentLine strings.Builder
	testCount, failCount := 0, 0

	checkLine := func() {
		s := currentLine.String()
		if strings.Contains(s, "ERROR") {
			testCount++
			failCount++
		} else if strings.Contains(s, "OK") {
			testCount++
		}
		currentLine.Reset()
	}

	start := time.Now()
	var totalInstructions uint64
	const instructionLimit = 50_000_000_000

	for {
		pc := cpu.PC

		if pc == cpmBDOSEntry {
			switch cpu.C {
			case bdosCWrite:
				ch := byte(cpu.E)
				fmt.Printf("%c", ch)
				if ch == '\n' {
					checkLine()
				} else {
					currentLine.WriteByte(ch)
				}
			case bdosCWritestr:
				addr := uint16(cpu.D)<<8 | uint16(cpu.E)
				for {
					ch := bus.Peek(addr)
					if ch == '$' {
						break
					}
					fmt.Printf("%c", ch)
					if ch == '\n' {
						checkLine()
					} else {
						currentLine.WriteByte(ch)
					}
					addr++
					if addr == 0 {
						break
					}
				}
			}
			ret := uint16(bus.Peek(cpu.SP)) | uint16(bus.Peek(cpu.SP+1))<<8
			cpu.SP += 2
			cpu.PC = ret
			continue
		}

		if pc == cpmBIOSWboot {
			if currentLine.Len() > 0 {
				checkLine()
			}
			fmt.Println("\n--- program terminated (CP/M warm boot) ---")
			break
		}

		cpu.Step()
		totalInstructions++
		if totalInstructions > instructionLimit {
			fmt.Fprintln(os.Stderr, "\nexecution limit reached")
			break
		}
	}

	elapsed := time.Since(start)
	fmt.Println("\n========================================")
	fmt.Printf("Tests run:    %d\n", testCount)
	fmt.Printf("Failures:     %d\n", failCount)
	fmt.Printf("Instructions: %d\n", totalInstructions)
	fmt.Printf("Wall time:    %.2fs\n", elapsed.Seconds())
	fmt.Println("========================================")

	if failCount > 0 {
		os.Exit(1)
	}
}
