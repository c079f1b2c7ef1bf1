// cpu_z80_disasm.go - Z80 disassembler for the "d"/"disasm" monitor
// command. Decoded mnemonics follow the real Z80 instruction set (there's
// only one correct way to spell "LD A,(HL)"), but every line is also
// checked against the ROM entry points intercept.go fast-paths, so the
// monitor can show *why* a given PC matters on this machine instead of
// just what opcode sits there.

package main

import (
	"fmt"
	"strings"
)

var z80DisasmReg8 = [8]string{"B", "C", "D", "E", "H", "L", "(HL)", "A"}
var z80DisasmReg16 = [4]string{"BC", "DE", "HL", "SP"}
var z80DisasmReg16Push = [4]string{"BC", "DE", "HL", "AF"}
var z80DisasmCond = [8]string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"}
var z80DisasmALU = [8]string{"ADD A,", "ADC A,", "SUB", "SBC A,", "AND", "XOR", "OR", "CP"}
var z80DisasmShift = [8]string{"RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL"}

// romInterceptName reports the name of the cassette/BASIC ROM entry point
// at addr, if intercept.go treats it specially.
func romInterceptName(addr uint16) (string, bool) {
	switch addr {
	case romSystemEntry:
		return "romSystemEntry (SYSTEM command)", true
	case romSyncSearch:
		return "romSyncSearch (CLOAD sync search)", true
	case romWriteLeader:
		return "romWriteLeader (CSAVE leader)", true
	case romBasicReady:
		return "romBasicReady (warm restart)", true
	case romCasinFirst:
		return "romCasinFirst (CASIN clock realign)", true
	case romCasinRet:
		return "romCasinRet (CASIN byte read)", true
	case romKey:
		return "romKey ($KEY wait-for-key)", true
	}
	return "", false
}

// disassembleZ80 decodes count instructions starting at addr. readMem must
// return up to size bytes starting at addr, short if it runs off the end
// of addressable memory.
func disassembleZ80(readMem func(addr uint64, size int) []byte, addr uint64, count int) []DisassembledLine {
	lines := make([]DisassembledLine, 0, count)
	for i := 0; i < count; i++ {
		data := readMem(addr, 4) // the longest Z80 instruction (DDCB/FDCB forms) is 4 bytes
		if len(data) == 0 {
			break
		}
		size, mnemonic := z80Decode(data, uint16(addr))

		hex := make([]string, 0, size)
		for j := 0; j < size && j < len(data); j++ {
			hex = append(hex, fmt.Sprintf("%02X", data[j]))
		}

		line := DisassembledLine{
			Address:  addr,
			HexBytes: strings.Join(hex, " "),
			Mnemonic: mnemonic,
			Size:     size,
		}
		if target, isBranch := z80BranchTarget(data, uint16(addr)); isBranch {
			line.IsBranch = true
			line.BranchTarget = uint64(target)
		}
		if name, ok := romInterceptName(uint16(addr)); ok {
			line.Annotation = name
		}

		lines = append(lines, line)
		addr += uint64(size)
	}
	return lines
}

// z80BranchTarget reports the static target of a JP/CALL/JR/DJNZ at pc,
// when the encoding carries one directly (conditional forms included;
// indirect forms like JP (HL) have no static target to report).
func z80BranchTarget(data []byte, pc uint16) (uint16, bool) {
	if len(data) == 0 {
		return 0, false
	}
	op := data[0]
	switch {
	case op == 0xC3 || op == 0xCD ||
		(op&0xC7 == 0xC2) || (op&0xC7 == 0xC4): // JP nn / CALL nn / JP cc,nn / CALL cc,nn
		if len(data) < 3 {
			return 0, false
		}
		return uint16(data[1]) | uint16(data[2])<<8, true
	case op == 0x18 || op == 0x10 || op&0xE7 == 0x20: // JR e / DJNZ e / JR cc,e
		if len(data) < 2 {
			return 0, false
		}
		return pc + 2 + uint16(int8(data[1])), true
	}
	return 0, false
}

func z80Decode(data []byte, pc uint16) (int, string) {
	switch data[0] {
	case 0xCB:
		if len(data) < 2 {
			return 1, "db $CB"
		}
		return 2, z80DecodeCB(data[1], z80DisasmReg8[data[1]&7])
	case 0xED:
		if len(data) < 2 {
			return 1, "db $ED"
		}
		return z80DecodeED(data[1:])
	case 0xDD:
		if len(data) < 2 {
			return 1, "db $DD"
		}
		return z80DecodeIndexed(data[1:], "IX")
	case 0xFD:
		if len(data) < 2 {
			return 1, "db $FD"
		}
		return z80DecodeIndexed(data[1:], "IY")
	}
	return z80DecodeBase(data, pc)
}

func z80DecodeBase(data []byte, pc uint16) (int, string) {
	op := data[0]

	switch op {
	case 0x00:
		return 1, "NOP"
	case 0x76:
		return 1, "HALT"
	}

	// 01dddsss: LD d,s over the register grid (HALT already handled above).
	if op&0xC0 == 0x40 {
		return 1, fmt.Sprintf("LD %s, %s", z80DisasmReg8[(op>>3)&7], z80DisasmReg8[op&7])
	}
	// 10aaasss: ALU A,s
	if op&0xC0 == 0x80 {
		return 1, fmt.Sprintf("%s %s", z80DisasmALU[(op>>3)&7], z80DisasmReg8[op&7])
	}

	need := func(n int, fallback string) (int, string, bool) {
		if len(data) < n {
			return 1, fallback, false
		}
		return n, "", true
	}
	word := func() uint16 { return uint16(data[1]) | uint16(data[2])<<8 }

	switch op {
	case 0x01, 0x11, 0x21, 0x31:
		if n, fb, ok := need(3, "LD rr, nn"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("LD %s, $%04X", z80DisasmReg16[(op>>4)&3], word())
	case 0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x36, 0x3E:
		if n, fb, ok := need(2, "LD r, n"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("LD %s, $%02X", z80DisasmReg8[(op>>3)&7], data[1])
	case 0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE:
		if n, fb, ok := need(2, "ALU n"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("%s $%02X", z80DisasmALU[(op>>3)&7], data[1])
	case 0xC3:
		if n, fb, ok := need(3, "JP ???"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("JP $%04X", word())
	case 0xCD:
		if n, fb, ok := need(3, "CALL ???"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("CALL $%04X", word())
	case 0xC9:
		return 1, "RET"
	case 0x18:
		if n, fb, ok := need(2, "JR ???"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("JR $%04X", pc+2+uint16(int8(data[1])))
	case 0x10:
		if n, fb, ok := need(2, "DJNZ ???"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("DJNZ $%04X", pc+2+uint16(int8(data[1])))
	case 0x20, 0x28, 0x30, 0x38:
		if n, fb, ok := need(2, "JR cc, ???"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("JR %s, $%04X", z80DisasmCond[(op>>3)&3], pc+2+uint16(int8(data[1])))
	case 0xC2, 0xCA, 0xD2, 0xDA, 0xE2, 0xEA, 0xF2, 0xFA:
		if n, fb, ok := need(3, "JP cc, ???"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("JP %s, $%04X", z80DisasmCond[(op>>3)&7], word())
	case 0xC4, 0xCC, 0xD4, 0xDC, 0xE4, 0xEC, 0xF4, 0xFC:
		if n, fb, ok := need(3, "CALL cc, ???"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("CALL %s, $%04X", z80DisasmCond[(op>>3)&7], word())
	case 0xC0, 0xC8, 0xD0, 0xD8, 0xE0, 0xE8, 0xF0, 0xF8:
		return 1, fmt.Sprintf("RET %s", z80DisasmCond[(op>>3)&7])
	case 0xC5, 0xD5, 0xE5, 0xF5:
		return 1, fmt.Sprintf("PUSH %s", z80DisasmReg16Push[(op>>4)&3])
	case 0xC1, 0xD1, 0xE1, 0xF1:
		return 1, fmt.Sprintf("POP %s", z80DisasmReg16Push[(op>>4)&3])
	case 0x03, 0x13, 0x23, 0x33:
		return 1, fmt.Sprintf("INC %s", z80DisasmReg16[(op>>4)&3])
	case 0x0B, 0x1B, 0x2B, 0x3B:
		return 1, fmt.Sprintf("DEC %s", z80DisasmReg16[(op>>4)&3])
	case 0x04, 0x0C, 0x14, 0x1C, 0x24, 0x2C, 0x34, 0x3C:
		return 1, fmt.Sprintf("INC %s", z80DisasmReg8[(op>>3)&7])
	case 0x05, 0x0D, 0x15, 0x1D, 0x25, 0x2D, 0x35, 0x3D:
		return 1, fmt.Sprintf("DEC %s", z80DisasmReg8[(op>>3)&7])
	case 0x09, 0x19, 0x29, 0x39:
		return 1, fmt.Sprintf("ADD HL, %s", z80DisasmReg16[(op>>4)&3])
	case 0x0A:
		return 1, "LD A, (BC)"
	case 0x1A:
		return 1, "LD A, (DE)"
	case 0x02:
		return 1, "LD (BC), A"
	case 0x12:
		return 1, "LD (DE), A"
	case 0x22:
		if n, fb, ok := need(3, "LD (nn), HL"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("LD ($%04X), HL", word())
	case 0x2A:
		if n, fb, ok := need(3, "LD HL, (nn)"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("LD HL, ($%04X)", word())
	case 0x32:
		if n, fb, ok := need(3, "LD (nn), A"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("LD ($%04X), A", word())
	case 0x3A:
		if n, fb, ok := need(3, "LD A, (nn)"); !ok {
			return n, fb
		}
		return 3, fmt.Sprintf("LD A, ($%04X)", word())
	case 0xE9:
		return 1, "JP (HL)"
	case 0xF9:
		return 1, "LD SP, HL"
	case 0xEB:
		return 1, "EX DE, HL"
	case 0xD9:
		return 1, "EXX"
	case 0x08:
		return 1, "EX AF, AF'"
	case 0xF3:
		return 1, "DI"
	case 0xFB:
		return 1, "EI"
	case 0xDB:
		if n, fb, ok := need(2, "IN A, (n)"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("IN A, ($%02X)", data[1])
	case 0xD3:
		if n, fb, ok := need(2, "OUT (n), A"); !ok {
			return n, fb
		}
		return 2, fmt.Sprintf("OUT ($%02X), A", data[1])
	case 0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF:
		return 1, fmt.Sprintf("RST $%02X", op&0x38)
	case 0x07:
		return 1, "RLCA"
	case 0x0F:
		return 1, "RRCA"
	case 0x17:
		return 1, "RLA"
	case 0x1F:
		return 1, "RRA"
	case 0x27:
		return 1, "DAA"
	case 0x2F:
		return 1, "CPL"
	case 0x37:
		return 1, "SCF"
	case 0x3F:
		return 1, "CCF"
	case 0xE3:
		return 1, "EX (SP), HL"
	}
	return 1, fmt.Sprintf("db $%02X", op)
}

func z80DecodeCB(op byte, reg string) string {
	bit := (op >> 3) & 7
	switch {
	case op < 0x40:
		return fmt.Sprintf("%s %s", z80DisasmShift[bit], reg)
	case op < 0x80:
		return fmt.Sprintf("BIT %d, %s", bit, reg)
	case op < 0xC0:
		return fmt.Sprintf("RES %d, %s", bit, reg)
	default:
		return fmt.Sprintf("SET %d, %s", bit, reg)
	}
}

func z80DecodeED(data []byte) (int, string) {
	op := data[0]
	word := func() (uint16, bool) {
		if len(data) < 3 {
			return 0, false
		}
		return uint16(data[1]) | uint16(data[2])<<8, true
	}

	switch op {
	case 0x40, 0x48, 0x50, 0x58, 0x60, 0x68, 0x78:
		return 2, fmt.Sprintf("IN %s, (C)", z80DisasmReg8[(op>>3)&7])
	case 0x41, 0x49, 0x51, 0x59, 0x61, 0x69, 0x79:
		return 2, fmt.Sprintf("OUT (C), %s", z80DisasmReg8[(op>>3)&7])
	case 0x42, 0x52, 0x62, 0x72:
		return 2, fmt.Sprintf("SBC HL, %s", z80DisasmReg16[(op>>4)&3])
	case 0x4A, 0x5A, 0x6A, 0x7A:
		return 2, fmt.Sprintf("ADC HL, %s", z80DisasmReg16[(op>>4)&3])
	case 0x43, 0x53, 0x63, 0x73:
		if nn, ok := word(); ok {
			return 4, fmt.Sprintf("LD ($%04X), %s", nn, z80DisasmReg16[(op>>4)&3])
		}
		return 2, "LD (nn), rr"
	case 0x4B, 0x5B, 0x6B, 0x7B:
		if nn, ok := word(); ok {
			return 4, fmt.Sprintf("LD %s, ($%04X)", z80DisasmReg16[(op>>4)&3], nn)
		}
		return 2, "LD rr, (nn)"
	case 0x44, 0x4C, 0x54, 0x5C, 0x64, 0x6C, 0x74, 0x7C:
		return 2, "NEG"
	case 0x45, 0x55, 0x65, 0x75:
		return 2, "RETN"
	case 0x4D, 0x5D, 0x6D, 0x7D:
		return 2, "RETI"
	case 0x46, 0x4E, 0x66, 0x6E:
		return 2, "IM 0"
	case 0x56, 0x76:
		return 2, "IM 1"
	case 0x5E, 0x7E:
		return 2, "IM 2"
	case 0x47:
		return 2, "LD I, A"
	case 0x4F:
		return 2, "LD R, A"
	case 0x57:
		return 2, "LD A, I"
	case 0x5F:
		return 2, "LD A, R"
	case 0x67:
		return 2, "RRD"
	case 0x6F:
		return 2, "RLD"
	case 0xA0:
		return 2, "LDI"
	case 0xA8:
		return 2, "LDD"
	case 0xB0:
		return 2, "LDIR"
	case 0xB8:
		return 2, "LDDR"
	case 0xA1:
		return 2, "CPI"
	case 0xA9:
		return 2, "CPD"
	case 0xB1:
		return 2, "CPIR"
	case 0xB9:
		return 2, "CPDR"
	case 0xA2:
		return 2, "INI"
	case 0xAA:
		return 2, "IND"
	case 0xB2:
		return 2, "INIR"
	case 0xBA:
		return 2, "INDR"
	case 0xA3:
		return 2, "OUTI"
	case 0xAB:
		return 2, "OUTD"
	case 0xB3:
		return 2, "OTIR"
	case 0xBB:
		return 2, "OTDR"
	}
	return 2, fmt.Sprintf("db $ED, $%02X", op)
}

// z80DecodeIndexed handles every DD/FD-prefixed opcode, idx is "IX" or "IY".
func z80DecodeIndexed(data []byte, idx string) (int, string) {
	op := data[0]

	if op == 0xCB {
		return z80DecodeIndexedCB(data, idx)
	}

	word := func() (uint16, bool) {
		if len(data) < 3 {
			return 0, false
		}
		return uint16(data[1]) | uint16(data[2])<<8, true
	}
	disp := func() (int8, bool) {
		if len(data) < 2 {
			return 0, false
		}
		return int8(data[1]), true
	}

	switch op {
	case 0x21:
		if nn, ok := word(); ok {
			return 4, fmt.Sprintf("LD %s, $%04X", idx, nn)
		}
		return 2, fmt.Sprintf("LD %s, nn", idx)
	case 0x22:
		if nn, ok := word(); ok {
			return 4, fmt.Sprintf("LD ($%04X), %s", nn, idx)
		}
		return 2, fmt.Sprintf("LD (nn), %s", idx)
	case 0x2A:
		if nn, ok := word(); ok {
			return 4, fmt.Sprintf("LD %s, ($%04X)", idx, nn)
		}
		return 2, fmt.Sprintf("LD %s, (nn)", idx)
	case 0x23:
		return 2, fmt.Sprintf("INC %s", idx)
	case 0x2B:
		return 2, fmt.Sprintf("DEC %s", idx)
	case 0x36:
		if len(data) < 3 {
			return 2, fmt.Sprintf("LD (%s+d), n", idx)
		}
		return 4, fmt.Sprintf("LD (%s%+d), $%02X", idx, int8(data[1]), data[2])
	case 0x34:
		if d, ok := disp(); ok {
			return 3, fmt.Sprintf("INC (%s%+d)", idx, d)
		}
		return 2, fmt.Sprintf("INC (%s+d)", idx)
	case 0x35:
		if d, ok := disp(); ok {
			return 3, fmt.Sprintf("DEC (%s%+d)", idx, d)
		}
		return 2, fmt.Sprintf("DEC (%s+d)", idx)
	case 0xE1:
		return 2, fmt.Sprintf("POP %s", idx)
	case 0xE5:
		return 2, fmt.Sprintf("PUSH %s", idx)
	case 0xE9:
		return 2, fmt.Sprintf("JP (%s)", idx)
	case 0xF9:
		return 2, fmt.Sprintf("LD SP, %s", idx)
	case 0xE3:
		return 2, fmt.Sprintf("EX (SP), %s", idx)
	case 0x09, 0x19, 0x29, 0x39:
		return 2, fmt.Sprintf("ADD %s, %s", idx, z80DisasmReg16[(op>>4)&3])
	}

	if op&0xC0 == 0x40 {
		dst, src := (op>>3)&7, op&7
		d, ok := disp()
		switch {
		case src == 6:
			if !ok {
				return 2, fmt.Sprintf("LD %s, (%s+d)", z80DisasmReg8[dst], idx)
			}
			return 3, fmt.Sprintf("LD %s, (%s%+d)", z80DisasmReg8[dst], idx, d)
		case dst == 6:
			if !ok {
				return 2, fmt.Sprintf("LD (%s+d), %s", idx, z80DisasmReg8[src])
			}
			return 3, fmt.Sprintf("LD (%s%+d), %s", idx, d, z80DisasmReg8[src])
		}
	}

	if op&0xC0 == 0x80 && op&7 == 6 {
		if d, ok := disp(); ok {
			return 3, fmt.Sprintf("%s (%s%+d)", z80DisasmALU[(op>>3)&7], idx, d)
		}
		return 2, fmt.Sprintf("%s (%s+d)", z80DisasmALU[(op>>3)&7], idx)
	}

	return 2, fmt.Sprintf("db $%s, $%02X", idx[:1], op)
}

func z80DecodeIndexedCB(data []byte, idx string) (int, string) {
	if len(data) < 3 {
		return 2, fmt.Sprintf("db $%s, $CB", idx[:1])
	}
	d, op2 := int8(data[1]), data[2]
	bit := (op2 >> 3) & 7
	loc := fmt.Sprintf("(%s%+d)", idx, d)
	switch {
	case op2 < 0x40:
		return 4, fmt.Sprintf("%s %s", z80DisasmShift[bit], loc)
	case op2 < 0x80:
		return 4, fmt.Sprintf("BIT %d, %s", bit, loc)
	case op2 < 0xC0:
		return 4, fmt.Sprintf("RES %d, %s", bit, loc)
	default:
		return 4, fmt.Sprintf("SET %d, %s", bit, loc)
	}
}
