// cpu_z80_ops.go - the unprefixed (base) Z80 opcode table: 8/16-bit loads,
// ALU, INC/DEC, jumps/calls/returns, exchanges, and the four prefix
// dispatchers (CB/ED/DD/FD) that hand off to cpu_z80_ops_ext.go.

package main

func (c *CPU_Z80) initBaseOps() {
	for i := range c.baseOps {
		c.baseOps[i] = (*CPU_Z80).opUnimplemented
	}

	c.baseOps[0x00] = (*CPU_Z80).opNOP
	c.baseOps[0x76] = (*CPU_Z80).opHALT

	// 0x40-0x7F minus HALT is the full 8x8 "LD r,r'" grid.
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		if opcode == 0x76 {
			continue
		}
		dest, src := byte((opcode>>3)&0x07), byte(opcode&0x07)
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.opLDRegReg(dest, src) }
	}

	for opcode, dest := range map[byte]byte{
		0x06: 0, 0x0E: 1, 0x16: 2, 0x1E: 3, 0x26: 4, 0x2E: 5, 0x36: 6, 0x3E: 7,
	} {
		d := dest
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.opLDRegImm(d) }
	}

	for base, op := range map[int]aluOp{0x80: aluAdd, 0x88: aluAdc, 0x90: aluSub, 0x98: aluSbc, 0xA0: aluAnd, 0xA8: aluXor, 0xB0: aluOr, 0xB8: aluCp} {
		alu := op
		for opcode := base; opcode <= base+7; opcode++ {
			src := byte(opcode & 0x07)
			c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.opALUReg(alu, src) }
		}
	}

	c.baseOps[0xC6] = (*CPU_Z80).opADDImm
	c.baseOps[0xCE] = (*CPU_Z80).opADCImm
	c.baseOps[0xD6] = (*CPU_Z80).opSUBImm
	c.baseOps[0xDE] = (*CPU_Z80).opSBCImm
	c.baseOps[0xE6] = (*CPU_Z80).opANDImm
	c.baseOps[0xEE] = (*CPU_Z80).opXORImm
	c.baseOps[0xF6] = (*CPU_Z80).opORImm
	c.baseOps[0xFE] = (*CPU_Z80).opCPImm

	c.baseOps[0x27] = (*CPU_Z80).opDAA
	c.baseOps[0x2F] = (*CPU_Z80).opCPL
	c.baseOps[0x37] = (*CPU_Z80).opSCF
	c.baseOps[0x3F] = (*CPU_Z80).opCCF

	c.baseOps[0x01] = (*CPU_Z80).opLDBCNN
	c.baseOps[0x11] = (*CPU_Z80).opLDDENN
	c.baseOps[0x21] = (*CPU_Z80).opLDHLImm
	c.baseOps[0x31] = (*CPU_Z80).opLDSPNN
	c.baseOps[0x09] = (*CPU_Z80).opADDHLBC
	c.baseOps[0x19] = (*CPU_Z80).opADDHLDE
	c.baseOps[0x29] = (*CPU_Z80).opADDHLHL
	c.baseOps[0x39] = (*CPU_Z80).opADDHLSP
	c.baseOps[0x03] = (*CPU_Z80).opINCBC
	c.baseOps[0x13] = (*CPU_Z80).opINCDE
	c.baseOps[0x23] = (*CPU_Z80).opINCHL
	c.baseOps[0x33] = (*CPU_Z80).opINCSP
	c.baseOps[0x0B] = (*CPU_Z80).opDECBC
	c.baseOps[0x1B] = (*CPU_Z80).opDECDE
	c.baseOps[0x2B] = (*CPU_Z80).opDECHL
	c.baseOps[0x3B] = (*CPU_Z80).opDECSP
	c.baseOps[0xC5] = (*CPU_Z80).opPUSHBC
	c.baseOps[0xD5] = (*CPU_Z80).opPUSHDE
	c.baseOps[0xE5] = (*CPU_Z80).opPUSHHL
	c.baseOps[0xF5] = (*CPU_Z80).opPUSHAF
	c.baseOps[0xC1] = (*CPU_Z80).opPOPBC
	c.baseOps[0xD1] = (*CPU_Z80).opPOPDE
	c.baseOps[0xE1] = (*CPU_Z80).opPOPHL
	c.baseOps[0xF1] = (*CPU_Z80).opPOPAF
	c.baseOps[0xC3] = (*CPU_Z80).opJPNN
	c.baseOps[0x18] = (*CPU_Z80).opJR
	c.baseOps[0x10] = (*CPU_Z80).opDJNZ
	c.baseOps[0xCD] = (*CPU_Z80).opCALLNN
	c.baseOps[0xC9] = (*CPU_Z80).opRET
	c.baseOps[0xE3] = (*CPU_Z80).opEXSPHL
	c.baseOps[0x08] = (*CPU_Z80).opEXAF
	c.baseOps[0xEB] = (*CPU_Z80).opEXDEHL
	c.baseOps[0xD9] = (*CPU_Z80).opEXX
	c.baseOps[0xE9] = (*CPU_Z80).opJPHL
	c.baseOps[0x22] = (*CPU_Z80).opLDNNHL
	c.baseOps[0x2A] = (*CPU_Z80).opLDHLNN
	c.baseOps[0x32] = (*CPU_Z80).opLDNNA
	c.baseOps[0x3A] = (*CPU_Z80).opLDANN
	c.baseOps[0x02] = (*CPU_Z80).opLDBCA
	c.baseOps[0x0A] = (*CPU_Z80).opLDABC
	c.baseOps[0x12] = (*CPU_Z80).opLDDEA
	c.baseOps[0x1A] = (*CPU_Z80).opLDADE
	c.baseOps[0xF9] = (*CPU_Z80).opLDSPHL
	c.baseOps[0xD3] = (*CPU_Z80).opOUTNA
	c.baseOps[0xDB] = (*CPU_Z80).opINAN
	c.baseOps[0x07] = (*CPU_Z80).opRLCA
	c.baseOps[0x0F] = (*CPU_Z80).opRRCA
	c.baseOps[0x17] = (*CPU_Z80).opRLA
	c.baseOps[0x1F] = (*CPU_Z80).opRRA

	for opcode := byte(0xC7); ; opcode += 0x08 {
		vector := opcode &^ 0xC7
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.opRST(uint16(vector)) }
		if opcode == 0xFF {
			break
		}
	}

	c.baseOps[0x04] = (*CPU_Z80).opINCB
	c.baseOps[0x0C] = (*CPU_Z80).opINCC
	c.baseOps[0x14] = (*CPU_Z80).opINCD
	c.baseOps[0x1C] = (*CPU_Z80).opINCE
	c.baseOps[0x24] = (*CPU_Z80).opINCH
	c.baseOps[0x2C] = (*CPU_Z80).opINCL
	c.baseOps[0x34] = (*CPU_Z80).opINCHLMem
	c.baseOps[0x3C] = (*CPU_Z80).opINCA
	c.baseOps[0x05] = (*CPU_Z80).opDECB
	c.baseOps[0x0D] = (*CPU_Z80).opDECC
	c.baseOps[0x15] = (*CPU_Z80).opDECD
	c.baseOps[0x1D] = (*CPU_Z80).opDECE
	c.baseOps[0x25] = (*CPU_Z80).opDECH
	c.baseOps[0x2D] = (*CPU_Z80).opDECL
	c.baseOps[0x35] = (*CPU_Z80).opDECHLMem
	c.baseOps[0x3D] = (*CPU_Z80).opDECA

	for opcode, flag := range map[byte]byte{0xC2: z80FlagZ, 0xD2: z80FlagC, 0xE2: z80FlagPV, 0xF2: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.jpCond(!cpu.Flag(f)) }
	}
	for opcode, flag := range map[byte]byte{0xCA: z80FlagZ, 0xDA: z80FlagC, 0xEA: z80FlagPV, 0xFA: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.jpCond(cpu.Flag(f)) }
	}
	c.baseOps[0x20] = (*CPU_Z80).opJRNZ
	c.baseOps[0x28] = (*CPU_Z80).opJRZ
	c.baseOps[0x30] = (*CPU_Z80).opJRNC
	c.baseOps[0x38] = (*CPU_Z80).opJRC
	for opcode, flag := range map[byte]byte{0xC4: z80FlagZ, 0xD4: z80FlagC, 0xE4: z80FlagPV, 0xF4: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.callCond(!cpu.Flag(f)) }
	}
	for opcode, flag := range map[byte]byte{0xCC: z80FlagZ, 0xDC: z80FlagC, 0xEC: z80FlagPV, 0xFC: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.callCond(cpu.Flag(f)) }
	}
	for opcode, flag := range map[byte]byte{0xC0: z80FlagZ, 0xD0: z80FlagC, 0xE0: z80FlagPV, 0xF0: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.retCond(!cpu.Flag(f)) }
	}
	for opcode, flag := range map[byte]byte{0xC8: z80FlagZ, 0xD8: z80FlagC, 0xE8: z80FlagPV, 0xF8: z80FlagS} {
		f := flag
		c.baseOps[opcode] = func(cpu *CPU_Z80) { cpu.retCond(cpu.Flag(f)) }
	}

	c.baseOps[0xCB] = (*CPU_Z80).opCBPrefix
	c.baseOps[0xDD] = (*CPU_Z80).opDDPrefix
	c.baseOps[0xFD] = (*CPU_Z80).opFDPrefix
	c.baseOps[0xED] = (*CPU_Z80).opEDPrefix
	c.baseOps[0xF3] = (*CPU_Z80).opDI
	c.baseOps[0xFB] = (*CPU_Z80).opEI
}

func (c *CPU_Z80) opUnimplemented() { c.tick(4) }
func (c *CPU_Z80) opNOP()           { c.tick(4) }

func (c *CPU_Z80) opHALT() {
	c.Halted = true
	c.tick(4)
}

func (c *CPU_Z80) opLDRegReg(dest, src byte) {
	c.writeReg8(dest, c.readReg8(src))
	if dest == 6 || src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPU_Z80) opLDRegImm(dest byte) {
	c.writeReg8(dest, c.fetchByte())
	if dest == 6 {
		c.tick(10)
	} else {
		c.tick(7)
	}
}

func (c *CPU_Z80) opALUReg(op aluOp, src byte) {
	c.performALU(op, c.readReg8(src))
	if src == 6 {
		c.tick(7)
	} else {
		c.tick(4)
	}
}

func (c *CPU_Z80) opADDImm() { c.performALU(aluAdd, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opADCImm() { c.performALU(aluAdc, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opSUBImm() { c.performALU(aluSub, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opSBCImm() { c.performALU(aluSbc, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opANDImm() { c.performALU(aluAnd, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opXORImm() { c.performALU(aluXor, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opORImm()  { c.performALU(aluOr, c.fetchByte()); c.tick(7) }
func (c *CPU_Z80) opCPImm()  { c.performALU(aluCp, c.fetchByte()); c.tick(7) }

func (c *CPU_Z80) opLDBCNN()  { c.SetBC(c.fetchWord()); c.tick(10) }
func (c *CPU_Z80) opLDDENN()  { c.SetDE(c.fetchWord()); c.tick(10) }
func (c *CPU_Z80) opLDHLImm() { c.SetHL(c.fetchWord()); c.tick(10) }
func (c *CPU_Z80) opLDSPNN()  { c.SP = c.fetchWord(); c.tick(10) }

func (c *CPU_Z80) opADDHLBC() { c.addHL(c.BC()); c.tick(11) }
func (c *CPU_Z80) opADDHLDE() { c.addHL(c.DE()); c.tick(11) }
func (c *CPU_Z80) opADDHLHL() { c.addHL(c.HL()); c.tick(11) }
func (c *CPU_Z80) opADDHLSP() { c.addHL(c.SP); c.tick(11) }

func (c *CPU_Z80) opINCBC() { c.SetBC(c.BC() + 1); c.tick(6) }
func (c *CPU_Z80) opINCDE() { c.SetDE(c.DE() + 1); c.tick(6) }
func (c *CPU_Z80) opINCHL() { c.SetHL(c.HL() + 1); c.tick(6) }
func (c *CPU_Z80) opINCSP() { c.SP++; c.tick(6) }
func (c *CPU_Z80) opDECBC() { c.SetBC(c.BC() - 1); c.tick(6) }
func (c *CPU_Z80) opDECDE() { c.SetDE(c.DE() - 1); c.tick(6) }
func (c *CPU_Z80) opDECHL() { c.SetHL(c.HL() - 1); c.tick(6) }
func (c *CPU_Z80) opDECSP() { c.SP--; c.tick(6) }

func (c *CPU_Z80) opPUSHBC() { c.pushWord(c.BC()); c.tick(11) }
func (c *CPU_Z80) opPUSHDE() { c.pushWord(c.DE()); c.tick(11) }
func (c *CPU_Z80) opPUSHHL() { c.pushWord(c.HL()); c.tick(11) }
func (c *CPU_Z80) opPUSHAF() { c.pushWord(c.AF()); c.tick(11) }
func (c *CPU_Z80) opPOPBC()  { c.SetBC(c.popWord()); c.tick(10) }
func (c *CPU_Z80) opPOPDE()  { c.SetDE(c.popWord()); c.tick(10) }
func (c *CPU_Z80) opPOPHL()  { c.SetHL(c.popWord()); c.tick(10) }
func (c *CPU_Z80) opPOPAF()  { c.SetAF(c.popWord()); c.tick(10) }

func (c *CPU_Z80) opJPNN() { c.PC = c.fetchWord(); c.tick(10) }

func (c *CPU_Z80) opJR() {
	disp := int8(c.fetchByte())
	c.PC = uint16(int32(c.PC) + int32(disp))
	c.tick(12)
}

func (c *CPU_Z80) opDJNZ() {
	disp := int8(c.fetchByte())
	c.B--
	if c.B != 0 {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(13)
	} else {
		c.tick(8)
	}
}

func (c *CPU_Z80) opCALLNN() {
	addr := c.fetchWord()
	c.pushWord(c.PC)
	c.PC = addr
	c.tick(17)
}

func (c *CPU_Z80) opRET() { c.PC = c.popWord(); c.tick(10) }

func (c *CPU_Z80) opEXSPHL() {
	memVal := uint16(c.read(c.SP+1))<<8 | uint16(c.read(c.SP))
	hl := c.HL()
	c.write(c.SP, byte(hl))
	c.write(c.SP+1, byte(hl>>8))
	c.SetHL(memVal)
	c.WZ = memVal
	c.tick(19)
}

func (c *CPU_Z80) opEXAF()   { c.ExAF(); c.tick(4) }
func (c *CPU_Z80) opEXDEHL() { c.D, c.H = c.H, c.D; c.E, c.L = c.L, c.E; c.tick(4) }
func (c *CPU_Z80) opEXX()    { c.Exx(); c.tick(4) }

func (c *CPU_Z80) opJPHL() { c.PC = c.HL(); c.WZ = c.PC; c.tick(4) }

func (c *CPU_Z80) opLDNNHL() {
	addr := c.fetchWord()
	value := c.HL()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPU_Z80) opLDHLNN() {
	addr := c.fetchWord()
	c.SetHL(uint16(c.read(addr+1))<<8 | uint16(c.read(addr)))
	c.WZ = addr + 1
	c.tick(16)
}

func (c *CPU_Z80) opLDNNA() { addr := c.fetchWord(); c.write(addr, c.A); c.WZ = addr; c.tick(13) }
func (c *CPU_Z80) opLDANN() { addr := c.fetchWord(); c.A = c.read(addr); c.WZ = addr; c.tick(13) }
func (c *CPU_Z80) opLDBCA() { c.write(c.BC(), c.A); c.tick(7) }
func (c *CPU_Z80) opLDABC() { c.A = c.read(c.BC()); c.tick(7) }
func (c *CPU_Z80) opLDDEA() { c.write(c.DE(), c.A); c.tick(7) }
func (c *CPU_Z80) opLDADE() { c.A = c.read(c.DE()); c.tick(7) }
func (c *CPU_Z80) opLDSPHL() { c.SP = c.HL(); c.tick(6) }

func (c *CPU_Z80) opOUTNA() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.out(port, c.A)
	c.tick(11)
}

func (c *CPU_Z80) opINAN() {
	port := uint16(c.A)<<8 | uint16(c.fetchByte())
	c.A = c.in(port)
	c.updateInFlags(c.A)
	c.tick(11)
}

func (c *CPU_Z80) opRLCA() {
	carry := c.A&0x80 != 0
	c.A = c.A<<1 | c.A>>7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPU_Z80) opRRCA() {
	carry := c.A&0x01 != 0
	c.A = c.A>>1 | c.A<<7
	c.updateRotateFlags(carry)
	c.tick(4)
}

func (c *CPU_Z80) opRLA() {
	carryOut := c.A&0x80 != 0
	c.A <<= 1
	if c.Flag(z80FlagC) {
		c.A |= 0x01
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPU_Z80) opRRA() {
	carryOut := c.A&0x01 != 0
	c.A >>= 1
	if c.Flag(z80FlagC) {
		c.A |= 0x80
	}
	c.updateRotateFlags(carryOut)
	c.tick(4)
}

func (c *CPU_Z80) opRST(vector uint16) {
	c.pushWord(c.PC)
	c.PC = vector
	c.tick(11)
}

func (c *CPU_Z80) opCBPrefix() { c.cbOps[c.fetchOpcode()](c) }

func (c *CPU_Z80) opDDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = z80PrefixDD
	c.ddOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPU_Z80) opFDPrefix() {
	opcode := c.fetchOpcode()
	prev := c.prefixMode
	c.prefixMode = z80PrefixFD
	c.fdOps[opcode](c)
	c.prefixMode = prev
}

func (c *CPU_Z80) opEDPrefix() { c.edOps[c.fetchOpcode()](c) }

func (c *CPU_Z80) opINCB() { c.B = c.inc8(c.B); c.tick(4) }
func (c *CPU_Z80) opINCC() { c.C = c.inc8(c.C); c.tick(4) }
func (c *CPU_Z80) opINCD() { c.D = c.inc8(c.D); c.tick(4) }
func (c *CPU_Z80) opINCE() { c.E = c.inc8(c.E); c.tick(4) }
func (c *CPU_Z80) opINCH() { c.writeReg8(4, c.inc8(c.readReg8(4))); c.tick(4) }
func (c *CPU_Z80) opINCL() { c.writeReg8(5, c.inc8(c.readReg8(5))); c.tick(4) }
func (c *CPU_Z80) opINCA() { c.A = c.inc8(c.A); c.tick(4) }

func (c *CPU_Z80) opINCHLMem() {
	addr := c.HL()
	c.write(addr, c.inc8(c.read(addr)))
	c.tick(11)
}

func (c *CPU_Z80) opDECB() { c.B = c.dec8(c.B); c.tick(4) }
func (c *CPU_Z80) opDECC() { c.C = c.dec8(c.C); c.tick(4) }
func (c *CPU_Z80) opDECD() { c.D = c.dec8(c.D); c.tick(4) }
func (c *CPU_Z80) opDECE() { c.E = c.dec8(c.E); c.tick(4) }
func (c *CPU_Z80) opDECH() { c.writeReg8(4, c.dec8(c.readReg8(4))); c.tick(4) }
func (c *CPU_Z80) opDECL() { c.writeReg8(5, c.dec8(c.readReg8(5))); c.tick(4) }
func (c *CPU_Z80) opDECA() { c.A = c.dec8(c.A); c.tick(4) }

func (c *CPU_Z80) opDECHLMem() {
	addr := c.HL()
	c.write(addr, c.dec8(c.read(addr)))
	c.tick(11)
}

func (c *CPU_Z80) opDI() {
	c.IFF1, c.IFF2 = false, false
	c.iffDelay = 0
	c.tick(4)
}

func (c *CPU_Z80) opEI() { c.iffDelay = 2; c.tick(4) }

func (c *CPU_Z80) opJRNZ() { c.jrCond(!c.Flag(z80FlagZ)) }
func (c *CPU_Z80) opJRZ()  { c.jrCond(c.Flag(z80FlagZ)) }
func (c *CPU_Z80) opJRNC() { c.jrCond(!c.Flag(z80FlagC)) }
func (c *CPU_Z80) opJRC()  { c.jrCond(c.Flag(z80FlagC)) }

func (c *CPU_Z80) jpCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.PC = addr
	}
	c.tick(10)
}

func (c *CPU_Z80) jrCond(cond bool) {
	disp := int8(c.fetchByte())
	if cond {
		c.PC = uint16(int32(c.PC) + int32(disp))
		c.tick(12)
	} else {
		c.tick(7)
	}
}

func (c *CPU_Z80) callCond(cond bool) {
	addr := c.fetchWord()
	if cond {
		c.pushWord(c.PC)
		c.PC = addr
		c.tick(17)
	} else {
		c.tick(10)
	}
}

func (c *CPU_Z80) retCond(cond bool) {
	if cond {
		c.PC = c.popWord()
		c.tick(11)
	} else {
		c.tick(5)
	}
}
