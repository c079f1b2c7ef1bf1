// cpu_z80_ops_ext.go - the CB-prefixed (bit/rotate/shift), ED-prefixed
// (extended) and DD/FD-prefixed (IX/IY indexed) opcode tables and their
// handlers.

package main

func (c *CPU_Z80) initCBOps() {
	regNames := [8]byte{0, 1, 2, 3, 4, 5, 6, 7} // B,C,D,E,H,L,(HL),A

	rotateFns := [8]func(*CPU_Z80, byte) (byte, bool){
		func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Left(v, v&0x80 != 0) },
		func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Right(v, v&0x01 != 0) },
		func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Left(v, cpu.Flag(z80FlagC)) },
		func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Right(v, cpu.Flag(z80FlagC)) },
		(*CPU_Z80).shiftLeftArithmetic,
		(*CPU_Z80).shiftRightArithmetic,
		func(cpu *CPU_Z80, v byte) (byte, bool) { return v<<1 | 1, v&0x80 != 0 },
		(*CPU_Z80).shiftRightLogical,
	}

	for group := 0; group < 8; group++ {
		fn := rotateFns[group]
		for _, reg := range regNames {
			r := reg
			opcode := byte(group<<3) | r
			c.cbOps[opcode] = func(cpu *CPU_Z80) { cpu.opCBRotateShift(fn, r) }
		}
	}

	for bit := byte(0); bit < 8; bit++ {
		b := bit
		for _, reg := range regNames {
			r := reg
			opcode := 0x40 | b<<3 | r
			c.cbOps[opcode] = func(cpu *CPU_Z80) { cpu.opCBBIT(b, r) }
		}
	}
	for bit := byte(0); bit < 8; bit++ {
		b := bit
		for _, reg := range regNames {
			r := reg
			opcode := 0x80 | b<<3 | r
			c.cbOps[opcode] = func(cpu *CPU_Z80) { cpu.opCBRES(b, r) }
		}
	}
	for bit := byte(0); bit < 8; bit++ {
		b := bit
		for _, reg := range regNames {
			r := reg
			opcode := 0xC0 | b<<3 | r
			c.cbOps[opcode] = func(cpu *CPU_Z80) { cpu.opCBSET(b, r) }
		}
	}
}

func (c *CPU_Z80) opCBRotateShift(fn func(*CPU_Z80, byte) (byte, bool), reg byte) {
	value := c.readReg8Plain(reg)
	res, carry := fn(c, value)
	c.writeReg8Plain(reg, res)
	c.updateRotateFlags(carry)
	c.setSZPFlags(res)
	if carry {
		c.F |= z80FlagC
	}
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPU_Z80) opCBBIT(bit, reg byte) {
	value := c.readReg8Plain(reg)
	set := value&(1<<bit) != 0
	c.F = (c.F & z80FlagC) | z80FlagH
	if !set {
		c.F |= z80FlagZ | z80FlagPV
	}
	if bit == 7 && set {
		c.F |= z80FlagS
	}
	// the undocumented X/Y bits come from the tested byte for a register
	// operand, but from the high byte of WZ for the (HL) form.
	if reg == 6 {
		c.F |= byte(c.WZ>>8) & (z80FlagX | z80FlagY)
		c.tick(12)
	} else {
		c.F |= value & (z80FlagX | z80FlagY)
		c.tick(8)
	}
}

func (c *CPU_Z80) opCBRES(bit, reg byte) {
	res := c.readReg8Plain(reg) &^ (1 << bit)
	c.writeReg8Plain(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPU_Z80) opCBSET(bit, reg byte) {
	res := c.readReg8Plain(reg) | (1 << bit)
	c.writeReg8Plain(reg, res)
	if reg == 6 {
		c.tick(15)
	} else {
		c.tick(8)
	}
}

func (c *CPU_Z80) initEDOps() {
	for i := range c.edOps {
		c.edOps[i] = (*CPU_Z80).opUnimplemented
	}

	c.edOps[0x47] = (*CPU_Z80).opLDIA
	c.edOps[0x4F] = (*CPU_Z80).opLDRA
	c.edOps[0x57] = (*CPU_Z80).opLDAI
	c.edOps[0x5F] = (*CPU_Z80).opLDAR
	c.edOps[0x67] = (*CPU_Z80).opRRD
	c.edOps[0x6F] = (*CPU_Z80).opRLD
	c.edOps[0x44], c.edOps[0x4C], c.edOps[0x54], c.edOps[0x5C] = (*CPU_Z80).opNEG, (*CPU_Z80).opNEG, (*CPU_Z80).opNEG, (*CPU_Z80).opNEG
	c.edOps[0x64], c.edOps[0x6C], c.edOps[0x74], c.edOps[0x7C] = (*CPU_Z80).opNEG, (*CPU_Z80).opNEG, (*CPU_Z80).opNEG, (*CPU_Z80).opNEG
	c.edOps[0x46], c.edOps[0x4E], c.edOps[0x66], c.edOps[0x6E] = (*CPU_Z80).opIM0, (*CPU_Z80).opIM0, (*CPU_Z80).opIM0, (*CPU_Z80).opIM0
	c.edOps[0x56], c.edOps[0x76] = (*CPU_Z80).opIM1, (*CPU_Z80).opIM1
	c.edOps[0x5E], c.edOps[0x7E] = (*CPU_Z80).opIM2, (*CPU_Z80).opIM2
	c.edOps[0x45], c.edOps[0x55], c.edOps[0x65], c.edOps[0x75] = (*CPU_Z80).opRETN, (*CPU_Z80).opRETN, (*CPU_Z80).opRETN, (*CPU_Z80).opRETN
	c.edOps[0x4D], c.edOps[0x5D], c.edOps[0x6D], c.edOps[0x7D] = (*CPU_Z80).opRETI, (*CPU_Z80).opRETI, (*CPU_Z80).opRETI, (*CPU_Z80).opRETI

	c.edOps[0xA0] = (*CPU_Z80).opLDI
	c.edOps[0xB0] = (*CPU_Z80).opLDIR
	c.edOps[0xA8] = (*CPU_Z80).opLDD
	c.edOps[0xB8] = (*CPU_Z80).opLDDR
	c.edOps[0xA1] = (*CPU_Z80).opCPI
	c.edOps[0xB1] = (*CPU_Z80).opCPIR
	c.edOps[0xA9] = (*CPU_Z80).opCPD
	c.edOps[0xB9] = (*CPU_Z80).opCPDR
	c.edOps[0xA2] = (*CPU_Z80).opINI
	c.edOps[0xB2] = (*CPU_Z80).opINIR
	c.edOps[0xAA] = (*CPU_Z80).opIND
	c.edOps[0xBA] = (*CPU_Z80).opINDR
	c.edOps[0xA3] = (*CPU_Z80).opOUTI
	c.edOps[0xB3] = (*CPU_Z80).opOTIR
	c.edOps[0xAB] = (*CPU_Z80).opOUTD
	c.edOps[0xBB] = (*CPU_Z80).opOTDR

	ioReg := map[byte]byte{0x40: 0, 0x48: 1, 0x50: 2, 0x58: 3, 0x60: 4, 0x68: 5, 0x78: 7}
	for opcode, reg := range ioReg {
		r := reg
		c.edOps[opcode] = func(cpu *CPU_Z80) { cpu.opINRegC(r) }
	}
	c.edOps[0x70] = func(cpu *CPU_Z80) { cpu.opINRegC(8) }
	for opcode, reg := range map[byte]byte{0x41: 0, 0x49: 1, 0x51: 2, 0x59: 3, 0x61: 4, 0x69: 5, 0x79: 7} {
		r := reg
		c.edOps[opcode] = func(cpu *CPU_Z80) { cpu.opOUTCReg(r) }
	}
	c.edOps[0x71] = func(cpu *CPU_Z80) { cpu.opOUTCReg(8) }

	c.edOps[0x4A] = func(cpu *CPU_Z80) { cpu.adcHL(cpu.BC()); cpu.tick(15) }
	c.edOps[0x5A] = func(cpu *CPU_Z80) { cpu.adcHL(cpu.DE()); cpu.tick(15) }
	c.edOps[0x6A] = func(cpu *CPU_Z80) { cpu.adcHL(cpu.HL()); cpu.tick(15) }
	c.edOps[0x7A] = func(cpu *CPU_Z80) { cpu.adcHL(cpu.SP); cpu.tick(15) }
	c.edOps[0x42] = func(cpu *CPU_Z80) { cpu.sbcHL(cpu.BC()); cpu.tick(15) }
	c.edOps[0x52] = func(cpu *CPU_Z80) { cpu.sbcHL(cpu.DE()); cpu.tick(15) }
	c.edOps[0x62] = func(cpu *CPU_Z80) { cpu.sbcHL(cpu.HL()); cpu.tick(15) }
	c.edOps[0x72] = func(cpu *CPU_Z80) { cpu.sbcHL(cpu.SP); cpu.tick(15) }

	c.edOps[0x43] = func(cpu *CPU_Z80) { cpu.opLDNNrr(cpu.BC()) }
	c.edOps[0x53] = func(cpu *CPU_Z80) { cpu.opLDNNrr(cpu.DE()) }
	c.edOps[0x63] = func(cpu *CPU_Z80) { cpu.opLDNNrr(cpu.HL()) }
	c.edOps[0x73] = func(cpu *CPU_Z80) { cpu.opLDNNrr(cpu.SP) }
	c.edOps[0x4B] = func(cpu *CPU_Z80) { cpu.SetBC(cpu.opLDrrNN()) }
	c.edOps[0x5B] = func(cpu *CPU_Z80) { cpu.SetDE(cpu.opLDrrNN()) }
	c.edOps[0x6B] = func(cpu *CPU_Z80) { cpu.SetHL(cpu.opLDrrNN()) }
	c.edOps[0x7B] = func(cpu *CPU_Z80) { cpu.SP = cpu.opLDrrNN() }
}

func (c *CPU_Z80) opLDIA() { c.I = c.A; c.tick(9) }
func (c *CPU_Z80) opLDRA() { c.R = c.A; c.tick(9) }
func (c *CPU_Z80) opLDAI() { c.A = c.I; c.updateLDAIRFlags(); c.tick(9) }
func (c *CPU_Z80) opLDAR() { c.A = c.R; c.updateLDAIRFlags(); c.tick(9) }

func (c *CPU_Z80) opRRD() {
	addr := c.HL()
	mem := c.read(addr)
	newMem := (c.A&0x0F)<<4 | mem>>4
	c.A = (c.A & 0xF0) | (mem & 0x0F)
	c.write(addr, newMem)
	c.updateAParityFlagsPreserveCarry()
	c.WZ = addr + 1
	c.tick(18)
}

func (c *CPU_Z80) opRLD() {
	addr := c.HL()
	mem := c.read(addr)
	newMem := mem<<4 | (c.A & 0x0F)
	c.A = (c.A & 0xF0) | (mem >> 4)
	c.write(addr, newMem)
	c.updateAParityFlagsPreserveCarry()
	c.WZ = addr + 1
	c.tick(18)
}

func (c *CPU_Z80) opIM0() { c.IM = 0; c.tick(8) }
func (c *CPU_Z80) opIM1() { c.IM = 1; c.tick(8) }
func (c *CPU_Z80) opIM2() { c.IM = 2; c.tick(8) }

func (c *CPU_Z80) opRETN() { c.IFF1 = c.IFF2; c.PC = c.popWord(); c.tick(14) }
func (c *CPU_Z80) opRETI() { c.IFF1 = c.IFF2; c.PC = c.popWord(); c.tick(14) }

func (c *CPU_Z80) opLDI() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() + 1)
	c.SetDE(c.DE() + 1)
	c.SetBC(c.BC() - 1)
	c.updateLDIFlags(value, c.BC())
	c.tick(16)
}

func (c *CPU_Z80) opLDIR() {
	c.opLDI()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opLDD() {
	value := c.read(c.HL())
	c.write(c.DE(), value)
	c.SetHL(c.HL() - 1)
	c.SetDE(c.DE() - 1)
	c.SetBC(c.BC() - 1)
	c.updateLDIFlags(value, c.BC())
	c.tick(16)
}

func (c *CPU_Z80) opLDDR() {
	c.opLDD()
	if c.BC() != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opCPI() {
	value := c.read(c.HL())
	c.blockCompare(value)
	c.SetHL(c.HL() + 1)
	c.SetBC(c.BC() - 1)
	c.tick(16)
}

func (c *CPU_Z80) opCPIR() {
	c.opCPI()
	if c.BC() != 0 && !c.Flag(z80FlagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opCPD() {
	value := c.read(c.HL())
	c.blockCompare(value)
	c.SetHL(c.HL() - 1)
	c.SetBC(c.BC() - 1)
	c.tick(16)
}

func (c *CPU_Z80) opCPDR() {
	c.opCPD()
	if c.BC() != 0 && !c.Flag(z80FlagZ) {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) blockCompare(value byte) {
	a := c.A
	diff := a - value
	halfBorrow := (a & 0x0F) < (value & 0x0F)

	c.F = (c.F & z80FlagC) | z80FlagN
	if diff == 0 {
		c.F |= z80FlagZ
	}
	if diff&0x80 != 0 {
		c.F |= z80FlagS
	}
	if halfBorrow {
		c.F |= z80FlagH
		diff--
	}
	if c.BC()-1 != 0 {
		c.F |= z80FlagPV
	}
	c.F |= diff & (z80FlagX | z80FlagY)
}

func (c *CPU_Z80) opINI() {
	value := c.in(c.BC())
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPU_Z80) opINIR() {
	c.opINI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opIND() {
	value := c.in(c.BC())
	c.write(c.HL(), value)
	c.B--
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPU_Z80) opINDR() {
	c.opIND()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opOUTI() {
	value := c.read(c.HL())
	c.out(c.BC(), value)
	c.B--
	c.SetHL(c.HL() + 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPU_Z80) opOTIR() {
	c.opOUTI()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

func (c *CPU_Z80) opOUTD() {
	value := c.read(c.HL())
	c.out(c.BC(), value)
	c.B--
	c.SetHL(c.HL() - 1)
	c.updateBlockIOFlags()
	c.tick(16)
}

func (c *CPU_Z80) opOTDR() {
	c.opOUTD()
	if c.B != 0 {
		c.PC -= 2
		c.tick(5)
	}
}

// opINRegC is IN r,(C); reg 8 means the undocumented "IN F,(C)" form that
// reads the port but only updates flags.
func (c *CPU_Z80) opINRegC(reg byte) {
	value := c.in(c.BC())
	if reg != 8 {
		c.writeReg8(reg, value)
	}
	c.updateInFlags(value)
	c.tick(12)
}

func (c *CPU_Z80) opOUTCReg(reg byte) {
	var value byte
	if reg == 8 {
		value = 0
	} else {
		value = c.readReg8(reg)
	}
	c.out(c.BC(), value)
	c.tick(12)
}

func (c *CPU_Z80) opLDNNrr(value uint16) {
	addr := c.fetchWord()
	c.write(addr, byte(value))
	c.write(addr+1, byte(value>>8))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPU_Z80) opLDrrNN() uint16 {
	addr := c.fetchWord()
	value := uint16(c.read(addr+1))<<8 | uint16(c.read(addr))
	c.WZ = addr + 1
	c.tick(20)
	return value
}

// --- DD/FD (IX/IY indexed) tables ---
//
// Most of the base table's opcodes keep their meaning unprefixed; only the
// handful that name HL directly (as a 16-bit register or as (HL) memory)
// need indexed-specific handlers here. Everything else falls back to the
// base table, which already resolves register code 4/5 (H/L) to the
// active index register's high/low byte via readReg8/writeReg8's prefix
// awareness.

func (c *CPU_Z80) initDDOps() { c.initIndexedOps(z80PrefixDD) }
func (c *CPU_Z80) initFDOps() { c.initIndexedOps(z80PrefixFD) }

func (c *CPU_Z80) initIndexedOps(mode byte) {
	table := &c.ddOps
	if mode == z80PrefixFD {
		table = &c.fdOps
	}
	*table = c.baseOps

	set := func(opcode byte, fn func(*CPU_Z80)) { table[opcode] = fn }

	set(0xCB, func(cpu *CPU_Z80) { cpu.opIndexedCB() })

	set(0x21, (*CPU_Z80).opLDIndexNN)
	set(0x22, (*CPU_Z80).opLDNNIndex)
	set(0x2A, (*CPU_Z80).opLDIndexFromNN)
	set(0xF9, func(cpu *CPU_Z80) { cpu.SP = cpu.indexValue(); cpu.tick(10) })
	set(0xE3, (*CPU_Z80).opEXSPIndex)
	set(0xE9, func(cpu *CPU_Z80) { cpu.PC = cpu.indexValue() })

	set(0x09, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.add16(cpu.indexValue(), cpu.BC())); cpu.tick(15) })
	set(0x19, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.add16(cpu.indexValue(), cpu.DE())); cpu.tick(15) })
	set(0x29, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.add16(cpu.indexValue(), cpu.indexValue())); cpu.tick(15) })
	set(0x39, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.add16(cpu.indexValue(), cpu.SP)); cpu.tick(15) })
	set(0x23, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.indexValue() + 1); cpu.tick(10) })
	set(0x2B, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.indexValue() - 1); cpu.tick(10) })
	set(0xE5, func(cpu *CPU_Z80) { cpu.pushWord(cpu.indexValue()); cpu.tick(15) })
	set(0xE1, func(cpu *CPU_Z80) { cpu.setIndexValue(cpu.popWord()); cpu.tick(14) })

	set(0x34, (*CPU_Z80).opINCIndexed)
	set(0x35, (*CPU_Z80).opDECIndexed)
	set(0x36, (*CPU_Z80).opLDIndexedImm)

	for _, reg := range [8]byte{0, 1, 2, 3, 4, 5, 7} {
		r := reg
		set(0x46|r<<3, func(cpu *CPU_Z80) { cpu.writeReg8Plain(r, cpu.readIndexed()); cpu.tick(19) })
		set(0x70|r, func(cpu *CPU_Z80) { cpu.writeIndexed(cpu.readReg8Plain(r)); cpu.tick(19) })
	}

	for opcode, op := range map[byte]aluOp{0x86: aluAdd, 0x8E: aluAdc, 0x96: aluSub, 0x9E: aluSbc, 0xA6: aluAnd, 0xAE: aluXor, 0xB6: aluOr, 0xBE: aluCp} {
		alu := op
		set(opcode, func(cpu *CPU_Z80) { cpu.performALU(alu, cpu.readIndexed()); cpu.tick(19) })
	}
}

func (c *CPU_Z80) indexValue() uint16 {
	if c.prefixMode == z80PrefixFD {
		return c.IY
	}
	return c.IX
}

func (c *CPU_Z80) setIndexValue(v uint16) {
	if c.prefixMode == z80PrefixFD {
		c.IY = v
	} else {
		c.IX = v
	}
}

// indexedAddr fetches the displacement byte following a DD/FD opcode and
// returns IX+d or IY+d, also latching WZ the way the real CPU does.
func (c *CPU_Z80) indexedAddr() uint16 {
	disp := int8(c.fetchByte())
	addr := uint16(int32(c.indexValue()) + int32(disp))
	c.WZ = addr
	return addr
}

func (c *CPU_Z80) readIndexed() byte       { return c.read(c.indexedAddr()) }
func (c *CPU_Z80) writeIndexed(value byte) { c.write(c.indexedAddr(), value) }

func (c *CPU_Z80) opLDIndexNN() { c.setIndexValue(c.fetchWord()); c.tick(14) }
func (c *CPU_Z80) opLDNNIndex() {
	addr := c.fetchWord()
	v := c.indexValue()
	c.write(addr, byte(v))
	c.write(addr+1, byte(v>>8))
	c.WZ = addr + 1
	c.tick(20)
}
func (c *CPU_Z80) opLDIndexFromNN() {
	addr := c.fetchWord()
	c.setIndexValue(uint16(c.read(addr+1))<<8 | uint16(c.read(addr)))
	c.WZ = addr + 1
	c.tick(20)
}

func (c *CPU_Z80) opEXSPIndex() {
	mem := uint16(c.read(c.SP+1))<<8 | uint16(c.read(c.SP))
	v := c.indexValue()
	c.write(c.SP, byte(v))
	c.write(c.SP+1, byte(v>>8))
	c.setIndexValue(mem)
	c.WZ = mem
	c.tick(23)
}

func (c *CPU_Z80) opINCIndexed() {
	addr := c.indexedAddr()
	c.write(addr, c.inc8(c.read(addr)))
	c.tick(23)
}

func (c *CPU_Z80) opDECIndexed() {
	addr := c.indexedAddr()
	c.write(addr, c.dec8(c.read(addr)))
	c.tick(23)
}

func (c *CPU_Z80) opLDIndexedImm() {
	addr := c.indexedAddr()
	c.write(addr, c.fetchByte())
	c.tick(19)
}

// opIndexedCB handles the DD/FD CB d op form: the displacement always
// comes before the CB sub-opcode, and every sub-opcode operates on
// (index+d) regardless of the register field it encodes - except BIT,
// which still reports its result through the normal flag path while
// reading only that one memory location.
func (c *CPU_Z80) opIndexedCB() {
	addr := c.indexedAddr()
	opcode := c.fetchByte()
	group, reg := opcode>>3, opcode&0x07

	switch {
	case opcode < 0x40:
		fn := [8]func(*CPU_Z80, byte) (byte, bool){
			func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Left(v, v&0x80 != 0) },
			func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Right(v, v&0x01 != 0) },
			func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Left(v, cpu.Flag(z80FlagC)) },
			func(cpu *CPU_Z80, v byte) (byte, bool) { return cpu.rotate8Right(v, cpu.Flag(z80FlagC)) },
			(*CPU_Z80).shiftLeftArithmetic,
			(*CPU_Z80).shiftRightArithmetic,
			func(cpu *CPU_Z80, v byte) (byte, bool) { return v<<1 | 1, v&0x80 != 0 },
			(*CPU_Z80).shiftRightLogical,
		}[group]
		res, carry := fn(c, c.read(addr))
		c.write(addr, res)
		c.updateRotateFlags(carry)
		c.setSZPFlags(res)
		if carry {
			c.F |= z80FlagC
		}
		if reg != 6 {
			c.writeReg8Plain(reg, res)
		}
	case opcode < 0x80:
		bit := group & 0x07
		value := c.read(addr)
		set := value&(1<<bit) != 0
		c.F = (c.F & z80FlagC) | z80FlagH
		if !set {
			c.F |= z80FlagZ | z80FlagPV
		}
		if bit == 7 && set {
			c.F |= z80FlagS
		}
		c.F |= byte(c.WZ>>8) & (z80FlagX | z80FlagY)
	case opcode < 0xC0:
		bit := group & 0x07
		res := c.read(addr) &^ (1 << bit)
		c.write(addr, res)
		if reg != 6 {
			c.writeReg8Plain(reg, res)
		}
	default:
		bit := group & 0x07
		res := c.read(addr) | (1 << bit)
		c.write(addr, res)
		if reg != 6 {
			c.writeReg8Plain(reg, res)
		}
	}
	c.tick(23)
}
