package asm

// CmpRegToReg encodes `cmp a, b` (opcode 0x39 /r), setting flags from
// a-b without storing the result.
func (a *Assembler) CmpRegToReg(x, y IntReg, wide bool) {
	a.arithRegToReg(0x39, x, y, wide)
	Tracef("cmp %v, %v", x, y)
}

// CmpImmToReg encodes `cmp reg, imm`.
func (a *Assembler) CmpImmToReg(reg IntReg, imm int32, wide bool) {
	a.arithImmToReg(7, reg, imm, wide)
	Tracef("cmp %v, %d", reg, imm)
}

// SetByteOnCondition encodes `setcc reg8` (opcode 0F 9X /0): writes 1 or 0
// into the low byte of reg according to cond, leaving the rest of the
// register untouched. The code generator zeroes the register with
// XorRegToReg before the compare, so the full register holds 0 or 1.
func (a *Assembler) SetByteOnCondition(reg IntReg, cond Condition) {
	if cond == Always {
		panic("asm: SetByteOnCondition does not accept Always")
	}
	a.rexPrefixIfNeeded(false, false, false, reg.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x90 | (byte(cond) & 0x0F))
	a.Buf.PushByte(0xC0 | reg.low3())
	Tracef("set%v %v", cond, reg)
}
