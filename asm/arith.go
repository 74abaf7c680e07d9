package asm

// arithRegToReg encodes the common `<op> dst, src` reg/reg form shared by
// add/sub/and/or/xor: a single opcode byte plus a register/register
// ModR/M (mod=11).
func (a *Assembler) arithRegToReg(opcode byte, dst, src IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, src.needsRex(), false, dst.needsRex())
	a.Buf.PushByte(opcode)
	a.Buf.PushByte(0xC0 | (src.low3() << 3) | dst.low3())
}

// arithImmToReg encodes the common `<op> dst, imm` form shared by
// add/sub/and/or/xor: opcode 0x83 with an 8-bit immediate when it fits,
// else 0x81 with a 32-bit immediate, both using digit as the ModR/M
// reg-field opcode extension.
func (a *Assembler) arithImmToReg(digit byte, dst IntReg, imm int32, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, dst.needsRex())
	if imm >= -128 && imm <= 127 {
		a.Buf.PushByte(0x83)
		a.Buf.PushByte(0xC0 | (digit << 3) | dst.low3())
		a.Buf.PushByte(byte(int8(imm)))
	} else {
		a.Buf.PushByte(0x81)
		a.Buf.PushByte(0xC0 | (digit << 3) | dst.low3())
		a.Buf.PushU32(uint32(imm))
	}
}

// AddRegToReg encodes `add dst, src` (opcode 0x01 /r).
func (a *Assembler) AddRegToReg(dst, src IntReg, wide bool) {
	a.arithRegToReg(0x01, dst, src, wide)
	Tracef("add %v, %v", dst, src)
}

// AddImmToReg encodes `add dst, imm`.
func (a *Assembler) AddImmToReg(dst IntReg, imm int32, wide bool) {
	a.arithImmToReg(0, dst, imm, wide)
	Tracef("add %v, %d", dst, imm)
}

// SubRegToReg encodes `sub dst, src` (opcode 0x29 /r).
func (a *Assembler) SubRegToReg(dst, src IntReg, wide bool) {
	a.arithRegToReg(0x29, dst, src, wide)
	Tracef("sub %v, %v", dst, src)
}

// SubImmToReg encodes `sub dst, imm`.
func (a *Assembler) SubImmToReg(dst IntReg, imm int32, wide bool) {
	a.arithImmToReg(5, dst, imm, wide)
	Tracef("sub %v, %d", dst, imm)
}

// AndRegToReg encodes `and dst, src` (opcode 0x21 /r).
func (a *Assembler) AndRegToReg(dst, src IntReg, wide bool) {
	a.arithRegToReg(0x21, dst, src, wide)
	Tracef("and %v, %v", dst, src)
}

// OrRegToReg encodes `or dst, src` (opcode 0x09 /r).
func (a *Assembler) OrRegToReg(dst, src IntReg, wide bool) {
	a.arithRegToReg(0x09, dst, src, wide)
	Tracef("or %v, %v", dst, src)
}

// XorRegToReg encodes `xor dst, src` (opcode 0x31 /r). Also the idiomatic
// zeroing idiom (`xor eax, eax`) the code generator uses to materialize a
// false/0 result without a constant load.
func (a *Assembler) XorRegToReg(dst, src IntReg, wide bool) {
	a.arithRegToReg(0x31, dst, src, wide)
	Tracef("xor %v, %v", dst, src)
}

// Cdq sign-extends AX into DX:AX ahead of a signed division — cdq (0x99)
// for a 32-bit dividend, cqo (REX.W + 0x99) for a 64-bit one.
func (a *Assembler) Cdq(wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, false)
	a.Buf.PushByte(0x99)
	Tracef("cdq (wide=%v)", wide)
}

// IdivReg encodes `idiv reg` (opcode 0xF7 /7): signed divide DX:AX by reg,
// quotient in AX, remainder in DX. Callers must Cdq first.
func (a *Assembler) IdivReg(reg IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, reg.needsRex())
	a.Buf.PushByte(0xF7)
	a.Buf.PushByte(0xC0 | (7 << 3) | reg.low3())
	Tracef("idiv %v", reg)
}

// ImulRegToReg encodes `imul dst, src` (two-byte opcode 0x0F 0xAF /r):
// signed multiply, dst := dst * src, truncated to the operand width.
func (a *Assembler) ImulRegToReg(dst, src IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, dst.needsRex(), false, src.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0xAF)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("imul %v, %v", dst, src)
}

// ShlRegByCL encodes `shl reg, cl` (opcode 0xD3 /4): left shift by the
// count in CL, matching the original's CX-only shift-count convention.
func (a *Assembler) ShlRegByCL(reg IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, reg.needsRex())
	a.Buf.PushByte(0xD3)
	a.Buf.PushByte(0xC0 | (4 << 3) | reg.low3())
	Tracef("shl %v, cl", reg)
}

// SarRegByCL encodes `sar reg, cl` (opcode 0xD3 /7): arithmetic right
// shift by the count in CL.
func (a *Assembler) SarRegByCL(reg IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, reg.needsRex())
	a.Buf.PushByte(0xD3)
	a.Buf.PushByte(0xC0 | (7 << 3) | reg.low3())
	Tracef("sar %v, cl", reg)
}

// NegReg encodes `neg reg` (opcode 0xF7 /3): two's-complement negation.
func (a *Assembler) NegReg(reg IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, reg.needsRex())
	a.Buf.PushByte(0xF7)
	a.Buf.PushByte(0xC0 | (3 << 3) | reg.low3())
	Tracef("neg %v", reg)
}

// NotReg encodes `not reg` (opcode 0xF7 /2): bitwise complement.
func (a *Assembler) NotReg(reg IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, false, false, reg.needsRex())
	a.Buf.PushByte(0xF7)
	a.Buf.PushByte(0xC0 | (2 << 3) | reg.low3())
	Tracef("not %v", reg)
}
