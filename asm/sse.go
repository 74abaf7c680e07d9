package asm

// Scalar double-precision (SSE2) encoding, x86-64 only. On TargetX86,
// Double arithmetic goes through the x87 stack instead (x87.go); the
// Microsoft x64 and SysV-on-x86-64 conventions both return/pass doubles
// in XMM0, so x86-64 never needs the x87 unit at all.

func requireX86_64(a *Assembler, what string) {
	if !a.Target.Is64Bit() {
		panic("asm: " + what + " requires TargetX86_64")
	}
}

// MovsdRegToReg encodes `movsd dst, src` (F2 0F 10 /r), register to
// register.
func (a *Assembler) MovsdRegToReg(dst, src XMMReg) {
	requireX86_64(a, "MovsdRegToReg")
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(false, dst.needsRex(), src.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x10)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("movsd %v, %v", dst, src)
}

// MovsdMemToReg encodes `movsd dst, [base+offset]` (F2 0F 10 /r, memory
// form) — loading a double out of a stack slot or string-indexed buffer.
func (a *Assembler) MovsdMemToReg(dst XMMReg, base IntReg, offset int32) {
	requireX86_64(a, "MovsdMemToReg")
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(false, dst.needsRex(), base.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x10)
	a.modrmXMMMemOrDisp(dst, base, offset)
	Tracef("movsd %v, [%v+%d]", dst, base, offset)
}

// MovsdRegToMem encodes `movsd [base+offset], src` (F2 0F 11 /r, store).
func (a *Assembler) MovsdRegToMem(base IntReg, offset int32, src XMMReg) {
	requireX86_64(a, "MovsdRegToMem")
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(false, src.needsRex(), base.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x11)
	a.modrmXMMMemOrDisp(src, base, offset)
	Tracef("movsd [%v+%d], %v", base, offset, src)
}

func (a *Assembler) sseArith(op byte, dst, src XMMReg, mnemonic string) {
	requireX86_64(a, mnemonic)
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(false, dst.needsRex(), src.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(op)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("%s %v, %v", mnemonic, dst, src)
}

// AddsdRegToReg encodes `addsd dst, src` (F2 0F 58 /r): dst += src.
func (a *Assembler) AddsdRegToReg(dst, src XMMReg) { a.sseArith(0x58, dst, src, "addsd") }

// SubsdRegToReg encodes `subsd dst, src` (F2 0F 5C /r): dst -= src.
func (a *Assembler) SubsdRegToReg(dst, src XMMReg) { a.sseArith(0x5C, dst, src, "subsd") }

// MulsdRegToReg encodes `mulsd dst, src` (F2 0F 59 /r): dst *= src.
func (a *Assembler) MulsdRegToReg(dst, src XMMReg) { a.sseArith(0x59, dst, src, "mulsd") }

// DivsdRegToReg encodes `divsd dst, src` (F2 0F 5E /r): dst /= src.
func (a *Assembler) DivsdRegToReg(dst, src XMMReg) { a.sseArith(0x5E, dst, src, "divsd") }

// ComisdRegToReg encodes `comisd a, b` (66 0F 2F /r): sets EFLAGS from an
// ordered comparison of two doubles, the same way CmpRegToReg does for
// integers, so BinaryOperation's comparison operators can share the
// condition-code-then-SetByteOnCondition path regardless of operand type.
func (a *Assembler) ComisdRegToReg(x, y XMMReg) {
	requireX86_64(a, "ComisdRegToReg")
	a.Buf.PushByte(0x66)
	a.xmmRexIfNeeded(false, x.needsRex(), y.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x2F)
	a.Buf.PushByte(0xC0 | (x.low3() << 3) | y.low3())
	Tracef("comisd %v, %v", x, y)
}

// Cvtsi2sd encodes `cvtsi2sd dst, src` (F2 0F 2A /r): converts a signed
// integer register to a double, per spec.md's Int32->Double cast.
// wide selects the 64-bit integer source form (REX.W), never needed here
// since the only integer source type is Int32, but kept for symmetry with
// Cvttsd2si and in case a future DataType widens this path.
func (a *Assembler) Cvtsi2sd(dst XMMReg, src IntReg, wide bool) {
	requireX86_64(a, "Cvtsi2sd")
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(wide, dst.needsRex(), src.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x2A)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("cvtsi2sd %v, %v", dst, src)
}

// Cvttsd2si encodes `cvttsd2si dst, src` (F2 0F 2C /r): converts a double
// to a signed 32-bit integer, truncating toward zero, per spec.md's
// Double->Int32 cast.
func (a *Assembler) Cvttsd2si(dst IntReg, src XMMReg) {
	requireX86_64(a, "Cvttsd2si")
	a.Buf.PushByte(0xF2)
	a.xmmRexIfNeeded(false, dst.needsRex(), src.needsRex())
	a.Buf.PushByte(0x0F)
	a.Buf.PushByte(0x2C)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("cvttsd2si %v, %v", dst, src)
}
