package asm

// MovRegToReg encodes `mov to, from` between two general-purpose
// registers. wide requests a REX.W-prefixed 64-bit move and is only
// meaningful (and only ever true) on TargetX86_64; the code generator
// sets it for Pointer-typed values and leaves it false for Int32, since
// a 32-bit destination write on x86-64 already zero-extends the upper
// half for free.
func (a *Assembler) MovRegToReg(to, from IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, from.needsRex(), false, to.needsRex())
	a.Buf.PushByte(0x89) // MOV r/m, r — to is the r/m operand
	a.Buf.PushByte(0xC0 | (from.low3() << 3) | to.low3())
	Tracef("mov %v, %v (wide=%v)", to, from, wide)
}

// MovImm32ToReg encodes `mov to, imm32`. On x86-64 this zero-extends into
// the full 64-bit register, matching the ABI's rule that 32-bit writes
// clear the upper half.
func (a *Assembler) MovImm32ToReg(to IntReg, imm uint32) {
	a.rexPrefixIfNeeded(false, false, false, to.needsRex())
	a.Buf.PushByte(0xB8 | to.low3())
	a.Buf.PushU32(imm)
	Tracef("mov %v, 0x%x", to, imm)
}

// MovImm64ToReg encodes `mov to, imm64` (x86-64 only): REX.W + 0xB8+reg +
// 8-byte immediate, the only x86-64 instruction form that can materialize
// an arbitrary 64-bit constant (used for absolute pointers to string
// literals and runtime helper addresses).
func (a *Assembler) MovImm64ToReg(to IntReg, imm uint64) {
	if !a.Target.Is64Bit() {
		panic("asm: MovImm64ToReg requires TargetX86_64")
	}
	a.rexPrefixIfNeeded(true, false, false, to.needsRex())
	a.Buf.PushByte(0xB8 | to.low3())
	a.Buf.PushU64(imm)
	Tracef("mov %v, 0x%x (imm64)", to, imm)
}

// MovRegToMem encodes `mov [base+offset], src` — a store.
func (a *Assembler) MovRegToMem(base IntReg, offset int32, src IntReg, wide bool) {
	a.rexPrefixIfNeeded(wide, src.needsRex(), false, base.needsRex())
	a.Buf.PushByte(0x89)
	a.modrmMemOrDisp(src, base, offset)
	Tracef("mov [%v+%d], %v (wide=%v)", base, offset, src, wide)
}

// MovMemToReg encodes `mov dst, [base+offset]` — a load.
func (a *Assembler) MovMemToReg(dst IntReg, base IntReg, offset int32, wide bool) {
	a.rexPrefixIfNeeded(wide, dst.needsRex(), false, base.needsRex())
	a.Buf.PushByte(0x8B)
	a.modrmMemOrDisp(dst, base, offset)
	Tracef("mov %v, [%v+%d] (wide=%v)", dst, base, offset, wide)
}

// MovSignExtend32To64 encodes `movsxd dst, src32` (0x63), widening a
// 32-bit int to 64 bits with sign extension (x86-64 only).
func (a *Assembler) MovSignExtend32To64(dst, src IntReg) {
	if !a.Target.Is64Bit() {
		panic("asm: MovSignExtend32To64 requires TargetX86_64")
	}
	a.rexPrefixIfNeeded(true, dst.needsRex(), false, src.needsRex())
	a.Buf.PushByte(0x63)
	a.Buf.PushByte(0xC0 | (dst.low3() << 3) | src.low3())
	Tracef("movsxd %v, %v", dst, src)
}
