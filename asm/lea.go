package asm

// Lea encodes `lea dst, [base+offset]` (opcode 0x8D): computes an address
// without dereferencing it. The code generator uses this to take the
// address of a stack-resident local (a string object's inline storage,
// or an argument passed by reference) without a load.
func (a *Assembler) Lea(dst IntReg, base IntReg, offset int32, wide bool) {
	a.rexPrefixIfNeeded(wide, dst.needsRex(), false, base.needsRex())
	a.Buf.PushByte(0x8D)
	a.modrmMemOrDisp(dst, base, offset)
	Tracef("lea %v, [%v+%d] (wide=%v)", dst, base, offset, wide)
}
