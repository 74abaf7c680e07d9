package asm

// x87 stack encoding, x86 (32-bit) target only. TargetX86 has no SSE2
// scalar-double ABI return slot, so Double arithmetic and the Double
// function-return value travel on the x87 floating-point stack instead,
// the way the teacher-original's 32-bit path does.

func requireX86(a *Assembler, what string) {
	if a.Target.Is64Bit() {
		panic("asm: " + what + " requires TargetX86")
	}
}

// Fld encodes `fld qword ptr [base+offset]` (DD /0): pushes a double from
// memory onto the x87 stack as st(0).
func (a *Assembler) Fld(base IntReg, offset int32) {
	requireX86(a, "Fld")
	a.Buf.PushByte(0xDD)
	a.modrmMemOrDisp(IntReg(0), base, offset)
	Tracef("fld qword [%v+%d]", base, offset)
}

// Fstp encodes `fstp qword ptr [base+offset]` (DD /3): pops st(0) into
// memory, freeing the x87 register it occupied.
func (a *Assembler) Fstp(base IntReg, offset int32) {
	requireX86(a, "Fstp")
	a.Buf.PushByte(0xDD)
	a.modrmMemOrDisp(IntReg(3), base, offset)
	Tracef("fstp qword [%v+%d]", base, offset)
}

// Fild encodes `fild dword ptr [base+offset]` (DB /0): pushes a 32-bit
// integer from memory onto the x87 stack, converted to double, per
// spec.md's Int32->Double cast on the x86 target.
func (a *Assembler) Fild(base IntReg, offset int32) {
	requireX86(a, "Fild")
	a.Buf.PushByte(0xDB)
	a.modrmMemOrDisp(IntReg(0), base, offset)
	Tracef("fild dword [%v+%d]", base, offset)
}

// X87Discard encodes `ffree st(0)` (DD C0) followed by `fincstp` (D9 F7):
// discards the top of the x87 stack without storing it anywhere. Every
// non-Return statement that leaves a Double result on the x87 stack (an
// expression statement whose value is unused) must be followed by exactly
// one of these, or the 8-deep x87 stack eventually overflows.
func (a *Assembler) X87Discard() {
	requireX86(a, "X87Discard")
	a.Buf.PushByte(0xDD)
	a.Buf.PushByte(0xC0)
	a.Buf.PushByte(0xD9)
	a.Buf.PushByte(0xF7)
	Tracef("ffree st(0); fincstp")
}

// Faddp encodes `faddp st(1), st(0)` (DE C1): st(1) += st(0), then pops,
// leaving the sum in what was st(1).
func (a *Assembler) Faddp() {
	requireX86(a, "Faddp")
	a.Buf.PushByte(0xDE)
	a.Buf.PushByte(0xC1)
	Tracef("faddp st(1), st(0)")
}

// Fsubp encodes `fsubp st(1), st(0)` (DE E9): st(1) -= st(0), then pops.
func (a *Assembler) Fsubp() {
	requireX86(a, "Fsubp")
	a.Buf.PushByte(0xDE)
	a.Buf.PushByte(0xE9)
	Tracef("fsubp st(1), st(0)")
}

// Fmulp encodes `fmulp st(1), st(0)` (DE C9): st(1) *= st(0), then pops.
func (a *Assembler) Fmulp() {
	requireX86(a, "Fmulp")
	a.Buf.PushByte(0xDE)
	a.Buf.PushByte(0xC9)
	Tracef("fmulp st(1), st(0)")
}

// Fdivp encodes `fdivp st(1), st(0)` (DE F9): st(1) /= st(0), then pops.
func (a *Assembler) Fdivp() {
	requireX86(a, "Fdivp")
	a.Buf.PushByte(0xDE)
	a.Buf.PushByte(0xF9)
	Tracef("fdivp st(1), st(0)")
}

// Fistp encodes `fistp dword ptr [base+offset]` (DB /3): stores st(0) as a
// 32-bit integer, rounded per the FPU control word's current rounding
// mode (round-to-nearest-even by default), then pops. Used for
// Double->Int32 on the x86 target in place of x86-64's truncating
// cvttsd2si — the code generator accepts round-to-nearest here rather
// than switching the control word to truncating mode for every cast.
func (a *Assembler) Fistp(base IntReg, offset int32) {
	requireX86(a, "Fistp")
	a.Buf.PushByte(0xDB)
	a.modrmMemOrDisp(IntReg(3), base, offset)
	Tracef("fistp dword [%v+%d]", base, offset)
}

// X87CompareAndPopDoubles encodes `fcompp` (DE D9), `fnstsw ax` (DF E0),
// and `sahf` (9E): compares st(0) against st(1) and pops both operands off
// the x87 stack, then copies the resulting condition codes out of the FPU
// status word into EFLAGS (ZF/PF/CF) the same way CmpRegToReg does. The
// code generator follows this with SetByteOnCondition exactly as it would
// after an integer CmpRegToReg.
func (a *Assembler) X87CompareAndPopDoubles() {
	requireX86(a, "X87CompareAndPopDoubles")
	a.Buf.PushByte(0xDE)
	a.Buf.PushByte(0xD9)
	a.Buf.PushByte(0xDF)
	a.Buf.PushByte(0xE0)
	a.Buf.PushByte(0x9E)
	Tracef("fcompp; fnstsw ax; sahf")
}
