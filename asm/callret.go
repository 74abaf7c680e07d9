package asm

// CallReg encodes `call reg` (opcode 0xFF /2): an indirect call through a
// register holding an absolute address, the only call form this package
// needs since every call target (a runtime helper, or another compiled
// function) is known only as a resolved pointer, never as a link-time
// symbol.
func (a *Assembler) CallReg(reg IntReg) {
	a.rexPrefixIfNeeded(false, false, false, reg.needsRex())
	a.Buf.PushByte(0xFF)
	a.Buf.PushByte(0xC0 | (2 << 3) | reg.low3())
	Tracef("call %v", reg)
}

// Ret encodes `ret` (opcode 0xC3): both supported calling conventions are
// caller-cleanup (cdecl on x86, Microsoft x64), so a compiled function
// never needs the imm16 callee-cleanup form.
func (a *Assembler) Ret() {
	a.Buf.PushByte(0xC3)
	Tracef("ret")
}
