package asm

// PushReg encodes `push reg` (opcode 0x50+reg). On x86-64 this always
// pushes 8 bytes regardless of a REX.W prefix; a REX.B prefix is only
// needed to reach r8-r15.
func (a *Assembler) PushReg(reg IntReg) {
	a.rexPrefixIfNeeded(false, false, false, reg.needsRex())
	a.Buf.PushByte(0x50 | reg.low3())
	Tracef("push %v", reg)
}

// PopReg encodes `pop reg` (opcode 0x58+reg).
func (a *Assembler) PopReg(reg IntReg) {
	a.rexPrefixIfNeeded(false, false, false, reg.needsRex())
	a.Buf.PushByte(0x58 | reg.low3())
	Tracef("pop %v", reg)
}

// PushImm32 encodes `push imm32` (opcode 0x68): on x86-64 the immediate is
// sign-extended to 64 bits by the CPU before being pushed.
func (a *Assembler) PushImm32(imm int32) {
	a.Buf.PushByte(0x68)
	a.Buf.PushU32(uint32(imm))
	Tracef("push 0x%x", imm)
}

// PushXMM reserves 8 bytes of stack and stores an XMM register there,
// since x86 has no native push for SSE registers. Used when spilling a
// Double argument or intermediate around a call that clobbers it.
func (a *Assembler) PushXMM(reg XMMReg) {
	a.AddImmToReg(SP, -8, a.Target.Is64Bit())
	a.MovsdRegToMem(SP, 0, reg)
	Tracef("push %v (via sub rsp,8 + movsd)", reg)
}

// PopXMM loads an XMM register from the top of the stack and releases the
// 8 bytes PushXMM reserved.
func (a *Assembler) PopXMM(reg XMMReg) {
	a.MovsdMemToReg(reg, SP, 0)
	a.AddImmToReg(SP, 8, a.Target.Is64Bit())
	Tracef("pop %v (via movsd + add rsp,8)", reg)
}
