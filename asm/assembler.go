package asm

// Assembler is a thin, stateful wrapper around an ExecutableBuffer that
// knows how to encode the x86/x86-64 instruction subset the code
// generator needs. Parameter order mirrors Intel syntax (destination
// before source), following the teacher-original's Assembler class.
//
// One Assembler is created per compile call; it carries no state beyond
// the target and the buffer it writes to, so nothing here prevents two
// Assemblers over two different buffers from being used concurrently.
type Assembler struct {
	Buf    *ExecutableBuffer
	Target Target
}

// NewAssembler wraps buf for target.
func NewAssembler(buf *ExecutableBuffer, target Target) *Assembler {
	return &Assembler{Buf: buf, Target: target}
}

// JumpAnchor is the byte offset of a 32-bit displacement placeholder
// written by Jmp, to be resolved later with SetJumpDistance.
type JumpAnchor uint32

// rexPrefixIfNeeded emits a REX prefix byte when w, r, x, or b requires
// one and the target is x86-64; the byte layout is 0100WRXB. On x86 it
// asserts none of the bits were requested, since x86 has no REX prefix.
func (a *Assembler) rexPrefixIfNeeded(w, r, x, b bool) {
	if a.Target.Is64Bit() {
		if w || r || x || b {
			rex := byte(0x40)
			if w {
				rex |= 0x08
			}
			if r {
				rex |= 0x04
			}
			if x {
				rex |= 0x02
			}
			if b {
				rex |= 0x01
			}
			a.Buf.PushByte(rex)
		}
		return
	}
	if w || r || x || b {
		panic("asm: x86 target should never need a REX prefix")
	}
}

// modrmMemOrDisp emits the ModR/M (+ SIB, + displacement) bytes for
// addressing [baseReg + offset] with regField in the reg position. This
// captures the "ebp/r13 and esp need special-case opcodes" logic shared
// by mov, lea, and movsd memory forms (Assembler.cpp's mov/lea/movsd
// bodies, deduplicated here since they are otherwise near-identical).
func (a *Assembler) modrmMemOrDisp(regField, baseReg IntReg, offset int32) {
	base3 := baseReg.low3()
	switch {
	case offset == 0 && base3 != BP.low3():
		a.Buf.PushByte(0x00 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24) // SIB: [rsp/esp] needs an explicit SIB byte
		}
	case offset >= -128 && offset <= 127:
		a.Buf.PushByte(0x40 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24)
		}
		a.Buf.PushByte(byte(int8(offset)))
	default:
		a.Buf.PushByte(0x80 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24)
		}
		a.Buf.PushU32(uint32(offset))
	}
}

// modrmXMMMemOrDisp is modrmMemOrDisp's XMM-register counterpart, used by
// the scalar-double load/store forms in sse.go.
func (a *Assembler) modrmXMMMemOrDisp(regField XMMReg, baseReg IntReg, offset int32) {
	base3 := baseReg.low3()
	switch {
	case offset == 0 && base3 != BP.low3():
		a.Buf.PushByte(0x00 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24)
		}
	case offset >= -128 && offset <= 127:
		a.Buf.PushByte(0x40 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24)
		}
		a.Buf.PushByte(byte(int8(offset)))
	default:
		a.Buf.PushByte(0x80 | (regField.low3() << 3) | base3)
		if base3 == SP.low3() {
			a.Buf.PushByte(0x24)
		}
		a.Buf.PushU32(uint32(offset))
	}
}

// xmmRexIfNeeded emits a REX prefix for an XMM-involving instruction when
// either operand is xmm8-15 or r8-15, or w is requested. XMM register
// numbers share the same REX.R/X/B extension bits as general-purpose ones.
func (a *Assembler) xmmRexIfNeeded(w bool, rField, bField bool) {
	a.rexPrefixIfNeeded(w, rField, false, bField)
}
