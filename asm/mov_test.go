package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestAssembler(t *testing.T, target Target) *Assembler {
	t.Helper()
	buf, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	return NewAssembler(buf, target)
}

func bytesAt(t *testing.T, a *Assembler, from uint32) []byte {
	t.Helper()
	return append([]byte(nil), a.Buf.mem[from:a.Buf.used]...)
}

func TestMovRegToRegX86(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.MovRegToReg(BX, AX, false)
	// mov ebx, eax: 89 C3
	require.Equal(t, []byte{0x89, 0xC3}, bytesAt(t, a, 0))
}

func TestMovRegToRegX86_64Wide(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovRegToReg(BX, AX, true)
	// mov rbx, rax: 48 89 C3
	require.Equal(t, []byte{0x48, 0x89, 0xC3}, bytesAt(t, a, 0))
}

func TestMovRegToRegExtendedRegistersEmitsRex(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovRegToReg(R8, R9, false)
	// mov r8d, r9d: 45 89 C8 (REX.B for dest r8, REX.R for src r9)
	require.Len(t, bytesAt(t, a, 0), 3)
	require.Equal(t, byte(0x89), bytesAt(t, a, 0)[1])
}

func TestMovImm32ToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovImm32ToReg(CX, 0xDEADBEEF)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0xB8|CX.low3()), got[0])
	require.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, got[1:])
}

func TestMovImm64ToRegRequiresX86_64(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	require.Panics(t, func() { a.MovImm64ToReg(AX, 1) })
}

func TestMovImm64ToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovImm64ToReg(AX, 0x1122334455667788)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x48), got[0]) // REX.W
	require.Equal(t, byte(0xB8), got[1])
	require.Len(t, got, 10)
}

func TestMovRegToMemZeroOffsetRbpUsesDisp8(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovRegToMem(BP, 0, AX, false)
	// mov [rbp], eax forces an 8-bit zero displacement since mod=00/rbp
	// is the rip-relative escape; we always emit the disp8 form here.
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x89), got[0])
	require.Equal(t, byte(0x40|(0<<3)|BP.low3()), got[1])
	require.Equal(t, byte(0x00), got[2])
}

func TestMovMemToRegEspNeedsSibByte(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovMemToReg(AX, SP, 8, false)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x8B), got[0])
	require.Equal(t, byte(0x24), got[2]) // SIB byte for [rsp+disp8]
	require.Equal(t, byte(8), got[3])
}

func TestMovMemToRegLargeOffsetUsesDisp32(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovMemToReg(AX, BP, 1000, false)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x80|(0<<3)|BP.low3()), got[1])
	require.Len(t, got, 6) // opcode + modrm + 4-byte disp
}
