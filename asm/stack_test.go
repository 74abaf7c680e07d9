package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPushPopReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.PushReg(BX)
	a.PopReg(BX)
	require.Equal(t, []byte{0x50 | BX.low3(), 0x58 | BX.low3()}, bytesAt(t, a, 0))
}

func TestPushExtendedRegNeedsRex(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.PushReg(R12)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x41), got[0]) // REX.B only
	require.Equal(t, byte(0x50|R12.low3()), got[1])
}

func TestPushImm32(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.PushImm32(-1)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x68), got[0])
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, got[1:])
}

func TestPushPopXMMRoundTripsStackPointer(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.PushXMM(XMM1)
	a.PopXMM(XMM1)
	got := bytesAt(t, a, 0)
	// sub rsp,8 ; movsd [rsp], xmm1 ; movsd xmm1, [rsp] ; add rsp,8
	require.Equal(t, byte(0x48), got[0])          // rex.w on the sub
	require.Equal(t, byte(0x48), got[len(got)-4]) // rex.w on the trailing add
}
