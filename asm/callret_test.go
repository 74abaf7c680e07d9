package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCallReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.CallReg(AX)
	require.Equal(t, []byte{0xFF, 0xD0}, bytesAt(t, a, 0))
}

func TestCallExtendedReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.CallReg(R10)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x41), got[0]) // REX.B
	require.Equal(t, byte(0xFF), got[1])
}

func TestRet(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.Ret()
	require.Equal(t, []byte{0xC3}, bytesAt(t, a, 0))
}
