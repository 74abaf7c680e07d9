package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSSERequiresX86_64(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	require.Panics(t, func() { a.MovsdRegToReg(XMM0, XMM1) })
	require.Panics(t, func() { a.AddsdRegToReg(XMM0, XMM1) })
	require.Panics(t, func() { a.Cvtsi2sd(XMM0, AX, false) })
}

func TestMovsdRegToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.MovsdRegToReg(XMM0, XMM1)
	// F2 0F 10 C1
	require.Equal(t, []byte{0xF2, 0x0F, 0x10, 0xC1}, bytesAt(t, a, 0))
}

func TestAddsdRegToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.AddsdRegToReg(XMM2, XMM3)
	require.Equal(t, []byte{0xF2, 0x0F, 0x58, 0xD3}, bytesAt(t, a, 0))
}

func TestCvtsi2sdAndBack(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.Cvtsi2sd(XMM0, AX, false)
	a.Cvttsd2si(BX, XMM0)
	got := bytesAt(t, a, 0)
	require.Equal(t, []byte{0xF2, 0x0F, 0x2A, 0xC0}, got[:4])
	require.Equal(t, []byte{0xF2, 0x0F, 0x2C, 0xD8}, got[4:])
}

func TestComisdRegToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.ComisdRegToReg(XMM0, XMM1)
	require.Equal(t, []byte{0x66, 0x0F, 0x2F, 0xC1}, bytesAt(t, a, 0))
}
