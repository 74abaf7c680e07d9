package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCmpRegToRegWide(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.CmpRegToReg(AX, BX, true)
	require.Equal(t, []byte{0x48, 0x39, 0xD8}, bytesAt(t, a, 0))
}

func TestCmpImmToRegImm8(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.CmpImmToReg(AX, 10, true)
	require.Equal(t, []byte{0x48, 0x83, 0xF8, 0x0A}, bytesAt(t, a, 0))
}

func TestCmpImmToRegImm32(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.CmpImmToReg(AX, 1000, true)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x48), got[0])
	require.Equal(t, byte(0x81), got[1])
	require.Equal(t, byte(0xF8), got[2])
}

func TestSetByteOnConditionRejectsAlways(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	require.Panics(t, func() { a.SetByteOnCondition(AX, Always) })
}

func TestSetByteOnConditionEqual(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.SetByteOnCondition(AX, Equal)
	// sete al: 0F 94 C0
	require.Equal(t, []byte{0x0F, 0x94, 0xC0}, bytesAt(t, a, 0))
}

func TestSetByteOnConditionLessThan(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.SetByteOnCondition(CX, LessThan)
	// setl cl: 0F 9C C1
	require.Equal(t, []byte{0x0F, 0x9C, 0xC1}, bytesAt(t, a, 0))
}
