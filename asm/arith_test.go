package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddRegToRegX86(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.AddRegToReg(AX, BX, false)
	require.Equal(t, []byte{0x01, 0xD8}, bytesAt(t, a, 0))
}

func TestAddImmToRegSmallUsesImm8(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.AddImmToReg(AX, 5, true)
	require.Equal(t, []byte{0x48, 0x83, 0xC0, 0x05}, bytesAt(t, a, 0))
}

func TestAddImmToRegLargeUsesImm32(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.AddImmToReg(AX, 1000, true)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0x81), got[1])
	require.Len(t, got, 7)
}

func TestAddImmNegativeStackAdjust(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.AddImmToReg(SP, -8, true)
	got := bytesAt(t, a, 0)
	require.Equal(t, []byte{0x48, 0x83, 0xC4, 0xF8}, got)
}

func TestCdqWide(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.Cdq(true)
	require.Equal(t, []byte{0x48, 0x99}, bytesAt(t, a, 0))
}

func TestCdqNarrow(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.Cdq(false)
	require.Equal(t, []byte{0x99}, bytesAt(t, a, 0))
}

func TestIdivReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.IdivReg(CX, true)
	require.Equal(t, []byte{0x48, 0xF7, 0xF9}, bytesAt(t, a, 0))
}

func TestImulRegToReg(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.ImulRegToReg(AX, BX, true)
	require.Equal(t, []byte{0x48, 0x0F, 0xAF, 0xC3}, bytesAt(t, a, 0))
}

func TestShlAndSarByCL(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.ShlRegByCL(AX, true)
	a.SarRegByCL(AX, true)
	got := bytesAt(t, a, 0)
	require.Equal(t, []byte{0x48, 0xD3, 0xE0, 0x48, 0xD3, 0xF8}, got)
}

func TestNegAndNot(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	a.NegReg(AX, true)
	a.NotReg(AX, true)
	got := bytesAt(t, a, 0)
	require.Equal(t, []byte{0x48, 0xF7, 0xD8, 0x48, 0xF7, 0xD0}, got)
}
