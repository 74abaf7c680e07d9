package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestX87RequiresX86(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	require.Panics(t, func() { a.Fld(BP, -8) })
	require.Panics(t, func() { a.Faddp() })
}

func TestFldAndFstp(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.Fld(BP, -8)
	a.Fstp(BP, -8)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0xDD), got[0])
	require.Equal(t, byte(0xDD), got[3])
}

func TestX87Discard(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.X87Discard()
	require.Equal(t, []byte{0xDD, 0xC0, 0xD9, 0xF7}, bytesAt(t, a, 0))
}

func TestCompoundArithOpcodes(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.Faddp()
	a.Fsubp()
	a.Fmulp()
	a.Fdivp()
	require.Equal(t, []byte{0xDE, 0xC1, 0xDE, 0xE9, 0xDE, 0xC9, 0xDE, 0xF9}, bytesAt(t, a, 0))
}

func TestFistp(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.Fistp(BP, -8)
	got := bytesAt(t, a, 0)
	require.Equal(t, byte(0xDB), got[0])
}

func TestX87CompareAndPopDoubles(t *testing.T) {
	a := newTestAssembler(t, TargetX86)
	a.X87CompareAndPopDoubles()
	require.Equal(t, []byte{0xDE, 0xD9, 0xDF, 0xE0, 0x9E}, bytesAt(t, a, 0))
}
