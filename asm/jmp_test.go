package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJmpAlwaysOpcode(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	anchor := a.Jmp(Always)
	require.EqualValues(t, 1, anchor) // one opcode byte, then the placeholder
	require.Equal(t, byte(0xE9), bytesAt(t, a, 0)[0])
	require.Equal(t, uint32(5), a.Here())
}

func TestJmpConditionalOpcode(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	anchor := a.Jmp(Equal)
	require.EqualValues(t, 2, anchor)
	got := bytesAt(t, a, 0)
	require.Equal(t, []byte{0x0F, 0x84}, got[:2])
}

func TestSetJumpDistanceForward(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	anchor := a.Jmp(Always)
	a.PushReg(AX) // one filler instruction between the jump and its target
	target := a.Here()
	a.SetJumpDistance(anchor, target)

	// distance = target - (anchor+4)
	want := int32(target) - int32(uint32(anchor)+4)
	got := a.Buf.mem[anchor : anchor+4]
	gotDistance := int32(got[0]) | int32(got[1])<<8 | int32(got[2])<<16 | int32(got[3])<<24
	require.Equal(t, want, gotDistance)
}

func TestSetJumpDistanceBackward(t *testing.T) {
	a := newTestAssembler(t, TargetX86_64)
	loopTop := a.Here()
	a.PushReg(AX)
	anchor := a.Jmp(NotEqual)
	a.SetJumpDistance(anchor, loopTop)

	want := int32(loopTop) - int32(uint32(anchor)+4)
	require.Less(t, want, int32(0))
}
