package asm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewExecutableBufferZeroInitial(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	require.Zero(t, b.Size())
}

func TestReserveGrowsToMinimum(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	require.NoError(t, b.Reserve(1))
	require.GreaterOrEqual(t, len(b.mem), minBufferCapacity)
}

func TestPushByteAndSetByte(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	b.PushByte(0xAA)
	b.PushByte(0xBB)
	require.EqualValues(t, 2, b.Size())
	b.SetByte(0, 0xCC)
	require.Equal(t, byte(0xCC), b.mem[0])
}

func TestSetByteOutOfRangePanics(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	b.PushByte(0x00)
	require.Panics(t, func() { b.SetByte(5, 0x00) })
}

func TestPushU32LittleEndian(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	b.PushU32(0x01020304)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b.mem[:4])
}

func TestSetU32PatchesInPlace(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	b.PushU32(0)
	b.SetU32(0, 0xAABBCCDD)
	require.Equal(t, []byte{0xDD, 0xCC, 0xBB, 0xAA}, b.mem[:4])
}

func TestGrowthPreservesWrittenBytes(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	for i := 0; i < minBufferCapacity+10; i++ {
		b.PushByte(byte(i))
	}
	for i := 0; i < minBufferCapacity+10; i++ {
		require.Equal(t, byte(i), b.mem[i])
	}
}

func TestBaseIsNilForEmptyBuffer(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	require.Zero(t, b.Base())
}

func TestClearReleasesMemory(t *testing.T) {
	b, err := NewExecutableBuffer(0)
	require.NoError(t, err)
	b.PushByte(1)
	require.NoError(t, b.Clear())
	require.Zero(t, b.Size())
	require.Nil(t, b.mem)
}
