package asm

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// ErrOutOfMemory is returned when the OS denies an executable-page
// allocation request (spec.md §7's OutOfMemory error category).
var ErrOutOfMemory = fmt.Errorf("asm: out of memory")

// ExecutableBuffer is an append-only byte buffer backed by read+write+
// execute pages, per spec.md §4.3. It is the Go analogue of the
// teacher-original's AssemblerBuffer (AssemblerBuffer.cpp): same growth
// policy (max(1024, 2*old, round-up-to-page(n))), same semantics for
// setByte/reserve/clear, but backed by golang.org/x/sys/unix.Mmap instead
// of VirtualAlloc, matching the mmap-based allocator xyproto-vibe67 and
// launix-de-memcp both depend on golang.org/x/sys for.
//
// No absolute address may be read out of an ExecutableBuffer (via Base)
// before the buffer stops growing: growth replaces the backing mapping,
// so any address captured earlier is stale.
type ExecutableBuffer struct {
	mem  []byte // mmap'd region, len(mem) == capacity
	used uint32
}

const minBufferCapacity = 1024

// pageSize is resolved once; on every platform this binary runs the
// runner on it is a multiple of 4096, so we do not special-case it.
var pageSize = unix.Getpagesize()

// NewExecutableBuffer allocates a fresh buffer with at least initialSize
// bytes of capacity (zero is fine; the first Reserve call establishes the
// 1024-byte floor).
func NewExecutableBuffer(initialSize uint32) (*ExecutableBuffer, error) {
	b := &ExecutableBuffer{}
	if initialSize > 0 {
		if err := b.Reserve(initialSize); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Reserve ensures at least n bytes of unused capacity, growing the backing
// mapping if necessary. Used bytes are copied into the new mapping and the
// old one is released. The base address may change on every call.
func (b *ExecutableBuffer) Reserve(n uint32) error {
	needed := b.used + n
	if needed <= uint32(len(b.mem)) {
		return nil
	}
	newCap := minBufferCapacity
	if doubled := 2 * len(b.mem); doubled > newCap {
		newCap = doubled
	}
	if rounded := roundUpToPage(int(needed)); rounded > newCap {
		newCap = rounded
	}
	newMem, err := unix.Mmap(-1, 0, newCap, unix.PROT_READ|unix.PROT_WRITE|unix.PROT_EXEC, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return fmt.Errorf("%w: mmap %d bytes: %v", ErrOutOfMemory, newCap, err)
	}
	if b.mem != nil {
		copy(newMem, b.mem[:b.used])
		_ = unix.Munmap(b.mem)
	}
	b.mem = newMem
	return nil
}

func roundUpToPage(n int) int {
	return ((n + pageSize - 1) / pageSize) * pageSize
}

// Size reports the number of bytes written so far.
func (b *ExecutableBuffer) Size() uint32 { return b.used }

// Base returns the address of byte 0. Valid only after the last write to
// the buffer; any subsequent Reserve/PushX call may invalidate it by
// reallocating the backing mapping.
func (b *ExecutableBuffer) Base() uintptr {
	if len(b.mem) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&b.mem[0]))
}

// SetByte overwrites an already-written byte; used by jump/displacement
// patching. It is an error to address beyond Size().
func (b *ExecutableBuffer) SetByte(offset uint32, value byte) {
	if offset >= b.used {
		panic(fmt.Sprintf("asm: SetByte out of range: offset %d, size %d", offset, b.used))
	}
	b.mem[offset] = value
}

// SetU32 overwrites a 4-byte little-endian displacement at offset, the
// operation set_jump_distance(anchor, value) performs in spec.md §4.2.
func (b *ExecutableBuffer) SetU32(offset uint32, value uint32) {
	if offset+4 > b.used {
		panic(fmt.Sprintf("asm: SetU32 out of range: offset %d, size %d", offset, b.used))
	}
	binary.LittleEndian.PutUint32(b.mem[offset:offset+4], value)
}

// PushByte appends one byte.
func (b *ExecutableBuffer) PushByte(v byte) {
	if err := b.Reserve(1); err != nil {
		panic(err)
	}
	b.mem[b.used] = v
	b.used++
}

// PushU32 appends a little-endian 32-bit value.
func (b *ExecutableBuffer) PushU32(v uint32) {
	if err := b.Reserve(4); err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(b.mem[b.used:b.used+4], v)
	b.used += 4
}

// PushU64 appends a little-endian 64-bit value.
func (b *ExecutableBuffer) PushU64(v uint64) {
	if err := b.Reserve(8); err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint64(b.mem[b.used:b.used+8], v)
	b.used += 8
}

// Clear releases the backing pages and returns the buffer to its empty
// state. Called on every compile failure (spec.md §7) and optionally by
// callers done executing the generated function.
func (b *ExecutableBuffer) Clear() error {
	if b.mem != nil {
		if err := unix.Munmap(b.mem); err != nil {
			return err
		}
	}
	b.mem = nil
	b.used = 0
	return nil
}
