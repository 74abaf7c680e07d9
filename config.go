package jit

import (
	"github.com/xyproto/env/v2"

	"github.com/achristensen07/jitcompiler/asm"
)

// Environment variable names read once at package init.
const (
	envTrace              = "JITCOMPILER_TRACE"
	envInitialBufferBytes = "JITCOMPILER_INITIAL_BUFFER_BYTES"
)

// defaultInitialBufferBytes matches the teacher-original AssemblerBuffer's
// minimum grow size (AssemblerBuffer.cpp).
const defaultInitialBufferBytes = 1024

// InitialBufferBytes is the capacity Compile reserves up front when the
// caller doesn't supply their own *asm.ExecutableBuffer, tunable via
// JITCOMPILER_INITIAL_BUFFER_BYTES without a rebuild.
var InitialBufferBytes = env.Int(envInitialBufferBytes, defaultInitialBufferBytes)

func init() {
	asm.Trace = env.Bool(envTrace)
}
