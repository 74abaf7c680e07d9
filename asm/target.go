// Package asm is the instruction encoder and executable-memory buffer for
// the jitcompiler code generator. It knows nothing about the AST or the
// compile pass; it only turns register/immediate arguments into correctly
// encoded x86 or x86-64 bytes and appends them to an ExecutableBuffer.
package asm

import (
	"fmt"
	"os"
)

// Target selects the instruction set and calling convention the Assembler
// encodes for. There is no auto-detection: callers pick one explicitly,
// the way xyproto-vibe67's Target interface is constructed once per
// compilation rather than probed from the host.
type Target uint8

const (
	TargetX86 Target = iota
	TargetX86_64
)

func (t Target) String() string {
	switch t {
	case TargetX86:
		return "x86"
	case TargetX86_64:
		return "x86-64"
	default:
		return fmt.Sprintf("Target(%d)", uint8(t))
	}
}

// Is64Bit reports whether t uses 64-bit general-purpose registers, REX
// prefixes, and the Microsoft x64 calling convention.
func (t Target) Is64Bit() bool {
	return t == TargetX86_64
}

// PointerSize is sizeof(void*) for t: 4 on x86, 8 on x86-64.
func (t Target) PointerSize() int32 {
	if t.Is64Bit() {
		return 8
	}
	return 4
}

// DoubleSize is sizeof(double): always 8, on both targets.
const DoubleSize int32 = 8

// Trace mirrors the teacher's VerboseMode + fmt.Fprintf(os.Stderr, ...)
// pattern (see emit.go, add.go and most instruction files in
// xyproto-vibe67): when true, every encoder method logs the mnemonic and
// operands it just appended. It is set once at process start from
// JITCOMPILER_TRACE by the root package's config.go (via xyproto/env/v2)
// rather than here, so this package stays free of env-var parsing.
var Trace bool

// Tracef writes a trace line to stderr when Trace is enabled. Safe to call
// unconditionally; it is a no-op otherwise.
func Tracef(format string, args ...interface{}) {
	if Trace {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
