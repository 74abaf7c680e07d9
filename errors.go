// Package jit compiles a small AST of C-like expressions and statements
// directly into native x86/x86-64 machine code, placed in an executable
// buffer and invoked through a raw function pointer.
package jit

import (
	"errors"
	"fmt"
)

// Kind classifies why compile failed, replacing the teacher-original's
// compiler_assert aborts with values a caller can branch on.
type Kind int

const (
	// BadAst means the tree itself is structurally invalid: a required
	// child is nil, a node appears somewhere its invariants forbid it
	// (Break outside a loop/switch), or a name reference can't be resolved.
	BadAst Kind = iota
	// BadCast means cast_if_necessary was asked for a (from, to) pair the
	// cast matrix (spec.md §4.5) marks as an error.
	BadCast
	// InternalInvariant means the code generator's own bookkeeping (scope
	// stack, stack-offset accounting, jump-anchor patching) found a state
	// it should never reach; this indicates a bug in this package, not in
	// the caller's AST.
	InternalInvariant
	// OutOfMemory means the OS denied the executable buffer's page
	// allocation request.
	OutOfMemory
)

func (k Kind) String() string {
	switch k {
	case BadAst:
		return "BadAst"
	case BadCast:
		return "BadCast"
	case InternalInvariant:
		return "InternalInvariant"
	case OutOfMemory:
		return "OutOfMemory"
	default:
		return "Unknown"
	}
}

// CompileError is returned by every function on the compile path. It wraps
// an optional underlying error (e.g. asm.ErrOutOfMemory) so errors.Is/As
// still reach it.
type CompileError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *CompileError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jit: %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("jit: %s: %s", e.Kind, e.Message)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Is reports whether target is a *CompileError with the same Kind, so
// callers can write errors.Is(err, jit.ErrBadAst)-style sentinels by
// constructing a bare &CompileError{Kind: BadAst}.
func (e *CompileError) Is(target error) bool {
	var ce *CompileError
	if errors.As(target, &ce) {
		return ce.Kind == e.Kind
	}
	return false
}

func newError(kind Kind, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, err error, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Sentinel values for errors.Is checks against a Kind without needing a
// message, matching the common Go idiom for categorized errors.
var (
	ErrBadAst            = &CompileError{Kind: BadAst}
	ErrBadCast           = &CompileError{Kind: BadCast}
	ErrInternalInvariant = &CompileError{Kind: InternalInvariant}
	ErrOutOfMemory       = &CompileError{Kind: OutOfMemory}
)
