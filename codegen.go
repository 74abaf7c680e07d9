package jit

import (
	"sort"

	"github.com/achristensen07/jitcompiler/asm"
	"github.com/achristensen07/jitcompiler/runtime"
)

// varInfo records where a declared name lives and what it holds, the Go
// analogue of the original's std::pair<DataType, StackOffset> scope entry.
type varInfo struct {
	dataType DataType
	offset   int32
}

// breakTarget is implemented by every AST node Break can jump out of.
type breakTarget interface {
	recordBreak(anchor asm.JumpAnchor)
}

// continueTarget is implemented by every AST node Continue can jump
// (back) into.
type continueTarget interface {
	recordContinue(anchor asm.JumpAnchor)
}

// codeGen holds all per-compile state: the instruction encoder, the
// compile-time shadow stack model, and the lexical scope stack. One
// codeGen is created per Compile call and discarded afterward — the
// teacher-original collapses this into AbstractSyntaxTree static fields,
// which spec.md's Concurrency section explicitly calls out as forbidding
// concurrent compiles; keeping it as a value here removes that
// restriction entirely rather than reproducing it.
type codeGen struct {
	a      *asm.Assembler
	target asm.Target

	// stackOffset is the number of bytes RSP/ESP has moved below its
	// value when the function was entered (the return address's stack
	// offset is always 0, by convention, matching StackOffset in the
	// original).
	stackOffset int32
	// parameterStackOffset is the next (negative) offset processParameters
	// would assign to an additional parameter; the function-scope
	// deallocation uses it to leave the caller-owned parameter space alone,
	// and Compile checks that it is unchanged by the time compile finishes.
	parameterStackOffset int32

	scopes                 []map[string]varInfo
	scopeParents           []interface{} // nil for the function-level scope
	stringLiteralLocations map[string]int32
}

func newCodeGen(buf *asm.ExecutableBuffer, target asm.Target) *codeGen {
	return &codeGen{
		a:                      asm.NewAssembler(buf, target),
		target:                 target,
		stringLiteralLocations: map[string]int32{},
	}
}

func (g *codeGen) wide() bool { return g.target.Is64Bit() }

// compileBody compiles a flat statement list, discarding the result of any
// statement that leaves an unused Double on the x87 stack (x86 only —
// x86-64 results sit in XMM0 and need no such cleanup). A Return statement
// is exempt: its Double result, if any, is the function's actual return
// value, not a discarded expression-statement result.
func (g *codeGen) compileBody(body []Node) error {
	for _, stmt := range body {
		if err := stmt.compile(g); err != nil {
			return err
		}
		if !g.wide() && stmt.Type() == Double {
			if _, isReturn := stmt.(*Return); !isReturn {
				g.a.X87Discard()
			}
		}
	}
	return nil
}

// incrementScope pushes a new, empty lexical scope. scopeParent is the
// enclosing control-flow node (nil at function scope), recorded only so
// Break/Continue can walk outward from wherever they're compiled.
func (g *codeGen) incrementScope(scopeParent interface{}) {
	g.scopeParents = append(g.scopeParents, scopeParent)
	g.scopes = append(g.scopes, map[string]varInfo{})
}

// deallocateVariablesAndDecrementScope pops the innermost scope, emitting
// destructor calls and a stack-pointer restore for everything declared in
// it.
func (g *codeGen) deallocateVariablesAndDecrementScope() error {
	if len(g.scopes) == 0 {
		return newError(InternalInvariant, "no scopes to deallocate")
	}
	removed, err := g.deallocateVariables(len(g.scopes) - 1)
	if err != nil {
		return err
	}
	g.stackOffset -= int32(removed)
	g.scopes = g.scopes[:len(g.scopes)-1]
	g.scopeParents = g.scopeParents[:len(g.scopeParents)-1]
	return nil
}

// deallocateScopesForReturn implements ASTReturn's cleanup: unlike every
// other exit from a scope, a Return statement must unwind *every*
// enclosing scope's stack space (and run every enclosing scope's string
// destructors) without actually popping them from g.scopes, since control
// keeps going for any sibling statements before the real scope-exit code
// runs. This corresponds to spec.md's flagged fix for the original's
// `deallocateVariables(buffer, i - i)` defect (always scope 0): this walks
// every scope index from innermost (len-1) to outermost (0), actually
// invoking string destructors for locals that would otherwise leak.
func (g *codeGen) deallocateScopesForReturn() (int32, error) {
	// each scope's stack adjustment is emitted before the next scope's
	// destructor addresses are computed, so the offset model follows it
	// during the walk and is restored for the code that follows.
	saved := g.stackOffset
	defer func() { g.stackOffset = saved }()
	var total int32
	for i := len(g.scopes) - 1; i >= 0; i-- {
		removed, err := g.deallocateVariables(i)
		if err != nil {
			return 0, err
		}
		g.stackOffset -= removed
		total += int32(removed)
	}
	return total, nil
}

// declareVar records name in the innermost scope at the current stack
// offset; the caller has already subtracted the variable's size from RSP.
func (g *codeGen) declareVar(name string, dataType DataType) error {
	top := g.scopes[len(g.scopes)-1]
	if _, exists := top[name]; exists {
		return newError(BadAst, "duplicate variable name %q in scope", name)
	}
	top[name] = varInfo{dataType: dataType, offset: g.stackOffset}
	return nil
}

// findLocalVarInfo looks up name from the innermost scope outward.
func (g *codeGen) findLocalVarInfo(name string) (varInfo, error) {
	for i := len(g.scopes) - 1; i >= 0; i-- {
		if info, ok := g.scopes[i][name]; ok {
			return info, nil
		}
	}
	return varInfo{}, newError(BadAst, "undeclared variable %q", name)
}

// variableSize returns how many bytes of stack a declared variable of
// dataType occupies. offset is only consulted for Int32, where a negative
// offset (a parameter) always occupies a full pointer-sized slot even
// though a local Int32 only needs 4 bytes, mirroring processParameters
// storing every parameter at pointer-sized spacing.
func (g *codeGen) variableSize(dataType DataType, offset int32) (int32, error) {
	switch dataType {
	case Int32:
		if offset < 0 {
			return g.target.PointerSize(), nil
		}
		return 4, nil
	case Double:
		return asm.DoubleSize, nil
	case Pointer, CharStar:
		return g.target.PointerSize(), nil
	case String:
		return runtime.StringObjectSize, nil
	default:
		return 0, newError(InternalInvariant, "deallocating variable of invalid type %v", dataType)
	}
}

// deallocateVariables emits the destructor calls and single stack-pointer
// adjustment for scope scopeIndex, without popping it from g.scopes —
// callers decide whether and when to do that. Ported from
// deallocateVariables in the original, including the descending-offset
// sort and the adjoining-offset consistency check.
func (g *codeGen) deallocateVariables(scopeIndex int) (int32, error) {
	if scopeIndex < 0 || scopeIndex >= len(g.scopes) {
		return 0, newError(InternalInvariant, "scope index %d out of range", scopeIndex)
	}
	scope := g.scopes[scopeIndex]

	type entry struct {
		dataType DataType
		offset   int32
	}
	entries := make([]entry, 0, len(scope))
	for _, v := range scope {
		entries = append(entries, entry{v.dataType, v.offset})
	}
	// Reverse-sorted by stack location: later-allocated variables sit
	// lower in memory, so deallocating them first keeps RSP monotonic.
	sort.Slice(entries, func(i, j int) bool { return entries[i].offset > entries[j].offset })

	var total int32
	for i, e := range entries {
		size, err := g.variableSize(e.dataType, e.offset)
		if err != nil {
			return 0, err
		}
		if e.dataType == String {
			if err := g.emitStringDestructorCall(e.offset); err != nil {
				return 0, err
			}
		}
		total += size
		if i < len(entries)-1 {
			thisLoc, nextLoc := e.offset, entries[i+1].offset
			if thisLoc == 0 || nextLoc == 0 {
				return 0, newError(InternalInvariant, "return address slot collided with a variable")
			}
			firstParameter := int32(0)
			if (thisLoc < 0) != (nextLoc < 0) {
				firstParameter = g.target.PointerSize()
			}
			if nextLoc != thisLoc-size-firstParameter {
				return 0, newError(InternalInvariant, "stack variable locations don't line up")
			}
		}
	}
	if g.parameterStackOffset > 0 {
		return 0, newError(InternalInvariant, "parameter stack offset must be non-positive")
	}
	if scopeIndex == 0 {
		// The top scope's parameter space belongs to the caller (cdecl /
		// Microsoft x64 are both caller-cleanup): don't pop it here.
		total += g.parameterStackOffset + g.target.PointerSize()
	}
	if total != 0 {
		g.a.AddImmToReg(asm.SP, total, g.wide())
	}
	return total, nil
}

// emitStringDestructorCall invokes runtime.StringDtorAddr on the string
// object living at stack offset variableOffset. eax/ecx (or rax/rcx) are
// saved and restored around the call since the caller may still need them
// (this runs mid-expression for a Scope exit, not just at statement
// boundaries).
func (g *codeGen) emitStringDestructorCall(variableOffset int32) error {
	g.a.PushReg(asm.AX)
	g.a.PushReg(asm.CX)
	g.stackOffset += 2 * g.target.PointerSize()
	if variableOffset > g.stackOffset {
		return newError(InternalInvariant, "string stack location out of bounds")
	}
	g.a.Lea(asm.CX, asm.SP, g.stackOffset-variableOffset, g.wide())
	if g.target.Is64Bit() {
		// the string object's address is already in rcx, the first
		// Microsoft x64 integer argument register.
		if err := g.emitHelperCall(runtime.StringDtorAddr(), 0); err != nil {
			return err
		}
	} else {
		g.a.PushReg(asm.CX)
		if err := g.emitHelperCall(runtime.StringDtorAddr(), g.target.PointerSize()); err != nil {
			return err
		}
	}
	g.a.PopReg(asm.CX)
	g.a.PopReg(asm.AX)
	g.stackOffset -= 2 * g.target.PointerSize()
	return nil
}

// emitHelperCall loads addr into the accumulator and calls it. On
// x86-64 it brackets the call with the Microsoft x64 shadow-space-plus-
// alignment reservation spec.md §4.5 describes: ((stackOffset+8) % 16) +
// 32; cdeclArgBytes is ignored there since arguments travel in registers.
// On x86, cdecl requires the caller to both push arguments before the
// call (already done by the caller of emitHelperCall) and pop them back
// off afterward — cdeclArgBytes is how many bytes of pushed arguments to
// release.
func (g *codeGen) emitHelperCall(addr uintptr, cdeclArgBytes int32) error {
	if g.target.Is64Bit() {
		g.a.MovImm64ToReg(asm.AX, uint64(addr))
		adjust := ((g.stackOffset + 8) % 16) + 32
		g.a.AddImmToReg(asm.SP, -adjust, true)
		g.a.CallReg(asm.AX)
		g.a.AddImmToReg(asm.SP, adjust, true)
		return nil
	}
	g.a.MovImm32ToReg(asm.AX, uint32(addr))
	g.a.CallReg(asm.AX)
	if cdeclArgBytes != 0 {
		g.a.AddImmToReg(asm.SP, cdeclArgBytes, false)
	}
	return nil
}
