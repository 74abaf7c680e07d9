package jit

import (
	"github.com/achristensen07/jitcompiler/asm"
)

// CompiledFunction is one finished native function appended to Buffer.
// Address is only valid until Buffer grows again — compiling a second
// function into the same *asm.ExecutableBuffer can relocate every byte
// already in it, per asm.ExecutableBuffer's own warning on Base.
type CompiledFunction struct {
	Buffer  *asm.ExecutableBuffer
	Address uintptr
}

// Compile appends fn's machine code to buf and returns its entry address.
// buf may be nil, in which case a fresh buffer sized InitialBufferBytes is
// allocated. target selects the instruction encoding and calling
// convention (x86 cdecl or x86-64 Microsoft x64); the caller picks one
// explicitly, there is no host auto-detection. On a compile failure buf is
// cleared, releasing everything in it, including functions compiled into
// it earlier.
func Compile(fn *FunctionRecord, target asm.Target, buf *asm.ExecutableBuffer) (cf CompiledFunction, err error) {
	if buf == nil {
		buf, err = asm.NewExecutableBuffer(uint32(InitialBufferBytes))
		if err != nil {
			return CompiledFunction{}, wrapError(OutOfMemory, err, "allocating executable buffer")
		}
	}
	defer func() {
		if err != nil {
			_ = buf.Clear()
		}
	}()
	startOffset := buf.Size()

	g := newCodeGen(buf, target)
	g.incrementScope(nil) // function scope has no AST parent

	if err := g.processParameters(fn.Parameters); err != nil {
		return CompiledFunction{}, err
	}
	originalParameterStackOffset := g.parameterStackOffset
	if g.parameterStackOffset > 0 {
		return CompiledFunction{}, newError(InternalInvariant, "parameter stack offset must be non-positive")
	}

	if err := g.pushStringLiterals(collectStringLiterals(fn.Body)); err != nil {
		return CompiledFunction{}, err
	}
	stringLiteralsSizeOnStack := g.stackOffset

	if err := g.compileBody(fn.Body); err != nil {
		return CompiledFunction{}, err
	}
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return CompiledFunction{}, err
	}

	if g.parameterStackOffset != originalParameterStackOffset {
		return CompiledFunction{}, newError(InternalInvariant, "parameter stack offset changed")
	}
	if len(g.scopeParents) != 0 {
		return CompiledFunction{}, newError(InternalInvariant, "extra scope parents")
	}
	if g.stackOffset != stringLiteralsSizeOnStack {
		return CompiledFunction{}, newError(InternalInvariant, "extra room on stack")
	}
	if len(g.scopes) != 0 {
		return CompiledFunction{}, newError(InternalInvariant, "extra scopes")
	}

	return CompiledFunction{Buffer: buf, Address: buf.Base() + uintptr(startOffset)}, nil
}

// processParameters assigns each parameter a negative stack offset below
// the return address (the first parameter sits closest to it) and, on
// x86-64, copies the first four register-passed arguments into their
// shadow-space slots so every parameter is addressable uniformly
// regardless of how it arrived. Ported from
// AbstractSyntaxTree::processParameters in the original.
func (g *codeGen) processParameters(params []Parameter) error {
	g.parameterStackOffset = -g.target.PointerSize()
	if len(g.scopes) != 1 {
		return newError(InternalInvariant, "no scope when processing parameters")
	}
	if len(g.scopes[0]) != 0 {
		return newError(InternalInvariant, "non-empty scope when processing parameters")
	}
	for _, p := range params {
		if _, exists := g.scopes[0][p.Name]; exists {
			return newError(BadAst, "duplicate parameter name %q", p.Name)
		}
		g.scopes[0][p.Name] = varInfo{dataType: p.Type, offset: g.parameterStackOffset}
		switch p.Type {
		case Double:
			g.parameterStackOffset -= asm.DoubleSize
		case Int32, Pointer, CharStar:
			g.parameterStackOffset -= g.target.PointerSize()
		default:
			return newError(BadAst, "invalid parameter type %v", p.Type)
		}
	}

	if !g.wide() {
		// on x86 every parameter already sits on the caller's stack; no
		// register-to-shadow-space copy is needed.
		return nil
	}
	regParams := []struct {
		offset int32
		gpReg  asm.IntReg
		xmmReg asm.XMMReg
	}{
		{8, asm.CX, asm.XMM0},
		{16, asm.DX, asm.XMM1},
		{24, asm.R8, asm.XMM2},
		{32, asm.R9, asm.XMM3},
	}
	for i, slot := range regParams {
		if i >= len(params) {
			break
		}
		if params[i].Type == Double {
			g.a.MovsdRegToMem(asm.SP, slot.offset, slot.xmmReg)
		} else {
			g.a.MovRegToMem(asm.SP, slot.offset, slot.gpReg, true)
		}
	}
	return nil
}

// pushStringLiterals reserves stack space for every distinct CharStar
// literal string value appearing anywhere in body, pushing each one's
// bytes (pointer-sized blocks, least significant block last so the first
// character ends up at the lowest address) and recording where it landed
// in g.stringLiteralLocations. A literal whose length is an exact
// multiple of the pointer size gets one extra zero word so its NUL
// terminator is always present, matching
// AbstractSyntaxTree::pushPossibleStringLiterals.
func (g *codeGen) pushStringLiterals(literals []string) error {
	ptrSize := int(g.target.PointerSize())
	for _, s := range literals {
		if len(s)%ptrSize == 0 {
			if g.wide() {
				g.a.PushImm32(0)
				g.a.PushImm32(0)
			} else {
				g.a.PushImm32(0)
			}
			g.stackOffset += g.target.PointerSize()
		}

		blockCount := (len(s) + ptrSize - 1) / ptrSize
		for block := 0; block < blockCount; block++ {
			j := blockCount*ptrSize - block*ptrSize
			byteAt := func(k int) uint32 {
				idx := j - k
				if idx >= 0 && idx < len(s) {
					return uint32(s[idx])
				}
				return 0
			}
			low := (byteAt(1) << 24) | (byteAt(2) << 16) | (byteAt(3) << 8) | byteAt(4)
			if g.wide() {
				high := (byteAt(5) << 24) | (byteAt(6) << 16) | (byteAt(7) << 8) | byteAt(8)
				g.a.PushImm32(int32(high))
				g.a.PushImm32(int32(low))
			} else {
				g.a.PushImm32(int32(low))
			}
			g.stackOffset += g.target.PointerSize()
		}

		if _, exists := g.stringLiteralLocations[s]; exists {
			return newError(InternalInvariant, "duplicate string literal found")
		}
		g.stringLiteralLocations[s] = g.stackOffset
	}
	return nil
}

// collectStringLiterals walks body and returns every distinct CharStar
// literal value it finds, in a deterministic order (first appearance),
// mirroring the original's std::set<std::string> possibleStringLiterals
// minus the incidental lexicographic ordering a set would impose.
func collectStringLiterals(body []Node) []string {
	seen := map[string]bool{}
	var order []string
	var walk func(n Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		switch v := n.(type) {
		case *Literal:
			if v.Type() == CharStar && !seen[v.StringValue] {
				seen[v.StringValue] = true
				order = append(order, v.StringValue)
			}
		case *BinaryOperation:
			walk(v.Left)
			walk(v.Right)
		case *UnaryOperation:
			walk(v.Operand)
		case *Cast:
			walk(v.ValueToCast)
		case *FunctionCall:
			for _, p := range v.Parameters {
				walk(p)
			}
		case *SetLocalVar:
			walk(v.ValueToSet)
		case *DeclareLocalVar:
			walk(v.InitialValue)
		case *Return:
			walk(v.ReturnValue)
		case *IfElse:
			walk(v.Condition)
			for _, s := range v.IfBody {
				walk(s)
			}
			for _, s := range v.ElseBody {
				walk(s)
			}
		case *ForLoop:
			walk(v.Initializer)
			walk(v.Condition)
			walk(v.Incrementer)
			for _, s := range v.Body {
				walk(s)
			}
		case *WhileLoop:
			walk(v.Condition)
			for _, s := range v.Body {
				walk(s)
			}
		case *Switch:
			walk(v.ValueToCompare)
			for _, s := range v.Body {
				walk(s)
			}
		case *Scope:
			for _, s := range v.Body {
				walk(s)
			}
		}
	}
	for _, stmt := range body {
		walk(stmt)
	}
	return order
}
