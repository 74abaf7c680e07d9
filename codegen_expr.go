package jit

import (
	"math"

	"github.com/achristensen07/jitcompiler/asm"
	"github.com/achristensen07/jitcompiler/runtime"
)

// doubleBits returns v's IEEE-754 bit pattern, the form every Double
// constant travels through the C stack in (a push of two 32-bit halves,
// high word first, then a load into the canonical Double location).
func doubleBits(v float64) uint64 { return math.Float64bits(v) }

func (l *Literal) compile(g *codeGen) error {
	switch l.Type() {
	case Int32:
		g.a.MovImm32ToReg(asm.AX, uint32(l.IntValue))
		return nil
	case Pointer:
		if g.wide() {
			g.a.MovImm64ToReg(asm.AX, uint64(l.PointerValue))
		} else {
			g.a.MovImm32ToReg(asm.AX, uint32(l.PointerValue))
		}
		return nil
	case Double:
		return g.emitDoubleLiteral(l.DoubleValue)
	case CharStar:
		offset, ok := g.stringLiteralLocations[l.StringValue]
		if !ok {
			return newError(InternalInvariant, "string literal %q not in possible string literals", l.StringValue)
		}
		g.a.Lea(asm.AX, asm.SP, g.stackOffset-offset, g.wide())
		return nil
	default:
		return newError(InternalInvariant, "undetermined literal type")
	}
}

// emitDoubleLiteral materializes v into the canonical Double result
// location by round-tripping it through the C stack: push its 8 raw
// bytes, then load them into xmm0 (x86-64) or st(0) (x86), matching the
// original's ImmediateValue64 push followed by movsd/fld.
func (g *codeGen) emitDoubleLiteral(v float64) error {
	bits := doubleBits(v)
	if g.wide() {
		g.a.PushImm32(int32(bits >> 32))
		g.a.PushImm32(int32(bits))
		g.a.MovsdMemToReg(asm.XMM0, asm.SP, 0)
		g.a.AddImmToReg(asm.SP, 8, true)
	} else {
		g.a.PushImm32(int32(bits >> 32))
		g.a.PushImm32(int32(bits))
		g.a.Fld(asm.SP, 0)
		g.a.AddImmToReg(asm.SP, 8, false)
	}
	return nil
}

// materializeComparison wraps a flags-setting emission (a cmp or an x87/
// comisd compare sequence) with the zero-then-setcc-then-move idiom that
// lands a clean 0/1 boolean in eax without disturbing the flags the
// compare just set: DX is zeroed before the compare runs (safe, since the
// zeroing flags are dead by the time the compare executes), then setcc
// writes only DL, and a plain register move promotes it to a full-width
// EAX result.
func (g *codeGen) materializeComparison(cond asm.Condition, emitCompare func()) {
	g.a.XorRegToReg(asm.DX, asm.DX, false)
	emitCompare()
	g.a.SetByteOnCondition(asm.DX, cond)
	g.a.MovRegToReg(asm.AX, asm.DX, false)
}

// int32Conditions maps a comparison BinaryOperationType to the direct
// (left, right) condition used after `cmp eax, ecx`.
var int32Conditions = map[BinaryOperationType]asm.Condition{
	Equal:              asm.Equal,
	NotEqual:           asm.NotEqual,
	GreaterThan:        asm.GreaterThan,
	GreaterThanOrEqual: asm.GreaterThanOrEqual,
	LessThan:           asm.LessThan,
	LessThanOrEqual:    asm.LessThanOrEqual,
}

// doubleConditions maps a comparison BinaryOperationType to the condition
// used on x86-64 after `comisd right, left` (note the swapped operand
// order the original relies on: below/above trade places relative to the
// direct integer form).
var doubleConditions = map[BinaryOperationType]asm.Condition{
	Equal:              asm.Equal,
	NotEqual:           asm.NotEqual,
	GreaterThan:        asm.Below,
	GreaterThanOrEqual: asm.BelowOrEqual,
	LessThan:           asm.Above,
	LessThanOrEqual:    asm.AboveOrEqual,
}

// doubleConditionsX86 maps the same comparisons to the condition used on
// x86 after x87CompareAndPopDoubles, which leaves flags set for st(0)
// versus st(1) directly (left versus right, since Fld just pushed left
// above the already-resident right) — unlike x64's comisd ordering, this
// needs no swap.
var doubleConditionsX86 = map[BinaryOperationType]asm.Condition{
	Equal:              asm.Equal,
	NotEqual:           asm.NotEqual,
	GreaterThan:        asm.Above,
	GreaterThanOrEqual: asm.AboveOrEqual,
	LessThan:           asm.Below,
	LessThanOrEqual:    asm.BelowOrEqual,
}

// BinaryOperation.compile mirrors ASTBinaryOperation::compile's real
// structure: it learns each operand's type only by compiling it (a
// non-Literal operand's DataType is Undetermined until compile() runs), so
// the left/right type pairing used to pick a dispatch branch is only known
// after both sides are compiled — there is no pre-compile promotion step in
// the original, and adding one here silently no-ops for anything but a bare
// Literal. Left is compiled and spilled to the stack first (by its own
// real type), then right is compiled, then the now-known pairing selects
// one of four branches: both Int32, both Double, or one of the two mixed
// pairings, each of which promotes its Int32 side to Double in place
// before falling into the shared Double arithmetic switch.
func (b *BinaryOperation) compile(g *codeGen) error {
	if b.OperationType == Brackets {
		return g.compileBrackets(b)
	}

	if err := b.Left.compile(g); err != nil {
		return err
	}
	switch b.Left.Type() {
	case Int32, Pointer:
		g.a.PushReg(asm.AX)
		g.stackOffset += g.target.PointerSize()
	case Double:
		if g.wide() {
			g.a.PushXMM(asm.XMM0)
		} else {
			g.a.AddImmToReg(asm.SP, -asm.DoubleSize, false)
			g.a.Fstp(asm.SP, 0)
		}
		g.stackOffset += asm.DoubleSize
	default:
		return newError(BadAst, "binary operation left operand has unsupported type %v", b.Left.Type())
	}

	if err := b.Right.compile(g); err != nil {
		return err
	}

	switch {
	case b.Left.Type() == Int32 && b.Right.Type() == Int32:
		return g.compileInt32BinaryOp(b)
	case b.Left.Type() == Double && b.Right.Type() == Double:
		return g.compileDoubleBinaryOp(b)
	case b.Left.Type() == Int32 && b.Right.Type() == Double:
		if g.wide() {
			return g.compileMixedIntLeftDoubleRightX64(b)
		}
		return g.compileMixedIntLeftDoubleRightX86(b)
	case b.Left.Type() == Double && b.Right.Type() == Int32:
		if g.wide() {
			return g.compileMixedDoubleLeftIntRightX64(b)
		}
		return g.compileMixedDoubleLeftIntRightX86(b)
	default:
		return newError(BadAst, "unsupported binary operand types %v, %v", b.Left.Type(), b.Right.Type())
	}
}

func (g *codeGen) compileInt32BinaryOp(b *BinaryOperation) error {
	b.setType(Int32)
	g.stackOffset -= g.target.PointerSize()
	g.a.MovRegToReg(asm.CX, asm.AX, false) // right operand now in ecx
	g.a.PopReg(asm.AX)                     // left operand now in eax

	if cond, ok := int32Conditions[b.OperationType]; ok {
		g.materializeComparison(cond, func() { g.a.CmpRegToReg(asm.AX, asm.CX, false) })
		return nil
	}

	switch b.OperationType {
	case Add:
		g.a.AddRegToReg(asm.AX, asm.CX, false)
	case Subtract:
		g.a.SubRegToReg(asm.AX, asm.CX, false)
	case Multiply:
		g.a.ImulRegToReg(asm.AX, asm.CX, false)
	case Divide:
		g.a.Cdq(false)
		g.a.IdivReg(asm.CX, false)
	case Mod:
		g.a.Cdq(false)
		g.a.IdivReg(asm.CX, false)
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	case LeftBitShift:
		g.a.ShlRegByCL(asm.AX, false)
	case RightBitShift:
		g.a.SarRegByCL(asm.AX, false)
	case BitwiseXOr:
		g.a.XorRegToReg(asm.AX, asm.CX, false)
	case BitwiseOr:
		g.a.OrRegToReg(asm.AX, asm.CX, false)
	case BitwiseAnd:
		g.a.AndRegToReg(asm.AX, asm.CX, false)
	case LogicalOr:
		g.a.XorRegToReg(asm.DX, asm.DX, false)
		g.a.CmpImmToReg(asm.AX, 0, false)
		g.a.SetByteOnCondition(asm.DX, asm.NotEqual)
		g.a.XorRegToReg(asm.BX, asm.BX, false)
		g.a.CmpImmToReg(asm.CX, 0, false)
		g.a.SetByteOnCondition(asm.BX, asm.NotEqual)
		g.a.OrRegToReg(asm.DX, asm.BX, false)
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	case LogicalAnd:
		g.a.XorRegToReg(asm.DX, asm.DX, false)
		g.a.CmpImmToReg(asm.AX, 0, false)
		g.a.SetByteOnCondition(asm.DX, asm.NotEqual)
		g.a.XorRegToReg(asm.BX, asm.BX, false)
		g.a.CmpImmToReg(asm.CX, 0, false)
		g.a.SetByteOnCondition(asm.BX, asm.NotEqual)
		g.a.AndRegToReg(asm.DX, asm.BX, false)
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	default:
		return newError(BadAst, "invalid Int32 binary operation %v", b.OperationType)
	}
	return nil
}

func (g *codeGen) compileDoubleBinaryOp(b *BinaryOperation) error {
	if g.wide() {
		return g.compileDoubleBinaryOpX64(b)
	}
	return g.compileDoubleBinaryOpX86(b)
}

func (g *codeGen) compileDoubleBinaryOpX64(b *BinaryOperation) error {
	g.stackOffset -= asm.DoubleSize
	g.a.MovsdRegToReg(asm.XMM1, asm.XMM0) // right operand now in xmm1
	g.a.PopXMM(asm.XMM0)                  // left operand now in xmm0
	return g.doubleArithSwitchX64(b)
}

// compileMixedIntLeftDoubleRightX64 promotes an Int32 left operand (popped
// off the stack, where it was spilled as an Int32) to Double alongside an
// already-Double right operand, then falls into the same arithmetic switch
// pure Double×Double uses. Grounded on AbstractSyntaxTree.cpp's
// leftOperand->dataType==Int32 && rightOperand->dataType==Double branch's
// _M_X64 setup (movsd xmm1,xmm0; pop eax; cvtsi2sd xmm0,eax).
func (g *codeGen) compileMixedIntLeftDoubleRightX64(b *BinaryOperation) error {
	g.stackOffset -= g.target.PointerSize()
	g.a.MovsdRegToReg(asm.XMM1, asm.XMM0) // right operand now in xmm1
	g.a.PopReg(asm.AX)                    // left operand (Int32) popped
	g.a.Cvtsi2sd(asm.XMM0, asm.AX, false) // left operand promoted into xmm0
	return g.doubleArithSwitchX64(b)
}

// compileMixedDoubleLeftIntRightX64 is the mirror case: left is already
// Double (popped off the stack where BinaryOperation.compile spilled it),
// right is Int32 and still sits in eax from having just been compiled.
// Grounded on the same file's leftOperand->dataType==Double &&
// rightOperand->dataType==Int32 branch's _M_X64 setup (pop xmm0;
// cvtsi2sd xmm1,eax).
func (g *codeGen) compileMixedDoubleLeftIntRightX64(b *BinaryOperation) error {
	g.stackOffset -= asm.DoubleSize
	g.a.PopXMM(asm.XMM0)                  // left operand (Double) popped
	g.a.Cvtsi2sd(asm.XMM1, asm.AX, false) // right operand promoted into xmm1
	return g.doubleArithSwitchX64(b)
}

// doubleArithSwitchX64 is the per-operator dispatch shared by pure
// Double×Double and both mixed Int32/Double pairings once both operands
// sit in xmm0 (left) and xmm1 (right).
func (g *codeGen) doubleArithSwitchX64(b *BinaryOperation) error {
	if cond, ok := doubleConditions[b.OperationType]; ok {
		b.setType(Int32)
		g.materializeComparison(cond, func() { g.a.ComisdRegToReg(asm.XMM1, asm.XMM0) })
		return nil
	}

	switch b.OperationType {
	case Add:
		b.setType(Double)
		g.a.AddsdRegToReg(asm.XMM0, asm.XMM1)
	case Subtract:
		b.setType(Double)
		g.a.SubsdRegToReg(asm.XMM0, asm.XMM1)
	case Multiply:
		b.setType(Double)
		g.a.MulsdRegToReg(asm.XMM0, asm.XMM1)
	case Divide:
		b.setType(Double)
		g.a.DivsdRegToReg(asm.XMM0, asm.XMM1)
	case Mod:
		b.setType(Int32)
		g.a.Cvttsd2si(asm.AX, asm.XMM0)
		g.a.Cvttsd2si(asm.CX, asm.XMM1)
		g.a.Cdq(false)
		g.a.IdivReg(asm.CX, false)
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	case LeftBitShift, RightBitShift, BitwiseXOr, BitwiseOr, BitwiseAnd:
		b.setType(Int32)
		g.a.Cvttsd2si(asm.AX, asm.XMM0)
		g.a.Cvttsd2si(asm.CX, asm.XMM1)
		switch b.OperationType {
		case LeftBitShift:
			g.a.ShlRegByCL(asm.AX, false)
		case RightBitShift:
			g.a.SarRegByCL(asm.AX, false)
		case BitwiseXOr:
			g.a.XorRegToReg(asm.AX, asm.CX, false)
		case BitwiseOr:
			g.a.OrRegToReg(asm.AX, asm.CX, false)
		case BitwiseAnd:
			g.a.AndRegToReg(asm.AX, asm.CX, false)
		}
	case LogicalOr, LogicalAnd:
		b.setType(Int32)
		g.a.PushImm32(0)
		g.a.PushImm32(0)
		g.a.MovsdMemToReg(asm.XMM2, asm.SP, 0)
		g.a.AddImmToReg(asm.SP, 8, true)
		g.a.XorRegToReg(asm.DX, asm.DX, false)
		g.a.ComisdRegToReg(asm.XMM0, asm.XMM2)
		g.a.SetByteOnCondition(asm.DX, asm.NotEqual)
		g.a.XorRegToReg(asm.BX, asm.BX, false)
		g.a.ComisdRegToReg(asm.XMM1, asm.XMM2)
		g.a.SetByteOnCondition(asm.BX, asm.NotEqual)
		if b.OperationType == LogicalOr {
			g.a.OrRegToReg(asm.DX, asm.BX, false)
		} else {
			g.a.AndRegToReg(asm.DX, asm.BX, false)
		}
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	default:
		return newError(BadAst, "invalid Double binary operation %v", b.OperationType)
	}
	return nil
}

func (g *codeGen) compileDoubleBinaryOpX86(b *BinaryOperation) error {
	g.stackOffset -= asm.DoubleSize
	g.a.Fld(asm.SP, 0) // load left from memory, pushing right (already st0) to st1
	g.a.AddImmToReg(asm.SP, asm.DoubleSize, false)
	return g.doubleArithSwitchX86(b)
}

// compileMixedIntLeftDoubleRightX86 promotes an Int32 left operand — still
// sitting on the C stack where it was spilled as a plain push — to Double
// via fild, landing it at st0 and demoting the already-Double right operand
// (compiled last, so it is st0 until this fild runs) to st1. Grounded on
// AbstractSyntaxTree.cpp's Int32×Double branch's non-_M_X64 setup for
// Add/Subtract/Multiply/Divide/the comparisons (each opens with the same
// `fild(esp, 0); pop()` pair before its own operator).
func (g *codeGen) compileMixedIntLeftDoubleRightX86(b *BinaryOperation) error {
	g.a.Fild(asm.SP, 0)
	g.a.AddImmToReg(asm.SP, g.target.PointerSize(), false)
	g.stackOffset -= g.target.PointerSize()
	return g.doubleArithSwitchX86(b)
}

// compileMixedDoubleLeftIntRightX86 is the mirror case: right is Int32 and
// still in eax from having just been compiled, left is Double and already
// spilled on the C stack. Grounded on the same file's Double×Int32 branch's
// non-_M_X64 setup (push eax; fild esp,0; fld esp,4; add esp,4+8) — the
// freshly pushed right operand is fild'd first so it lands below the
// already-spilled left operand, then fld brings left to the new top,
// demoting right to st1, matching every other x86 Double×Double setup here.
func (g *codeGen) compileMixedDoubleLeftIntRightX86(b *BinaryOperation) error {
	g.a.PushReg(asm.AX)
	g.stackOffset += g.target.PointerSize()
	g.a.Fild(asm.SP, 0)
	g.a.Fld(asm.SP, g.target.PointerSize())
	g.a.AddImmToReg(asm.SP, g.target.PointerSize()+asm.DoubleSize, false)
	g.stackOffset -= g.target.PointerSize() + asm.DoubleSize
	return g.doubleArithSwitchX86(b)
}

// doubleArithSwitchX86 is the per-operator dispatch shared by pure
// Double×Double and both mixed Int32/Double pairings once both operands
// sit on the x87 stack as st(0)=left, st(1)=right.
func (g *codeGen) doubleArithSwitchX86(b *BinaryOperation) error {
	if cond, ok := doubleConditionsX86[b.OperationType]; ok {
		b.setType(Int32)
		g.materializeComparison(cond, func() { g.a.X87CompareAndPopDoubles() })
		return nil
	}

	switch b.OperationType {
	case Add:
		b.setType(Double)
		g.a.Faddp()
	case Subtract:
		b.setType(Double)
		g.a.Fsubp()
	case Multiply:
		b.setType(Double)
		g.a.Fmulp()
	case Divide:
		b.setType(Double)
		g.a.Fdivp()
	case Mod, LeftBitShift, RightBitShift, BitwiseXOr, BitwiseOr, BitwiseAnd:
		b.setType(Int32)
		g.a.AddImmToReg(asm.SP, -2*asm.DoubleSize, false)
		g.a.Fstp(asm.SP, asm.DoubleSize)
		g.a.Fstp(asm.SP, 0)
		return g.compileDoubleIntFallbackX86(b)
	case LogicalOr, LogicalAnd:
		b.setType(Int32)
		return g.compileDoubleLogicalX86(b)
	default:
		return newError(BadAst, "invalid Double binary operation %v", b.OperationType)
	}
	return nil
}

// compileDoubleIntFallbackX86 finishes the Mod/shift/bitwise Double×Double
// path on x86, where the two truncated operands were just spilled to
// [esp+0] and [esp+8] by the caller (mirroring the original's two-fstp
// sequence) — Cvttsd2si is an x86-64-only SSE instruction, so on x86 the
// truncation instead goes through the x87 stack via fild-free direct
// load: fld the spilled double back, no direct memory->int truncation
// instruction exists on x87 either, so the original reads the already-
// truncated ints straight out of memory is not applicable; instead this
// loads each double and converts with the same X87 truncate-to-memory
// idiom Cast uses.
func (g *codeGen) compileDoubleIntFallbackX86(b *BinaryOperation) error {
	// values are at [esp+0] (right) and [esp+8] (left): the first fstp
	// stored st0, the left operand, at [esp+8].
	if err := g.x87TruncateMemToInt(asm.CX, 0); err != nil {
		return err
	}
	if err := g.x87TruncateMemToInt(asm.AX, asm.DoubleSize); err != nil {
		return err
	}
	g.a.AddImmToReg(asm.SP, 2*asm.DoubleSize, false)
	switch b.OperationType {
	case Mod:
		g.a.Cdq(false)
		g.a.IdivReg(asm.CX, false)
		g.a.MovRegToReg(asm.AX, asm.DX, false)
	case LeftBitShift:
		g.a.ShlRegByCL(asm.AX, false)
	case RightBitShift:
		g.a.SarRegByCL(asm.AX, false)
	case BitwiseXOr:
		g.a.XorRegToReg(asm.AX, asm.CX, false)
	case BitwiseOr:
		g.a.OrRegToReg(asm.AX, asm.CX, false)
	case BitwiseAnd:
		g.a.AndRegToReg(asm.AX, asm.CX, false)
	}
	return nil
}

// x87TruncateMemToInt loads the double at [esp+offset] and truncates it
// toward zero into dst, via the x87 stack (fld) followed by a store-and-
// reload through a scratch double slot the same way Cast's Double->Int32
// path does on x86 — there is no x87 instruction that truncates directly
// into a general-purpose register.
func (g *codeGen) x87TruncateMemToInt(dst asm.IntReg, offset int32) error {
	g.a.Fld(asm.SP, offset)
	g.a.AddImmToReg(asm.SP, -4, false)
	g.a.Fistp(asm.SP, 0)
	g.a.MovMemToReg(dst, asm.SP, 0, false)
	g.a.AddImmToReg(asm.SP, 4, false)
	return nil
}

func (g *codeGen) compileDoubleLogicalX86(b *BinaryOperation) error {
	g.a.AddImmToReg(asm.SP, -2*asm.DoubleSize, false)
	g.a.Fstp(asm.SP, 0) // left
	g.a.Fstp(asm.SP, asm.DoubleSize) // right
	g.a.XorRegToReg(asm.DX, asm.DX, false)
	if err := g.emitX87BooleanNotZero(0, asm.DX); err != nil {
		return err
	}
	g.a.XorRegToReg(asm.BX, asm.BX, false)
	if err := g.emitX87BooleanNotZero(asm.DoubleSize, asm.BX); err != nil {
		return err
	}
	if b.OperationType == LogicalOr {
		g.a.OrRegToReg(asm.DX, asm.BX, false)
	} else {
		g.a.AndRegToReg(asm.DX, asm.BX, false)
	}
	g.a.MovRegToReg(asm.AX, asm.DX, false)
	g.a.AddImmToReg(asm.SP, 2*asm.DoubleSize, false)
	return nil
}

// emitX87BooleanNotZero tests whether the double stored at [esp+offset]
// (relative to RSP as it stands when this is called) is nonzero, writing
// a clean 0/1 into dst's low byte (dst's upper bits must already be
// zeroed by the caller). It temporarily pushes an 8-byte zero double and
// pops it back off, so the value is read at offset+8 to account for the
// push.
func (g *codeGen) emitX87BooleanNotZero(offset int32, dst asm.IntReg) error {
	g.a.PushImm32(0)
	g.a.PushImm32(0)
	g.a.Fld(asm.SP, offset+8)
	g.a.Fld(asm.SP, 0)
	g.a.X87CompareAndPopDoubles()
	g.a.SetByteOnCondition(dst, asm.NotEqual)
	g.a.AddImmToReg(asm.SP, 8, false)
	return nil
}

// compileBrackets implements String indexing: left must be String, right
// is cast to Int32, and runtime.StringIndexAddr does the bounds-unchecked
// byte load.
func (g *codeGen) compileBrackets(b *BinaryOperation) error {
	if err := b.Left.compile(g); err != nil {
		return err
	}
	if b.Left.Type() != String {
		return newError(BadAst, "Brackets requires a String left operand, got %v", b.Left.Type())
	}
	g.a.PushReg(asm.AX)
	g.stackOffset += g.target.PointerSize()

	if err := b.Right.compile(g); err != nil {
		return err
	}
	if err := g.castIfNecessary(Int32, b.Right.Type()); err != nil {
		return err
	}
	b.setType(Int32)

	g.a.PopReg(asm.CX) // string pointer back in ecx
	g.stackOffset -= g.target.PointerSize()

	if g.wide() {
		g.a.MovRegToReg(asm.DX, asm.AX, false) // index into the 2nd argument register
		return g.emitHelperCall(runtime.StringIndexAddr(), 0)
	}
	g.a.PushReg(asm.AX)
	g.a.PushReg(asm.CX)
	return g.emitHelperCall(runtime.StringIndexAddr(), 2*g.target.PointerSize())
}

func (u *UnaryOperation) compile(g *codeGen) error {
	if err := u.Operand.compile(g); err != nil {
		return err
	}
	switch u.Operand.Type() {
	case Int32:
		u.setType(Int32)
		switch u.OperationType {
		case Negate:
			g.a.MovImm32ToReg(asm.CX, ^uint32(0))
			g.a.ImulRegToReg(asm.AX, asm.CX, false)
		case LogicalNot:
			g.materializeComparison(asm.Equal, func() { g.a.CmpImmToReg(asm.AX, 0, false) })
		case BitwiseNot:
			g.a.MovImm32ToReg(asm.CX, ^uint32(0))
			g.a.XorRegToReg(asm.AX, asm.CX, false)
		default:
			return newError(BadAst, "invalid unary operation %v", u.OperationType)
		}
		return nil
	case Double:
		return g.compileDoubleUnaryOp(u)
	default:
		return newError(BadAst, "unary operation operand has unsupported type %v", u.Operand.Type())
	}
}

func (g *codeGen) compileDoubleUnaryOp(u *UnaryOperation) error {
	if g.wide() {
		switch u.OperationType {
		case Negate:
			u.setType(Double)
			g.a.PushImm32(int32(doubleBits(-1.0) >> 32))
			g.a.PushImm32(int32(doubleBits(-1.0)))
			g.a.MovsdMemToReg(asm.XMM1, asm.SP, 0)
			g.a.AddImmToReg(asm.SP, 8, true)
			g.a.MulsdRegToReg(asm.XMM0, asm.XMM1)
		case LogicalNot:
			u.setType(Int32)
			g.a.PushImm32(0)
			g.a.PushImm32(0)
			g.a.MovsdMemToReg(asm.XMM1, asm.SP, 0)
			g.a.AddImmToReg(asm.SP, 8, true)
			g.materializeComparison(asm.Equal, func() { g.a.ComisdRegToReg(asm.XMM0, asm.XMM1) })
		case BitwiseNot:
			u.setType(Int32)
			g.a.Cvttsd2si(asm.AX, asm.XMM0)
			g.a.MovImm32ToReg(asm.CX, ^uint32(0))
			g.a.XorRegToReg(asm.AX, asm.CX, false)
		default:
			return newError(BadAst, "invalid unary operation %v", u.OperationType)
		}
		return nil
	}
	switch u.OperationType {
	case Negate:
		u.setType(Double)
		g.a.PushImm32(int32(doubleBits(-1.0) >> 32))
		g.a.PushImm32(int32(doubleBits(-1.0)))
		g.a.Fld(asm.SP, 0)
		g.a.AddImmToReg(asm.SP, 8, false)
		g.a.Fmulp()
	case LogicalNot:
		u.setType(Int32)
		g.a.PushImm32(0)
		g.a.PushImm32(0)
		g.a.Fld(asm.SP, 0)
		g.a.AddImmToReg(asm.SP, 8, false)
		g.materializeComparison(asm.Equal, func() { g.a.X87CompareAndPopDoubles() })
	case BitwiseNot:
		u.setType(Int32)
		g.a.AddImmToReg(asm.SP, -4, false)
		g.a.Fistp(asm.SP, 0)
		g.a.MovMemToReg(asm.AX, asm.SP, 0, false)
		g.a.AddImmToReg(asm.SP, 4, false)
		g.a.MovImm32ToReg(asm.CX, ^uint32(0))
		g.a.XorRegToReg(asm.AX, asm.CX, false)
	default:
		return newError(BadAst, "invalid unary operation %v", u.OperationType)
	}
	return nil
}

func (c *Cast) compile(g *codeGen) error {
	if err := c.ValueToCast.compile(g); err != nil {
		return err
	}
	return g.castIfNecessary(c.Type(), c.ValueToCast.Type())
}

// castIfNecessary implements the conversion matrix from spec.md §4.5,
// operating on whatever value currently sits in the canonical result
// location for `from` and leaving the converted value in the canonical
// location for `to`. A no-op when to == from.
func (g *codeGen) castIfNecessary(to, from DataType) error {
	if to == from {
		return nil
	}
	switch from {
	case Int32:
		switch to {
		case Pointer:
			return g.castInt32ToPointer()
		case Double:
			return g.castInt32ToDouble()
		default:
			return newError(BadCast, "cannot cast Int32 to %v", to)
		}
	case Pointer:
		switch to {
		case Int32:
			return g.castPointerToInt32()
		case Double:
			return g.castPointerToDouble()
		default:
			return newError(BadCast, "cannot cast Pointer to %v", to)
		}
	case Double:
		switch to {
		case Int32:
			return g.castDoubleToInt32()
		case Pointer:
			return g.castDoubleToPointer()
		default:
			return newError(BadCast, "cannot cast Double to %v", to)
		}
	case String:
		if to != CharStar {
			return newError(BadCast, "cannot cast String to %v", to)
		}
		return g.castStringToCharStar()
	default:
		return newError(BadCast, "cannot cast %v to %v", from, to)
	}
}

// castInt32ToPointer zero-extends on x86-64 by calling the int32_to_ptr
// helper; a no-op on x86, where both types are already the same 32-bit
// width.
func (g *codeGen) castInt32ToPointer() error {
	if !g.wide() {
		return nil
	}
	g.a.MovRegToReg(asm.CX, asm.AX, false)
	return g.emitHelperCall(runtime.Int32ToPtrAddr(), 0)
}

func (g *codeGen) castPointerToInt32() error {
	if !g.wide() {
		return nil
	}
	g.a.MovImm64ToReg(asm.CX, 0x00000000FFFFFFFF)
	g.a.AndRegToReg(asm.AX, asm.CX, true)
	return nil
}

func (g *codeGen) castInt32ToDouble() error {
	if g.wide() {
		g.a.Cvtsi2sd(asm.XMM0, asm.AX, false)
		return nil
	}
	g.a.PushReg(asm.AX)
	g.a.Fild(asm.SP, 0)
	g.a.PopReg(asm.AX)
	return nil
}

func (g *codeGen) castDoubleToInt32() error {
	if g.wide() {
		g.a.Cvttsd2si(asm.AX, asm.XMM0)
		return nil
	}
	g.a.AddImmToReg(asm.SP, -4, false)
	g.a.Fistp(asm.SP, 0)
	g.a.MovMemToReg(asm.AX, asm.SP, 0, false)
	g.a.AddImmToReg(asm.SP, 4, false)
	return nil
}

func (g *codeGen) castPointerToDouble() error {
	if g.wide() {
		g.a.MovRegToReg(asm.CX, asm.AX, true)
		return g.emitHelperCall(runtime.PtrToDoubleAddr(), 0)
	}
	g.a.PushReg(asm.AX)
	err := g.emitHelperCall(runtime.PtrToDoubleAddr(), g.target.PointerSize())
	return err
}

func (g *codeGen) castDoubleToPointer() error {
	if g.wide() {
		return g.emitHelperCall(runtime.DoubleToPtrAddr(), 0)
	}
	g.a.AddImmToReg(asm.SP, -asm.DoubleSize, false)
	g.a.Fstp(asm.SP, 0)
	return g.emitHelperCall(runtime.DoubleToPtrAddr(), asm.DoubleSize)
}

func (g *codeGen) castStringToCharStar() error {
	if g.wide() {
		g.a.MovRegToReg(asm.CX, asm.AX, true)
		return g.emitHelperCall(runtime.StringCStrAddr(), 0)
	}
	g.a.PushReg(asm.AX)
	return g.emitHelperCall(runtime.StringCStrAddr(), g.target.PointerSize())
}

// FunctionCall.compile evaluates parameters right to left, spills each to
// the stack as produced, then — on x86-64 — pops the first four into
// their ABI-mandated registers and reserves 32 bytes of shadow space
// (pre-padded so the post-shadow-space stack is 16-byte aligned); on x86
// the spilled parameters are simply left on the stack for the callee to
// read and cleaned up by the caller afterward, per cdecl.
func (fc *FunctionCall) compile(g *codeGen) error {
	var parameterSpace int32
	if g.wide() {
		// only parameters beyond the fourth are still on the stack at the
		// call; the first four are popped into registers before it.
		stackParameters := int32(len(fc.Parameters)) - 4
		if stackParameters < 0 {
			stackParameters = 0
		}
		parameterSpace = (g.stackOffset + g.target.PointerSize() + 8*stackParameters) % 16
		if parameterSpace != 0 {
			g.a.AddImmToReg(asm.SP, -parameterSpace, true)
			g.stackOffset += parameterSpace
		}
	}

	for i := len(fc.Parameters) - 1; i >= 0; i-- {
		p := fc.Parameters[i]
		if err := p.compile(g); err != nil {
			return err
		}
		switch p.Type() {
		case Int32, Pointer, CharStar, String:
			g.a.PushReg(asm.AX)
			parameterSpace += g.target.PointerSize()
			g.stackOffset += g.target.PointerSize()
		case Double:
			parameterSpace += asm.DoubleSize
			g.stackOffset += asm.DoubleSize
			g.a.AddImmToReg(asm.SP, -asm.DoubleSize, g.wide())
			if g.wide() {
				g.a.MovsdRegToMem(asm.SP, 0, asm.XMM0)
			} else {
				g.a.Fstp(asm.SP, 0)
			}
		default:
			return newError(BadAst, "invalid function call parameter type %v", p.Type())
		}
	}

	if g.wide() {
		intRegs := [4]asm.IntReg{asm.CX, asm.DX, asm.R8, asm.R9}
		xmmRegs := [4]asm.XMMReg{asm.XMM0, asm.XMM1, asm.XMM2, asm.XMM3}
		for i := 0; i < len(fc.Parameters) && i < 4; i++ {
			switch fc.Parameters[i].Type() {
			case Int32, Pointer, CharStar, String:
				g.a.PopReg(intRegs[i])
				parameterSpace -= g.target.PointerSize()
				g.stackOffset -= g.target.PointerSize()
			case Double:
				g.a.PopXMM(xmmRegs[i])
				parameterSpace -= asm.DoubleSize
				g.stackOffset -= asm.DoubleSize
			}
		}
		g.a.AddImmToReg(asm.SP, -32, true)
		parameterSpace += 32
		g.stackOffset += 32
	}

	if g.wide() {
		g.a.MovImm64ToReg(asm.AX, uint64(fc.FunctionAddress))
	} else {
		g.a.MovImm32ToReg(asm.AX, uint32(fc.FunctionAddress))
	}
	g.a.CallReg(asm.AX)
	g.a.AddImmToReg(asm.SP, parameterSpace, g.wide())
	g.stackOffset -= parameterSpace
	return nil
}
