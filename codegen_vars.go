package jit

import (
	"github.com/achristensen07/jitcompiler/asm"
	"github.com/achristensen07/jitcompiler/runtime"
)

func (v *GetLocalVar) compile(g *codeGen) error {
	info, err := g.findLocalVarInfo(v.Name)
	if err != nil {
		return err
	}
	if info.offset > g.stackOffset {
		return newError(InternalInvariant, "variable %q stack location out of bounds", v.Name)
	}
	v.setType(info.dataType)
	delta := g.stackOffset - info.offset
	switch info.dataType {
	case Pointer:
		g.a.MovMemToReg(asm.AX, asm.SP, delta, g.wide())
	case Int32:
		g.a.MovMemToReg(asm.AX, asm.SP, delta, false)
	case Double:
		if g.wide() {
			g.a.MovsdMemToReg(asm.XMM0, asm.SP, delta)
		} else {
			g.a.Fld(asm.SP, delta)
		}
	case String:
		g.a.Lea(asm.AX, asm.SP, delta, g.wide())
	case CharStar:
		g.a.MovMemToReg(asm.AX, asm.SP, delta, g.wide())
	default:
		return newError(InternalInvariant, "variable %q has invalid type %v", v.Name, info.dataType)
	}
	return nil
}

// SetLocalVar.compile assigns ValueToSet and leaves the assigned value in
// the canonical result location, so `x = y = 1` and `f(x = 1)` both work.
// The x86 Double case stores and then immediately reloads the value: an
// x87 store (fstp) pops the stack, so the only way to both persist the
// value and keep a copy in the expression's result position is to fld it
// straight back from the memory it was just written to.
func (v *SetLocalVar) compile(g *codeGen) error {
	info, err := g.findLocalVarInfo(v.Name)
	if err != nil {
		return err
	}
	if err := v.ValueToSet.compile(g); err != nil {
		return err
	}
	if info.offset > g.stackOffset {
		return newError(InternalInvariant, "variable %q stack location out of bounds", v.Name)
	}
	delta := g.stackOffset - info.offset

	switch info.dataType {
	case Pointer:
		if err := g.castIfNecessary(Pointer, v.ValueToSet.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, delta, asm.AX, g.wide())
	case Int32:
		if err := g.castIfNecessary(Int32, v.ValueToSet.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, delta, asm.AX, false)
	case Double:
		if err := g.castIfNecessary(Double, v.ValueToSet.Type()); err != nil {
			return err
		}
		if g.wide() {
			g.a.MovsdRegToMem(asm.SP, delta, asm.XMM0)
		} else {
			g.a.Fstp(asm.SP, delta)
			g.a.Fld(asm.SP, delta)
		}
	case CharStar:
		if err := g.castIfNecessary(CharStar, v.ValueToSet.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, delta, asm.AX, g.wide())
	case String:
		if err := g.castIfNecessary(CharStar, v.ValueToSet.Type()); err != nil {
			return err
		}
		if g.wide() {
			g.a.MovRegToReg(asm.DX, asm.AX, true)
			g.a.Lea(asm.CX, asm.SP, delta, true)
			if err := g.emitHelperCall(runtime.StringAssignAddr(), 0); err != nil {
				return err
			}
		} else {
			g.a.PushReg(asm.AX)
			g.a.Lea(asm.CX, asm.SP, delta+g.target.PointerSize(), false)
			g.a.PushReg(asm.CX)
			if err := g.emitHelperCall(runtime.StringAssignAddr(), 2*g.target.PointerSize()); err != nil {
				return err
			}
		}
	default:
		return newError(InternalInvariant, "variable %q has invalid type %v", v.Name, info.dataType)
	}
	v.setType(info.dataType)
	return nil
}

// DeclareLocalVar.compile reserves stack space for Name (4 bytes for a
// freshly declared Int32 local — unlike an Int32 parameter, which always
// occupies a full pointer-sized slot — 8 for Double, pointer-size for
// Pointer/CharStar, runtime.StringObjectSize for String), then either
// default-constructs (String, no initializer), leaves the slot
// uninitialized (every other type, no initializer — matching the
// original's behavior exactly, not a zeroing convention), or evaluates
// and stores InitialValue.
func (d *DeclareLocalVar) compile(g *codeGen) error {
	var requiredSize int32
	switch d.VarType {
	case Int32:
		requiredSize = 4
	case Double:
		requiredSize = asm.DoubleSize
	case Pointer, CharStar:
		requiredSize = g.target.PointerSize()
	case String:
		requiredSize = runtime.StringObjectSize
	default:
		return newError(BadAst, "cannot declare a variable of type %v", d.VarType)
	}

	g.a.AddImmToReg(asm.SP, -requiredSize, g.wide())
	g.stackOffset += requiredSize
	if err := g.declareVar(d.Name, d.VarType); err != nil {
		return err
	}

	if d.InitialValue == nil {
		if d.VarType == String {
			if g.wide() {
				g.a.MovRegToReg(asm.CX, asm.SP, true)
				if err := g.emitHelperCall(runtime.StringDefaultCtorAddr(), 0); err != nil {
					return err
				}
			} else {
				g.a.Lea(asm.CX, asm.SP, 0, false)
				g.a.PushReg(asm.CX)
				if err := g.emitHelperCall(runtime.StringDefaultCtorAddr(), g.target.PointerSize()); err != nil {
					return err
				}
			}
		}
		return nil
	}

	if err := d.InitialValue.compile(g); err != nil {
		return err
	}
	switch d.VarType {
	case Pointer:
		if err := g.castIfNecessary(Pointer, d.InitialValue.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, 0, asm.AX, g.wide())
	case Int32:
		if err := g.castIfNecessary(Int32, d.InitialValue.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, 0, asm.AX, false)
	case Double:
		if err := g.castIfNecessary(Double, d.InitialValue.Type()); err != nil {
			return err
		}
		if g.wide() {
			g.a.MovsdRegToMem(asm.SP, 0, asm.XMM0)
		} else {
			g.a.Fstp(asm.SP, 0)
		}
	case CharStar:
		if err := g.castIfNecessary(CharStar, d.InitialValue.Type()); err != nil {
			return err
		}
		g.a.MovRegToMem(asm.SP, 0, asm.AX, g.wide())
	case String:
		if err := g.castIfNecessary(CharStar, d.InitialValue.Type()); err != nil {
			return err
		}
		if g.wide() {
			g.a.MovRegToReg(asm.DX, asm.AX, true)
			g.a.MovRegToReg(asm.CX, asm.SP, true)
			if err := g.emitHelperCall(runtime.StringFromCStrCtorAddr(), 0); err != nil {
				return err
			}
		} else {
			g.a.Lea(asm.CX, asm.SP, 0, false)
			g.a.PushReg(asm.AX)
			g.a.PushReg(asm.CX)
			if err := g.emitHelperCall(runtime.StringFromCStrCtorAddr(), 2*g.target.PointerSize()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Scope) compile(g *codeGen) error {
	g.incrementScope(s)
	if err := g.compileBody(s.Body); err != nil {
		return err
	}
	return g.deallocateVariablesAndDecrementScope()
}

// Return.compile unwinds every enclosing scope's stack space (running
// every enclosing scope's String destructors) without popping g.scopes,
// since compilation continues for any statements lexically following the
// return in their own scope before that scope's own normal exit runs.
func (r *Return) compile(g *codeGen) error {
	if r.ReturnValue != nil {
		if err := r.ReturnValue.compile(g); err != nil {
			return err
		}
		if err := g.castIfNecessary(r.ReturnType, r.ReturnValue.Type()); err != nil {
			return err
		}
	}
	removed, err := g.deallocateScopesForReturn()
	if err != nil {
		return err
	}

	// deallocateScopesForReturn has already emitted the stack adjustment
	// for every scope's locals; what remains above the return address is
	// the string-literal storage pushed by the prologue. The x87 return
	// value (x86, Double) sits in st(0); this cleanup only touches the
	// general-purpose stack pointer, so it survives untouched.
	if rest := g.stackOffset - removed; rest != 0 {
		g.a.AddImmToReg(asm.SP, rest, g.wide())
	}
	g.a.Ret()
	return nil
}
