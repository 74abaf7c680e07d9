package jit

import "github.com/achristensen07/jitcompiler/asm"

func (f *ForLoop) recordBreak(anchor asm.JumpAnchor)    { f.breaks = append(f.breaks, anchor) }
func (f *ForLoop) recordContinue(anchor asm.JumpAnchor) { f.continues = append(f.continues, anchor) }

func (w *WhileLoop) recordBreak(anchor asm.JumpAnchor)    { w.breaks = append(w.breaks, anchor) }
func (w *WhileLoop) recordContinue(anchor asm.JumpAnchor) { w.continues = append(w.continues, anchor) }

func (s *Switch) recordBreak(anchor asm.JumpAnchor) { s.breaks = append(s.breaks, anchor) }

// Break.compile and Continue.compile climb scopeParents from the
// innermost scope outward (stopping one short of the function-level
// scope, index 0, which is never a loop/switch), deallocating each
// scope's locals along the way since the jump leaves them all behind, and
// stop at the first scope whose parent accepts the jump kind —
// ForLoop/WhileLoop/Switch for Break, ForLoop/WhileLoop for Continue. Any
// other enclosing node (IfElse, Scope, and — for Continue only — Switch)
// is simply skipped over, which falls out naturally here since the type
// assertion just fails and the loop keeps climbing. The stack-offset model
// follows each emitted adjustment during the climb and is restored
// afterward, since compilation continues inside the same lexical scopes.
func (b *Break) compile(g *codeGen) error {
	saved := g.stackOffset
	defer func() { g.stackOffset = saved }()
	for i := len(g.scopeParents) - 1; i >= 1; i-- {
		removed, err := g.deallocateVariables(i)
		if err != nil {
			return err
		}
		g.stackOffset -= removed
		if bt, ok := g.scopeParents[i].(breakTarget); ok {
			bt.recordBreak(g.a.Jmp(asm.Always))
			return nil
		}
	}
	return newError(BadAst, "break outside of a loop or switch")
}

func (c *Continue) compile(g *codeGen) error {
	saved := g.stackOffset
	defer func() { g.stackOffset = saved }()
	for i := len(g.scopeParents) - 1; i >= 1; i-- {
		removed, err := g.deallocateVariables(i)
		if err != nil {
			return err
		}
		g.stackOffset -= removed
		if ct, ok := g.scopeParents[i].(continueTarget); ok {
			ct.recordContinue(g.a.Jmp(asm.Always))
			return nil
		}
	}
	return newError(BadAst, "continue outside of a loop")
}

// Case.compile and Default.compile emit no code of their own: they just
// record where execution would naturally fall to (the position inline in
// the Switch's Body) and register themselves onto the nearest enclosing
// Switch, which is the only node Case/Default interact with — a
// ForLoop/WhileLoop/IfElse/Scope encountered along the way is passed
// through silently.
func (c *Case) compile(g *codeGen) error {
	c.beginLocation = g.a.Here()
	for i := len(g.scopeParents) - 1; i >= 1; i-- {
		if sw, ok := g.scopeParents[i].(*Switch); ok {
			sw.cases = append(sw.cases, c)
			return nil
		}
	}
	return newError(BadAst, "case outside of a switch")
}

func (d *Default) compile(g *codeGen) error {
	d.beginLocation = g.a.Here()
	for i := len(g.scopeParents) - 1; i >= 1; i-- {
		if sw, ok := g.scopeParents[i].(*Switch); ok {
			if sw.defaultCase != nil {
				return newError(BadAst, "switch has more than one default case")
			}
			sw.defaultCase = d
			return nil
		}
	}
	return newError(BadAst, "default outside of a switch")
}

// compileCondition compiles cond and leaves EFLAGS set so that a
// following `Jmp(asm.Equal)` branches exactly when cond's value is zero —
// the boolean test every IfElse/ForLoop/WhileLoop condition shares.
func (g *codeGen) compileCondition(cond Node) error {
	if err := cond.compile(g); err != nil {
		return err
	}
	switch cond.Type() {
	case Int32, Pointer:
		g.a.CmpImmToReg(asm.AX, 0, g.wide() && cond.Type() == Pointer)
	case Double:
		if g.wide() {
			g.a.PushImm32(0)
			g.a.PushImm32(0)
			g.a.MovsdMemToReg(asm.XMM1, asm.SP, 0)
			g.a.AddImmToReg(asm.SP, 8, true)
			g.a.ComisdRegToReg(asm.XMM0, asm.XMM1)
		} else {
			g.a.PushImm32(0)
			g.a.PushImm32(0)
			g.a.Fld(asm.SP, 0)
			g.a.AddImmToReg(asm.SP, 8, false)
			g.a.X87CompareAndPopDoubles()
		}
	default:
		return newError(BadAst, "condition has unsupported type %v", cond.Type())
	}
	return nil
}

func (i *IfElse) compile(g *codeGen) error {
	if err := g.compileCondition(i.Condition); err != nil {
		return err
	}
	toElse := g.a.Jmp(asm.Equal)

	g.incrementScope(i)
	if err := g.compileBody(i.IfBody); err != nil {
		return err
	}
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}
	toEnd := g.a.Jmp(asm.Always)

	g.a.SetJumpDistance(toElse, g.a.Here())
	g.incrementScope(i)
	if err := g.compileBody(i.ElseBody); err != nil {
		return err
	}
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}
	g.a.SetJumpDistance(toEnd, g.a.Here())
	return nil
}

// ForLoop.compile mirrors the original's scope/label layout: the
// initializer lives in its own scope (so a `for (int i = 0; ...)`
// declared variable is deallocated only once the whole loop — not just
// one iteration — finishes), the body is a nested scope re-entered each
// iteration, Continue targets the incrementer step (or, for a step-less
// for, the same backward jump to re-check the condition), and Break
// targets the position right after the condition-false jump, which is
// also where the initializer scope's own deallocation code sits.
func (f *ForLoop) compile(g *codeGen) error {
	g.incrementScope(f)
	if f.Initializer != nil {
		if err := f.Initializer.compile(g); err != nil {
			return err
		}
	}

	preCondition := g.a.Here()
	var conditionJump asm.JumpAnchor
	hasCondition := f.Condition != nil
	if hasCondition {
		if err := g.compileCondition(f.Condition); err != nil {
			return err
		}
		conditionJump = g.a.Jmp(asm.Equal)
	}

	g.incrementScope(f)
	if err := g.compileBody(f.Body); err != nil {
		return err
	}
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}

	preIncrementer := g.a.Here()
	if f.Incrementer != nil {
		if err := f.Incrementer.compile(g); err != nil {
			return err
		}
	}
	g.a.SetJumpDistance(g.a.Jmp(asm.Always), preCondition)

	end := g.a.Here()
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}

	if hasCondition {
		g.a.SetJumpDistance(conditionJump, end)
	}
	for _, c := range f.continues {
		g.a.SetJumpDistance(c, preIncrementer)
	}
	for _, b := range f.breaks {
		g.a.SetJumpDistance(b, end)
	}
	return nil
}

func (w *WhileLoop) compile(g *codeGen) error {
	g.incrementScope(w)
	preCondition := g.a.Here()
	if err := g.compileCondition(w.Condition); err != nil {
		return err
	}
	conditionJump := g.a.Jmp(asm.Equal)

	g.incrementScope(w)
	if err := g.compileBody(w.Body); err != nil {
		return err
	}
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}
	g.a.SetJumpDistance(g.a.Jmp(asm.Always), preCondition)

	end := g.a.Here()
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}

	g.a.SetJumpDistance(conditionJump, end)
	for _, c := range w.continues {
		g.a.SetJumpDistance(c, preCondition)
	}
	for _, b := range w.breaks {
		g.a.SetJumpDistance(b, end)
	}
	return nil
}

// Switch.compile emits the comparison value's scope, then the body
// in its natural source order (Case/Default nodes register themselves as
// labels rather than emitting code, so the body falls through between
// cases exactly like C), then a dispatch table after the body: one
// cmp+je per Case, an optional jmp to Default, patched so entering the
// Switch jumps straight down to this table, compares, and jumps back up
// into the body at the matching label. Falling out of the body's natural
// end (no Break) skips the dispatch table entirely via a second forward
// jump, landing at the same end location Break targets. Local variable
// declarations directly in a Switch's Body are rejected, since the
// initial jump over the body would skip their initialization.
func (s *Switch) compile(g *codeGen) error {
	for _, stmt := range s.Body {
		if _, ok := stmt.(*DeclareLocalVar); ok {
			return newError(BadAst, "cannot declare a local variable directly inside a switch body")
		}
	}

	g.incrementScope(s)
	if err := s.ValueToCompare.compile(g); err != nil {
		return err
	}
	if err := g.castIfNecessary(Int32, s.ValueToCompare.Type()); err != nil {
		return err
	}
	toDispatch := g.a.Jmp(asm.Always)

	if err := g.compileBody(s.Body); err != nil {
		return err
	}
	end := g.a.Here()
	if err := g.deallocateVariablesAndDecrementScope(); err != nil {
		return err
	}
	skipDispatch := g.a.Jmp(asm.Always)

	dispatchStart := g.a.Here()
	g.a.SetJumpDistance(toDispatch, dispatchStart)
	for _, c := range s.cases {
		g.a.CmpImmToReg(asm.AX, c.CompareValue, false)
		g.a.SetJumpDistance(g.a.Jmp(asm.Equal), c.beginLocation)
	}
	if s.defaultCase != nil {
		g.a.SetJumpDistance(g.a.Jmp(asm.Always), s.defaultCase.beginLocation)
	}
	g.a.SetJumpDistance(skipDispatch, g.a.Here())

	for _, b := range s.breaks {
		g.a.SetJumpDistance(b, end)
	}
	return nil
}
