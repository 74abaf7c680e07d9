package jit

import "github.com/achristensen07/jitcompiler/asm"

// DataType is the value type tracked for every AST node, mirroring
// Compiler::DataType in the teacher-original AbstractSyntaxTree.h.
type DataType int

const (
	// Undetermined marks a node whose type hasn't been assigned yet; it
	// must never survive into compile() unresolved.
	Undetermined DataType = iota
	// None is the type of a statement that produces no value (Return
	// void, DeclareLocalVar, control-flow statements).
	None
	// Double values live in XMM0 (x86-64) or st(0) (x86).
	Double
	// Int32 values live in EAX/RAX.
	Int32
	// Pointer values live in EAX/RAX, full register width.
	Pointer
	// String values are heap-backed string objects; a pointer to the
	// object (living inline on the stack) is returned in EAX/RAX.
	String
	// CharStar is a raw pointer to NUL-terminated string data, returned
	// in EAX/RAX.
	CharStar
)

func (d DataType) String() string {
	switch d {
	case Undetermined:
		return "Undetermined"
	case None:
		return "None"
	case Double:
		return "Double"
	case Int32:
		return "Int32"
	case Pointer:
		return "Pointer"
	case String:
		return "String"
	case CharStar:
		return "CharStar"
	default:
		return "DataType(?)"
	}
}

// Node is implemented by every AST variant. compile appends machine code
// to gen's buffer for the statement or expression the node represents;
// Type returns the node's result DataType (None for pure statements).
type Node interface {
	compile(gen *codeGen) error
	Type() DataType
}

// typed is embedded by every node to give it a settable DataType without
// repeating the field and its accessor on each variant. The teacher's own
// source does the analogous thing with ASTNode's mutable dataType field.
type typed struct {
	dataType DataType
}

func (t *typed) Type() DataType     { return t.dataType }
func (t *typed) setType(d DataType) { t.dataType = d }

// Literal is a constant Int32, Double, Pointer, or CharStar value. String
// literals are represented as CharStar; the generator pushes their bytes
// onto the stack once per compile() and reuses the address for every
// occurrence (mirroring possibleStringLiterals in the original).
type Literal struct {
	typed
	IntValue    int32
	DoubleValue float64
	PointerValue uintptr
	StringValue string
}

func NewIntLiteral(v int32) *Literal {
	l := &Literal{IntValue: v}
	l.setType(Int32)
	return l
}

func NewDoubleLiteral(v float64) *Literal {
	l := &Literal{DoubleValue: v}
	l.setType(Double)
	return l
}

func NewPointerLiteral(v uintptr) *Literal {
	l := &Literal{PointerValue: v}
	l.setType(Pointer)
	return l
}

func NewCharStarLiteral(v string) *Literal {
	l := &Literal{StringValue: v}
	l.setType(CharStar)
	return l
}

// BinaryOperationType enumerates arithmetic, comparison, bitwise, logical,
// and indexing binary operators, matching
// ASTBinaryOperation::ASTBinaryOperationType.
type BinaryOperationType int

const (
	Invalid BinaryOperationType = iota
	Add
	Subtract
	Multiply
	Divide
	Mod
	Equal
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	LeftBitShift
	RightBitShift
	BitwiseXOr
	BitwiseOr
	BitwiseAnd
	LogicalOr
	LogicalAnd
	Brackets
)

// BinaryOperation is `left <op> right`. Brackets is string indexing:
// left must be String; right is cast to Int32.
type BinaryOperation struct {
	typed
	Left, Right   Node
	OperationType BinaryOperationType
}

func NewBinaryOperation(op BinaryOperationType, left, right Node) *BinaryOperation {
	return &BinaryOperation{Left: left, Right: right, OperationType: op}
}

// UnaryOperationType enumerates Negate (-x), LogicalNot (!x), and
// BitwiseNot (~x).
type UnaryOperationType int

const (
	Negate UnaryOperationType = iota
	LogicalNot
	BitwiseNot
)

// UnaryOperation is `<op> operand`.
type UnaryOperation struct {
	typed
	Operand       Node
	OperationType UnaryOperationType
}

func NewUnaryOperation(op UnaryOperationType, operand Node) *UnaryOperation {
	return &UnaryOperation{Operand: operand, OperationType: op}
}

// Cast forces ValueToCast's result into a different DataType, failing with
// BadCast if the conversion matrix (spec.md §4.5) doesn't allow it.
type Cast struct {
	typed
	ValueToCast Node
}

func NewCast(to DataType, valueToCast Node) *Cast {
	c := &Cast{ValueToCast: valueToCast}
	c.setType(to)
	return c
}

// FunctionCall invokes a native function at a fixed address with the
// target ABI's parameter-passing rules, per spec.md §6.
type FunctionCall struct {
	typed
	FunctionAddress uintptr
	Parameters      []Node
}

func NewFunctionCall(returnType DataType, address uintptr, params ...Node) *FunctionCall {
	f := &FunctionCall{FunctionAddress: address, Parameters: params}
	f.setType(returnType)
	return f
}

// GetLocalVar reads a named local variable or parameter.
type GetLocalVar struct {
	typed
	Name string
}

func NewGetLocalVar(name string) *GetLocalVar {
	return &GetLocalVar{Name: name}
}

// SetLocalVar assigns ValueToSet to an already-declared local or parameter
// and evaluates to the assigned value (so `x = y = 1` chains).
type SetLocalVar struct {
	typed
	Name      string
	ValueToSet Node
}

func NewSetLocalVar(name string, value Node) *SetLocalVar {
	return &SetLocalVar{Name: name, ValueToSet: value}
}

// DeclareLocalVar introduces a new name into the current scope, reserving
// stack space for it and optionally initializing it. Its own Type is
// always None; VarType is the declared variable's type.
type DeclareLocalVar struct {
	typed
	Name         string
	VarType      DataType
	InitialValue Node // optional
}

func NewDeclareLocalVar(varType DataType, name string, initialValue Node) *DeclareLocalVar {
	d := &DeclareLocalVar{Name: name, VarType: varType, InitialValue: initialValue}
	d.setType(None)
	return d
}

// Return ends the enclosing function. ReturnValue is nil when ReturnType
// is None.
type Return struct {
	typed
	ReturnValue Node
	ReturnType  DataType
}

func NewReturn(returnType DataType, value Node) *Return {
	r := &Return{ReturnValue: value, ReturnType: returnType}
	r.setType(returnType)
	return r
}

// IfElse runs IfBody when Condition is non-zero, otherwise ElseBody (which
// may be empty).
type IfElse struct {
	typed
	Condition        Node
	IfBody, ElseBody []Node
}

func NewIfElse(condition Node, ifBody, elseBody []Node) *IfElse {
	i := &IfElse{Condition: condition, IfBody: ifBody, ElseBody: elseBody}
	i.setType(None)
	return i
}

// ForLoop is `for (Initializer; Condition; Incrementer) { Body }`; any of
// Initializer, Condition, Incrementer may be nil.
type ForLoop struct {
	typed
	Initializer, Condition, Incrementer Node
	Body                                []Node

	breaks    []asm.JumpAnchor
	continues []asm.JumpAnchor
}

func NewForLoop(initializer, condition, incrementer Node, body []Node) *ForLoop {
	f := &ForLoop{Initializer: initializer, Condition: condition, Incrementer: incrementer, Body: body}
	f.setType(None)
	return f
}

// WhileLoop is `while (Condition) { Body }`.
type WhileLoop struct {
	typed
	Condition Node
	Body      []Node

	breaks    []asm.JumpAnchor
	continues []asm.JumpAnchor
}

func NewWhileLoop(condition Node, body []Node) *WhileLoop {
	w := &WhileLoop{Condition: condition, Body: body}
	w.setType(None)
	return w
}

// Switch is `switch (ValueToCompare) { Body }`, where Body is a flat
// statement list containing Case/Default markers and falls through between
// them exactly like C's switch.
type Switch struct {
	typed
	ValueToCompare Node
	Body           []Node

	cases       []*Case
	defaultCase *Default
	breaks      []asm.JumpAnchor
}

func NewSwitch(valueToCompare Node, body []Node) *Switch {
	s := &Switch{ValueToCompare: valueToCompare, Body: body}
	s.setType(None)
	return s
}

// Case marks a branch target inside an enclosing Switch's Body.
type Case struct {
	typed
	CompareValue int32

	beginLocation uint32
}

func NewCase(compareValue int32) *Case {
	c := &Case{CompareValue: compareValue}
	c.setType(None)
	return c
}

// Default marks the fallback branch target inside an enclosing Switch's
// Body.
type Default struct {
	typed

	beginLocation uint32
}

func NewDefault() *Default {
	d := &Default{}
	d.setType(None)
	return d
}

// Break jumps past the end of the nearest enclosing ForLoop, WhileLoop, or
// Switch.
type Break struct {
	typed
}

func NewBreak() *Break {
	b := &Break{}
	b.setType(None)
	return b
}

// Continue jumps to the nearest enclosing ForLoop or WhileLoop's
// re-check/increment step.
type Continue struct {
	typed
}

func NewContinue() *Continue {
	c := &Continue{}
	c.setType(None)
	return c
}

// Scope introduces a nested block: Body's locals are deallocated when
// control leaves it, even though it has no condition of its own.
type Scope struct {
	typed
	Body []Node
}

func NewScope(body []Node) *Scope {
	s := &Scope{Body: body}
	s.setType(None)
	return s
}

// Parameter describes one entry in a FunctionRecord's parameter list: its
// declared type and the name it's bound to inside the function body.
type Parameter struct {
	Type DataType
	Name string
}

// FunctionRecord is one compilation unit: a parameter list and a statement
// body, compiled by Compile into a single native function appended to an
// *asm.ExecutableBuffer.
type FunctionRecord struct {
	Parameters []Parameter
	ReturnType DataType
	Body       []Node
}
