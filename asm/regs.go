package asm

// IntReg is a general-purpose integer/pointer register. Encodings match
// x86's 3-bit ModR/M register field with the x86-64 REX extension bit
// folded into values 8-15, mirroring x86.h's IntRegister enum.
type IntReg uint8

const (
	AX IntReg = iota // accumulator
	CX               // counter
	DX               // data (cdq and idiv change values in this register)
	BX               // base (callee saved)
	SP               // stack pointer, not general purpose
	BP               // base pointer, not general purpose
	SI               // source index (callee saved)
	DI               // destination index (callee saved)
	R8               // extended registers below are x86-64 only
	R9
	R10
	R11
	R12 // callee saved
	R13 // callee saved
	R14 // callee saved
	R15 // callee saved
)

// low3 is the ModR/M/opcode-embedded register field: encoding mod 8.
func (r IntReg) low3() uint8 { return uint8(r) & 7 }

// needsRex reports whether referencing r requires a REX prefix (it is one
// of the extended registers r8-r15, only valid on x86-64).
func (r IntReg) needsRex() bool { return r >= R8 }

var intRegNames = [...]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
	"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}

func (r IntReg) String() string {
	if int(r) < len(intRegNames) {
		return intRegNames[r]
	}
	return "ax?"
}

// XMMReg is an SSE double-precision register, x86-64 only.
type XMMReg uint8

const (
	XMM0 XMMReg = iota
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
	XMM8
	XMM9
	XMM10
	XMM11
	XMM12
	XMM13
	XMM14
	XMM15
)

func (r XMMReg) low3() uint8    { return uint8(r) & 7 }
func (r XMMReg) needsRex() bool { return r >= XMM8 }

func (r XMMReg) String() string {
	if r < 10 {
		return "xmm" + string(rune('0'+r))
	}
	return "xmm1" + string(rune('0'+(r-10)))
}

// Condition selects the branch/compare condition byte for Jcc. Values
// match the Intel condition-code nibble used after the 0x0F two-byte jcc
// escape, per x86.h.
type Condition uint8

const (
	Always Condition = 0xFF // sentinel: unconditional jmp, not a real cc

	Below           Condition = 0x82
	AboveOrEqual    Condition = 0x83
	NotBelow        Condition = 0x83
	BelowOrEqual    Condition = 0x86
	Above           Condition = 0x87
	NotBelowOrEqual Condition = 0x87

	Zero    Condition = 0x84
	Equal   Condition = 0x84
	NonZero Condition = 0x85
	NotEqual Condition = 0x85

	LessThan           Condition = 0x8C
	GreaterThanOrEqual Condition = 0x8D
	LessThanOrEqual    Condition = 0x8E
	GreaterThan        Condition = 0x8F
)

func (c Condition) String() string {
	switch c {
	case Always:
		return "always"
	case Below:
		return "b"
	case AboveOrEqual:
		return "ae"
	case BelowOrEqual:
		return "be"
	case Above:
		return "a"
	case Zero:
		return "z"
	case NonZero:
		return "nz"
	case LessThan:
		return "l"
	case GreaterThanOrEqual:
		return "ge"
	case LessThanOrEqual:
		return "le"
	case GreaterThan:
		return "g"
	default:
		return "?"
	}
}
