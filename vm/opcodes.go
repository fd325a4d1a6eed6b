package vm

import "fmt"

type Opcode uint8

func (Opcode) isCell() {}

const (
	// PRE-STACK ... TOS+1 TOS | OP | POST-STACK
	CALL Opcode = iota // A1 .. An n Fn | Fn(A1 .. An) | R

	FADD // A B | C = A + B | C
	FSUB // A B | C = A - B | C
	FMUL // A B | C = A * B | C
	FDIV // A B | C = A / B | C, B == 0 is an error
	FPOW // A B | C = A ** B | C

	SCONCAT // A B | C = A . B | C

	UMINUS // A | B = -A | B, FLOAT or INT; INT wraps, so -MinInt64 is MinInt64
	UPLUS  // A | | A

	FEQ // A B | C = A == B | C (floats)
	FNE
	FGT
	FLT
	FGE
	FLE

	SEQ // A B | C = A == B | C (strings)
	SNE
	SGT
	SLT
	SGE
	SLE

	BEQ // A B | C = A == B | C (booleans, false < true)
	BNE
	BGT
	BLT
	BGE
	BLE

	AREF  // name | lookup(name) | V
	AREF2 // default name | lookup(name) or default | V

	FCONVI // int | float(int) | f
	FCONVB // bool | 1.0 or 0.0 | f
	FCONVS // str | parse(str) | f
	SCONVF // float | text(float) | s
	SCONVI // int | text(int) | s
	SCONVB // bool | sentinel | s

	OpcodeMax
)

func (o Opcode) String() string {
	switch o {
	case CALL:
		return "CALL"
	case FADD:
		return "FADD"
	case FSUB:
		return "FSUB"
	case FMUL:
		return "FMUL"
	case FDIV:
		return "FDIV"
	case FPOW:
		return "FPOW"
	case SCONCAT:
		return "SCONCAT"
	case UMINUS:
		return "UMINUS"
	case UPLUS:
		return "UPLUS"
	case FEQ:
		return "FEQ"
	case FNE:
		return "FNE"
	case FGT:
		return "FGT"
	case FLT:
		return "FLT"
	case FGE:
		return "FGE"
	case FLE:
		return "FLE"
	case SEQ:
		return "SEQ"
	case SNE:
		return "SNE"
	case SGT:
		return "SGT"
	case SLT:
		return "SLT"
	case SGE:
		return "SGE"
	case SLE:
		return "SLE"
	case BEQ:
		return "BEQ"
	case BNE:
		return "BNE"
	case BGT:
		return "BGT"
	case BLT:
		return "BLT"
	case BGE:
		return "BGE"
	case BLE:
		return "BLE"
	case AREF:
		return "AREF"
	case AREF2:
		return "AREF2"
	case FCONVI:
		return "FCONVI"
	case FCONVB:
		return "FCONVB"
	case FCONVS:
		return "FCONVS"
	case SCONVF:
		return "SCONVF"
	case SCONVI:
		return "SCONVI"
	case SCONVB:
		return "SCONVB"
	}
	return fmt.Sprintf("Opcode(%d)", uint8(o))
}

// Valid reports whether o is a member of the opcode table.
func (o Opcode) Valid() bool {
	return o < OpcodeMax
}

// ParseOpcode looks an opcode up by its mnemonic.
func ParseOpcode(s string) (Opcode, bool) {
	for o := Opcode(0); o < OpcodeMax; o++ {
		if o.String() == s {
			return o, true
		}
	}
	return 0, false
}
