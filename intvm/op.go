package intvm

import "fmt"

// Op represents an opcode: the lowest two decimal digits of an
// instruction.
type Op int64

const (
	Add       Op = 1
	Mul       Op = 2
	In        Op = 3
	Out       Op = 4
	JumpTrue  Op = 5
	JumpFalse Op = 6
	LessThan  Op = 7
	Equals    Op = 8
	RelBase   Op = 9
	Halt      Op = 99
)

func (op Op) String() string {
	if s, ok := map[Op]string{
		Add:       "ADD",
		Mul:       "MUL",
		In:        "IN",
		Out:       "OUT",
		JumpTrue:  "JNZ",
		JumpFalse: "JZ",
		LessThan:  "LT",
		Equals:    "EQ",
		RelBase:   "RB",
		Halt:      "HLT",
	}[op]; ok {
		return s
	}
	return fmt.Sprintf("op%d", int64(op))
}
