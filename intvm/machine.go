// Package intvm provides an implementation of the cabinet program
// interpreter, called Machine, that can be used to execute programs
// encoded as a flat array of integers.
package intvm

import "fmt"

// Machine executes a program over a mutable int64 memory buffer.
// Memory cells, addresses, coordinates, and scores are all int64;
// arithmetic wraps on overflow and is deliberately unchecked.
//
// A Machine is single-use: it is constructed from a loaded program,
// driven by repeated Run calls, and discarded once terminal.
type Machine struct {
	Mem []int64
	PC  int

	relBase int64

	inputs  []int64
	inPos   int
	outputs []int64
	outPos  int

	status Status
}

// DefaultScratch is the number of zeroed cells appended beyond the
// loaded program to serve as extra memory.
const DefaultScratch = 1000

// NewMachine returns a Machine loaded with the given program followed
// by DefaultScratch cells of scratch memory.
func NewMachine(program []int64) *Machine {
	return NewMachineScratch(program, DefaultScratch)
}

// NewMachineScratch is like NewMachine but with an explicit scratch
// size, so tests can run with a small memory extension.
func NewMachineScratch(program []int64, scratch int) *Machine {
	mem := make([]int64, len(program)+scratch)
	copy(mem, program)
	return &Machine{Mem: mem}
}

// AddInput appends v to the machine's pending inputs. Inputs may be
// added at any time, including while the machine is blocked; consumed
// inputs are never re-read.
func (m *Machine) AddInput(v int64) {
	m.inputs = append(m.inputs, v)
}

// AddInputs appends each value in vs to the machine's pending inputs.
func (m *Machine) AddInputs(vs ...int64) {
	m.inputs = append(m.inputs, vs...)
}

// Drain returns the outputs produced since the previous call to Drain.
// A drained output is never returned again.
func (m *Machine) Drain() []int64 {
	out := m.outputs[m.outPos:]
	m.outPos = len(m.outputs)
	return out
}

// Status reports the machine's execution state.
func (m *Machine) Status() Status {
	return m.status
}

// Run executes instructions starting at the current program counter
// until the machine blocks awaiting input, halts, or decodes an
// unrecognized opcode; inspect Status afterward to distinguish these.
// Calling Run when the status is already Finished or InvalidOpcode is
// a no-op.
//
// A non-nil error is always a FaultError and means the program is
// defective (bad addressing mode or out-of-bounds access); a faulted
// machine must be discarded.
//
// Run blocks for as long as the program executes without halting or
// requesting input. Liveness is a precondition on the program, not a
// property the interpreter enforces; there is no cancellation.
func (m *Machine) Run() (err error) {
	if m.status.Halted() {
		return nil
	}
	m.status = Status{Kind: Runnable}

	var (
		op   Op
		opPC int
	)
	defer func() {
		if e := recover(); e != nil {
			if f, ok := e.(Fault); ok {
				err = FaultError{Fault: f, Op: op, Addr: opPC}
			} else {
				panic(e)
			}
		}
	}()

	for {
		opPC = m.PC
		op = Op(m.at(opPC) % 100)

		switch op {
		case Add:
			m.write(2, m.read(0)+m.read(1))
			m.PC += 4
		case Mul:
			m.write(2, m.read(0)*m.read(1))
			m.PC += 4
		case In:
			if m.inPos == len(m.inputs) {
				// Leave PC on this instruction so it is
				// re-attempted on the next Run.
				m.status = Status{Kind: Blocked}
				return nil
			}
			m.write(0, m.inputs[m.inPos])
			m.inPos++
			m.PC += 2
		case Out:
			m.outputs = append(m.outputs, m.read(0))
			m.PC += 2
		case JumpTrue:
			if m.read(0) != 0 {
				m.PC = int(m.read(1))
			} else {
				m.PC += 3
			}
		case JumpFalse:
			if m.read(0) == 0 {
				m.PC = int(m.read(1))
			} else {
				m.PC += 3
			}
		case LessThan:
			m.writeBool(2, m.read(0) < m.read(1))
			m.PC += 4
		case Equals:
			m.writeBool(2, m.read(0) == m.read(1))
			m.PC += 4
		case RelBase:
			m.relBase += m.read(0)
			m.PC += 2
		case Halt:
			m.status = Status{Kind: Finished}
			return nil
		default:
			m.status = Status{Kind: InvalidOpcode, Op: op}
			return nil
		}
	}
}

// addr resolves the memory address of operand k of the instruction at
// PC. Resolution is pure: the address is computed and then indexed by
// the caller, so no alias into Mem escapes. Immediate mode resolves to
// the operand's own position and is rejected for write targets.
func (m *Machine) addr(k int, write bool) int {
	pos := m.PC + 1 + k
	switch modeDigit(m.at(m.PC), k) {
	case 0:
		return int(m.at(pos))
	case 1:
		if write {
			panic(BadMode)
		}
		return pos
	case 2:
		return int(m.relBase + m.at(pos))
	default:
		panic(BadMode)
	}
}

// modeDigit extracts the addressing mode of operand k from a raw
// instruction: the digits above the two-digit opcode, read
// right-to-left.
func modeDigit(instr int64, k int) int64 {
	mode := instr / 100
	for ; k > 0; k-- {
		mode /= 10
	}
	return mode % 10
}

func (m *Machine) read(k int) int64 {
	return m.at(m.addr(k, false))
}

func (m *Machine) write(k int, v int64) {
	m.set(m.addr(k, true), v)
}

func (m *Machine) writeBool(k int, b bool) {
	if b {
		m.write(k, 1)
	} else {
		m.write(k, 0)
	}
}

func (m *Machine) at(i int) int64 {
	if i < 0 || i >= len(m.Mem) {
		panic(OutOfBounds)
	}
	return m.Mem[i]
}

func (m *Machine) set(i int, v int64) {
	if i < 0 || i >= len(m.Mem) {
		panic(OutOfBounds)
	}
	m.Mem[i] = v
}

// StatusKind enumerates the execution states of a Machine.
type StatusKind int

const (
	Runnable StatusKind = iota
	Blocked
	Finished
	InvalidOpcode
)

// Status describes the execution state of a Machine. Op carries the
// offending opcode when Kind is InvalidOpcode.
type Status struct {
	Kind StatusKind
	Op   Op
}

// Halted reports whether the machine is terminal: no further
// instruction will ever execute.
func (s Status) Halted() bool {
	return s.Kind == Finished || s.Kind == InvalidOpcode
}

func (s Status) String() string {
	switch s.Kind {
	case Runnable:
		return "runnable"
	case Blocked:
		return "blocked"
	case Finished:
		return "finished"
	case InvalidOpcode:
		return fmt.Sprintf("invalid opcode %d", int64(s.Op))
	}
	return fmt.Sprintf("unknown status %d", int(s.Kind))
}

// Fault signifies an unrecoverable execution fault: a defect in the
// program or an under-sized memory extension, never a normal outcome.
type Fault byte

const (
	BadMode     Fault = 0x00
	OutOfBounds Fault = 0x01
)

func (f Fault) String() string {
	if s, ok := map[Fault]string{
		BadMode:     "bad addressing mode",
		OutOfBounds: "memory access out of bounds",
	}[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown fault (%.2x)", byte(f))
}

// FaultError is returned by Run if execution hits a fault.
type FaultError struct {
	Fault Fault
	Op    Op
	Addr  int
}

func (e FaultError) Error() string {
	return fmt.Sprintf("%s executing %s at %d", e.Fault, e.Op, e.Addr)
}
