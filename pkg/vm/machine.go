package vm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tliron/commonlog"
)

var (
	ErrStackUnderflow   = errors.New("vm: not enough operands on the stack")
	ErrSegfault         = errors.New("vm: invalid pc")
	ErrDivideByZero     = errors.New("vm: divide by zero")
	ErrInvalidCharacter = errors.New("vm: invalid character code")
	ErrUnknownOpcode    = errors.New("vm: unknown opcode")
)

var log = commonlog.GetLogger("stackvm.vm")

// Machine owns the execution state for a single program run: the operand
// stack, the program counter and the output buffer. State is not reset
// between runs; reuse a machine only after Reset.
type Machine struct {
	Stack []int64
	PC    int

	out strings.Builder
}

// Reset clears the machine state for reuse.
func (m *Machine) Reset() {
	m.Stack = m.Stack[:0]
	m.PC = 0
	m.out.Reset()
}

// Push adds a value on top of the operand stack.
func (m *Machine) Push(v int64) {
	m.Stack = append(m.Stack, v)
}

// Pop removes and returns the top value. The caller must have verified the
// stack depth first.
func (m *Machine) Pop() int64 {
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v
}

func (m *Machine) top() int64 {
	return m.Stack[len(m.Stack)-1]
}

// Output returns the text accumulated by WRITE and WRITE_CHAR so far.
func (m *Machine) Output() string {
	return m.out.String()
}

// need verifies the stack holds at least n operands before an opcode runs.
func (m *Machine) need(op Opcode, n int) error {
	if len(m.Stack) < n {
		return fmt.Errorf("%w: %s needs %d operands, have %d", ErrStackUnderflow, op, n, len(m.Stack))
	}
	return nil
}

// Run executes the program until EXIT or a fault, returning the final
// top-of-stack value and the accumulated output.
func (m *Machine) Run(prog Program) (int64, string, error) {
	for {
		if m.PC < 0 || m.PC >= len(prog) {
			return 0, "", fmt.Errorf("%w: pc=%d", ErrSegfault, m.PC)
		}

		instr := prog[m.PC]

		// Advance first so jump opcodes overwrite the fall-through target.
		m.PC++

		cont, err := m.step(instr)
		if err != nil {
			return 0, "", err
		}
		if !cont {
			break
		}
	}

	if len(m.Stack) == 0 {
		return 0, "", fmt.Errorf("%w: empty stack at exit", ErrStackUnderflow)
	}
	return m.top(), m.out.String(), nil
}

// step executes one decoded instruction and reports whether to keep looping.
func (m *Machine) step(instr Instruction) (bool, error) {
	op, arg := instr.Op, instr.Arg

	switch op {
	case OP_PRINT:
		// ( a -- a ) diagnostic side channel, not part of the output buffer
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		log.Infof("%d", m.top())

	case OP_LOAD_CONST:
		// ( -- n )
		m.Push(arg)

	case OP_ADD:
		// ( a b -- a+b )
		if err := m.need(op, 2); err != nil {
			return false, err
		}
		tos := m.Pop()
		m.Push(m.Pop() + tos)

	case OP_EXIT:
		return false, nil

	case OP_POP:
		// ( a -- )
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		m.Pop()

	case OP_DIV:
		// ( a b -- a/b ) floored quotient, b on top is the divisor
		if err := m.need(op, 2); err != nil {
			return false, err
		}
		divisor := m.Pop()
		dividend := m.Pop()
		if divisor == 0 {
			return false, fmt.Errorf("%w: %d / 0", ErrDivideByZero, dividend)
		}
		m.Push(floorDiv(dividend, divisor))

	case OP_EQ:
		// ( a b -- a==b )
		if err := m.need(op, 2); err != nil {
			return false, err
		}
		if m.Pop() == m.Pop() {
			m.Push(1)
		} else {
			m.Push(0)
		}

	case OP_NEQ:
		// ( a b -- a!=b ) same pop order as EQ, inverted result
		if err := m.need(op, 2); err != nil {
			return false, err
		}
		if m.Pop() == m.Pop() {
			m.Push(0)
		} else {
			m.Push(1)
		}

	case OP_DUP:
		// ( a -- a a )
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		m.Push(m.top())

	case OP_JMP:
		m.PC = int(arg)

	case OP_JMPZ:
		// pops and jumps only when the top is zero
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		if m.top() == 0 {
			m.Pop()
			m.PC = int(arg)
		}

	case OP_WRITE:
		// ( a -- a )
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		m.out.WriteString(strconv.FormatInt(m.top(), 10))

	case OP_WRITE_CHAR:
		// ( a -- a )
		if err := m.need(op, 1); err != nil {
			return false, err
		}
		v := m.top()
		if v < 0 || v > utf8.MaxRune || !utf8.ValidRune(rune(v)) {
			return false, fmt.Errorf("%w: %d", ErrInvalidCharacter, v)
		}
		m.out.WriteRune(rune(v))

	default:
		return false, fmt.Errorf("%w: %d", ErrUnknownOpcode, op)
	}

	return true, nil
}

// floorDiv divides rounding toward negative infinity, where Go's operator
// truncates toward zero.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
