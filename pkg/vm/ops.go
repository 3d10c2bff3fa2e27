package vm

// Opcode identifies one instruction kind. Ids are dense, starting at zero,
// assigned in registration order. Mnemonics are resolved to ids during
// assembly only; the run loop dispatches on the id and never touches strings.
type Opcode uint8

const (
	OP_PRINT Opcode = iota
	OP_LOAD_CONST
	OP_ADD
	OP_EXIT
	OP_POP
	OP_DIV
	OP_EQ
	OP_NEQ
	OP_DUP
	OP_JMP
	OP_JMPZ
	OP_WRITE
	OP_WRITE_CHAR

	opCount
)

var opcodeNames = [opCount]string{
	OP_PRINT:      "PRINT",
	OP_LOAD_CONST: "LOAD_CONST",
	OP_ADD:        "ADD",
	OP_EXIT:       "EXIT",
	OP_POP:        "POP",
	OP_DIV:        "DIV",
	OP_EQ:         "EQ",
	OP_NEQ:        "NEQ",
	OP_DUP:        "DUP",
	OP_JMP:        "JMP",
	OP_JMPZ:       "JMPZ",
	OP_WRITE:      "WRITE",
	OP_WRITE_CHAR: "WRITE_CHAR",
}

var opcodeByName = make(map[string]Opcode, opCount)

func init() {
	for op, name := range opcodeNames {
		opcodeByName[name] = Opcode(op)
	}
}

// ByName resolves a mnemonic to its opcode id.
func ByName(name string) (Opcode, bool) {
	op, ok := opcodeByName[name]
	return op, ok
}

func (op Opcode) String() string {
	if op < opCount {
		return opcodeNames[op]
	}
	return "INVALID"
}
