package vm

// Instruction is one assembled (opcode, argument) pair. HasArg records
// whether the source line carried an argument token; it is purely syntactic
// and independent of whether the opcode uses one.
type Instruction struct {
	Op     Opcode
	Arg    int64
	HasArg bool
}

// Program is an ordered instruction sequence, indexed by the pc.
// Immutable during execution.
type Program []Instruction
