// Package asm converts textual programs into executable stackvm instructions.
//
// The format is one instruction per line: a mnemonic plus an optional integer
// argument separated by a single space. Blank lines are skipped.
package asm

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/agenthands/stackvm/pkg/vm"
)

var ErrInvalidInstruction = errors.New("asm: invalid instruction")

// Assemble converts program text into an executable Program. Assembly is
// pure: no machine state is touched, and no partial program is returned on
// failure.
func Assemble(src string) (vm.Program, error) {
	var prog vm.Program

	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// words[0] -> mnemonic, words[1] -> argument
		words := strings.Split(line, " ")
		if len(words) >= 3 {
			return nil, fmt.Errorf("%w: more than one argument: %q", ErrInvalidInstruction, line)
		}

		op, ok := vm.ByName(words[0])
		if !ok {
			return nil, fmt.Errorf("%w: unknown mnemonic %q", ErrInvalidInstruction, words[0])
		}

		instr := vm.Instruction{Op: op}
		if len(words) == 2 {
			arg, err := strconv.ParseInt(words[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad argument %q for %s", ErrInvalidInstruction, words[1], op)
			}
			instr.Arg = arg
			instr.HasArg = true
		}
		prog = append(prog, instr)
	}

	return prog, nil
}
