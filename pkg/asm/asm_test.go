package asm_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/agenthands/stackvm/pkg/asm"
	"github.com/agenthands/stackvm/pkg/vm"
)

func TestAssemble(t *testing.T) {
	prog, err := asm.Assemble("LOAD_CONST 432\nLOAD_CONST 905\nADD\nEXIT\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	want := vm.Program{
		{Op: vm.OP_LOAD_CONST, Arg: 432, HasArg: true},
		{Op: vm.OP_LOAD_CONST, Arg: 905, HasArg: true},
		{Op: vm.OP_ADD},
		{Op: vm.OP_EXIT},
	}
	if !reflect.DeepEqual(prog, want) {
		t.Errorf("expected %v, got %v", want, prog)
	}
}

func TestAssembleSkipsBlankLines(t *testing.T) {
	prog, err := asm.Assemble("\nLOAD_CONST 1\n\n   \nEXIT\n\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(prog) != 2 {
		t.Errorf("expected 2 instructions, got %d", len(prog))
	}
}

func TestAssembleNegativeArgument(t *testing.T) {
	prog, err := asm.Assemble("LOAD_CONST -17\nEXIT")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if prog[0].Arg != -17 || !prog[0].HasArg {
		t.Errorf("expected arg -17, got %+v", prog[0])
	}
}

func TestAssembleUnknownMnemonic(t *testing.T) {
	prog, err := asm.Assemble("LOAD_CONST 1\nBOGUS\nEXIT")
	if !errors.Is(err, asm.ErrInvalidInstruction) {
		t.Errorf("expected ErrInvalidInstruction, got %v", err)
	}
	if prog != nil {
		t.Errorf("expected no partial program, got %v", prog)
	}
}

func TestAssembleTooManyTokens(t *testing.T) {
	_, err := asm.Assemble("LOAD_CONST 1 2")
	if !errors.Is(err, asm.ErrInvalidInstruction) {
		t.Errorf("expected ErrInvalidInstruction, got %v", err)
	}
}

func TestAssembleBadArgument(t *testing.T) {
	_, err := asm.Assemble("LOAD_CONST abc")
	if !errors.Is(err, asm.ErrInvalidInstruction) {
		t.Errorf("expected ErrInvalidInstruction, got %v", err)
	}
}

func TestAssembleArgumentIsSyntactic(t *testing.T) {
	// An argument on an opcode that ignores it still assembles.
	prog, err := asm.Assemble("LOAD_CONST 1\nADD 5\nEXIT")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !prog[1].HasArg || prog[1].Arg != 5 {
		t.Errorf("expected syntactic argument on ADD, got %+v", prog[1])
	}
}

func TestAssembleIdempotent(t *testing.T) {
	src := "LOAD_CONST 65\nWRITE_CHAR\nEXIT"
	first, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	second, err := asm.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected structurally equal programs, got %v and %v", first, second)
	}
}

func TestAssembleIsSideEffectFree(t *testing.T) {
	m := &vm.Machine{}
	if _, err := asm.Assemble("LOAD_CONST 65\nWRITE_CHAR\nEXIT"); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(m.Stack) != 0 || m.PC != 0 || m.Output() != "" {
		t.Errorf("assembly mutated machine state: %+v", m)
	}
}
