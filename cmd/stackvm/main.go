package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"

	"github.com/agenthands/stackvm/pkg/asm"
	"github.com/agenthands/stackvm/pkg/manifest"
	"github.com/agenthands/stackvm/pkg/vm"

	_ "github.com/tliron/commonlog/simple"
)

// The two demonstration programs.
const demoProgram = "LOAD_CONST 432\n" +
	"LOAD_CONST 905\n" +
	"ADD\n" +
	"PRINT\n" +
	"LOAD_CONST 65\n" +
	"WRITE_CHAR\n" +
	"EXIT\n"

const demoDivide = "LOAD_CONST 100\n" +
	"LOAD_CONST 0\n" +
	"DIV\n" +
	"EXIT"

func main() {
	verbosity := flag.Int("v", 0, "Log verbosity")
	flag.Parse()
	commonlog.Configure(*verbosity, nil)

	args := flag.Args()
	switch {
	case len(args) == 0:
		// Demonstration mode.
		runText(demoProgram)
		runText(demoDivide)

	case args[0] == "run" && len(args) == 2:
		src, err := os.ReadFile(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
			os.Exit(1)
		}
		os.Exit(runText(string(src)))

	case args[0] == "suite" && len(args) == 2:
		os.Exit(runSuite(args[1]))

	default:
		fmt.Println("Usage: stackvm [-v N] [run <source.svm> | suite <dir>]")
		os.Exit(1)
	}
}

// runText assembles and runs one program, reporting the result or the fault.
func runText(src string) int {
	prog, err := asm.Assemble(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error: %v\n", err)
		return 1
	}

	m := &vm.Machine{}
	top, output, err := m.Run(prog)
	if err != nil {
		reportFault(m, err)
		return 1
	}

	fmt.Printf("Top: %d, output: %s\n", top, output)
	return 0
}

// reportFault presents a runtime fault, distinguishing the kinds callers
// care about.
func reportFault(m *vm.Machine, err error) {
	if errors.Is(err, vm.ErrSegfault) {
		fmt.Fprintf(os.Stderr, "%v\nTried to access invalid memory at pc = %d\n", err, m.PC)
		return
	}
	fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
}

// runSuite loads a stackvm.toml from dir and runs every listed program,
// checking expectations where the manifest declares them.
func runSuite(dir string) int {
	mf, err := manifest.Load(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Manifest error: %v\n", err)
		return 1
	}

	failed := 0
	for _, p := range mf.Programs {
		src, err := os.ReadFile(mf.SourcePath(p))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", p.Name, err)
			failed++
			continue
		}

		prog, err := asm.Assemble(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", p.Name, err)
			failed++
			continue
		}

		m := &vm.Machine{}
		top, output, err := m.Run(prog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", p.Name, err)
			failed++
			continue
		}

		if p.ExpectTop != nil && top != *p.ExpectTop {
			fmt.Fprintf(os.Stderr, "FAIL %s: top = %d, want %d\n", p.Name, top, *p.ExpectTop)
			failed++
			continue
		}
		if p.ExpectOutput != nil && output != *p.ExpectOutput {
			fmt.Fprintf(os.Stderr, "FAIL %s: output = %q, want %q\n", p.Name, output, *p.ExpectOutput)
			failed++
			continue
		}

		fmt.Printf("ok   %s (top: %d, output: %q)\n", p.Name, top, output)
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d programs failed\n", failed, len(mf.Programs))
		return 1
	}
	return 0
}
