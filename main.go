// anac compiles source-language programs into bytecode and runs them in a
// stack-based virtual machine.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/anaclang/anac/analyzer"
	"github.com/anaclang/anac/bytecode"
	"github.com/anaclang/anac/codegen"
	"github.com/anaclang/anac/lexer"
	"github.com/anaclang/anac/parser"
	"github.com/anaclang/anac/repl"
	"github.com/anaclang/anac/vm"
)

const version = "0.1.0"

// printUsage displays custom usage information.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `anac v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    anac compiles source-language programs into bytecode and runs them in a
    stack-based virtual machine. Without any flags, it starts an
    interactive REPL (Read-Eval-Print-Loop).

OPTIONS:
    -f, --file <path>          Compile and run a source file
    -e, --eval <code>          Compile and run a snippet of source text
    -b, --bytecode <path>      Write the compiled bytecode to <path> instead of running it
    -r, --run-bytecode <path>  Load and run a previously compiled bytecode file
    -d, --debug                Enable verbose trap diagnostics
    -v, --version               Show version information
    -h, --help                  Show this help message

EXAMPLES:
    # Start interactive REPL
    %s

    # Compile and run a script file
    %s -f program.anac

    # Compile a script to bytecode without running it
    %s -f program.anac -b program.tkbc

    # Run a previously compiled bytecode file
    %s -r program.tkbc

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Compile and run a source file")
	evalFlag := flag.String("eval", "", "Compile and run a snippet of source text")
	bytecodeFlag := flag.String("bytecode", "", "Write compiled bytecode to this path instead of running it")
	runBytecodeFlag := flag.String("run-bytecode", "", "Load and run a previously compiled bytecode file")
	debugFlag := flag.Bool("debug", false, "Enable verbose trap diagnostics")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Compile and run a source file")
	flag.StringVar(evalFlag, "e", "", "Compile and run a snippet of source text")
	flag.StringVar(bytecodeFlag, "b", "", "Write compiled bytecode to this path instead of running it")
	flag.StringVar(runBytecodeFlag, "r", "", "Load and run a previously compiled bytecode file")
	flag.BoolVar(debugFlag, "d", false, "Enable verbose trap diagnostics")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("anac v%s\n", version)
		return
	}

	if *runBytecodeFlag != "" {
		runBytecodeFile(*runBytecodeFlag, *debugFlag)
		return
	}

	if *fileFlag != "" {
		source, err := readFile(*fileFlag)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		runSource(source, *debugFlag, *bytecodeFlag)
		return
	}

	if *evalFlag != "" {
		runSource(*evalFlag, *debugFlag, *bytecodeFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	if err := repl.Start(username, repl.Options{Debug: *debugFlag}); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func readFile(filename string) (string, error) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	//nolint:gosec // the path comes from a command-line flag, not untrusted input
	content, err := os.ReadFile(absolute)
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}
	return string(content), nil
}

// runSource drives the full pipeline: lex, parse, analyze, generate, then
// either persist the bytecode (bytecodePath != "") or run it.
func runSource(source string, debug bool, bytecodePath string) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		printErrors("Parse errors:", errs)
		os.Exit(1)
	}

	result := analyzer.New().Analyze(program)
	if !result.Success() {
		printDiagnostics("Semantic errors:", result.Diagnostics)
		os.Exit(1)
	}

	prog, warnings := codegen.New().Generate(program)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if bytecodePath != "" {
		if err := writeBytecodeFile(bytecodePath, prog); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("wrote bytecode to", bytecodePath)
		return
	}

	runProgram(prog, debug)
}

func runBytecodeFile(path string, debug bool) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()

	prog, err := bytecode.Read(f)
	if err != nil {
		fmt.Println("reading bytecode:", err)
		os.Exit(1)
	}
	runProgram(prog, debug)
}

func writeBytecodeFile(path string, prog *bytecode.Program) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("creating bytecode file: %w", err)
	}
	defer f.Close()
	return bytecode.Write(f, prog)
}

func runProgram(prog *bytecode.Program, debug bool) {
	machine := vm.New(prog)
	machine.SetDebug(debug)

	code, trap := machine.Run()
	if trap != nil {
		if debug {
			fmt.Println(trap.Verbose())
		} else {
			fmt.Println(trap.Error())
		}
		os.Exit(-1)
	}
	os.Exit(code)
}

func printErrors(header string, errs []string) {
	_, _ = fmt.Fprintln(os.Stderr, header)
	for _, msg := range errs {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+msg)
	}
}

func printDiagnostics(header string, diags []analyzer.Diagnostic) {
	_, _ = fmt.Fprintln(os.Stderr, header)
	for _, d := range diags {
		_, _ = fmt.Fprintln(os.Stderr, "\t"+d.String())
	}
}
