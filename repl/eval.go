package repl

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/anaclang/anac/analyzer"
	"github.com/anaclang/anac/codegen"
	"github.com/anaclang/anac/lexer"
	"github.com/anaclang/anac/parser"
	"github.com/anaclang/anac/vm"
)

// evalCmd runs the full pipeline for input on a background goroutine and
// returns its result as a tea.Msg. It is cancellable: if ctx is cancelled
// before the pipeline finishes (the user pressed Ctrl+C while evaluating),
// evalCmd returns a "cancelled" result immediately rather than waiting —
// the pipeline goroutine is left to run to completion unobserved.
func evalCmd(ctx context.Context, input string, debug bool) tea.Cmd {
	return func() tea.Msg {
		resultCh := make(chan evalResultMsg, 1)

		g, _ := errgroup.WithContext(ctx)
		g.Go(func() error {
			resultCh <- runPipeline(input, debug)
			return nil
		})
		go func() { _ = g.Wait() }()

		select {
		case res := <-resultCh:
			return res
		case <-ctx.Done():
			return evalResultMsg{cancelled: true, isError: true, output: "evaluation cancelled"}
		}
	}
}

func runPipeline(input string, debug bool) evalResultMsg {
	start := time.Now()

	p := parser.New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		return evalResultMsg{
			output:  strings.Join(errs, "\n"),
			isError: true,
			kind:    parseError,
			elapsed: time.Since(start),
		}
	}

	result := analyzer.New().Analyze(program)
	if !result.Success() {
		var b strings.Builder
		for i, d := range result.Diagnostics {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(d.String())
		}
		return evalResultMsg{
			output:  b.String(),
			isError: true,
			kind:    semanticErrorKind,
			elapsed: time.Since(start),
		}
	}

	prog, warnings := codegen.New().Generate(program)

	machine := vm.New(prog)
	machine.SetDebug(debug)
	code, trap := machine.Run()

	if trap != nil {
		msg := trap.Error()
		if debug {
			msg = trap.Verbose()
		}
		return evalResultMsg{
			output:  msg,
			isError: true,
			kind:    runtimeTrap,
			elapsed: time.Since(start),
		}
	}

	output := formatExitCode(code, warnings)
	return evalResultMsg{output: output, exitCode: code, elapsed: time.Since(start)}
}

func formatExitCode(code int, warnings []string) string {
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString("warning: " + w + "\n")
	}
	b.WriteString("exit code: ")
	b.WriteString(strconv.Itoa(code))
	return b.String()
}
