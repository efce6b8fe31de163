// Package repl implements an interactive Read-Eval-Print Loop over the
// full anac pipeline: lex, parse, analyze, generate, run.
//
// The model is a Bubble Tea program (Bubbles textinput + spinner,
// Lipgloss styling, async evaluation via a tea.Cmd that returns a result
// message), reporting three distinct evaluation-error categories (parse,
// semantic, runtime trap) instead of one. Long-running or
// non-terminating programs are cancellable with Ctrl+C via
// golang.org/x/sync/errgroup: this is best-effort, since the VM's
// dispatch loop has no cooperative cancellation point — a cancelled
// run's goroutine is abandoned rather than killed, and its result, if it
// ever arrives, is discarded.
package repl

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	Prompt     = ">> "
	ContPrompt = ".. "
)

// Options configures the REPL's appearance and verbosity.
type Options struct {
	NoColor bool
	Debug   bool
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))

	parseErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	semanticErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAF00")).Bold(true)
	trapStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8700")).Bold(true)

	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
)

// errorKind categorizes where evaluation stopped, for styling and for
// picking which diagnostic text to show.
type errorKind int

const (
	noError errorKind = iota
	parseError
	semanticErrorKind
	runtimeTrap
)

type evalResultMsg struct {
	output    string
	isError   bool
	kind      errorKind
	exitCode  int
	elapsed   time.Duration
	cancelled bool
}

type historyEntry struct {
	input          string
	result         evalResultMsg
	evaluationTime time.Duration
}

type model struct {
	textInput textinput.Model
	spinner   spinner.Model
	history   []historyEntry

	username string
	options  Options

	evaluating      bool
	currentInput    string
	multilineBuffer string
	isMultiline     bool

	cancel func()
}

func (m model) applyStyle(style lipgloss.Style, text string) string {
	if m.options.NoColor {
		return text
	}
	return style.Render(text)
}

func initialModel(username string, options Options) model {
	ti := textinput.New()
	ti.Placeholder = "int ana() { return 0; }"
	ti.Focus()
	ti.Width = 80
	ti.Prompt = promptStyle.Render(Prompt)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		textInput: ti,
		spinner:   s,
		username:  username,
		options:   options,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Start runs the REPL to completion (until the user quits). username is
// shown in the welcome banner.
func Start(username string, options ...Options) error {
	opts := Options{}
	if len(options) > 0 {
		opts = options[0]
	}
	p := tea.NewProgram(initialModel(username, opts))
	_, err := p.Run()
	return err
}

// isBalanced reports whether brace/paren/bracket nesting closes, used to
// decide whether the REPL should keep buffering lines before evaluating —
// function definitions in this language commonly span multiple lines.
func isBalanced(input string) bool {
	var stack []rune
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}

	for _, ch := range input {
		switch ch {
		case '(', '{', '[':
			stack = append(stack, ch)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[ch] {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
