package repl

import (
	"fmt"
	"strings"
	"time"
)

func (m model) View() string {
	var s strings.Builder

	s.WriteString(m.applyStyle(titleStyle, " anac REPL "))
	s.WriteString("\n")

	if m.username != "" {
		fmt.Fprintf(&s, "\nHello %s! Type a function definition, e.g. int ana() { return 0; }\n", m.username)
	}
	s.WriteString("\n")

	for _, entry := range m.history {
		m.writeInput(&s, entry.input)

		if entry.result.isError {
			m.writeError(&s, entry.result)
		} else if m.options.NoColor {
			s.WriteString(entry.result.output)
		} else {
			s.WriteString(resultStyle.Render(entry.result.output))
		}

		if entry.evaluationTime > 10*time.Millisecond {
			timeStr := fmt.Sprintf(" (%.2fs)", entry.evaluationTime.Seconds())
			s.WriteString(m.applyStyle(historyStyle, timeStr))
		}
		s.WriteString("\n\n")
	}

	if m.evaluating {
		m.writeInput(&s, m.currentInput)
		s.WriteString(m.spinner.View())
		s.WriteString(" running... (Ctrl+C to cancel)\n\n")
	}

	if m.isMultiline && !m.evaluating {
		s.WriteString(m.applyStyle(historyStyle, "buffering a multi-line definition:\n"))
		s.WriteString(m.multilineBuffer)
		s.WriteString("\n")
	}

	if !m.evaluating {
		prompt := Prompt
		if m.isMultiline {
			prompt = ContPrompt
		}
		m.textInput.Prompt = m.applyStyle(promptStyle, prompt)
		s.WriteString(m.textInput.View())
		s.WriteString("\n")
	}

	help := "\nCtrl+C/D or Esc to exit"
	if m.isMultiline {
		help += " | empty line evaluates the buffered definition"
	} else {
		help += " | unbalanced braces start a multi-line definition"
	}
	s.WriteString(m.applyStyle(historyStyle, help))

	return s.String()
}

func (m model) writeInput(s *strings.Builder, input string) {
	for i, line := range strings.Split(input, "\n") {
		if i == 0 {
			s.WriteString(m.applyStyle(promptStyle, Prompt))
		} else {
			s.WriteString(m.applyStyle(promptStyle, ContPrompt))
		}
		s.WriteString(line)
		s.WriteString("\n")
	}
}

func (m model) writeError(s *strings.Builder, result evalResultMsg) {
	style := parseErrorStyle
	switch result.kind {
	case semanticErrorKind:
		style = semanticErrorStyle
	case runtimeTrap:
		style = trapStyle
	}
	s.WriteString(m.applyStyle(style, result.output))
}
