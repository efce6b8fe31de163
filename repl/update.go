package repl

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.evaluating {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case evalResultMsg:
		m.evaluating = false
		m.cancel = nil
		m.history = append(m.history, historyEntry{
			input:          m.currentInput,
			result:         msg,
			evaluationTime: msg.elapsed,
		})
		m.currentInput = ""
		return m, nil

	case tea.KeyMsg:
		if m.evaluating {
			if msg.Type == tea.KeyCtrlC && m.cancel != nil {
				m.cancel()
			}
			return m, m.spinner.Tick
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			return m, tea.Quit

		case tea.KeyEnter:
			input := m.textInput.Value()

			if m.isMultiline {
				if input == "" {
					if m.multilineBuffer == "" {
						m.isMultiline = false
						return m, nil
					}
					return m, m.startEval(m.multilineBuffer)
				}

				m.multilineBuffer += "\n" + input
				m.textInput.SetValue("")
				if isBalanced(m.multilineBuffer) {
					return m, m.startEval(m.multilineBuffer)
				}
				return m, nil
			}

			if input == "" {
				return m, nil
			}
			if !isBalanced(input) {
				m.isMultiline = true
				m.multilineBuffer = input
				m.textInput.SetValue("")
				return m, nil
			}
			return m, m.startEval(input)
		}
	}

	if !m.evaluating {
		m.textInput, cmd = m.textInput.Update(msg)
	}
	if m.evaluating {
		return m, m.spinner.Tick
	}
	return m, cmd
}

// startEval mutates m (addressable as a local variable in Update) to put
// the model into its "evaluating" state, then returns the tea.Cmd that
// runs the pipeline in the background.
func (m *model) startEval(input string) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.evaluating = true
	m.currentInput = input
	m.isMultiline = false
	m.multilineBuffer = ""
	m.textInput.SetValue("")
	m.cancel = cancel
	return evalCmd(ctx, input, m.options.Debug)
}
