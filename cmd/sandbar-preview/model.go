package main

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/b/sandbar/pkg/bar"
)

const logLines = 8

var (
	helpStyle = lipgloss.NewStyle().Faint(true)
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	logStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#87afaf"))
)

type model struct {
	sim   *sim
	input textinput.Model
	err   string
	help  bool
}

func newModel(s *sim) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = `all status hello, or :help`
	ti.CharLimit = 0
	ti.Focus()
	return model{sim: s, input: ti}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.sim.resize(msg.Width)
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			m.err, m.help = "", false
			if err := m.sim.apply(line); errors.Is(err, errUsage) {
				m.help = true
			} else if err != nil {
				m.err = err.Error()
			}
			return m, nil
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		var button uint32
		switch msg.Button {
		case tea.MouseButtonLeft:
			button = bar.BtnLeft
		case tea.MouseButtonRight:
			button = bar.BtnRight
		case tea.MouseButtonMiddle:
			button = bar.BtnMiddle
		default:
			return m, nil
		}
		// Bars occupy the first rows of the view.
		m.sim.click(msg.Y, msg.X, button)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var sb strings.Builder
	for _, line := range m.sim.lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(m.input.View())
	sb.WriteByte('\n')
	if m.err != "" {
		sb.WriteString(errStyle.Render(m.err))
		sb.WriteByte('\n')
	}
	if m.help {
		sb.WriteString(helpStyle.Render(simHelp))
		sb.WriteByte('\n')
	}

	log := m.sim.log
	if len(log) > logLines {
		log = log[len(log)-logLines:]
	}
	for _, l := range log {
		sb.WriteString(logStyle.Render(l))
		sb.WriteByte('\n')
	}
	sb.WriteString(helpStyle.Render("click a bar to send commands, esc to quit"))
	return sb.String()
}
