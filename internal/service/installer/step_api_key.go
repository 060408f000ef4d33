package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	return ti
}

var keyPlaceholders = map[string]string{
	"gemini":     "AIza...",
	"openai":     "sk-...",
	"openrouter": "sk-or-v1-...",
	"anthropic":  "sk-ant-...",
}

// APIKeyStep collects the provider API key. Ollama runs without one.
type APIKeyStep struct {
	input    textinput.Model
	ready    bool
	optional bool
	err      error
}

func NewAPIKeyStep() Step {
	return &APIKeyStep{}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *APIKeyStep) prepare(state *InstallState) {
	s.optional = state.Settings.Provider == "ollama"
	placeholder := keyPlaceholders[state.Settings.Provider]
	if s.optional {
		placeholder = "Optional - press Enter to skip"
	}
	s.input = newInput(placeholder, !s.optional)
	s.ready = true
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		s.prepare(state)
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		value := s.input.Value()
		if value == "" && !s.optional {
			s.err = fmt.Errorf("API key is required for %s", state.Settings.Provider)
			return s, nil
		}
		state.Settings.APIKey = value
		return nil, nil
	}
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading..."
	}

	view := fmt.Sprintf("Enter your %s API Key:\n\n%s\n\n(press enter to confirm)\n",
		state.Settings.Provider, s.input.View())
	if s.err != nil {
		view += "\n" + errorStyle.Render(s.err.Error()) + "\n"
	}
	return view
}

// BaseURLStep asks for the Ollama endpoint and is skipped for hosted providers.
type BaseURLStep struct {
	input textinput.Model
	ready bool
}

func NewBaseURLStep() Step {
	return &BaseURLStep{}
}

func (s *BaseURLStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *BaseURLStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if state.Settings.Provider != "ollama" {
		return nil, nil
	}
	if !s.ready {
		s.input = newInput("http://localhost:11434", false)
		s.ready = true
		return s, textinput.Blink
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		state.Settings.BaseURL = s.input.Value()
		return nil, nil
	}
	return s, cmd
}

func (s *BaseURLStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading..."
	}
	return "Enter the Ollama URL (Enter keeps the default):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
