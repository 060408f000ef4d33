package installer

import (
	tea "github.com/charmbracelet/bubbletea"
)

const defaultRetentionDays = 30

// FinalizationStep fills values the user skipped
type FinalizationStep struct{}

func NewFinalizationStep() Step {
	return &FinalizationStep{}
}

func (s *FinalizationStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *FinalizationStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	finalize(&state.Settings)
	return nil, nil
}

func (s *FinalizationStep) View(state *InstallState) string {
	return "Finalizing configuration...\n"
}

func finalize(s *Settings) {
	if s.Provider == "" {
		s.Provider = "gemini"
	}
	if s.Model == "" {
		if suggestions := modelSuggestions[s.Provider]; len(suggestions) > 0 {
			s.Model = suggestions[0].id
		}
	}
	if s.RetentionDays <= 0 {
		s.RetentionDays = defaultRetentionDays
	}
	s.LogToFile = true
}
