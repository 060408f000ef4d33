package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var modelSuggestions = map[string][]item{
	"gemini": {
		{id: "gemini-2.0-flash", title: "Gemini 2.0 Flash", desc: "Fast, handles voice transcription"},
		{id: "gemini-2.5-flash", title: "Gemini 2.5 Flash", desc: "Newer flash model"},
		{id: "gemini-2.5-pro", title: "Gemini 2.5 Pro", desc: "Best quality, slower"},
	},
	"openai": {
		{id: "gpt-4o-mini", title: "GPT-4o mini", desc: "Cheap and fast"},
		{id: "gpt-4o", title: "GPT-4o", desc: "General purpose"},
	},
	"openrouter": {
		{id: "google/gemini-2.0-flash-001", title: "Gemini 2.0 Flash", desc: "via OpenRouter"},
		{id: "openai/gpt-4o-mini", title: "GPT-4o mini", desc: "via OpenRouter"},
		{id: "anthropic/claude-3.5-haiku", title: "Claude 3.5 Haiku", desc: "via OpenRouter"},
	},
	"anthropic": {
		{id: "claude-3-5-haiku-latest", title: "Claude 3.5 Haiku", desc: "Fast"},
		{id: "claude-sonnet-4-0", title: "Claude Sonnet 4", desc: "Best quality"},
	},
	"ollama": {
		{id: "llama3.1", title: "Llama 3.1", desc: "Must be pulled locally"},
		{id: "qwen2.5", title: "Qwen 2.5", desc: "Must be pulled locally"},
	},
}

// ModelStep offers the known models of the selected provider
type ModelStep struct {
	list  list.Model
	ready bool
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{list: l}
}

func (s *ModelStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if !s.ready {
		suggestions := modelSuggestions[state.Settings.Provider]
		if len(suggestions) == 0 {
			return nil, nil
		}
		items := make([]list.Item, 0, len(suggestions))
		for _, it := range suggestions {
			items = append(items, it)
		}
		s.list.SetItems(items)
		s.ready = true
	}

	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		wasFiltering := s.list.FilterState() == list.Filtering
		s.list, cmd = s.list.Update(msg)

		if wasFiltering || s.list.FilterState() == list.Filtering {
			return s, cmd
		}

		if i, ok := s.list.SelectedItem().(item); ok {
			state.Settings.Model = i.id
			return nil, nil
		}
		return s, cmd
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	if !s.ready {
		return "Loading models...\n"
	}
	return s.list.View()
}
