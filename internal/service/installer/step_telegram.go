package installer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramTokenStep collects the Telegram bot token
type TelegramTokenStep struct {
	input textinput.Model
	err   error
}

func NewTelegramTokenStep() Step {
	return &TelegramTokenStep{
		input: newInput("123456789:ABCDEF...", true),
	}
}

func (s *TelegramTokenStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *TelegramTokenStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		token := strings.TrimSpace(s.input.Value())
		if !strings.Contains(token, ":") {
			s.err = errors.New("token looks invalid, expected <bot id>:<secret>")
			return s, nil
		}
		state.Settings.TelegramToken = token
		return nil, nil
	}
	return s, cmd
}

func (s *TelegramTokenStep) View(state *InstallState) string {
	view := "Enter your Telegram Bot Token (from @BotFather):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
	if s.err != nil {
		view += "\n" + errorStyle.Render(s.err.Error()) + "\n"
	}
	return view
}

// RetentionStep collects how many days of history to keep
type RetentionStep struct {
	input textinput.Model
	err   error
}

func NewRetentionStep() Step {
	ti := newInput("30", false)
	ti.CharLimit = 5
	return &RetentionStep{input: ti}
}

func (s *RetentionStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *RetentionStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		days, err := parseRetention(s.input.Value())
		if err != nil {
			s.err = err
			return s, nil
		}
		state.Settings.RetentionDays = days
		return nil, nil
	}
	return s, cmd
}

func (s *RetentionStep) View(state *InstallState) string {
	view := "How many days of messages should be kept? (Enter keeps 30):\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
	if s.err != nil {
		view += "\n" + errorStyle.Render(s.err.Error()) + "\n"
	}
	return view
}

func parseRetention(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultRetentionDays, nil
	}
	days, err := strconv.Atoi(value)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("%q is not a positive number of days", value)
	}
	return days, nil
}
