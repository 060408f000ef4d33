package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/internal/storage/flatfile"
	"github.com/sandevgo/topicscribe/pkg/env"
)

// SaveEnvStep writes the collected configuration to .env file
type SaveEnvStep struct {
	err   error
	saved bool
}

func NewSaveEnvStep() Step {
	return &SaveEnvStep{}
}

func (s *SaveEnvStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	if err := SaveEnv(config.GetRuntimePath(), &state.Settings); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// SaveEnv writes settings to <dir>/.env and refuses to overwrite an existing file.
func SaveEnv(dir string, settings *Settings) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err == nil {
		return fmt.Errorf(".env file already exists at %s", envPath)
	}

	content, err := env.MarshalEnv(settings)
	if err != nil {
		return fmt.Errorf("failed to render .env: %w", err)
	}

	return os.WriteFile(envPath, []byte(content), 0600)
}

// InitializeStorageStep creates the message store directories
type InitializeStorageStep struct {
	err  error
	done bool
}

func NewInitializeStorageStep() Step {
	return &InitializeStorageStep{}
}

func (s *InitializeStorageStep) Init() tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *InitializeStorageStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.done {
		return nil, nil
	}

	cfg := config.AppConfig{RuntimePath: config.GetRuntimePath()}
	if err := flatfile.NewLayout(cfg.GetStoragePath()).Ensure(); err != nil {
		s.err = fmt.Errorf("failed to create storage directories: %w", err)
		return s, nil
	}

	s.done = true
	return nil, nil
}

func (s *InitializeStorageStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.done {
		return "Storage initialized successfully!\n"
	}
	return "Initializing storage...\n"
}
