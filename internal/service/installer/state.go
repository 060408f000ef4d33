package installer

// Settings is what the wizard collects. Field tags match the runtime config
// so the struct can be written out as .env directly.
type Settings struct {
	Provider      string `env:"SCRIBE_LLM_PROVIDER"`
	APIKey        string `env:"SCRIBE_LLM_API_KEY"`
	Model         string `env:"SCRIBE_LLM_MODEL"`
	BaseURL       string `env:"SCRIBE_LLM_BASE_URL"`
	TelegramToken string `env:"SCRIBE_TELEGRAM_TOKEN"`
	RetentionDays int    `env:"SCRIBE_RETENTION_DAYS"`
	LogToFile     bool   `env:"SCRIBE_LOG_TO_FILE"`
}

type InstallState struct {
	Settings Settings
}

func NewInstallState() *InstallState {
	return &InstallState{}
}
