package config

import (
	"trading-journal/pkg/config"
)

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Drive holds the configuration for the cloud drive used for vault snapshots.
type Drive struct {
	BaseURL     string `mapstructure:"base_url"`
	UploadURL   string `mapstructure:"upload_url"`
	AccessToken string `mapstructure:"access_token"`
}

// Vault holds snapshot sync settings.
type Vault struct {
	PollInterval string `mapstructure:"poll_interval"`
}

// Telegram holds configuration for the admin notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Plans maps a plan name to its validity in days.
type Plans struct {
	DurationsDays map[string]int `mapstructure:"durations_days"`
}

// Config holds the full configuration for the journal service.
type Config struct {
	App      config.App      `mapstructure:"app"`
	Logger   config.Logger   `mapstructure:"logger"`
	Database config.Database `mapstructure:"database"`
	Redis    config.Redis    `mapstructure:"redis"`
	API      config.API      `mapstructure:"api"`
	Gemini   Gemini          `mapstructure:"gemini"`
	Drive    Drive           `mapstructure:"drive"`
	Vault    Vault           `mapstructure:"vault"`
	Telegram Telegram        `mapstructure:"telegram"`
	Plans    Plans           `mapstructure:"plans"`
}

// Load loads the journal service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
