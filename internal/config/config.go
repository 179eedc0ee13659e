package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken        string        `envconfig:"BOT_TOKEN" required:"true"`
	SpreadsheetID   string        `envconfig:"SPREADSHEET_ID" required:"true"`
	CredentialsFile string        `envconfig:"GOOGLE_CREDENTIALS_FILE" default:"./credentials.json"`
	SheetReadRange  string        `envconfig:"SHEET_READ_RANGE" default:"A:Z"`
	DBPath          string        `envconfig:"DB_PATH" default:"./data/exercises.db"`
	TZ              string        `envconfig:"DEFAULT_TZ" default:"Europe/Moscow"`
	TickInterval    time.Duration `envconfig:"TICK_INTERVAL" default:"30s"`
	FollowUpBuffer  time.Duration `envconfig:"FOLLOWUP_BUFFER" default:"60s"` // grace period after the video ends
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`      // debug|info|warn|error
	LogFile         string        `envconfig:"LOG_FILE" default:""`           // empty = stderr only
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`     // healthz
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
