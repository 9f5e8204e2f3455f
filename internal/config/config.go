package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config contains runtime parameters, loaded from environment variables.
type Config struct {
	DBPath               string `env:"TASKQUEST_DB_PATH"`
	LogLevel             int    `env:"TASKQUEST_LOG_LEVEL" envDefault:"0"`
	DesktopNotifications bool   `env:"TASKQUEST_DESKTOP_NOTIFICATIONS" envDefault:"false"`
	SchedulerBuffer      int    `env:"TASKQUEST_SCHEDULER_BUFFER" envDefault:"64"`
	MemoryStore          bool   `env:"TASKQUEST_MEMORY_STORE" envDefault:"false"`
}

// New loads configuration from the environment. When TASKQUEST_DB_PATH is
// unset the database lives under the user config directory.
func New() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.DBPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.DBPath = filepath.Join(base, "taskquest", "taskquest.db")
	}
	if cfg.SchedulerBuffer <= 0 {
		cfg.SchedulerBuffer = 64
	}
	return &cfg, nil
}
