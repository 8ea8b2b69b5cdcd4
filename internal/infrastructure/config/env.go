package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvConfig holds process settings read from the environment
type EnvConfig struct {
	// AssetsDir is read from disk when set; the embedded assets are used otherwise.
	AssetsDir    string `env:"SCENES_ASSETS"`
	Development  bool   `env:"SCENES_LOG_DEV" envDefault:"true"`
	Debug        bool   `env:"SCENES_LOG_DEBUG"`
	TracePath    string `env:"SCENES_TRACE"`
	Watch        bool   `env:"SCENES_WATCH"`
	ScreenWidth  int    `env:"SCENES_SCREEN_WIDTH" envDefault:"320"`
	ScreenHeight int    `env:"SCENES_SCREEN_HEIGHT" envDefault:"240"`
	Scale        int    `env:"SCENES_SCREEN_SCALE" envDefault:"2"`
}

// ParseEnv loads configuration from environment variables.
// Variables from dotenvFiles are applied first; missing files are ignored.
func ParseEnv(dotenvFiles ...string) (*EnvConfig, error) {
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
