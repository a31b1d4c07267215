package main

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

type Config struct {
	// Title is the window title.
	Title string `env:"PHASECS_TITLE" envDefault:"phasecs demo"`

	// Width and Height are the initial window size in pixels.
	Width  int `env:"PHASECS_WIDTH" envDefault:"1280"`
	Height int `env:"PHASECS_HEIGHT" envDefault:"720"`

	// Particles is the number of particles spawned at startup.
	Particles int `env:"PHASECS_PARTICLES" envDefault:"500"`

	// FPSInterval is how often the FPS debug info is refreshed.
	FPSInterval time.Duration `env:"PHASECS_FPS_INTERVAL" envDefault:"1s"`

	// DebugUI enables the ImGui inspection windows.
	DebugUI bool `env:"PHASECS_DEBUG_UI" envDefault:"true"`

	// Log level configuration ("trace", "debug", "info", "warn", "error").
	LogLevel string `env:"PHASECS_LOG_LEVEL" envDefault:"info"`

	// Log format configuration ("json", "pretty").
	LogFormat string `env:"PHASECS_LOG_FORMAT" envDefault:"pretty"`
}

func loadConfig() (Config, error) {
	cfg := Config{}

	if err := env.Parse(&cfg); err != nil {
		return cfg, eris.Wrap(err, "failed to parse demo config")
	}

	if err := cfg.validate(); err != nil {
		return cfg, eris.Wrap(err, "failed to validate demo config")
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		return eris.Errorf("invalid log level: %s (must be 'trace', 'debug', 'info', 'warn', or 'error')", cfg.LogLevel)
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "pretty" {
		return eris.Errorf("invalid log format: %s (must be 'json' or 'pretty')", cfg.LogFormat)
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return eris.Errorf("invalid window size %dx%d", cfg.Width, cfg.Height)
	}

	if cfg.Particles < 0 {
		return eris.New("particle count cannot be negative")
	}

	if cfg.FPSInterval <= 0 {
		return eris.New("FPS interval must be positive")
	}

	return nil
}

// logger builds the process logger. Validation has already accepted the level.
func (cfg *Config) logger() zerolog.Logger {
	level, _ := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	logger := zerolog.New(os.Stderr)
	if cfg.LogFormat == "pretty" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return logger.Level(level).With().Timestamp().Logger()
}
