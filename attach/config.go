package attach

import (
	"fmt"

	"github.com/apex/log"
	"github.com/caarlos0/env/v8"
)

// Config configures Attach. It is normally populated from the
// environment by ConfigFromEnv.
type Config struct {
	// LogLevel is an apex/log level name.
	LogLevel string `env:"MEMKIT_LOG_LEVEL" envDefault:"info"`

	// ForceVersion skips file version detection when non-empty.
	// It must name a supported version, e.g. "1.02.3".
	ForceVersion string `env:"MEMKIT_FORCE_VERSION"`
}

// ConfigFromEnv reads a Config from the process's environment.
func ConfigFromEnv() (Config, error) {
	var cfg Config

	err := env.Parse(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse environment - %w", err)
	}

	return cfg, nil
}

func (o Config) level() (log.Level, error) {
	if o.LogLevel == "" {
		return log.InfoLevel, nil
	}

	lvl, err := log.ParseLevel(o.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("failed to parse log level - %w", err)
	}

	return lvl, nil
}
