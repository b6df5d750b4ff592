package config

import (
	"os"

	"go.uber.org/config"

	"github.com/tnicklin/jstclock/jst"
	"github.com/tnicklin/jstclock/logger"
)

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	// ListenAddr serves /metrics when non-empty, e.g. ":9090".
	ListenAddr string `yaml:"listen_addr"`
}

// AppConfig holds all application configuration.
type AppConfig struct {
	Logger  logger.Config `yaml:"logger"`
	JST     jst.Config    `yaml:"jst"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Load reads configuration from the specified YAML files.
// Files are merged in order, with later files overriding earlier ones.
// Missing files are silently ignored.
func Load(files ...string) (*AppConfig, error) {
	opts := make([]config.YAMLOption, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			opts = append(opts, config.File(f))
		}
	}

	if len(opts) == 0 {
		return nil, os.ErrNotExist
	}

	provider, err := config.NewYAML(opts...)
	if err != nil {
		return nil, err
	}

	var cfg AppConfig
	if err := provider.Get(config.Root).Populate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration with sensible defaults.
func LoadWithDefaults(files ...string) (*AppConfig, error) {
	cfg, err := Load(files...)
	if err != nil {
		return nil, err
	}

	cfg.Defaults()
	return cfg, nil
}

// Default returns a configuration built purely from defaults.
func Default() *AppConfig {
	cfg := &AppConfig{}
	cfg.Defaults()
	return cfg
}

// Defaults applies defaults to every section.
func (c *AppConfig) Defaults() {
	c.Logger.Defaults()
	c.JST.Defaults()
}
