package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/go-sod/kdtree/internal/metric"
)

type Config struct {
	Dimensions int           `envconfig:"KDTREE_DIMENSIONS" toml:"dimensions"`
	Log        LogConfig     `toml:"log"`
	Metric     metric.Config `toml:"metric"`
}

type LogConfig struct {
	Level       string `envconfig:"KDTREE_LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"KDTREE_LOG_DEVELOPMENT" toml:"development"`
}

// Default returns the configuration used when neither a file nor the
// environment sets a value.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Metric: metric.Config{Namespace: metric.DefaultNamespace},
	}
}

// Load starts from Default, applies the TOML file at path if any, and then
// the environment. Variables that are not set leave the value untouched.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return nil, fmt.Errorf("error decoding config file %s: %w", path, err)
		}
	}
	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}
	return &config, nil
}

// Validate accepts 0, which means the console asks for the dimensions, or
// the 2 and 3 dimensional trees the console can drive.
func (c Config) Validate() error {
	switch c.Dimensions {
	case 0, 2, 3:
	default:
		return fmt.Errorf("dimensions must be 2 or 3, got %d", c.Dimensions)
	}
	return nil
}

func (c Config) MetricConfig() *metric.Config {
	return &c.Metric
}

func (c Config) TreeDimensions() int {
	return c.Dimensions
}
