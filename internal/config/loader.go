package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvConfigPath is the environment variable naming an explicit config file.
const EnvConfigPath = "SKILLRUN_CONFIG_PATH"

// Loader loads configuration via Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with defaults and env binding prepared.
func NewLoader() *Loader {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("output.encoding", defaults.Output.Encoding)
	v.SetDefault("state.path", defaults.State.Path)

	v.SetEnvPrefix("SKILLRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads configuration from the resolved config file, if any, and
// returns the merged result. A missing config file is not an error; a
// malformed one is.
func (l *Loader) Load() (*Config, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return l.LoadFromFile(path)
	}

	l.v.SetConfigName("skillrun")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadFromFile reads configuration from an explicit path.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	cfg := DefaultConfig()
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
