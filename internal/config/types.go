// Package config provides configuration loading for skillrun.
//
// Configuration is loaded with Viper, supporting a YAML config file and
// environment variable overrides. Defaults work out of the box.
//
// Configuration priority (highest to lowest):
//  1. Environment variables (SKILLRUN_ prefix)
//  2. Config file specified by SKILLRUN_CONFIG_PATH
//  3. ./skillrun.yaml
//  4. [DefaultConfig] defaults
//
// Key types:
//   - [Config] is the root configuration container
//   - [Loader] handles Viper-based loading
package config

// Config represents the root configuration structure.
type Config struct {
	// Output controls how step instructions are rendered.
	Output OutputConfig `mapstructure:"output"`

	// Dispatch configures delegation to external collaborators.
	Dispatch DispatchConfig `mapstructure:"dispatch"`

	// State configures snapshot persistence between turns.
	State StateConfig `mapstructure:"state"`
}

// OutputConfig controls instruction rendering.
type OutputConfig struct {
	// Encoding selects the formatter encoding: "term" or "markdown".
	Encoding string `mapstructure:"encoding"`
}

// DispatchConfig configures the delegation adapter.
type DispatchConfig struct {
	// Binaries maps dispatch targets to executable paths. Unmapped targets
	// are invoked by name via PATH lookup.
	Binaries map[string]string `mapstructure:"binaries"`

	// StatusMap overrides the status-to-outcome table. Keys are collaborator
	// status strings, values are outcome names (OK, FAIL, SKIP, ITERATE).
	// Empty means the built-in table (PASS/FAIL/SKIP/RETRY).
	StatusMap map[string]string `mapstructure:"status_map"`
}

// StateConfig configures snapshot persistence for turn-based execution.
type StateConfig struct {
	// Path is the snapshot file location.
	Path string `mapstructure:"path"`
}

// DefaultConfig returns a new [Config] with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Encoding: "term",
		},
		Dispatch: DispatchConfig{},
		State: StateConfig{
			Path: ".skillrun/state.yaml",
		},
	}
}
