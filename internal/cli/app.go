// Package cli implements the skillrun command-line interface.
//
// The CLI is a thin shell over the engine packages: [App] holds the
// dependencies every command needs, assembled once in [NewApp] from loaded
// configuration. Commands receive the App and nothing else, which keeps
// them trivially testable with substitute dependencies.
package cli

import (
	"fmt"
	"strings"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/catalog"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/config"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/dispatch"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/render"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/runtime"
	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// App bundles the dependencies shared by all commands.
type App struct {
	// Config is the loaded configuration.
	Config *config.Config

	// Registry holds every workflow the commands can address by name.
	Registry *skill.Registry

	// Runner executes and replays workflows.
	Runner *runtime.Runner

	// Formatter renders step instructions in the configured encoding.
	Formatter *render.Formatter

	// Dispatcher performs delegation for dispatch-bound steps.
	Dispatcher skill.Dispatcher
}

// NewApp wires an App from configuration: formatter, delegation adapter,
// and a registry populated with the built-in workflows.
func NewApp(cfg *config.Config) (*App, error) {
	enc, err := render.ParseEncoding(cfg.Output.Encoding)
	if err != nil {
		return nil, err
	}

	statusMap, err := dispatch.ParseStatusMap(cfg.Dispatch.StatusMap)
	if err != nil {
		return nil, err
	}
	adapter := dispatch.NewAdapterWithStatusMap(
		dispatch.NewCommandExecutor(cfg.Dispatch.Binaries),
		statusMap,
	)

	registry := skill.NewRegistry()
	if err := catalog.RegisterInto(registry, adapter); err != nil {
		return nil, fmt.Errorf("failed to register built-in workflows: %w", err)
	}

	return &App{
		Config:     cfg,
		Registry:   registry,
		Runner:     runtime.NewRunner(),
		Formatter:  render.NewFormatter(enc),
		Dispatcher: adapter,
	}, nil
}

// parseKeyValues parses repeated key=value flag values into a map.
func parseKeyValues(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid key=value pair: %q", pair)
		}
		out[key] = value
	}
	return out, nil
}
