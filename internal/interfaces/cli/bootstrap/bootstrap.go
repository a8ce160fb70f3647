// Package bootstrap holds the start-up steps shared by every command.
package bootstrap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sortwise/sessiond/internal/infrastructure/config"
	httpRouter "github.com/sortwise/sessiond/internal/interfaces/http"
	"github.com/sortwise/sessiond/internal/shared/biztime"
	"github.com/sortwise/sessiond/internal/shared/logger"
)

// Init loads configuration for env and initializes the logger and display
// timezone. The ENV variable overrides env.
func Init(env string) (*config.Config, logger.Interface, error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = MapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize display timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

func MapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}

// Output formats accepted by -o.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Render writes v as JSON or YAML, or calls table for the human format.
func Render(w io.Writer, format string, v any, table func(io.Writer) error) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTable, "":
		return table(w)
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// OpenContainer runs Init and wires the full container without starting the
// HTTP server. The caller must Shutdown the container.
func OpenContainer(env string) (*httpRouter.Container, logger.Interface, error) {
	cfg, log, err := Init(env)
	if err != nil {
		return nil, nil, err
	}
	c, err := httpRouter.NewContainer(cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize: %w", err)
	}
	return c, log, nil
}
