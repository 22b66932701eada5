package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mikelobato/qloudsound-api/internal/repositories"
	"github.com/mikelobato/qloudsound-api/internal/shared"
	"github.com/mikelobato/qloudsound-api/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *ui.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Palette    *ui.Palette
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Palette == nil {
		opts.Palette = ui.DefaultPalette
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    opts.Palette,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, catalogCommand, requestsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig loads the config file named by the command's --config flag,
// falling back to the Runner's config when the file is absent or broken.
// Environment variables win either way.
func (r *Runner) resolveConfig(cmd *cli.Command) *shared.Config {
	config := r.config

	configPath := cmd.String("config")
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
				config = loadedConfig
			} else {
				r.logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
			}
		}
	}

	config.ApplyEnv()
	return config
}

// openStores opens the configured database and builds the repositories on
// top of a shared schema initializer. The caller owns closing the handle.
func (r *Runner) openStores(config *shared.Config) (*sql.DB, *repositories.SubmissionRepository, *repositories.CatalogRepository, error) {
	db, err := shared.OpenFromConfig(config.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	schema := repositories.NewSchema(db)
	return db, repositories.NewSubmissionRepository(db, schema), repositories.NewCatalogRepository(db, schema), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
