package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fernwalter/tunex/internal/services"
	"github.com/fernwalter/tunex/internal/shared"
	"github.com/fernwalter/tunex/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	source services.Source
	dest   services.Destination
	logger *log.Logger
	output io.Writer
	engine *tasks.MigrationEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	Source      services.Source
	Destination services.Destination
	Logger      *log.Logger
	Output      io.Writer
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

	engine := tasks.NewMigrationEngine(opts.Source, opts.Destination, opts.Logger, opts.Config.Migration)

	return &Runner{
		config: opts.Config,
		source: opts.Source,
		dest:   opts.Destination,
		logger: opts.Logger,
		output: opts.Output,
		engine: engine,
	}
}

// SetLogger swaps the runner's logger and rebuilds the engine so both log to
// the same place.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.engine = tasks.NewMigrationEngine(r.source, r.dest, logger, r.config.Migration)
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, sourceCommand, destCommand, matchCommand, migrateCommand, serveCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
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

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// openRepository opens the configured database, runs pending migrations, and
// returns a history repository. The caller owns closing the database.
func (r *Runner) openRepository() (*repositoryHandle, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return newRepositoryHandle(db), nil
}
