package main

import (
	"context"

	"github.com/fernwalter/tunex/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupDatabase initializes the database and applies pending migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	r.logger.Info("database ready", "path", r.config.Database.Path)
	return r.writePlain("✓ Database initialized at %s\n", r.config.Database.Path)
}

// SetupConfig writes a starter config file from the embedded example.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}

	r.writePlain("✓ Config written to %s\n", path)
	r.writePlain("Fill in your credentials, or set them via TUNEX_* environment variables.\n")
	return nil
}
