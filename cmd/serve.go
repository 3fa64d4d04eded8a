package main

import (
	"context"

	"github.com/fernwalter/tunex/internal/server"
	"github.com/urfave/cli/v3"
)

// Serve runs the HTTP server with the streaming migration endpoint, blocking
// until the server stops.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.restoreSourceSession(ctx); err != nil {
		return err
	}
	if err := r.restoreDestSession(ctx); err != nil {
		return err
	}

	repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	handler := server.NewMigrationHandler(r.engine, r.source, repo.repo, r.logger)
	return server.Serve(r.config.Server, handler, r.logger)
}
