// Package main implements the pitch API server: draft persistence for
// the pitch wizard, async generation dispatch, and completion
// reconciliation over the push and pull paths.
package main

import (
	"context"
	"fmt"
	"log"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func run(ctx context.Context) error {
	app, err := newApplication(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	app.logger.Info("configuration loaded",
		"port", app.config.Server.Port,
		"log_level", app.config.Server.LogLevel,
		"provider", app.providerName)

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return err
	}
	return nil
}
