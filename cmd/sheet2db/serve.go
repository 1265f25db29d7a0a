package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheet2db/internal/database"
	"github.com/JonMunkholm/sheet2db/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP import API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}
}

func runServe(ctx context.Context, a *app) error {
	if err := a.cfg.RequireDatabase(); err != nil {
		return withCode(exitUsage, err)
	}
	dsn, err := a.cfg.Database.DSN()
	if err != nil {
		return withCode(exitUsage, err)
	}
	if _, err := database.DriverFor(dsn); err != nil {
		return withCode(exitUsage, err)
	}

	opener := func(ctx context.Context) (database.Conn, error) {
		return database.Open(ctx, dsn, poolOptions(a.cfg.Database))
	}
	server := web.NewServer(a.cfg, opener)

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		a.logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("shutdown error", "error", err)
		}
	}()

	a.logger.Info("server starting", "addr", a.cfg.Server.Addr(), "config", a.cfg.String())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	a.logger.Info("server stopped")
	return nil
}
