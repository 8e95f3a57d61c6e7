package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/castletown/compendium/internal/present/rest"
	"github.com/castletown/compendium/internal/present/rest/middleware"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard API server",
		Long:  "Serves the community dashboard API over HTTP for the web frontend.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	return withDeps(func(d *Deps) error {
		e := echo.New()
		e.HideBanner = true
		e.Use(echomw.Logger())
		e.Use(echomw.Recover())
		e.Use(echomw.CORS())

		auth := middleware.NewAuthMiddleware(d.Config.Auth)
		e.Use(auth.RequireToken)

		handler := rest.NewHandler(
			d.Characters,
			d.Relationships,
			d.Calendar,
			d.Stats,
			d.Submissions,
		)
		handler.RegisterRoutes(e)

		addr := fmt.Sprintf("%s:%d", d.Config.Server.Host, d.Config.Server.Port)

		errCh := make(chan error, 1)
		go func() {
			slog.Info("starting server", slog.String("addr", addr))
			if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("starting server: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}

		slog.Info("server stopped")
		return nil
	})
}
