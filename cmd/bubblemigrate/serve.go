package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/formatter"
	"github.com/JonMunkholm/bubblemigrate/internal/web"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local web front-end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}

			slog.Info("tables registered", "count", core.TableCount())

			server := web.NewServer(formatter.New(a.boolTokens()), a.cfg)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-cmd.Context().Done():
			}

			slog.Info("shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (default: SERVER_PORT)")
	return cmd
}
