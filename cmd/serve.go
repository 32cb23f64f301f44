package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/difyops/difybridge/server"
)

var listenAddr string

// serveCmd runs the companion REST server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the companion REST server",
	Long: `Start an HTTP server that re-exposes Dify management operations
(/login, /apps, /datasets, ...) as a local REST API.

When dify.email and dify.password are configured, the server logs in at
startup; otherwise clients must call POST /login first.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides server.listen_addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Auto-login is best effort: the server is still useful without it
	// since /login can establish the session later.
	if cfg.Dify.Email != "" {
		if err := difyClient.Login(ctx, cfg.Dify.Email, cfg.Dify.Password); err != nil {
			logger.Warn().Err(err).Msg("Auto-login failed, waiting for /login")
		} else {
			logger.Info().Msg("Auto-login succeeded")
		}
	}

	addr := cfg.Server.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}

	srv := server.New(addr, difyClient, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return srv.Shutdown(shutdownCtx)
}
