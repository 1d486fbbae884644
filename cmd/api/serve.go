package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/saulo-duarte/interviewace-api/internal/config"
	"github.com/saulo-duarte/interviewace-api/internal/container"
	"github.com/saulo-duarte/interviewace-api/internal/router"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	port := c.Settings.Port
	if servePort > 0 {
		port = servePort
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           buildHandler(c),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		config.Logger.Infof("Server running on port %d", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	config.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func buildHandler(c *container.Container) http.Handler {
	return router.New(router.RouterConfig{
		UserHandler:       c.UserContainer.Handler,
		AIQuestionHandler: c.AIQuestionContainer.Handler,
		CORS:              c.Settings.CORS,
		TrustProxy:        c.Settings.TrustProxy,
		RateLimiter:       c.RateLimiter,
	})
}
