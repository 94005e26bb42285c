package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apresai/studynotes/internal/api"
	"github.com/apresai/studynotes/internal/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := observability.InitLogger()
	logger.Info("studynotes API starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := observability.InitTracer(ctx, "studynotes-api", Version)
	if err != nil {
		logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown error", "error", err)
			}
		}()
	}

	cfg := api.DefaultConfig()

	srv, err := api.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received, draining requests...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	return srv.Start()
}
