package cli

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/apresai/studynotes/internal/mcp"
	"github.com/apresai/studynotes/internal/observability"
	"github.com/apresai/studynotes/internal/summarize"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP tool server (list, read, and summarize materials)",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	logger := observability.InitLogger()
	logger.Info("studynotes MCP server starting...")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tp, err := observability.InitTracer(ctx, "studynotes-mcp", Version)
	if err != nil {
		logger.Warn("Failed to init tracer, continuing without tracing", "error", err)
	} else {
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Error("Tracer shutdown error", "error", err)
			}
		}()
	}

	st, err := newStore(ctx)
	if err != nil {
		return err
	}

	port := 8001
	if v := os.Getenv("MCP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}

	generator := summarize.NewClaudeGenerator(envOr("SUMMARY_MODEL", "haiku"))
	srv := mcp.New(port, st, generator, logger)

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
