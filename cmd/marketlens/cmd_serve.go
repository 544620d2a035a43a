package main

import (
	"context"
	"os/signal"
	"syscall"

	"marketlens/internal/container"

	"github.com/spf13/cobra"
)

var serveFlags struct {
	port string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis HTTP API",
	Long: `Serve the analysis API:

  GET  /healthz
  POST /api/analyze           multipart "file", query overrides, summarize=true
  POST /api/export/:format    analysis bundle JSON in, json|csv|xlsx|md|html out
  POST /api/summarize         analysis bundle JSON in, summary envelope out`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "Listen port (default: $PORT or 8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if serveFlags.port != "" {
		cfg.Server.Port = serveFlags.port
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return c.Server().Run(ctx, ":"+cfg.Server.Port)
}
