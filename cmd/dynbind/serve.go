package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/dynbind/internal/config"
	"github.com/vango-dev/dynbind/pkg/debugserver"
)

func serveCmd(load func() (*config.Config, error)) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the replay debug server",
		Long: `Start an HTTP server that replays scenarios on request.

Routes:
  GET  /healthz
  GET  /metrics
  POST /replay
  GET  /ws/replay

Examples:
  dynbind serve
  dynbind serve --addr localhost:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Address = addr
			}
			logger := setupLogger(cfg, cmd.ErrOrStderr())

			srv := debugserver.New(debugserver.Config{
				Address:           cfg.Server.Address,
				ReadHeaderTimeout: cfg.HeaderTimeout(),
				MetricsNamespace:  cfg.Metrics.Namespace,
				DisableMetrics:    !cfg.MetricsEnabled(),
				Tracer:            otel.Tracer(cfg.Tracing.TracerName),
				Logger:            logger,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides config)")

	return cmd
}
