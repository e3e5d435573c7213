package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/safecontext/internal/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo scenarios over HTTP",
		Long: `Serve the demo scenarios over HTTP.

Routes:
  GET /healthz            liveness probe
  GET /scenarios          scenario names
  GET /scenarios/{name}   rendered scenario (?format=json for JSON)
  GET /metrics            Prometheus metrics (when metrics.enabled)

Examples:
  safecontext serve
  safecontext serve --addr=0.0.0.0:9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.Server.Addr = addr
			}

			opts := server.Options{
				Pretty: a.cfg.Render.Pretty,
				Logger: a.logger,
			}
			if a.metrics != nil {
				opts.Metrics = promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{})
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Serving %d scenarios", len(a.registry.Names()))
			info(cmd.OutOrStdout(), "http://%s/scenarios", a.cfg.Server.Addr)
			return server.Run(ctx, a.cfg.Server.Addr, server.NewRouter(a.registry, opts), 10*time.Second, a.logger)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address to listen on (default from safecontext.json)")

	return cmd
}
