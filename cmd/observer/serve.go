package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/observer/internal/demo"
	"github.com/vango-dev/observer/pkg/inspect"
	"github.com/vango-dev/observer/pkg/loop"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the thermostat over HTTP",
		Long: `Build the thermostat screen and expose its subjects through the
inspector:

  GET  /subjects          list subjects
  GET  /subjects/{name}   describe one subject
  PUT  /subjects/{name}   assign {"value": "..."}
  GET  /ws                websocket change stream
  GET  /metrics           Prometheus metrics (when enabled)

Examples:
  observer serve
  observer serve --addr=0.0.0.0:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

func runServe(addr string) error {
	e, err := setupEngine(os.Stderr)
	if err != nil {
		return err
	}
	if addr != "" {
		e.cfg.Inspector.Addr = addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	l := loop.New(loop.Config{Logger: e.logger})
	loopErr := make(chan error, 1)
	// The loop outlives the signal context so shutdown can still detach
	// the inspector's watchers on it.
	go func() { loopErr <- l.Run(context.Background()) }()
	defer l.Stop()

	var thermostat *demo.Thermostat
	if err := l.Call(ctx, func() { thermostat = demo.NewThermostat(e.logger) }); err != nil {
		return err
	}

	opts := []inspect.Option{
		inspect.WithLogger(e.logger),
		inspect.WithCallTimeout(e.cfg.CallTimeout()),
		inspect.WithStreamBuffer(e.cfg.Inspector.StreamBuffer),
		inspect.WithAllowedOrigins(e.cfg.Inspector.AllowedOrigins...),
	}
	if e.registry != nil {
		opts = append(opts, inspect.WithMetricsHandler(promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})))
	}
	srv := inspect.NewServer(thermostat.Registry, l, opts...)
	if err := srv.Start(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              e.cfg.Inspector.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	success("Inspector listening on http://%s", e.cfg.Inspector.Addr)
	info("Subjects: %v", thermostat.Registry.Names())
	if e.registry != nil {
		info("Metrics:  http://%s/metrics", e.cfg.Inspector.Addr)
	}
	fmt.Println()

	serveErr := make(chan error, 1)
	go func() { serveErr <- httpServer.ListenAndServe() }()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		fmt.Println("\n\n  Shutting down...")
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	srv.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		warn("HTTP shutdown: %v", err)
	}
	l.Stop()
	return <-loopErr
}
