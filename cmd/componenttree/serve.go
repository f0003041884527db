package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/componenttree/internal/config"
	"github.com/vango-dev/componenttree/internal/descriptor"
	"github.com/vango-dev/componenttree/internal/errors"
	"github.com/vango-dev/componenttree/pkg/build"
	"github.com/vango-dev/componenttree/pkg/inspect"
	"github.com/vango-dev/componenttree/pkg/middleware"
	"github.com/vango-dev/componenttree/pkg/snapshot"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve [descriptor.json]",
		Short: "Serve the generation inspector",
		Long: `Build generation 1 from a descriptor and serve the inspector.

The inspector exposes the generation history as JSON, accepts update
requests, streams pass summaries over a websocket and serves Prometheus
metrics for every build pass.

Endpoints:
  GET  /generations          pass summaries, oldest first
  GET  /generations/latest   latest generation snapshot
  GET  /generations/{gen}    snapshot of a retained generation
  POST /updates              apply updates and build the next generation
  GET  /reuse                reuse count per component name
  GET  /metrics              Prometheus metrics
  GET  /ws                   live pass summaries`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.Inspector.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Inspector.Port = port
			}
			path := cfg.DescriptorPath()
			if len(args) == 1 {
				path = args[0]
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, cfg, path)
		},
	}

	cmd.Flags().StringVar(&host, "host", config.DefaultHost, "Inspector host")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "Inspector port")

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, path string) error {
	if path == "" {
		return errors.New("C004").
			WithDetail("no descriptor given").
			WithSuggestion("Pass a descriptor file or set \"descriptor\" in " + config.ConfigFileName)
	}
	root, err := descriptor.Load(path)
	if err != nil {
		return err
	}

	logger := slog.Default()
	registry := prometheus.NewRegistry()
	builder := build.New(
		build.WithConfig(cfg.BuildConfig()),
		build.WithLogger(logger),
		build.WithMiddleware(
			middleware.Prometheus(
				middleware.WithNamespace(cfg.Metrics.Namespace),
				middleware.WithRegistry(registry),
			),
			middleware.OpenTelemetry(middleware.WithIncludeRootType(true)),
		),
	)

	opts := []inspect.SessionOption{
		inspect.WithHistory(cfg.Inspector.History),
		inspect.WithSessionLogger(logger),
	}
	if cfg.Snapshot.Target != "" {
		sink, err := snapshot.Open(cfg.Snapshot.Target, nil)
		if err != nil {
			return err
		}
		opts = append(opts, inspect.WithSink(sink))
	}

	session := inspect.NewSession(root, builder, opts...)
	res, err := session.Start(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	success(out, "Generation %d built (%d nodes)", res.Generation, res.Root.Len())
	info(out, "Inspector: http://%s", cfg.InspectorAddress())
	if cfg.Snapshot.Target != "" {
		info(out, "Snapshots: %s", cfg.Snapshot.Target)
	}

	server := inspect.NewServer(session, &inspect.ServerConfig{
		Address:  cfg.InspectorAddress(),
		Gatherer: registry,
	})
	return server.Run(ctx)
}
