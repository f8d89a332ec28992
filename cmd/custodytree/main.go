// Package main provides the entry point for the custodytree CLI tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/bplib-go/custodytree/cmd/custodytree/commands"
	"github.com/bplib-go/custodytree/pkg/config"
	"github.com/bplib-go/custodytree/pkg/metrics"
	"github.com/bplib-go/custodytree/pkg/observability"
	"github.com/bplib-go/custodytree/pkg/session"
	"github.com/bplib-go/custodytree/pkg/version"
)

var (
	configPath  string
	sessionName string
	stateDir    string
	otlpFlag    string
	metricsFlag string
	logLevel    string
	logFormat   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "custodytree",
		Short: "Manage a range-coalescing custody tree from the command line",
		Long: `custodytree inserts, deletes, and drains 32-bit integer ranges
held in an arena-backed red-black tree, persisting the tree's ranges
between invocations as a named session.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file")
	rootCmd.PersistentFlags().StringVar(&sessionName, "session", "default", "session name to operate on")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "override the session state directory")
	rootCmd.PersistentFlags().StringVar(&otlpFlag, "otlp-endpoint", "", "OTLP gRPC collector address")
	rootCmd.PersistentFlags().StringVar(&metricsFlag, "metrics-addr", "", "address to serve Prometheus metrics on")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")

	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	}

	app, shutdown, err := buildApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	defer shutdown()

	rootCmd.AddCommand(
		commands.NewCreateCommand(app),
		commands.NewInsertCommand(app),
		commands.NewDeleteCommand(app),
		commands.NewFindCommand(app),
		commands.NewDrainCommand(app),
		commands.NewRenderCommand(app),
		commands.NewStatsCommand(app),
		commands.NewVersionCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildApp resolves configuration, wires up observability and metrics, and
// returns the App shared by every subcommand along with a shutdown hook the
// caller must defer.
func buildApp() (*commands.App, func(), error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	if otlpFlag != "" {
		cfg.OTLPEndpoint = otlpFlag
	}

	if metricsFlag != "" {
		cfg.MetricsAddr = metricsFlag
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	if logFormat != "" {
		cfg.LogFormat = logFormat
	}

	registry := prometheus.NewRegistry()
	metricsSink := metrics.New(registry)

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Semantic
	obsCfg.OTLPEndpoint = cfg.OTLPEndpoint
	obsCfg.MetricsRegisterer = registry
	obsCfg.LogJSON = cfg.LogFormat == "json"
	obsCfg.LogLevel = parseLevel(cfg.LogLevel)

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("init observability: %w", err)
	}

	redMetrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return nil, nil, fmt.Errorf("init red metrics: %w", err)
	}

	stopMetricsServer := serveMetrics(cfg.MetricsAddr, registry, providers.Logger)

	dir := stateDir
	if dir == "" {
		dir = session.DefaultDir()
	}

	app := &commands.App{
		Config:      cfg,
		Logger:      providers.Logger,
		Metrics:     metricsSink,
		RED:         redMetrics,
		Sessions:    session.NewManager(dir),
		SessionName: sessionName,
	}

	shutdown := func() {
		stopMetricsServer()
		_ = providers.Shutdown(context.Background())
	}

	return app, shutdown, nil
}

// serveMetrics starts a background HTTP server exposing the registry on
// addr's /metrics endpoint, returning a function that stops it. An empty
// addr disables the server entirely.
func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) func() {
	if addr == "" {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", "err", err)
		}
	}()

	return func() {
		_ = srv.Close()
	}
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}

	return l
}
