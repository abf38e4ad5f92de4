package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"k8s.io/klog/v2"

	"github.com/kubeadapt/clusterview/internal/config"
	"github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/memguard"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/internal/output"
	"github.com/kubeadapt/clusterview/internal/server"
)

const name = "clusterview"

var (
	kubeconfigFlag = &cli.StringFlag{
		Name:    "kubeconfig",
		Usage:   "Path to kubeconfig file (in-cluster config is tried first)",
		Sources: cli.EnvVars("CLUSTERVIEW_KUBECONFIG", "KUBECONFIG"),
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "Log level (debug, info, warn, error)",
		Sources: cli.EnvVars("CLUSTERVIEW_LOG_LEVEL"),
		Value:   "info",
	}
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Read-only aggregated view of a Kubernetes cluster",
		Version: version,
		Flags:   []cli.Flag{kubeconfigFlag, logLevelFlag},
		Commands: []*cli.Command{
			serveCmd(),
			snapshotCmd(),
		},
	}
}

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the cluster API over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Sources: cli.EnvVars("CLUSTERVIEW_PORT"),
				Value:   5001,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)
			return serve(ctx, cfg)
		},
	}
}

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:  "snapshot",
		Usage: "Take one snapshot of the cluster and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Output format (%s)", formatNames()),
				Value:   string(output.FormatJSON),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := output.ParseFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)
			return dumpSnapshot(ctx, cfg, format, cmd.String("output"))
		},
	}
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg := config.Load()
	cfg.Version = version

	if cmd.IsSet("port") {
		cfg.Port = cmd.Int("port")
	}
	if cmd.IsSet("kubeconfig") {
		cfg.Kubeconfig = cmd.String("kubeconfig")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// setupLogging installs a JSON slog handler on stderr and routes client-go's
// klog output through it.
func setupLogging(cfg *config.Config) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})).With("name", name, "version", cfg.Version)
	slog.SetDefault(logger)
	klog.SetSlogLogger(logger)
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	slog.Info("clusterview starting",
		"port", cfg.Port,
		"cluster_name", cfg.ClusterName,
		"fetch_timeout", cfg.FetchTimeout,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	metrics := observability.NewMetrics()
	errCollector := errors.NewErrorCollector(errors.RealClock{})

	// Without a cluster client the server still starts; /api/* answers 503
	// and /api/health reports unhealthy.
	var api server.QueryService
	svc, err := buildService(ctx, cfg, metrics, errCollector)
	if err != nil {
		slog.Error("cluster client unavailable", "error", err)
	} else {
		api = svc
	}

	srv, err := server.NewServer(cfg, metrics, api, errCollector)
	if err != nil {
		return err
	}
	if err := srv.Start(); err != nil {
		return err
	}
	srv.SetReady(api != nil)

	go memguard.New(0.8, 30*time.Second, metrics.MemoryPressureTotal).Run(ctx)

	<-ctx.Done()
	slog.Info("shutdown signal received")
	srv.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("clusterview stopped")
	return nil
}

func dumpSnapshot(ctx context.Context, cfg *config.Config, format output.Format, path string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	metrics := observability.NewMetrics()
	svc, err := buildService(ctx, cfg, metrics, errors.NewErrorCollector(errors.RealClock{}))
	if err != nil {
		return err
	}

	snap, err := svc.GetSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	out := os.Stdout
	if path = strings.TrimSpace(path); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return output.NewWriter(format, out).Write(snap)
}

func formatNames() string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
