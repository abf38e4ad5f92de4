package main

import (
	"context"
	"fmt"
	"log/slog"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/kubeadapt/clusterview/internal/config"
	"github.com/kubeadapt/clusterview/internal/discovery"
	"github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/metrics"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/internal/snapshot"
	"github.com/kubeadapt/clusterview/internal/source"
)

// buildService connects to the cluster, detects its capabilities and wires
// the query service. Capability probing failures degrade to "no usage
// metrics" rather than failing startup.
func buildService(ctx context.Context, cfg *config.Config, m *observability.Metrics, errCollector *errors.ErrorCollector) (*snapshot.Service, error) {
	restCfg, err := buildKubeConfig(cfg.Kubeconfig)
	if err != nil {
		return nil, err
	}
	restCfg.UserAgent = fmt.Sprintf("%s/%s", name, cfg.Version)

	kubeClient, err := kubernetes.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("kubernetes client: %w", err)
	}
	metricsClient, err := metricsclientset.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("metrics client: %w", err)
	}

	caps, err := discovery.Detect(ctx, kubeClient, kubeClient.Discovery())
	if err != nil {
		slog.Warn("failed to detect cluster capabilities", "error", err)
		errCollector.Report(errors.ReportedError{
			Code:      errors.ErrDiscoveryFailed,
			Message:   "capability detection failed",
			Component: "discovery",
			Err:       err,
		})
		caps = &discovery.Capabilities{}
	} else {
		slog.Info("cluster capabilities detected",
			"server_version", caps.ServerVersion,
			"metrics_server", caps.MetricsServer,
		)
	}

	denied, err := discovery.Preflight(ctx, kubeClient)
	switch {
	case err != nil:
		slog.Warn("rbac preflight failed", "error", err)
	case len(denied) > 0:
		for _, r := range denied {
			slog.Warn("missing list permission, polls will fail", "group", r.Group, "resource", r.Resource)
		}
	}

	available := cfg.MetricsEnabled && caps.MetricsServer
	if available {
		m.MetricsAPIAvailable.Set(1)
	} else {
		m.MetricsAPIAvailable.Set(0)
	}
	adapter := metrics.New(metricsClient.MetricsV1beta1(), available, m, errCollector)

	composer := snapshot.NewComposer(source.NewKube(kubeClient), adapter, cfg, m, errCollector)
	return snapshot.NewService(composer), nil
}

// buildKubeConfig creates a Kubernetes REST config. It tries in-cluster
// config first, then the given kubeconfig path, then ~/.kube/config.
func buildKubeConfig(kubeconfig string) (*rest.Config, error) {
	cfg, err := rest.InClusterConfig()
	if err == nil {
		slog.Info("using in-cluster kubernetes config")
		return cfg, nil
	}

	if kubeconfig == "" {
		kubeconfig = clientcmd.RecommendedHomeFile
	}

	cfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	if err != nil {
		return nil, fmt.Errorf("build kubernetes config from %s: %w", kubeconfig, err)
	}
	slog.Info("using kubeconfig file", "path", kubeconfig)
	return cfg, nil
}
