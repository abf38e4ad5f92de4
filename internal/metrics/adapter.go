// Package metrics enriches nodes with live usage from metrics-server.
//
// Usage is optional data: every failure degrades to the N/A sentinel and is
// never returned to the caller.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsv1beta1client "k8s.io/metrics/pkg/client/clientset/versioned/typed/metrics/v1beta1"

	cverrors "github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// Component prefixes the ErrorCollector component of lookup failures. Each
// node is tracked as "metrics-server/<node>" so a success on one node never
// clears a failure on another.
const Component = "metrics-server"

// NodeComponent returns the ErrorCollector component for nodeName.
func NodeComponent(nodeName string) string {
	return Component + "/" + nodeName
}

var errIncompleteUsage = errors.New("node metrics missing cpu or memory usage")

// Adapter returns current usage for a node. It never fails; unknown usage
// is reported as model.UnavailableNodeMetrics().
type Adapter interface {
	NodeMetrics(ctx context.Context, nodeName string) model.NodeMetrics
	// Available reports whether the adapter can ever return real usage.
	Available() bool
}

// MetricsAPI abstracts the metrics-server API for testability.
type MetricsAPI interface {
	GetNodeMetrics(ctx context.Context, name string) (*metricsv1beta1.NodeMetrics, error)
}

// metricsAPIClient wraps the real metrics client to implement MetricsAPI.
type metricsAPIClient struct {
	client metricsv1beta1client.MetricsV1beta1Interface
}

func (c *metricsAPIClient) GetNodeMetrics(ctx context.Context, name string) (*metricsv1beta1.NodeMetrics, error) {
	return c.client.NodeMetricses().Get(ctx, name, metav1.GetOptions{})
}

// Server reads node usage from metrics.k8s.io/v1beta1.
type Server struct {
	api     MetricsAPI
	metrics *observability.Metrics
	errs    *cverrors.ErrorCollector
}

// NewServer creates a Server adapter on top of api.
func NewServer(api MetricsAPI, metrics *observability.Metrics, errs *cverrors.ErrorCollector) *Server {
	return &Server{api: api, metrics: metrics, errs: errs}
}

// NewServerFromClient creates a Server adapter using a real metrics-server client.
func NewServerFromClient(client metricsv1beta1client.MetricsV1beta1Interface, metrics *observability.Metrics, errs *cverrors.ErrorCollector) *Server {
	return NewServer(&metricsAPIClient{client: client}, metrics, errs)
}

// Available always reports true for Server.
func (s *Server) Available() bool { return true }

// NodeMetrics looks up usage for one node. Lookup errors and responses
// missing cpu or memory yield the sentinel.
func (s *Server) NodeMetrics(ctx context.Context, nodeName string) model.NodeMetrics {
	start := time.Now()
	nm, err := s.api.GetNodeMetrics(ctx, nodeName)
	s.metrics.MetricsAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return s.fallback(nodeName, err)
	}

	cpuQ, hasCPU := nm.Usage[corev1.ResourceCPU]
	memQ, hasMem := nm.Usage[corev1.ResourceMemory]
	if !hasCPU || !hasMem {
		return s.fallback(nodeName, errIncompleteUsage)
	}

	s.errs.Resolve(cverrors.ErrMetricsUnavailable, NodeComponent(nodeName))
	return model.NodeMetrics{
		CPU:    cpuQ.String(),
		Memory: memQ.String(),
	}
}

func (s *Server) fallback(nodeName string, err error) model.NodeMetrics {
	slog.Debug("node metrics unavailable", "node", nodeName, "error", err)
	s.metrics.MetricsFallbackTotal.Inc()
	s.errs.Report(cverrors.ReportedError{
		Code:      cverrors.ErrMetricsUnavailable,
		Message:   "node metrics lookup failed for " + nodeName,
		Component: NodeComponent(nodeName),
		Err:       err,
	})
	return model.UnavailableNodeMetrics()
}

// Null is used when metrics.k8s.io is not served by the cluster.
type Null struct{}

// NodeMetrics always returns the sentinel.
func (Null) NodeMetrics(context.Context, string) model.NodeMetrics {
	return model.UnavailableNodeMetrics()
}

// Available always reports false for Null.
func (Null) Available() bool { return false }

// New selects the adapter for the detected capability. When available is
// false, or client is nil, the Null adapter is returned.
func New(client metricsv1beta1client.MetricsV1beta1Interface, available bool, metrics *observability.Metrics, errs *cverrors.ErrorCollector) Adapter {
	if !available || client == nil {
		slog.Info("metrics.k8s.io not available, node usage will be reported as N/A")
		return Null{}
	}
	return NewServerFromClient(client, metrics, errs)
}
