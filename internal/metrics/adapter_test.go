package metrics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8stesting "k8s.io/client-go/testing"
	metricsv1beta1 "k8s.io/metrics/pkg/apis/metrics/v1beta1"
	metricsfake "k8s.io/metrics/pkg/client/clientset/versioned/fake"

	cverrors "github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// mockMetricsAPI implements MetricsAPI for testing.
type mockMetricsAPI struct {
	mu    sync.Mutex
	nodes map[string]*metricsv1beta1.NodeMetrics
	err   error
	calls []string
}

func (m *mockMetricsAPI) GetNodeMetrics(_ context.Context, name string) (*metricsv1beta1.NodeMetrics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
	if m.err != nil {
		return nil, m.err
	}
	nm, ok := m.nodes[name]
	if !ok {
		return nil, errors.New("nodemetrics \"" + name + "\" not found")
	}
	return nm, nil
}

func nodeUsage(name, cpu, mem string) *metricsv1beta1.NodeMetrics {
	return &metricsv1beta1.NodeMetrics{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Timestamp:  metav1.Now(),
		Usage: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse(cpu),
			corev1.ResourceMemory: resource.MustParse(mem),
		},
	}
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newDeps() (*observability.Metrics, *cverrors.ErrorCollector) {
	return observability.NewMetrics(), cverrors.NewErrorCollector(fixedClock{t: time.Unix(1700000000, 0)})
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	pb := &dto.Metric{}
	require.NoError(t, c.Write(pb))
	return pb.GetCounter().GetValue()
}

func TestServer_ReturnsUsage(t *testing.T) {
	m, errs := newDeps()
	api := &mockMetricsAPI{nodes: map[string]*metricsv1beta1.NodeMetrics{
		"n1": nodeUsage("n1", "250m", "1Gi"),
	}}
	s := NewServer(api, m, errs)

	got := s.NodeMetrics(context.Background(), "n1")
	assert.Equal(t, model.NodeMetrics{CPU: "250m", Memory: "1Gi"}, got)
	assert.True(t, got.Available())
	assert.Equal(t, 0.0, counterValue(t, m.MetricsFallbackTotal))
	assert.Empty(t, errs.GetActiveErrorCodes())
}

func TestServer_FailureFallsBackToSentinel(t *testing.T) {
	m, errs := newDeps()
	s := NewServer(&mockMetricsAPI{err: errors.New("the server is currently unable to handle the request")}, m, errs)

	got := s.NodeMetrics(context.Background(), "n1")
	assert.Equal(t, model.MetricsNotAvailable, got.CPU)
	assert.Equal(t, model.MetricsNotAvailable, got.Memory)
	assert.Equal(t, 1.0, counterValue(t, m.MetricsFallbackTotal))
	assert.Equal(t, []string{string(cverrors.ErrMetricsUnavailable)}, errs.GetActiveErrorCodes())
}

func TestServer_UnknownNodeFallsBack(t *testing.T) {
	m, errs := newDeps()
	s := NewServer(&mockMetricsAPI{nodes: map[string]*metricsv1beta1.NodeMetrics{}}, m, errs)

	got := s.NodeMetrics(context.Background(), "ghost")
	assert.False(t, got.Available())
}

func TestServer_IncompleteUsageFallsBack(t *testing.T) {
	m, errs := newDeps()
	nm := nodeUsage("n1", "250m", "1Gi")
	delete(nm.Usage, corev1.ResourceMemory)
	s := NewServer(&mockMetricsAPI{nodes: map[string]*metricsv1beta1.NodeMetrics{"n1": nm}}, m, errs)

	assert.Equal(t, model.UnavailableNodeMetrics(), s.NodeMetrics(context.Background(), "n1"))
}

func TestServer_SuccessResolvesEarlierFailure(t *testing.T) {
	m, errs := newDeps()
	api := &mockMetricsAPI{err: errors.New("timeout")}
	s := NewServer(api, m, errs)

	s.NodeMetrics(context.Background(), "n1")
	require.Len(t, errs.GetActiveErrorCodes(), 1)

	api.err = nil
	api.nodes = map[string]*metricsv1beta1.NodeMetrics{"n1": nodeUsage("n1", "1", "2Gi")}
	s.NodeMetrics(context.Background(), "n1")
	assert.Empty(t, errs.GetActiveErrorCodes())
}

func TestServer_FailureOnOneNodeSurvivesSuccessOnAnother(t *testing.T) {
	m, errs := newDeps()
	api := &mockMetricsAPI{nodes: map[string]*metricsv1beta1.NodeMetrics{
		"n2": nodeUsage("n2", "250m", "1Gi"),
	}}
	s := NewServer(api, m, errs)

	n1 := s.NodeMetrics(context.Background(), "n1")
	n2 := s.NodeMetrics(context.Background(), "n2")

	assert.False(t, n1.Available())
	assert.Equal(t, model.NodeMetrics{CPU: "250m", Memory: "1Gi"}, n2)
	assert.Equal(t, []string{string(cverrors.ErrMetricsUnavailable)}, errs.GetActiveErrorCodes())

	active := errs.GetActiveErrors()
	require.Len(t, active, 1)
	assert.Equal(t, NodeComponent("n1"), active[0].Component)
}

func TestServerFromClient_UsesNodeMetricsGet(t *testing.T) {
	m, errs := newDeps()
	client := metricsfake.NewSimpleClientset()
	client.Fake.PrependReactor("get", "nodes", func(action k8stesting.Action) (bool, runtime.Object, error) {
		name := action.(k8stesting.GetAction).GetName()
		if name != "n1" {
			return true, nil, errors.New("not found")
		}
		return true, nodeUsage("n1", "500m", "2Gi"), nil
	})

	s := NewServerFromClient(client.MetricsV1beta1(), m, errs)

	assert.Equal(t, model.NodeMetrics{CPU: "500m", Memory: "2Gi"}, s.NodeMetrics(context.Background(), "n1"))
	assert.Equal(t, model.UnavailableNodeMetrics(), s.NodeMetrics(context.Background(), "n2"))
}

func TestNull(t *testing.T) {
	var n Null
	assert.False(t, n.Available())
	assert.Equal(t, model.UnavailableNodeMetrics(), n.NodeMetrics(context.Background(), "n1"))
}

func TestNew_SelectsAdapter(t *testing.T) {
	m, errs := newDeps()
	client := metricsfake.NewSimpleClientset().MetricsV1beta1()

	_, isNull := New(client, false, m, errs).(Null)
	assert.True(t, isNull, "unavailable API selects Null")

	_, isNull = New(nil, true, m, errs).(Null)
	assert.True(t, isNull, "missing client selects Null")

	a := New(client, true, m, errs)
	_, isServer := a.(*Server)
	assert.True(t, isServer)
	assert.True(t, a.Available())
}
