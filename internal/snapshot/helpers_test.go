package snapshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	"github.com/kubeadapt/clusterview/internal/config"
	"github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/internal/source"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// fakeAdapter returns canned usage per node and records lookups.
type fakeAdapter struct {
	mu        sync.Mutex
	usage     map[string]model.NodeMetrics
	available bool
	calls     []string
}

func (f *fakeAdapter) NodeMetrics(_ context.Context, name string) model.NodeMetrics {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if m, ok := f.usage[name]; ok {
		return m
	}
	return model.UnavailableNodeMetrics()
}

func (f *fakeAdapter) Available() bool { return f.available }

func testConfig() *config.Config {
	return &config.Config{
		ClusterName:        "test-cluster",
		FetchTimeout:       5 * time.Second,
		MetricsConcurrency: 4,
	}
}

func newTestComposer(src source.ResourceSource, adapter *fakeAdapter) (*Composer, *observability.Metrics, *errors.ErrorCollector) {
	m := observability.NewMetrics()
	ec := errors.NewErrorCollector(errors.RealClock{})
	return NewComposer(src, adapter, testConfig(), m, ec), m, ec
}

// clusterFixture is the two-node cluster used across tests: n1 is a ready
// control-plane node running p1, n2 is a bare node, p2 is unscheduled.
type clusterFixture struct {
	nodes       []corev1.Node
	namespaces  []corev1.Namespace
	pods        []corev1.Pod
	deployments []appsv1.Deployment
	services    []corev1.Service
}

func newClusterFixture() *clusterFixture {
	return &clusterFixture{
		nodes: []corev1.Node{
			{
				ObjectMeta: metav1.ObjectMeta{
					Name:   "n1",
					Labels: map[string]string{"node-role.kubernetes.io/control-plane": ""},
				},
				Status: corev1.NodeStatus{Conditions: []corev1.NodeCondition{
					{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
				}},
			},
			{ObjectMeta: metav1.ObjectMeta{Name: "n2"}},
		},
		namespaces: []corev1.Namespace{
			{ObjectMeta: metav1.ObjectMeta{Name: "default"}, Status: corev1.NamespaceStatus{Phase: corev1.NamespaceActive}},
		},
		pods: []corev1.Pod{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "p1", Namespace: "default"},
				Spec: corev1.PodSpec{
					NodeName:   "n1",
					Containers: []corev1.Container{{Name: "c1", Image: "nginx"}, {Name: "c2", Image: "envoy"}},
				},
				Status: corev1.PodStatus{
					Phase: corev1.PodRunning,
					ContainerStatuses: []corev1.ContainerStatus{
						{Name: "c1", Ready: true, RestartCount: 2},
						{Name: "c2", Ready: false, RestartCount: 1},
					},
				},
			},
			{
				ObjectMeta: metav1.ObjectMeta{Name: "p2", Namespace: "default"},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{{Name: "c", Image: "busybox"}}},
				Status:     corev1.PodStatus{Phase: corev1.PodPending},
			},
		},
		deployments: []appsv1.Deployment{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
				Spec:       appsv1.DeploymentSpec{Replicas: ptr.To[int32](2)},
				Status:     appsv1.DeploymentStatus{AvailableReplicas: 1, ReadyReplicas: 1},
			},
		},
		services: []corev1.Service{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
				Spec:       corev1.ServiceSpec{Type: corev1.ServiceTypeClusterIP, ClusterIP: "10.96.0.10"},
			},
		},
	}
}

// source returns a ResourceSource serving the fixture. Each call returns
// fresh copies so tests cannot observe each other's mutations.
func (f *clusterFixture) source() source.Funcs {
	return source.Funcs{
		Nodes: func(context.Context) ([]corev1.Node, error) {
			return append([]corev1.Node(nil), f.nodes...), nil
		},
		Namespaces: func(context.Context) ([]corev1.Namespace, error) {
			return append([]corev1.Namespace(nil), f.namespaces...), nil
		},
		Pods: func(context.Context) ([]corev1.Pod, error) {
			return append([]corev1.Pod(nil), f.pods...), nil
		},
		Deployments: func(context.Context) ([]appsv1.Deployment, error) {
			return append([]appsv1.Deployment(nil), f.deployments...), nil
		},
		Services: func(context.Context) ([]corev1.Service, error) {
			return append([]corev1.Service(nil), f.services...), nil
		},
	}
}

func counterValue(t *testing.T, c prometheus.Collector) float64 {
	t.Helper()
	m, ok := c.(prometheus.Metric)
	require.True(t, ok)
	pb := &dto.Metric{}
	require.NoError(t, m.Write(pb))
	return pb.GetCounter().GetValue()
}

func findNode(t *testing.T, nodes []model.NodeInfo, name string) model.NodeInfo {
	t.Helper()
	for _, n := range nodes {
		if n.Name == name {
			return n
		}
	}
	t.Fatalf("node %q not found", name)
	return model.NodeInfo{}
}
