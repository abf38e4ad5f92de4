package source

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	cverrors "github.com/kubeadapt/clusterview/internal/errors"
)

// Kube implements ResourceSource with plain list calls against the API
// server. It holds no state between calls.
type Kube struct {
	client kubernetes.Interface
}

// NewKube returns a ResourceSource backed by client.
func NewKube(client kubernetes.Interface) *Kube {
	return &Kube{client: client}
}

var _ ResourceSource = (*Kube)(nil)

func (k *Kube) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	list, err := k.client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, cverrors.NewSourceUnavailable(KindNodes, err)
	}
	return list.Items, nil
}

func (k *Kube) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := k.client.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, cverrors.NewSourceUnavailable(KindNamespaces, err)
	}
	return list.Items, nil
}

func (k *Kube) ListPods(ctx context.Context) ([]corev1.Pod, error) {
	list, err := k.client.CoreV1().Pods(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, cverrors.NewSourceUnavailable(KindPods, err)
	}
	return list.Items, nil
}

func (k *Kube) ListDeployments(ctx context.Context) ([]appsv1.Deployment, error) {
	list, err := k.client.AppsV1().Deployments(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, cverrors.NewSourceUnavailable(KindDeployments, err)
	}
	return list.Items, nil
}

func (k *Kube) ListServices(ctx context.Context) ([]corev1.Service, error) {
	list, err := k.client.CoreV1().Services(metav1.NamespaceAll).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, cverrors.NewSourceUnavailable(KindServices, err)
	}
	return list.Items, nil
}
