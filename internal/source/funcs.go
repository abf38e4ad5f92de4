package source

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// Funcs adapts plain functions to ResourceSource. A nil field lists an
// empty collection, so callers only set the kinds they care about.
type Funcs struct {
	Nodes       func(ctx context.Context) ([]corev1.Node, error)
	Namespaces  func(ctx context.Context) ([]corev1.Namespace, error)
	Pods        func(ctx context.Context) ([]corev1.Pod, error)
	Deployments func(ctx context.Context) ([]appsv1.Deployment, error)
	Services    func(ctx context.Context) ([]corev1.Service, error)
}

var _ ResourceSource = Funcs{}

func (f Funcs) ListNodes(ctx context.Context) ([]corev1.Node, error) {
	if f.Nodes == nil {
		return nil, nil
	}
	return f.Nodes(ctx)
}

func (f Funcs) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	if f.Namespaces == nil {
		return nil, nil
	}
	return f.Namespaces(ctx)
}

func (f Funcs) ListPods(ctx context.Context) ([]corev1.Pod, error) {
	if f.Pods == nil {
		return nil, nil
	}
	return f.Pods(ctx)
}

func (f Funcs) ListDeployments(ctx context.Context) ([]appsv1.Deployment, error) {
	if f.Deployments == nil {
		return nil, nil
	}
	return f.Deployments(ctx)
}

func (f Funcs) ListServices(ctx context.Context) ([]corev1.Service, error) {
	if f.Services == nil {
		return nil, nil
	}
	return f.Services(ctx)
}
