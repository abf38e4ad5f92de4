// Package source lists the five resource kinds a snapshot is built from.
//
// Every lister returns the full, unfiltered collection in the order the API
// server produced it. Failures are wrapped as SourceUnavailable errors and
// are never retried here; retry policy belongs to the caller.
package source

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// Resource kind names, used in errors, logs, and metric labels.
const (
	KindNodes       = "nodes"
	KindNamespaces  = "namespaces"
	KindPods        = "pods"
	KindDeployments = "deployments"
	KindServices    = "services"
)

// Kinds lists every resource kind in the order snapshots present them.
var Kinds = []string{KindNodes, KindNamespaces, KindPods, KindDeployments, KindServices}

// NodeLister lists all nodes in the cluster.
type NodeLister interface {
	ListNodes(ctx context.Context) ([]corev1.Node, error)
}

// NamespaceLister lists all namespaces.
type NamespaceLister interface {
	ListNamespaces(ctx context.Context) ([]corev1.Namespace, error)
}

// PodLister lists pods across all namespaces.
type PodLister interface {
	ListPods(ctx context.Context) ([]corev1.Pod, error)
}

// DeploymentLister lists deployments across all namespaces.
type DeploymentLister interface {
	ListDeployments(ctx context.Context) ([]appsv1.Deployment, error)
}

// ServiceLister lists services across all namespaces.
type ServiceLister interface {
	ListServices(ctx context.Context) ([]corev1.Service, error)
}

// ResourceSource is the capability set the snapshot composer consumes.
type ResourceSource interface {
	NodeLister
	NamespaceLister
	PodLister
	DeploymentLister
	ServiceLister
}
