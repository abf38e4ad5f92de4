package convert

import (
	"time"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// NamespaceToModel converts a Kubernetes Namespace to model.NamespaceInfo.
func NamespaceToModel(ns *corev1.Namespace) model.NamespaceInfo {
	info := model.NamespaceInfo{
		Name:   ns.Name,
		UID:    string(ns.UID),
		Status: string(ns.Status.Phase),
		Labels: labelsOrEmpty(ns.Labels),
	}
	if !ns.CreationTimestamp.IsZero() {
		ts := ns.CreationTimestamp.UTC().Format(time.RFC3339)
		info.CreationTimestamp = &ts
	}
	return info
}
