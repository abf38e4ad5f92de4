package convert

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// PodToModel converts a Kubernetes Pod object to a model.PodInfo.
// Pure function with no external calls.
// Containers follow spec order; readiness is matched from status by name.
func PodToModel(pod *corev1.Pod) model.PodInfo {
	info := model.PodInfo{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		UID:       string(pod.UID),

		NodeName: optionalString(pod.Spec.NodeName),
		Phase:    string(pod.Status.Phase),
		PodIP:    optionalString(pod.Status.PodIP),

		Labels:     labelsOrEmpty(pod.Labels),
		Containers: convertContainers(pod),

		RestartCount: DeriveRestartCount(pod),
	}

	return info
}

// convertContainers summarizes spec containers. Always non-nil.
func convertContainers(pod *corev1.Pod) []model.ContainerInfo {
	out := make([]model.ContainerInfo, len(pod.Spec.Containers))
	for i, c := range pod.Spec.Containers {
		out[i] = model.ContainerInfo{
			Name:  c.Name,
			Image: c.Image,
			Ready: DeriveContainerReady(pod, c.Name),
		}
	}
	return out
}
