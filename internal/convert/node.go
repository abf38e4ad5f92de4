package convert

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// NodeToModel converts a Kubernetes Node object to a model.NodeInfo.
// Pure function with no external calls.
// PodsOnNode and Metrics are left for the composer to fill in.
func NodeToModel(node *corev1.Node) model.NodeInfo {
	info := model.NodeInfo{
		Name:   node.Name,
		UID:    string(node.UID),
		Labels: labelsOrEmpty(node.Labels),

		Role:   DeriveNodeRole(node),
		Status: DeriveNodeStatus(node),

		Capacity:    nodeResources(node.Status.Capacity),
		Allocatable: nodeResources(node.Status.Allocatable),
		Info: model.NodeSystemInfo{
			OS:               node.Status.NodeInfo.OperatingSystem,
			Architecture:     node.Status.NodeInfo.Architecture,
			Kernel:           node.Status.NodeInfo.KernelVersion,
			ContainerRuntime: node.Status.NodeInfo.ContainerRuntimeVersion,
			KubeletVersion:   node.Status.NodeInfo.KubeletVersion,
		},
		Addresses: convertAddresses(node.Status.Addresses),

		Metrics: model.UnavailableNodeMetrics(),
	}

	return info
}

func nodeResources(rl corev1.ResourceList) model.NodeResources {
	return model.NodeResources{
		CPU:    quantityString(rl, corev1.ResourceCPU),
		Memory: quantityString(rl, corev1.ResourceMemory),
		Pods:   quantityString(rl, corev1.ResourcePods),
	}
}

// convertAddresses converts node addresses in reported order. Always non-nil.
func convertAddresses(addrs []corev1.NodeAddress) []model.NodeAddress {
	out := make([]model.NodeAddress, len(addrs))
	for i, a := range addrs {
		out[i] = model.NodeAddress{
			Type:    string(a.Type),
			Address: a.Address,
		}
	}
	return out
}
