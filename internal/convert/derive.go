package convert

import (
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// RoleRule maps a label-key prefix to the role it indicates.
type RoleRule struct {
	Prefix string
	Role   model.NodeRole
}

// DefaultRoleRules lists role-indicating label prefixes in precedence order.
// Master-indicating prefixes come first so a node carrying both a
// control-plane and a worker label is classified as master.
var DefaultRoleRules = []RoleRule{
	{Prefix: "node-role.kubernetes.io/master", Role: model.RoleMaster},
	{Prefix: "node-role.kubernetes.io/control-plane", Role: model.RoleMaster},
	{Prefix: "node-role.kubernetes.io/worker", Role: model.RoleWorker},
}

// DeriveNodeRole classifies a node by its label keys using DefaultRoleRules.
// Nodes without any role-indicating label are workers.
func DeriveNodeRole(node *corev1.Node) model.NodeRole {
	if node == nil {
		return model.RoleWorker
	}
	return MatchRole(node.Labels, DefaultRoleRules)
}

// MatchRole evaluates rules in order against the keys of labels and returns
// the role of the first rule that matches any key. Label values are ignored.
func MatchRole(labels map[string]string, rules []RoleRule) model.NodeRole {
	for _, r := range rules {
		for k := range labels {
			if strings.HasPrefix(k, r.Prefix) {
				return r.Role
			}
		}
	}
	return model.RoleWorker
}

// DeriveNodeStatus reports Ready/NotReady from the first Ready condition of
// the node, or Unknown when the node reports no Ready condition.
func DeriveNodeStatus(node *corev1.Node) model.NodeStatus {
	if node == nil {
		return model.NodeUnknown
	}
	for _, c := range node.Status.Conditions {
		if c.Type != corev1.NodeReady {
			continue
		}
		if c.Status == corev1.ConditionTrue {
			return model.NodeReady
		}
		return model.NodeNotReady
	}
	return model.NodeUnknown
}

// DeriveContainerReady returns the ready flag of the named container from
// the pod's reported statuses. It is false when the pod reports no status
// for that container.
func DeriveContainerReady(pod *corev1.Pod, containerName string) bool {
	if pod == nil {
		return false
	}
	for _, s := range pod.Status.ContainerStatuses {
		if s.Name == containerName {
			return s.Ready
		}
	}
	return false
}

// DeriveRestartCount sums restart counters across the pod's container
// statuses. Negative counters are ignored and the sum is kept in int64, so
// the total is never negative even for many large counters.
func DeriveRestartCount(pod *corev1.Pod) int64 {
	if pod == nil {
		return 0
	}
	var total int64
	for _, s := range pod.Status.ContainerStatuses {
		if s.RestartCount > 0 {
			total += int64(s.RestartCount)
		}
	}
	return total
}
