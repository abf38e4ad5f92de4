// Package index cross-references converted pods by the node they run on.
package index

import "github.com/kubeadapt/clusterview/pkg/model"

// NodePods maps node names to the pods scheduled on them. It is built once
// per poll from that poll's pod collection and is read-only afterwards.
type NodePods struct {
	byNode map[string][]model.PodInfo
}

// Build groups pods by assigned node, preserving the order of pods within
// each node. Unscheduled pods are not indexed under any node.
func Build(pods []model.PodInfo) *NodePods {
	idx := &NodePods{byNode: make(map[string][]model.PodInfo)}
	for _, p := range pods {
		node := p.AssignedNode()
		if node == "" {
			continue
		}
		idx.byNode[node] = append(idx.byNode[node], p)
	}
	return idx
}

// PodsOnNode returns the number of pods on node, 0 for unknown nodes.
func (i *NodePods) PodsOnNode(node string) int {
	return len(i.byNode[node])
}

// Pods returns a copy of the pods on node. The result is never nil.
func (i *NodePods) Pods(node string) []model.PodInfo {
	src := i.byNode[node]
	out := make([]model.PodInfo, len(src))
	copy(out, src)
	return out
}

// Nodes returns the number of distinct nodes with at least one pod.
func (i *NodePods) Nodes() int {
	return len(i.byNode)
}
