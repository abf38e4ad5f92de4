package model

// NodeRole is the derived role of a node.
type NodeRole string

// Node roles. Every node derives to exactly one of these.
const (
	RoleMaster NodeRole = "master"
	RoleWorker NodeRole = "worker"
)

// NodeStatus is the derived readiness of a node.
type NodeStatus string

// Node statuses derived from the Ready condition.
const (
	NodeReady    NodeStatus = "Ready"
	NodeNotReady NodeStatus = "NotReady"
	NodeUnknown  NodeStatus = "Unknown"
)

// MetricsNotAvailable is the sentinel reported for node usage when the
// metrics source is absent or a lookup fails.
const MetricsNotAvailable = "N/A"

// NodeInfo represents a Kubernetes node with its derived role, readiness,
// resource quantities, platform details, and per-node pod count.
type NodeInfo struct {
	Name   string            `json:"name"`
	UID    string            `json:"uid"`
	Labels map[string]string `json:"labels"`

	Role   NodeRole   `json:"role"`
	Status NodeStatus `json:"status"`

	Capacity    NodeResources  `json:"capacity"`
	Allocatable NodeResources  `json:"allocatable"`
	Info        NodeSystemInfo `json:"info"`
	Addresses   []NodeAddress  `json:"addresses"`

	PodsOnNode int         `json:"pods_on_node"`
	Metrics    NodeMetrics `json:"metrics"`
}

// NodeResources holds cpu, memory, and pod-slot quantities as the API
// server reports them (e.g. "4", "16Gi", "110").
type NodeResources struct {
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
	Pods   string `json:"pods"`
}

// NodeSystemInfo is the platform information reported by the kubelet.
type NodeSystemInfo struct {
	OS               string `json:"os"`
	Architecture     string `json:"architecture"`
	Kernel           string `json:"kernel"`
	ContainerRuntime string `json:"container_runtime"`
	KubeletVersion   string `json:"kubelet_version"`
}

// NodeAddress is a single network address of a node.
type NodeAddress struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

// NodeMetrics is the current cpu and memory usage of a node as reported by
// metrics-server. Both fields hold MetricsNotAvailable when usage is unknown.
type NodeMetrics struct {
	CPU    string `json:"cpu"`
	Memory string `json:"memory"`
}

// UnavailableNodeMetrics returns the sentinel usage pair.
func UnavailableNodeMetrics() NodeMetrics {
	return NodeMetrics{CPU: MetricsNotAvailable, Memory: MetricsNotAvailable}
}

// Available reports whether m carries real usage values.
func (m NodeMetrics) Available() bool {
	return m.CPU != MetricsNotAvailable && m.Memory != MetricsNotAvailable
}

// NodeDetail is a node joined with the pods scheduled onto it.
type NodeDetail struct {
	NodeInfo
	PodsDetails []PodInfo `json:"pods_details"`
}
