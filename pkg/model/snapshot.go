package model

// ClusterSnapshot is one consistent view of the cluster taken by a single poll.
// It is never mutated after it is returned; the next poll replaces it.
type ClusterSnapshot struct {
	SnapshotID  string `json:"snapshot_id"`
	ClusterName string `json:"cluster_name,omitempty"`
	Timestamp   int64  `json:"timestamp"`

	Nodes       []NodeInfo       `json:"nodes"`
	Namespaces  []NamespaceInfo  `json:"namespaces"`
	Pods        []PodInfo        `json:"pods"`
	Deployments []DeploymentInfo `json:"deployments"`
	Services    []ServiceInfo    `json:"services"`

	Summary ClusterSummary `json:"summary"`
}

// ClusterSummary holds counts computed from a snapshot.
type ClusterSummary struct {
	NodeCount       int `json:"node_count"`
	ReadyNodeCount  int `json:"ready_node_count"`
	MasterNodeCount int `json:"master_node_count"`

	PodCount            int   `json:"pod_count"`
	RunningPodCount     int   `json:"running_pod_count"`
	PendingPodCount     int   `json:"pending_pod_count"`
	SucceededPodCount   int   `json:"succeeded_pod_count"`
	FailedPodCount      int   `json:"failed_pod_count"`
	UnscheduledPodCount int   `json:"unscheduled_pod_count"`
	ContainerCount      int   `json:"container_count"`
	TotalRestarts       int64 `json:"total_restarts"`

	NamespaceCount  int `json:"namespace_count"`
	DeploymentCount int `json:"deployment_count"`
	ServiceCount    int `json:"service_count"`

	MetricsAvailable bool `json:"metrics_available"`
}
