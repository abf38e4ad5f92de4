package model

// PodInfo represents a Kubernetes pod with its containers and derived
// restart total.
type PodInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	UID       string `json:"uid"`

	// NodeName is nil for pods that have not been scheduled.
	NodeName *string `json:"node"`
	Phase    string  `json:"status"`
	// PodIP is nil until the pod has been assigned an address.
	PodIP *string `json:"ip"`

	Labels     map[string]string `json:"labels"`
	Containers []ContainerInfo   `json:"containers"`

	RestartCount int64 `json:"restart_count"`
}

// AssignedNode returns the node the pod is scheduled on, or "" if none.
func (p PodInfo) AssignedNode() string {
	if p.NodeName == nil {
		return ""
	}
	return *p.NodeName
}

// ContainerInfo summarizes one container of a pod.
type ContainerInfo struct {
	Name  string `json:"name"`
	Image string `json:"image"`
	Ready bool   `json:"ready"`
}
