package model

// DeploymentInfo represents a Kubernetes Deployment and its replica counts.
type DeploymentInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	UID       string `json:"uid"`

	Replicas          int32 `json:"replicas"`
	AvailableReplicas int32 `json:"available_replicas"`
	ReadyReplicas     int32 `json:"ready_replicas"`

	Labels map[string]string `json:"labels"`
}
