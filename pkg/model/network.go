package model

// ServiceInfo represents a Kubernetes Service.
type ServiceInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	UID       string `json:"uid"`
	Type      string `json:"type"`

	// ClusterIP is nil when the API server reported none.
	ClusterIP *string           `json:"cluster_ip"`
	Ports     []ServicePortInfo `json:"ports"`

	Labels   map[string]string `json:"labels"`
	Selector map[string]string `json:"selector"`
}

// ServicePortInfo is one port exposed by a service.
type ServicePortInfo struct {
	Port       int32  `json:"port"`
	TargetPort string `json:"target_port"`
	Protocol   string `json:"protocol"`
}
