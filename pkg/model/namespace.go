package model

// NamespaceInfo represents a Kubernetes namespace.
type NamespaceInfo struct {
	Name   string            `json:"name"`
	UID    string            `json:"uid"`
	Status string            `json:"status"`
	Labels map[string]string `json:"labels"`

	// CreationTimestamp is RFC 3339 formatted, nil when the API server
	// did not report one.
	CreationTimestamp *string `json:"creation_timestamp"`
}
