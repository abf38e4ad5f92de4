package discovery

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/kubernetes"
)

// The metrics API the node usage lookups depend on.
const (
	apiGroupMetrics    = "metrics.k8s.io"
	apiVersionMetrics  = "v1beta1"
	resourceNodeMetric = "nodes"
)

// Capabilities describes optional cluster features detected at startup.
// Results are computed once and cached for the process lifetime.
type Capabilities struct {
	MetricsServer bool   // metrics.k8s.io/v1beta1 nodes is served and readable
	ServerVersion string // e.g. "v1.29.1", empty if the server did not report one
}

// Detect probes the cluster for the metrics API and the server version.
// It is intended to run once at startup. Only a failure to list server
// groups is returned as an error; a metrics API that exists but cannot be
// checked is reported as unavailable.
func Detect(ctx context.Context, client kubernetes.Interface, discoveryClient discovery.DiscoveryInterface) (*Capabilities, error) {
	caps := &Capabilities{}

	groups, err := discoveryClient.ServerGroups()
	if err != nil {
		return nil, fmt.Errorf("discovery: failed to list server groups: %w", err)
	}

	available, err := checkListedResource(ctx, client, discoveryClient, groups, apiGroupMetrics, apiVersionMetrics, resourceNodeMetric, "get")
	if err != nil {
		slog.Warn("metrics API check failed, treating as unavailable", "error", err)
		available = false
	}
	caps.MetricsServer = available

	if info, err := discoveryClient.ServerVersion(); err == nil && info != nil {
		caps.ServerVersion = info.GitVersion
	}

	return caps, nil
}

// groupListed reports whether group is registered in the discovered list.
func groupListed(groups *metav1.APIGroupList, group string) bool {
	if groups == nil {
		return false
	}
	for _, g := range groups.Groups {
		if g.Name == group {
			return true
		}
	}
	return false
}
