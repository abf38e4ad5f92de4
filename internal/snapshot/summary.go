package snapshot

import "github.com/kubeadapt/clusterview/pkg/model"

// ComputeSummary calculates entity counts from a snapshot.
func ComputeSummary(snapshot *model.ClusterSnapshot) model.ClusterSummary {
	s := model.ClusterSummary{
		NodeCount:       len(snapshot.Nodes),
		PodCount:        len(snapshot.Pods),
		NamespaceCount:  len(snapshot.Namespaces),
		DeploymentCount: len(snapshot.Deployments),
		ServiceCount:    len(snapshot.Services),
	}

	// Pod phase counts and container counts.
	for i := range snapshot.Pods {
		pod := &snapshot.Pods[i]
		switch pod.Phase {
		case "Running":
			s.RunningPodCount++
		case "Pending":
			s.PendingPodCount++
		case "Succeeded":
			s.SucceededPodCount++
		case "Failed":
			s.FailedPodCount++
		}
		if pod.NodeName == nil {
			s.UnscheduledPodCount++
		}
		s.ContainerCount += len(pod.Containers)
		s.TotalRestarts += pod.RestartCount
	}

	// Node readiness, roles, and metrics availability.
	for i := range snapshot.Nodes {
		n := &snapshot.Nodes[i]
		if n.Status == model.NodeReady {
			s.ReadyNodeCount++
		}
		if n.Role == model.RoleMaster {
			s.MasterNodeCount++
		}
		if n.Metrics.Available() {
			s.MetricsAvailable = true
		}
	}

	return s
}
