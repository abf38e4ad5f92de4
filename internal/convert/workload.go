package convert

import (
	appsv1 "k8s.io/api/apps/v1"
	"k8s.io/utils/ptr"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// DeploymentToModel converts a Kubernetes Deployment to model.DeploymentInfo.
// Pure function.
// Replica counts the API server omitted are reported as 0.
func DeploymentToModel(dep *appsv1.Deployment) model.DeploymentInfo {
	return model.DeploymentInfo{
		Name:      dep.Name,
		Namespace: dep.Namespace,
		UID:       string(dep.UID),

		Replicas:          ptr.Deref(dep.Spec.Replicas, 0),
		AvailableReplicas: dep.Status.AvailableReplicas,
		ReadyReplicas:     dep.Status.ReadyReplicas,

		Labels: labelsOrEmpty(dep.Labels),
	}
}
