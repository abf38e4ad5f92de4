package convert

import (
	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// ServiceToModel converts a Kubernetes Service to model.ServiceInfo.
// Pure function.
func ServiceToModel(svc *corev1.Service) model.ServiceInfo {
	info := model.ServiceInfo{
		Name:      svc.Name,
		Namespace: svc.Namespace,
		UID:       string(svc.UID),
		Type:      string(svc.Spec.Type),

		ClusterIP: optionalString(svc.Spec.ClusterIP),
		Ports:     make([]model.ServicePortInfo, len(svc.Spec.Ports)),

		Labels:   labelsOrEmpty(svc.Labels),
		Selector: labelsOrEmpty(svc.Spec.Selector),
	}

	for i, p := range svc.Spec.Ports {
		info.Ports[i] = model.ServicePortInfo{
			Port:       p.Port,
			TargetPort: p.TargetPort.String(),
			Protocol:   string(p.Protocol),
		}
	}

	return info
}
