package convert

import (
	corev1 "k8s.io/api/core/v1"
)

// labelsOrEmpty returns m, or an empty map when m is nil, so that absent
// label sets serialize as {} rather than null.
func labelsOrEmpty(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

// optionalString returns nil for "" and a pointer to s otherwise.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// quantityString renders a resource from a ResourceList in its canonical
// form ("4", "16Gi", "3920m"). Missing resources render as "0".
func quantityString(rl corev1.ResourceList, name corev1.ResourceName) string {
	q, ok := rl[name]
	if !ok {
		return "0"
	}
	return q.String()
}
