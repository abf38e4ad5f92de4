package convert

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/kubeadapt/clusterview/pkg/model"
)

func nodeWithLabels(labels map[string]string) *corev1.Node {
	return &corev1.Node{ObjectMeta: metav1.ObjectMeta{Name: "n", Labels: labels}}
}

func TestDeriveNodeRole(t *testing.T) {
	tests := []struct {
		name   string
		labels map[string]string
		want   model.NodeRole
	}{
		{"no labels", nil, model.RoleWorker},
		{"unrelated labels", map[string]string{"kubernetes.io/os": "linux"}, model.RoleWorker},
		{"master label", map[string]string{"node-role.kubernetes.io/master": ""}, model.RoleMaster},
		{"control-plane label", map[string]string{"node-role.kubernetes.io/control-plane": ""}, model.RoleMaster},
		{"worker label", map[string]string{"node-role.kubernetes.io/worker": "true"}, model.RoleWorker},
		{"value is ignored", map[string]string{"node-role.kubernetes.io/master": "false"}, model.RoleMaster},
		{
			"control-plane wins over worker",
			map[string]string{
				"node-role.kubernetes.io/worker":        "",
				"node-role.kubernetes.io/control-plane": "",
			},
			model.RoleMaster,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Map iteration order is random; repeat to catch order dependence.
			for range 20 {
				assert.Equal(t, tt.want, DeriveNodeRole(nodeWithLabels(tt.labels)))
			}
		})
	}
}

func TestDeriveNodeRole_Nil(t *testing.T) {
	assert.Equal(t, model.RoleWorker, DeriveNodeRole(nil))
}

func TestMatchRole_CustomRules(t *testing.T) {
	rules := []RoleRule{{Prefix: "example.com/infra", Role: model.RoleMaster}}
	assert.Equal(t, model.RoleMaster, MatchRole(map[string]string{"example.com/infra-pool": "a"}, rules))
	assert.Equal(t, model.RoleWorker, MatchRole(map[string]string{"node-role.kubernetes.io/master": ""}, rules))
}

func TestDeriveNodeStatus(t *testing.T) {
	tests := []struct {
		name       string
		conditions []corev1.NodeCondition
		want       model.NodeStatus
	}{
		{"no conditions", nil, model.NodeUnknown},
		{
			"no ready condition",
			[]corev1.NodeCondition{{Type: corev1.NodeDiskPressure, Status: corev1.ConditionFalse}},
			model.NodeUnknown,
		},
		{
			"ready true",
			[]corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
			model.NodeReady,
		},
		{
			"ready false",
			[]corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionFalse}},
			model.NodeNotReady,
		},
		{
			"ready unknown",
			[]corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionUnknown}},
			model.NodeNotReady,
		},
		{
			"first ready condition decides",
			[]corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionFalse},
				{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
			},
			model.NodeNotReady,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &corev1.Node{Status: corev1.NodeStatus{Conditions: tt.conditions}}
			assert.Equal(t, tt.want, DeriveNodeStatus(node))
		})
	}
	assert.Equal(t, model.NodeUnknown, DeriveNodeStatus(nil))
}

func TestDeriveContainerReady(t *testing.T) {
	pod := &corev1.Pod{Status: corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{
		{Name: "c1", Ready: true},
		{Name: "c2", Ready: false},
	}}}

	assert.True(t, DeriveContainerReady(pod, "c1"))
	assert.False(t, DeriveContainerReady(pod, "c2"))
	assert.False(t, DeriveContainerReady(pod, "c3"), "missing status means not ready")
	assert.False(t, DeriveContainerReady(pod, "C1"), "names match exactly")
	assert.False(t, DeriveContainerReady(nil, "c1"))
}

func TestDeriveRestartCount(t *testing.T) {
	statuses := func(counts ...int32) *corev1.Pod {
		pod := &corev1.Pod{}
		for i, c := range counts {
			pod.Status.ContainerStatuses = append(pod.Status.ContainerStatuses, corev1.ContainerStatus{
				Name:         fmt.Sprintf("c%d", i+1),
				RestartCount: c,
			})
		}
		return pod
	}

	tests := []struct {
		name string
		pod  *corev1.Pod
		want int64
	}{
		{"nil pod", nil, 0},
		{"no statuses", &corev1.Pod{}, 0},
		{"sum", statuses(2, 1), 3},
		{"negative ignored", statuses(-5, 4), 4},
		{"large counters do not wrap", statuses(math.MaxInt32, 1), int64(math.MaxInt32) + 1},
		{"many max counters", statuses(math.MaxInt32, math.MaxInt32, math.MaxInt32), 3 * int64(math.MaxInt32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveRestartCount(tt.pod)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}
