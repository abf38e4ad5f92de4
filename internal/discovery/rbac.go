package discovery

import (
	"context"
	"fmt"

	authorizationv1 "k8s.io/api/authorization/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/kubernetes"
)

// ListedResource is a resource clusterview lists on every poll.
type ListedResource struct {
	Group    string
	Resource string
}

// PolledResources are the five collections a snapshot is built from.
var PolledResources = []ListedResource{
	{Group: "", Resource: "nodes"},
	{Group: "", Resource: "namespaces"},
	{Group: "", Resource: "pods"},
	{Group: "apps", Resource: "deployments"},
	{Group: "", Resource: "services"},
}

// CheckResource performs a 3-phase conditional check for a Kubernetes resource:
//
//  1. API group exists, via ServerGroups discovery
//  2. Resource exists, via ServerResourcesForGroupVersion
//  3. RBAC allows every verb in verbs, via SelfSubjectAccessReview
//
// If any phase fails or the resource is unavailable, it returns false with no error.
// Errors are only returned for unexpected failures (e.g., network issues).
func CheckResource(ctx context.Context, client kubernetes.Interface, discoveryClient discovery.DiscoveryInterface, group, version, resource string, verbs ...string) (bool, error) {
	groups, err := discoveryClient.ServerGroups()
	if err != nil {
		return false, fmt.Errorf("discovery: phase 1 check API group %q: %w", group, err)
	}
	return checkListedResource(ctx, client, discoveryClient, groups, group, version, resource, verbs...)
}

// checkListedResource runs the three phases against an already fetched
// group list.
func checkListedResource(ctx context.Context, client kubernetes.Interface, discoveryClient discovery.DiscoveryInterface, groups *metav1.APIGroupList, group, version, resource string, verbs ...string) (bool, error) {
	// Phase 1: Check if API group exists.
	if !groupListed(groups, group) {
		return false, nil
	}

	// Phase 2: Check if specific resource exists in the group.
	resourceExists, err := hasResource(discoveryClient, group, version, resource)
	if err != nil {
		return false, fmt.Errorf("discovery: phase 2 check resource %q in %s/%s: %w", resource, group, version, err)
	}
	if !resourceExists {
		return false, nil
	}

	// Phase 3: Verify RBAC.
	canAccess, err := CanAccess(ctx, client, group, resource, verbs...)
	if err != nil {
		return false, fmt.Errorf("discovery: phase 3 RBAC check for %q: %w", resource, err)
	}

	return canAccess, nil
}

// hasResource checks if a specific resource exists in a group/version.
func hasResource(discoveryClient discovery.DiscoveryInterface, group, version, resource string) (bool, error) {
	groupVersion := version
	if group != "" {
		groupVersion = group + "/" + version
	}

	resources, err := discoveryClient.ServerResourcesForGroupVersion(groupVersion)
	if err != nil {
		// A missing group/version means the resource is missing.
		if errors.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}

	for _, r := range resources.APIResources {
		if r.Name == resource {
			return true, nil
		}
	}
	return false, nil
}

// CanAccess checks if the current identity may perform every verb on the
// given resource across all namespaces.
func CanAccess(ctx context.Context, client kubernetes.Interface, group, resource string, verbs ...string) (bool, error) {
	for _, verb := range verbs {
		allowed, err := checkAccess(ctx, client, group, resource, verb)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

// Preflight checks that the current identity may list every polled
// resource. It returns the resources that are denied; a poll will fail
// while any are. Errors are returned only when the review itself fails.
func Preflight(ctx context.Context, client kubernetes.Interface) ([]ListedResource, error) {
	var denied []ListedResource
	for _, r := range PolledResources {
		ok, err := CanAccess(ctx, client, r.Group, r.Resource, "list")
		if err != nil {
			return nil, err
		}
		if !ok {
			denied = append(denied, r)
		}
	}
	return denied, nil
}

// checkAccess creates a SelfSubjectAccessReview for a single verb.
func checkAccess(ctx context.Context, client kubernetes.Interface, group, resource, verb string) (bool, error) {
	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Verb:     verb,
				Group:    group,
				Resource: resource,
			},
		},
	}

	result, err := client.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return false, fmt.Errorf("SelfSubjectAccessReview for %s/%s verb=%s: %w", group, resource, verb, err)
	}

	return result.Status.Allowed, nil
}
