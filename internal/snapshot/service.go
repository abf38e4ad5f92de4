package snapshot

import (
	"context"

	"github.com/kubeadapt/clusterview/internal/convert"
	"github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/index"
	"github.com/kubeadapt/clusterview/internal/source"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// Service is the read-only query surface over the cluster. Every method
// runs its own poll; nothing is cached between calls.
//
// Only GetSnapshot is all-or-nothing across all five resource kinds.
// GetNodes and GetNodeDetail fetch nodes and pods only, and each
// single-kind accessor fetches only its own kind, so they succeed while an
// unrelated kind is unavailable.
type Service struct {
	composer *Composer
}

// NewService wraps a Composer.
func NewService(composer *Composer) *Service {
	return &Service{composer: composer}
}

// GetSnapshot returns a full snapshot.
func (s *Service) GetSnapshot(ctx context.Context) (*model.ClusterSnapshot, error) {
	return s.composer.Build(ctx)
}

// GetNodes returns all nodes with pod counts and usage. Nodes and pods are
// fetched in the same poll.
func (s *Service) GetNodes(ctx context.Context) ([]model.NodeInfo, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindNodes, source.KindPods)
	if err != nil {
		return nil, err
	}
	idx := index.Build(convertAll(raw.pods, convert.PodToModel))
	return c.nodes(ctx, raw.nodes, idx), nil
}

// GetNodeDetail returns the named node joined with the pods scheduled on
// it. The pod list and pods_on_node come from the same pod collection.
// It returns an *errors.NotFoundError when no node has that name.
func (s *Service) GetNodeDetail(ctx context.Context, name string) (*model.NodeDetail, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindNodes, source.KindPods)
	if err != nil {
		return nil, err
	}

	for i := range raw.nodes {
		if raw.nodes[i].Name != name {
			continue
		}
		idx := index.Build(convertAll(raw.pods, convert.PodToModel))
		nodes := c.nodes(ctx, raw.nodes[i:i+1], idx)
		return &model.NodeDetail{
			NodeInfo:    nodes[0],
			PodsDetails: idx.Pods(name),
		}, nil
	}
	return nil, &errors.NotFoundError{Kind: "node", Name: name}
}

// GetNamespaces returns all namespaces.
func (s *Service) GetNamespaces(ctx context.Context) ([]model.NamespaceInfo, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindNamespaces)
	if err != nil {
		return nil, err
	}
	return convertAll(raw.namespaces, convert.NamespaceToModel), nil
}

// GetPods returns pods across all namespaces.
func (s *Service) GetPods(ctx context.Context) ([]model.PodInfo, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindPods)
	if err != nil {
		return nil, err
	}
	return convertAll(raw.pods, convert.PodToModel), nil
}

// GetDeployments returns deployments across all namespaces.
func (s *Service) GetDeployments(ctx context.Context) ([]model.DeploymentInfo, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindDeployments)
	if err != nil {
		return nil, err
	}
	return convertAll(raw.deployments, convert.DeploymentToModel), nil
}

// GetServices returns services across all namespaces.
func (s *Service) GetServices(ctx context.Context) ([]model.ServiceInfo, error) {
	c := s.composer
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.fetch(ctx, source.KindServices)
	if err != nil {
		return nil, err
	}
	return convertAll(raw.services, convert.ServiceToModel), nil
}
