package snapshot

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/kubeadapt/clusterview/internal/config"
	"github.com/kubeadapt/clusterview/internal/convert"
	"github.com/kubeadapt/clusterview/internal/errors"
	"github.com/kubeadapt/clusterview/internal/index"
	"github.com/kubeadapt/clusterview/internal/metrics"
	"github.com/kubeadapt/clusterview/internal/observability"
	"github.com/kubeadapt/clusterview/internal/source"
	"github.com/kubeadapt/clusterview/pkg/model"
)

// Composer polls the resource source, converts and cross-references the
// results, and enriches nodes with usage. It keeps no state between polls.
type Composer struct {
	source         source.ResourceSource
	adapter        metrics.Adapter
	config         *config.Config
	metrics        *observability.Metrics
	errorCollector *errors.ErrorCollector
	now            func() time.Time
}

// NewComposer creates a Composer with all required dependencies.
func NewComposer(
	src source.ResourceSource,
	adapter metrics.Adapter,
	cfg *config.Config,
	metrics *observability.Metrics,
	errCollector *errors.ErrorCollector,
) *Composer {
	return &Composer{
		source:         src,
		adapter:        adapter,
		config:         cfg,
		metrics:        metrics,
		errorCollector: errCollector,
		now:            time.Now,
	}
}

// collections holds the raw objects of one poll. Only the requested kinds
// are populated.
type collections struct {
	nodes       []corev1.Node
	namespaces  []corev1.Namespace
	pods        []corev1.Pod
	deployments []appsv1.Deployment
	services    []corev1.Service
}

// Build runs one full poll and returns the composed snapshot. If any of the
// five fetches fails the whole snapshot is abandoned and an
// *errors.AggregationError naming the failed kind is returned.
func (c *Composer) Build(ctx context.Context) (*model.ClusterSnapshot, error) {
	start := time.Now()

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	// Step 1: Fetch all five collections concurrently.
	raw, err := c.fetch(ctx, source.Kinds...)
	if err != nil {
		c.metrics.SnapshotBuildTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	snap := &model.ClusterSnapshot{}

	// Step 2: Convert pods and index them. The same slice feeds node counts
	// and any later node detail join.
	snap.Pods = convertAll(raw.pods, convert.PodToModel)
	idx := index.Build(snap.Pods)

	// Step 3: Convert nodes, attach pod counts, enrich usage.
	snap.Nodes = c.nodes(ctx, raw.nodes, idx)

	// Step 4: Remaining kinds.
	snap.Namespaces = convertAll(raw.namespaces, convert.NamespaceToModel)
	snap.Deployments = convertAll(raw.deployments, convert.DeploymentToModel)
	snap.Services = convertAll(raw.services, convert.ServiceToModel)

	// Step 5: Summary and identity.
	snap.Summary = ComputeSummary(snap)
	snap.SnapshotID = uuid.New().String()
	snap.ClusterName = c.config.ClusterName
	snap.Timestamp = c.now().UnixMilli()

	c.recordItems(snap)
	c.metrics.SnapshotBuildTotal.WithLabelValues("success").Inc()
	c.metrics.SnapshotBuildDuration.Observe(time.Since(start).Seconds())

	slog.Debug("snapshot built",
		"snapshot_id", snap.SnapshotID,
		"nodes", len(snap.Nodes),
		"pods", len(snap.Pods),
		"nodes_with_pods", idx.Nodes(),
		"duration", time.Since(start),
	)

	return snap, nil
}

func (c *Composer) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.config.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.config.FetchTimeout)
}

// fetch lists the requested kinds concurrently and joins. The first failure
// cancels the siblings and is returned as an *errors.AggregationError.
func (c *Composer) fetch(ctx context.Context, kinds ...string) (*collections, error) {
	g, gctx := errgroup.WithContext(ctx)
	raw := &collections{}

	for _, kind := range kinds {
		g.Go(func() error {
			fetchStart := time.Now()
			defer func() {
				c.metrics.FetchDuration.WithLabelValues(kind).Observe(time.Since(fetchStart).Seconds())
			}()

			var err error
			switch kind {
			case source.KindNodes:
				raw.nodes, err = c.source.ListNodes(gctx)
			case source.KindNamespaces:
				raw.namespaces, err = c.source.ListNamespaces(gctx)
			case source.KindPods:
				raw.pods, err = c.source.ListPods(gctx)
			case source.KindDeployments:
				raw.deployments, err = c.source.ListDeployments(gctx)
			case source.KindServices:
				raw.services, err = c.source.ListServices(gctx)
			}
			if err != nil {
				return c.fetchFailed(gctx, kind, err)
			}
			c.errorCollector.Resolve(errors.ErrSourceUnavailable, kind)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Composer) fetchFailed(gctx context.Context, kind string, err error) error {
	// Siblings canceled by an earlier failure are not failures of their own.
	if stderrors.Is(err, context.Canceled) && gctx.Err() != nil {
		return &errors.AggregationError{Kind: kind, Cause: err}
	}

	c.metrics.FetchErrorsTotal.WithLabelValues(kind).Inc()
	c.errorCollector.Report(errors.ReportedError{
		Code:      errors.ErrSourceUnavailable,
		Message:   "list " + kind + " failed",
		Component: kind,
		Err:       err,
	})
	slog.Warn("resource fetch failed", "kind", kind, "error", err)
	return &errors.AggregationError{Kind: kind, Cause: err}
}

// nodes converts raw nodes, attaches pod counts from idx, and looks up
// usage for each node with bounded concurrency.
func (c *Composer) nodes(ctx context.Context, raw []corev1.Node, idx *index.NodePods) []model.NodeInfo {
	nodes := make([]model.NodeInfo, len(raw))
	for i := range raw {
		nodes[i] = convert.NodeToModel(&raw[i])
		nodes[i].PodsOnNode = idx.PodsOnNode(nodes[i].Name)
	}
	c.enrichMetrics(ctx, nodes)
	return nodes
}

// enrichMetrics fills Metrics on every node. Lookups never fail; a failed
// lookup leaves the sentinel in place.
func (c *Composer) enrichMetrics(ctx context.Context, nodes []model.NodeInfo) {
	if !c.adapter.Available() || len(nodes) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(max(c.config.MetricsConcurrency, 1))
	for i := range nodes {
		g.Go(func() error {
			nodes[i].Metrics = c.adapter.NodeMetrics(ctx, nodes[i].Name)
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Composer) recordItems(snap *model.ClusterSnapshot) {
	c.metrics.SnapshotItems.WithLabelValues(source.KindNodes).Set(float64(len(snap.Nodes)))
	c.metrics.SnapshotItems.WithLabelValues(source.KindNamespaces).Set(float64(len(snap.Namespaces)))
	c.metrics.SnapshotItems.WithLabelValues(source.KindPods).Set(float64(len(snap.Pods)))
	c.metrics.SnapshotItems.WithLabelValues(source.KindDeployments).Set(float64(len(snap.Deployments)))
	c.metrics.SnapshotItems.WithLabelValues(source.KindServices).Set(float64(len(snap.Services)))
}

// convertAll applies fn to every element of in. The result is never nil.
func convertAll[T, M any](in []T, fn func(*T) M) []M {
	out := make([]M, len(in))
	for i := range in {
		out[i] = fn(&in[i])
	}
	return out
}
