// Package output renders snapshots for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"sigs.k8s.io/yaml"

	"github.com/kubeadapt/clusterview/pkg/model"
)

// Format is an output format name.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

// Formats lists the supported formats, for flag help.
var Formats = []Format{FormatJSON, FormatYAML, FormatTable}

// ParseFormat validates a user supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatYAML, FormatTable:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (want json, yaml or table)", s)
	}
}

// Writer writes snapshots in one format.
type Writer struct {
	format Format
	output io.Writer
}

// NewWriter creates a Writer. A nil output writes to stdout.
func NewWriter(format Format, output io.Writer) *Writer {
	if output == nil {
		output = os.Stdout
	}
	return &Writer{format: format, output: output}
}

// Write renders snap in the configured format.
func (w *Writer) Write(snap *model.ClusterSnapshot) error {
	switch w.format {
	case FormatJSON:
		return w.writeJSON(snap)
	case FormatYAML:
		return w.writeYAML(snap)
	case FormatTable:
		return w.writeTable(snap)
	default:
		return fmt.Errorf("unsupported format: %s", w.format)
	}
}

func (w *Writer) writeJSON(snap *model.ClusterSnapshot) error {
	encoder := json.NewEncoder(w.output)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snap); err != nil {
		return fmt.Errorf("failed to serialize to JSON: %w", err)
	}
	return nil
}

// writeYAML goes through the JSON tags so both formats share field names.
func (w *Writer) writeYAML(snap *model.ClusterSnapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize to YAML: %w", err)
	}
	if _, err := w.output.Write(data); err != nil {
		return fmt.Errorf("failed to write YAML: %w", err)
	}
	return nil
}

func (w *Writer) writeTable(snap *model.ClusterSnapshot) error {
	s := snap.Summary
	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "SNAPSHOT\t%s\n", snap.SnapshotID)
	if snap.ClusterName != "" {
		fmt.Fprintf(tw, "CLUSTER\t%s\n", snap.ClusterName)
	}
	fmt.Fprintf(tw, "NODES\t%d (%d ready, %d master)\n", s.NodeCount, s.ReadyNodeCount, s.MasterNodeCount)
	fmt.Fprintf(tw, "PODS\t%d (%d running, %d pending, %d succeeded, %d failed, %d unscheduled)\n",
		s.PodCount, s.RunningPodCount, s.PendingPodCount, s.SucceededPodCount, s.FailedPodCount, s.UnscheduledPodCount)
	fmt.Fprintf(tw, "CONTAINERS\t%d (%d restarts)\n", s.ContainerCount, s.TotalRestarts)
	fmt.Fprintf(tw, "NAMESPACES\t%d\n", s.NamespaceCount)
	fmt.Fprintf(tw, "DEPLOYMENTS\t%d\n", s.DeploymentCount)
	fmt.Fprintf(tw, "SERVICES\t%d\n", s.ServiceCount)
	fmt.Fprintf(tw, "METRICS\t%t\n", s.MetricsAvailable)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "NAME\tROLE\tSTATUS\tPODS\tCPU\tMEMORY\tKUBELET")
	for _, n := range snap.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			n.Name, n.Role, n.Status, n.PodsOnNode, n.Metrics.CPU, n.Metrics.Memory, n.Info.KubeletVersion)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}
	return nil
}
